package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	photoKey contextKey = "photo"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPhoto annotates context with the photo currently being processed.
func WithPhoto(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, photoKey, name)
}

// PhotoFromContext returns the photo name if present.
func PhotoFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(photoKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
