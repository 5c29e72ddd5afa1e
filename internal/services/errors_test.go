package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"weathertag/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "exiftool", "write", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"exiftool", "write", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaults(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrTimeout, "exiftool", "read", "", nil), "timeout"},
		{services.Wrap(services.ErrNotFound, "exiftool", "read", "", nil), "not_found"},
		{services.Wrap(services.ErrValidation, "exiftool", "read", "", nil), "invalid"},
		{services.Wrap(services.ErrConfiguration, "exiftool", "read", "", nil), "config"},
		{services.Wrap(services.ErrExternalTool, "exiftool", "read", "", nil), "tool"},
		{fmt.Errorf("outer: %w", services.ErrTimeout), "timeout"},
		{errors.New("plain"), "error"},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
