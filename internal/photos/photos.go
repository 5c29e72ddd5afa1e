// Package photos discovers the image files a match run operates on.
package photos

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"weathertag/internal/logging"
)

// ErrNotDirectory is returned when the photo root is not a directory.
var ErrNotDirectory = errors.New("photo path is not a directory")

// Options controls discovery.
type Options struct {
	// Extensions are matched case-insensitively, with or without a leading dot.
	Extensions []string
	Recursive  bool
}

// Discover lists photo files under dir sorted lexically by path. Hidden files
// and directories are skipped. Only an unusable dir is an error; a
// subdirectory that cannot be read is logged and skipped.
func Discover(dir string, opts Options, logger *slog.Logger) ([]string, error) {
	logger = logging.NewComponentLogger(logger, "photos")
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("photo directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	allowed := extensionSet(opts.Extensions)
	var found []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			logging.WarnWithContext(logger, "skipping unreadable path", "photo_path_unreadable",
				logging.String("path", path),
				logging.String(logging.FieldImpact, "photos below this path are not matched"),
				logging.Error(walkErr),
			)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == dir {
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	slices.Sort(found)
	return found, nil
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
