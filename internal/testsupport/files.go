package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

var (
	jpegStart = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	jpegEnd   = []byte{0xFF, 0xD9}
)

// WriteFile creates path (and its parent directories) holding a placeholder
// image of roughly size bytes: JPEG start and end markers around padding.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	padding := max(size-int64(len(jpegStart)+len(jpegEnd)), 0)
	var buf bytes.Buffer
	buf.Grow(int(padding) + len(jpegStart) + len(jpegEnd))
	buf.Write(jpegStart)
	buf.Write(bytes.Repeat([]byte{0x00}, int(padding)))
	buf.Write(jpegEnd)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
