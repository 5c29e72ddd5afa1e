package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// The fake keys its behaviour off sidecar files next to the photo:
//
//	<photo>.capture   printed verbatim for capture-time reads
//	<photo>.readonly  makes writes fail
//	<photo>.slow      makes every call hang
//	<photo>.warn      adds a stderr warning to capture-time reads
//
// Successful writes append their tag arguments to <photo>.written.
const fakeExiftoolScript = `#!/bin/sh
echo "$*" >> "%CALLS%"
if [ "$1" = "-ver" ]; then
  echo "12.76"
  exit 0
fi
last=""
for arg in "$@"; do last="$arg"; done
if [ -f "$last.slow" ]; then
  exec sleep 30
fi
if [ ! -e "$last" ]; then
  echo "Error: File not found - $last" >&2
  exit 1
fi
case "$1" in
  -s3)
    if [ -f "$last.warn" ]; then echo "Warning: [minor] Bad MakerNotes directory - $last" >&2; fi
    if [ -f "$last.capture" ]; then cat "$last.capture"; fi
    ;;
  -overwrite_original)
    if [ -f "$last.readonly" ]; then
      echo "Error: $last is read-only" >&2
      echo "    0 image files updated"
      exit 1
    fi
    shift
    for arg in "$@"; do
      [ "$arg" = "$last" ] || echo "$arg" >> "$last.written"
    done
    echo "    1 image files updated"
    ;;
esac
exit 0
`

// FakeExiftool writes a scripted exiftool stand-in into a temp directory and
// returns its absolute path together with the file recording every call.
func FakeExiftool(t testing.TB) (binary, calls string) {
	t.Helper()
	return writeFakeExiftool(t, t.TempDir())
}

func writeFakeExiftool(t testing.TB, dir string) (string, string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	calls := filepath.Join(dir, "exiftool.calls")
	binary := filepath.Join(dir, "exiftool")
	script := strings.ReplaceAll(fakeExiftoolScript, "%CALLS%", calls)
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake exiftool: %v", err)
	}
	return binary, calls
}

// WritePhoto creates a placeholder photo. A non-empty capture value is what the
// fake exiftool reports as its capture time.
func WritePhoto(t testing.TB, path, capture string) {
	t.Helper()
	WriteFile(t, path, 64)
	if capture == "" {
		return
	}
	if err := os.WriteFile(path+".capture", []byte(capture+"\n"), 0o644); err != nil {
		t.Fatalf("write capture sidecar: %v", err)
	}
}

// MarkPhoto drops a behaviour sidecar (readonly, slow, warn) next to path.
func MarkPhoto(t testing.TB, path, marker string) {
	t.Helper()
	if err := os.WriteFile(path+"."+marker, nil, 0o644); err != nil {
		t.Fatalf("write %s sidecar: %v", marker, err)
	}
}

// WrittenTags returns the tag assignments the fake recorded for path.
func WrittenTags(t testing.TB, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path + ".written")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read written sidecar: %v", err)
	}
	return strings.Fields(string(data))
}

// WriteLog writes a measurement log with the given lines.
func WriteLog(t testing.TB, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}
