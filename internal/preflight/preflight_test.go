package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"weathertag/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckPhotoDirectoryReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if result := CheckPhotoDirectory(dir, false); !result.Passed {
		t.Fatalf("expected preview to pass on read-only dir, got %s", result.Detail)
	}
	if result := CheckPhotoDirectory(dir, true); result.Passed {
		t.Fatal("expected write run to fail on read-only dir")
	}
}

func TestCheckLogFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "weather.csv")
	testsupport.WriteLog(t, good, "11/17/2025,4:44 AM,24.0,88,1012.02")
	if result := CheckLogFile(good); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"missing":   filepath.Join(dir, "missing.csv"),
		"directory": dir,
		"empty":     empty,
	}
	for name, path := range cases {
		if result := CheckLogFile(path); result.Passed {
			t.Fatalf("%s: expected failure", name)
		}
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFakeExiftool())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	base := testsupport.BaseDir(cfg)
	logPath := filepath.Join(base, "weather.csv")
	testsupport.WriteLog(t, logPath, "11/17/2025,4:44 AM,24.0,88,1012.02")
	photoDir := filepath.Join(base, "photos")
	if err := os.MkdirAll(photoDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg, logPath, photoDir, true)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	results = RunAll(context.Background(), cfg, "", "", false)
	if len(results) != 2 {
		t.Fatalf("expected log and photo checks to be skipped, got %d", len(results))
	}
}

func TestRunAllMissingExiftool(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Exiftool.Binary = filepath.Join(t.TempDir(), "exiftool")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	failed := Failed(RunAll(context.Background(), cfg, "", "", false))
	if len(failed) != 1 || failed[0].Name != "ExifTool" {
		t.Fatalf("expected exiftool failure only, got %+v", failed)
	}
}
