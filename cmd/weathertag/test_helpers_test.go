package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weathertag/internal/config"
	"weathertag/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	logPath    string
	photoDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("WEATHERTAG_EXIFTOOL", "")
	cfg := testsupport.NewConfig(t, testsupport.WithFakeExiftool())

	configPath := filepath.Join(homeDir, ".config", "weathertag", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	logPath := filepath.Join(base, "weather.csv")
	testsupport.WriteLog(t, logPath,
		"Date,Time,Temp,Humidity,Pressure",
		`11/17/2025,4:44 AM,24.0 °C,88 %,"1,012.02 hPa"`,
		"11/17/2025,9:00 AM,26.5 °C,70 %,1010 hPa",
	)

	photoDir := filepath.Join(base, "photos")
	testsupport.WritePhoto(t, filepath.Join(photoDir, "a.jpg"), "2025:11:17 04:50:00")
	testsupport.WritePhoto(t, filepath.Join(photoDir, "b.jpg"), "2025:11:17 06:45:00")
	testsupport.WritePhoto(t, filepath.Join(photoDir, "c.jpg"), "")

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		logPath:    logPath,
		photoDir:   photoDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\n\n[exiftool]\nbinary = %q\ntimeout_seconds = %d\n\n[history]\nenabled = %t\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Exiftool.Binary,
		cfg.Exiftool.TimeoutSeconds,
		cfg.History.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
