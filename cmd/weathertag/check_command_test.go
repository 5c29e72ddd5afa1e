package main

import (
	"path/filepath"
	"testing"
)

func TestCheckCommandPasses(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check", "--log", env.logPath, "--dir", env.photoDir, "--write"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[OK] "+env.cfg.Exiftool.Binary+" (version 12.76)")
	requireContains(t, out, "Measurement log:")
	requireContains(t, out, "read/write ok")
	requireContains(t, out, env.configPath)
	requireContains(t, out, env.cfg.HistoryPath())
}

func TestCheckCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check", "--log", filepath.Join(env.baseDir, "missing.csv")}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail for missing log")
	}
	requireContains(t, err.Error(), "Measurement log")
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "does not exist")
}
