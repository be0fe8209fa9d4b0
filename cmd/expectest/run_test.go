package main

import (
	"os"
	"path/filepath"
	"testing"

	"expectest/internal/manifest"
)

func TestResolveRunConfig_ManifestOnly(t *testing.T) {
	dir := writeManifest(t, `
[suite]
ext = ".sg"

[compiler]
cmd = "surge"
args = ["diag"]

[run]
jobs = 3
revisions = ["cfg1"]
`)
	resetRunFlags(t)

	cfg, root, err := resolveRunConfig(dir)
	if err != nil {
		t.Fatalf("resolveRunConfig() error = %v", err)
	}
	if root != dir {
		t.Errorf("root = %q, want %q", root, dir)
	}
	if len(cfg.Compiler) != 2 || cfg.Compiler[0] != "surge" || cfg.Compiler[1] != "diag" {
		t.Errorf("compiler = %v", cfg.Compiler)
	}
	if cfg.Ext != ".sg" || cfg.Jobs != 3 {
		t.Errorf("ext = %q, jobs = %d", cfg.Ext, cfg.Jobs)
	}
	if len(cfg.Revisions) != 1 || cfg.Revisions[0] != "cfg1" {
		t.Errorf("revisions = %v", cfg.Revisions)
	}
}

func TestResolveRunConfig_FlagsWin(t *testing.T) {
	dir := writeManifest(t, `
[compiler]
cmd = "surge"

[run]
jobs = 3
`)
	resetRunFlags(t)
	runCompiler = []string{"other-cc", "-q"}
	runExt = ".txt"
	runJobs = 7

	cfg, _, err := resolveRunConfig(dir)
	if err != nil {
		t.Fatalf("resolveRunConfig() error = %v", err)
	}
	if cfg.Compiler[0] != "other-cc" {
		t.Errorf("compiler = %v, flag should win over manifest", cfg.Compiler)
	}
	if cfg.Ext != ".txt" || cfg.Jobs != 7 {
		t.Errorf("ext = %q, jobs = %d", cfg.Ext, cfg.Jobs)
	}
}

func TestResolveRunConfig_NoCompiler(t *testing.T) {
	resetRunFlags(t)
	if _, _, err := resolveRunConfig(t.TempDir()); err == nil {
		t.Fatal("expected an error when no compiler is configured")
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func resetRunFlags(t *testing.T) {
	t.Helper()
	origCompiler, origExt, origRevisions := runCompiler, runExt, runRevisions
	origJobs, origNoCache := runJobs, runNoCache
	t.Cleanup(func() {
		runCompiler, runExt, runRevisions = origCompiler, origExt, origRevisions
		runJobs, runNoCache = origJobs, origNoCache
	})
	runCompiler = nil
	runExt = ""
	runRevisions = nil
	runJobs = 0
	runNoCache = true
}
