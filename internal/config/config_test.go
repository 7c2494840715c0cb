package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("MEMCTL_COMMIT", "")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetString("commit"); got != "HEAD" {
		t.Errorf("commit default = %q, want HEAD", got)
	}
	if GetBool("json") {
		t.Error("json should default to false")
	}
	if got := GetString("out"); got != "-" {
		t.Errorf("out default = %q, want -", got)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MEMCTL_JSON", "true")
	t.Setenv("MEMCTL_COMMIT", "main")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !GetBool("json") {
		t.Error("MEMCTL_JSON=true should enable json")
	}
	if got := GetString("commit"); got != "main" {
		t.Errorf("commit = %q, want main", got)
	}
}

func TestProjectConfigFileDiscovery(t *testing.T) {
	dir := t.TempDir()
	aiDir := filepath.Join(dir, ".ai")
	if err := os.MkdirAll(aiDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(aiDir, "memctl.yaml"), []byte("commit: release\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Discovery walks up from CWD, so a subdirectory finds it too.
	sub := filepath.Join(dir, "deep", "inside")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(sub); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	}()

	t.Setenv("MEMCTL_COMMIT", "")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetString("commit"); got != "release" {
		t.Errorf("commit = %q, want release from .ai/memctl.yaml", got)
	}
}
