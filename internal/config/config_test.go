// ABOUTME: Tests for user config loading
// ABOUTME: Validates defaults and toml decoding
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	want := filepath.Join(GetDataHome(), "codepac")
	if cfg.StoreDir != want {
		t.Errorf("got store_dir %s, want %s", cfg.StoreDir, want)
	}
	if cfg.FetchDir != "pacs" {
		t.Errorf("got fetch_dir %s, want pacs", cfg.FetchDir)
	}
	if cfg.DefaultAuthor != "" {
		t.Errorf("got default_author %s, want empty", cfg.DefaultAuthor)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
store_dir = "/data/codepac"
default_author = "jane"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.StoreDir != "/data/codepac" {
		t.Errorf("got store_dir %s, want /data/codepac", cfg.StoreDir)
	}
	if cfg.DefaultAuthor != "jane" {
		t.Errorf("got default_author %s, want jane", cfg.DefaultAuthor)
	}
	// Unset keys keep their defaults
	if cfg.FetchDir != "pacs" {
		t.Errorf("got fetch_dir %s, want pacs", cfg.FetchDir)
	}

	if got, want := cfg.DBPath(), filepath.Join("/data/codepac", "codepac.db"); got != want {
		t.Errorf("got db path %s, want %s", got, want)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("store_dir = ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed toml")
	}
}
