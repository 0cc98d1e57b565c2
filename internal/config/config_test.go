package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Session.CookieName != "TSESSION" {
		t.Errorf("CookieName: got %q, want TSESSION", cfg.Session.CookieName)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("TTL: got %s, want 24h", cfg.Session.TTL)
	}
	if cfg.Sheets.DefaultChildID != 1 {
		t.Errorf("DefaultChildID: got %d, want 1", cfg.Sheets.DefaultChildID)
	}
	if cfg.SheetsEnabled() {
		t.Error("Expected sheets to be disabled without credentials")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRACKER_SERVER_PORT", "9191")
	t.Setenv("TRACKER_SESSION_BACKEND", "redis")
	t.Setenv("TRACKER_SESSION_TTL", "2h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr() != ":9191" {
		t.Errorf("Addr: got %q, want :9191", cfg.Addr())
	}
	if cfg.Session.Backend != "redis" {
		t.Errorf("Backend: got %q, want redis", cfg.Session.Backend)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("TTL: got %s, want 2h", cfg.Session.TTL)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.yaml")
	content := []byte(`
database:
  path: /tmp/custom.db
sheets:
  spreadsheet_id: abc123
  credentials_file: /etc/creds.json
  default_child_id: 7
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("Database.Path: got %q", cfg.Database.Path)
	}
	if !cfg.SheetsEnabled() {
		t.Error("Expected sheets to be enabled")
	}
	if cfg.Sheets.DefaultChildID != 7 {
		t.Errorf("DefaultChildID: got %d, want 7", cfg.Sheets.DefaultChildID)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRACKER_SESSION_BACKEND", "memcached")

	if _, err := Load(""); err == nil {
		t.Error("Expected error for unknown session backend, got nil")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file, got nil")
	}
}
