package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"TRYON_HOST", "TRYON_PORT", "TRYON_PUBLIC_URL", "TRYON_STATIC_DIR",
		"TRYON_CONTENT_FILE", "TRYON_DATA_DIR", "TRYON_MAX_UPLOAD_MB"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Host != "localhost" || cfg.Port != 5000 {
		t.Errorf("unexpected address %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.StaticDir != "static" || cfg.DataDir != "data" {
		t.Errorf("unexpected directories %q %q", cfg.StaticDir, cfg.DataDir)
	}
	if cfg.MaxUploadBytes() != 8<<20 {
		t.Errorf("unexpected upload limit %d", cfg.MaxUploadBytes())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRYON_HOST", "0.0.0.0")
	t.Setenv("TRYON_PORT", "8081")
	t.Setenv("TRYON_PUBLIC_URL", "https://tryon.example.com/")
	t.Setenv("TRYON_DATA_DIR", "/var/lib/tryon")
	t.Setenv("TRYON_MAX_UPLOAD_MB", "2")

	cfg := Load()
	if cfg.Host != "0.0.0.0" || cfg.Port != 8081 {
		t.Errorf("unexpected address %s:%d", cfg.Host, cfg.Port)
	}
	if got := cfg.LookURL("abc"); got != "https://tryon.example.com/looks/abc" {
		t.Errorf("unexpected look url %q", got)
	}
	if got := cfg.ContactFile(); got != filepath.Join("/var/lib/tryon", "contact.jsonl") {
		t.Errorf("unexpected contact file %q", got)
	}
	if got := cfg.LooksDir(); got != filepath.Join("/var/lib/tryon", "looks") {
		t.Errorf("unexpected looks dir %q", got)
	}
	if cfg.MaxUploadBytes() != 2<<20 {
		t.Errorf("unexpected upload limit %d", cfg.MaxUploadBytes())
	}
}

func TestEnvIntInvalid(t *testing.T) {
	t.Setenv("TRYON_PORT", "-1")
	if got := envInt("TRYON_PORT", 5000); got != 5000 {
		t.Errorf("expected default for negative value, got %d", got)
	}
	t.Setenv("TRYON_PORT", "abc")
	if got := envInt("TRYON_PORT", 5000); got != 5000 {
		t.Errorf("expected default for invalid value, got %d", got)
	}
}
