package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.APIBase != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected default api base: %q", cfg.APIBase)
	}
	if cfg.AlertTTL() != 15*time.Second {
		t.Fatalf("unexpected default alert ttl: %s", cfg.AlertTTL())
	}
	if !cfg.AltScreen {
		t.Fatalf("expected alt screen on by default")
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SHADOWNET_API_BASE", "http://service:9000")
	t.Setenv("SHADOWNET_ALERT_TTL_SECONDS", "5")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.APIBase != "http://service:9000" {
		t.Fatalf("env override lost: %q", cfg.APIBase)
	}
	if cfg.AlertTTL() != 5*time.Second {
		t.Fatalf("env ttl override lost: %s", cfg.AlertTTL())
	}
}

func TestLoadFileOverlaysEnv(t *testing.T) {
	t.Setenv("SHADOWNET_API_BASE", "http://from-env:9000")
	path := filepath.Join(t.TempDir(), "console.yaml")
	body := "api_base: http://from-file:7000\ntimeout_seconds: 12\nalert_ttl_seconds: 20\nalt_screen: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.APIBase != "http://from-file:7000" {
		t.Fatalf("file must overlay env, got %q", cfg.APIBase)
	}
	if cfg.Timeout() != 12*time.Second || cfg.AlertTTL() != 20*time.Second {
		t.Fatalf("file durations lost: %s %s", cfg.Timeout(), cfg.AlertTTL())
	}
	if cfg.AltScreen {
		t.Fatalf("file alt_screen override lost")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	if err := os.WriteFile(path, []byte("api_bass: oops\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}
