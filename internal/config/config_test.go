package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saulo-duarte/swayami/internal/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != config.EnvDevelopment {
		t.Errorf("expected development, got %s", cfg.Environment)
	}
	if cfg.PublicURL != "http://localhost:8080" {
		t.Errorf("unexpected public url %q", cfg.PublicURL)
	}
	if cfg.DocStore.Backend != "auto" {
		t.Errorf("expected auto backend, got %q", cfg.DocStore.Backend)
	}
	if cfg.DocStore.ProbeTimeout != 3*time.Second {
		t.Errorf("expected 3s probe timeout, got %s", cfg.DocStore.ProbeTimeout)
	}
	if cfg.AI.Model != "gpt-3.5-turbo" {
		t.Errorf("unexpected model %q", cfg.AI.Model)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SWAYAMI_ENVIRONMENT", "prod")
	t.Setenv("SWAYAMI_DOCSTORE_API_KEY", "key-123")
	t.Setenv("SWAYAMI_IDENTITY_URL", "https://id.example.com/")
	t.Setenv("SWAYAMI_CALENDAR_ENABLED", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != config.EnvProduction {
		t.Errorf("expected production, got %s", cfg.Environment)
	}
	if cfg.RedirectURL() != "https://app.swayami.com/auth/callback" {
		t.Errorf("unexpected redirect url %q", cfg.RedirectURL())
	}
	if cfg.DocStore.APIKey != "key-123" {
		t.Errorf("api key not read from env")
	}
	if cfg.Identity.URL != "https://id.example.com" {
		t.Errorf("identity url should be trimmed, got %q", cfg.Identity.URL)
	}
	if !cfg.Calendar.Enabled {
		t.Errorf("calendar should be enabled")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	body := "environment: qa\ndocstore:\n  backend: local\n  local_path: /tmp/swayami\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SWAYAMI_CONFIG_PATH", path)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != config.EnvQA {
		t.Errorf("expected qa, got %s", cfg.Environment)
	}
	if cfg.DocStore.Backend != "local" || cfg.DocStore.LocalPath != "/tmp/swayami" {
		t.Errorf("docstore section not read: %+v", cfg.DocStore)
	}
}

func TestParseEnvironment(t *testing.T) {
	if _, err := config.ParseEnvironment("moon"); err == nil {
		t.Errorf("expected unknown environment to fail")
	}

	tests := map[string]config.Environment{
		"":           config.EnvDevelopment,
		"staging":    config.EnvQA,
		"Production": config.EnvProduction,
	}
	for in, want := range tests {
		got, err := config.ParseEnvironment(in)
		if err != nil || got != want {
			t.Errorf("ParseEnvironment(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
}

func TestEnvironmentForHost(t *testing.T) {
	tests := map[string]config.Environment{
		"localhost:5173":                   config.EnvDevelopment,
		"swayami-focus-mirror.lovable.app": config.EnvQA,
		"app.swayami.com":                  config.EnvProduction,
		"example.org":                      config.EnvDevelopment,
	}
	for host, want := range tests {
		if got := config.EnvironmentForHost(host); got != want {
			t.Errorf("EnvironmentForHost(%q) = %s; want %s", host, got, want)
		}
	}
}
