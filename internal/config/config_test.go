package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formdoc.yaml")
	content := "http:\n  addr: \":9000\"\nstore:\n  driver: memory\nlog:\n  level: debug\ntheme:\n  manifest: theme.yaml\n  variant: dark\nform:\n  preset: presets.yaml\n  humanize_labels: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("FORMDOC_HTTP_ADDR", ":7000")
	t.Setenv("FORMDOC_LOG_DEVELOPMENT", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.HTTP.Addr = ":7000"
	want.Store.Driver = DriverMemory
	want.Log = LogConfig{Level: "debug", Development: true}
	want.Theme = ThemeConfig{Manifest: "theme.yaml", Variant: "dark"}
	want.Form = FormConfig{Preset: "presets.yaml", HumanizeLabels: true}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":   {"FORMDOC_STORE_DRIVER": "postgres"},
		"level":    {"FORMDOC_LOG_LEVEL": "loud"},
		"bytes":    {"FORMDOC_HTTP_MAX_REQUEST_BYTES": "lots"},
		"dev flag": {"FORMDOC_LOG_DEVELOPMENT": "maybe"},
		"humanize": {"FORMDOC_FORM_HUMANIZE_LABELS": "often"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range env {
				t.Setenv(key, value)
			}
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
