package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSettingsYAML(t *testing.T) {
	input := `
log_level: verbose
color: never
trace_db: /tmp/trace.db
mode: partial
watch: true
`
	s, err := ParseSettings([]byte(input), "callinfer.yaml")
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if s.LogLevel != "verbose" || s.Color != "never" || s.Mode != "partial" || !s.Watch {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.TraceDB != "/tmp/trace.db" {
		t.Errorf("TraceDB = %q, want /tmp/trace.db", s.TraceDB)
	}
}

func TestParseSettingsTOML(t *testing.T) {
	input := `
log_level = "error"
mode = "full"
`
	s, err := ParseSettings([]byte(input), "callinfer.toml")
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if s.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", s.LogLevel)
	}
	if s.Color != "auto" {
		t.Errorf("Color default = %q, want auto", s.Color)
	}
}

func TestParseSettingsDefaults(t *testing.T) {
	s, err := ParseSettings([]byte("{}"), "callinfer.yaml")
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	want := DefaultSettings()
	if *s != *want {
		t.Errorf("defaults = %+v, want %+v", s, want)
	}
}

func TestParseSettingsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		substr string
	}{
		{"bad log level", "log_level: loud", "log_level"},
		{"bad color", "color: rainbow", "color"},
		{"bad mode", "mode: eventually", "mode"},
		{"bad yaml", "mode: [", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.input), "callinfer.yaml")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should mention %q", err.Error(), tt.substr)
			}
		})
	}
}

func TestFindSettingsWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "callinfer.yaml")
	if err := os.WriteFile(path, []byte("mode: full\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindSettings(nested)
	if err != nil {
		t.Fatalf("FindSettings failed: %v", err)
	}
	if found != path {
		t.Errorf("FindSettings = %q, want %q", found, path)
	}

	loaded, err := LoadSettings(found)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded.Mode != "full" {
		t.Errorf("Mode = %q, want full", loaded.Mode)
	}
}
