package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_CreatesDefaultFromEmbedded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", DefaultFileName)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.OutputFormat != "html" {
		t.Errorf("OutputFormat = %q; want html", cfg.OutputFormat)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Errorf("ConfigVersion = %d; want %d", cfg.ConfigVersion, CurrentConfigVersion)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q; want %q", cfg.Path(), path)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "output_format: Markdown\nlocale: fr\nconfig_version: 2\nplayer:\n  start_position: 12.5\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputFormat != "md" {
		t.Errorf("OutputFormat = %q; want md", cfg.OutputFormat)
	}
	if cfg.Locale != "fr" {
		t.Errorf("Locale = %q; want fr", cfg.Locale)
	}
	if cfg.Player.StartPosition != 12.5 {
		t.Errorf("StartPosition = %v; want 12.5", cfg.Player.StartPosition)
	}
	if !cfg.BracketShorthand || !cfg.LinkAll {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"bad format", "output_format: pdf\nconfig_version: 2\n", "OutputFormat"},
		{"negative position", "player:\n  start_position: -3\nconfig_version: 2\n", "StartPosition"},
		{"bad level", "log_level: loud\nconfig_version: 2\n", "LogLevel"},
		{"bad yaml", "output_format: [\n", "analyse"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestLoad_MigratesOldVersion(t *testing.T) {
	path := writeConfig(t, "output_format: txt\nbracket_shorthand: false\nconfig_version: 1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Errorf("ConfigVersion = %d; want %d", cfg.ConfigVersion, CurrentConfigVersion)
	}
	if !cfg.BracketShorthand {
		t.Errorf("migration 1 -> 2 should enable bracket shorthand")
	}

	backups, _ := filepath.Glob(path + ".bak.*")
	if len(backups) != 1 {
		t.Errorf("expected one backup, got %v", backups)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migrated: %v", err)
	}
	if !strings.Contains(string(data), "config_version: 2") {
		t.Errorf("migrated file not rewritten:\n%s", data)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
