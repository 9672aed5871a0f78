package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Log.File != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeConfig(t, `
[practice]
mode = "time"
time = 60
variant = "mixed"

[log]
level = "debug"
file = "/tmp/typefast.log"
max-size = 5
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != "time" {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if cfg.Practice.Time == nil || *cfg.Practice.Time != 60 {
		t.Fatalf("unexpected time: %v", cfg.Practice.Time)
	}
	if cfg.Practice.Words != nil {
		t.Fatalf("expected words unset")
	}
	if cfg.Log.MaxSizeMB == nil || *cfg.Log.MaxSizeMB != 5 {
		t.Fatalf("unexpected max-size: %v", cfg.Log.MaxSizeMB)
	}
	if cfg.Log.MaxBackups != nil {
		t.Fatalf("expected max-backups unset")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "[practice]\nlang = \"en\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadConfigRejectsBadType(t *testing.T) {
	path := writeConfig(t, "[practice]\nwords = \"many\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestTemplateDecodes(t *testing.T) {
	path := writeConfig(t, Template)
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "typefast", "config.toml") {
		t.Fatalf("config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "typefast", "typefast.db") {
		t.Fatalf("db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "typefast", "typefast.log") {
		t.Fatalf("log path: %s", got)
	}
}
