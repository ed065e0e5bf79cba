package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wantData := filepath.Join(home, ".config", "bium")
	if cfg.DataPath != wantData {
		t.Errorf("DataPath = %s, want %s", cfg.DataPath, wantData)
	}
	if cfg.Store != filepath.Join(wantData, "db.json") {
		t.Errorf("Store = %s", cfg.Store)
	}
	if cfg.Backup.Dir != filepath.Join(wantData, "backups") {
		t.Errorf("Backup.Dir = %s", cfg.Backup.Dir)
	}
	if cfg.Server.Port != 3000 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Address() != "127.0.0.1:3000" {
		t.Errorf("Address() = %s", cfg.Address())
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Backup.Cron != "@daily" || cfg.Backup.MaxBackups != 14 {
		t.Errorf("backup = %+v", cfg.Backup)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %s", cfg.LogLevel)
	}
	if cfg.LogDir() != filepath.Join(wantData, "logs") {
		t.Errorf("LogDir() = %s", cfg.LogDir())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `data_path: ` + dir + `
store: ` + filepath.Join(dir, "bium.db") + `
log_level: debug
server:
  port: 8088
  static_dir: ` + filepath.Join(dir, "dist") + `
backup:
  cron: "0 3 * * *"
  max_backups: 5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != filepath.Join(dir, "bium.db") {
		t.Errorf("Store = %s", cfg.Store)
	}
	if cfg.Server.Port != 8088 || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.StaticDir != filepath.Join(dir, "dist") {
		t.Errorf("StaticDir = %s", cfg.Server.StaticDir)
	}
	if cfg.Backup.Cron != "0 3 * * *" || cfg.Backup.MaxBackups != 5 {
		t.Errorf("backup = %+v", cfg.Backup)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("PORT", "9090")
	t.Setenv("BIUM_STORE", "postgres://bium@localhost/bium")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataPath != dir || cfg.Server.Port != 9090 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Store != "postgres://bium@localhost/bium" {
		t.Errorf("connection string was rewritten: %s", cfg.Store)
	}
}

func TestLoadKeyringTarget(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("BIUM_STORE", "keyring")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != "keyring" {
		t.Errorf("Store = %s, want keyring", cfg.Store)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not, a, map"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}

	t.Setenv("PORT", "70000")
	if _, err := Load(""); err == nil {
		t.Error("expected error for out of range port")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/data", filepath.Join(home, "data")},
		{"/abs/path", "/abs/path"},
		{"relative/~", "relative/~"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
