package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRunConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
app = "node-b"
server = true
addr = "192.168.1.20:14191"
pings = 3
pongs = 2
idle_timeout_ms = 5000
auto_heartbeat_ms = 1000
tick_rate_hz = 30
admin_addr = "127.0.0.1:7010"
cors_origins = ["http://localhost:3000", " "]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadRunConfig(path, defaultRunConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.App != "node-b" || !cfg.Server {
		t.Fatalf("unexpected identity: %+v", cfg)
	}
	if cfg.Addr != "192.168.1.20:14191" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.Pings != 3 || cfg.Pongs != 2 {
		t.Fatalf("unexpected budgets: %+v", cfg)
	}
	if cfg.IdleTimeout != 5*time.Second {
		t.Fatalf("unexpected idle timeout: %v", cfg.IdleTimeout)
	}
	if cfg.AutoHeartbeat != time.Second {
		t.Fatalf("unexpected heartbeat: %v", cfg.AutoHeartbeat)
	}
	if cfg.TickRate != 30 {
		t.Fatalf("unexpected tick rate: %d", cfg.TickRate)
	}
	if cfg.AdminAddr != "127.0.0.1:7010" {
		t.Fatalf("unexpected admin addr: %q", cfg.AdminAddr)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins: %+v", cfg.CorsOrigins)
	}
}

func TestLoadRunConfigPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
pings = 1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadRunConfig(path, defaultRunConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	def := defaultRunConfig()
	if cfg.Pings != 1 {
		t.Fatalf("unexpected pings: %d", cfg.Pings)
	}
	if cfg.Pongs != def.Pongs || cfg.Port != def.Port || cfg.TickRate != def.TickRate {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadRunConfigBlankAppIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
app = "  "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadRunConfig(path, defaultRunConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.App != defaultRunConfig().App {
		t.Fatalf("blank app should keep default, got %q", cfg.App)
	}
}

func TestLoadRunConfigMissingFile(t *testing.T) {
	if _, err := loadRunConfig(filepath.Join(t.TempDir(), "nope.toml"), defaultRunConfig()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
