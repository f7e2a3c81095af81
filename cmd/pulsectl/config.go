package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// runConfig is the fully resolved runtime configuration: defaults,
// layered under the optional settings file, layered under flags.
type runConfig struct {
	App           string
	Server        bool
	Addr          string
	Port          int
	Pings         uint
	Pongs         uint
	IdleTimeout   time.Duration
	AutoHeartbeat time.Duration
	TickRate      int
	AdminAddr     string
	CorsOrigins   []string
}

func defaultRunConfig() runConfig {
	return runConfig{
		App:      "pulsectl",
		Port:     14191,
		Pings:    10,
		Pongs:    10,
		TickRate: 60,
	}
}

type fileConfig struct {
	App             string   `toml:"app"`
	Server          bool     `toml:"server"`
	Addr            string   `toml:"addr"`
	Port            int      `toml:"port"`
	Pings           uint     `toml:"pings"`
	Pongs           uint     `toml:"pongs"`
	IdleTimeoutMS   int64    `toml:"idle_timeout_ms"`
	AutoHeartbeatMS int64    `toml:"auto_heartbeat_ms"`
	TickRateHz      int      `toml:"tick_rate_hz"`
	AdminAddr       string   `toml:"admin_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
}

func loadRunConfig(path string, cfg runConfig) (runConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load pulse config: %w", err)
	}

	if meta.IsDefined("app") {
		app := strings.TrimSpace(raw.App)
		if app != "" {
			cfg.App = app
		}
	}
	if meta.IsDefined("server") {
		cfg.Server = raw.Server
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("pings") {
		cfg.Pings = raw.Pings
	}
	if meta.IsDefined("pongs") {
		cfg.Pongs = raw.Pongs
	}
	if meta.IsDefined("idle_timeout_ms") {
		cfg.IdleTimeout = time.Duration(raw.IdleTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("auto_heartbeat_ms") {
		cfg.AutoHeartbeat = time.Duration(raw.AutoHeartbeatMS) * time.Millisecond
	}
	if meta.IsDefined("tick_rate_hz") {
		cfg.TickRate = raw.TickRateHz
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
