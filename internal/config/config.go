package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// PulseConfig is the persisted settings file for the bounded example.
// Durations are millisecond fields to match the process-boundary contract;
// zero disables the respective endpoint behavior.
type PulseConfig struct {
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

func DefaultPulseConfig() PulseConfig {
	return PulseConfig{
		App:        "pulsectl",
		Port:       14191,
		Pings:      10,
		Pongs:      10,
		TickRateHz: 60,
	}
}

func LoadPulseConfig(path string) (PulseConfig, error) {
	cfg := DefaultPulseConfig()
	if err := loadToml(path, &cfg); err != nil {
		return PulseConfig{}, err
	}
	if err := ValidatePulseConfig(cfg); err != nil {
		return PulseConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidatePulseConfig(cfg PulseConfig) error {
	if strings.TrimSpace(cfg.App) == "" {
		return fmt.Errorf("pulse config missing app")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("pulse config port out of range: %d", cfg.Port)
	}
	if cfg.IdleTimeoutMS < 0 {
		return fmt.Errorf("pulse config idle_timeout_ms negative")
	}
	if cfg.AutoHeartbeatMS < 0 {
		return fmt.Errorf("pulse config auto_heartbeat_ms negative")
	}
	if cfg.TickRateHz <= 0 {
		return fmt.Errorf("pulse config tick_rate_hz must be positive")
	}
	return nil
}
