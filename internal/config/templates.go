package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const pulseTemplate = `# pulsectl node settings
app = "pulsectl"
server = false
addr = ""
port = 14191
pings = 10
pongs = 10
idle_timeout_ms = 5000
auto_heartbeat_ms = 1000
tick_rate_hz = 60
admin_addr = ""
cors_origins = []
`

// WriteTemplate drops a starter settings file at path. It refuses to
// clobber an existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config template: %s already exists (use force to overwrite)", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config template: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(pulseTemplate), 0o644); err != nil {
		return fmt.Errorf("config template: %w", err)
	}
	return nil
}
