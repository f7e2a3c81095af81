package liveness

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// DefaultPort is the fixed demo port both example binaries agree on.
const DefaultPort = 14191

var ErrInvalidRoleConfig = errors.New("liveness: invalid role config")

// RoleConfig is resolved once at process startup and read-only afterwards.
// IdleTimeout and AutoHeartbeat are forwarded to the endpoint at
// construction; the protocol itself never measures time.
type RoleConfig struct {
	IsServer      bool
	IdleTimeout   time.Duration
	AutoHeartbeat time.Duration
	PingBudget    uint
	PongBudget    uint
	Addr          string
}

func (c RoleConfig) Validate() error {
	addr := strings.TrimSpace(c.Addr)
	if addr == "" {
		return fmt.Errorf("%w: missing addr", ErrInvalidRoleConfig)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%w: addr %q: %v", ErrInvalidRoleConfig, addr, err)
	}
	if c.IdleTimeout < 0 || c.AutoHeartbeat < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidRoleConfig)
	}
	return nil
}

func (c RoleConfig) Role() string {
	if c.IsServer {
		return "server"
	}
	return "client"
}
