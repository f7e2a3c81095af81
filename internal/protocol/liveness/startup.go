package liveness

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Dialer is the endpoint startup surface. Exactly one of the two calls is
// made per process.
type Dialer interface {
	Listen(addr string) error
	Connect(addr string) error
}

// Start performs the startup handshake: servers listen, clients connect.
// Any failure is fatal to the exchange; there is no fallback.
func Start(d Dialer, cfg RoleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsServer {
		log.Info().Str("addr", cfg.Addr).Msg("starting server")
		if err := d.Listen(cfg.Addr); err != nil {
			return fmt.Errorf("liveness: listen on %s: %w", cfg.Addr, err)
		}
		return nil
	}
	log.Info().Str("addr", cfg.Addr).Msg("starting client")
	if err := d.Connect(cfg.Addr); err != nil {
		return fmt.Errorf("liveness: connect to %s: %w", cfg.Addr, err)
	}
	return nil
}
