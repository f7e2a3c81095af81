package session

import "time"

// Config defines endpoint liveness-enforcement and resource defaults.
// IdleTimeout and AutoHeartbeat of zero disable the respective behavior.
type Config struct {
	IdleTimeout     time.Duration
	AutoHeartbeat   time.Duration
	ReadBufferBytes int
	MaxPayloadBytes uint32
	MaxEventQueue   int
}

func DefaultConfig() Config {
	return Config{
		IdleTimeout:     0,
		AutoHeartbeat:   0,
		ReadBufferBytes: 64 * 1024,
		MaxPayloadBytes: 32 * 1024,
		MaxEventQueue:   1024,
	}
}

// WithDefaults fills unset resource limits; duration fields keep their
// zero-disables semantics and are never defaulted.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.ReadBufferBytes <= 0 {
		c.ReadBufferBytes = def.ReadBufferBytes
	}
	if c.MaxPayloadBytes == 0 {
		c.MaxPayloadBytes = def.MaxPayloadBytes
	}
	if c.MaxEventQueue <= 0 {
		c.MaxEventQueue = def.MaxEventQueue
	}
	return c
}
