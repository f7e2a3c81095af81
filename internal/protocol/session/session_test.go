package session

import (
	"testing"
	"time"

	"github.com/danmuck/pulsectl/internal/testutil/testlog"
)

func TestConfigWithDefaultsFillsLimitsOnly(t *testing.T) {
	testlog.Start(t)
	cfg := Config{
		IdleTimeout:   3 * time.Second,
		AutoHeartbeat: time.Second,
	}.WithDefaults()
	if cfg.IdleTimeout != 3*time.Second {
		t.Fatalf("idle timeout changed: %v", cfg.IdleTimeout)
	}
	if cfg.AutoHeartbeat != time.Second {
		t.Fatalf("auto heartbeat changed: %v", cfg.AutoHeartbeat)
	}
	if cfg.ReadBufferBytes != 64*1024 {
		t.Fatalf("unexpected read buffer: %d", cfg.ReadBufferBytes)
	}
	if cfg.MaxPayloadBytes != 32*1024 {
		t.Fatalf("unexpected payload limit: %d", cfg.MaxPayloadBytes)
	}
	if cfg.MaxEventQueue != 1024 {
		t.Fatalf("unexpected event queue: %d", cfg.MaxEventQueue)
	}
}

func TestConfigZeroDurationsStayDisabled(t *testing.T) {
	testlog.Start(t)
	cfg := Config{}.WithDefaults()
	if cfg.IdleTimeout != 0 || cfg.AutoHeartbeat != 0 {
		t.Fatalf("zero durations must stay disabled: %v %v", cfg.IdleTimeout, cfg.AutoHeartbeat)
	}
}

func TestEventKindStrings(t *testing.T) {
	testlog.Start(t)
	cases := map[EventKind]string{
		EventConnected:    "connected",
		EventDisconnected: "disconnected",
		EventPacket:       "packet",
		EventError:        "error",
		EventKind(99):     "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("kind %d got %q want %q", kind, got, want)
		}
	}
}
