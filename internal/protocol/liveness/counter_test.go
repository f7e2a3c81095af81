package liveness

import (
	"testing"

	"github.com/danmuck/pulsectl/internal/testutil/testlog"
)

func TestCounterTakePingSaturates(t *testing.T) {
	testlog.Start(t)
	c := NewCounter(3, 0)
	for i := 3; i > 0; i-- {
		remaining, ok := c.TakePing()
		if !ok {
			t.Fatalf("take %d: unexpected exhaustion", i)
		}
		if remaining != uint(i-1) {
			t.Fatalf("take %d: remaining=%d", i, remaining)
		}
	}
	for i := 0; i < 5; i++ {
		if remaining, ok := c.TakePing(); ok || remaining != 0 {
			t.Fatalf("exhausted take: remaining=%d ok=%v", remaining, ok)
		}
	}
}

func TestCounterTakePongSaturates(t *testing.T) {
	testlog.Start(t)
	c := NewCounter(0, 2)
	if _, ok := c.TakePong(); !ok {
		t.Fatalf("first take failed")
	}
	if _, ok := c.TakePong(); !ok {
		t.Fatalf("second take failed")
	}
	if _, ok := c.TakePong(); ok {
		t.Fatalf("expected exhaustion")
	}
	if _, ok := c.TakePong(); ok {
		t.Fatalf("exhaustion must be permanent")
	}
}

func TestCounterZeroBudgetsStartExhausted(t *testing.T) {
	testlog.Start(t)
	c := NewCounter(0, 0)
	if _, ok := c.TakePing(); ok {
		t.Fatalf("ping budget 0 must never fire")
	}
	if _, ok := c.TakePong(); ok {
		t.Fatalf("pong budget 0 must never fire")
	}
}

func TestCounterSnapshot(t *testing.T) {
	testlog.Start(t)
	c := NewCounter(5, 4)
	c.TakePing()
	c.TakePong()
	c.TakePong()
	snap := c.Snapshot()
	if snap.RemainingPings != 4 {
		t.Fatalf("unexpected pings: %d", snap.RemainingPings)
	}
	if snap.RemainingPongs != 2 {
		t.Fatalf("unexpected pongs: %d", snap.RemainingPongs)
	}
}
