package liveness

import "sync"

// CounterSnapshot is a read-only view for the admin/status surface.
type CounterSnapshot struct {
	RemainingPings uint `json:"remaining_pings"`
	RemainingPongs uint `json:"remaining_pongs"`
}

// Counter holds the remaining ping/pong reservoirs. Both fields only ever
// decrease and saturate at zero. The tick loop is the sole mutator; the
// mutex exists because Snapshot is read from the admin HTTP goroutine.
type Counter struct {
	mu    sync.Mutex
	pings uint
	pongs uint
}

func NewCounter(pingBudget, pongBudget uint) *Counter {
	return &Counter{pings: pingBudget, pongs: pongBudget}
}

// TakePing consumes one ping credit. ok is false once the reservoir is
// exhausted; remaining is the count after the decrement.
func (c *Counter) TakePing() (remaining uint, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pings == 0 {
		return 0, false
	}
	c.pings--
	return c.pings, true
}

// TakePong consumes one pong credit. ok is false once the reservoir is
// exhausted; remaining is the count after the decrement.
func (c *Counter) TakePong() (remaining uint, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pongs == 0 {
		return 0, false
	}
	c.pongs--
	return c.pongs, true
}

func (c *Counter) Snapshot() CounterSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CounterSnapshot{RemainingPings: c.pings, RemainingPongs: c.pongs}
}
