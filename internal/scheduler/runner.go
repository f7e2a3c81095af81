// Package scheduler owns the cooperative fixed-rate tick loop the demo
// binaries run on: every registered tick function executes on one goroutine,
// once per tick, in registration order.
package scheduler

import (
	"context"
	"errors"
	"time"
)

const DefaultTickRate = 60

var ErrInvalidTickRate = errors.New("scheduler: tick rate must be positive")

// TickFunc runs once per tick with the wall time and the elapsed duration
// since the previous tick.
type TickFunc func(now time.Time, delta time.Duration)

// Runner drives registered tick functions at a fixed rate until its
// context is cancelled.
type Runner struct {
	rate  int
	ticks []TickFunc
}

func NewRunner(rate int) *Runner {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &Runner{rate: rate}
}

func (r *Runner) Add(fn TickFunc) {
	r.ticks = append(r.ticks, fn)
}

// Run blocks until ctx is cancelled. Cancellation is the normal teardown
// path and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	if r.rate <= 0 {
		return ErrInvalidTickRate
	}
	interval := time.Second / time.Duration(r.rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			for _, fn := range r.ticks {
				fn(now, delta)
			}
		}
	}
}
