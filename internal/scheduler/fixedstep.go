package scheduler

import "time"

// FixedStep is an accumulated-duration gate: it converts variable tick
// deltas into a whole number of fixed-interval steps. Unlike a
// modulo-on-tick-count check it neither double-fires nor skips under tick
// jitter; a stalled loop catches up with multiple steps on the next tick.
type FixedStep struct {
	interval time.Duration
	acc      time.Duration
}

func NewFixedStep(interval time.Duration) *FixedStep {
	if interval <= 0 {
		interval = time.Second
	}
	return &FixedStep{interval: interval}
}

// Advance credits delta to the accumulator and returns how many full
// intervals elapsed.
func (s *FixedStep) Advance(delta time.Duration) int {
	if delta <= 0 {
		return 0
	}
	s.acc += delta
	steps := int(s.acc / s.interval)
	s.acc -= time.Duration(steps) * s.interval
	return steps
}

func (s *FixedStep) Interval() time.Duration {
	return s.interval
}
