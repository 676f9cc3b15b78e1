// Package clock provides the monotonic time sources used by the scheduler and
// the experiment session: elapsed-time clocks and countdown timers, measured in
// seconds relative to a resettable origin.
package clock

import "time"

// Source yields the current monotonic time. It exists so tests can script
// time; production code uses Monotonic.
type Source func() time.Duration

// Monotonic is the default source, backed by the runtime's monotonic clock.
func Monotonic() Source {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Clock measures elapsed seconds since its last reset.
type Clock struct {
	source Source
	origin float64
}

// Option configures a Clock or CountdownTimer.
type Option func(*Clock)

// WithSource injects a custom time source.
func WithSource(src Source) Option {
	return func(c *Clock) {
		c.source = src
	}
}

// New creates a Clock whose origin is "now".
func New(opts ...Option) *Clock {
	c := &Clock{}
	for _, opt := range opts {
		opt(c)
	}
	if c.source == nil {
		c.source = Monotonic()
	}
	c.origin = c.source().Seconds()
	return c
}

// GetTime returns the elapsed seconds since the last reset.
func (c *Clock) GetTime() float64 {
	return c.source().Seconds() - c.origin
}

// Reset moves the origin to "now", or to "now minus at" if an offset is given,
// so that GetTime immediately reports at.
func (c *Clock) Reset(at ...float64) {
	c.origin = c.source().Seconds()
	if len(at) > 0 {
		c.origin -= at[0]
	}
}

// Add shifts the origin by a signed offset without a full reset. A positive
// offset makes the clock read earlier; it is used to correct for measured
// device latency.
func (c *Clock) Add(offset float64) {
	c.origin += offset
}

// CountdownTimer counts down from a configured duration. GetTime returns the
// remaining seconds and goes negative after expiry.
type CountdownTimer struct {
	clock         *Clock
	completeAfter float64
}

// NewCountdown creates a timer that expires after the given number of seconds.
func NewCountdown(seconds float64, opts ...Option) *CountdownTimer {
	return &CountdownTimer{
		clock:         New(opts...),
		completeAfter: seconds,
	}
}

// GetTime returns the remaining seconds; negative once the countdown expired.
func (t *CountdownTimer) GetTime() float64 {
	return t.completeAfter - t.clock.GetTime()
}

// Expired reports whether the countdown has run out.
func (t *CountdownTimer) Expired() bool {
	return t.GetTime() <= 0
}

// Reset re-arms the timer. With an argument it also replaces the countdown
// duration; without, the previous duration is reused.
func (t *CountdownTimer) Reset(after ...float64) {
	if len(after) > 0 {
		t.completeAfter = after[0]
	}
	t.clock.Reset()
}

// Add shifts the underlying origin, extending or shrinking the remaining time.
func (t *CountdownTimer) Add(offset float64) {
	t.clock.Add(offset)
}
