package clock

import (
	"context"
	"time"
)

// FrameTicker paces a frame loop at a fixed refresh interval. It satisfies
// ports.FrameTicker. Drift is bounded by aligning each deadline to the
// previous one rather than to "now".
type FrameTicker struct {
	interval time.Duration
	next     time.Time
}

// NewFrameTicker creates a ticker for the given refresh rate in Hz.
func NewFrameTicker(refreshRate float64) *FrameTicker {
	if refreshRate <= 0 {
		refreshRate = 60
	}
	return &FrameTicker{
		interval: time.Duration(float64(time.Second) / refreshRate),
	}
}

// Wait blocks until the next frame boundary or until ctx is done.
func (t *FrameTicker) Wait(ctx context.Context) error {
	now := time.Now()
	if t.next.IsZero() || now.After(t.next.Add(t.interval)) {
		// First frame, or we fell too far behind to catch up.
		t.next = now
	}
	t.next = t.next.Add(t.interval)

	timer := time.NewTimer(time.Until(t.next))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
