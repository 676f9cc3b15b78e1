package cadence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openstimuli/cadence/internal/logging"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/scheduler"
)

// Runner is the frame-loop driver: it ticks a scheduler once per display
// refresh and performs exactly one frame flip whenever the current task asked
// for the frame to be re-rendered before its next step.
//
// The Runner owns no experiment logic. It is the single place where task
// errors surface: the scheduler deliberately does not catch them, and the
// runner halts the run and reports the failure.
type Runner struct {
	// Ticker paces the loop; each Wait is one display refresh.
	Ticker ports.FrameTicker
	// Flip renders one frame. Nil is allowed for headless runs.
	Flip func() error
	// Logger for loop-level events. Defaults to no-op.
	Logger *slog.Logger
}

// Run executes the loop until the scheduler finishes, quits, or a task fails.
// A tick on an idle scheduler is a safe no-op and terminates the loop.
func (r *Runner) Run(ctx context.Context, sched *scheduler.Scheduler) error {
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if r.Ticker == nil {
		return fmt.Errorf("frame ticker must be set")
	}

	frames := 0
	for {
		if err := r.Ticker.Wait(ctx); err != nil {
			return fmt.Errorf("frame loop interrupted: %w", err)
		}
		frames++

		out, err := sched.Tick(ctx)
		if err != nil {
			// Task failure is unrecoverable: halt and surface it.
			logger.Error("task failed, aborting run", "frame", frames, "err", err)
			return fmt.Errorf("experiment aborted on frame %d: %w", frames, err)
		}

		switch out {
		case scheduler.NeedsFlip:
			if r.Flip != nil {
				if err := r.Flip(); err != nil {
					return fmt.Errorf("frame flip failed on frame %d: %w", frames, err)
				}
			}
		case scheduler.Finished:
			logger.Debug("flow finished", "frames", frames)
			return nil
		case scheduler.Quitted:
			logger.Debug("flow quit", "frames", frames)
			return nil
		case scheduler.Idle:
			return nil
		}
	}
}
