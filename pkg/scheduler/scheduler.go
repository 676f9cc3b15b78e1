// Package scheduler implements the frame-synchronized cooperative task runner
// at the heart of the cadence engine.
//
// A Scheduler owns an ordered queue of tasks and is advanced externally, once
// per display refresh, by a frame-loop driver calling Tick. Tasks cooperate by
// returning a Signal: they can ask to advance the queue, to have the current
// frame re-rendered before being stepped again, to terminate the whole flow,
// or to simply be stepped again next tick. A Scheduler is itself schedulable,
// so loop bodies and dialog-cancel paths compose as nested sub-schedulers that
// run to completion before control returns to the parent.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openstimuli/cadence/internal/logging"
	"github.com/openstimuli/cadence/pkg/domain"
)

// Signal is the value a task returns to its scheduler after one step.
type Signal int

const (
	// Pending means the task is still mid-flight (e.g. awaiting async setup)
	// and must be stepped again next tick, without a forced frame flip.
	// It is the zero value, so a bare `return 0, err` behaves sanely.
	Pending Signal = iota
	// Next means the task finished; advance to the next queued task.
	Next
	// FlipRepeat means the task stays current, but exactly one frame must be
	// rendered before it is stepped again. Per-frame routines return this on
	// every refresh until they decide to finish.
	FlipRepeat
	// Quit terminates the scheduler immediately, bypassing remaining tasks.
	Quit
)

func (s Signal) String() string {
	switch s {
	case Pending:
		return "pending"
	case Next:
		return "next"
	case FlipRepeat:
		return "flip_repeat"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// Task is one schedulable unit of work. It is stepped with no frame-specific
// arguments; anything it needs is captured by its closure or context struct.
type Task func(ctx context.Context) (Signal, error)

// Outcome is what a Tick reports back to the frame-loop driver.
type Outcome int

const (
	// Idle means the scheduler is not running; the tick was a no-op.
	Idle Outcome = iota
	// Ran means a task was stepped and the scheduler wants the next tick
	// as soon as the driver is ready, with no forced flip.
	Ran
	// NeedsFlip means the driver must render exactly one frame before the
	// next tick.
	NeedsFlip
	// Finished means the task queue is exhausted; the flow completed.
	Finished
	// Quitted means a task requested termination; remaining tasks were skipped.
	Quitted
)

func (o Outcome) String() string {
	switch o {
	case Idle:
		return "idle"
	case Ran:
		return "ran"
	case NeedsFlip:
		return "needs_flip"
	case Finished:
		return "finished"
	case Quitted:
		return "quitted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// entry is one queued unit: either a plain task or a nested scheduler.
type entry struct {
	task Task
	sub  *Scheduler
	tag  string
}

// branch is an armed predicate-guarded substitution rule.
type branch struct {
	cond  func() bool
	then  *Scheduler
	armed bool
}

// Scheduler is a single-threaded cooperative task runner. It is not safe for
// concurrent use; all interaction happens on the frame-loop goroutine.
type Scheduler struct {
	queue    []entry
	cursor   int
	branches []*branch
	running  bool
	stopped  bool
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets a structured logger for scheduling events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks fired around task steps.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Scheduler) {
		s.hooks = hooks
	}
}

// New creates an empty, not-yet-running Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a task to the queue. Tasks execute strictly in the order added.
func (s *Scheduler) Add(task Task, tag ...string) *Scheduler {
	e := entry{task: task}
	if len(tag) > 0 {
		e.tag = tag[0]
	}
	s.queue = append(s.queue, e)
	return s
}

// AddScheduler appends a nested sub-scheduler. From the parent's point of view
// it is an opaque task: it runs to its own completion before the parent's next
// task is considered, with no interleaving between siblings.
func (s *Scheduler) AddScheduler(sub *Scheduler, tag ...string) *Scheduler {
	e := entry{sub: sub}
	if len(tag) > 0 {
		e.tag = tag[0]
	}
	s.queue = append(s.queue, e)
	return s
}

// AddConditional appends an in-queue decision point: when this position is
// reached, cond is evaluated once and exactly one of the two sub-schedulers
// (or neither, if it is nil) runs in its place.
func (s *Scheduler) AddConditional(cond func() bool, then, els *Scheduler, tag ...string) *Scheduler {
	t := func(ctx context.Context) (Signal, error) {
		target := els
		if cond() {
			target = then
		}
		if target == nil {
			return Next, nil
		}
		// Splice the chosen flow in right after this task.
		s.insertAfterCursor(entry{sub: target, tag: "conditional-branch"})
		return Next, nil
	}
	return s.Add(t, tag...)
}

// AddBranch registers an armed predicate rule. While armed, cond is evaluated
// once per tick; the first tick on which it returns true substitutes then as
// the current task and permanently disarms the rule. It never fires again,
// even if the predicate stays true.
func (s *Scheduler) AddBranch(cond func() bool, then *Scheduler) *Scheduler {
	s.branches = append(s.branches, &branch{cond: cond, then: then, armed: true})
	return s
}

func (s *Scheduler) insertAfterCursor(e entry) {
	at := s.cursor + 1
	if at > len(s.queue) {
		at = len(s.queue)
	}
	s.queue = append(s.queue[:at], append([]entry{e}, s.queue[at:]...)...)
}

// Start transitions the scheduler to running. Starting a stopped scheduler is
// an error: Stop is terminal.
func (s *Scheduler) Start() error {
	if s.stopped {
		return domain.ErrStopped
	}
	s.running = true
	return nil
}

// Stop halts the scheduler permanently. In-flight nested schedulers are
// stopped too. Tasks that never returned a terminal signal are simply never
// stepped again; resource cleanup is their owner's responsibility.
func (s *Scheduler) Stop() {
	s.running = false
	s.stopped = true
	if s.cursor < len(s.queue) && s.queue[s.cursor].sub != nil {
		s.queue[s.cursor].sub.Stop()
	}
}

// Running reports whether the scheduler is currently runnable.
func (s *Scheduler) Running() bool {
	return s.running
}

// Tick advances the scheduler. The frame-loop driver calls it exactly once per
// display refresh. Tasks are stepped in queue order until one of them consumes
// the tick: a Next signal advances to the following task within the same tick,
// so routine boundaries do not cost a dead frame. FlipRepeat, Pending, Quit
// and queue exhaustion all end the tick. Calling Tick on a stopped or finished
// scheduler is a safe no-op reporting Idle.
//
// Errors returned by tasks are not caught here: they propagate to the driver,
// which is expected to halt the experiment. A task that returned an error must
// not be stepped again.
func (s *Scheduler) Tick(ctx context.Context) (Outcome, error) {
	if !s.running {
		return Idle, nil
	}

	// Armed branch rules pre-empt the queue, evaluated once per tick.
	// Each fires at most once per arming.
	for _, b := range s.branches {
		if !b.armed || !b.cond() {
			continue
		}
		b.armed = false
		s.logger.Debug("branch fired, substituting flow")
		s.substituteCurrent(entry{sub: b.then, tag: "branch"})
		break
	}

	for {
		if s.cursor >= len(s.queue) {
			s.running = false
			return Finished, nil
		}

		cur := &s.queue[s.cursor]
		s.emitTaskStart(ctx, cur.tag)

		sig, err := s.step(ctx, cur)
		if err != nil {
			return Ran, err
		}

		switch sig {
		case Next:
			s.emitTaskDone(ctx, cur.tag, sig)
			s.cursor++
		case FlipRepeat:
			return NeedsFlip, nil
		case Quit:
			s.emitTaskDone(ctx, cur.tag, sig)
			s.running = false
			s.stopped = true
			return Quitted, nil
		default:
			return Ran, nil
		}
	}
}

// step executes the current entry once, translating a nested scheduler's
// outcome into the task signal vocabulary.
func (s *Scheduler) step(ctx context.Context, cur *entry) (Signal, error) {
	if cur.sub == nil {
		return cur.task(ctx)
	}

	if !cur.sub.running && !cur.sub.stopped {
		if err := cur.sub.Start(); err != nil {
			return Pending, err
		}
	}

	out, err := cur.sub.Tick(ctx)
	if err != nil {
		return Pending, err
	}
	switch out {
	case Finished, Idle:
		return Next, nil
	case NeedsFlip:
		return FlipRepeat, nil
	case Quitted:
		// Termination intent propagates to the parent flow.
		return Quit, nil
	default:
		return Pending, nil
	}
}

// substituteCurrent replaces the task at the cursor with e. If the queue is
// already exhausted, e is appended and becomes current.
func (s *Scheduler) substituteCurrent(e entry) {
	if s.cursor < len(s.queue) {
		s.queue[s.cursor] = e
		return
	}
	s.queue = append(s.queue, e)
}

func (s *Scheduler) emitTaskStart(ctx context.Context, tag string) {
	if s.hooks.OnTaskStart == nil {
		return
	}
	s.hooks.OnTaskStart(ctx, &domain.TaskEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTaskStart},
		Tag:       tag,
	})
}

func (s *Scheduler) emitTaskDone(ctx context.Context, tag string, sig Signal) {
	if s.hooks.OnTaskDone == nil {
		return
	}
	s.hooks.OnTaskDone(ctx, &domain.TaskEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTaskDone},
		Tag:       tag,
		Signal:    sig.String(),
	})
}
