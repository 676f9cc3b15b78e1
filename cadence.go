package cadence

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/openstimuli/cadence/internal/logging"
	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/flow"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/scheduler"
	"github.com/openstimuli/cadence/pkg/schema"
)

// Session owns the top-level schedulers and the overall experiment lifecycle:
// schedule the flow, run it frame by frame, collect results, quit.
type Session struct {
	id     string
	sched  *scheduler.Scheduler
	store  ports.ResultStore
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	mu         sync.Mutex
	results    domain.Results
	quitReason string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a structured logger for the session and its scheduler.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithResultStore sets where partial and final results are persisted.
// Without a store, SaveResults falls back to a local download file.
func WithResultStore(store ports.ResultStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithLifecycleHooks registers observability hooks, forwarded to the
// scheduler and survey interpreters created by this session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// NewSession creates a session with an empty top-level scheduler.
func NewSession(id string, opts ...Option) *Session {
	s := &Session{
		id:      id,
		logger:  logging.NewNop(),
		results: domain.NewResults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sched = scheduler.New(
		scheduler.WithLogger(s.logger),
		scheduler.WithLifecycleHooks(s.hooks),
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Scheduler exposes the top-level scheduler for routine registration.
func (s *Session) Scheduler() *scheduler.Scheduler {
	return s.sched
}

// ScheduleCancel registers an abort path: the first tick on which cond
// becomes true abandons the main flow and runs cancelFlow instead. The main
// flow and the cancel flow race by design; only one arm ever fires for a
// given user action.
func (s *Session) ScheduleCancel(cond func() bool, cancelFlow *scheduler.Scheduler) {
	s.sched.AddBranch(cond, cancelFlow)
}

// ScheduleSurvey queues a survey stimulus on the main flow. The interpreter
// runs on its own goroutine — its page suspensions are promise-paced, not
// frame-paced — while the scheduled task reports Pending each tick until the
// walk completes, then merges the survey's results into the session.
func (s *Session) ScheduleSurvey(doc *schema.Document, renderer ports.PageRenderer, eval ports.Evaluator, opts ...flow.Option) error {
	opts = append([]flow.Option{
		flow.WithLogger(s.logger),
		flow.WithLifecycleHooks(s.hooks),
	}, opts...)
	interp, err := flow.New(doc, renderer, eval, opts...)
	if err != nil {
		return err
	}

	var (
		once    sync.Once
		done    = make(chan struct{})
		results domain.Results
		runErr  error
	)

	s.sched.Add(func(ctx context.Context) (scheduler.Signal, error) {
		once.Do(func() {
			go func() {
				defer close(done)
				results, runErr = interp.Run(ctx)
			}()
		})
		select {
		case <-done:
			s.MergeResults(results)
			if runErr != nil {
				// Survey-level errors still leave partial results saved.
				s.savePartial(ctx)
				return scheduler.Quit, runErr
			}
			return scheduler.Next, nil
		default:
			return scheduler.Pending, nil
		}
	}, "survey")
	return nil
}

// MergeResults merges a results delta into the session artifact.
func (s *Session) MergeResults(delta domain.Results) {
	if delta == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.Merge(delta)
}

// Results returns a snapshot of the collected results.
func (s *Session) Results() domain.Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := domain.NewResults()
	snap.Merge(s.results)
	return snap
}

// Quit halts the experiment permanently, recording why. Gathered results are
// kept and can still be saved.
func (s *Session) Quit(reason string) {
	s.mu.Lock()
	s.quitReason = reason
	s.mu.Unlock()
	s.sched.Stop()
	s.logger.Info("session quit", "session", s.id, "reason", reason)
}

// QuitReason returns the reason passed to Quit, if any.
func (s *Session) QuitReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quitReason
}

// SaveResults persists the collected results through the configured store, or
// writes the download file fallback when no store is configured.
func (s *Session) SaveResults(ctx context.Context) error {
	results := s.Results()
	if s.store == nil {
		return results.WriteDownload(s.id + "_results.json")
	}
	if err := s.store.Save(ctx, s.id, results); err != nil {
		// Never lose responses gathered so far: fall back to a local file.
		s.logger.Warn("result store unreachable, writing download file", "err", err)
		return results.WriteDownload(s.id + "_results.json")
	}
	return nil
}

func (s *Session) savePartial(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.id, s.Results()); err != nil {
		s.logger.Warn("failed to save partial results", "session", s.id, "err", err)
	}
}

// Run drives the session's scheduler with the given pacing and flip function
// until the flow finishes, quits, or fails.
func (s *Session) Run(ctx context.Context, ticker ports.FrameTicker, flip func() error) error {
	if err := s.sched.Start(); err != nil {
		return fmt.Errorf("failed to start session %s: %w", s.id, err)
	}
	runner := &Runner{
		Ticker: ticker,
		Flip:   flip,
		Logger: s.logger,
	}
	return runner.Run(ctx, s.sched)
}
