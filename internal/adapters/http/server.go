// Package http exposes a survey flow over a JSON API: the interpreter runs
// server-side and suspends at each question block until a remote client
// fetches the prepared page and posts its answers. This is the deployment
// shape where the renderer lives across the network.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/openstimuli/cadence/internal/logging"
	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/flow"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/schema"
)

// Server hosts flow sessions over one survey flow document.
type Server struct {
	doc    *schema.Document
	eval   ports.Evaluator
	store  ports.ResultStore
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	mu    sync.Mutex
	flows map[string]*flowSession
}

// Option configures the Server.
type Option func(*Server)

// WithResultStore persists each session's results as it completes.
func WithResultStore(store ports.ResultStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks, forwarded to every flow
// interpreter this server starts.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// NewServer creates a server for the given validated document.
func NewServer(doc *schema.Document, eval ports.Evaluator, opts ...Option) *Server {
	s := &Server{
		doc:    doc,
		eval:   eval,
		logger: logging.NewNop(),
		flows:  make(map[string]*flowSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/flows/{id}", func(r chi.Router) {
		r.Post("/", s.startFlow)
		r.Get("/page", s.getPage)
		r.Post("/answers", s.postAnswers)
		r.Get("/results", s.getResults)
	})
	return r
}

// flowSession is one in-flight interpreter run.
type flowSession struct {
	renderer *remoteRenderer
	done     chan struct{}

	mu      sync.Mutex
	results domain.Results
	err     error
}

func (s *Server) startFlow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	if _, exists := s.flows[id]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, fmt.Errorf("flow %q already started", id))
		return
	}
	fs := &flowSession{
		renderer: newRemoteRenderer(),
		done:     make(chan struct{}),
	}
	s.flows[id] = fs
	s.mu.Unlock()

	// Each session walks its own copy of the flow tree: randomized groups
	// shuffle in place, and sessions must not see each other's orderings.
	sessionDoc := *s.doc
	sessionDoc.SurveyFlow = s.doc.SurveyFlow.Clone()

	interp, err := flow.New(&sessionDoc, fs.renderer, s.eval,
		flow.WithLogger(s.logger),
		flow.WithLifecycleHooks(s.hooks),
	)
	if err != nil {
		s.mu.Lock()
		delete(s.flows, id)
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// The interpreter's own lifetime is the session's, not this request's:
	// r.Context() dies the moment this handler returns.
	go func() {
		defer close(fs.done)
		ctx := context.Background()
		results, runErr := interp.Run(ctx)
		fs.mu.Lock()
		fs.results = results
		fs.err = runErr
		fs.mu.Unlock()

		if s.store != nil {
			// Save even on failure: partial results beat lost responses.
			if saveErr := s.store.Save(ctx, id, results); saveErr != nil {
				s.logger.Warn("failed to persist results", "flow", id, "err", saveErr)
			}
		}
		if runErr != nil {
			s.logger.Error("flow failed", "flow", id, "err", runErr)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"flow": id, "status": "started"})
}

func (s *Server) session(id string) *flowSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flows[id]
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	fs := s.session(chi.URLParam(r, "id"))
	if fs == nil {
		writeError(w, http.StatusNotFound, domain.ErrFlowNotFound)
		return
	}

	page := fs.renderer.CurrentPage()
	if page == nil {
		select {
		case <-fs.done:
			writeJSON(w, map[string]any{"complete": true})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}
	writeJSON(w, map[string]any{
		"surveyIdx": page.SurveyIdx,
		"survey":    page.Survey,
	})
}

// answersRequest is the client's page completion payload.
type answersRequest struct {
	Completion domain.CompletionCode `json:"completion"`
	Answers    map[string]any        `json:"answers"`
	// RTs are optional reaction times in seconds, keyed by question name.
	RTs map[string]float64 `json:"rts,omitempty"`
}

func (s *Server) postAnswers(w http.ResponseWriter, r *http.Request) {
	fs := s.session(chi.URLParam(r, "id"))
	if fs == nil {
		writeError(w, http.StatusNotFound, domain.ErrFlowNotFound)
		return
	}

	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid answers payload: %w", err))
		return
	}
	if !req.Completion.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid completion code %d", int(req.Completion)))
		return
	}

	if err := fs.renderer.Complete(req); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{"status": "accepted"})
}

func (s *Server) getResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fs := s.session(id)
	if fs == nil {
		writeError(w, http.StatusNotFound, domain.ErrFlowNotFound)
		return
	}

	select {
	case <-fs.done:
	default:
		writeError(w, http.StatusConflict, errors.New("flow still in progress"))
		return
	}

	fs.mu.Lock()
	results, runErr := fs.results, fs.err
	fs.mu.Unlock()

	if runErr != nil && len(results) == 0 {
		writeError(w, http.StatusInternalServerError, runErr)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := results.EncodeSorted(w); err != nil {
		s.logger.Error("failed to encode results", "flow", id, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
