package http

import (
	"context"
	"errors"
	"sync"

	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/ports"
)

// remoteRenderer implements ports.PageRenderer by parking each prepared page
// until an HTTP client posts its completion. Present blocks the interpreter
// goroutine for a user-paced duration, which is exactly the interpreter's
// suspension contract.
type remoteRenderer struct {
	mu       sync.Mutex
	handlers ports.Handlers
	current  *ports.Page
	// complete is a one-shot channel per parked page, buffered so the winning
	// Complete call hands its payload over without blocking. It is replaced
	// on every Present and nilled together with current, under mu, so at most
	// one Complete can ever resolve a given page.
	complete chan answersRequest
}

func newRemoteRenderer() *remoteRenderer {
	return &remoteRenderer{}
}

// Subscribe installs the interpreter's callbacks for the next page.
func (r *remoteRenderer) Subscribe(h ports.Handlers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = h
}

// CurrentPage returns the page awaiting completion, or nil.
func (r *remoteRenderer) CurrentPage() *ports.Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Complete resolves the pending Present call with the client's payload.
// Concurrent calls for the same page race under the lock: exactly one wins,
// the rest report that no page is pending.
func (r *remoteRenderer) Complete(req answersRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return errors.New("no page awaiting answers")
	}
	r.current = nil
	// Buffered with capacity 1; claiming the page above guarantees this is
	// the only send, so it can never block a handler goroutine.
	r.complete <- req
	return nil
}

// Present parks the page and waits for a client to complete it.
func (r *remoteRenderer) Present(ctx context.Context, page *ports.Page, _ ports.PresentSettings) (domain.CompletionCode, map[string]any, error) {
	done := make(chan answersRequest, 1)

	r.mu.Lock()
	r.current = page
	r.complete = done
	handlers := r.handlers
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.current = nil
		r.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return domain.CompletionNormal, nil, ctx.Err()
	case req := <-done:
		if handlers.OnValueChanged != nil {
			for q, rt := range req.RTs {
				if v, ok := req.Answers[q]; ok {
					handlers.OnValueChanged(q, v, rt)
				}
			}
		}
		return req.Completion, req.Answers, nil
	}
}
