package ports

import (
	"context"

	"github.com/openstimuli/cadence/pkg/domain"
)

// ResultStore persists the results artifact of a session. Partial results are
// saved as pages complete, so an aborted run still leaves recoverable data.
type ResultStore interface {
	// Save persists the results for a given session ID, overwriting any
	// previous snapshot.
	Save(ctx context.Context, sessionID string, results domain.Results) error

	// Load retrieves the results for a given session ID.
	// Returns domain.ErrFlowNotFound if the session has no results.
	Load(ctx context.Context, sessionID string) (domain.Results, error)

	// Delete removes the results for a given session ID.
	Delete(ctx context.Context, sessionID string) error
}
