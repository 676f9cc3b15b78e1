package ports

import "context"

// FrameTicker paces the frame loop: Wait blocks until the next display
// refresh boundary. Production implementations derive this from a wall-clock
// interval or a vertical-sync source; tests drive it manually.
type FrameTicker interface {
	Wait(ctx context.Context) error
}
