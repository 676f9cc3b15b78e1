// Package ports defines the boundary contracts between the cadence cores and
// their external collaborators: the survey renderer, the expression
// evaluator, the results store, and the frame-loop pacing source.
//
// The scheduler and the flow interpreter consume these interfaces; adapters
// under pkg/adapters and internal/ provide implementations. Following
// Hexagonal Architecture, nothing in this package performs I/O.
package ports
