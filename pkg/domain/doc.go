/*
Package domain contains the core domain models shared across the cadence engine.

It defines the vocabulary the scheduler and the survey flow interpreter exchange
with their hosts: page completion codes, structured errors, the flat results
artifact, and lifecycle hooks for observability. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - CompletionCode: How a presented survey page concluded (normal, skip block, skip survey).
  - Results: The flat question-name → answer mapping produced by a run, with
    reaction-time companions.
  - Error: A structured failure record carrying origin and context.
  - LifecycleHooks: Host callbacks fired on frame ticks and page boundaries.
*/
package domain
