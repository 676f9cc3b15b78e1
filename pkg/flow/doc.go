/*
Package flow implements the survey flow interpreter: a recursive evaluator
over the static flow tree described by a schema.Document.

The interpreter walks the tree one node at a time, evaluating conditionals
against live answer data, assigning embedded-data variables, shuffling
randomized groups, and handing each question block — after question-order and
choice randomization — to a ports.PageRenderer. Presentation suspends the walk
until the renderer reports completion; skip-to-end-of-block and
skip-to-end-of-survey codes unwind the recursion accordingly.

State is explicit: variables and answers live in accumulators threaded through
the walk, never in hidden instance-wide fields, so the interpreter is testable
in isolation and reentrant across runs.
*/
package flow
