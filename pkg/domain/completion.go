package domain

import "fmt"

// CompletionCode describes how a presented survey page concluded.
// The numeric values are part of the wire contract with renderers.
type CompletionCode int

const (
	// CompletionNormal means the participant finished the page normally.
	CompletionNormal CompletionCode = 0
	// CompletionSkipBlock means the remainder of the current group must be skipped.
	CompletionSkipBlock CompletionCode = 1
	// CompletionSkipSurvey means the whole survey must be ended early.
	CompletionSkipSurvey CompletionCode = 2
)

func (c CompletionCode) String() string {
	switch c {
	case CompletionNormal:
		return "normal"
	case CompletionSkipBlock:
		return "skip_to_end_of_block"
	case CompletionSkipSurvey:
		return "skip_to_end_of_survey"
	default:
		return fmt.Sprintf("completion(%d)", int(c))
	}
}

// Valid reports whether the code is one of the defined completion values.
func (c CompletionCode) Valid() bool {
	return c >= CompletionNormal && c <= CompletionSkipSurvey
}
