package ports

import (
	"context"

	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/schema"
)

// Page is the fully prepared page description handed to a renderer: the
// survey page after question-order and choice randomization were applied.
type Page struct {
	// SurveyIdx is the index of the page in the source document.
	SurveyIdx int
	// Survey is the (possibly reordered/filtered) page description.
	Survey schema.Survey
	// UnusedChoices tracks choices a show-K or layout policy left out, keyed
	// by question name, so no authored data is silently lost.
	UnusedChoices map[string][]schema.Choice
}

// PresentSettings carries renderer-level presentation options.
type PresentSettings struct {
	// Title shown above the page, if the renderer supports one.
	Title string
	// ShowProgress asks the renderer to display position within the flow.
	ShowProgress bool
}

// PageDirective is the interpreter's answer to a page-changing callback: it
// can veto the transition and force navigation to a named question, or end
// the block/survey early.
type PageDirective struct {
	// Veto blocks the transition and redirects to TargetQuestion. Questions
	// between the current position and the target are hidden or disabled by
	// the renderer on the way.
	Veto           bool
	TargetQuestion string
	// Complete, when non-normal, resolves the page early with the given code.
	Complete domain.CompletionCode
}

// Handlers are the out-of-band callbacks a renderer emits while a page is up.
// Nil handlers are skipped.
type Handlers struct {
	// OnValueChanged fires when a question's value changes. Seconds is the
	// elapsed time since page onset, used for reaction-time keys.
	OnValueChanged func(question string, value any, seconds float64)
	// OnPageChanging fires when the participant attempts to leave the page.
	OnPageChanging func() PageDirective
}

// PageRenderer presents a prepared page and blocks (cooperatively, the call
// may span an arbitrary, user-paced number of frames) until the participant
// completes it. The returned answers map carries the final value of every
// answered question on the page.
type PageRenderer interface {
	// Subscribe installs callbacks for the next Present call.
	Subscribe(h Handlers)

	// Present shows the page and waits for completion. It returns how the
	// page concluded together with the answers collected on it.
	Present(ctx context.Context, page *Page, settings PresentSettings) (domain.CompletionCode, map[string]any, error)
}
