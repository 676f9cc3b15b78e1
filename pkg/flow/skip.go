package flow

import (
	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/schema"
)

// skipDirective evaluates the skip logic attached to the page's last question
// against the current data context. This is a second, narrower conditional
// point than the flow tree's conditional nodes: it fires on page transitions,
// not while walking the tree.
//
// The question carrying skip logic is by authoring convention the last
// question on its page; Document.Validate enforces that at load time.
func (it *Interpreter) skipDirective(page *ports.Page, state *runState) ports.PageDirective {
	qs := page.Survey.Questions
	if len(qs) == 0 {
		return ports.PageDirective{}
	}
	last := qs[len(qs)-1]

	rule, ok := it.doc.QuestionSkipLogic[last.Name]
	if !ok {
		return ports.PageDirective{}
	}

	env := state.vars.EnvWith(state.results)
	val, err := it.eval.Evaluate(rule.Expression, env)
	if err != nil {
		// Same fail-closed policy as conditionals: a broken expression never
		// hijacks navigation.
		it.logger.Warn("skip logic expression failed, ignoring rule",
			"question", last.Name, "err", err)
		return ports.PageDirective{}
	}
	if !Truthy(val) {
		return ports.PageDirective{}
	}

	switch rule.Destination {
	case schema.DestEndOfBlock:
		return ports.PageDirective{Complete: domain.CompletionSkipBlock}
	case schema.DestEndOfSurvey:
		return ports.PageDirective{Complete: domain.CompletionSkipSurvey}
	default:
		return ports.PageDirective{Veto: true, TargetQuestion: rule.Destination}
	}
}
