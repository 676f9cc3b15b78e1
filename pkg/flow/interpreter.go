package flow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/openstimuli/cadence/internal/logging"
	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/schema"
)

// outcome is what a node visit reports back to its caller.
type outcome int

const (
	// outcomeAdvance means continue with the next sibling.
	outcomeAdvance outcome = iota
	// outcomeEndBlock means stop visiting siblings of the current group only.
	outcomeEndBlock
	// outcomeEndSurvey unwinds the whole recursion immediately.
	outcomeEndSurvey
)

// Interpreter drives a ports.PageRenderer through the page sequence described
// by a document's flow tree, honoring conditionals, randomization and skip
// logic.
type Interpreter struct {
	doc      *schema.Document
	renderer ports.PageRenderer
	eval     ports.Evaluator
	rng      *rand.Rand
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	settings ports.PresentSettings
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithRand injects the random source used for every shuffle. Defaults to a
// PCG seeded from the wall clock.
func WithRand(rng *rand.Rand) Option {
	return func(it *Interpreter) {
		it.rng = rng
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(it *Interpreter) {
		it.logger = logger
	}
}

// WithLifecycleHooks registers page observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(it *Interpreter) {
		it.hooks = hooks
	}
}

// WithPresentSettings sets the renderer-level presentation options passed
// along with every page.
func WithPresentSettings(settings ports.PresentSettings) Option {
	return func(it *Interpreter) {
		it.settings = settings
	}
}

// New creates an interpreter over a validated document. The document is
// validated again here so programmatically built documents get the same
// structural guarantees as loaded ones.
func New(doc *schema.Document, renderer ports.PageRenderer, eval ports.Evaluator, opts ...Option) (*Interpreter, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	it := &Interpreter{
		doc:      doc,
		renderer: renderer,
		eval:     eval,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(it)
	}
	if it.rng == nil {
		now := uint64(time.Now().UnixNano())
		it.rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return it, nil
}

// runState is the explicit mutable accumulator threaded through one walk.
type runState struct {
	vars     *VariableStore
	results  domain.Results
	shuffled map[*schema.FlowNode]struct{}
}

// Run walks the flow tree once. It returns the flat results artifact with the
// variables merged in. On error the results gathered so far are still
// returned, so hosts can save partial data.
func (it *Interpreter) Run(ctx context.Context) (domain.Results, error) {
	state := &runState{
		vars:     NewVariableStore(),
		results:  domain.NewResults(),
		shuffled: make(map[*schema.FlowNode]struct{}),
	}

	_, err := it.visit(ctx, it.doc.SurveyFlow, state)
	state.vars.MergeInto(state.results)
	if err != nil {
		return state.results, err
	}
	return state.results, nil
}

// visit evaluates one flow node. Exactly one case runs per call; unknown node
// types abort the flow (they should have been rejected by validation).
func (it *Interpreter) visit(ctx context.Context, n *schema.FlowNode, state *runState) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcomeEndSurvey, err
	}

	switch n.Type {
	case schema.NodeQuestionBlock:
		return it.visitQuestionBlock(ctx, *n.SurveyIdx, state)

	case schema.NodeConditional:
		return it.visitConditional(ctx, n, state)

	case schema.NodeEmbeddedData:
		it.assignEmbeddedData(it.doc.EmbeddedData[*n.DataIdx], state.vars)
		return outcomeAdvance, nil

	case schema.NodeRandomizedGroup:
		// Shuffle once per flow execution pass; re-entry must not reshuffle.
		if _, done := state.shuffled[n]; !done {
			Shuffle(it.rng, n.Nodes)
			state.shuffled[n] = struct{}{}
		}
		return it.visitGroup(ctx, n.Nodes, state)

	case schema.NodeSequentialGroup:
		return it.visitGroup(ctx, n.Nodes, state)

	case schema.NodeEndSurvey:
		return outcomeEndSurvey, nil

	default:
		return outcomeEndSurvey, domain.NewError("flow", "visiting node", fmt.Errorf("unknown node type %q", n.Type))
	}
}

// visitGroup runs children in order. A child ending the block stops this
// group only; the parent continues with its own siblings.
func (it *Interpreter) visitGroup(ctx context.Context, children []*schema.FlowNode, state *runState) (outcome, error) {
	for _, child := range children {
		out, err := it.visit(ctx, child, state)
		if err != nil {
			return out, err
		}
		switch out {
		case outcomeEndBlock:
			return outcomeAdvance, nil
		case outcomeEndSurvey:
			return outcomeEndSurvey, nil
		}
	}
	return outcomeAdvance, nil
}

// visitConditional evaluates the expression against the union of answers and
// variables, then recurses into exactly one branch (or none).
//
// Evaluation failures are fail-closed: the condition counts as false and the
// else/no-op path runs. See DESIGN.md for the policy decision.
func (it *Interpreter) visitConditional(ctx context.Context, n *schema.FlowNode, state *runState) (outcome, error) {
	env := state.vars.EnvWith(state.results)
	truthy := false
	val, err := it.eval.Evaluate(n.Expression, env)
	if err != nil {
		it.logger.Warn("conditional expression failed, treating as false",
			"expression", n.Expression, "err", err)
	} else {
		truthy = Truthy(val)
	}

	if truthy {
		return it.visit(ctx, n.Then, state)
	}
	if n.Else != nil {
		return it.visit(ctx, n.Else, state)
	}
	return outcomeAdvance, nil
}

// assignEmbeddedData runs assignments in declared order. Value text that
// evaluates cleanly against the variables assigned so far is stored as its
// result; anything else is stored literally. This node never suspends.
func (it *Interpreter) assignEmbeddedData(assignments []schema.Assignment, vars *VariableStore) {
	for _, a := range assignments {
		val, err := it.eval.Evaluate(a.Value, vars.Env())
		if err != nil {
			vars.Set(a.Key, a.Value)
			continue
		}
		vars.Set(a.Key, val)
	}
}

// visitQuestionBlock prepares the page at idx, hands it to the renderer and
// suspends until completion, then merges answers and maps the completion code
// onto the walk outcome.
func (it *Interpreter) visitQuestionBlock(ctx context.Context, idx int, state *runState) (outcome, error) {
	page, err := it.preparePage(idx)
	if err != nil {
		return outcomeEndSurvey, err
	}

	it.renderer.Subscribe(ports.Handlers{
		OnValueChanged: func(question string, value any, seconds float64) {
			state.results.Set(question, value)
			state.results.SetRT(question, seconds)
		},
		OnPageChanging: func() ports.PageDirective {
			return it.skipDirective(page, state)
		},
	})

	it.emitPage(ctx, domain.EventPagePresented, page, domain.CompletionNormal)
	completion, answers, err := it.renderer.Present(ctx, page, it.settings)
	if err != nil {
		return outcomeEndSurvey, domain.NewError("flow", fmt.Sprintf("when presenting page %d", idx), err)
	}
	for q, v := range answers {
		state.results.Set(q, v)
	}

	// Skip logic also applies at page completion, for renderers that do not
	// emit page-changing callbacks.
	if completion == domain.CompletionNormal {
		if d := it.skipDirective(page, state); d.Complete != domain.CompletionNormal {
			completion = d.Complete
		}
	}
	if !completion.Valid() {
		return outcomeEndSurvey, domain.NewError("flow", fmt.Sprintf("when presenting page %d", idx),
			fmt.Errorf("renderer returned invalid completion code %d", int(completion)))
	}

	it.emitPage(ctx, domain.EventPageCompleted, page, completion)
	it.logger.Debug("page completed", "survey_idx", idx, "completion", completion.String())

	switch completion {
	case domain.CompletionSkipBlock:
		return outcomeEndBlock, nil
	case domain.CompletionSkipSurvey:
		return outcomeEndSurvey, nil
	default:
		return outcomeAdvance, nil
	}
}

// preparePage applies question-order randomization for the block and choice
// randomization for each question, collecting any unused remainder.
func (it *Interpreter) preparePage(idx int) (*ports.Page, error) {
	src := it.doc.Surveys[idx]

	questions := src.Questions
	if cfg, ok := it.doc.QuestionsOrderRandomization[strconv.Itoa(idx)]; ok {
		var err error
		questions, _, err = applyQuestionOrder(it.rng, questions, cfg)
		if err != nil {
			return nil, domain.NewError("flow", fmt.Sprintf("preparing page %d", idx), err)
		}
	}

	page := &ports.Page{
		SurveyIdx: idx,
		Survey: schema.Survey{
			Name:      src.Name,
			Questions: make([]schema.Question, len(questions)),
		},
		UnusedChoices: make(map[string][]schema.Choice),
	}

	for i, q := range questions {
		if cfg, ok := it.doc.InQuestionRandomization[q.Name]; ok {
			choices, unused, err := applyChoiceOrder(it.rng, q, cfg)
			if err != nil {
				return nil, domain.NewError("flow", fmt.Sprintf("preparing page %d", idx), err)
			}
			q.Choices = choices
			if len(unused) > 0 {
				page.UnusedChoices[q.Name] = unused
			}
		}
		page.Survey.Questions[i] = q
	}

	return page, nil
}

// Truthy reports whether an evaluated expression value counts as true.
func Truthy(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case nil:
		return false
	case string:
		return v != "" && v != "false" && v != "0"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func (it *Interpreter) emitPage(ctx context.Context, typ domain.EventType, page *ports.Page, completion domain.CompletionCode) {
	var hook func(context.Context, *domain.PageEvent)
	switch typ {
	case domain.EventPagePresented:
		hook = it.hooks.OnPagePresented
	case domain.EventPageCompleted:
		hook = it.hooks.OnPageCompleted
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.PageEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: typ},
		SurveyIdx:  page.SurveyIdx,
		PageName:   page.Survey.Name,
		Completion: completion,
	})
}
