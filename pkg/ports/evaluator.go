package ports

// Evaluator parses and evaluates string expressions against named variables.
// Variables are referenced either bare or interpolated as {name}; the
// evaluator must support boolean, numeric and array-membership ("contains")
// operators.
//
// Evaluate returns the resulting value, or an error for ill-formed expression
// text. Callers decide the failure policy; the flow interpreter treats
// evaluation errors on conditionals as false.
type Evaluator interface {
	Evaluate(expression string, env map[string]any) (any, error)
}
