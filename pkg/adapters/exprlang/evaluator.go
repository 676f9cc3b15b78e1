// Package exprlang adapts github.com/expr-lang/expr to the ports.Evaluator
// contract used by the survey flow interpreter.
//
// Survey expressions interpolate variables as {name}; the adapter rewrites
// those references to plain identifiers before compiling. Expressions are
// compiled against the concrete data context, so a reference to a variable
// that has not been assigned yet is a compile error — which is exactly what
// the flow semantics need: conditionals fail closed and embedded-data
// assignments fall back to their literal text.
package exprlang

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
)

var interpolationRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Evaluator implements ports.Evaluator on top of expr-lang.
type Evaluator struct{}

// New creates an evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate compiles and runs the expression against env. Boolean, numeric and
// array-membership operators are available, including a contains(list, item)
// helper alongside expr's native "in".
func (e *Evaluator) Evaluate(expression string, env map[string]any) (any, error) {
	code := interpolationRe.ReplaceAllString(expression, "$1")

	scope := make(map[string]any, len(env)+1)
	for k, v := range env {
		scope[k] = v
	}
	scope["contains"] = contains

	program, err := expr.Compile(code, expr.Env(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}

	out, err := expr.Run(program, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}
	return out, nil
}

// contains reports array membership, with a string-contains fallback so
// authored expressions work over both answer lists and free text.
func contains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case []any:
		for _, v := range h {
			if fmt.Sprintf("%v", v) == fmt.Sprintf("%v", needle) {
				return true
			}
		}
		return false
	case []string:
		for _, v := range h {
			if v == fmt.Sprintf("%v", needle) {
				return true
			}
		}
		return false
	case string:
		return strings.Contains(h, fmt.Sprintf("%v", needle))
	default:
		return false
	}
}
