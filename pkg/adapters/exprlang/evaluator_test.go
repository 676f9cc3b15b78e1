package exprlang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstimuli/cadence/pkg/adapters/exprlang"
)

func TestEvaluator_Interpolation(t *testing.T) {
	e := exprlang.New()
	env := map[string]any{"score": 7, "name": "ada"}

	tests := []struct {
		name       string
		expression string
		want       any
	}{
		{"bare literal", "42", 42},
		{"braced variable", "{score}", 7},
		{"arithmetic over variable", "{score} + 1", 8},
		{"comparison", "{score} > 5", true},
		{"string equality", `{name} == "ada"`, true},
		{"mixed braced and plain", "{score} + score", 14},
		{"boolean combination", `{score} > 5 && {name} != ""`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expression, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_UndefinedVariableErrors(t *testing.T) {
	e := exprlang.New()

	_, err := e.Evaluate("{missing} + 1", map[string]any{"present": 1})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to compile")
}

func TestEvaluator_LiteralTextErrors(t *testing.T) {
	// Free text like "hello" is an undefined identifier, not a string; the
	// flow layer relies on this to store such values literally.
	e := exprlang.New()
	_, err := e.Evaluate("hello", map[string]any{})
	assert.Error(t, err)
}

func TestEvaluator_Contains(t *testing.T) {
	e := exprlang.New()

	tests := []struct {
		name string
		expr string
		env  map[string]any
		want bool
	}{
		{"any slice hit", `contains(picks, "b")`, map[string]any{"picks": []any{"a", "b"}}, true},
		{"any slice miss", `contains(picks, "z")`, map[string]any{"picks": []any{"a", "b"}}, false},
		{"string slice", `contains(picks, "x")`, map[string]any{"picks": []string{"x"}}, true},
		{"substring", `contains(text, "ell")`, map[string]any{"text": "hello"}, true},
		{"substring miss", `contains(text, "xyz")`, map[string]any{"text": "hello"}, false},
		{"numeric needle", `contains(picks, 2)`, map[string]any{"picks": []any{1, 2, 3}}, true},
		{"unsupported haystack", `contains(n, 1)`, map[string]any{"n": 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_NativeInOperator(t *testing.T) {
	e := exprlang.New()
	got, err := e.Evaluate(`{answer} in ["yes", "maybe"]`, map[string]any{"answer": "maybe"})
	require.NoError(t, err)
	assert.Equal(t, true, got)
}
