package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/schema"
)

func testPage() *ports.Page {
	return &ports.Page{
		SurveyIdx: 0,
		Survey: schema.Survey{
			Name: "demo",
			Questions: []schema.Question{
				{Name: "color", Title: "Pick a color", Choices: []schema.Choice{
					{Value: "red", Text: "Red"},
					{Value: "blue", Text: "Blue"},
				}},
				{Name: "age"},
			},
		},
	}
}

func present(t *testing.T, input string, h ports.Handlers) (domain.CompletionCode, map[string]any) {
	t.Helper()
	var out bytes.Buffer
	r := NewRenderer(strings.NewReader(input), &out)
	r.Subscribe(h)
	code, answers, err := r.Present(context.Background(), testPage(), ports.PresentSettings{})
	require.NoError(t, err)
	return code, answers
}

func TestRenderer_CollectsAnswers(t *testing.T) {
	var changed []string
	code, answers := present(t, "1\n33\n", ports.Handlers{
		OnValueChanged: func(q string, _ any, _ float64) { changed = append(changed, q) },
	})

	assert.Equal(t, domain.CompletionNormal, code)
	assert.Equal(t, "red", answers["color"], "a numbered selection resolves to the choice value")
	assert.Equal(t, 33, answers["age"])
	assert.Equal(t, []string{"color", "age"}, changed)
}

func TestRenderer_SkipAndQuitKeywords(t *testing.T) {
	t.Run("skip ends the block", func(t *testing.T) {
		code, answers := present(t, "skip\n", ports.Handlers{})
		assert.Equal(t, domain.CompletionSkipBlock, code)
		assert.Empty(t, answers)
	})

	t.Run("quit ends the survey", func(t *testing.T) {
		code, answers := present(t, "2\nQUIT\n", ports.Handlers{})
		assert.Equal(t, domain.CompletionSkipSurvey, code)
		assert.Equal(t, "blue", answers["color"])
	})
}

func TestRenderer_PageChangingDirectives(t *testing.T) {
	t.Run("early completion", func(t *testing.T) {
		code, _ := present(t, "1\nok\n", ports.Handlers{
			OnPageChanging: func() ports.PageDirective {
				return ports.PageDirective{Complete: domain.CompletionSkipSurvey}
			},
		})
		assert.Equal(t, domain.CompletionSkipSurvey, code)
	})

	t.Run("veto jumps back to the target question", func(t *testing.T) {
		vetoed := false
		code, answers := present(t, "1\nfirst\n2\nsecond\n", ports.Handlers{
			OnPageChanging: func() ports.PageDirective {
				if vetoed {
					return ports.PageDirective{}
				}
				vetoed = true
				return ports.PageDirective{Veto: true, TargetQuestion: "color"}
			},
		})
		assert.Equal(t, domain.CompletionNormal, code)
		assert.Equal(t, "blue", answers["color"], "the revisited question overwrote its answer")
		assert.Equal(t, "second", answers["age"])
	})
}

func TestParseAnswer(t *testing.T) {
	q := schema.Question{Choices: []schema.Choice{{Value: "a"}, {Value: "b"}}}

	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"choice number", "2", "b"},
		{"number beyond choices", "9", 9},
		{"float", "1.5", 1.5},
		{"free text", "whatever", "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAnswer(q, tt.input))
		})
	}
}
