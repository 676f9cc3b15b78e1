package schema_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstimuli/cadence/pkg/schema"
)

func intp(i int) *int { return &i }

func sampleDocument() *schema.Document {
	return &schema.Document{
		Surveys: []schema.Survey{
			{Name: "intro", Questions: []schema.Question{
				{Name: "consent", Title: "Do you consent?", Type: "radio", Choices: []schema.Choice{
					{Value: "yes", Text: "Yes"},
					{Value: "no", Text: "No"},
				}},
			}},
			{Name: "main", Questions: []schema.Question{
				{Name: "color", Choices: []schema.Choice{
					{Value: "red"}, {Value: "green"}, {Value: "blue"},
				}},
			}},
		},
		SurveyFlow: &schema.FlowNode{
			Type: schema.NodeSequentialGroup,
			Nodes: []*schema.FlowNode{
				{Type: schema.NodeEmbeddedData, DataIdx: intp(0)},
				{Type: schema.NodeQuestionBlock, SurveyIdx: intp(0)},
				{
					Type:       schema.NodeConditional,
					Expression: `{consent} == "yes"`,
					Then:       &schema.FlowNode{Type: schema.NodeQuestionBlock, SurveyIdx: intp(1)},
					Else:       &schema.FlowNode{Type: schema.NodeEndSurvey},
				},
			},
		},
		EmbeddedData: [][]schema.Assignment{
			{{Key: "group", Value: "control"}},
		},
		QuestionsOrderRandomization: map[string]schema.OrderRandomization{
			"1": {Mode: schema.RandomShuffle},
		},
		InQuestionRandomization: map[string]schema.ChoiceRandomization{
			"color": {Mode: schema.RandomReverse},
		},
		QuestionSkipLogic: map[string]schema.SkipLogic{
			"color": {Expression: `{color} == "red"`, Destination: schema.DestEndOfSurvey},
		},
	}
}

func TestDocument_SaveLoadRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))

	loaded, err := schema.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	_, err := schema.Load(strings.NewReader(`{"surveys": [`))
	assert.ErrorContains(t, err, "failed to decode survey flow document")
}

func TestLoad_RejectsInvalidDocument(t *testing.T) {
	_, err := schema.Load(strings.NewReader(`{"surveys": []}`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing flow tree")
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*schema.Document)
		wantErr string
	}{
		{
			name:    "valid document passes",
			mutate:  func(*schema.Document) {},
			wantErr: "",
		},
		{
			name: "unknown node type",
			mutate: func(d *schema.Document) {
				d.SurveyFlow.Nodes[0] = &schema.FlowNode{Type: "teleport"}
			},
			wantErr: `unknown node type "teleport"`,
		},
		{
			name: "survey index out of range",
			mutate: func(d *schema.Document) {
				d.SurveyFlow.Nodes[1].SurveyIdx = intp(7)
			},
			wantErr: "surveyIdx 7 out of range",
		},
		{
			name: "data index out of range",
			mutate: func(d *schema.Document) {
				d.SurveyFlow.Nodes[0].DataIdx = intp(3)
			},
			wantErr: "dataIdx 3 out of range",
		},
		{
			name: "conditional without expression",
			mutate: func(d *schema.Document) {
				d.SurveyFlow.Nodes[2].Expression = ""
			},
			wantErr: "conditional requires expression",
		},
		{
			name: "conditional without then branch",
			mutate: func(d *schema.Document) {
				d.SurveyFlow.Nodes[2].Then = nil
			},
			wantErr: "conditional requires then branch",
		},
		{
			name: "mixed variant fields",
			mutate: func(d *schema.Document) {
				d.SurveyFlow.Nodes[1].DataIdx = intp(0)
			},
			wantErr: "populates fields of another variant",
		},
		{
			name: "skip logic without expression",
			mutate: func(d *schema.Document) {
				d.QuestionSkipLogic["color"] = schema.SkipLogic{Destination: schema.DestEndOfBlock}
			},
			wantErr: "missing expression",
		},
		{
			name: "skip logic on unknown question",
			mutate: func(d *schema.Document) {
				d.QuestionSkipLogic["ghost"] = schema.SkipLogic{Expression: "true", Destination: schema.DestEndOfBlock}
			},
			wantErr: `unknown question "ghost"`,
		},
		{
			name: "skip logic not on last question",
			mutate: func(d *schema.Document) {
				d.Surveys[1].Questions = append(d.Surveys[1].Questions, schema.Question{Name: "extra"})
			},
			wantErr: "must be the last question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			tt.mutate(doc)
			err := doc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidationErrors_Unwraps(t *testing.T) {
	doc := sampleDocument()
	doc.SurveyFlow.Nodes[0] = &schema.FlowNode{Type: "warp"}
	doc.SurveyFlow.Nodes[1].SurveyIdx = intp(9)

	err := doc.Validate()
	require.Error(t, err)
	errs := schema.ValidationErrors(err)
	assert.Len(t, errs, 2)

	assert.Nil(t, schema.ValidationErrors(nil))
}

func TestFlowNode_CloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	clone := doc.SurveyFlow.Clone()

	require.Equal(t, doc.SurveyFlow, clone)

	// Mutating the clone must not leak into the original tree.
	clone.Nodes[0], clone.Nodes[1] = clone.Nodes[1], clone.Nodes[0]
	clone.Nodes[0].Type = schema.NodeEndSurvey
	assert.Equal(t, schema.NodeEmbeddedData, doc.SurveyFlow.Nodes[0].Type)
}

func TestDecodeOrderRandomization(t *testing.T) {
	cfg, err := schema.DecodeOrderRandomization(map[string]any{
		"mode":  "showOnly",
		"count": "2", // authoring tools emit numbers as strings
	})
	require.NoError(t, err)
	assert.Equal(t, schema.RandomShowOnly, cfg.Mode)
	assert.Equal(t, 2, cfg.Count)
}

func TestDecodeChoiceRandomization(t *testing.T) {
	cfg, err := schema.DecodeChoiceRandomization(map[string]any{
		"mode":   "layout",
		"layout": []any{"a", "b"},
		"sets":   map[string]any{"a": []any{"x"}, "b": []any{"y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.RandomLayout, cfg.Mode)
	assert.Equal(t, []string{"a", "b"}, cfg.Layout)
	assert.Equal(t, map[string][]string{"a": {"x"}, "b": {"y"}}, cfg.Sets)
}
