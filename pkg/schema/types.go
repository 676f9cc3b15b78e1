package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// NodeType tags the variant of a flow node. Exactly one variant's fields are
// populated per node.
type NodeType string

const (
	NodeQuestionBlock   NodeType = "questionBlock"
	NodeConditional     NodeType = "conditional"
	NodeEmbeddedData    NodeType = "embeddedData"
	NodeRandomizedGroup NodeType = "randomizedGroup"
	NodeSequentialGroup NodeType = "sequentialGroup"
	NodeEndSurvey       NodeType = "endSurvey"
)

// KnownNodeType reports whether t is one of the defined flow node types.
func KnownNodeType(t NodeType) bool {
	switch t {
	case NodeQuestionBlock, NodeConditional, NodeEmbeddedData,
		NodeRandomizedGroup, NodeSequentialGroup, NodeEndSurvey:
		return true
	}
	return false
}

// FlowNode is one node of the survey flow tree. The tree is built once at
// load time and is immutable thereafter, except for the in-place shuffle of a
// randomized group's Nodes slice (order changes, membership never does).
type FlowNode struct {
	Type NodeType `json:"type"`

	// questionBlock: index into Document.Surveys.
	SurveyIdx *int `json:"surveyIdx,omitempty"`

	// embeddedData: index into Document.EmbeddedData.
	DataIdx *int `json:"dataIdx,omitempty"`

	// conditional: expression over answers and variables, plus branches.
	Expression string    `json:"expression,omitempty"`
	Then       *FlowNode `json:"then,omitempty"`
	Else       *FlowNode `json:"else,omitempty"`

	// randomizedGroup / sequentialGroup: ordered children.
	Nodes []*FlowNode `json:"nodes,omitempty"`
}

// Assignment is one embedded-data variable assignment. Value text that parses
// as an expression is evaluated against the variables assigned so far;
// anything else is stored literally.
type Assignment struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Choice is one selectable answer of a question.
type Choice struct {
	Value any    `json:"value"`
	Text  string `json:"text,omitempty"`
}

// Question is one element of a survey page.
type Question struct {
	Name    string   `json:"name"`
	Title   string   `json:"title,omitempty"`
	Type    string   `json:"type,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
}

// Survey is one renderable page description, referenced from the flow tree by
// index.
type Survey struct {
	Name      string     `json:"name,omitempty"`
	Questions []Question `json:"questions"`
}

// Randomization modes shared by question-order and in-question settings.
const (
	RandomNone     = "none"
	RandomShuffle  = "shuffle"
	RandomShowOnly = "showOnly"
	RandomReverse  = "reverse"
	RandomLayout   = "layout"
)

// OrderRandomization reorders the question elements of a block at present
// time. Keyed by block index in the document.
type OrderRandomization struct {
	Mode string `json:"mode" mapstructure:"mode"`
	// Count limits a shuffle to its first Count questions (showOnly).
	Count int `json:"count,omitempty" mapstructure:"count"`
	// Layout names subsets in presentation order; Sets defines them.
	Layout []string            `json:"layout,omitempty" mapstructure:"layout"`
	Sets   map[string][]string `json:"sets,omitempty" mapstructure:"sets"`
}

// ChoiceRandomization reorders or filters the answer choices of a single
// question. Keyed by question name in the document.
type ChoiceRandomization struct {
	Mode   string              `json:"mode" mapstructure:"mode"`
	Count  int                 `json:"count,omitempty" mapstructure:"count"`
	Layout []string            `json:"layout,omitempty" mapstructure:"layout"`
	Sets   map[string][]string `json:"sets,omitempty" mapstructure:"sets"`
}

// SkipLogic is a per-question expression-and-destination rule, evaluated when
// the participant leaves the page carrying the question. Destination is a
// question name, or one of the DestEndOfBlock / DestEndOfSurvey sentinels.
type SkipLogic struct {
	Expression  string `json:"expression"`
	Destination string `json:"destination"`
}

// Skip logic destination sentinels.
const (
	DestEndOfBlock  = "endOfBlock"
	DestEndOfSurvey = "endOfSurvey"
)

// Document is the full persisted survey flow description.
type Document struct {
	Surveys      []Survey     `json:"surveys"`
	SurveyFlow   *FlowNode    `json:"surveyFlow"`
	EmbeddedData [][]Assignment `json:"embeddedData,omitempty"`

	// Keyed by block index (decimal string, JSON object keys are strings).
	QuestionsOrderRandomization map[string]OrderRandomization `json:"questionsOrderRandomization,omitempty"`
	// Keyed by question name.
	InQuestionRandomization map[string]ChoiceRandomization `json:"inQuestionRandomization,omitempty"`
	// Keyed by question name.
	QuestionSkipLogic map[string]SkipLogic `json:"questionSkipLogic,omitempty"`
}

// DecodeOrderRandomization converts a loosely-typed settings map (as produced
// by authoring tools) into a typed policy.
func DecodeOrderRandomization(raw map[string]any) (OrderRandomization, error) {
	var out OrderRandomization
	if err := mapstructure.WeakDecode(raw, &out); err != nil {
		return out, fmt.Errorf("invalid question-order randomization settings: %w", err)
	}
	return out, nil
}

// DecodeChoiceRandomization converts a loosely-typed settings map into a typed
// in-question policy.
func DecodeChoiceRandomization(raw map[string]any) (ChoiceRandomization, error) {
	var out ChoiceRandomization
	if err := mapstructure.WeakDecode(raw, &out); err != nil {
		return out, fmt.Errorf("invalid in-question randomization settings: %w", err)
	}
	return out, nil
}
