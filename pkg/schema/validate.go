package schema

import "fmt"

// Validate checks the structural integrity of the document: every flow node
// must be a known variant with exactly its own fields populated, and every
// index must resolve. Any failure here is fatal to the flow — the interpreter
// refuses to run a document that does not validate.
func (d *Document) Validate() error {
	var errs []error

	if d.SurveyFlow == nil {
		errs = append(errs, &NodeError{Path: "surveyFlow", Reason: "missing flow tree"})
	} else {
		errs = append(errs, d.validateNode(d.SurveyFlow, "surveyFlow")...)
	}

	for name, sl := range d.QuestionSkipLogic {
		if sl.Expression == "" {
			errs = append(errs, fmt.Errorf("skip logic for question %q: missing expression", name))
		}
		if sl.Destination == "" {
			errs = append(errs, fmt.Errorf("skip logic for question %q: missing destination", name))
		}
	}

	// Skip logic rides on the last question of its page. That is an
	// authoring convention, not something the interpreter can repair, so we
	// fail loudly here rather than silently assume a different ordering.
	for name := range d.QuestionSkipLogic {
		if err := d.validateSkipLogicPlacement(name); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func (d *Document) validateNode(n *FlowNode, path string) []error {
	var errs []error

	if !KnownNodeType(n.Type) {
		return []error{&NodeError{Path: path, Reason: fmt.Sprintf("unknown node type %q", n.Type)}}
	}

	switch n.Type {
	case NodeQuestionBlock:
		if n.SurveyIdx == nil {
			errs = append(errs, &NodeError{Path: path, Reason: "questionBlock requires surveyIdx"})
		} else if *n.SurveyIdx < 0 || *n.SurveyIdx >= len(d.Surveys) {
			errs = append(errs, &NodeError{Path: path, Reason: fmt.Sprintf("surveyIdx %d out of range (%d surveys)", *n.SurveyIdx, len(d.Surveys))})
		}
		errs = append(errs, d.requireEmpty(n, path, n.DataIdx != nil, n.Expression != "", len(n.Nodes) > 0)...)
	case NodeEmbeddedData:
		if n.DataIdx == nil {
			errs = append(errs, &NodeError{Path: path, Reason: "embeddedData requires dataIdx"})
		} else if *n.DataIdx < 0 || *n.DataIdx >= len(d.EmbeddedData) {
			errs = append(errs, &NodeError{Path: path, Reason: fmt.Sprintf("dataIdx %d out of range (%d assignment lists)", *n.DataIdx, len(d.EmbeddedData))})
		}
		errs = append(errs, d.requireEmpty(n, path, n.SurveyIdx != nil, n.Expression != "", len(n.Nodes) > 0)...)
	case NodeConditional:
		if n.Expression == "" {
			errs = append(errs, &NodeError{Path: path, Reason: "conditional requires expression"})
		}
		if n.Then == nil {
			errs = append(errs, &NodeError{Path: path, Reason: "conditional requires then branch"})
		} else {
			errs = append(errs, d.validateNode(n.Then, path+".then")...)
		}
		if n.Else != nil {
			errs = append(errs, d.validateNode(n.Else, path+".else")...)
		}
		errs = append(errs, d.requireEmpty(n, path, n.SurveyIdx != nil, n.DataIdx != nil, len(n.Nodes) > 0)...)
	case NodeRandomizedGroup, NodeSequentialGroup:
		for i, c := range n.Nodes {
			if c == nil {
				errs = append(errs, &NodeError{Path: fmt.Sprintf("%s.nodes[%d]", path, i), Reason: "nil child"})
				continue
			}
			errs = append(errs, d.validateNode(c, fmt.Sprintf("%s.nodes[%d]", path, i))...)
		}
		errs = append(errs, d.requireEmpty(n, path, n.SurveyIdx != nil, n.DataIdx != nil, n.Expression != "")...)
	case NodeEndSurvey:
		errs = append(errs, d.requireEmpty(n, path, n.SurveyIdx != nil, n.DataIdx != nil, n.Expression != "", len(n.Nodes) > 0)...)
	}

	return errs
}

// requireEmpty flags a node that populates fields belonging to another
// variant. Exactly one variant's fields may be set per node.
func (d *Document) requireEmpty(n *FlowNode, path string, foreign ...bool) []error {
	for _, set := range foreign {
		if set {
			return []error{&NodeError{Path: path, Reason: fmt.Sprintf("%s node populates fields of another variant", n.Type)}}
		}
	}
	return nil
}

// validateSkipLogicPlacement verifies the named question exists and is the
// last question on its page.
func (d *Document) validateSkipLogicPlacement(question string) error {
	for si, s := range d.Surveys {
		for qi, q := range s.Questions {
			if q.Name != question {
				continue
			}
			if qi != len(s.Questions)-1 {
				return fmt.Errorf("skip logic question %q must be the last question of survey %d (found at position %d of %d)",
					question, si, qi, len(s.Questions))
			}
			return nil
		}
	}
	return fmt.Errorf("skip logic references unknown question %q", question)
}
