// Package graph renders a survey flow tree as a Mermaid flowchart, for the
// `cadence graph` introspection command.
package graph

import (
	"fmt"
	"strings"

	"github.com/openstimuli/cadence/pkg/schema"
)

// GenerateMermaid produces Mermaid flowchart syntax for a flow tree.
// Semantic shapes:
//   - question block: [/Parallelogram/] (participant input)
//   - conditional: {Diamond}
//   - embedded data: [[Subroutine]]
//   - groups: [Rectangle], randomized ones annotated with a shuffle marker
//   - end: ((Circle))
func GenerateMermaid(root *schema.FlowNode) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	var counter int
	writeNode(&sb, root, &counter)
	return sb.String()
}

// writeNode emits the node and its edges, returning its Mermaid ID.
func writeNode(sb *strings.Builder, n *schema.FlowNode, counter *int) string {
	id := fmt.Sprintf("n%d", *counter)
	*counter++

	switch n.Type {
	case schema.NodeQuestionBlock:
		fmt.Fprintf(sb, "    %s[/\"block %d\"/]\n", id, *n.SurveyIdx)

	case schema.NodeConditional:
		cond := strings.ReplaceAll(n.Expression, "\"", "'")
		fmt.Fprintf(sb, "    %s{\"%s\"}\n", id, cond)
		thenID := writeNode(sb, n.Then, counter)
		fmt.Fprintf(sb, "    %s -- \"true\" --> %s\n", id, thenID)
		if n.Else != nil {
			elseID := writeNode(sb, n.Else, counter)
			fmt.Fprintf(sb, "    %s -- \"false\" --> %s\n", id, elseID)
		}

	case schema.NodeEmbeddedData:
		fmt.Fprintf(sb, "    %s[[\"data %d\"]]\n", id, *n.DataIdx)

	case schema.NodeRandomizedGroup, schema.NodeSequentialGroup:
		label := "sequential"
		arrow := "-->"
		if n.Type == schema.NodeRandomizedGroup {
			label = "randomized 🔀"
			arrow = "-.->"
		}
		fmt.Fprintf(sb, "    %s[\"%s\"]\n", id, label)
		for _, c := range n.Nodes {
			childID := writeNode(sb, c, counter)
			fmt.Fprintf(sb, "    %s %s %s\n", id, arrow, childID)
		}

	case schema.NodeEndSurvey:
		fmt.Fprintf(sb, "    %s((\"end\"))\n", id)
	}

	return id
}
