package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openstimuli/cadence/internal/presentation/graph"
	"github.com/openstimuli/cadence/pkg/schema"
)

var graphCmd = &cobra.Command{
	Use:   "graph <flow.json>",
	Short: "Render a flow document as a Mermaid diagram",
	Long:  `Prints the survey flow tree as Mermaid flowchart syntax for documentation and review.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := schema.LoadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(doc.SurveyFlow))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
