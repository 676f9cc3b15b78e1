package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openstimuli/cadence/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <flow.json>",
	Short: "Check a survey flow document for consistency",
	Long:  `Validates the flow tree structure, survey and embedded-data indices, and skip logic placement, reporting every problem found.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Flow document is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	// LoadFile validates; list individual problems when there are several.
	_, err := schema.LoadFile(path)
	if errs := schema.ValidationErrors(err); errs != nil {
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
		return fmt.Errorf("%d problem(s)", len(errs))
	}
	return err
}
