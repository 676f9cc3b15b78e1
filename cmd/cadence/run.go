package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cadence "github.com/openstimuli/cadence"
	"github.com/openstimuli/cadence/internal/presentation/tui"
	"github.com/openstimuli/cadence/pkg/adapters/exprlang"
	"github.com/openstimuli/cadence/pkg/clock"
	"github.com/openstimuli/cadence/pkg/flow"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/schema"
)

// runCmd runs a survey flow document in the terminal.
var runCmd = &cobra.Command{
	Use:   "run <flow.json>",
	Short: "Run a survey flow document interactively",
	Long:  `Loads a survey flow document and presents it page by page in the terminal, honoring conditionals, randomization and skip logic. Results are saved through the configured store, or written next to the document when none is configured.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFlow(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-banner", false, "Suppress the startup banner")
}

func runFlow(cmd *cobra.Command, path string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	doc, err := schema.LoadFile(path)
	if err != nil {
		return err
	}

	if noBanner, _ := cmd.Flags().GetBool("no-banner"); !noBanner {
		tui.PrintBanner()
	}

	sess := cadence.NewSession(cfg.SessionID,
		cadence.WithLogger(logger),
		cadence.WithResultStore(newResultStore(cfg)),
	)

	renderer := tui.NewRenderer(os.Stdin, os.Stdout)
	err = sess.ScheduleSurvey(doc, renderer, exprlang.New(),
		flow.WithPresentSettings(ports.PresentSettings{
			Title:        cfg.Title,
			ShowProgress: cfg.ShowProgress,
		}),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := sess.Run(ctx, clock.NewFrameTicker(cfg.RefreshRate), nil); err != nil {
		// Partial results are still worth saving.
		if saveErr := sess.SaveResults(ctx); saveErr != nil {
			logger.Warn("failed to save partial results", "err", saveErr)
		}
		return err
	}

	if err := sess.SaveResults(ctx); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	fmt.Println("Flow complete. Results saved.")
	return nil
}
