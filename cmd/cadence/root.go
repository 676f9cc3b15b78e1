package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence is a frame-synchronized experiment flow engine",
	Long:  `Cadence runs behavioral-experiment flows: frame-paced trial routines and survey flow documents with conditionals, randomization and skip logic.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("settings", "", "Path to a YAML experiment settings file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}
