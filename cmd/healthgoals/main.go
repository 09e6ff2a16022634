package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "healthgoals",
		Short:        "Biomarker goal tracking service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(biomarkersCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(progressCmd())
	return rootCmd
}
