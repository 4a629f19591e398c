// Package cli wires the travelplanner commands.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "travelplanner",
	Short:         "Travel planner API server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
