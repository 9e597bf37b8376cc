// Package cmd builds the termcore CLI: a cobra root command wrapping the
// core's interactive session loop (internal/overlay), session recording,
// and replay.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "termcore",
		Short: "A GPU-accelerated terminal's PTY/VT/render core",
		Long:  "termcore drives the PTY session manager, VT engine, and render pipeline directly from a plain terminal: run an interactive pane, optionally recording it, and replay a recording later.",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newReplayCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
