package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vtcore/internal/config"
	"vtcore/internal/overlay"
	"vtcore/internal/pty"
	"vtcore/internal/telemetry"
)

// newRunCmd builds the "run" subcommand: open an interactive pane running
// either the user's shell or an explicit command, taking the host terminal
// into raw mode for the session's duration (internal/overlay.Session.Run).
func newRunCmd() *cobra.Command {
	var record bool
	var recordDir string

	cmd := &cobra.Command{
		Use:   "run [-- command [args...]]",
		Short: "Start an interactive terminal pane",
		Long:  "Spawn a shell (or an explicit command) in a pane and drive it interactively until it exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pty.IsInteractive(os.Stdin.Fd()) {
				return fmt.Errorf("termcore: run requires an interactive terminal")
			}

			cfg, ok := config.Load()
			log := telemetry.New(config.DebugEnabled(), filepath.Join(config.DataDir(), "termcore.log"))
			defer log.Close()
			if !ok {
				log.Warn("cmd", "run", "config unreadable or invalid, using defaults", nil)
			}

			sess := overlay.New(cfg, log, os.Stdout)
			if record {
				sess.EnableRecording(recordDir)
			}

			var command string
			var cmdArgs []string
			if len(args) > 0 {
				command, cmdArgs = args[0], args[1:]
			}
			return sess.Run(command, cmdArgs)
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "record the session to a .cast file")
	cmd.Flags().StringVar(&recordDir, "record-dir", "", "directory to write recordings to (default: the data directory's recordings/ subdir)")
	return cmd
}
