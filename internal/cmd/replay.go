package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vtcore/internal/recorder"
)

// newReplayCmd builds the "replay" subcommand: parse a .cast file and play
// its output events back to stdout at their recorded pace (scaled by
// --speed), driven by a virtual clock so playback speed changes don't desync.
func newReplayCmd() *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "replay <file.cast>",
		Short: "Replay a recorded session to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := recorder.ParseCastFile(args[0])
			if err != nil {
				return err
			}
			switch {
			case speed < recorder.MinSpeed:
				speed = recorder.MinSpeed
			case speed > recorder.MaxSpeed:
				speed = recorder.MaxSpeed
			}
			r.Speed = speed
			r.Playing = true

			ticker := time.NewTicker(16 * time.Millisecond)
			defer ticker.Stop()

			last := time.Now()
			for r.Playing {
				<-ticker.C
				now := time.Now()
				dt := now.Sub(last).Seconds()
				last = now

				fed, _ := r.Advance(dt)
				for _, e := range fed {
					os.Stdout.Write(e.Data)
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\nreplay finished (%d events, %.1fs)\n", len(r.Events), r.TotalDuration())
			return nil
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", 1.0, "playback speed multiplier")
	return cmd
}
