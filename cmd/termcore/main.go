// Command termcore is the terminal core's standalone binary: it wraps
// internal/cmd's cobra root so the PTY/VT/render core can be driven from a
// plain shell without any GUI front end.
package main

import (
	"fmt"
	"os"

	"vtcore/internal/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
