package pty

import "github.com/mattn/go-isatty"

// IsInteractive reports whether fd is attached to a real terminal device
// (as opposed to a pipe, file, or redirected stream). Spawn doesn't need
// this itself; the run command uses it to refuse to start when stdin is not
// a terminal, since the session needs raw mode.
func IsInteractive(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
