package pty

import (
	"os"
	"runtime"

	"github.com/google/shlex"
)

// ResolveShell picks the command+args to run when the caller did not ask
// for an explicit program. override may come from config.Settings.Shell and
// can embed arguments ("zsh -l", "pwsh -NoLogo"); it is split with shlex so
// callers never need to pre-split it themselves.
func ResolveShell(override string) (string, []string) {
	if override == "" {
		override = os.Getenv("SHELL")
	}
	if override != "" {
		if parts, err := shlex.Split(override); err == nil && len(parts) > 0 {
			return parts[0], parts[1:]
		}
		return override, nil
	}

	if runtime.GOOS == "windows" {
		return defaultWindowsShell(), nil
	}
	return "/bin/zsh", nil
}

// defaultWindowsShell returns "powershell"; it does not look on PATH for
// pwsh or cmd. The config layer may override this entirely via Settings.Shell.
func defaultWindowsShell() string {
	return "powershell"
}
