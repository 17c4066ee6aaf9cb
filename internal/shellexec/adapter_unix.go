//go:build !windows

package shellexec

import (
	"context"
	"os"
	"os/exec"
)

// defaultShell resolves the script-capable shell for this host.
func defaultShell() (string, []string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-c"}
}

// buildCommand wraps command text for the configured shell.
func (a *Adapter) buildCommand(ctx context.Context, command string) *exec.Cmd {
	args := append(append([]string{}, a.shellArgs...), command)
	return exec.CommandContext(ctx, a.shell, args...)
}
