//go:build windows

package shellexec

import (
	"context"
	"os"
	"os/exec"
)

// defaultShell resolves the command interpreter on Windows.
func defaultShell() (string, []string) {
	shell := os.Getenv("ComSpec")
	if shell == "" {
		shell = "cmd.exe"
	}
	return shell, []string{"/C"}
}

// buildCommand invokes the interpreter directly with the command text.
func (a *Adapter) buildCommand(ctx context.Context, command string) *exec.Cmd {
	args := append(append([]string{}, a.shellArgs...), command)
	return exec.CommandContext(ctx, a.shell, args...)
}
