package handlers

import (
	"os"
	"strings"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Chdir implements the cd builtin. Child processes cannot change the
// interpreter's working directory, so cd mutates the runner's state
// instead of spawning anything.
type Chdir struct{}

// NewChdir creates the cd handler.
func NewChdir() *Chdir { return &Chdir{} }

func (h *Chdir) Name() string { return "chdir" }

func (h *Chdir) Priority() int { return PriorityChdir }

// CanHandle matches "cd" and "cd <dir>".
func (h *Chdir) CanHandle(input string) bool {
	return leadingToken(input) == "cd"
}

// Execute implements handler.Handler.
func (h *Chdir) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Runner == nil {
		return handler.Failuref("cd is not wired: missing runner")
	}

	target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "cd"))
	if target == "" || target == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return handler.Failuref("cd: cannot resolve home directory: %v", err)
		}
		target = home
	} else if strings.HasPrefix(target, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return handler.Failuref("cd: cannot resolve home directory: %v", err)
		}
		target = home + target[1:]
	}

	if err := ctx.Runner.SetWorkDir(target); err != nil {
		return handler.Failuref("cd: %v", err)
	}
	return handler.Success(ctx.Runner.WorkDir())
}
