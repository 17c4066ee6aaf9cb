package handlers

import (
	"strings"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Exit recognizes session-termination commands. The handler itself
// only acknowledges; the surrounding loop decides when to stop by
// checking IsExitCommand on raw input.
type Exit struct{}

// NewExit creates the exit handler.
func NewExit() *Exit { return &Exit{} }

func (h *Exit) Name() string { return "exit" }

func (h *Exit) Priority() int { return PriorityExit }

// CanHandle matches exit and quit, case-insensitively.
func (h *Exit) CanHandle(input string) bool {
	return IsExitCommand(input)
}

// Execute implements handler.Handler.
func (h *Exit) Execute(string, *handler.Context) handler.Result {
	return handler.Success("goodbye")
}

// IsExitCommand reports whether input asks to end the session.
func IsExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}
