package handlers

import (
	"fmt"
	"strings"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Natural translates "?"-prefixed natural language into a single shell
// command via the collaborator, then re-dispatches the translation so
// it passes through the same gates as typed input.
type Natural struct{}

// NewNatural creates the natural-language handler.
func NewNatural() *Natural { return &Natural{} }

func (h *Natural) Name() string { return "natural" }

func (h *Natural) Priority() int { return PriorityNatural }

// CanHandle matches input starting with "?".
func (h *Natural) CanHandle(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "?")
}

// Execute implements handler.Handler.
func (h *Natural) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Collaborator == nil {
		return handler.Failuref("natural-language translation needs a collaborator; set an API key")
	}
	if ctx.Dispatcher == nil {
		return handler.Failuref("natural-language translation is not wired: missing dispatcher")
	}

	request := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "?"))
	if request == "" {
		return handler.Failure("usage: ? <what you want to do>", handler.SentinelExitCode)
	}

	command, err := ctx.Collaborator.Translate(ctx.Ctx, request)
	if err != nil {
		return handler.Failuref("translation failed: %v", err)
	}

	result := ctx.Dispatcher.Dispatch(command)
	result.Output = fmt.Sprintf("$ %s\n%s", command, result.Output)
	return result
}
