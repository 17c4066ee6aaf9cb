package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/shellgate/internal/collab"
	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// maxAgentSteps bounds the translate-execute loop so a confused model
// cannot spin forever.
const maxAgentSteps = 5

// Agent runs "agent: <goal>" as an iterative loop: ask the
// collaborator for the next command, dispatch it through the chain,
// feed the output back, repeat until the model signals completion or
// the step budget runs out.
type Agent struct{}

// NewAgent creates the agent-loop handler.
func NewAgent() *Agent { return &Agent{} }

func (h *Agent) Name() string { return "agent" }

func (h *Agent) Priority() int { return PriorityAgent }

// CanHandle matches input starting with "agent:".
func (h *Agent) CanHandle(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(strings.ToLower(input)), "agent:")
}

// Execute implements handler.Handler.
func (h *Agent) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Collaborator == nil {
		return handler.Failuref("agent mode needs a collaborator; set an API key")
	}
	if ctx.Dispatcher == nil {
		return handler.Failuref("agent mode is not wired: missing dispatcher")
	}

	goal := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "agent:"))
	if goal == "" {
		return handler.Failure("usage: agent: <goal>", handler.SentinelExitCode)
	}

	var sb strings.Builder
	prompt := goal

	for step := 1; step <= maxAgentSteps; step++ {
		command, err := ctx.Collaborator.Translate(ctx.Ctx, prompt)
		if errors.Is(err, collab.ErrEmptyReply) {
			if step == 1 {
				return handler.Failuref("agent produced no command for %q", goal)
			}
			// The model declined to continue; treat as completion.
			break
		}
		if err != nil {
			return handler.Failuref("agent translation failed: %v", err)
		}

		fmt.Fprintf(&sb, "[%d] $ %s\n", step, command)
		result := ctx.Dispatcher.Dispatch(command)
		if result.Output != "" {
			sb.WriteString(result.Output)
			sb.WriteString("\n")
		}
		if !result.Succeeded {
			fmt.Fprintf(&sb, "agent stopped: step %d failed", step)
			return handler.Failure(sb.String(), result.ExitCode)
		}

		prompt = fmt.Sprintf("%s\nLast command: %s\nOutput:\n%s\nReply none if the goal is complete.",
			goal, command, result.Output)
	}

	return handler.Success(strings.TrimRight(sb.String(), "\n"))
}
