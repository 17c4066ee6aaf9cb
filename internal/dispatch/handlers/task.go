package handlers

import (
	"fmt"
	"strings"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Task turns "task: <goal>" into a multi-step plan from the
// collaborator and re-dispatches every planned step through the chain.
// Planned commands never reach the runner directly: each one is gated
// by the same classification path as typed input.
type Task struct{}

// NewTask creates the planned-task handler.
func NewTask() *Task { return &Task{} }

func (h *Task) Name() string { return "task" }

func (h *Task) Priority() int { return PriorityTask }

// CanHandle matches input starting with "task:".
func (h *Task) CanHandle(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(strings.ToLower(input)), "task:")
}

// Execute implements handler.Handler.
func (h *Task) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Collaborator == nil {
		return handler.Failuref("task planning needs a collaborator; set an API key")
	}
	if ctx.Dispatcher == nil {
		return handler.Failuref("task planning is not wired: missing dispatcher")
	}

	goal := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "task:"))
	if goal == "" {
		return handler.Failure("usage: task: <goal>", handler.SentinelExitCode)
	}

	steps, err := ctx.Collaborator.Plan(ctx.Ctx, goal)
	if err != nil {
		return handler.Failuref("task planning failed: %v", err)
	}
	if len(steps) == 0 {
		return handler.Failuref("task planning produced no steps for %q", goal)
	}

	var sb strings.Builder
	for i, step := range steps {
		if step.Description != "" {
			fmt.Fprintf(&sb, "[%d/%d] %s\n", i+1, len(steps), step.Description)
		} else {
			fmt.Fprintf(&sb, "[%d/%d]\n", i+1, len(steps))
		}
		fmt.Fprintf(&sb, "$ %s\n", step.Command)

		result := ctx.Dispatcher.Dispatch(step.Command)
		if result.Output != "" {
			sb.WriteString(result.Output)
			sb.WriteString("\n")
		}
		if !result.Succeeded {
			fmt.Fprintf(&sb, "task stopped: step %d failed", i+1)
			return handler.Failure(sb.String(), result.ExitCode)
		}
	}

	return handler.Success(strings.TrimRight(sb.String(), "\n"))
}
