package handlers

import (
	"fmt"
	"strings"

	"github.com/dshills/shellgate/internal/app"
	"github.com/dshills/shellgate/internal/classify"
	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Exec is the universal tier-gated executor and the guaranteed
// catch-all at the end of every chain. It consults the classifier and
// either refuses, asks for confirmation, or hands the command to the
// execution adapter.
type Exec struct{}

// NewExec creates the catch-all executor.
func NewExec() *Exec { return &Exec{} }

// Name implements handler.Handler.
func (h *Exec) Name() string { return "exec" }

// Priority implements handler.Handler.
func (h *Exec) Priority() int { return PriorityExec }

// CanHandle implements handler.Handler. The catch-all claims every
// input so the chain is total.
func (h *Exec) CanHandle(string) bool { return true }

// Execute implements handler.Handler.
func (h *Exec) Execute(input string, ctx *handler.Context) handler.Result {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return handler.Failure("nothing to execute", handler.SentinelExitCode)
	}
	if ctx.Classifier == nil || ctx.Runner == nil {
		return handler.Failuref("executor is not wired: missing classifier or runner")
	}

	tier := ctx.Classifier.TierOf(trimmed)
	name := leadingToken(trimmed)

	audit := app.GetLogger().WithComponent("gate")

	switch {
	case tier >= classify.TierForbidden:
		// Hard floor: no execution path without the explicit override
		// held by the bypass handler.
		audit.Warn("refused tier 4 command %q", trimmed)
		return handler.Refused(fmt.Sprintf(
			"refusing %q: %s is classified tier 4 and is never executed without an explicit override", trimmed, name))

	case tier == classify.TierConfirm:
		if !confirm(ctx, fmt.Sprintf("%q requires confirmation (tier 2.5). Run it?", trimmed)) {
			audit.Info("tier 2.5 command %q not confirmed", trimmed)
			return handler.Refused(fmt.Sprintf("%q requires confirmation and was not confirmed", trimmed))
		}

	case tier >= classify.TierCaution:
		if !confirm(ctx, fmt.Sprintf("%q is unrecognized or risky (tier %s). Run it anyway?", trimmed, tier)) {
			audit.Info("tier %s command %q not approved", tier, trimmed)
			return handler.Refused(fmt.Sprintf("%q requires validation (tier %s) and was not approved", trimmed, tier))
		}
		audit.Info("tier %s command %q approved interactively", tier, trimmed)
	}

	return ctx.Runner.Run(trimmed)
}

// confirm asks the context's confirmer. Without one, gated commands
// are refused: missing wiring degrades toward caution.
func confirm(ctx *handler.Context, prompt string) bool {
	if ctx.Confirm == nil {
		return false
	}
	return ctx.Confirm(prompt)
}
