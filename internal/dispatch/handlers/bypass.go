package handlers

import (
	"fmt"
	"strings"

	"github.com/dshills/shellgate/internal/app"
	"github.com/dshills/shellgate/internal/classify"
	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Bypass runs a "!"-prefixed command without confirmation prompts. It
// is the sanctioned escape hatch for tiers 2.5 and 3. Tier 4 stays
// refused unless the session was started with the destructive
// override.
type Bypass struct{}

// NewBypass creates the bypass handler.
func NewBypass() *Bypass { return &Bypass{} }

func (h *Bypass) Name() string { return "bypass" }

func (h *Bypass) Priority() int { return PriorityBypass }

// CanHandle matches input starting with "!".
func (h *Bypass) CanHandle(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "!")
}

// Execute implements handler.Handler.
func (h *Bypass) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Classifier == nil || ctx.Runner == nil {
		return handler.Failuref("bypass is not wired: missing classifier or runner")
	}

	command := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "!"))
	if command == "" {
		return handler.Failure("nothing to bypass", handler.SentinelExitCode)
	}

	audit := app.GetLogger().WithComponent("gate")

	if ctx.Classifier.TierOf(command) >= classify.TierForbidden {
		if !ctx.AllowDestructive {
			audit.Warn("refused bypassed tier 4 command %q", command)
			return handler.Refused(fmt.Sprintf(
				"refusing %q: tier 4 commands stay blocked even with the bypass prefix; restart with the destructive override to run them", command))
		}
		audit.Warn("running tier 4 command %q under destructive override", command)
	}

	return ctx.Runner.Run(command)
}
