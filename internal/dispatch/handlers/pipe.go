package handlers

import (
	"fmt"
	"strings"

	"github.com/dshills/shellgate/internal/classify"
	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Pipe gates shell pipelines. Every stage is classified individually
// before the pipeline runs; one forbidden stage refuses the whole
// pipeline. The intact pipeline text goes to the runner so the shell
// keeps ownership of the actual plumbing.
type Pipe struct{}

// NewPipe creates the pipeline handler.
func NewPipe() *Pipe { return &Pipe{} }

func (h *Pipe) Name() string { return "pipe" }

func (h *Pipe) Priority() int { return PriorityPipe }

// CanHandle matches input containing an unquoted pipe operator.
func (h *Pipe) CanHandle(input string) bool {
	return len(splitPipeline(input)) > 1
}

// Execute implements handler.Handler.
func (h *Pipe) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Classifier == nil || ctx.Runner == nil {
		return handler.Failuref("pipeline handler is not wired: missing classifier or runner")
	}

	stages := splitPipeline(input)

	worst := classify.TierTrusted
	worstStage := ""
	for _, stage := range stages {
		stage = strings.TrimSpace(stage)
		if stage == "" {
			return handler.Failure("malformed pipeline: empty stage", handler.SentinelExitCode)
		}
		tier := ctx.Classifier.TierOf(stage)
		if tier >= classify.TierForbidden {
			return handler.Refused(fmt.Sprintf(
				"refusing pipeline: stage %q is classified tier 4", stage))
		}
		if tier > worst {
			worst = tier
			worstStage = stage
		}
	}

	if worst >= classify.TierConfirm {
		prompt := fmt.Sprintf("pipeline stage %q is tier %s. Run the pipeline %q?", worstStage, worst, strings.TrimSpace(input))
		if !confirm(ctx, prompt) {
			return handler.Refused(fmt.Sprintf(
				"pipeline stage %q (tier %s) was not confirmed", worstStage, worst))
		}
	}

	return ctx.Runner.Run(strings.TrimSpace(input))
}

// splitPipeline splits on single unquoted pipe characters. The logical
// OR operator and pipes inside quotes are left alone. A result of one
// element means the input is not a pipeline.
func splitPipeline(input string) []string {
	var (
		stages  []string
		current strings.Builder
		quote   rune
	)

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == '|':
			if i+1 < len(runes) && runes[i+1] == '|' {
				current.WriteString("||")
				i++
				continue
			}
			stages = append(stages, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	stages = append(stages, current.String())
	return stages
}
