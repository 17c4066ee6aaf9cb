// Package collab implements the AI translation collaborator boundary.
//
// A Translator turns natural language into either a single shell
// command or an ordered plan of steps. Callers must re-submit every
// returned command through the dispatcher for tier gating; nothing in
// this package executes commands.
package collab

import (
	"context"
	"errors"
	"os"
)

// Provider errors.
var (
	// ErrNoProvider indicates no API key for any known provider was found.
	ErrNoProvider = errors.New("collab: no provider configured")

	// ErrEmptyReply indicates the model returned no usable text.
	ErrEmptyReply = errors.New("collab: empty model reply")
)

// Step is one command in a multi-step plan returned by a Translator.
type Step struct {
	// Command is the shell command text. It must be re-dispatched,
	// never executed directly.
	Command string `json:"command"`

	// TierHint is the model's own safety estimate in textual tier
	// form. Advisory only; local classification always governs.
	TierHint string `json:"tier"`

	// Description says what the step accomplishes.
	Description string `json:"description"`
}

// Translator converts natural-language input into shell commands.
type Translator interface {
	// Translate returns a single command for the given request.
	Translate(ctx context.Context, text string) (string, error)

	// Plan returns an ordered list of steps for a multi-step goal.
	Plan(ctx context.Context, goal string) ([]Step, error)
}

// translatePrompt instructs the model to emit exactly one command.
const translatePrompt = `You translate user requests into a single shell command.
Reply with only the command, no explanation, no code fences.
If the request cannot be satisfied by one command, reply with the single word: none`

// planPrompt instructs the model to emit a JSON array of steps.
const planPrompt = `You break a user goal into an ordered list of shell commands.
Reply with only a JSON array, no explanation, no code fences. Each element:
{"command": "<shell command>", "tier": "<1|2|2.5|3|4>", "description": "<what it does>"}`

// FromEnv selects a provider from conventional API-key environment
// variables, preferring OpenAI, then Anthropic, then Gemini.
func FromEnv(ctx context.Context) (Translator, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewOpenAI(key), nil
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return NewAnthropic(key), nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return NewGemini(ctx, key)
	}
	return nil, ErrNoProvider
}
