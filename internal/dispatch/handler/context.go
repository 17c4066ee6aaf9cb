package handler

import (
	"context"
	"time"

	"github.com/dshills/shellgate/internal/classify"
	"github.com/dshills/shellgate/internal/collab"
)

// Dispatcher abstracts re-dispatch for handlers that transform input
// and submit it back through the chain (pipes, aliases, collaborator
// steps). Implementations enforce a recursion depth limit.
type Dispatcher interface {
	Dispatch(input string) Result
}

// ClassifierInterface abstracts tier classification for handlers.
type ClassifierInterface interface {
	TierOf(input string) classify.Tier
	IsSafe(input string) bool
	NeedsConfirmation(input string) bool
	NeedsValidation(input string) bool
}

// RunnerInterface abstracts the host-shell execution adapter.
// Run never returns an error; all spawn faults fold into a failed
// Result.
type RunnerInterface interface {
	Run(command string) Result
	RunWithTimeout(command string, timeout time.Duration) Result

	// WorkDir is the directory commands run in.
	WorkDir() string
	SetWorkDir(dir string) error
}

// SessionInterface abstracts persisted session state for handlers
// that need it (config get/set, aliases, remote devices). The core
// defines no storage format; this is the session collaborator
// boundary.
type SessionInterface interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Keys() []string

	Alias(name string) (string, bool)
	SetAlias(name, expansion string) error
	Aliases() map[string]string

	Device(name string) (string, bool)
}

// CollaboratorInterface abstracts the AI translation collaborator.
// Commands it returns are never executed directly; handlers re-submit
// them through the Dispatcher for tier gating.
type CollaboratorInterface interface {
	Translate(ctx context.Context, text string) (string, error)
	Plan(ctx context.Context, goal string) ([]collab.Step, error)
}

// Context carries borrowed references to the pipeline collaborators
// for the duration of a single dispatch call. Handlers must not
// retain it, or anything reached through it, past the call, and must
// not mutate shared classification or chain state.
type Context struct {
	// Ctx bounds collaborator calls made during this dispatch.
	Ctx context.Context

	// Dispatcher re-submits transformed input through the chain.
	Dispatcher Dispatcher

	// Classifier assigns safety tiers.
	Classifier ClassifierInterface

	// Runner spawns host-shell processes.
	Runner RunnerInterface

	// Session is the persisted-state collaborator; may be nil.
	Session SessionInterface

	// Collaborator is the AI translation boundary; may be nil.
	Collaborator CollaboratorInterface

	// Confirm prompts the user before tier-2.5 and tier-3 execution.
	// A nil Confirm means confirmation is unavailable and gated
	// commands are refused.
	Confirm func(prompt string) bool

	// AllowDestructive is the explicit, separately-gated override that
	// lets the bypass handler reach tier-4 commands. Set only by the
	// embedding caller, never by handlers.
	AllowDestructive bool
}

// New creates a Context with a background context.Context.
func New() *Context {
	return &Context{Ctx: context.Background()}
}
