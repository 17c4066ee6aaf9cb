// Package dispatch routes raw command text to handlers and returns a
// uniform Result for every possible input.
//
// # Architecture
//
// A Dispatcher owns an ordered chain of handlers, lazily built and
// priority-sorted exactly once. Each Dispatch call scans the chain in
// ascending priority order and delegates to the first handler whose
// predicate claims the input. The chain always ends in a catch-all
// tier-gated executor, so some handler matches every input; a scan
// that matches nothing is a build-time defect and panics rather than
// reporting a silent success.
//
// # Handlers
//
// Handlers implement the handler.Handler interface:
//
//	type Handler interface {
//	    Execute(input string, ctx *handler.Context) handler.Result
//	    CanHandle(input string) bool
//	    Priority() int
//	    Name() string
//	}
//
// Priorities are fixed at construction; duplicate priorities are
// rejected when the chain is built, not discovered at dispatch time.
//
// # Execution Context
//
// Each call receives a fresh handler.Context holding borrowed
// references to the classifier, the execution adapter, the session
// store, the AI collaborator, and the dispatcher itself for
// re-dispatching transformed input. Handlers must not retain the
// context past the call.
//
// # Error handling
//
// Everything at or below the dispatch boundary recovers locally into
// a failed Result: spawn failures, non-zero exits, timeouts, refusals,
// and recovered handler panics. Only the no-match invariant violation
// and a failed chain build escape as panics, since they signal
// configuration defects rather than runtime conditions.
package dispatch
