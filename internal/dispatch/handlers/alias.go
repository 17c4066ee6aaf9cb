package handlers

import (
	"strings"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Alias expands a leading token that names a session alias and
// re-dispatches the expanded command. Expansions whose own leading
// token is the alias name are skipped so "ll = ll -a" style
// definitions fall through to plain execution instead of recursing.
type Alias struct {
	session handler.SessionInterface
}

// NewAlias creates the alias handler over the given session store.
func NewAlias(session handler.SessionInterface) *Alias {
	return &Alias{session: session}
}

func (h *Alias) Name() string { return "alias" }

func (h *Alias) Priority() int { return PriorityAlias }

// CanHandle matches input whose leading token is a defined alias.
func (h *Alias) CanHandle(input string) bool {
	if h.session == nil {
		return false
	}
	token := leadingToken(input)
	if token == "" {
		return false
	}
	expansion, ok := h.session.Alias(token)
	if !ok {
		return false
	}
	return leadingToken(expansion) != token
}

// Execute implements handler.Handler.
func (h *Alias) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Dispatcher == nil {
		return handler.Failuref("alias expansion is not wired: missing dispatcher")
	}

	fields := strings.Fields(input)
	expansion, ok := h.session.Alias(strings.ToLower(fields[0]))
	if !ok {
		return handler.Failuref("alias %q disappeared during dispatch", fields[0])
	}

	expanded := expansion
	if len(fields) > 1 {
		expanded = expansion + " " + strings.Join(fields[1:], " ")
	}
	return ctx.Dispatcher.Dispatch(expanded)
}
