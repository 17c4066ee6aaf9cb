package handlers

import (
	"fmt"
	"strings"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Remote rewrites "@device command" into an ssh invocation against the
// host registered for that device in the session store, then re-enters
// the chain so the rewritten command is tier-gated like any other.
type Remote struct{}

// NewRemote creates the remote-device handler.
func NewRemote() *Remote { return &Remote{} }

func (h *Remote) Name() string { return "remote" }

func (h *Remote) Priority() int { return PriorityRemote }

// CanHandle matches input starting with "@".
func (h *Remote) CanHandle(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "@")
}

// Execute implements handler.Handler.
func (h *Remote) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Session == nil {
		return handler.Failuref("remote dispatch is not wired: missing session store")
	}
	if ctx.Dispatcher == nil {
		return handler.Failuref("remote dispatch is not wired: missing dispatcher")
	}

	fields := strings.Fields(input)
	if len(fields) < 2 {
		return handler.Failure("usage: @<device> <command>", handler.SentinelExitCode)
	}

	device := strings.TrimPrefix(fields[0], "@")
	if device == "" {
		return handler.Failure("usage: @<device> <command>", handler.SentinelExitCode)
	}

	host, ok := ctx.Session.Device(device)
	if !ok {
		return handler.Failuref("unknown device %q; register it with config set devices.%s <user@host>", device, device)
	}

	command := strings.Join(fields[1:], " ")
	return ctx.Dispatcher.Dispatch(fmt.Sprintf("ssh %s %q", host, command))
}
