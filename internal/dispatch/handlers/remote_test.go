package handlers_test

import (
	"strings"
	"testing"

	"github.com/dshills/shellgate/internal/dispatch/handlers"
)

func TestRemoteCanHandle(t *testing.T) {
	h := handlers.NewRemote()

	if !h.CanHandle("@pi uptime") || !h.CanHandle("  @nas df -h") {
		t.Error("should match @ prefix")
	}
	if h.CanHandle("user@host") || h.CanHandle("uptime") {
		t.Error("must match only a leading @")
	}
}

func TestRemoteRewritesToSSH(t *testing.T) {
	h := handlers.NewRemote()
	ctx, sess := sessionContext()
	sess.devices["pi"] = "admin@raspberry.local"
	disp := &fakeDispatcher{}
	ctx.Dispatcher = disp

	result := h.Execute("@pi uptime -p", ctx)
	if !result.Succeeded {
		t.Fatalf("remote failed: %+v", result)
	}
	if len(disp.inputs) != 1 {
		t.Fatalf("expected one re-dispatch, got %v", disp.inputs)
	}
	rewritten := disp.inputs[0]
	if !strings.HasPrefix(rewritten, "ssh admin@raspberry.local") {
		t.Errorf("rewritten = %q", rewritten)
	}
	if !strings.Contains(rewritten, "uptime -p") {
		t.Errorf("rewritten lost the command: %q", rewritten)
	}
}

func TestRemoteUnknownDevice(t *testing.T) {
	h := handlers.NewRemote()
	ctx, _ := sessionContext()
	ctx.Dispatcher = &fakeDispatcher{}

	if result := h.Execute("@ghost ls", ctx); result.Succeeded {
		t.Error("unknown device should fail")
	}
}

func TestRemoteUsage(t *testing.T) {
	h := handlers.NewRemote()
	ctx, _ := sessionContext()
	ctx.Dispatcher = &fakeDispatcher{}

	for _, input := range []string{"@", "@pi"} {
		if result := h.Execute(input, ctx); result.Succeeded {
			t.Errorf("%q should fail with usage", input)
		}
	}
}
