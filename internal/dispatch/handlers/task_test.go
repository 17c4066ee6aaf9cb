package handlers_test

import (
	"strings"
	"testing"

	"github.com/dshills/shellgate/internal/collab"
	"github.com/dshills/shellgate/internal/dispatch/handler"
	"github.com/dshills/shellgate/internal/dispatch/handlers"
)

func TestTaskCanHandle(t *testing.T) {
	h := handlers.NewTask()

	if !h.CanHandle("task: set up a git repo") || !h.CanHandle("  Task: x") {
		t.Error("should match task: prefix")
	}
	if h.CanHandle("multitask: x") || h.CanHandle("task") {
		t.Error("must match only the task: prefix")
	}
}

func TestTaskRedispatchesEveryStep(t *testing.T) {
	h := handlers.NewTask()
	ctx := handler.New()
	ctx.Collaborator = &fakeCollab{plan: []collab.Step{
		{Command: "mkdir demo", Description: "create directory"},
		{Command: "git init demo", Description: "initialize repo"},
	}}
	disp := &fakeDispatcher{}
	ctx.Dispatcher = disp

	result := h.Execute("task: set up a demo repo", ctx)
	if !result.Succeeded {
		t.Fatalf("task failed: %+v", result)
	}

	// Steps go through the chain, never straight to a runner.
	if len(disp.inputs) != 2 || disp.inputs[0] != "mkdir demo" || disp.inputs[1] != "git init demo" {
		t.Errorf("re-dispatched = %v", disp.inputs)
	}
	if !strings.Contains(result.Output, "[1/2]") || !strings.Contains(result.Output, "[2/2]") {
		t.Errorf("output missing step markers: %q", result.Output)
	}
}

func TestTaskStopsOnFailedStep(t *testing.T) {
	h := handlers.NewTask()
	ctx := handler.New()
	ctx.Collaborator = &fakeCollab{plan: []collab.Step{
		{Command: "step-one"},
		{Command: "step-two"},
		{Command: "step-three"},
	}}
	disp := &fakeDispatcher{results: []handler.Result{
		handler.Success("ok"),
		handler.Failure("broke", 2),
	}}
	ctx.Dispatcher = disp

	result := h.Execute("task: do things", ctx)
	if result.Succeeded {
		t.Error("task with a failed step must fail")
	}
	if result.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want the failed step's code", result.ExitCode)
	}
	if len(disp.inputs) != 2 {
		t.Errorf("steps after a failure must not run, got %v", disp.inputs)
	}
}

func TestTaskWithoutCollaborator(t *testing.T) {
	h := handlers.NewTask()
	ctx := handler.New()
	ctx.Dispatcher = &fakeDispatcher{}

	if result := h.Execute("task: anything", ctx); result.Succeeded {
		t.Error("task without a collaborator should fail")
	}
}

func TestTaskPlanError(t *testing.T) {
	h := handlers.NewTask()
	ctx := handler.New()
	ctx.Collaborator = &fakeCollab{planErr: errTest}
	ctx.Dispatcher = &fakeDispatcher{}

	if result := h.Execute("task: anything", ctx); result.Succeeded {
		t.Error("plan error should fail the task")
	}
}

func TestTaskEmptyGoal(t *testing.T) {
	h := handlers.NewTask()
	ctx := handler.New()
	ctx.Collaborator = &fakeCollab{}
	ctx.Dispatcher = &fakeDispatcher{}

	if result := h.Execute("task:   ", ctx); result.Succeeded {
		t.Error("empty goal should fail with usage")
	}
}
