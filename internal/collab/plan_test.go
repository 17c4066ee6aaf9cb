package collab_test

import (
	"testing"

	"github.com/dshills/shellgate/internal/collab"
)

func TestParsePlanBareArray(t *testing.T) {
	raw := `[
		{"command": "mkdir demo", "tier": "2", "description": "create dir"},
		{"command": "git init demo", "tier": "2", "description": "init repo"}
	]`

	steps, err := collab.ParsePlan(raw)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("got %d steps", len(steps))
	}
	if steps[0].Command != "mkdir demo" || steps[0].TierHint != "2" {
		t.Errorf("step 0 = %+v", steps[0])
	}
	if steps[1].Description != "init repo" {
		t.Errorf("step 1 = %+v", steps[1])
	}
}

func TestParsePlanStripsFences(t *testing.T) {
	raw := "```json\n" + `[{"command": "ls", "tier": "1", "description": "list"}]` + "\n```"

	steps, err := collab.ParsePlan(raw)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if len(steps) != 1 || steps[0].Command != "ls" {
		t.Errorf("steps = %+v", steps)
	}
}

func TestParsePlanToleratesProse(t *testing.T) {
	raw := `Here is your plan:
[{"command": "pwd"}]
Let me know if that helps.`

	steps, err := collab.ParsePlan(raw)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if len(steps) != 1 || steps[0].Command != "pwd" {
		t.Errorf("steps = %+v", steps)
	}
}

func TestParsePlanRejectsMissingCommand(t *testing.T) {
	if _, err := collab.ParsePlan(`[{"description": "no command"}]`); err == nil {
		t.Error("step without a command must be rejected")
	}
}

func TestParsePlanRejectsNonArray(t *testing.T) {
	for _, raw := range []string{"no json here", "{}", "", "[]"} {
		if _, err := collab.ParsePlan(raw); err == nil {
			t.Errorf("ParsePlan(%q) should fail", raw)
		}
	}
}
