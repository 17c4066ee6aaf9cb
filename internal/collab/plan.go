package collab

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ParsePlan extracts plan steps from a raw model reply. Models are
// told to reply with a bare JSON array but routinely wrap it in code
// fences or prose, so the parser locates the outermost array before
// decoding.
func ParsePlan(raw string) ([]Step, error) {
	raw = stripFences(raw)

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("collab: no JSON array in plan reply")
	}

	parsed := gjson.Parse(raw[start : end+1])
	if !parsed.IsArray() {
		return nil, fmt.Errorf("collab: plan reply is not a JSON array")
	}

	var steps []Step
	var parseErr error
	parsed.ForEach(func(_, item gjson.Result) bool {
		cmd := strings.TrimSpace(item.Get("command").String())
		if cmd == "" {
			parseErr = fmt.Errorf("collab: plan step %d has no command", len(steps))
			return false
		}
		steps = append(steps, Step{
			Command:     cmd,
			TierHint:    item.Get("tier").String(),
			Description: item.Get("description").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("collab: plan reply has no steps")
	}
	return steps, nil
}

// stripFences removes markdown code fences around a reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the fence line.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// cleanCommand normalizes a single-command reply.
func cleanCommand(s string) (string, error) {
	s = strings.TrimSpace(stripFences(s))
	// Some models prefix the shell prompt they were shown.
	s = strings.TrimPrefix(s, "$ ")
	if s == "" || strings.EqualFold(s, "none") {
		return "", ErrEmptyReply
	}
	// A single command never spans lines; keep the first.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s, nil
}
