// Package handlers implements the standard capability chain.
//
// Handlers intercept specific syntactic shapes of command input before
// generic tier-gated execution. Only the catch-all executor is required
// for correctness; everything else is a specialization. The fixed
// priorities below define evaluation order (lower runs earlier), and
// the chain builder rejects any two handlers sharing a priority.
package handlers

import "strings"

// Fixed chain priorities in ascending evaluation order. The catch-all
// executor carries the numerically largest value so it is always
// evaluated last.
const (
	PriorityPipe    = 10
	PriorityChdir   = 20
	PriorityBypass  = 30
	PriorityExit    = 40
	PriorityConfig  = 50
	PriorityRemote  = 60
	PriorityTask    = 70
	PriorityAgent   = 80
	PriorityMeta    = 90
	PriorityNatural = 100
	PriorityAlias   = 110
	PriorityExec    = 1000
)

// leadingToken returns the first whitespace-delimited token of input,
// lowercased, or "" for blank input.
func leadingToken(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
