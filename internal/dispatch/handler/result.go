// Package handler provides the handler contract and uniform result
// type for command dispatch.
package handler

import "fmt"

// SentinelExitCode is the exit code reported when no process ran:
// spawn failures, timeouts, and safety refusals.
const SentinelExitCode = -1

// Result is the uniform outcome of one dispatch call. Every execution
// path returns a Result in place of error-based signaling; a true
// Succeeded always pairs with ExitCode 0 and a false Succeeded with a
// non-zero or sentinel code.
type Result struct {
	// Succeeded reports whether the command ran to a zero exit status.
	Succeeded bool

	// Output is the combined output, or an explanation of a refusal
	// or spawn failure.
	Output string

	// ExitCode is the process exit status, or SentinelExitCode when
	// no process ran.
	ExitCode int
}

// Success creates a successful result.
func Success(output string) Result {
	return Result{Succeeded: true, Output: output, ExitCode: 0}
}

// Failure creates a failed result with an explicit exit code.
// A zero exit code is coerced to the sentinel so the Succeeded/ExitCode
// invariant holds.
func Failure(output string, exitCode int) Result {
	if exitCode == 0 {
		exitCode = SentinelExitCode
	}
	return Result{Succeeded: false, Output: output, ExitCode: exitCode}
}

// Failuref creates a failed result with the sentinel exit code and a
// formatted explanation.
func Failuref(format string, args ...any) Result {
	return Result{
		Succeeded: false,
		Output:    fmt.Sprintf(format, args...),
		ExitCode:  SentinelExitCode,
	}
}

// Refused creates a failed result for a command blocked by safety
// gating. No process was spawned.
func Refused(reason string) Result {
	return Result{Succeeded: false, Output: reason, ExitCode: SentinelExitCode}
}
