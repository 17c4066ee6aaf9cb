package dispatch

import "errors"

// Dispatcher errors.
var (
	// ErrNoHandler indicates no handler matched an input. This is an
	// invariant violation: the chain must always contain a catch-all.
	ErrNoHandler = errors.New("dispatch: no handler matched input")

	// ErrDuplicatePriority indicates two handlers share a priority.
	ErrDuplicatePriority = errors.New("dispatch: duplicate handler priority")

	// ErrEmptyChain indicates the chain was built with no handlers.
	ErrEmptyChain = errors.New("dispatch: handler chain is empty")
)
