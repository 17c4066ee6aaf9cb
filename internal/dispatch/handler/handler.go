package handler

// Handler claims responsibility for a class of command inputs and
// knows how to execute them.
//
// CanHandle must be pure and side-effect-free, at worst linear in the
// input length, and must never panic; failure-prone predicate logic
// belongs in handler construction, not dispatch. Execute may have side
// effects, including re-submitting transformed input through the
// Context's Dispatcher.
type Handler interface {
	// Execute handles the input and returns a Result.
	Execute(input string, ctx *Context) Result

	// CanHandle returns true if this handler claims the input.
	CanHandle(input string) bool

	// Priority is the fixed evaluation order: lower values are
	// evaluated earlier. No two handlers in a chain may share one.
	Priority() int

	// Name identifies the handler in logs and metrics.
	Name() string
}

// Func adapts a function to the Handler interface for tests and
// small custom handlers.
type Func struct {
	HandlerName string
	Prio        int
	Match       func(input string) bool
	Fn          func(input string, ctx *Context) Result
}

// Execute implements Handler.
func (f *Func) Execute(input string, ctx *Context) Result {
	if f.Fn == nil {
		return Failuref("handler %s has no function", f.Name())
	}
	return f.Fn(input, ctx)
}

// CanHandle implements Handler. A nil Match claims every input.
func (f *Func) CanHandle(input string) bool {
	if f.Match == nil {
		return true
	}
	return f.Match(input)
}

// Priority implements Handler.
func (f *Func) Priority() int { return f.Prio }

// Name implements Handler.
func (f *Func) Name() string {
	if f.HandlerName == "" {
		return "func"
	}
	return f.HandlerName
}
