package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dshills/shellgate/internal/app"
	"github.com/dshills/shellgate/internal/dispatch/handler"
	"github.com/dshills/shellgate/internal/dispatch/handlers"
)

// Config holds dispatcher configuration options.
type Config struct {
	// RecoverFromPanic wraps handler execution in panic recovery.
	// The no-match invariant violation is never recovered.
	RecoverFromPanic bool

	// AllowDestructive is the explicit override that lets the bypass
	// handler reach tier-4 commands. Off by default.
	AllowDestructive bool

	// MaxRedispatchDepth bounds recursive re-dispatch through
	// transforming handlers (aliases, pipes, collaborator steps).
	MaxRedispatchDepth int

	// MetaScript is an optional Lua file defining meta-commands.
	MetaScript string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RecoverFromPanic:   true,
		AllowDestructive:   false,
		MaxRedispatchDepth: 8,
	}
}

// Dispatcher selects exactly one handler for each input and delegates
// execution to it.
//
// The handler chain and its priority order are built lazily on the
// first dispatch and are immutable afterward; concurrent Dispatch
// calls read them without locking.
type Dispatcher struct {
	config Config

	classifier   handler.ClassifierInterface
	runner       handler.RunnerInterface
	session      handler.SessionInterface
	collaborator handler.CollaboratorInterface
	confirm      func(prompt string) bool

	logger  *app.Logger
	metrics *Metrics
	baseCtx context.Context

	// custom, when set, fully replaces the default chain. customSet
	// distinguishes an explicitly empty chain from no override at all;
	// the former must fail the build, not fall back to the default.
	custom    []handler.Handler
	customSet bool
	// extra handlers are appended to the default chain.
	extra []handler.Handler

	buildOnce sync.Once
	chain     []handler.Handler
	buildErr  error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClassifier sets the tier classifier.
func WithClassifier(c handler.ClassifierInterface) Option {
	return func(d *Dispatcher) { d.classifier = c }
}

// WithRunner sets the execution adapter.
func WithRunner(r handler.RunnerInterface) Option {
	return func(d *Dispatcher) { d.runner = r }
}

// WithSession sets the session collaborator.
func WithSession(s handler.SessionInterface) Option {
	return func(d *Dispatcher) { d.session = s }
}

// WithCollaborator sets the AI translation collaborator.
func WithCollaborator(c handler.CollaboratorInterface) Option {
	return func(d *Dispatcher) { d.collaborator = c }
}

// WithConfirm sets the interactive confirmation prompt.
func WithConfirm(fn func(prompt string) bool) Option {
	return func(d *Dispatcher) { d.confirm = fn }
}

// WithLogger sets the logger.
func WithLogger(l *app.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithContext sets the base context bounding collaborator calls.
func WithContext(ctx context.Context) Option {
	return func(d *Dispatcher) { d.baseCtx = ctx }
}

// WithChain fully replaces the default handler chain. Used by tests
// and embedders that assemble their own capability set.
func WithChain(hs ...handler.Handler) Option {
	return func(d *Dispatcher) {
		d.custom = hs
		d.customSet = true
	}
}

// WithExtraHandlers appends handlers to the default chain.
func WithExtraHandlers(hs ...handler.Handler) Option {
	return func(d *Dispatcher) { d.extra = append(d.extra, hs...) }
}

// New creates a Dispatcher. The chain is not built until the first
// Dispatch or an explicit Build.
func New(config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		config:  config,
		logger:  app.NullLogger,
		metrics: NewMetrics(),
		baseCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.config.MaxRedispatchDepth <= 0 {
		d.config.MaxRedispatchDepth = DefaultConfig().MaxRedispatchDepth
	}
	return d
}

// NewWithDefaults creates a Dispatcher with default configuration.
func NewWithDefaults(opts ...Option) *Dispatcher {
	return New(DefaultConfig(), opts...)
}

// Build assembles and validates the handler chain. It runs at most
// once; subsequent calls return the recorded outcome. Dispatch builds
// lazily, so calling Build is only needed for eager validation.
func (d *Dispatcher) Build() error {
	d.buildOnce.Do(d.build)
	return d.buildErr
}

// build assembles, sorts, and validates the chain.
func (d *Dispatcher) build() {
	chain := d.custom
	if !d.customSet {
		def, err := d.defaultChain()
		if err != nil {
			d.buildErr = err
			return
		}
		chain = append(def, d.extra...)
	}

	if len(chain) == 0 {
		d.buildErr = ErrEmptyChain
		return
	}

	sorted := make([]handler.Handler, len(chain))
	copy(sorted, chain)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	// Shared priorities would make evaluation order accidental.
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Priority() == sorted[i-1].Priority() {
			d.buildErr = fmt.Errorf("%w: %d shared by %s and %s",
				ErrDuplicatePriority, sorted[i].Priority(),
				sorted[i-1].Name(), sorted[i].Name())
			return
		}
	}

	d.chain = sorted
	d.logger.WithComponent("dispatch").Debug("chain built with %d handlers", len(sorted))
}

// defaultChain assembles the standard capability chain in ascending
// priority order, ending in the catch-all tier-gated executor.
func (d *Dispatcher) defaultChain() ([]handler.Handler, error) {
	meta, err := handlers.NewMeta(d.config.MetaScript)
	if err != nil {
		// Meta-command scripts are validated at build time, never at
		// dispatch time.
		return nil, err
	}

	return []handler.Handler{
		handlers.NewPipe(),
		handlers.NewChdir(),
		handlers.NewBypass(),
		handlers.NewExit(),
		handlers.NewConfigCmd(),
		handlers.NewRemote(),
		handlers.NewTask(),
		handlers.NewAgent(),
		meta,
		handlers.NewNatural(),
		handlers.NewAlias(d.session),
		handlers.NewExec(),
	}, nil
}

// Dispatch routes one input through the chain and returns its Result.
// It never returns an error: every runtime failure folds into a failed
// Result. It panics only on a chain-build defect or when no handler
// matches, both of which are programming errors.
func (d *Dispatcher) Dispatch(input string) handler.Result {
	return d.dispatch(input, 0)
}

// dispatch is the depth-tracked core of Dispatch.
func (d *Dispatcher) dispatch(input string, depth int) handler.Result {
	if err := d.Build(); err != nil {
		panic(fmt.Sprintf("dispatch: chain build failed: %v", err))
	}

	ctx := d.buildContext(depth)

	for _, h := range d.chain {
		if !h.CanHandle(input) {
			continue
		}

		start := time.Now()
		var result handler.Result
		if d.config.RecoverFromPanic {
			result = d.executeWithRecovery(h, input, ctx)
		} else {
			result = h.Execute(input, ctx)
		}
		d.metrics.RecordDispatch(h.Name(), time.Since(start), result.Succeeded)
		return result
	}

	// The catch-all guarantees total coverage; reaching this point is
	// a chain-construction defect, not a runtime condition.
	panic(fmt.Sprintf("%v: %q", ErrNoHandler, input))
}

// executeWithRecovery folds a handler panic into a failed Result.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, input string, ctx *handler.Context) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			d.logger.WithComponent("dispatch").Error("handler %s panicked: %v\n%s", h.Name(), r, stack[:n])
			d.metrics.RecordPanic(h.Name())
			result = handler.Failuref("handler %s panicked: %v", h.Name(), r)
		}
	}()

	return h.Execute(input, ctx)
}

// buildContext assembles the per-call context of borrowed references.
func (d *Dispatcher) buildContext(depth int) *handler.Context {
	ctx := handler.New()
	ctx.Ctx = d.baseCtx
	ctx.Dispatcher = &redispatcher{d: d, depth: depth + 1}
	ctx.Classifier = d.classifier
	ctx.Runner = d.runner
	ctx.Session = d.session
	ctx.Collaborator = d.collaborator
	ctx.Confirm = d.confirm
	ctx.AllowDestructive = d.config.AllowDestructive
	return ctx
}

// Metrics returns the dispatch metrics collector.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Chain returns the built handler chain in evaluation order.
// It forces the lazy build.
func (d *Dispatcher) Chain() ([]handler.Handler, error) {
	if err := d.Build(); err != nil {
		return nil, err
	}
	out := make([]handler.Handler, len(d.chain))
	copy(out, d.chain)
	return out, nil
}

// redispatcher re-submits transformed input through the chain with a
// depth guard against handler-induced recursion.
type redispatcher struct {
	d     *Dispatcher
	depth int
}

// Dispatch implements handler.Dispatcher.
func (r *redispatcher) Dispatch(input string) handler.Result {
	if r.depth > r.d.config.MaxRedispatchDepth {
		return handler.Failuref("re-dispatch depth limit (%d) exceeded", r.d.config.MaxRedispatchDepth)
	}
	return r.d.dispatch(input, r.depth)
}
