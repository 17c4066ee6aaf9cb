package classify

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/shellgate/internal/app"
)

// foldToken lowercases a leading token so lookups are case-insensitive
// for command names beyond plain ASCII. Casers carry internal state,
// so each call builds its own rather than sharing one.
func foldToken(token string) string {
	return cases.Lower(language.Und).String(token)
}

// Classifier assigns a safety tier to raw command text.
//
// The classification table is built lazily on first use and is
// immutable afterward; concurrent TierOf calls need no locking beyond
// the one-time build. The classifier never fails: a missing or invalid
// declarative source degrades to the builtin table, and unknown
// commands resolve to TierCaution.
type Classifier struct {
	once    sync.Once
	path    string
	table   *Table
	loadErr error
	logger  *app.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTablePath sets the declarative YAML source path.
func WithTablePath(path string) Option {
	return func(c *Classifier) {
		c.path = path
	}
}

// WithTable installs a pre-built table, bypassing the lazy load.
func WithTable(t *Table) Option {
	return func(c *Classifier) {
		c.table = t
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *app.Logger) Option {
	return func(c *Classifier) {
		c.logger = l
	}
}

// New creates a Classifier. Without options it uses the builtin table.
func New(opts ...Option) *Classifier {
	c := &Classifier{logger: app.NullLogger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// load resolves the classification table exactly once.
func (c *Classifier) load() {
	if c.table != nil {
		return
	}
	if c.path != "" {
		table, err := LoadTable(c.path)
		if err != nil {
			// Degrade toward caution: keep the builtin table and record
			// the defect for callers that want strictness.
			c.loadErr = err
			c.logger.WithComponent("classify").Warn("table load failed, using builtin: %v", err)
		} else if table != nil {
			c.table = table
			return
		}
	}
	c.table = Builtin()
}

// Load forces the lazy build and reports any declarative-source error.
// TierOf never fails, so strict callers use Load to surface defects.
func (c *Classifier) Load() error {
	c.once.Do(c.load)
	return c.loadErr
}

// TierOf returns the safety tier for raw command text.
//
// Only the leading whitespace-delimited token is considered. Empty or
// whitespace-only input is ambiguous and returns TierCaution.
func (c *Classifier) TierOf(input string) Tier {
	c.once.Do(c.load)

	fields := strings.Fields(input)
	if len(fields) == 0 {
		return TierCaution
	}

	if tier, ok := c.table.Lookup(foldToken(fields[0])); ok {
		return tier
	}
	return TierCaution
}

// IsSafe reports whether the command may execute without friction.
func (c *Classifier) IsSafe(input string) bool {
	return c.TierOf(input) <= TierSafe
}

// NeedsConfirmation reports whether the command requires interactive
// confirmation before execution.
func (c *Classifier) NeedsConfirmation(input string) bool {
	return c.TierOf(input) == TierConfirm
}

// NeedsValidation reports whether the command requires validation or
// is forbidden outright.
func (c *Classifier) NeedsValidation(input string) bool {
	return c.TierOf(input) >= TierCaution
}

// Table returns the resolved classification table.
func (c *Classifier) Table() *Table {
	c.once.Do(c.load)
	return c.table
}
