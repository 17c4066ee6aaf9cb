// Package shellexec spawns host-shell processes and normalizes their
// outcomes into uniform Results.
//
// The adapter is the only place platform divergence lives: on Unix
// commands run through a script-capable shell ($SHELL -c), on Windows
// through cmd.exe /C. Both paths return the identical Result shape and
// neither ever returns an error; spawn failures, non-zero exits, and
// timeouts all fold into a failed Result.
package shellexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/shellgate/internal/app"
	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// DefaultTimeout bounds Run when no explicit timeout is given.
// Zero disables the watchdog entirely.
const DefaultTimeout = 2 * time.Minute

// Adapter executes command text in a host shell.
// It is safe for concurrent use; only the working directory is
// mutable state.
type Adapter struct {
	mu      sync.RWMutex
	workDir string

	shell     string
	shellArgs []string

	defaultTimeout time.Duration
	env            []string
	logger         *app.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithShell overrides the platform shell and its command flag(s).
func WithShell(shell string, args ...string) Option {
	return func(a *Adapter) {
		a.shell = shell
		a.shellArgs = args
	}
}

// WithWorkDir sets the initial working directory.
func WithWorkDir(dir string) Option {
	return func(a *Adapter) {
		a.workDir = dir
	}
}

// WithDefaultTimeout sets the watchdog timeout used by Run.
func WithDefaultTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.defaultTimeout = d
	}
}

// WithEnv appends environment variables for spawned processes.
func WithEnv(env []string) Option {
	return func(a *Adapter) {
		a.env = env
	}
}

// WithLogger sets the logger for spawn auditing.
func WithLogger(l *app.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

// New creates an Adapter with platform defaults.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		defaultTimeout: DefaultTimeout,
		logger:         app.NullLogger,
	}
	a.shell, a.shellArgs = defaultShell()
	for _, opt := range opts {
		opt(a)
	}
	if a.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			a.workDir = wd
		}
	}
	return a
}

// WorkDir returns the directory commands run in.
func (a *Adapter) WorkDir() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.workDir
}

// SetWorkDir changes the working directory for subsequent commands.
// The directory must exist.
func (a *Adapter) SetWorkDir(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(a.WorkDir(), dir)
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("shellexec: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("shellexec: not a directory: %s", dir)
	}

	a.mu.Lock()
	a.workDir = dir
	a.mu.Unlock()
	return nil
}

// SetDefaultTimeout changes the watchdog timeout used by Run.
// Non-positive values are ignored.
func (a *Adapter) SetDefaultTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	a.mu.Lock()
	a.defaultTimeout = d
	a.mu.Unlock()
}

// Run executes command text with the adapter's default timeout.
func (a *Adapter) Run(command string) handler.Result {
	a.mu.RLock()
	timeout := a.defaultTimeout
	a.mu.RUnlock()
	return a.RunWithTimeout(command, timeout)
}

// RunWithTimeout executes command text, forcibly terminating the child
// process when the timeout expires. A timeout of zero runs unbounded.
//
// The watchdog is the context deadline: exec.CommandContext kills the
// child on expiry rather than trusting the output read to self-limit.
func (a *Adapter) RunWithTimeout(command string, timeout time.Duration) handler.Result {
	runID := uuid.NewString()[:8]
	log := a.logger.WithComponent("shellexec").WithField("run", runID)

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := a.buildCommand(ctx, command)
	cmd.Dir = a.WorkDir()
	if len(a.env) > 0 {
		cmd.Env = append(os.Environ(), a.env...)
	}

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	log.Debug("spawn: %s", command)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	output := strings.TrimRight(combined.String(), "\n")

	if err == nil {
		log.Debug("exit 0 in %s", elapsed)
		return handler.Success(output)
	}

	// Watchdog fired: the child was killed at the deadline.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warn("killed after timeout %s", timeout)
		return handler.Failure(
			fmt.Sprintf("command timed out after %s and was terminated", timeout),
			handler.SentinelExitCode,
		)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		log.Debug("exit %d in %s", code, elapsed)
		return handler.Failure(output, code)
	}

	// Spawn failure: shell missing, permission denied, and friends.
	log.Warn("spawn failed: %v", err)
	msg := fmt.Sprintf("failed to start command: %v", err)
	if output != "" {
		msg = output + "\n" + msg
	}
	return handler.Failure(msg, handler.SentinelExitCode)
}
