package handlers_test

import (
	"context"
	"time"

	"github.com/dshills/shellgate/internal/classify"
	"github.com/dshills/shellgate/internal/collab"
	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// fakeRunner records commands instead of spawning processes.
type fakeRunner struct {
	commands []string
	workDir  string
	result   handler.Result
	dirErr   error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{workDir: "/work", result: handler.Success("ran")}
}

func (r *fakeRunner) Run(command string) handler.Result {
	r.commands = append(r.commands, command)
	return r.result
}

func (r *fakeRunner) RunWithTimeout(command string, _ time.Duration) handler.Result {
	return r.Run(command)
}

func (r *fakeRunner) WorkDir() string { return r.workDir }

func (r *fakeRunner) SetWorkDir(dir string) error {
	if r.dirErr != nil {
		return r.dirErr
	}
	r.workDir = dir
	return nil
}

// fakeSession is an in-memory SessionInterface.
type fakeSession struct {
	values  map[string]string
	aliases map[string]string
	devices map[string]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		values:  make(map[string]string),
		aliases: make(map[string]string),
		devices: make(map[string]string),
	}
}

func (s *fakeSession) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeSession) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *fakeSession) Delete(key string) error {
	delete(s.values, key)
	return nil
}

func (s *fakeSession) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

func (s *fakeSession) Alias(name string) (string, bool) {
	v, ok := s.aliases[name]
	return v, ok
}

func (s *fakeSession) SetAlias(name, expansion string) error {
	s.aliases[name] = expansion
	return nil
}

func (s *fakeSession) Aliases() map[string]string { return s.aliases }

func (s *fakeSession) Device(name string) (string, bool) {
	v, ok := s.devices[name]
	return v, ok
}

// fakeDispatcher records re-dispatched input and returns canned
// results in order, falling back to success.
type fakeDispatcher struct {
	inputs  []string
	results []handler.Result
}

func (d *fakeDispatcher) Dispatch(input string) handler.Result {
	d.inputs = append(d.inputs, input)
	if len(d.results) > 0 {
		r := d.results[0]
		d.results = d.results[1:]
		return r
	}
	return handler.Success("dispatched: " + input)
}

// fakeCollab returns canned translations and plans.
type fakeCollab struct {
	translations []string
	translateErr error
	plan         []collab.Step
	planErr      error
	calls        int
}

func (c *fakeCollab) Translate(_ context.Context, _ string) (string, error) {
	c.calls++
	if len(c.translations) > 0 {
		cmd := c.translations[0]
		c.translations = c.translations[1:]
		return cmd, nil
	}
	if c.translateErr != nil {
		return "", c.translateErr
	}
	return "", collab.ErrEmptyReply
}

func (c *fakeCollab) Plan(_ context.Context, _ string) ([]collab.Step, error) {
	if c.planErr != nil {
		return nil, c.planErr
	}
	return c.plan, nil
}

// testContext assembles a Context with the standard fakes and a real
// classifier over the builtin table.
func testContext(runner *fakeRunner) *handler.Context {
	ctx := handler.New()
	ctx.Classifier = classify.New()
	ctx.Runner = runner
	return ctx
}

func yes(string) bool { return true }

func no(string) bool { return false }
