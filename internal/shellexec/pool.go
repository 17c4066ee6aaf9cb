package shellexec

import (
	"sync"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// Pool reuses short-lived Result records on rapid, repeated dispatch
// paths such as scripted batch invocation. Acquire and Release are the
// only operations in the pipeline requiring mutual exclusion across
// threads, which sync.Pool provides internally.
//
// A released record must not be touched again by its releaser; its
// storage may be reused immediately by the next Acquire.
type Pool struct {
	pool sync.Pool
}

// NewPool creates a Result pool.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return new(handler.Result) },
		},
	}
}

// Acquire returns a Result record populated with the given values.
func (p *Pool) Acquire(succeeded bool, output string, exitCode int) *handler.Result {
	r := p.pool.Get().(*handler.Result)
	r.Succeeded = succeeded
	r.Output = output
	r.ExitCode = exitCode
	return r
}

// Release returns a record to the pool. The record is zeroed so stale
// output can never leak into a later Acquire.
func (p *Pool) Release(r *handler.Result) {
	if r == nil {
		return
	}
	*r = handler.Result{}
	p.pool.Put(r)
}
