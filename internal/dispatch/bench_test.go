package dispatch_test

import (
	"testing"

	"github.com/dshills/shellgate/internal/dispatch"
	"github.com/dshills/shellgate/internal/dispatch/handler"
)

func BenchmarkDispatch(b *testing.B) {
	d := dispatch.NewWithDefaults(dispatch.WithChain(
		&handler.Func{HandlerName: "colon", Prio: 10, Match: matchPrefix(":")},
		&handler.Func{HandlerName: "bang", Prio: 20, Match: matchPrefix("!")},
		&handler.Func{
			HandlerName: "all", Prio: 1000,
			Fn: func(string, *handler.Context) handler.Result {
				return handler.Success("")
			},
		},
	))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Dispatch("echo benchmark input")
	}
}

func BenchmarkDispatchEarlyMatch(b *testing.B) {
	d := dispatch.NewWithDefaults(dispatch.WithChain(
		&handler.Func{
			HandlerName: "colon", Prio: 10, Match: matchPrefix(":"),
			Fn: func(string, *handler.Context) handler.Result {
				return handler.Success("")
			},
		},
		&handler.Func{HandlerName: "all", Prio: 1000,
			Fn: func(string, *handler.Context) handler.Result {
				return handler.Success("")
			},
		},
	))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Dispatch(":version")
	}
}
