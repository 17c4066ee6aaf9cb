package handlers_test

import (
	"testing"

	"github.com/dshills/shellgate/internal/dispatch/handler"
	"github.com/dshills/shellgate/internal/dispatch/handlers"
)

func TestAliasCanHandle(t *testing.T) {
	sess := newFakeSession()
	sess.aliases["gs"] = "git status"
	h := handlers.NewAlias(sess)

	if !h.CanHandle("gs") || !h.CanHandle("gs --short") {
		t.Error("should match a defined alias")
	}
	if h.CanHandle("git status") || h.CanHandle("") {
		t.Error("must not match non-aliases")
	}
}

func TestAliasNilSession(t *testing.T) {
	h := handlers.NewAlias(nil)
	if h.CanHandle("gs") {
		t.Error("nil session must never match")
	}
}

func TestAliasExpandsAndRedispatches(t *testing.T) {
	sess := newFakeSession()
	sess.aliases["gs"] = "git status"
	h := handlers.NewAlias(sess)

	ctx := handler.New()
	disp := &fakeDispatcher{}
	ctx.Dispatcher = disp

	result := h.Execute("gs --short", ctx)
	if !result.Succeeded {
		t.Fatalf("alias failed: %+v", result)
	}
	if len(disp.inputs) != 1 || disp.inputs[0] != "git status --short" {
		t.Errorf("re-dispatched = %v", disp.inputs)
	}
}

func TestAliasSelfReferentialSkipped(t *testing.T) {
	// "ll = ll -a" would re-trigger the alias handler forever; the
	// predicate skips it so the raw command falls through the chain.
	sess := newFakeSession()
	sess.aliases["ll"] = "ll -a"
	h := handlers.NewAlias(sess)

	if h.CanHandle("ll") {
		t.Error("self-referential alias must not match")
	}
}
