package handlers_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/shellgate/internal/dispatch/handler"
	"github.com/dshills/shellgate/internal/dispatch/handlers"
)

var errTest = errors.New("test error")

func sessionContext() (*handler.Context, *fakeSession) {
	ctx := handler.New()
	sess := newFakeSession()
	ctx.Session = sess
	return ctx, sess
}

func TestConfigCmdCanHandle(t *testing.T) {
	h := handlers.NewConfigCmd()

	if !h.CanHandle("config get editor") || !h.CanHandle("config list") {
		t.Error("should match config subcommands")
	}
	if h.CanHandle("configure") || h.CanHandle("git config") {
		t.Error("must match config as the leading token only")
	}
}

func TestConfigSetGetDelete(t *testing.T) {
	h := handlers.NewConfigCmd()
	ctx, _ := sessionContext()

	if result := h.Execute("config set editor vim", ctx); !result.Succeeded {
		t.Fatalf("set failed: %+v", result)
	}

	result := h.Execute("config get editor", ctx)
	if !result.Succeeded || result.Output != "vim" {
		t.Errorf("get = %+v", result)
	}

	if result := h.Execute("config del editor", ctx); !result.Succeeded {
		t.Fatalf("del failed: %+v", result)
	}
	if result := h.Execute("config get editor", ctx); result.Succeeded {
		t.Error("get after del should fail")
	}
}

func TestConfigSetJoinsValue(t *testing.T) {
	h := handlers.NewConfigCmd()
	ctx, sess := sessionContext()

	h.Execute("config set greeting hello there world", ctx)
	if got := sess.values["greeting"]; got != "hello there world" {
		t.Errorf("value = %q", got)
	}
}

func TestConfigList(t *testing.T) {
	h := handlers.NewConfigCmd()
	ctx, _ := sessionContext()

	h.Execute("config set b 2", ctx)
	h.Execute("config set a 1", ctx)

	result := h.Execute("config list", ctx)
	if !result.Succeeded {
		t.Fatalf("list failed: %+v", result)
	}
	// Sorted for stable output.
	if result.Output != "a\nb" {
		t.Errorf("list = %q", result.Output)
	}
}

func TestConfigAliases(t *testing.T) {
	h := handlers.NewConfigCmd()
	ctx, sess := sessionContext()

	if result := h.Execute("config alias gs git status", ctx); !result.Succeeded {
		t.Fatalf("alias failed: %+v", result)
	}
	if got := sess.aliases["gs"]; got != "git status" {
		t.Errorf("alias = %q", got)
	}

	result := h.Execute("config aliases", ctx)
	if !result.Succeeded || !strings.Contains(result.Output, "gs = git status") {
		t.Errorf("aliases = %+v", result)
	}
}

func TestConfigAliasFoldsName(t *testing.T) {
	h := handlers.NewConfigCmd()
	ctx, sess := sessionContext()

	if result := h.Execute("config alias GS git status", ctx); !result.Succeeded {
		t.Fatalf("alias failed: %+v", result)
	}
	// Stored folded so the alias handler's folded lookup can find it.
	if got := sess.aliases["gs"]; got != "git status" {
		t.Errorf("aliases = %v", sess.aliases)
	}
	if _, ok := sess.aliases["GS"]; ok {
		t.Error("alias stored unfolded")
	}

	expander := handlers.NewAlias(sess)
	if !expander.CanHandle("gs") || !expander.CanHandle("GS --short") {
		t.Error("uppercase-defined alias must match after folding")
	}
}

func TestConfigUsageErrors(t *testing.T) {
	h := handlers.NewConfigCmd()
	ctx, _ := sessionContext()

	for _, input := range []string{
		"config",
		"config bogus",
		"config get",
		"config set onlykey",
		"config alias onlyname",
	} {
		if result := h.Execute(input, ctx); result.Succeeded {
			t.Errorf("%q should fail with usage", input)
		}
	}
}
