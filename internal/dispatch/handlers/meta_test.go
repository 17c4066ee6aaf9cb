package handlers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/shellgate/internal/dispatch/handlers"
)

func TestMetaDefaultScript(t *testing.T) {
	h, err := handlers.NewMeta("")
	if err != nil {
		t.Fatalf("NewMeta: %v", err)
	}
	defer h.Close()

	if !h.CanHandle(":echo hi") || !h.CanHandle(":help") {
		t.Error("should match : prefix")
	}
	if h.CanHandle(":") || h.CanHandle("echo") {
		t.Error("bare colon or unprefixed input must not match")
	}

	result := h.Execute(":echo hello world", nil)
	if !result.Succeeded || result.Output != "hello world" {
		t.Errorf("echo = %+v", result)
	}

	result = h.Execute(":upper abc", nil)
	if !result.Succeeded || result.Output != "ABC" {
		t.Errorf("upper = %+v", result)
	}
}

func TestMetaUnknownCommand(t *testing.T) {
	h, err := handlers.NewMeta("")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if result := h.Execute(":bogus", nil); result.Succeeded {
		t.Error("unknown meta-command should fail")
	}
}

func TestMetaCustomScript(t *testing.T) {
	script := `
commands = {
	greet = function(args)
		return "hello " .. args
	end,
}
`
	path := filepath.Join(t.TempDir(), "meta.lua")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := handlers.NewMeta(path)
	if err != nil {
		t.Fatalf("NewMeta: %v", err)
	}
	defer h.Close()

	result := h.Execute(":greet world", nil)
	if !result.Succeeded || result.Output != "hello world" {
		t.Errorf("greet = %+v", result)
	}
}

func TestMetaBrokenScriptFailsConstruction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(path, []byte("this is not lua ((("), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := handlers.NewMeta(path); err == nil {
		t.Error("broken script must fail at construction")
	}
}

func TestMetaScriptWithoutCommandsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.lua")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := handlers.NewMeta(path); err == nil {
		t.Error("script without a commands table must fail")
	}
}

func TestMetaMissingScriptFile(t *testing.T) {
	if _, err := handlers.NewMeta(filepath.Join(t.TempDir(), "absent.lua")); err == nil {
		t.Error("missing script file must fail at construction")
	}
}

func TestMetaSandbox(t *testing.T) {
	h, err := handlers.NewMeta("")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	// The io and os libraries are never opened, and the loaders are
	// removed. A script reaching for them gets nil.
	script := `
commands = {
	escape = function(args)
		if os ~= nil or io ~= nil or loadstring ~= nil or dofile ~= nil then
			return "escaped"
		end
		return "contained"
	end,
}
`
	path := filepath.Join(t.TempDir(), "sandbox.lua")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	sandboxed, err := handlers.NewMeta(path)
	if err != nil {
		t.Fatal(err)
	}
	defer sandboxed.Close()

	result := sandboxed.Execute(":escape", nil)
	if !result.Succeeded || result.Output != "contained" {
		t.Errorf("sandbox = %+v", result)
	}
}
