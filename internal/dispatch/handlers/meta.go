package handlers

import (
	"fmt"
	"os"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// defaultMetaScript defines the built-in meta-commands used when no
// user script is configured.
const defaultMetaScript = `
commands = {
	help = function(args)
		local names = {}
		for name in pairs(commands) do
			names[#names + 1] = ":" .. name
		end
		table.sort(names)
		return "meta-commands: " .. table.concat(names, ", ")
	end,
	echo = function(args)
		return args
	end,
	upper = function(args)
		return string.upper(args)
	end,
}
`

// Meta runs ":"-prefixed meta-commands backed by a sandboxed Lua
// state. The script must define a global commands table mapping names
// to functions of one string argument. Scripts are loaded and
// validated once at chain build; a broken script fails the build
// rather than the first dispatch.
type Meta struct {
	mu    sync.Mutex
	state *lua.LState
	names map[string]bool
}

// NewMeta loads the meta-command script at path, or the built-in
// script when path is empty.
func NewMeta(path string) (*Meta, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only the safe subset; meta-commands are string transforms,
	// not an escape hatch around command gating.
	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := state.CallByParam(lua.P{
			Fn:      state.NewFunction(open.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(open.name)); err != nil {
			state.Close()
			return nil, fmt.Errorf("meta: opening lua library %s: %w", open.name, err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		state.SetGlobal(name, lua.LNil)
	}

	source := defaultMetaScript
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			state.Close()
			return nil, fmt.Errorf("meta: reading script: %w", err)
		}
		source = string(data)
	}

	if err := state.DoString(source); err != nil {
		state.Close()
		return nil, fmt.Errorf("meta: loading script: %w", err)
	}

	table, ok := state.GetGlobal("commands").(*lua.LTable)
	if !ok {
		state.Close()
		return nil, fmt.Errorf("meta: script must define a global commands table")
	}

	names := make(map[string]bool)
	table.ForEach(func(key, value lua.LValue) {
		if _, isFn := value.(*lua.LFunction); isFn {
			names[key.String()] = true
		}
	})
	if len(names) == 0 {
		state.Close()
		return nil, fmt.Errorf("meta: commands table defines no functions")
	}

	return &Meta{state: state, names: names}, nil
}

// Close releases the Lua state.
func (h *Meta) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != nil {
		h.state.Close()
		h.state = nil
	}
}

// Commands returns the defined meta-command names.
func (h *Meta) Commands() []string {
	names := make([]string, 0, len(h.names))
	for name := range h.names {
		names = append(names, name)
	}
	return names
}

func (h *Meta) Name() string { return "meta" }

func (h *Meta) Priority() int { return PriorityMeta }

// CanHandle matches ":name" input with a non-empty name.
func (h *Meta) CanHandle(input string) bool {
	trimmed := strings.TrimSpace(input)
	return strings.HasPrefix(trimmed, ":") && len(trimmed) > 1
}

// Execute implements handler.Handler. LState is not safe for
// concurrent use, so calls are serialized.
func (h *Meta) Execute(input string, _ *handler.Context) handler.Result {
	trimmed := strings.TrimPrefix(strings.TrimSpace(input), ":")
	name := trimmed
	args := ""
	if idx := strings.IndexAny(trimmed, " \t"); idx >= 0 {
		name = trimmed[:idx]
		args = strings.TrimSpace(trimmed[idx+1:])
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		return handler.Failuref("meta-commands are closed")
	}
	if !h.names[name] {
		return handler.Failuref("unknown meta-command :%s; try :help", name)
	}

	table := h.state.GetGlobal("commands").(*lua.LTable)
	fn := table.RawGetString(name)

	if err := h.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(args)); err != nil {
		return handler.Failuref("meta-command :%s failed: %v", name, err)
	}

	ret := h.state.Get(-1)
	h.state.Pop(1)
	return handler.Success(ret.String())
}
