package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/shellgate/internal/dispatch/handler"
)

// ConfigCmd exposes the session store through "config" subcommands:
// get, set, del, list, alias, aliases.
type ConfigCmd struct{}

// NewConfigCmd creates the config handler.
func NewConfigCmd() *ConfigCmd { return &ConfigCmd{} }

func (h *ConfigCmd) Name() string { return "config" }

func (h *ConfigCmd) Priority() int { return PriorityConfig }

// CanHandle matches input whose leading token is "config".
func (h *ConfigCmd) CanHandle(input string) bool {
	return leadingToken(input) == "config"
}

// Execute implements handler.Handler.
func (h *ConfigCmd) Execute(input string, ctx *handler.Context) handler.Result {
	if ctx.Session == nil {
		return handler.Failuref("config is not wired: missing session store")
	}

	fields := strings.Fields(input)
	if len(fields) < 2 {
		return handler.Failure(configUsage, handler.SentinelExitCode)
	}

	switch strings.ToLower(fields[1]) {
	case "get":
		if len(fields) != 3 {
			return handler.Failure("usage: config get <key>", handler.SentinelExitCode)
		}
		value, ok := ctx.Session.Get(fields[2])
		if !ok {
			return handler.Failuref("config: %q is not set", fields[2])
		}
		return handler.Success(value)

	case "set":
		if len(fields) < 4 {
			return handler.Failure("usage: config set <key> <value>", handler.SentinelExitCode)
		}
		key := fields[2]
		value := strings.Join(fields[3:], " ")
		if err := ctx.Session.Set(key, value); err != nil {
			return handler.Failuref("config: %v", err)
		}
		return handler.Success(fmt.Sprintf("%s = %s", key, value))

	case "del":
		if len(fields) != 3 {
			return handler.Failure("usage: config del <key>", handler.SentinelExitCode)
		}
		if err := ctx.Session.Delete(fields[2]); err != nil {
			return handler.Failuref("config: %v", err)
		}
		return handler.Success(fmt.Sprintf("deleted %s", fields[2]))

	case "list":
		keys := ctx.Session.Keys()
		if len(keys) == 0 {
			return handler.Success("no keys set")
		}
		sort.Strings(keys)
		return handler.Success(strings.Join(keys, "\n"))

	case "alias":
		if len(fields) < 4 {
			return handler.Failure("usage: config alias <name> <expansion>", handler.SentinelExitCode)
		}
		// Alias lookup folds the typed leading token, so names are
		// stored folded too.
		name := strings.ToLower(fields[2])
		expansion := strings.Join(fields[3:], " ")
		if err := ctx.Session.SetAlias(name, expansion); err != nil {
			return handler.Failuref("config: %v", err)
		}
		return handler.Success(fmt.Sprintf("alias %s = %s", name, expansion))

	case "aliases":
		aliases := ctx.Session.Aliases()
		if len(aliases) == 0 {
			return handler.Success("no aliases defined")
		}
		names := make([]string, 0, len(aliases))
		for name := range aliases {
			names = append(names, name)
		}
		sort.Strings(names)
		var sb strings.Builder
		for _, name := range names {
			fmt.Fprintf(&sb, "%s = %s\n", name, aliases[name])
		}
		return handler.Success(strings.TrimRight(sb.String(), "\n"))

	default:
		return handler.Failure(configUsage, handler.SentinelExitCode)
	}
}

const configUsage = "usage: config get|set|del|list|alias|aliases"
