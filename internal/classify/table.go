package classify

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table errors.
var (
	// ErrDuplicateCommand indicates a command name appears in more than one tier.
	ErrDuplicateCommand = errors.New("classify: command listed in multiple tiers")

	// ErrEmptyCommand indicates a tier lists an empty command name.
	ErrEmptyCommand = errors.New("classify: empty command name in tier")
)

// Table maps safety tiers to sets of base command names.
// A Table is immutable after construction and safe for concurrent reads.
type Table struct {
	tiers map[Tier][]string
	index map[string]Tier
}

// NewTable builds a Table from a textual tier → command-list mapping,
// the shape used by declarative sources. Command names are lowercased.
// A command appearing in more than one tier is a configuration defect
// and is rejected here rather than silently resolved by iteration order.
func NewTable(src map[string][]string) (*Table, error) {
	t := &Table{
		tiers: make(map[Tier][]string, len(src)),
		index: make(map[string]Tier),
	}

	// Iterate tiers in their fixed order so error reporting is deterministic.
	for _, tier := range tierOrder {
		names, ok := src[tier.String()]
		if !ok {
			continue
		}
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				return nil, fmt.Errorf("%w %s", ErrEmptyCommand, tier)
			}
			if prev, exists := t.index[name]; exists {
				return nil, fmt.Errorf("%w: %q in tiers %s and %s", ErrDuplicateCommand, name, prev, tier)
			}
			t.index[name] = tier
			t.tiers[tier] = append(t.tiers[tier], name)
		}
		sort.Strings(t.tiers[tier])
	}

	// Reject tier keys that don't parse rather than dropping them.
	for key := range src {
		if _, err := ParseTier(key); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// LoadTable reads a declarative YAML classification source. The file
// maps textual tiers to arrays of command names:
//
//	"1": [ls, pwd, cat]
//	"2.5": [mv, kill]
//	"4": [rm, dd]
//
// A missing file is not an error; the caller falls back to Builtin.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("classify: reading table %s: %w", path, err)
	}

	var src map[string][]string
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("classify: parsing table %s: %w", path, err)
	}

	table, err := NewTable(src)
	if err != nil {
		return nil, fmt.Errorf("classify: table %s: %w", path, err)
	}
	return table, nil
}

// Lookup returns the tier for a lowercase base command name.
func (t *Table) Lookup(name string) (Tier, bool) {
	tier, ok := t.index[name]
	return tier, ok
}

// Commands returns the sorted command names in a tier.
func (t *Table) Commands(tier Tier) []string {
	names := t.tiers[tier]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Len returns the total number of classified commands.
func (t *Table) Len() int {
	return len(t.index)
}

// Builtin returns the built-in fallback table used when no declarative
// source is present. It has the same shape as a loaded table.
func Builtin() *Table {
	table, err := NewTable(builtinSource)
	if err != nil {
		// The builtin source is validated by tests; a failure here is a
		// programming defect, not a runtime condition.
		panic(err)
	}
	return table
}

var builtinSource = map[string][]string{
	"1": {
		"ls", "pwd", "echo", "cat", "head", "tail", "wc", "date",
		"whoami", "which", "env", "printenv", "file", "stat", "du",
		"df", "uptime", "history", "uname", "id", "type",
	},
	"2": {
		"grep", "find", "ps", "top", "git", "go", "make", "tar",
		"gzip", "gunzip", "zip", "unzip", "sed", "awk", "sort",
		"uniq", "cut", "tr", "diff", "touch", "mkdir", "cp", "less",
		"more", "man", "tee", "xargs", "basename", "dirname",
	},
	"2.5": {
		"mv", "kill", "pkill", "killall", "docker", "podman",
		"systemctl", "service", "apt", "apt-get", "yum", "dnf",
		"brew", "pip", "pip3", "npm", "yarn", "cargo", "curl",
		"wget", "ssh", "scp", "rsync", "ftp", "sftp",
	},
	"3": {
		"chmod", "chown", "chgrp", "ln", "mount", "umount",
		"crontab", "iptables", "ufw", "modprobe", "sysctl",
	},
	"4": {
		"rm", "rmdir", "dd", "mkfs", "fdisk", "format", "shred",
		"shutdown", "reboot", "halt", "poweroff", "init",
		"sudo", "su", "doas", "pkexec",
		"useradd", "userdel", "groupdel", "passwd",
		"nc", "netcat", "ncat",
	},
}
