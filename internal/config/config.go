// Package config loads interpreter settings from defaults, an
// optional TOML file, and SHELLGATE_* environment variables, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Known collaborator providers.
const (
	ProviderAuto      = "auto"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

// Options holds the complete interpreter configuration.
type Options struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// TablePath points at a YAML classification table. Empty means
	// built-in classifications only.
	TablePath string `toml:"table_path"`

	// SessionPath is the JSON session store file. Empty means
	// in-memory only.
	SessionPath string `toml:"session_path"`

	// MetaScript is an optional Lua file defining meta-commands.
	MetaScript string `toml:"meta_script"`

	// Shell overrides the execution shell.
	Shell string `toml:"shell"`

	// WorkDir is the initial working directory.
	WorkDir string `toml:"work_dir"`

	// TimeoutSeconds bounds each executed command.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Provider selects the collaborator backend.
	Provider string `toml:"provider"`

	// Model overrides the provider's default model.
	Model string `toml:"model"`

	// AllowDestructive enables the tier-4 bypass override.
	AllowDestructive bool `toml:"allow_destructive"`
}

// Default returns the built-in configuration.
func Default() Options {
	return Options{
		LogLevel:       "info",
		TimeoutSeconds: 120,
		Provider:       ProviderAuto,
	}
}

// DefaultPath returns the conventional config file location, or ""
// when the user config directory cannot be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shellgate", "config.toml")
}

// Load builds Options from defaults, the TOML file at path (skipped
// when missing), and the environment.
func Load(path string) (Options, error) {
	opts := Default()

	if path != "" {
		if err := opts.mergeFile(path); err != nil {
			return opts, err
		}
	}
	opts.mergeEnv()

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// mergeFile overlays values from a TOML file. A missing file is not
// an error; the defaults stand.
func (o *Options) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, o); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// mergeEnv overlays SHELLGATE_* environment variables.
func (o *Options) mergeEnv() {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("SHELLGATE_LOG_LEVEL", &o.LogLevel)
	setString("SHELLGATE_TABLE", &o.TablePath)
	setString("SHELLGATE_SESSION", &o.SessionPath)
	setString("SHELLGATE_META_SCRIPT", &o.MetaScript)
	setString("SHELLGATE_SHELL", &o.Shell)
	setString("SHELLGATE_WORKDIR", &o.WorkDir)
	setString("SHELLGATE_PROVIDER", &o.Provider)
	setString("SHELLGATE_MODEL", &o.Model)

	if v, ok := os.LookupEnv("SHELLGATE_TIMEOUT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.TimeoutSeconds = n
		}
	}
	if v, ok := os.LookupEnv("SHELLGATE_ALLOW_DESTRUCTIVE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			o.AllowDestructive = b
		}
	}
}

// Validate checks cross-field consistency.
func (o *Options) Validate() error {
	if o.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, o.TimeoutSeconds)
	}

	switch strings.ToLower(o.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, o.LogLevel)
	}

	switch strings.ToLower(o.Provider) {
	case ProviderAuto, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderNone, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, o.Provider)
	}
	return nil
}

// Timeout returns the command timeout as a duration.
func (o *Options) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}
