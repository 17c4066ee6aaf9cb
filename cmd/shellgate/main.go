// Package main is the entry point for the shellgate interpreter.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/shellgate/internal/app"
	"github.com/dshills/shellgate/internal/classify"
	"github.com/dshills/shellgate/internal/collab"
	"github.com/dshills/shellgate/internal/config"
	"github.com/dshills/shellgate/internal/dispatch"
	"github.com/dshills/shellgate/internal/dispatch/handlers"
	"github.com/dshills/shellgate/internal/session"
	"github.com/dshills/shellgate/internal/shellexec"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type cliFlags struct {
	configPath       string
	tablePath        string
	sessionPath      string
	timeoutSeconds   int
	allowDestructive bool
	command          string
	showVersion      bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", config.DefaultPath(), "path to TOML config file")
	flag.StringVar(&f.tablePath, "table", "", "path to YAML classification table")
	flag.StringVar(&f.sessionPath, "session", "", "path to JSON session store")
	flag.IntVar(&f.timeoutSeconds, "timeout", 0, "command timeout in seconds")
	flag.BoolVar(&f.allowDestructive, "allow-destructive", false, "allow tier-4 commands via the ! bypass prefix")
	flag.StringVar(&f.command, "e", "", "dispatch one command and exit")
	flag.BoolVar(&f.showVersion, "version", false, "print version and exit")
	flag.Parse()
	return f
}

func run() int {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Printf("shellgate %s (%s)\n", version, commit)
		return 0
	}

	opts, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Flags win over file and environment.
	if flags.tablePath != "" {
		opts.TablePath = flags.tablePath
	}
	if flags.sessionPath != "" {
		opts.SessionPath = flags.sessionPath
	}
	if flags.timeoutSeconds > 0 {
		opts.TimeoutSeconds = flags.timeoutSeconds
	}
	if flags.allowDestructive {
		opts.AllowDestructive = true
	}

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(opts.LogLevel),
		Output: os.Stderr,
		Prefix: "shellgate",
	})
	app.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	classifier := classify.New(
		classify.WithTablePath(opts.TablePath),
		classify.WithLogger(logger),
	)
	if opts.TablePath != "" {
		// A configured table that fails to load must not silently
		// degrade to the builtin tiers.
		if err := classifier.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	runnerOpts := []shellexec.Option{
		shellexec.WithDefaultTimeout(opts.Timeout()),
		shellexec.WithLogger(logger),
	}
	if opts.Shell != "" {
		runnerOpts = append(runnerOpts, shellexec.WithShell(opts.Shell, "-c"))
	}
	if opts.WorkDir != "" {
		runnerOpts = append(runnerOpts, shellexec.WithWorkDir(opts.WorkDir))
	}
	runner := shellexec.New(runnerOpts...)

	store, err := session.Open(opts.SessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening session store: %v\n", err)
		return 1
	}

	translator := newTranslator(ctx, opts, logger)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	// One buffered reader owns stdin; a second reader's read-ahead
	// would swallow lines typed ahead of a confirmation prompt.
	stdin := bufio.NewReader(os.Stdin)

	dispatcherOpts := []dispatch.Option{
		dispatch.WithClassifier(classifier),
		dispatch.WithRunner(runner),
		dispatch.WithSession(store),
		dispatch.WithLogger(logger),
		dispatch.WithContext(ctx),
	}
	if translator != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithCollaborator(translator))
	}
	if interactive {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithConfirm(func(prompt string) bool {
			return promptConfirm(stdin, os.Stdout, prompt)
		}))
	}

	dispatcherCfg := dispatch.DefaultConfig()
	dispatcherCfg.AllowDestructive = opts.AllowDestructive
	dispatcherCfg.MetaScript = opts.MetaScript

	dispatcher := dispatch.New(dispatcherCfg, dispatcherOpts...)
	if err := dispatcher.Build(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if flags.configPath != "" {
		watcher, werr := config.Watch(flags.configPath, func(reloaded config.Options, lerr error) {
			if lerr != nil {
				logger.WithComponent("config").Warn("reload failed: %v", lerr)
				return
			}
			logger.SetLevel(app.ParseLogLevel(reloaded.LogLevel))
			runner.SetDefaultTimeout(reloaded.Timeout())
			logger.WithComponent("config").Info("configuration reloaded")
		})
		if werr == nil {
			defer watcher.Close()
		}
	}

	if flags.command != "" {
		result := dispatcher.Dispatch(flags.command)
		return printResult(result.Output, result.Succeeded, result.ExitCode)
	}

	if interactive {
		return repl(dispatcher, runner, stdin)
	}
	return batch(dispatcher, stdin)
}

// newTranslator wires the collaborator named by the configuration, or
// nil when unconfigured. A missing provider degrades translation
// handlers to failures; it never blocks plain execution.
func newTranslator(ctx context.Context, opts config.Options, logger *app.Logger) collab.Translator {
	log := logger.WithComponent("collab")

	switch strings.ToLower(opts.Provider) {
	case config.ProviderNone:
		return nil

	case config.ProviderOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			log.Warn("provider openai selected but OPENAI_API_KEY is not set")
			return nil
		}
		if opts.Model != "" {
			return collab.NewOpenAI(key, collab.WithOpenAIModel(opts.Model))
		}
		return collab.NewOpenAI(key)

	case config.ProviderAnthropic:
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			log.Warn("provider anthropic selected but ANTHROPIC_API_KEY is not set")
			return nil
		}
		if opts.Model != "" {
			return collab.NewAnthropic(key, collab.WithAnthropicModel(opts.Model))
		}
		return collab.NewAnthropic(key)

	case config.ProviderGemini:
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			log.Warn("provider gemini selected but GEMINI_API_KEY is not set")
			return nil
		}
		geminiOpts := []collab.GeminiOption{}
		if opts.Model != "" {
			geminiOpts = append(geminiOpts, collab.WithGeminiModel(opts.Model))
		}
		p, err := collab.NewGemini(ctx, key, geminiOpts...)
		if err != nil {
			log.Warn("gemini init failed: %v", err)
			return nil
		}
		return p

	default:
		p, err := collab.FromEnv(ctx)
		if err != nil {
			if !errors.Is(err, collab.ErrNoProvider) {
				log.Warn("collaborator init failed: %v", err)
			}
			return nil
		}
		return p
	}
}

// repl runs the interactive loop until an exit command or EOF. It
// reads from the same shared reader as the confirmation prompt.
func repl(dispatcher *dispatch.Dispatcher, runner *shellexec.Adapter, stdin *bufio.Reader) int {
	for {
		fmt.Printf("%s> ", runner.WorkDir())

		line, err := stdin.ReadString('\n')
		line = strings.TrimSpace(line)

		if line != "" {
			if handlers.IsExitCommand(line) {
				return 0
			}
			result := dispatcher.Dispatch(line)
			if result.Output != "" {
				fmt.Println(strings.TrimRight(result.Output, "\n"))
			}
			if !result.Succeeded && result.ExitCode != 0 {
				fmt.Fprintf(os.Stderr, "(exit %d)\n", result.ExitCode)
			}
		}

		if err != nil {
			fmt.Println()
			return 0
		}
	}
}

// batch reads commands from stdin and stops on the first failure.
// Results are recycled through a pool since batch runs can be long.
func batch(dispatcher *dispatch.Dispatcher, stdin *bufio.Reader) int {
	pool := shellexec.NewPool()
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if handlers.IsExitCommand(line) {
			return 0
		}

		result := dispatcher.Dispatch(line)
		pooled := pool.Acquire(result.Succeeded, result.Output, result.ExitCode)

		if pooled.Output != "" {
			fmt.Println(strings.TrimRight(pooled.Output, "\n"))
		}
		if !pooled.Succeeded {
			code := pooled.ExitCode
			pool.Release(pooled)
			if code < 0 || code > 255 {
				code = 1
			}
			return code
		}
		pool.Release(pooled)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading input: %v\n", err)
		return 1
	}
	return 0
}

// promptConfirm asks a yes/no question, reading the answer from the
// shared stdin reader so no other reader's buffer steals lines.
func promptConfirm(stdin *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)

	line, err := stdin.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if err != nil && answer == "" {
		return false
	}
	switch answer {
	case "y", "yes":
		return true
	}
	return false
}

func printResult(output string, succeeded bool, exitCode int) int {
	if output != "" {
		fmt.Println(strings.TrimRight(output, "\n"))
	}
	if succeeded {
		return 0
	}
	if exitCode > 0 && exitCode <= 255 {
		return exitCode
	}
	return 1
}
