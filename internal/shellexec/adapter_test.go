package shellexec_test

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dshills/shellgate/internal/dispatch/handler"
	"github.com/dshills/shellgate/internal/shellexec"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix shell semantics")
	}
}

func TestRunSuccess(t *testing.T) {
	skipOnWindows(t)
	a := shellexec.New()

	result := a.Run("echo hello")
	if !result.Succeeded {
		t.Fatalf("echo failed: %+v", result)
	}
	if result.Output != "hello" {
		t.Errorf("output = %q", result.Output)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d", result.ExitCode)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	skipOnWindows(t)
	a := shellexec.New()

	result := a.Run("exit 3")
	if result.Succeeded {
		t.Error("non-zero exit must not succeed")
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestRunCapturesStderr(t *testing.T) {
	skipOnWindows(t)
	a := shellexec.New()

	result := a.Run("echo oops 1>&2; exit 1")
	if result.Succeeded {
		t.Error("expected failure")
	}
	if !strings.Contains(result.Output, "oops") {
		t.Errorf("stderr not captured: %q", result.Output)
	}
}

func TestRunTimeoutKillsChild(t *testing.T) {
	skipOnWindows(t)
	a := shellexec.New()

	start := time.Now()
	result := a.RunWithTimeout("sleep 5", 100*time.Millisecond)
	elapsed := time.Since(start)

	if result.Succeeded {
		t.Error("timed-out command must not succeed")
	}
	if result.ExitCode != handler.SentinelExitCode {
		t.Errorf("ExitCode = %d, want sentinel", result.ExitCode)
	}
	if !strings.Contains(result.Output, "timed out") {
		t.Errorf("output = %q", result.Output)
	}
	if elapsed > 3*time.Second {
		t.Errorf("child was not killed at the deadline, took %s", elapsed)
	}
}

func TestRunSpawnFailure(t *testing.T) {
	a := shellexec.New(shellexec.WithShell(filepath.Join(t.TempDir(), "no-such-shell"), "-c"))

	result := a.Run("echo hi")
	if result.Succeeded {
		t.Error("missing shell must not succeed")
	}
	if result.ExitCode != handler.SentinelExitCode {
		t.Errorf("ExitCode = %d, want sentinel", result.ExitCode)
	}
	if !strings.Contains(result.Output, "failed to start") {
		t.Errorf("output = %q", result.Output)
	}
}

func TestSetWorkDir(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	a := shellexec.New()

	if err := a.SetWorkDir(dir); err != nil {
		t.Fatalf("SetWorkDir: %v", err)
	}
	if a.WorkDir() != dir {
		t.Errorf("WorkDir = %q", a.WorkDir())
	}

	result := a.Run("pwd")
	if !result.Succeeded {
		t.Fatalf("pwd failed: %+v", result)
	}
	// Symlinked temp dirs still resolve under the same base name.
	if filepath.Base(result.Output) != filepath.Base(dir) {
		t.Errorf("pwd = %q, want under %q", result.Output, dir)
	}
}

func TestSetWorkDirRejectsMissing(t *testing.T) {
	a := shellexec.New()
	if err := a.SetWorkDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("missing directory must be rejected")
	}
}

func TestSetWorkDirResolvesRelative(t *testing.T) {
	base := t.TempDir()
	a := shellexec.New(shellexec.WithWorkDir(base))

	sub := filepath.Join(base, "child")
	if err := mkdir(sub); err != nil {
		t.Fatal(err)
	}
	if err := a.SetWorkDir("child"); err != nil {
		t.Fatalf("SetWorkDir: %v", err)
	}
	if a.WorkDir() != sub {
		t.Errorf("WorkDir = %q, want %q", a.WorkDir(), sub)
	}
}

func TestWithEnv(t *testing.T) {
	skipOnWindows(t)
	a := shellexec.New(shellexec.WithEnv([]string{"SHELLGATE_TEST_VAR=marker"}))

	result := a.Run("echo $SHELLGATE_TEST_VAR")
	if !result.Succeeded || result.Output != "marker" {
		t.Errorf("env not passed: %+v", result)
	}
}
