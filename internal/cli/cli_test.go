package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/hal"
	"github.com/matzehuels/halgraph/pkg/observability"
)

const motorSnapshot = `
[[pin]]
name = "motor.0.enable"
type = "bit"
dir = "out"
value = true
signal = "enable-sig"

[[pin]]
name = "motor.0.running"
type = "bit"
dir = "in"
value = true
signal = "enable-sig"
`

// testCLI returns a CLI whose provider factory counts namespace accesses.
func testCLI(t *testing.T) (*CLI, *int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	calls := 0
	c.NewProvider = func(cfg Config) (hal.Provider, error) {
		calls++
		return defaultProvider(cfg)
	}
	return c, &calls
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	c, calls := testCLI(t)

	out, err := execute(t, c, "a.svg", "b.svg", "c.svg")
	if got := ExitCode(err); got != ExitUsage {
		t.Fatalf("ExitCode() = %d, want %d (err: %v)", got, ExitUsage, err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("usage not printed:\n%s", out)
	}
	if *calls != 0 {
		t.Errorf("namespace opened %d times on a usage error", *calls)
	}
}

func TestRootCommand_UnknownFlag(t *testing.T) {
	c, calls := testCLI(t)

	_, err := execute(t, c, "--frobnicate")
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("ExitCode() = %d, want %d", got, ExitUsage)
	}
	if *calls != 0 {
		t.Errorf("namespace opened %d times on a usage error", *calls)
	}
}

func TestRootCommand_ExportDOT(t *testing.T) {
	c, calls := testCLI(t)
	snap := writeTemp(t, "hal.toml", motorSnapshot, 0o644)
	output := filepath.Join(t.TempDir(), "graph.dot")

	if _, err := execute(t, c, "--namespace", snap, output); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if *calls != 1 {
		t.Errorf("namespace opened %d times, want 1", *calls)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`digraph "Hal graph" {`,
		`"motor_0":"enable" -> "enable-sig"`,
		`"enable-sig" -> "motor_0":"running"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("exported DOT missing %s\n%s", want, data)
		}
	}
}

func TestRootCommand_ExportSVG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	c, _ := testCLI(t)
	snap := writeTemp(t, "hal.json", `{"pins": []}`, 0o644)
	svg := `<svg viewBox="0.00 0.00 8.00 8.00" xmlns="http://www.w3.org/2000/svg"></svg>`
	dot := writeTemp(t, "dot", fmt.Sprintf("#!/bin/sh\ncat > /dev/null\necho '%s'\n", svg), 0o755)
	output := filepath.Join(t.TempDir(), "graph.svg")

	if _, err := execute(t, c, "--namespace", snap, "--dot", dot, output); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("output is not SVG: %s", data)
	}
}

func TestRootCommand_Failures(t *testing.T) {
	snapDir := t.TempDir()

	tests := []struct {
		name      string
		args      []string
		code      errors.Code
		wantCalls int
	}{
		{
			name:      "missing snapshot",
			args:      []string{"--namespace", filepath.Join(snapDir, "missing.toml"), "out.svg"},
			code:      errors.ErrCodeBackendUnavailable,
			wantCalls: 1,
		},
		{
			name: "unsupported format",
			args: []string{"out.jpg"},
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "unknown engine",
			args: []string{"--engine", "neato", "out.svg"},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "missing explicit config",
			args: []string{"--config", filepath.Join(snapDir, "nope.toml"), "out.svg"},
			code: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := testCLI(t)
			_, err := execute(t, c, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if got := ExitCode(err); got != ExitFailure {
				t.Errorf("ExitCode() = %d, want %d", got, ExitFailure)
			}
			if *calls != tt.wantCalls {
				t.Errorf("namespace opened %d times, want %d", *calls, tt.wantCalls)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", &UsageError{Err: fmt.Errorf("too many")}, ExitUsage},
		{"canceled", fmt.Errorf("build: %w", context.Canceled), ExitCanceled},
		{"runtime", errors.New(errors.ErrCodeRenderFailure, "dot crashed"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := errors.New(errors.ErrCodeBackendUnavailable, "halcmd not found")
	if got := ErrorMessage(err); got != "halcmd not found" {
		t.Errorf("ErrorMessage() = %q", got)
	}
}
