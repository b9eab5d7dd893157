//go:build integration

package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/schaermu/envvar/internal/testutil"
)

const defaultTimeout = 2 * time.Minute

// Harness builds the envvar binary and runs it inside an isolated working
// directory with a controlled environment
type Harness struct {
	t       *testing.T
	binary  string
	workDir string
	env     []string
}

// NewHarness creates a new test harness
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	workDir := t.TempDir()
	return &Harness{
		t:       t,
		workDir: workDir,
		env: []string{
			"PATH=/usr/bin:/bin",
			"HOME=" + workDir,
			"SHELL=/bin/bash",
			"XDG_CONFIG_HOME=" + filepath.Join(workDir, "config"),
			"XDG_CONFIG_DIRS=" + filepath.Join(workDir, "xdg"),
		},
	}
}

// Build compiles cmd/envvar into the harness directory
func (h *Harness) Build(ctx context.Context) error {
	h.t.Helper()

	projectRoot, err := testutil.FindProjectRoot()
	if err != nil {
		return fmt.Errorf("get project root: %w", err)
	}

	h.binary = filepath.Join(h.t.TempDir(), "envvar")
	h.t.Logf("Building %s", h.binary)

	cmd := exec.CommandContext(ctx, "go", "build", "-o", h.binary, "./cmd/envvar")
	cmd.Dir = projectRoot
	cmd.Stdout = &testWriter{t: h.t, prefix: "[build] "}
	cmd.Stderr = &testWriter{t: h.t, prefix: "[build] "}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	return nil
}

// Run executes the envvar binary with args
func (h *Harness) Run(ctx context.Context, args ...string) (string, string, int, error) {
	h.t.Helper()
	if h.binary == "" {
		return "", "", 0, fmt.Errorf("binary not built")
	}
	return h.exec(ctx, h.binary, args...)
}

// MustRun executes the envvar binary and fails the test if it returns non-zero
func (h *Harness) MustRun(ctx context.Context, args ...string) (string, string) {
	h.t.Helper()
	stdout, stderr, exitCode, err := h.Run(ctx, args...)
	if err != nil {
		h.t.Fatalf("run failed: %v", err)
	}
	if exitCode != 0 {
		h.t.Fatalf("envvar failed with exit code %d\nstdout: %s\nstderr: %s\nargs: %v",
			exitCode, stdout, stderr, args)
	}
	return stdout, stderr
}

// Source loads rc into a fresh shell and prints the value of each variable
// in names, one per line
func (h *Harness) Source(ctx context.Context, shell, rc string, names ...string) ([]string, error) {
	h.t.Helper()

	var script strings.Builder
	switch shell {
	case "fish":
		script.WriteString("source $argv[1]")
		for _, name := range names {
			fmt.Fprintf(&script, "; printf '%%s\\n' \"$%s\"", name)
		}
	default:
		script.WriteString(`. "$1"`)
		for _, name := range names {
			fmt.Fprintf(&script, `; printf '%%s\n' "$%s"`, name)
		}
	}

	args := []string{"-c", script.String()}
	if shell != "fish" {
		// $0 for POSIX-style shells
		args = append(args, shell)
	}
	args = append(args, rc)

	stdout, stderr, exitCode, err := h.exec(ctx, shell, args...)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, fmt.Errorf("%s exited with %d: %s", shell, exitCode, stderr)
	}
	return strings.Split(strings.TrimSuffix(stdout, "\n"), "\n"), nil
}

// WriteFile writes content to name below the working directory
func (h *Harness) WriteFile(name, content string) string {
	h.t.Helper()
	path := h.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("mkdir parent: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("write file: %v", err)
	}
	return path
}

// ReadFile reads name below the working directory
func (h *Harness) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(h.Path(name))
	return string(data), err
}

// FileExists checks if name exists below the working directory
func (h *Harness) FileExists(name string) bool {
	_, err := os.Stat(h.Path(name))
	return err == nil
}

// Path returns the absolute path of name below the working directory
func (h *Harness) Path(name string) string {
	return filepath.Join(h.workDir, name)
}

func (h *Harness) exec(ctx context.Context, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = h.workDir
	cmd.Env = h.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return "", "", 0, fmt.Errorf("exec failed: %w", err)
		}
	}

	return stdout.String(), stderr.String(), exitCode, nil
}

// testWriter wraps test logging for command output
type testWriter struct {
	t      *testing.T
	prefix string
}

func (w *testWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		if line != "" {
			w.t.Log(w.prefix + line)
		}
	}
	return len(p), nil
}

var _ io.Writer = (*testWriter)(nil)
