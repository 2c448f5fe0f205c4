// SPDX-License-Identifier: MPL-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

// helperCommand returns an ExecCommandFunc that re-executes the test binary as
// TestHelperProcess with the configured output and exit code.
func helperCommand(t *testing.T, stdout, stderr string, exitCode int, calls *[][]string) ExecCommandFunc {
	t.Helper()
	return func(_ context.Context, name string, args ...string) *exec.Cmd {
		*calls = append(*calls, append([]string{name}, args...))
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.Command(os.Args[0], cs...) //nolint:noctx // exec.Command used intentionally for test helper
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", exitCode),
			fmt.Sprintf("GO_HELPER_STDOUT=%s", stdout),
			fmt.Sprintf("GO_HELPER_STDERR=%s", stderr),
		}
		return cmd
	}
}

// TestHelperProcess is not a real test. It is used as a fake external process.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}
	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}
	os.Exit(exitCode)
}

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stdout     string
		stderr     string
		exitCode   int
		wantErr    bool
		wantStdout string
		wantStderr string
	}{
		{name: "success captures output", stdout: "installed", stderr: "warning", wantStdout: "installed", wantStderr: "warning"},
		{name: "non-zero exit is an error", stderr: "boom", exitCode: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls [][]string
			r := NewExecRunner(WithExecCommand(helperCommand(t, tt.stdout, tt.stderr, tt.exitCode, &calls)))
			dir := t.TempDir()

			res, err := r.Run(context.Background(), Invocation{Args: []string{"pip", "install", "x"}, Dir: dir})
			if len(calls) != 1 || !slices.Equal(calls[0], []string{"pip", "install", "x"}) {
				t.Fatalf("unexpected invocations: %v", calls)
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrExternalProcess) {
					t.Errorf("expected ErrExternalProcess, got %v", err)
				}
				var procErr *ExternalProcessError
				if !errors.As(err, &procErr) {
					t.Fatalf("expected *ExternalProcessError, got %T", err)
				}
				if procErr.ExitCode != tt.exitCode {
					t.Errorf("ExitCode = %d, want %d", procErr.ExitCode, tt.exitCode)
				}
				if string(procErr.Stderr) != tt.stderr {
					t.Errorf("Stderr = %q, want %q", procErr.Stderr, tt.stderr)
				}
				if procErr.Dir != dir {
					t.Errorf("Dir = %q, want %q", procErr.Dir, dir)
				}
				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if string(res.Stdout) != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			if string(res.Stderr) != tt.wantStderr {
				t.Errorf("Stderr = %q, want %q", res.Stderr, tt.wantStderr)
			}
		})
	}
}

func TestExecRunner_RunStreamsOutput(t *testing.T) {
	t.Parallel()

	var calls [][]string
	r := NewExecRunner(WithExecCommand(helperCommand(t, "line one\n", "line two\n", 0, &calls)))

	var stream bytes.Buffer
	res, err := r.Run(context.Background(), Invocation{Args: []string{"docker", "run"}, Stream: &stream})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stream.String(), "line one") || !strings.Contains(stream.String(), "line two") {
		t.Errorf("stream missing output: %q", stream.String())
	}
	if string(res.Stdout) != "line one\n" {
		t.Errorf("Stdout = %q, want captured copy", res.Stdout)
	}
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	_, err := r.Run(context.Background(), Invocation{Args: []string{"rpdk-definitely-not-installed-binary"}})
	if err == nil {
		t.Fatal("expected error for missing executable")
	}

	var procErr *ExternalProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *ExternalProcessError, got %T", err)
	}
	if procErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1 for a process that never started", procErr.ExitCode)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected errors.Is(err, exec.ErrNotFound), got %v", err)
	}
	if !strings.Contains(err.Error(), "could not be started") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestExecRunner_EmptyArgs(t *testing.T) {
	t.Parallel()

	_, err := NewExecRunner().Run(context.Background(), Invocation{})
	if !errors.Is(err, ErrExternalProcess) {
		t.Fatalf("expected ErrExternalProcess, got %v", err)
	}
}
