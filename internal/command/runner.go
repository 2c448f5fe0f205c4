// SPDX-License-Identifier: MPL-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// ErrExternalProcess is the sentinel error wrapped by ExternalProcessError.
var ErrExternalProcess = errors.New("external process failed")

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Runner executes an external command to completion.
	Runner interface {
		Run(ctx context.Context, inv Invocation) (*Result, error)
	}

	// Invocation describes a single external command execution.
	Invocation struct {
		// Args is the argument vector; Args[0] is the executable.
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Stream, when set, receives stdout and stderr as they are produced
		// in addition to the captured buffers.
		Stream io.Writer
	}

	// Result holds the captured output of a successful command.
	Result struct {
		Stdout []byte
		Stderr []byte
	}

	// ExternalProcessError is returned when the executable is missing or exits non-zero.
	ExternalProcessError struct {
		Args []string
		Dir  string
		// ExitCode is -1 when the process never started.
		ExitCode int
		Stderr   []byte
		Cause    error
	}

	// ExecRunner runs commands with os/exec.
	ExecRunner struct {
		execCommand ExecCommandFunc
		logger      *slog.Logger
	}

	// Option configures an ExecRunner.
	Option func(*ExecRunner)
)

// Error implements the error interface.
func (e *ExternalProcessError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "command %q", strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		fmt.Fprintf(&msg, " exited with status %d", e.ExitCode)
	} else {
		msg.WriteString(" could not be started")
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns both the sentinel and the underlying cause so that errors.Is works
// for ErrExternalProcess and for causes such as exec.ErrNotFound.
func (e *ExternalProcessError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalProcess}
	}
	return []error{ErrExternalProcess, e.Cause}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(r *ExecRunner) {
		r.execCommand = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *ExecRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		execCommand: exec.CommandContext,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes inv and blocks until the process exits.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Args) == 0 {
		return nil, &ExternalProcessError{ExitCode: -1, Cause: errors.New("empty argument vector")}
	}

	cmd := r.execCommand(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir

	var stdout, stderr bytes.Buffer
	if inv.Stream != nil {
		stream := &lockedWriter{w: inv.Stream}
		cmd.Stdout = io.MultiWriter(&stdout, stream)
		cmd.Stderr = io.MultiWriter(&stderr, stream)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	r.logger.Debug("running command", "command", QuoteArgs(inv.Args), "dir", inv.Dir)

	if err := cmd.Run(); err != nil {
		procErr := &ExternalProcessError{
			Args:     inv.Args,
			Dir:      inv.Dir,
			ExitCode: -1,
			Stderr:   stderr.Bytes(),
			Cause:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			procErr.ExitCode = exitErr.ExitCode()
		}
		return nil, procErr
	}

	return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

// lockedWriter serializes writes from the stdout and stderr copy goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
