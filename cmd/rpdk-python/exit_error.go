// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/rpdk/rpdk-python/internal/build"
)

const (
	// ExitFailure is the exit code for errors without a more specific code.
	ExitFailure = 1
	// ExitMissingSupportArtifact is the exit code when the support library archive is absent.
	ExitMissingSupportArtifact = 2
	// ExitDownstreamBuild is the exit code when pip or the container engine fails.
	ExitDownstreamBuild = 3
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, build.ErrMissingSupportArtifact):
		return ExitMissingSupportArtifact
	case errors.Is(err, build.ErrDownstreamBuild):
		return ExitDownstreamBuild
	default:
		return ExitFailure
	}
}
