// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSupportArtifact is the sentinel error wrapped by MissingSupportArtifactError.
	ErrMissingSupportArtifact = errors.New("support library archive not found")

	// ErrDownstreamBuild is the sentinel error wrapped by DownstreamBuildError.
	ErrDownstreamBuild = errors.New("dependency build failed")
)

type (
	// MissingSupportArtifactError is returned when the support library source
	// distribution is absent from the project root. It is a precondition failure:
	// nothing was launched and retrying without adding the archive cannot succeed.
	MissingSupportArtifactError struct {
		Path  string
		Cause error
	}

	// DownstreamBuildError is returned when the container engine or pip fails.
	// The package operation is safe to retry.
	DownstreamBuildError struct {
		Strategy Strategy
		Message  string
		Cause    error
	}
)

// Error implements the error interface.
func (e *MissingSupportArtifactError) Error() string {
	return fmt.Sprintf("could not find packaged support library: %s", e.Path)
}

// Unwrap returns the sentinel and the underlying filesystem error.
func (e *MissingSupportArtifactError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMissingSupportArtifact}
	}
	return []error{ErrMissingSupportArtifact, e.Cause}
}

// Error implements the error interface.
func (e *DownstreamBuildError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s build: %s", e.Strategy, e.Message)
	}
	return fmt.Sprintf("%s build: %s: %v", e.Strategy, e.Message, e.Cause)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *DownstreamBuildError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDownstreamBuild}
	}
	return []error{ErrDownstreamBuild, e.Cause}
}
