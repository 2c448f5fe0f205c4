// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	// EngineTypeDocker talks to the Docker daemon through the Engine API.
	EngineTypeDocker EngineType = "docker"
	// EngineTypeDockerCLI drives the docker binary.
	EngineTypeDockerCLI EngineType = "docker-cli"
	// EngineTypePodman drives the podman binary.
	EngineTypePodman EngineType = "podman"
)

var (
	// ErrEngineNotAvailable is the sentinel error wrapped by EngineNotAvailableError.
	ErrEngineNotAvailable = errors.New("container engine not available")

	// ErrInvalidEngineType is the sentinel error wrapped by InvalidEngineTypeError.
	ErrInvalidEngineType = errors.New("invalid container engine type")
)

type (
	// Engine defines the container operations needed by containerized builds.
	Engine interface {
		// Name returns the engine name (docker, docker-cli or podman).
		Name() string
		// Available reports whether the engine can be reached.
		Available(ctx context.Context) bool
		// ImageExists reports whether the image is present locally.
		ImageExists(ctx context.Context, image string) (bool, error)
		// Run runs a command in a new container and blocks until it exits.
		// A non-zero exit status is reported in RunResult, not as an error.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
	}

	// RunOptions contains options for running a container.
	RunOptions struct {
		// Image is the image to run.
		Image string
		// Command is the command to run.
		Command []string
		// WorkDir is the working directory inside the container.
		WorkDir string
		// Volumes are bind mounts from the host.
		Volumes []VolumeMount
		// Remove automatically removes the container after exit.
		Remove bool
		// Name is the container name.
		Name string
		// Output receives the combined stdout and stderr of the container as it is produced.
		Output io.Writer
	}

	// RunResult contains the result of running a container.
	RunResult struct {
		ContainerID string
		ExitCode    int
	}

	// EngineType identifies the container engine type.
	EngineType string

	// InvalidEngineTypeError is returned when an EngineType is not a recognized engine.
	InvalidEngineTypeError struct {
		Value EngineType
	}

	// EngineNotAvailableError is returned when neither the preferred engine nor any
	// fallback can be reached.
	EngineNotAvailableError struct {
		Engine EngineType
		Reason string
	}

	// Factory constructs engines for NewEngine. Tests replace it to avoid touching the host.
	Factory struct {
		API    func() (Engine, error)
		Docker func() Engine
		Podman func() Engine
	}
)

// Error implements the error interface.
func (e *InvalidEngineTypeError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, docker-cli, podman)", e.Value)
}

// Unwrap returns ErrInvalidEngineType for errors.Is() compatibility.
func (e *InvalidEngineTypeError) Unwrap() error { return ErrInvalidEngineType }

// Validate returns an error if the EngineType is not one of the defined engines.
func (t EngineType) Validate() error {
	switch t {
	case EngineTypeDocker, EngineTypeDockerCLI, EngineTypePodman:
		return nil
	default:
		return &InvalidEngineTypeError{Value: t}
	}
}

// String returns the string representation of the EngineType.
func (t EngineType) String() string { return string(t) }

// Error implements the error interface.
func (e *EngineNotAvailableError) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// Unwrap returns ErrEngineNotAvailable for errors.Is() compatibility.
func (e *EngineNotAvailableError) Unwrap() error { return ErrEngineNotAvailable }

// DefaultFactory returns a Factory building real engines.
func DefaultFactory(logger *slog.Logger) Factory {
	return Factory{
		API: func() (Engine, error) {
			return NewAPIEngine(WithAPILogger(logger))
		},
		Docker: func() Engine {
			return NewDockerCLIEngine(WithCLILogger(logger))
		},
		Podman: func() Engine {
			return NewPodmanCLIEngine(WithCLILogger(logger))
		},
	}
}

// NewEngine creates a container engine based on preference, falling back to the
// other engines when the preferred one cannot be reached.
func NewEngine(ctx context.Context, preferred EngineType, logger *slog.Logger) (Engine, error) {
	return DefaultFactory(logger).NewEngine(ctx, preferred)
}

// NewEngine creates a container engine based on preference using the factory's constructors.
func (f Factory) NewEngine(ctx context.Context, preferred EngineType) (Engine, error) {
	if err := preferred.Validate(); err != nil {
		return nil, err
	}

	var order []EngineType
	switch preferred {
	case EngineTypeDocker:
		order = []EngineType{EngineTypeDocker, EngineTypeDockerCLI, EngineTypePodman}
	case EngineTypeDockerCLI:
		order = []EngineType{EngineTypeDockerCLI, EngineTypeDocker, EngineTypePodman}
	case EngineTypePodman:
		order = []EngineType{EngineTypePodman, EngineTypeDocker, EngineTypeDockerCLI}
	}

	reasons := make([]string, 0, len(order))
	for _, t := range order {
		engine, err := f.build(t)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", t, err))
			continue
		}
		if engine.Available(ctx) {
			return engine, nil
		}
		reasons = append(reasons, fmt.Sprintf("%s: not reachable", t))
	}

	return nil, &EngineNotAvailableError{
		Engine: preferred,
		Reason: strings.Join(reasons, "; "),
	}
}

func (f Factory) build(t EngineType) (Engine, error) {
	switch t {
	case EngineTypeDocker:
		if f.API == nil {
			return nil, errors.New("no constructor")
		}
		return f.API()
	case EngineTypeDockerCLI:
		if f.Docker == nil {
			return nil, errors.New("no constructor")
		}
		return f.Docker(), nil
	default:
		if f.Podman == nil {
			return nil, errors.New("no constructor")
		}
		return f.Podman(), nil
	}
}
