// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ContainerEngineDocker talks to the Docker Engine API.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEngineDockerCLI drives the docker binary.
	ContainerEngineDockerCLI ContainerEngine = "docker-cli"
	// ContainerEnginePodman drives the podman binary.
	ContainerEnginePodman ContainerEngine = "podman"

	// DefaultImageRepository hosts the runtime build images.
	DefaultImageRepository = "lambci/lambda"
	// DefaultImageTagPrefix prefixes the runtime identifier in build image tags.
	DefaultImageTagPrefix = "build"
	// DefaultSupportLibVersion is the support library archive version.
	DefaultSupportLibVersion = "0.0.1"
	// DefaultLogLevel is the log level when neither config nor flags set one.
	DefaultLogLevel = "info"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidBuildConfig is the sentinel error wrapped by InvalidBuildConfigError.
	ErrInvalidBuildConfig = errors.New("invalid build config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine names the engine used for containerized builds.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine selects the engine for containerized builds.
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine" toml:"container_engine"`
		// Build configures the build image.
		Build BuildConfig `json:"build" mapstructure:"build" toml:"build"`
		// SupportLib configures the support library archive.
		SupportLib SupportLibConfig `json:"support_lib" mapstructure:"support_lib" toml:"support_lib"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
		// Log configures the process logger.
		Log LogConfig `json:"log" mapstructure:"log" toml:"log"`
	}

	// BuildConfig names the runtime build image: <ImageRepository>:<ImageTagPrefix>-<runtime>.
	BuildConfig struct {
		ImageRepository string `json:"image_repository" mapstructure:"image_repository" toml:"image_repository"`
		ImageTagPrefix  string `json:"image_tag_prefix" mapstructure:"image_tag_prefix" toml:"image_tag_prefix"`
	}

	// InvalidBuildConfigError is returned when a BuildConfig has invalid fields.
	InvalidBuildConfigError struct {
		FieldErrors []error
	}

	// SupportLibConfig configures the support library archive.
	SupportLibConfig struct {
		Version string `json:"version" mapstructure:"version" toml:"version"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// LogConfig configures the process logger.
	LogConfig struct {
		Level string `json:"level" mapstructure:"level" toml:"level"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, docker-cli, podman)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the engine name.
func (ce ContainerEngine) String() string { return string(ce) }

// Validate returns nil if the ContainerEngine is a recognized engine.
func (ce ContainerEngine) Validate() error {
	switch ce {
	case ContainerEngineDocker, ContainerEngineDockerCLI, ContainerEnginePodman:
		return nil
	default:
		return &InvalidContainerEngineError{Value: ce}
	}
}

// Error implements the error interface.
func (e *InvalidBuildConfigError) Error() string {
	return fmt.Sprintf("invalid build config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidBuildConfig for errors.Is() compatibility.
func (e *InvalidBuildConfigError) Unwrap() error { return ErrInvalidBuildConfig }

// Validate returns nil when both image fields are non-blank.
func (c BuildConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ImageRepository) == "" {
		errs = append(errs, errors.New("image_repository must not be empty"))
	}
	if strings.TrimSpace(c.ImageTagPrefix) == "" {
		errs = append(errs, errors.New("image_tag_prefix must not be empty"))
	}
	if len(errs) > 0 {
		return &InvalidBuildConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and each field error for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks fields the environment can set without passing the CUE schema.
func (c Config) Validate() error {
	var errs []error
	if err := c.ContainerEngine.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Build.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.SupportLib.Version) == "" {
		errs = append(errs, errors.New("support_lib.version must not be empty"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineDocker,
		Build: BuildConfig{
			ImageRepository: DefaultImageRepository,
			ImageTagPrefix:  DefaultImageTagPrefix,
		},
		SupportLib: SupportLibConfig{Version: DefaultSupportLibVersion},
		UI:         UIConfig{Verbose: false},
		Log:        LogConfig{Level: DefaultLogLevel},
	}
}
