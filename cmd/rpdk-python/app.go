// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/rpdk/rpdk-python/internal/command"
	"github.com/rpdk/rpdk-python/internal/config"
	"github.com/rpdk/rpdk-python/internal/container"
	"github.com/rpdk/rpdk-python/internal/scaffold"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command handlers
	// receive an App reference and resolve per-invocation state through it.
	App struct {
		Config   ConfigProvider
		Engines  EngineFactory
		Runner   command.Runner
		Prompter scaffold.Prompter
		stdout   io.Writer
		stderr   io.Writer

		flags  rootFlags
		cfg    *config.Config
		logger *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Engines  EngineFactory
		Runner   command.Runner
		Prompter scaffold.Prompter
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// EngineFactory resolves the container engine for containerized builds.
	EngineFactory func(ctx context.Context, preferred container.EngineType, logger *slog.Logger) (container.Engine, error)

	rootFlags struct {
		verbose    bool
		configFile string
		projectDir string
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Engines == nil {
		deps.Engines = container.NewEngine
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Prompter == nil {
		deps.Prompter = &scaffold.LinePrompter{In: deps.Stdin, Out: deps.Stdout}
	}

	return &App{
		Config:   deps.Config,
		Engines:  deps.Engines,
		Runner:   deps.Runner,
		Prompter: deps.Prompter,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// Logger returns the logger configured for the current invocation.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Settings returns the loaded configuration, or defaults before loading.
func (a *App) Settings() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}

// projectDir returns the --project-dir value, defaulting to the working directory.
func (a *App) projectDir() string {
	if a.flags.projectDir != "" {
		return a.flags.projectDir
	}
	return "."
}
