// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/rpdk/rpdk-python/internal/command"
)

type (
	// RunArgsTransformer modifies run arguments after they're built.
	// Used by Podman to inject --userns=keep-id so build output stays owned by the caller.
	RunArgsTransformer func(args []string) []string

	// CLIEngineOption configures a CLIEngine.
	CLIEngineOption func(*CLIEngine)

	// CLIEngine implements Engine by driving a docker-compatible binary.
	CLIEngine struct {
		engineType         EngineType
		binaryPath         string
		runner             command.Runner
		logger             *slog.Logger
		selinuxCheck       SELinuxCheckFunc
		runArgsTransformer RunArgsTransformer
		imageExistsArgs    []string
		versionArgs        []string
	}
)

// WithRunner sets the command runner, for testing.
func WithRunner(r command.Runner) CLIEngineOption {
	return func(e *CLIEngine) {
		e.runner = r
	}
}

// WithBinaryPath overrides the engine binary resolved from PATH.
func WithBinaryPath(path string) CLIEngineOption {
	return func(e *CLIEngine) {
		e.binaryPath = path
	}
}

// WithCLILogger sets the logger used for the debug echo of engine commands.
func WithCLILogger(logger *slog.Logger) CLIEngineOption {
	return func(e *CLIEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSELinuxCheck sets the function deciding whether bind mounts get an SELinux label.
func WithSELinuxCheck(fn SELinuxCheckFunc) CLIEngineOption {
	return func(e *CLIEngine) {
		e.selinuxCheck = fn
	}
}

// WithRunArgsTransformer sets a custom run args transformer.
func WithRunArgsTransformer(fn RunArgsTransformer) CLIEngineOption {
	return func(e *CLIEngine) {
		e.runArgsTransformer = fn
	}
}

// NewDockerCLIEngine creates an engine driving the docker binary.
func NewDockerCLIEngine(opts ...CLIEngineOption) *CLIEngine {
	path, _ := exec.LookPath("docker")
	base := []CLIEngineOption{WithBinaryPath(path)}
	e := newCLIEngine(EngineTypeDockerCLI, append(base, opts...)...)
	e.imageExistsArgs = []string{"image", "inspect", "--format", "{{.Id}}"}
	e.versionArgs = []string{"version", "--format", "{{.Server.Version}}"}
	return e
}

// NewPodmanCLIEngine creates an engine driving the podman binary.
// Bind mounts are labeled for SELinux when the host enforces it, and runs keep
// the caller's user namespace mapping.
func NewPodmanCLIEngine(opts ...CLIEngineOption) *CLIEngine {
	path, _ := exec.LookPath("podman")
	base := []CLIEngineOption{
		WithBinaryPath(path),
		WithSELinuxCheck(isSELinuxEnforcing),
		WithRunArgsTransformer(injectUsernsKeepID),
	}
	e := newCLIEngine(EngineTypePodman, append(base, opts...)...)
	e.imageExistsArgs = []string{"image", "exists"}
	e.versionArgs = []string{"version", "--format", "{{.Version}}"}
	return e
}

func newCLIEngine(t EngineType, opts ...CLIEngineOption) *CLIEngine {
	e := &CLIEngine{
		engineType:         t,
		logger:             slog.New(slog.DiscardHandler),
		runArgsTransformer: func(args []string) []string { return args },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		e.runner = command.NewExecRunner(command.WithLogger(e.logger))
	}
	return e
}

// Name returns the engine name.
func (e *CLIEngine) Name() string {
	return string(e.engineType)
}

// BinaryPath returns the path to the container engine binary.
func (e *CLIEngine) BinaryPath() string {
	return e.binaryPath
}

// Available checks that the binary exists and can reach its service.
func (e *CLIEngine) Available(ctx context.Context) bool {
	if e.binaryPath == "" {
		return false
	}
	_, err := e.runner.Run(ctx, command.Invocation{Args: e.command(e.versionArgs...)})
	return err == nil
}

// ImageExists checks if an image is present locally. A non-zero exit from the
// inspect command means the image is absent.
func (e *CLIEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	args := append(append([]string{}, e.imageExistsArgs...), image)
	_, err := e.runner.Run(ctx, command.Invocation{Args: e.command(args...)})
	if err == nil {
		return true, nil
	}
	var procErr *command.ExternalProcessError
	if errors.As(err, &procErr) && procErr.ExitCode > 0 {
		return false, nil
	}
	return false, fmt.Errorf("failed to inspect image %s: %w", image, err)
}

// Run runs a command in a container.
func (e *CLIEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	args, err := e.RunArgs(opts)
	if err != nil {
		return nil, err
	}

	argv := e.command(args...)
	e.logger.Debug("running container", "engine", e.Name(), "command", command.QuoteArgs(argv))

	_, err = e.runner.Run(ctx, command.Invocation{Args: argv, Stream: opts.Output})
	if err == nil {
		return &RunResult{}, nil
	}

	var procErr *command.ExternalProcessError
	if errors.As(err, &procErr) && procErr.ExitCode > 0 {
		return &RunResult{ExitCode: procErr.ExitCode}, nil
	}
	return nil, err
}

// RunArgs constructs arguments for a container run command.
//
// Generated command: <binary> run [options] <image> [command...]
func (e *CLIEngine) RunArgs(opts RunOptions) ([]string, error) {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}

	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}

	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}

	for _, v := range opts.Volumes {
		v = v.WithSELinuxLabel(e.selinuxCheck)
		if err := v.Validate(); err != nil {
			return nil, err
		}
		args = append(args, "-v", v.String())
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)

	return e.runArgsTransformer(args), nil
}

func (e *CLIEngine) command(args ...string) []string {
	return append([]string{e.binaryPath}, args...)
}

// injectUsernsKeepID adds --userns=keep-id after the run subcommand.
func injectUsernsKeepID(args []string) []string {
	if len(args) == 0 || args[0] != "run" {
		return args
	}
	for _, a := range args {
		if strings.HasPrefix(a, "--userns") {
			return args
		}
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0], "--userns=keep-id")
	return append(out, args[1:]...)
}
