// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"log/slog"

	"github.com/rpdk/rpdk-python/internal/command"
	"github.com/rpdk/rpdk-python/internal/project"
)

// LocalBuilder runs pip on the host with the project root as working directory.
// Platform compatibility of native wheels is the caller's responsibility.
type LocalBuilder struct {
	runner command.Runner
	opts   Options
}

// NewLocalBuilder creates a local builder executing through runner.
func NewLocalBuilder(runner command.Runner, opts Options) *LocalBuilder {
	opts = opts.withDefaults()
	if runner == nil {
		runner = command.NewExecRunner(command.WithLogger(opts.Logger))
	}
	return &LocalBuilder{runner: runner, opts: opts}
}

// Strategy returns StrategyLocal.
func (b *LocalBuilder) Strategy() Strategy { return StrategyLocal }

// Build installs dependencies into the project's build directory.
func (b *LocalBuilder) Build(ctx context.Context, p *project.Project) error {
	logger := b.opts.Logger

	if _, err := CheckSupportArtifact(p.Root, b.opts.SupportLibVersion); err != nil {
		return err
	}

	args := PipCommand(p.Root, false)
	logger.Debug("pip command", "command", command.QuoteArgs(args))
	logger.Warn("Starting pip build.")

	res, err := b.runner.Run(ctx, command.Invocation{Args: args, Dir: p.Root})
	if err != nil {
		return &DownstreamBuildError{Strategy: StrategyLocal, Message: "pip build failed", Cause: err}
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Debug("pip stdout", "output", string(res.Stdout))
		logger.Debug("pip stderr", "output", string(res.Stderr))
	}
	return nil
}
