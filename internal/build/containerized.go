// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rpdk/rpdk-python/internal/command"
	"github.com/rpdk/rpdk-python/internal/container"
	"github.com/rpdk/rpdk-python/internal/logging"
	"github.com/rpdk/rpdk-python/internal/project"
)

const (
	// DefaultImageRepository hosts the runtime build images.
	DefaultImageRepository = "lambci/lambda"
	// DefaultImageTagPrefix prefixes the runtime identifier in build image tags.
	DefaultImageTagPrefix = "build"

	containerNamePrefix = "rpdk-build-"
)

type (
	// ImageOptions name the build image: <Repository>:<TagPrefix>-<runtime identifier>.
	ImageOptions struct {
		Repository string
		TagPrefix  string
	}

	// ContainerBuilder runs pip inside a build image with the project root mounted
	// read-write at ContainerMountPath.
	ContainerBuilder struct {
		engine container.Engine
		image  ImageOptions
		opts   Options
	}
)

// NewContainerBuilder creates a containerized builder running on engine.
func NewContainerBuilder(engine container.Engine, image ImageOptions, opts Options) *ContainerBuilder {
	if image.Repository == "" {
		image.Repository = DefaultImageRepository
	}
	if image.TagPrefix == "" {
		image.TagPrefix = DefaultImageTagPrefix
	}
	return &ContainerBuilder{engine: engine, image: image, opts: opts.withDefaults()}
}

// Strategy returns StrategyContainerized.
func (b *ContainerBuilder) Strategy() Strategy { return StrategyContainerized }

// Image returns the build image reference for rt.
func (b *ContainerBuilder) Image(rt project.Runtime) string {
	return fmt.Sprintf("%s:%s-%s", b.image.Repository, b.image.TagPrefix, rt.Identifier)
}

// Build installs dependencies into the project's build directory.
func (b *ContainerBuilder) Build(ctx context.Context, p *project.Project) error {
	logger := b.opts.Logger

	if _, err := CheckSupportArtifact(p.Root, b.opts.SupportLibVersion); err != nil {
		return err
	}

	args := PipCommand(ContainerMountPath, true)
	logger.Debug("pip command", "command", command.QuoteArgs(args))

	image := b.Image(p.Runtime)
	logger.Warn("Starting container build. This may take several minutes if the image needs to be pulled first.",
		"image", image, "engine", b.engine.Name())

	exists, err := b.engine.ImageExists(ctx, image)
	switch {
	case err != nil:
		logger.Debug("could not check for build image", "image", image, "error", err)
	case !exists:
		logger.Warn("Build image is not available locally and will be pulled.", "image", image)
	}

	name := containerNamePrefix + uuid.NewString()
	output := logging.NewLineWriter(logger, slog.LevelDebug, "build output", "container", name)
	defer output.Close()

	logger.Debug("build running", "container", name)
	res, err := b.engine.Run(ctx, container.RunOptions{
		Image:   image,
		Command: args,
		Volumes: []container.VolumeMount{{
			HostPath:      container.HostFilesystemPath(p.Root),
			ContainerPath: ContainerMountPath,
		}},
		Remove: true,
		Name:   name,
		Output: output,
	})
	if err != nil {
		return &DownstreamBuildError{Strategy: StrategyContainerized, Message: "error running container build", Cause: err}
	}
	if res.ExitCode != 0 {
		return &DownstreamBuildError{
			Strategy: StrategyContainerized,
			Message:  fmt.Sprintf("pip exited with status %d in container %s", res.ExitCode, name),
		}
	}
	return nil
}
