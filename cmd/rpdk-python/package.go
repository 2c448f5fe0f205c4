// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rpdk/rpdk-python/internal/build"
	"github.com/rpdk/rpdk-python/internal/container"
	"github.com/rpdk/rpdk-python/internal/packager"
	"github.com/rpdk/rpdk-python/internal/project"

	"github.com/spf13/cobra"
)

func newPackageCommand(app *App) *cobra.Command {
	var output string

	packageCmd := &cobra.Command{
		Use:   "package",
		Short: "Build dependencies and write the handler archive",
		Long: `Install the dependencies from requirements.txt into build/ and zip them
together with the handler package.

The build strategy recorded at init time is used: containerized builds run pip
inside the runtime build image, local builds run pip on the host. The support
library source distribution must be present in the project root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd.Context(), app, output)
		},
	}

	packageCmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default is <project>/<type-name>.zip)")

	return packageCmd
}

func runPackage(ctx context.Context, app *App, output string) error {
	p, err := project.Load(app.projectDir())
	if err != nil {
		return app.fail(err, "load project", app.projectDir())
	}

	selector, closeEngines := app.builderSelector()
	defer closeEngines()

	pk := packager.New(selector,
		packager.WithSupportLibVersion(app.Settings().SupportLib.Version),
		packager.WithLogger(app.Logger()),
	)
	path, err := pk.PackageFile(ctx, p, output)
	if err != nil {
		return app.fail(err, "package resource provider", p.Root)
	}

	fmt.Fprintf(app.stdout, "%s Wrote %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}

// builderSelector resolves builders from configuration. The container engine is
// only looked up when the containerized strategy is requested. The returned func
// releases any engine that was opened.
func (a *App) builderSelector() (build.Selector, func()) {
	cfg := a.Settings()
	logger := a.Logger()
	opts := build.Options{SupportLibVersion: cfg.SupportLib.Version, Logger: logger}

	var engines []container.Engine
	selector := build.SelectorFunc(func(ctx context.Context, s build.Strategy) (build.Builder, error) {
		switch s {
		case build.StrategyContainerized:
			engine, err := a.Engines(ctx, container.EngineType(cfg.ContainerEngine), logger)
			if err != nil {
				return nil, &build.DownstreamBuildError{
					Strategy: build.StrategyContainerized,
					Message:  "container engine not available",
					Cause:    err,
				}
			}
			engines = append(engines, engine)
			return build.NewContainerBuilder(engine, build.ImageOptions{
				Repository: cfg.Build.ImageRepository,
				TagPrefix:  cfg.Build.ImageTagPrefix,
			}, opts), nil
		case build.StrategyLocal:
			return build.NewLocalBuilder(a.Runner, opts), nil
		default:
			return nil, fmt.Errorf("unsupported build strategy %s", s)
		}
	})

	return selector, func() {
		for _, engine := range engines {
			if closer, ok := engine.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					logger.Debug("failed to close container engine", "engine", engine.Name(), "error", err)
				}
			}
		}
	}
}
