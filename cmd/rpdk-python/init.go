// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rpdk/rpdk-python/internal/build"
	"github.com/rpdk/rpdk-python/internal/project"
	"github.com/rpdk/rpdk-python/internal/scaffold"

	"github.com/spf13/cobra"
)

type initFlags struct {
	typeName  string
	runtime   string
	useDocker bool
	noDocker  bool
}

func newInitCommand(app *App) *cobra.Command {
	var flags initFlags

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a Python resource provider project",
		Long: `Create the handler package, support files and settings for a resource type.

Existing files are never replaced; re-running init on an unchanged project is a
no-op. When neither --use-docker nor --no-docker is given you are asked whether
dependencies should be built inside a container.`,
		Example: `  rpdk-python init --type-name Org::Service::Resource
  rpdk-python init --type-name Org::Service::Resource --runtime python38 --no-docker`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, app, flags)
		},
	}

	initCmd.Flags().StringVarP(&flags.typeName, "type-name", "t", "", "resource type name (Org::Service::Resource)")
	initCmd.Flags().StringVar(&flags.runtime, "runtime", project.DefaultRuntimeName, "Python runtime (python36, python37, python38, python39)")
	initCmd.Flags().BoolVar(&flags.useDocker, "use-docker", false, "build dependencies inside a runtime container")
	initCmd.Flags().BoolVar(&flags.noDocker, "no-docker", false, "build dependencies on the host")
	initCmd.MarkFlagsMutuallyExclusive("use-docker", "no-docker")

	return initCmd
}

func runInit(cmd *cobra.Command, app *App, flags initFlags) error {
	ctx := cmd.Context()
	dir := app.projectDir()

	p, err := resolveInitProject(dir, flags)
	if err != nil {
		return app.fail(err, "initialize project", dir)
	}
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return app.fail(err, "initialize project", p.Root)
	}

	var opts scaffold.InitOptions
	if flags.useDocker || flags.noDocker {
		useDocker := flags.useDocker
		opts.UseDocker = &useDocker
	}

	gen := scaffold.New(
		scaffold.WithPrompter(app.Prompter),
		scaffold.WithSupportLibVersion(app.Settings().SupportLib.Version),
		scaffold.WithLogger(app.Logger()),
	)
	if err := gen.Init(ctx, p, opts); err != nil {
		return app.fail(err, "initialize project", p.Root)
	}
	if err := gen.Generate(ctx, p); err != nil {
		return app.fail(err, "generate models", p.SchemaPath())
	}

	fmt.Fprintf(app.stdout, "%s Initialized %s in %s (%s build)\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(p.TypeName), p.Root, build.StrategyFor(p.Settings.UseDocker))
	return nil
}

// resolveInitProject creates a new project from flags, or loads the existing one
// when no type name is given.
func resolveInitProject(dir string, flags initFlags) (*project.Project, error) {
	if flags.typeName == "" {
		p, err := project.Load(dir)
		if errors.Is(err, project.ErrProjectNotFound) {
			return nil, errors.New("--type-name is required for a new project")
		}
		return p, err
	}

	rt, err := project.LookupRuntime(flags.runtime)
	if err != nil {
		return nil, err
	}
	return project.New(dir, flags.typeName, rt)
}
