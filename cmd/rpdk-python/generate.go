// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rpdk/rpdk-python/internal/project"
	"github.com/rpdk/rpdk-python/internal/scaffold"

	"github.com/spf13/cobra"
)

func newGenerateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate model classes from the resource schema",
		Long: `Regenerate src/<package>/models.py from the resource schema.

The models file is always overwritten; edit the schema, not the generated code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(app.projectDir())
			if err != nil {
				return app.fail(err, "load project", app.projectDir())
			}

			gen := scaffold.New(scaffold.WithLogger(app.Logger()))
			if err := gen.Generate(cmd.Context(), p); err != nil {
				return app.fail(err, "generate models", p.SchemaPath())
			}

			fmt.Fprintf(app.stdout, "%s Generated %s\n",
				SuccessStyle.Render("✓"), CmdStyle.Render(filepath.Join(p.HandlerDir(), "models.py")))
			return nil
		},
	}
}
