// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/rpdk/rpdk-python/internal/build"
	"github.com/rpdk/rpdk-python/internal/project"

	"github.com/spf13/cobra"
)

func newSettingsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the project settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(app.projectDir())
			if err != nil {
				return app.fail(err, "load project", app.projectDir())
			}

			key := CmdStyle.Render
			w := app.stdout
			fmt.Fprintln(w, TitleStyle.Render(p.TypeName))
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s: %s\n", key("root"), p.Root)
			fmt.Fprintf(w, "%s: %s (%s)\n", key("runtime"), p.Runtime.Identifier, p.Runtime.Name)
			fmt.Fprintf(w, "%s: %s\n", key("entrypoint"), p.Entrypoint)
			fmt.Fprintf(w, "%s: %s\n", key("test_entrypoint"), p.TestEntrypoint)
			fmt.Fprintf(w, "%s: %v\n", key("use_docker"), p.Settings.UseDocker)
			fmt.Fprintf(w, "%s: %s\n", key("build_strategy"), build.StrategyFor(p.Settings.UseDocker))
			fmt.Fprintf(w, "%s: %s\n", key("protocol_version"), p.Settings.ProtocolVersion)
			fmt.Fprintf(w, "%s: %s\n", key("archive"), p.ArchivePath())
			return nil
		},
	}
}
