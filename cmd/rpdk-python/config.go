// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rpdk/rpdk-python/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `rpdk-python config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage rpdk-python configuration",
		Long: `Manage rpdk-python configuration.

Configuration is stored in:
  - Linux: ~/.config/rpdk-python/config.cue
  - macOS: ~/Library/Application Support/rpdk-python/config.cue
  - Windows: %APPDATA%\rpdk-python\config.cue

Every key can be overridden with an RPDK_PYTHON_ environment variable, e.g.
RPDK_PYTHON_BUILD_IMAGE_REPOSITORY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(newConfigInitCommand(app))

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.Settings()))
			return nil
		},
	})

	return cfgCmd
}

func newConfigInitCommand(app *App) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Long: `Create the default configuration file. An existing file is kept unless
--force is given, in which case it is replaced with the defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			create := config.CreateDefaultConfig
			if force {
				create = func() (string, error) { return config.Save(config.DefaultConfig()) }
			}
			path, err := create()
			if err != nil {
				return app.fail(err, "create configuration", "")
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing configuration file with the defaults")

	return initCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	loaded, err := config.LoadWithPath(cmd.Context(), config.LoadOptions{ConfigFilePath: app.flags.configFile})
	if err != nil {
		return app.fail(err, "load configuration", app.flags.configFile)
	}

	out, err := config.ToTOML(loaded.Config)
	if err != nil {
		return err
	}

	source := SubtitleStyle.Render("(using defaults)")
	if loaded.Path != "" {
		source = loaded.Path
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintf(app.stdout, "%s: %s\n\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(app.stdout, out)
	return nil
}
