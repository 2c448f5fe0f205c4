// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rpdk/rpdk-python/internal/config"
	"github.com/rpdk/rpdk-python/internal/logging"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rpdk-python",
		Short: "Python language plugin for resource provider development",
		Long: TitleStyle.Render("rpdk-python") + SubtitleStyle.Render(" - Python language plugin for resource providers") + `

rpdk-python scaffolds Python handler projects for a resource type, generates
model classes from the resource schema and packages handlers together with
their dependencies into a deployable zip archive.

` + SubtitleStyle.Render("Examples:") + `
  rpdk-python init --type-name Org::Service::Resource
  rpdk-python generate
  rpdk-python package
  rpdk-python config show`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.configure(cmd.Context())
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/rpdk-python/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&app.flags.projectDir, "project-dir", "C", "", "project root directory (default is the current directory)")

	rootCmd.AddCommand(
		newInitCommand(app),
		newGenerateCommand(app),
		newPackageCommand(app),
		newSettingsCommand(app),
		newEventCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)

	return rootCmd
}

// configure loads configuration and builds the invocation logger. A broken config
// file is reported and defaults are used so that read-only commands keep working.
func (a *App) configure(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		if a.flags.configFile != "" {
			renderIssue(a.stderr, err, a.flags.verbose)
			return err
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.flags.verbose || cfg.UI.Verbose {
		level = "debug"
	}
	logger, err := logging.New(a.stderr, level)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}

// Run builds the production App, runs the CLI and returns the exit code.
func Run() int {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// fang overrides rootCmd.Version, so pass it through fang.WithVersion.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	return exitCodeFor(err)
}
