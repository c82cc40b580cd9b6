// Package cli holds the gopraise command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/gopraise/internal/app"
	"github.com/tejashwikalptaru/gopraise/internal/config"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	apiBase    string

	settings config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "gopraise",
		Short:         "Terminal player for a worship song library",
		Long:          "gopraise plays songs listed by a praise storage proxy, and can run that proxy itself.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts, playFlags{})
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.apiBase, "api", "", "storage proxy base URL")

	root.AddCommand(
		newPlayCommand(opts),
		newServeCommand(opts),
		newListCommand(opts),
		newBibleCommand(opts),
		newVersionCommand(),
	)
	return root
}

func (o *options) load() error {
	settings, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", o.configPath, err)
	}
	if o.logLevel != "" {
		settings.Log.Level = o.logLevel
	}
	if o.apiBase != "" {
		settings.API.BaseURL = o.apiBase
	}
	o.settings = settings
	return nil
}

// appConfig returns the application configuration for the loaded settings.
func (o *options) appConfig() app.Config {
	return app.FromSettings(o.settings)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gopraise:", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config loading for version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.CurrentBuild())
		},
	}
}
