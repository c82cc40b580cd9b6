package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/gopraise/internal/app"
	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

func newListCommand(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "Print a directory the way the player shows it",
		Long: `Print the songs of a catalog directory after the saved chorus filter, search
and order are applied. With --all the saved preferences are ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.appConfig()
			cfg.Headless = true
			cfg.UseMockAudio = true
			if opts.logLevel == "" {
				cfg.LogOutput = io.Discard
			}
			if len(args) == 1 {
				cfg.Directories = []string{args[0]}
			}

			application, err := app.NewApplication(cfg)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			if err := application.Start(contextOf(cmd)); err != nil {
				return err
			}

			catalog, prefs, playback, _ := application.GetServices()
			items := playback.VisibleList()
			if all {
				items = domain.Recompute(catalog.Items(), domain.DefaultListQuery(), nil)
			}

			out := cmd.OutOrStdout()
			for i, item := range items {
				fmt.Fprintf(out, "%4d  %s\n", i+1, item.Name)
			}
			if !all {
				q := prefs.Query()
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d shown (filter: %s, search: %q, reversed: %t)\n",
					len(items), len(catalog.Items()), q.Filter.Label(), q.Search, q.Reversed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "ignore the saved filter, search and order")
	return cmd
}
