package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/gopraise/internal/app"
)

type playFlags struct {
	silent bool
	dirs   []string
}

func newPlayCommand(opts *options) *cobra.Command {
	var flags playFlags

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the player",
		Long:  "Open the terminal player. This is also what gopraise does without a subcommand.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, opts, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.silent, "silent", false, "do not open the audio device")
	cmd.Flags().StringSliceVarP(&flags.dirs, "dir", "d", nil, "catalog directories (repeatable)")
	return cmd
}

func runPlay(cmd *cobra.Command, opts *options, flags playFlags) error {
	cfg := opts.appConfig()
	cfg.UseMockAudio = flags.silent
	if len(flags.dirs) > 0 {
		cfg.Directories = flags.dirs
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
