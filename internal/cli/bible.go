package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/gopraise/internal/adapter/api"
)

func newBibleCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bible",
		Short: "Read scripture from the storage proxy",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "books",
			Short: "List the books of the Bible",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				client := api.NewClient(opts.settings.API.BaseURL)
				books, err := client.Books(contextOf(cmd))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, b := range books {
					fmt.Fprintf(out, "%2d  %s  %d chapters  %s\n", b.ID, b.Name, b.Chapters, b.File)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "read <file>",
			Short: "Print a scripture text file, e.g. 01-创世记.txt",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client := api.NewClient(opts.settings.API.BaseURL)
				text, err := client.FetchText(contextOf(cmd), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, text)
				if !strings.HasSuffix(text, "\n") {
					fmt.Fprintln(out)
				}
				return nil
			},
		},
	)
	return cmd
}
