package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/backlogtmpl/internal/cli/formatter"
	"github.com/alexanderramin/backlogtmpl/internal/credential"
	"github.com/spf13/cobra"
)

func newForgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forget HOST",
		Short: "Remove the stored API key for a Backlog space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			host := credential.NormalizeHost(args[0])
			err := app.Credentials.Forget(host)
			if errors.Is(err, credential.ErrNotFound) {
				fmt.Fprintln(out, formatter.Warn(fmt.Sprintf("No API key stored for %s", host)))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.OK(fmt.Sprintf("Removed API key for %s", formatter.Bold(host))))
			return nil
		},
	}
}
