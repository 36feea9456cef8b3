package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/backlogtmpl/internal/cli/formatter"
	"github.com/alexanderramin/backlogtmpl/internal/credential"
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var (
		fromConfig string
		verify     bool
	)

	cmd := &cobra.Command{
		Use:   "init [HOST]",
		Short: "Store the API key for a Backlog space in the system keychain",
		Long: `Store the API key for HOST (for example example.backlog.com) in the
system keychain. Any existing key for HOST is replaced only once the new one
has been entered (and verified, with --verify).

With --from-config, the key is read from a legacy backlog_template.toml
instead of being prompted for; HOST defaults to its SPACE_DOMAIN.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			host := ""
			if len(args) == 1 {
				host = args[0]
			}

			if fromConfig != "" {
				stored, err := app.Credentials.Import(cmd.Context(), fromConfig, host, verify)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.OK(fmt.Sprintf("Imported API key for %s from %s", formatter.Bold(stored), fromConfig)))
				fmt.Fprintln(out, formatter.Dim("The legacy file still contains the key; delete it once you no longer need it."))
				return nil
			}

			if host == "" {
				return errors.New("HOST is required unless --from-config is given")
			}
			acquire := func() (string, error) { return promptAPIKey(app, out, host) }
			if err := app.Credentials.Init(cmd.Context(), host, acquire, verify); err != nil {
				if errors.Is(err, errAborted) {
					fmt.Fprintln(out, "Aborted. The stored key was not changed.")
					return nil
				}
				return err
			}
			fmt.Fprintln(out, formatter.OK(fmt.Sprintf("Stored API key for %s", formatter.Bold(credential.NormalizeHost(host)))))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromConfig, "from-config", "", "import the key from a legacy backlog_template.toml")
	cmd.Flags().BoolVar(&verify, "verify", false, "check the key against the space before storing it")

	return cmd
}
