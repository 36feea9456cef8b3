package cli

import (
	"fmt"

	"github.com/alexanderramin/backlogtmpl/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "doctor HOST",
		Short: "Check the stored credential and, optionally, a project's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Doctor.Check(cmd.Context(), args[0], project)
			if report != nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDoctor(report.Host, report.Space, report.Metadata))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "also fetch metadata for this project key")

	return cmd
}
