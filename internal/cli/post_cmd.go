package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/backlogtmpl/internal/cli/formatter"
	"github.com/alexanderramin/backlogtmpl/internal/service"
	"github.com/alexanderramin/backlogtmpl/internal/template"
	"github.com/spf13/cobra"
)

func newPostCmd(app *App) *cobra.Command {
	var (
		baseDate string
		vars     map[string]string
		yes      bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "post TEMPLATE",
		Short: "Resolve a template and create its issues",
		Long: `Load TEMPLATE, fetch the target project's metadata, and resolve every
issue (dates, {placeholders}, names). Nothing is posted unless every issue
resolves. The resolved plan is shown and confirmed before posting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			opts := service.PostOptions{TemplatePath: args[0], Vars: vars}
			if baseDate != "" {
				d, err := parseBaseDate(baseDate)
				if err != nil {
					return err
				}
				opts.BaseDate = d
			}

			plan, err := app.Posts.Prepare(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Fprint(out, formatter.FormatPlan(formatter.PlanData{
				Host:       plan.Host,
				ProjectKey: plan.ProjectKey,
				BaseDate:   plan.BaseDate,
				Vars:       plan.Vars,
				Groups:     plan.Groups,
			}))
			fmt.Fprintln(out)

			if dryRun {
				fmt.Fprintln(out, formatter.Dim("Dry run: nothing was posted."))
				return nil
			}

			if !yes {
				ok, err := confirm(app, out, fmt.Sprintf("Post %d issues to %s/%s?", plan.IssueCount(), plan.Host, plan.ProjectKey))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted. Nothing was posted.")
					return nil
				}
			}

			report, err := app.Posts.Execute(cmd.Context(), plan)
			fmt.Fprint(out, formatter.FormatReport(report))
			return err
		},
	}

	cmd.Flags().StringVar(&baseDate, "base-date", "", "override config.baseDate (YYYY-MM-DD or \"today\")")
	cmd.Flags().StringToStringVar(&vars, "var", nil, "override a config.vars entry (key=value, repeatable)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "post without asking for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and show the plan without posting")

	return cmd
}

func parseBaseDate(s string) (template.Date, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return template.Today(), nil
	}
	d, err := template.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return template.Date{}, fmt.Errorf("--base-date: %w", err)
	}
	return d, nil
}
