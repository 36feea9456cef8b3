package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/backlogtmpl/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and terminal plumbing used by CLI commands.
type App struct {
	Posts       *service.PostService
	Doctor      *service.DoctorService
	Credentials *service.CredentialService

	// In is read for confirmations and keys when not interactive.
	In io.Reader
	// IsInteractive reports whether huh prompts can be shown.
	IsInteractive func() bool
	// LogLevel is lowered to debug by --verbose.
	LogLevel *slog.LevelVar
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) input() io.Reader {
	if a.In == nil {
		return os.Stdin
	}
	return a.In
}

// NewRootCmd creates the top-level "backlogtmpl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "backlogtmpl",
		Short:         "Create Backlog issues in bulk from a TOML template",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose && app.LogLevel != nil {
				app.LogLevel.Set(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every API call to stderr")

	root.AddCommand(
		newInitCmd(app),
		newForgetCmd(app),
		newDoctorCmd(app),
		newPostCmd(app),
	)

	return root
}
