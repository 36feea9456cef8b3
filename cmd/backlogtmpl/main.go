package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alexanderramin/backlogtmpl/internal/backlog"
	"github.com/alexanderramin/backlogtmpl/internal/cli"
	"github.com/alexanderramin/backlogtmpl/internal/credential"
	"github.com/alexanderramin/backlogtmpl/internal/service"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env in the working directory may set BACKLOGTMPL_* variables.
	// Variables already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := backlog.LoadConfig()

	level := new(slog.LevelVar)
	level.Set(service.ParseLevel(os.Getenv("BACKLOGTMPL_LOG_LEVEL")))
	if cfg.LogCalls {
		level.Set(slog.LevelDebug)
	}
	logger, _ := service.NewRunLogger(os.Stderr, level)

	observer := backlog.NewLogObserver(logger)
	store := credential.NewKeyring(credential.ServiceName)
	connector := service.KeychainConnector{Config: cfg, Store: store, Observer: observer}

	app := &cli.App{
		Posts:       service.NewPostService(connector, logger, service.NewLogUseCaseObserver(logger)),
		Doctor:      service.NewDoctorService(connector),
		Credentials: service.NewCredentialService(store, cfg, observer),
		In:          os.Stdin,
		LogLevel:    level,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
