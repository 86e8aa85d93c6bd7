// cmd/backup/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/semmidev/archivist/internal/app"
	"github.com/semmidev/archivist/internal/config"
	"github.com/semmidev/archivist/internal/domain"
)

const (
	exitFailure       = 1
	exitConfiguration = 2
	exitDataSource    = 3
	exitArchiveIO     = 4
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single backup even if a schedule is configured")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *once {
		cfg.Backup.Schedule = ""
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return application.Run(ctx)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return exitConfiguration
	case errors.Is(err, domain.ErrDataSource):
		return exitDataSource
	case errors.Is(err, domain.ErrArchiveIO):
		return exitArchiveIO
	default:
		return exitFailure
	}
}
