package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskdeck/taskdeck/internal/adapter/console"
	"github.com/taskdeck/taskdeck/internal/adapter/jsonfile"
	"github.com/taskdeck/taskdeck/internal/adapter/yamlfile"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/port"
	"github.com/taskdeck/taskdeck/internal/usecase/session"
	"github.com/taskdeck/taskdeck/internal/usecase/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskdeck: %v\n", err)
		return 1
	}
	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskdeck: %v\n", err)
		return 1
	}
	repo, err := openRepository(cfg.Storage)
	if err != nil {
		logger.Error("open snapshot store", "err", err)
		return 1
	}
	logger.Debug("config loaded", "storage", cfg.Storage.Path, "format", cfg.Storage.Format)

	dir, status, loadErr := store.LoadDirectory(ctx, repo, logger)
	ctrl := session.New(dir, repo, logger)
	ui := console.New(ctrl, os.Stdin, os.Stdout, logger)
	ui.ReportLoad(status, loadErr)
	ui.Run(ctx)
	return 0
}

func openRepository(cfg config.StorageConfig) (port.DirectoryRepository, error) {
	switch cfg.Format {
	case "yaml":
		return yamlfile.New(cfg.Path), nil
	case "json", "":
		return jsonfile.New(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage format %q", cfg.Format)
	}
}
