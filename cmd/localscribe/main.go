package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ashrafosman/localscribe/config"
	"github.com/ashrafosman/localscribe/internal/app"
	"github.com/ashrafosman/localscribe/internal/cli"
	"github.com/ashrafosman/localscribe/internal/output"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	defer application.Close()

	application.Janitor.Start()
	defer application.Janitor.Stop()

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
	}

	cmdErr := cli.NewRootCmd(deps).Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Meetings.Shutdown(ctx)

	return cmdErr
}
