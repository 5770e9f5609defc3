package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ndewijer/portfolio-ledger/internal/cli"
	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/logging"
	"github.com/ndewijer/portfolio-ledger/internal/trace"
	"github.com/ndewijer/portfolio-ledger/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := trace.Init(cfg.Tracing.Enabled, version.Version); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := trace.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	if err := cli.NewRootCmd(cfg, log).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
