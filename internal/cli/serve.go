package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndewijer/portfolio-ledger/internal/api"
	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

type serveOptions struct {
	*rootOptions
	addr string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio API",
		Long: `Load the ledger and serve the portfolio views over HTTP.

The ledger is reloaded on REFRESH_SCHEDULE and revalued on REVALUE_SCHEDULE
(six-field cron specs, seconds first; "off" disables a job). Stop with
SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", root.cfg.Server.Addr, "Listen address")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := opts.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Serve even when the first load fails; views report 503 until a reload succeeds.
	if _, err := a.portfolio.Reload(ctx, a.source); err != nil {
		opts.log.Error().Err(err).Str("source", a.source.String()).Msg("Initial ledger load failed")
	}

	sched := scheduler.New(opts.log)
	if err := addJob(sched, opts.cfg.Scheduler.RefreshSchedule,
		scheduler.NewReloadJob(a.portfolio, a.source, scheduler.DefaultJobTimeout, opts.log)); err != nil {
		return err
	}
	if err := addJob(sched, opts.cfg.Scheduler.RevalueSchedule,
		scheduler.NewRevalueJob(a.portfolio, scheduler.DefaultJobTimeout, opts.log)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         opts.addr,
		Handler:      api.NewRouter(a.system, a.portfolio, a.source, opts.cfg, opts.log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		opts.log.Info().Str("addr", opts.addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	opts.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	opts.log.Info().Msg("Server exited")
	return nil
}

func addJob(s *scheduler.Scheduler, schedule string, job scheduler.Job) error {
	if schedule == "" || schedule == config.ScheduleOff {
		return nil
	}
	if err := s.AddJob(schedule, job); err != nil {
		return fmt.Errorf("schedule %s %q: %w", job.Name(), schedule, err)
	}
	return nil
}
