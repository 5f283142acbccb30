package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/podwatch/internal/activity"
	"github.com/creamcroissant/podwatch/internal/api"
	"github.com/creamcroissant/podwatch/internal/bootstrap"
	"github.com/creamcroissant/podwatch/internal/config"
	"github.com/creamcroissant/podwatch/internal/gossip"
	"github.com/creamcroissant/podwatch/internal/hub"
	"github.com/creamcroissant/podwatch/internal/job"
	"github.com/creamcroissant/podwatch/internal/migrations"
	"github.com/creamcroissant/podwatch/internal/repository/sqlite"
	"github.com/creamcroissant/podwatch/internal/snapshot"
	"github.com/creamcroissant/podwatch/internal/support/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the podwatch server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	bootTime := time.Now().UTC()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return err
	}
	store := sqlite.NewStore(db)

	snapshots := snapshot.NewStore(cfg.Gossip.SnapshotTTL)
	differ := activity.NewDiffer(snapshots)

	client := gossip.NewClient(gossip.Options{
		Endpoints:      cfg.Gossip.Endpoints,
		CreditsURL:     cfg.Gossip.CreditsURL,
		RequestTimeout: cfg.Gossip.RequestTimeout,
		Logger:         logger.With("component", "gossip"),
	})

	broadcaster := hub.New(logger.With("component", "hub"))
	go broadcaster.Run()

	scheduler := job.NewScheduler(logger.With("component", "scheduler"))
	pollJob := job.NewGossipPollJob(client, differ, snapshots, broadcaster, store, logger.With("job", "gossip.poll"))
	pollSpec := fmt.Sprintf("@every %s", cfg.Gossip.PollInterval)
	if _, err := scheduler.Register(pollSpec, pollJob); err != nil {
		return fmt.Errorf("register poll job: %w", err)
	}
	cleanupJob := job.NewActivityCleanupJob(store, cfg.Gossip.Retention, logger.With("job", "activity.cleanup"))
	if _, err := scheduler.Register("@hourly", cleanupJob); err != nil {
		return fmt.Errorf("register cleanup job: %w", err)
	}
	scheduler.Start()

	router := api.NewRouter(api.Options{
		Hub:          broadcaster,
		Snapshots:    snapshots,
		Store:        store,
		Logger:       logger,
		BootTime:     bootTime,
		Version:      Version,
		ClientBuffer: cfg.Hub.ClientBuffer,
	})
	server := bootstrap.NewHTTPServer(cfg.HTTP.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	<-scheduler.Stop().Done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
