package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api"
	"github.com/Adedunmol/stresspulse/api/auth"
	mail "github.com/Adedunmol/stresspulse/api/email"
	"github.com/Adedunmol/stresspulse/api/tokens"
	"github.com/Adedunmol/stresspulse/database"
	"github.com/Adedunmol/stresspulse/queue"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the notification worker",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	cfg, log := e.cfg, e.log

	if err := migrateUp(e); err != nil {
		return err
	}

	if cfg.SeedAdmin.Enabled() {
		seed := cfg.SeedAdmin
		body := auth.SeedAdminBody{Name: seed.Name, Email: seed.Email, Password: seed.Password}
		if err := seedAdmin(ctx, e, body); err != nil {
			return err
		}
	}

	tokenService, err := tokens.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		return err
	}

	deps := api.Deps{
		Config:  cfg,
		Pool:    e.pool,
		Queries: database.New(e.pool),
		Queue:   queue.NopQueue{Log: log},
		Tokens:  tokenService,
		Log:     log,
	}

	var worker *queue.Worker
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("error parsing redis url: %w", err)
		}
		deps.Redis = redis.NewClient(opts)
		defer deps.Redis.Close()

		client, err := queue.NewClient(cfg.RedisURL, log)
		if err != nil {
			return fmt.Errorf("error creating new queue client: %w", err)
		}
		defer client.Close()
		deps.Queue = client

		if cfg.Mail.Enabled() {
			worker, err = queue.NewWorker(cfg.RedisURL, mail.NewMailer(cfg.Mail), log)
			if err != nil {
				return err
			}
			if err := worker.Start(); err != nil {
				return err
			}
		}
	} else {
		log.Warn("REDIS_URL not set, rate limits are per process and notifications are disabled")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Routes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting web server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("error starting web server on port %s: %w", cfg.Port, err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")

	// gracefully shutdown the server after 30 seconds
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shut down: %w", err)
	}
	if worker != nil {
		worker.Shutdown()
	}

	log.Info("server exited properly")
	return nil
}
