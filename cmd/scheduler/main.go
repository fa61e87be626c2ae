// Command scheduler runs the Orbita scheduling engine: an HTTP API
// plus the same CLI surface, both backed by one wired container.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/api"
	"github.com/felixgeelhaar/orbita/adapter/cli"
	cliEnergy "github.com/felixgeelhaar/orbita/adapter/cli/energy"
	cliSchedule "github.com/felixgeelhaar/orbita/adapter/cli/schedule"
	cliTask "github.com/felixgeelhaar/orbita/adapter/cli/task"
	"github.com/felixgeelhaar/orbita/internal/app"
	"github.com/felixgeelhaar/orbita/pkg/config"
	"github.com/felixgeelhaar/orbita/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config, using development mode:", err)
		cfg = &config.Config{AppEnv: "development", DefaultTimezone: "UTC"}
	}

	logLevel := observability.LogLevelInfo
	if cfg.IsDevelopment() {
		logLevel = observability.LogLevelDebug
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:          logLevel,
		Format:         observability.LogFormatJSON,
		Output:         os.Stderr,
		ServiceName:    "orbita-scheduler",
		ServiceVersion: "dev",
	})
	cli.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	var container *app.Container
	if cfg.IsLocalMode() {
		logger.Info("starting in local mode with SQLite", "database", cfg.SQLitePath)
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		container, err = app.NewContainer(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.OutboxProcessorEnabled && container.OutboxProcessor != nil {
		go func() {
			if err := container.OutboxProcessor.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("outbox processor stopped", "error", err)
			}
		}()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid ORBITA_USER_ID", "error", err)
		os.Exit(1)
	}

	cliApp := cli.NewApp(container.Handlers, container.Energy)
	cliApp.SetCurrentUserID(userID)
	cli.SetApp(cliApp)

	cli.AddCommand(cliTask.Cmd)
	cli.AddCommand(cliSchedule.Cmd)
	cli.AddCommand(cliEnergy.Cmd)

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve(ctx, cfg, container, userID, logger)
		return
	}

	cli.Execute()
}

func serve(ctx context.Context, cfg *config.Config, container *app.Container, userID uuid.UUID, logger *slog.Logger) {
	server := api.NewServer(api.ServerConfig{
		Addr:            cfg.ServerAddr,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		AuthSecret:      cfg.AuthSecret,
		FallbackOwnerID: userID,
	}, container.Handlers, container.Energy, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
