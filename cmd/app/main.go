package main

import (
	"brokerage/cmd"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "brokerage/internal/adapters/in/http"
	"brokerage/internal/adapters/out/postgres"
	"brokerage/internal/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("order desk stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs, err := getConfigs()
	if err != nil {
		return err
	}

	instruments, shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName:    configs.ServiceName,
		Environment:    configs.Environment,
		LogLevel:       telemetry.ParseLevel(configs.LogLevel),
		TracingEnabled: configs.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() { _ = shutdownTelemetry(context.Background()) }()
	logger := instruments.Logger

	gormDB, err := postgres.Connect(ctx, configs.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := postgres.Migrate(ctx, gormDB); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, instruments)

	feed := app.CreateChangeFeed()
	if err := feed.Start(ctx); err != nil {
		return fmt.Errorf("start change feed: %w", err)
	}
	defer func() { _ = feed.Close() }()

	jobManager := app.CreateJobManager(feed)
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs, logger)
}

func getConfigs() (cmd.Config, error) {
	if err := cmd.LoadDotEnv(".env"); err != nil {
		return cmd.Config{}, err
	}
	return cmd.LoadConfig(os.LookupEnv)
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) error {
	e, err := httpadapter.NewRouter(ctx, app.CreateHTTPServer(), logger)
	if err != nil {
		return err
	}
	e.Logger.SetLevel(cmd.EchoLogLevel(configs.EchoLogLevel))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("order desk listening", "port", configs.HTTPPort)
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Close websocket subscribers first so Shutdown does not wait on them.
	app.Hub().Reset()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
