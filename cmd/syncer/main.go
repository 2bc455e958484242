package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"timetable_syncer/internal/config"
	"timetable_syncer/internal/fetcher"
	"timetable_syncer/internal/publisher"
	"timetable_syncer/internal/scheduler"
	"timetable_syncer/internal/service"
	"timetable_syncer/internal/source/polessu"
	"timetable_syncer/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single sync cycle and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *once, logger); err != nil {
		logger.Error("syncer stopped with error", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, once bool, logger *slog.Logger) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	loc := cfg.Source.Location()

	client := fetcher.New(fetcher.Config{
		Timeout:           cfg.Source.Timeout,
		MaxAttempts:       cfg.Source.Retry.MaxAttempts,
		Delay:             cfg.Source.Retry.Delay,
		RequestsPerSecond: cfg.Source.RequestsPerSecond,
		UserAgent:         cfg.Source.UserAgent,
	}, logger)

	source := polessu.New(client, polessu.Config{
		BaseURL:        cfg.Source.BaseURL,
		SecondTermPath: cfg.Source.SecondTermPath,
		GroupPages:     cfg.Source.GroupPages,
		Location:       loc,
	}, logger)

	syncService := service.NewSyncService(
		source,
		postgres.NewLessonStore(db),
		postgres.NewWatermarkStore(db),
		postgres.NewTransactionManager(db),
		pub,
		logger,
		cfg.Sync,
	)

	sched, err := scheduler.NewScheduler(syncService, scheduler.Config{
		Schedule: cfg.Sync.Schedule,
		Timeout:  cfg.Sync.CycleTimeout,
		Location: loc,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("starting timetable syncer",
		"source", source.Name(),
		"base_url", cfg.Source.BaseURL,
		"schedule", cfg.Sync.Schedule,
		"once", once,
		"publish", cfg.RabbitMQ.Enabled,
	)

	if once {
		_, err := sched.RunOnce(ctx)
		return err
	}

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
