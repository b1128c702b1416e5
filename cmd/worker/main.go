// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/carterperez-dev/courseware/internal/auth"
	"github.com/carterperez-dev/courseware/internal/config"
	"github.com/carterperez-dev/courseware/internal/core"
	"github.com/carterperez-dev/courseware/internal/notify"
	"github.com/carterperez-dev/courseware/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting worker",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("database close error", "error", closeErr)
		}
	}()

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redis.Close(); closeErr != nil {
			logger.Error("redis close error", "error", closeErr)
		}
	}()

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, redis.Client)

	mailer := notify.NewSMTPMailer(cfg.Email)

	handlers := notify.NewHandlers(
		mailer,
		userSvc,
		authSvc,
		cfg.Maintenance.InactiveAfter,
		logger,
	)

	mux := asynq.NewServeMux()
	handlers.Register(mux)

	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		return err
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Tasks.Concurrency,
		Queues: map[string]int{
			cfg.Tasks.Queue: 1,
		},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	entryID, err := scheduler.Register(
		cfg.Maintenance.Schedule,
		notify.NewDeactivateInactiveTask(),
		asynq.Queue(cfg.Tasks.Queue),
		asynq.MaxRetry(cfg.Tasks.MaxRetry),
	)
	if err != nil {
		return err
	}
	logger.Info("maintenance sweep scheduled",
		"entry_id", entryID,
		"schedule", cfg.Maintenance.Schedule,
	)

	if err := srv.Start(mux); err != nil {
		return err
	}

	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return err
	}

	logger.Info("worker started",
		"queue", cfg.Tasks.Queue,
		"concurrency", cfg.Tasks.Concurrency,
	)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	scheduler.Shutdown()
	srv.Shutdown()

	logger.Info("worker stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
