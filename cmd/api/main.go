package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carebridge/practice-api/internal/api"
	"github.com/carebridge/practice-api/internal/core/service"
	"github.com/carebridge/practice-api/internal/infrastructure/config"
	mongodb "github.com/carebridge/practice-api/internal/infrastructure/db/mongo"
	redisdb "github.com/carebridge/practice-api/internal/infrastructure/db/redis"
	"github.com/carebridge/practice-api/internal/infrastructure/notify"
	"github.com/carebridge/practice-api/internal/infrastructure/queue"
	"github.com/carebridge/practice-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load(slog.Default())

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	inviteRepo := mongodb.NewInviteRepository(db)
	practitionerRepo := mongodb.NewPractitionerRepository(db)
	requestRepo := mongodb.NewRequestRepository(db)
	applicationRepo := mongodb.NewApplicationRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"invites":       inviteRepo.EnsureIndexes,
		"practitioners": practitionerRepo.EnsureIndexes,
		"requests":      requestRepo.EnsureIndexes,
		"applications":  applicationRepo.EnsureIndexes,
		"users":         userRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("ensure indexes")
		}
	}

	// --- Services ---
	notifier := notify.NewService(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)

	inviteService := service.NewInviteService(inviteRepo, userRepo, notifier, cfg.BaseURL, log)
	selector := service.NewRotationSelector(practitionerRepo, log)
	requestService := service.NewRequestService(requestRepo, userRepo, selector, notifier, log)
	applicationService := service.NewApplicationService(
		applicationRepo,
		practitionerRepo,
		userRepo,
		inviteService,
		notifier,
		redisdb.NewApprovalDedup(rdb),
		cfg.OperatorEmail,
		log,
	)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Approval pipeline: change stream → dispatcher → workflow ---
	dispatcher := queue.NewDispatcher(0, applicationService, log)
	dispatcher.Start(ctx)

	watcher := mongodb.NewApplicationWatcher(db, dispatcher, log)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error().Err(err).Msg("application watcher stopped")
		}
	}()

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, api.Services{
		Auth:         authService,
		Invites:      inviteService,
		Requests:     requestService,
		Applications: applicationService,
	}, cfg.JWTSecret, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("practice api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
