package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/auth"
	"github.com/fluentora/backend/internal/auth/jwt"
	"github.com/fluentora/backend/internal/catalog"
	"github.com/fluentora/backend/internal/config"
	"github.com/fluentora/backend/internal/dashboard"
	"github.com/fluentora/backend/internal/db/repository"
	"github.com/fluentora/backend/internal/logging"
	"github.com/fluentora/backend/internal/messaging"
	"github.com/fluentora/backend/internal/quiz"
	"github.com/fluentora/backend/internal/server"
	ws "github.com/fluentora/backend/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	notifier  *messaging.Notifier
	bgCancels []context.CancelFunc
}

// New bootstraps config, logger, Postgres, Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password,
		cfg.Postgres.Database, cfg.Postgres.SSLMode, cfg.Postgres.MaxConns)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	authSvc := auth.NewService(userRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte(cfg.Security.JWTSecret),
			RefreshSecret: []byte(cfg.Security.JWTSecret + "_refresh"),
			Issuer:        cfg.Name,
		},
	}, logger)

	var oauthSvc *auth.OAuthService
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		redirectURL := cfg.OAuth.GoogleRedirectURL
		if redirectURL == "" {
			redirectURL = fmt.Sprintf("http://%s/v1/oauth/google/callback", cfg.HTTPAddr)
		}
		oauthSvc = auth.NewOAuthService(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			redirectURL,
			logger,
		)
		logger.Info().Msg("oauth service initialized")
	} else {
		logger.Warn().Msg("oauth not configured; social login disabled")
	}

	quizCache := quiz.NewCache(redisClient, cfg.Quiz.DefinitionCacheTTL)
	quizSvc := quiz.NewService(quizRepo, quizCache, quiz.Defaults{
		TimeLimit:    cfg.Quiz.DefaultTimeLimit,
		PassingScore: cfg.Quiz.DefaultPassingScore,
	}, logger)
	catalogSvc := catalog.NewService(courseRepo, logger)

	publisher := messaging.NewRedisPublisher(redisClient, cfg.Messaging.EventChannel)
	messagingSvc := messaging.NewService(messageRepo, publisher, logger)

	dashboardSvc := dashboard.NewService(dashboard.RepoCounters{
		Users:    userRepo,
		Courses:  courseRepo,
		Quizzes:  quizRepo,
		Messages: messageRepo,
	}, logger)

	hub := ws.NewHub(logger)
	upgrader := server.NewWSUpgrader(cfg, logger)
	notifier := messaging.NewNotifier(redisClient, hub, cfg.Messaging.EventChannel, logger)

	handlers := server.Handlers{
		Auth:      auth.NewHTTPHandlers(authSvc, oauthSvc, logger),
		Catalog:   catalog.NewHandler(catalogSvc, logger),
		Quiz:      quiz.NewHandler(quizSvc, logger),
		Messaging: messaging.NewHandler(messagingSvc, hub, authSvc, upgrader, logger),
		Dashboard: dashboard.NewHandler(dashboardSvc, logger),
	}

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, authSvc, handlers)

	return &Application{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		redis:     redisClient,
		http:      apiServer,
		notifier:  notifier,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.notifier != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.notifier.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("message notifier stopped")
			}
		}()
	}
}
