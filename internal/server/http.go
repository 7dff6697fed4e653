package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/auth"
	"github.com/fluentora/backend/internal/catalog"
	"github.com/fluentora/backend/internal/config"
	"github.com/fluentora/backend/internal/dashboard"
	"github.com/fluentora/backend/internal/logging"
	"github.com/fluentora/backend/internal/messaging"
	"github.com/fluentora/backend/internal/quiz"
	ws "github.com/fluentora/backend/pkg/http/ws"
)

// WSUpgrader wraps the shared gorilla upgrader and hands out hub
// connections.
type WSUpgrader struct {
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewWSUpgrader builds the upgrader with origin checking against the CORS
// allow-list.
func NewWSUpgrader(cfg *config.App, logger zerolog.Logger) *WSUpgrader {
	return &WSUpgrader{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range cfg.CORS.AllowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
		logger: logger,
	}
}

// Upgrade performs the WebSocket upgrade.
func (u *WSUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (*ws.Connection, error) {
	conn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return ws.NewConnection(conn, u.logger), nil
}

// Handlers groups the per-domain HTTP handlers wired into the server.
type Handlers struct {
	Auth      *auth.HTTPHandlers
	Catalog   *catalog.Handler
	Quiz      *quiz.Handler
	Messaging *messaging.Handler
	Dashboard *dashboard.Handler
}

// NewHTTPServer wires all routes (health, metrics, API, WebSocket).
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redisClient *redis.Client, authSvc *auth.Service, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	authMW := auth.Middleware(authSvc, logger)
	authed := func(next http.HandlerFunc) http.Handler {
		return authMW(auth.RequireAuth(next))
	}
	teacherOnly := func(next http.HandlerFunc) http.Handler {
		return authMW(auth.RequireRole(auth.RoleTeacher)(next))
	}

	// Auth
	mux.HandleFunc("POST /v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.Auth.RefreshToken)
	mux.HandleFunc("GET /v1/oauth/{provider}/start", h.Auth.OAuthStart)
	mux.HandleFunc("GET /v1/oauth/{provider}/callback", h.Auth.OAuthCallback)
	mux.Handle("GET /v1/users/me", authed(h.Auth.GetMe))

	// Catalog
	mux.HandleFunc("GET /v1/courses", h.Catalog.ListCourses)
	mux.Handle("POST /v1/courses", teacherOnly(h.Catalog.CreateCourse))
	mux.HandleFunc("GET /v1/courses/{id}", h.Catalog.GetCourse)
	mux.Handle("POST /v1/courses/{id}/enroll", authed(h.Catalog.Enroll))
	mux.Handle("GET /v1/enrollments", authed(h.Catalog.ListEnrollments))

	// Quizzes + attempts
	mux.HandleFunc("GET /v1/courses/{id}/quizzes", h.Quiz.ListByCourse)
	mux.Handle("POST /v1/quizzes", teacherOnly(h.Quiz.CreateQuiz))
	mux.HandleFunc("GET /v1/quizzes/{id}", h.Quiz.GetQuiz)
	mux.Handle("POST /v1/quizzes/{id}/attempts", authed(h.Quiz.StartAttempt))
	mux.Handle("GET /v1/quizzes/{id}/attempts", authed(h.Quiz.ListAttempts))
	mux.Handle("POST /v1/attempts/{id}/submit", authed(h.Quiz.SubmitAttempt))

	// Messaging
	mux.Handle("GET /v1/conversations", authed(h.Messaging.ListConversations))
	mux.Handle("GET /v1/conversations/{peer}/messages", authed(h.Messaging.GetMessages))
	mux.Handle("POST /v1/conversations/{peer}/read", authed(h.Messaging.MarkRead))
	mux.Handle("POST /v1/messages", authed(h.Messaging.SendMessage))
	mux.HandleFunc("GET /ws/inbox", h.Messaging.HandleWebSocket)

	// Dashboard
	mux.Handle("GET /v1/dashboard/stats", teacherOnly(h.Dashboard.GetStats))

	handler := corsMiddleware(cfg.CORS)(requestLogger(logger)(mux))

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	return redisClient.Ping(ctx).Err()
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), logger)))
		})
	}
}

func corsMiddleware(cfg config.CORS) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
					break
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
