// Package server собирает reference backend совместной работы:
// хранилище ноутбуков, hub подписок, resolvers и HTTP/websocket транспорт.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/nteract/mythic-rtc/internal/server/handlers"
	"github.com/nteract/mythic-rtc/internal/server/hub"
	"github.com/nteract/mythic-rtc/internal/server/jwt"
	"github.com/nteract/mythic-rtc/internal/server/metrics"
	"github.com/nteract/mythic-rtc/internal/server/middleware"
	"github.com/nteract/mythic-rtc/internal/server/service"
	"github.com/nteract/mythic-rtc/internal/server/storage/sqlite"
)

const defaultShutdownTimeout = 10 * time.Second

// Config параметры backend
type Config struct {
	Addr             string
	DBPath           string
	JWTSecret        string
	Version          string
	SessionTTL       time.Duration
	ShutdownTimeout  time.Duration
	RateWindow       time.Duration
	SessionRateLimit int
	RateLimit        int
	SubscriberBuffer int
}

// Server HTTP сервер backend вместе с его хранилищем
type Server struct {
	httpServer *http.Server
	storage    *sqlite.Storage
	logger     *slog.Logger
	shutdown   time.Duration
}

// New открывает хранилище и собирает роутер
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}

	st, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	bufferSize := cfg.SubscriberBuffer
	if bufferSize <= 0 {
		bufferSize = hub.DefaultBufferSize
	}
	h := hub.New(bufferSize, m, logger)
	svc := service.New(st, h, m, logger)
	tokens := jwt.NewService(cfg.JWTSecret, cfg.SessionTTL)

	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}

	// Контекст запросов отменяется при остановке: подписки на websocket
	// не отслеживаются Shutdown и завершаются по нему
	baseCtx, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, st, svc, tokens, reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	httpServer.RegisterOnShutdown(cancelBase)

	return &Server{
		httpServer: httpServer,
		storage:    st,
		logger:     logger,
		shutdown:   shutdown,
	}, nil
}

// NewRouter регистрирует маршруты API и оборачивает их middleware
func NewRouter(cfg Config, db handlers.Pinger, executor handlers.Executor, tokens *jwt.Service, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	sessionHandler := handlers.NewSessionHandler(logger, tokens)
	executeHandler := handlers.NewExecuteHandler(logger, executor)
	subscribeHandler := handlers.NewSubscribeHandler(logger, executor)
	healthHandler := handlers.NewHealthHandler(logger, db, cfg.Version)
	auth := middleware.AuthMiddleware(logger, tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", sessionHandler.Create)
	mux.Handle("POST /api/v1/execute", auth(http.HandlerFunc(executeHandler.Execute)))
	mux.Handle("GET /api/v1/subscribe", auth(http.HandlerFunc(subscribeHandler.Subscribe)))
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		limits := []middleware.PathRateLimit{}
		if cfg.SessionRateLimit > 0 {
			limits = append(limits, middleware.PathRateLimit{
				Path:   "/api/v1/sessions",
				Rate:   cfg.SessionRateLimit,
				Window: cfg.RateWindow,
			})
		}
		handler = middleware.RateLimitByPathMiddleware(limits, cfg.RateLimit, cfg.RateWindow, logger)(handler)
	}
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health", "/metrics"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		_ = s.storage.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve как Run, но на уже открытом listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdown)
		defer cancel()

		s.logger.Info("Shutting down server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			_ = s.httpServer.Close()
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.storage.Close(); closeErr != nil {
		s.logger.Error("Failed to close storage", "error", closeErr)
	}
	return err
}
