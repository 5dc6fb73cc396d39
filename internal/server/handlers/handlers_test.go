package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nteract/mythic-rtc/internal/server/hub"
	"github.com/nteract/mythic-rtc/internal/server/jwt"
	"github.com/nteract/mythic-rtc/internal/server/metrics"
	"github.com/nteract/mythic-rtc/internal/server/middleware"
	"github.com/nteract/mythic-rtc/internal/server/service"
	"github.com/nteract/mythic-rtc/internal/server/storage/sqlite"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testBackend struct {
	server *httptest.Server
	tokens *jwt.Service
	hub    *hub.Hub
}

// setupBackend поднимает handlers поверх настоящего service и sqlite в памяти
func setupBackend(t *testing.T, subscriberBuffer int) *testBackend {
	t.Helper()
	logger := setupTestLogger()

	st, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)

	m := metrics.New(nil)
	h := hub.New(subscriberBuffer, m, logger)
	svc := service.New(st, h, m, logger)
	tokens := jwt.NewService("test-secret-key", time.Hour)
	auth := middleware.AuthMiddleware(logger, tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/sessions", NewSessionHandler(logger, tokens).Create)
	mux.Handle("/api/v1/execute", auth(http.HandlerFunc(NewExecuteHandler(logger, svc).Execute)))
	mux.Handle("/api/v1/subscribe", auth(http.HandlerFunc(NewSubscribeHandler(logger, svc).Subscribe)))

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
	})

	return &testBackend{server: srv, tokens: tokens, hub: h}
}
