package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nteract/mythic-rtc/pkg/api"
)

const (
	// время на отправку одного сообщения
	writeWait = 10 * time.Second

	// время ожидания запроса подписки после открытия сокета
	requestWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// SubscribeHandler обслуживает подписки cellOrder и cellSource поверх websocket.
// Первое сообщение клиента: api.SubscribeRequest; дальше сервер только пишет.
type SubscribeHandler struct {
	logger   *slog.Logger
	executor Executor
	upgrader websocket.Upgrader
}

// NewSubscribeHandler создает новый handler подписок
func NewSubscribeHandler(logger *slog.Logger, executor Executor) *SubscribeHandler {
	return &SubscribeHandler{
		logger:   logger,
		executor: executor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Subscribe обрабатывает GET /api/v1/subscribe
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("Failed to upgrade websocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxRequestSize)
	_ = conn.SetReadDeadline(time.Now().Add(requestWait))

	var req api.SubscribeRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.logger.Warn("Failed to read subscription request", "error", err)
		return
	}

	sub, err := h.executor.Subscribe(r.Context(), req.Operation, req.Variables)
	if err != nil {
		h.logger.Warn("Subscription rejected", "operation", req.Operation, "error", err)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(errorResult(req.Operation, err))
		return
	}
	defer h.executor.Unsubscribe(sub)

	h.logger.Debug("Subscription opened", "operation", req.Operation)

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("Failed to write subscription event", "operation", req.Operation, "error", err)
				return
			}
		case <-sub.Done():
			// подписчик отстал и был отключен hub
			msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber too slow")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			h.logger.Debug("Subscription closed by client", "operation", req.Operation)
			return
		case <-r.Context().Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

// readLoop обрабатывает pong и close от клиента; прочие сообщения игнорируются
func (h *SubscribeHandler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
