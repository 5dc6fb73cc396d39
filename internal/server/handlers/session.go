package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nteract/mythic-rtc/internal/server/jwt"
	"github.com/nteract/mythic-rtc/internal/validation"
	"github.com/nteract/mythic-rtc/pkg/api"
)

// SessionHandler открывает сессии совместного редактирования
type SessionHandler struct {
	logger *slog.Logger
	tokens *jwt.Service
}

// NewSessionHandler создает новый handler сессий
func NewSessionHandler(logger *slog.Logger, tokens *jwt.Service) *SessionHandler {
	return &SessionHandler{
		logger: logger,
		tokens: tokens,
	}
}

// Create обрабатывает POST /api/v1/sessions.
// Возвращает токен сессии, привязанный к пути ноутбука.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(h.logger, w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req api.SessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode session request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateFilePath(req.FilePath); err != nil {
		h.logger.Warn("Invalid file path", "file_path", req.FilePath, "error", err)
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	token, claims, err := h.tokens.Issue(req.FilePath)
	if err != nil {
		h.logger.Error("Failed to issue session token", "error", err)
		sendError(h.logger, w, "failed to open session", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Session opened", "session_id", claims.ID, "file_path", req.FilePath)

	sendJSON(h.logger, w, api.SessionResponse{
		SessionToken: token,
		FilePath:     req.FilePath,
		ExpiresIn:    int64(h.tokens.TTL().Seconds()),
	}, http.StatusCreated)
}
