package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mentora-backend/internal/middleware"
	"mentora-backend/internal/models"
)

type chatRelayer interface {
	Relay(ctx context.Context, req models.ChatRequest) (string, error)
	History(ctx context.Context, userID string, limit int) ([]*models.ChatHistory, error)
}

type ChatHandler struct {
	chatService chatRelayer
}

func NewChatHandler(chatService chatRelayer) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles POST /chat: one completion call, one history row, the reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if !h.authorized(r, req.UserID) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	reply, err := h.chatService.Relay(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// History handles GET /chat/history/{user_id}.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	if !h.authorized(r, userID) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "limit must be a positive integer", r))
			return
		}
		limit = n
	}

	history, err := h.chatService.History(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatHistoryResponse{History: history})
}

// authorized is true when auth is disabled or the token subject owns userID.
func (h *ChatHandler) authorized(r *http.Request, userID string) bool {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		return true
	}
	return subject == userID
}
