package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentora-backend/internal/middleware"
	"mentora-backend/internal/models"
	"mentora-backend/internal/services"
)

type stubChatService struct {
	reply    string
	err      error
	relayed  []models.ChatRequest
	history  []*models.ChatHistory
	lastUser string
	limit    int
}

func (s *stubChatService) Relay(ctx context.Context, req models.ChatRequest) (string, error) {
	s.relayed = append(s.relayed, req)
	return s.reply, s.err
}

func (s *stubChatService) History(ctx context.Context, userID string, limit int) ([]*models.ChatHistory, error) {
	s.lastUser = userID
	s.limit = limit
	return s.history, s.err
}

func postChat(ctx context.Context, h *ChatHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

func TestChatHandler_Chat_ReturnsReply(t *testing.T) {
	svc := &stubChatService{reply: "A Dockerfile describes an image."}
	h := NewChatHandler(svc)

	rr := postChat(context.Background(), h, `{"user_id":"user-1","message":"What is a Dockerfile?"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp models.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "A Dockerfile describes an image.", resp.Reply)

	require.Len(t, svc.relayed, 1)
	assert.Equal(t, models.ChatRequest{UserID: "user-1", Message: "What is a Dockerfile?"}, svc.relayed[0])
}

func TestChatHandler_Chat_InvalidBody(t *testing.T) {
	svc := &stubChatService{}
	h := NewChatHandler(svc)

	rr := postChat(context.Background(), h, `{"user_id":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "req-123", apiErr.RequestID)
	assert.Empty(t, svc.relayed)
}

func TestChatHandler_Chat_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"user_id": "User ID is required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"upstream", &services.UpstreamError{Provider: "openai", Err: errors.New("500")}, http.StatusInternalServerError, "AI_ERROR"},
		{"upstream timeout", &services.UpstreamError{Provider: "openai", Err: context.DeadlineExceeded}, http.StatusInternalServerError, "AI_ERROR"},
		{"storage", &services.StorageError{Err: errors.New("insert failed")}, http.StatusInternalServerError, "STORAGE_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewChatHandler(&stubChatService{err: tc.err})

			rr := postChat(context.Background(), h, `{"user_id":"user-1","message":"hi"}`)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantCode, decodeError(t, rr).Code)
		})
	}
}

func TestChatHandler_Chat_SubjectMustMatchUser(t *testing.T) {
	svc := &stubChatService{reply: "hello"}
	h := NewChatHandler(svc)

	ctx := context.WithValue(context.Background(), middleware.SubjectKey, "someone-else")
	rr := postChat(ctx, h, `{"user_id":"user-1","message":"hi"}`)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, svc.relayed)

	ctx = context.WithValue(context.Background(), middleware.SubjectKey, "user-1")
	rr = postChat(ctx, h, `{"user_id":"user-1","message":"hi"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, svc.relayed, 1)
}

func getHistory(h *ChatHandler, userID, query string) *httptest.ResponseRecorder {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("user_id", userID)

	req := httptest.NewRequest(http.MethodGet, "/chat/history/"+userID+query, nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.History(rr, req)
	return rr
}

func TestChatHandler_History(t *testing.T) {
	svc := &stubChatService{history: []*models.ChatHistory{
		{ID: "2", UserID: "user-1", Message: "second", Reply: "b"},
		{ID: "1", UserID: "user-1", Message: "first", Reply: "a"},
	}}
	h := NewChatHandler(svc)

	rr := getHistory(h, "user-1", "?limit=2")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", svc.lastUser)
	assert.Equal(t, 2, svc.limit)

	var resp models.ChatHistoryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.History, 2)
	assert.Equal(t, "second", resp.History[0].Message)
}

func TestChatHandler_History_InvalidLimit(t *testing.T) {
	for _, q := range []string{"?limit=abc", "?limit=0", "?limit=-4"} {
		t.Run(q, func(t *testing.T) {
			svc := &stubChatService{}
			rr := getHistory(NewChatHandler(svc), "user-1", q)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, svc.lastUser)
		})
	}
}

func TestHome(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		rr := httptest.NewRecorder()
		Home(rr, httptest.NewRequest(method, "/?anything=1", bytes.NewReader(nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
	}

	rr := httptest.NewRecorder()
	Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var payload map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, map[string]string{"message": "Mentora Backend is running✅"}, payload)
}
