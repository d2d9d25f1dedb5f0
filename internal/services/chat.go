package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"mentora-backend/internal/models"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200

	// storeTimeout bounds each history write or read.
	storeTimeout = 15 * time.Second
)

// HistoryStore is the append-only chat log. No update or delete path exists.
type HistoryStore interface {
	Insert(ctx context.Context, h *models.ChatHistory) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.ChatHistory, error)
}

// ChatService relays one user message to the completion provider and
// records the turn.
type ChatService struct {
	completer Completer
	store     HistoryStore
	timeout   time.Duration
}

func NewChatService(completer Completer, store HistoryStore, timeout time.Duration) *ChatService {
	return &ChatService{completer: completer, store: store, timeout: timeout}
}

// Relay performs exactly one completion call and, only if it produced a
// reply, exactly one history write. The reply is returned only once the
// turn is stored.
func (s *ChatService) Relay(ctx context.Context, req models.ChatRequest) (string, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return "", &ValidationError{Fields: map[string]string{"user_id": "User ID is required"}}
	}

	reply, err := s.complete(ctx, req.Message)
	if err != nil {
		log.Printf("chat: %s completion failed for user %s: %v", s.completer.Provider(), userID, err)
		return "", &UpstreamError{Provider: s.completer.Provider(), Err: err}
	}

	record := &models.ChatHistory{
		UserID:  userID,
		Message: req.Message,
		Reply:   reply,
	}
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.store.Insert(storeCtx, record); err != nil {
		log.Printf("chat: failed to store turn for user %s: %v", userID, err)
		return "", &StorageError{Err: err}
	}

	return reply, nil
}

func (s *ChatService) complete(ctx context.Context, message string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.completer.Complete(ctx, TutorSystemPrompt, message)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyCompletion
	}
	return reply, nil
}

// History returns the user's most recent turns, newest first.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]*models.ChatHistory, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &ValidationError{Fields: map[string]string{"user_id": "User ID is required"}}
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	history, err := s.store.ListByUser(storeCtx, userID, limit)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return history, nil
}

// IsUpstreamTimeout reports whether a relay failed because the provider
// did not answer in time.
func IsUpstreamTimeout(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && errors.Is(upstream.Err, context.DeadlineExceeded)
}
