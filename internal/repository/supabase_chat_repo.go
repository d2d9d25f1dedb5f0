package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"mentora-backend/internal/models"
)

// chatHistoryRow is the insert payload. id and created_at are column
// defaults on the Supabase side, so they are left out.
type chatHistoryRow struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Reply   string `json:"reply"`
}

// chatHistoryRecord is a selected row. Supabase tables often use a bigint
// identity for id, so it is decoded loosely.
type chatHistoryRecord struct {
	ID        any       `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

func (rec chatHistoryRecord) toModel() *models.ChatHistory {
	h := &models.ChatHistory{
		UserID:    rec.UserID,
		Message:   rec.Message,
		Reply:     rec.Reply,
		CreatedAt: rec.CreatedAt,
	}
	switch id := rec.ID.(type) {
	case nil:
	case float64:
		h.ID = fmt.Sprintf("%.0f", id)
	default:
		h.ID = fmt.Sprint(id)
	}
	return h
}

// SupabaseChatRepo stores chat turns through Supabase's REST API.
type SupabaseChatRepo struct {
	client *supabase.Client
	table  string
}

func NewSupabaseChatRepo(client *supabase.Client, table string) *SupabaseChatRepo {
	return &SupabaseChatRepo{client: client, table: table}
}

// Insert returns as soon as ctx is done. The PostgREST builder takes no
// context, so the abandoned call finishes in the background.
func (r *SupabaseChatRepo) Insert(ctx context.Context, h *models.ChatHistory) error {
	row := chatHistoryRow{UserID: h.UserID, Message: h.Message, Reply: h.Reply}
	err := withContext(ctx, func() error {
		_, _, err := r.client.From(r.table).Insert(row, false, "", "minimal", "").Execute()
		return err
	})
	if err != nil {
		return fmt.Errorf("supabase insert into %s: %w", r.table, err)
	}
	return nil
}

func (r *SupabaseChatRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ChatHistory, error) {
	var records []chatHistoryRecord
	err := withContext(ctx, func() error {
		_, err := r.client.From(r.table).
			Select("id,user_id,message,reply,created_at", "", false).
			Eq("user_id", userID).
			Order("created_at", &postgrest.OrderOpts{Ascending: false}).
			Limit(limit, "").
			ExecuteTo(&records)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("supabase select from %s: %w", r.table, err)
	}

	history := make([]*models.ChatHistory, 0, len(records))
	for _, rec := range records {
		history = append(history, rec.toModel())
	}
	return history, nil
}

func withContext(ctx context.Context, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- call() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
