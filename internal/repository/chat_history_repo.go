package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mentora-backend/internal/models"
)

// ChatHistoryRepo writes chat turns straight to Postgres. The id column
// is left to the table default, so both uuid and bigint identity keys work.
type ChatHistoryRepo struct {
	pool *pgxpool.Pool
}

func NewChatHistoryRepo(pool *pgxpool.Pool) *ChatHistoryRepo {
	return &ChatHistoryRepo{pool: pool}
}

func (r *ChatHistoryRepo) Insert(ctx context.Context, h *models.ChatHistory) error {
	query := `INSERT INTO chat_history (user_id, message, reply)
		VALUES ($1, $2, $3) RETURNING id::text, created_at`

	return r.pool.QueryRow(ctx, query, h.UserID, h.Message, h.Reply).Scan(&h.ID, &h.CreatedAt)
}

func (r *ChatHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ChatHistory, error) {
	query := `SELECT id::text, user_id, message, reply, created_at
		FROM chat_history WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []*models.ChatHistory{}
	for rows.Next() {
		h := &models.ChatHistory{}
		if err := rows.Scan(&h.ID, &h.UserID, &h.Message, &h.Reply, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
