package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentora-backend/internal/models"
)

// newSchemaPool connects with search_path pointed at a throwaway schema
// holding a chat_history table built from the given DDL.
func newSchemaPool(t *testing.T, tableDDL string) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	schema := "chat_test_" + uuid.NewString()[:8]

	admin, err := pgxpool.New(ctx, databaseURL)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		admin.Close()
	})

	config, err := pgxpool.ParseConfig(databaseURL)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, tableDDL)
	require.NoError(t, err)
	return pool
}

func TestChatHistoryRepo_TableLayouts(t *testing.T) {
	tests := []struct {
		name string
		ddl  string
	}{
		{"bigint identity id", `CREATE TABLE chat_history (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			user_id TEXT NOT NULL,
			message TEXT NOT NULL,
			reply TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`},
		{"uuid default id", `CREATE TABLE chat_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			message TEXT NOT NULL,
			reply TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewChatHistoryRepo(newSchemaPool(t, tc.ddl))
			ctx := context.Background()

			first := &models.ChatHistory{UserID: "user-1", Message: "What is Git?", Reply: "A version control system."}
			require.NoError(t, repo.Insert(ctx, first))
			assert.NotEmpty(t, first.ID)
			assert.False(t, first.CreatedAt.IsZero())

			require.NoError(t, repo.Insert(ctx, &models.ChatHistory{UserID: "user-2", Message: "hi", Reply: "hello"}))

			history, err := repo.ListByUser(ctx, "user-1", 10)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, first.ID, history[0].ID)
			assert.Equal(t, "What is Git?", history[0].Message)
			assert.Equal(t, "A version control system.", history[0].Reply)
		})
	}
}
