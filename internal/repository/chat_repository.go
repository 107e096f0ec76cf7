package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
)

// ChatRepository отвечает за историю диалога с AI тренером.
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository создаёт экземпляр репозитория.
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create сохраняет одну реплику диалога.
func (r *ChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		message.UserID, message.Role, message.Content,
	).Scan(&message.ID, &message.CreatedAt); err != nil {
		return fmt.Errorf("chat repository: create %w", err)
	}

	return nil
}

// ListRecent возвращает последние сообщения пользователя, новые первыми.
func (r *ChatRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	query := `
		SELECT * FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var messages []models.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, userID, limit); err != nil {
		return nil, fmt.Errorf("chat repository: list recent %w", err)
	}

	return messages, nil
}

// DeleteByUser удаляет всю историю диалога пользователя.
func (r *ChatRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("chat repository: delete by user %w", err)
	}
	return nil
}
