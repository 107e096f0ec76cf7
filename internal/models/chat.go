package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли сообщений в диалоге с AI тренером.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage представляет одну реплику в истории диалога с AI тренером.
type ChatMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
