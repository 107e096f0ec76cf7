package models

import (
	"time"

	"github.com/google/uuid"
)

// Категории уведомлений.
const (
	NotificationCategoryWorkout  = "workout"
	NotificationCategorySchedule = "schedule"
	NotificationCategoryCoach    = "coach"
	NotificationCategoryWelfare  = "welfare"
	NotificationCategorySystem   = "system"
)

// Notification представляет одно уведомление пользователя.
// После создания запись неизменяема, кроме флага isRead,
// который переходит только из false в true.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Category  string    `db:"category" json:"category"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
