package models

import (
	"time"

	"github.com/google/uuid"
)

// WelfareService представляет социальный/оздоровительный сервис из справочника.
type WelfareService struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Category  string    `db:"category" json:"category"`
	Target    *string   `db:"target" json:"target,omitempty"`
	Amount    *string   `db:"amount" json:"amount,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
