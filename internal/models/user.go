package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Уровни подготовки пользователя.
const (
	FitnessLevelBeginner     = "beginner"
	FitnessLevelIntermediate = "intermediate"
	FitnessLevelAdvanced     = "advanced"
)

// User представляет учётную запись пользователя.
type User struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	PhoneVerified  bool       `db:"phone_verified" json:"phone_verified"`
	PaymentPinHash *string    `db:"payment_pin_hash" json:"-"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	LastLoginAt    *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile хранит фитнес-профиль пользователя.
type Profile struct {
	UserID            uuid.UUID      `db:"user_id" json:"user_id"`
	DisplayName       string         `db:"display_name" json:"display_name"`
	Age               *int           `db:"age" json:"age,omitempty"`
	Gender            *string        `db:"gender" json:"gender,omitempty"`
	HeightCm          *float64       `db:"height_cm" json:"height_cm,omitempty"`
	WeightKg          *float64       `db:"weight_kg" json:"weight_kg,omitempty"`
	TargetWeightKg    *float64       `db:"target_weight_kg" json:"target_weight_kg,omitempty"`
	FitnessLevel      string         `db:"fitness_level" json:"fitness_level"`
	PreferredWorkouts pq.StringArray `db:"preferred_workouts" json:"preferred_workouts"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// Session хранит refresh сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
