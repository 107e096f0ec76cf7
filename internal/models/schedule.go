package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Статусы запланированной тренировки.
const (
	ScheduleStatusScheduled  = "scheduled"
	ScheduleStatusInProgress = "in_progress"
	ScheduleStatusCompleted  = "completed"
	ScheduleStatusMissed     = "missed"
)

// CompletionData фиксирует результат выполненной тренировки.
type CompletionData struct {
	ActualDurationMinutes int     `json:"actual_duration_minutes,omitempty"`
	CaloriesBurned        int     `json:"calories_burned,omitempty"`
	Difficulty            int     `json:"difficulty,omitempty"`
	Enjoyment             int     `json:"enjoyment,omitempty"`
	Comment               string  `json:"comment,omitempty"`
	AvgHeartRate          float64 `json:"avg_heart_rate,omitempty"`
}

// Value реализует driver.Valuer.
func (d CompletionData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan реализует sql.Scanner.
func (d *CompletionData) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("models: неожиданный тип для CompletionData: %T", src)
	}
	return json.Unmarshal(b, d)
}

// WorkoutSchedule представляет запись тренировки в календаре пользователя.
type WorkoutSchedule struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	RoutineID      uuid.UUID       `db:"routine_id" json:"routine_id"`
	ScheduledDate  time.Time       `db:"scheduled_date" json:"scheduled_date"`
	StartTime      *time.Time      `db:"start_time" json:"start_time,omitempty"`
	EndTime        *time.Time      `db:"end_time" json:"end_time,omitempty"`
	Status         string          `db:"status" json:"status"`
	Notes          *string         `db:"notes" json:"notes,omitempty"`
	CompletionData *CompletionData `db:"completion_data" json:"completion_data,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// ValidScheduleTransition проверяет допустимость смены статуса.
func ValidScheduleTransition(from, to string) bool {
	switch from {
	case ScheduleStatusScheduled:
		return to == ScheduleStatusInProgress || to == ScheduleStatusCompleted || to == ScheduleStatusMissed
	case ScheduleStatusInProgress:
		return to == ScheduleStatusCompleted || to == ScheduleStatusMissed
	default:
		return false
	}
}
