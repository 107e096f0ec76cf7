package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Типы упражнений.
const (
	ExerciseTypeCardio      = "cardio"
	ExerciseTypeStrength    = "strength"
	ExerciseTypeFlexibility = "flexibility"
	ExerciseTypeBalance     = "balance"
	ExerciseTypeHIIT        = "hiit"
	ExerciseTypeBodyweight  = "bodyweight"
)

// Exercise описывает одно упражнение внутри рутины.
type Exercise struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Description   string   `json:"description,omitempty"`
	TargetMuscles []string `json:"target_muscles,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	// Поля силовых упражнений
	Sets        int      `json:"sets,omitempty"`
	Reps        int      `json:"reps,omitempty"`
	WeightKg    *float64 `json:"weight_kg,omitempty"`
	RestSeconds int      `json:"rest_seconds,omitempty"`
	// Поля кардио упражнений
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	Order           int      `json:"order"`
	Notes           string   `json:"notes,omitempty"`
}

// ExerciseList хранится в Postgres как JSONB.
type ExerciseList []Exercise

// Value реализует driver.Valuer.
func (l ExerciseList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan реализует sql.Scanner.
func (l *ExerciseList) Scan(src interface{}) error {
	if src == nil {
		*l = ExerciseList{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("models: неожиданный тип для ExerciseList: %T", src)
	}
	return json.Unmarshal(b, l)
}

// WorkoutRoutine представляет тренировочную рутину пользователя.
type WorkoutRoutine struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	UserID          uuid.UUID      `db:"user_id" json:"user_id"`
	Name            string         `db:"name" json:"name"`
	Description     *string        `db:"description" json:"description,omitempty"`
	DifficultyLevel string         `db:"difficulty_level" json:"difficulty_level"`
	Type            string         `db:"type" json:"type"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`
	CaloriesBurn    *int           `db:"calories_burn" json:"calories_burn,omitempty"`
	Exercises       ExerciseList   `db:"exercises" json:"exercises"`
	Tags            pq.StringArray `db:"tags" json:"tags"`
	IsAIGenerated   bool           `db:"is_ai_generated" json:"is_ai_generated"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}
