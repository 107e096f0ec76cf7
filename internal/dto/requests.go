package dto

import (
	"time"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
)

// RegisterRequest тело POST /auth/register.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// LoginRequest тело POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest тело POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// PhoneCodeRequest тело POST /auth/phone/code.
type PhoneCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// PhoneVerifyRequest тело POST /auth/phone/verify.
type PhoneVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// PaymentPinRequest тело PUT /auth/payment-pin и POST /auth/payment-pin/verify.
type PaymentPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// UpdateProfileRequest тело PUT /profile.
type UpdateProfileRequest struct {
	DisplayName       string   `json:"display_name" binding:"required"`
	Age               *int     `json:"age"`
	Gender            *string  `json:"gender"`
	HeightCm          *float64 `json:"height_cm"`
	WeightKg          *float64 `json:"weight_kg"`
	TargetWeightKg    *float64 `json:"target_weight_kg"`
	FitnessLevel      string   `json:"fitness_level"`
	PreferredWorkouts []string `json:"preferred_workouts"`
}

// RoutineRequest тело POST/PUT /routines.
type RoutineRequest struct {
	Name            string              `json:"name" binding:"required"`
	Description     *string             `json:"description"`
	DifficultyLevel string              `json:"difficulty_level"`
	Type            string              `json:"type"`
	DurationMinutes int                 `json:"duration_minutes" binding:"required"`
	CaloriesBurn    *int                `json:"calories_burn"`
	Exercises       models.ExerciseList `json:"exercises" binding:"required"`
	Tags            []string            `json:"tags"`
}

// GenerateRoutineRequest тело POST /routines/generate.
type GenerateRoutineRequest struct {
	Goal            string   `json:"goal" binding:"required"`
	DurationMinutes int      `json:"duration_minutes"`
	WorkoutType     string   `json:"workout_type"`
	Equipment       []string `json:"equipment"`
}

// ScheduleRequest тело POST /schedule.
type ScheduleRequest struct {
	RoutineID     string    `json:"routine_id" binding:"required"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Notes         *string   `json:"notes"`
}

// ScheduleUpdateRequest тело PUT /schedule/:id.
type ScheduleUpdateRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Notes         *string   `json:"notes"`
}

// ScheduleStatusRequest тело PUT /schedule/:id/status.
type ScheduleStatusRequest struct {
	Status     string                 `json:"status" binding:"required"`
	Completion *models.CompletionData `json:"completion"`
}

// HealthMetricRequest тело POST/PUT /health-metrics.
type HealthMetricRequest struct {
	Date             *time.Time `json:"date"`
	WeightKg         *float64   `json:"weight_kg"`
	BodyFatPct       *float64   `json:"body_fat_pct"`
	MuscleWeightKg   *float64   `json:"muscle_weight_kg"`
	RestingHeartRate *int       `json:"resting_heart_rate"`
	SystolicBP       *int       `json:"systolic_bp"`
	DiastolicBP      *int       `json:"diastolic_bp"`
	SleepHours       *float64   `json:"sleep_hours"`
	SleepQuality     *int       `json:"sleep_quality"`
	StressLevel      *int       `json:"stress_level"`
	EnergyLevel      *int       `json:"energy_level"`
	CaloriesConsumed *int       `json:"calories_consumed"`
	WaterLiters      *float64   `json:"water_liters"`
	Notes            *string    `json:"notes"`
}

// ChatRequest тело POST /coach/chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}
