package models

import (
	"time"

	"github.com/google/uuid"
)

// HealthMetric представляет одно измерение показателей здоровья.
// Все измеряемые поля опциональны: пользователь фиксирует только то, что измерил.
type HealthMetric struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	Date             time.Time `db:"date" json:"date"`
	WeightKg         *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	BodyFatPct       *float64  `db:"body_fat_pct" json:"body_fat_pct,omitempty"`
	BMI              *float64  `db:"bmi" json:"bmi,omitempty"`
	MuscleWeightKg   *float64  `db:"muscle_weight_kg" json:"muscle_weight_kg,omitempty"`
	RestingHeartRate *int      `db:"resting_heart_rate" json:"resting_heart_rate,omitempty"`
	SystolicBP       *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	SleepHours       *float64  `db:"sleep_hours" json:"sleep_hours,omitempty"`
	SleepQuality     *int      `db:"sleep_quality" json:"sleep_quality,omitempty"`
	StressLevel      *int      `db:"stress_level" json:"stress_level,omitempty"`
	EnergyLevel      *int      `db:"energy_level" json:"energy_level,omitempty"`
	CaloriesConsumed *int      `db:"calories_consumed" json:"calories_consumed,omitempty"`
	WaterLiters      *float64  `db:"water_liters" json:"water_liters,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// HealthSummary агрегирует показатели за период.
type HealthSummary struct {
	Entries         int      `db:"entries" json:"entries"`
	AvgWeightKg     *float64 `db:"avg_weight_kg" json:"avg_weight_kg,omitempty"`
	MinWeightKg     *float64 `db:"min_weight_kg" json:"min_weight_kg,omitempty"`
	MaxWeightKg     *float64 `db:"max_weight_kg" json:"max_weight_kg,omitempty"`
	AvgSleepHours   *float64 `db:"avg_sleep_hours" json:"avg_sleep_hours,omitempty"`
	AvgRestingHR    *float64 `db:"avg_resting_hr" json:"avg_resting_hr,omitempty"`
	AvgStressLevel  *float64 `db:"avg_stress_level" json:"avg_stress_level,omitempty"`
	AvgEnergyLevel  *float64 `db:"avg_energy_level" json:"avg_energy_level,omitempty"`
	AvgCaloriesEaten *float64 `db:"avg_calories_eaten" json:"avg_calories_eaten,omitempty"`
}
