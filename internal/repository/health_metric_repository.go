package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
)

// ErrHealthMetricNotFound возвращается, когда измерение не найдено.
var ErrHealthMetricNotFound = errors.New("health metric not found")

// HealthMetricRepository отвечает за работу с измерениями показателей здоровья.
type HealthMetricRepository struct {
	db *sqlx.DB
}

// NewHealthMetricRepository создаёт экземпляр репозитория.
func NewHealthMetricRepository(db *sqlx.DB) *HealthMetricRepository {
	return &HealthMetricRepository{db: db}
}

// Create создаёт новое измерение.
func (r *HealthMetricRepository) Create(ctx context.Context, metric *models.HealthMetric) error {
	query := `
		INSERT INTO health_metrics (user_id, date, weight_kg, body_fat_pct, bmi, muscle_weight_kg, resting_heart_rate, systolic_bp, diastolic_bp, sleep_hours, sleep_quality, stress_level, energy_level, calories_consumed, water_liters, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		metric.UserID,
		metric.Date,
		metric.WeightKg,
		metric.BodyFatPct,
		metric.BMI,
		metric.MuscleWeightKg,
		metric.RestingHeartRate,
		metric.SystolicBP,
		metric.DiastolicBP,
		metric.SleepHours,
		metric.SleepQuality,
		metric.StressLevel,
		metric.EnergyLevel,
		metric.CaloriesConsumed,
		metric.WaterLiters,
		metric.Notes,
	).Scan(&metric.ID, &metric.CreatedAt, &metric.UpdatedAt); err != nil {
		return fmt.Errorf("health metric repository: create %w", err)
	}

	return nil
}

// GetByID возвращает измерение по идентификатору.
func (r *HealthMetricRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HealthMetric, error) {
	var metric models.HealthMetric
	if err := r.db.GetContext(ctx, &metric, `SELECT * FROM health_metrics WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHealthMetricNotFound
		}
		return nil, fmt.Errorf("health metric repository: get by id %w", err)
	}

	return &metric, nil
}

// ListByPeriod возвращает измерения пользователя за период, новые первыми.
func (r *HealthMetricRepository) ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.HealthMetric, error) {
	query := `
		SELECT * FROM health_metrics
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC, created_at DESC
	`

	var metrics []models.HealthMetric
	if err := r.db.SelectContext(ctx, &metrics, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("health metric repository: list by period %w", err)
	}

	return metrics, nil
}

// GetLatest возвращает последнее измерение пользователя.
func (r *HealthMetricRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*models.HealthMetric, error) {
	var metric models.HealthMetric
	query := `
		SELECT * FROM health_metrics
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &metric, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHealthMetricNotFound
		}
		return nil, fmt.Errorf("health metric repository: get latest %w", err)
	}

	return &metric, nil
}

// Summarize агрегирует показатели пользователя за период.
func (r *HealthMetricRepository) Summarize(ctx context.Context, userID uuid.UUID, from, to time.Time) (*models.HealthSummary, error) {
	var summary models.HealthSummary
	query := `
		SELECT COUNT(*) AS entries,
			AVG(weight_kg) AS avg_weight_kg,
			MIN(weight_kg) AS min_weight_kg,
			MAX(weight_kg) AS max_weight_kg,
			AVG(sleep_hours) AS avg_sleep_hours,
			AVG(resting_heart_rate) AS avg_resting_hr,
			AVG(stress_level) AS avg_stress_level,
			AVG(energy_level) AS avg_energy_level,
			AVG(calories_consumed) AS avg_calories_eaten
		FROM health_metrics
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`
	if err := r.db.GetContext(ctx, &summary, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("health metric repository: summarize %w", err)
	}

	return &summary, nil
}

// Update обновляет измерение.
func (r *HealthMetricRepository) Update(ctx context.Context, metric *models.HealthMetric) error {
	query := `
		UPDATE health_metrics
		SET date = $1, weight_kg = $2, body_fat_pct = $3, bmi = $4, muscle_weight_kg = $5,
			resting_heart_rate = $6, systolic_bp = $7, diastolic_bp = $8, sleep_hours = $9,
			sleep_quality = $10, stress_level = $11, energy_level = $12, calories_consumed = $13,
			water_liters = $14, notes = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		metric.Date,
		metric.WeightKg,
		metric.BodyFatPct,
		metric.BMI,
		metric.MuscleWeightKg,
		metric.RestingHeartRate,
		metric.SystolicBP,
		metric.DiastolicBP,
		metric.SleepHours,
		metric.SleepQuality,
		metric.StressLevel,
		metric.EnergyLevel,
		metric.CaloriesConsumed,
		metric.WaterLiters,
		metric.Notes,
		metric.ID,
	).Scan(&metric.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrHealthMetricNotFound
		}
		return fmt.Errorf("health metric repository: update %w", err)
	}

	return nil
}

// Delete удаляет измерение.
func (r *HealthMetricRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM health_metrics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("health metric repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("health metric repository: delete rows affected %w", err)
	}

	if affected == 0 {
		return ErrHealthMetricNotFound
	}

	return nil
}
