package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/validation"
)

// HealthMetricRepository описывает зависимости сервиса от хранилища измерений.
type HealthMetricRepository interface {
	Create(ctx context.Context, metric *models.HealthMetric) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.HealthMetric, error)
	ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.HealthMetric, error)
	GetLatest(ctx context.Context, userID uuid.UUID) (*models.HealthMetric, error)
	Summarize(ctx context.Context, userID uuid.UUID, from, to time.Time) (*models.HealthSummary, error)
	Update(ctx context.Context, metric *models.HealthMetric) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HealthService содержит бизнес-логику дневника здоровья.
type HealthService struct {
	repo HealthMetricRepository
}

// NewHealthService создаёт сервис измерений.
func NewHealthService(repo HealthMetricRepository) *HealthService {
	return &HealthService{repo: repo}
}

// Create сохраняет измерение. BMI досчитывается из веса и роста, если не задан.
func (s *HealthService) Create(ctx context.Context, metric *models.HealthMetric, heightCm *float64) error {
	if err := s.validate(metric); err != nil {
		return err
	}

	if metric.BMI == nil && metric.WeightKg != nil && heightCm != nil && *heightCm > 0 {
		bmi := *metric.WeightKg / ((*heightCm / 100) * (*heightCm / 100))
		metric.BMI = &bmi
	}

	if metric.Date.IsZero() {
		metric.Date = time.Now()
	}

	return s.repo.Create(ctx, metric)
}

// Get возвращает измерение с проверкой владельца.
func (s *HealthService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.HealthMetric, error) {
	metric, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if metric.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	return metric, nil
}

// ListByPeriod возвращает измерения за период.
func (s *HealthService) ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.HealthMetric, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("health service: конец периода раньше начала")
	}

	return s.repo.ListByPeriod(ctx, userID, from, to)
}

// Latest возвращает последнее измерение пользователя.
func (s *HealthService) Latest(ctx context.Context, userID uuid.UUID) (*models.HealthMetric, error) {
	return s.repo.GetLatest(ctx, userID)
}

// Summary агрегирует показатели за период.
func (s *HealthService) Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*models.HealthSummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("health service: конец периода раньше начала")
	}

	return s.repo.Summarize(ctx, userID, from, to)
}

// Update обновляет измерение с проверкой владельца.
func (s *HealthService) Update(ctx context.Context, metric *models.HealthMetric, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, metric.ID)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.validate(metric); err != nil {
		return err
	}

	metric.UserID = existing.UserID
	return s.repo.Update(ctx, metric)
}

// Delete удаляет измерение с проверкой владельца.
func (s *HealthService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

func (s *HealthService) validate(metric *models.HealthMetric) error {
	if metric.WeightKg != nil && (*metric.WeightKg < validation.MinWeightKg || *metric.WeightKg > validation.MaxWeightKg) {
		return fmt.Errorf("health service: вес должен быть от %.0f до %.0f кг", validation.MinWeightKg, validation.MaxWeightKg)
	}
	if metric.SleepQuality != nil {
		if err := validation.ValidateScale("качество сна", *metric.SleepQuality); err != nil {
			return fmt.Errorf("health service: %w", err)
		}
	}
	if metric.StressLevel != nil {
		if err := validation.ValidateScale("уровень стресса", *metric.StressLevel); err != nil {
			return fmt.Errorf("health service: %w", err)
		}
	}
	if metric.EnergyLevel != nil {
		if err := validation.ValidateScale("уровень энергии", *metric.EnergyLevel); err != nil {
			return fmt.Errorf("health service: %w", err)
		}
	}
	return nil
}
