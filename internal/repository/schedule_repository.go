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

// ErrScheduleNotFound возвращается, когда запись расписания не найдена.
var ErrScheduleNotFound = errors.New("workout schedule not found")

// ScheduleRepository отвечает за работу с расписанием тренировок.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository создаёт экземпляр репозитория.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create создаёт запись расписания.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.WorkoutSchedule) error {
	query := `
		INSERT INTO workout_schedules (user_id, routine_id, scheduled_date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		schedule.UserID,
		schedule.RoutineID,
		schedule.ScheduledDate,
		schedule.Status,
		schedule.Notes,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
		return fmt.Errorf("schedule repository: create %w", err)
	}

	return nil
}

// GetByID возвращает запись расписания по идентификатору.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutSchedule, error) {
	var schedule models.WorkoutSchedule
	if err := r.db.GetContext(ctx, &schedule, `SELECT * FROM workout_schedules WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("schedule repository: get by id %w", err)
	}

	return &schedule, nil
}

// ListByPeriod возвращает записи пользователя за период, по возрастанию даты.
func (r *ScheduleRepository) ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WorkoutSchedule, error) {
	query := `
		SELECT * FROM workout_schedules
		WHERE user_id = $1 AND scheduled_date >= $2 AND scheduled_date <= $3
		ORDER BY scheduled_date ASC, created_at ASC
	`

	var schedules []models.WorkoutSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("schedule repository: list by period %w", err)
	}

	return schedules, nil
}

// UpdateStatus меняет статус записи; для завершённых тренировок сохраняет итоги.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, completion *models.CompletionData) error {
	query := `
		UPDATE workout_schedules
		SET status = $1,
			completion_data = COALESCE($2, completion_data),
			start_time = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE start_time END,
			end_time = CASE WHEN $1 IN ('completed', 'missed') THEN NOW() ELSE end_time END,
			updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, completion, id)
	if err != nil {
		return fmt.Errorf("schedule repository: update status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule repository: update status rows affected %w", err)
	}

	if affected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// Update обновляет дату и заметки записи.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.WorkoutSchedule) error {
	query := `
		UPDATE workout_schedules
		SET scheduled_date = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		schedule.ScheduledDate, schedule.Notes, schedule.ID,
	).Scan(&schedule.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("schedule repository: update %w", err)
	}

	return nil
}

// Delete удаляет запись расписания.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workout_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("schedule repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule repository: delete rows affected %w", err)
	}

	if affected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}
