package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
)

// ErrRoutineNotFound возвращается, когда тренировочная рутина не найдена.
var ErrRoutineNotFound = errors.New("workout routine not found")

// WorkoutRepository отвечает за работу с тренировочными рутинами.
type WorkoutRepository struct {
	db *sqlx.DB
}

// NewWorkoutRepository создаёт экземпляр репозитория.
func NewWorkoutRepository(db *sqlx.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// Create создаёт новую рутину.
func (r *WorkoutRepository) Create(ctx context.Context, routine *models.WorkoutRoutine) error {
	query := `
		INSERT INTO workout_routines (user_id, name, description, difficulty_level, type, duration_minutes, calories_burn, exercises, tags, is_ai_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		routine.UserID,
		routine.Name,
		routine.Description,
		routine.DifficultyLevel,
		routine.Type,
		routine.DurationMinutes,
		routine.CaloriesBurn,
		routine.Exercises,
		routine.Tags,
		routine.IsAIGenerated,
	).Scan(&routine.ID, &routine.CreatedAt, &routine.UpdatedAt); err != nil {
		return fmt.Errorf("workout repository: create %w", err)
	}

	return nil
}

// GetByID возвращает рутину по идентификатору.
func (r *WorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutRoutine, error) {
	var routine models.WorkoutRoutine
	if err := r.db.GetContext(ctx, &routine, `SELECT * FROM workout_routines WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("workout repository: get by id %w", err)
	}

	return &routine, nil
}

// List возвращает рутины пользователя, новые первыми.
func (r *WorkoutRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRoutine, error) {
	query := `
		SELECT * FROM workout_routines
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var routines []models.WorkoutRoutine
	if err := r.db.SelectContext(ctx, &routines, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("workout repository: list %w", err)
	}

	return routines, nil
}

// Update обновляет рутину.
func (r *WorkoutRepository) Update(ctx context.Context, routine *models.WorkoutRoutine) error {
	query := `
		UPDATE workout_routines
		SET name = $1,
			description = $2,
			difficulty_level = $3,
			type = $4,
			duration_minutes = $5,
			calories_burn = $6,
			exercises = $7,
			tags = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		routine.Name,
		routine.Description,
		routine.DifficultyLevel,
		routine.Type,
		routine.DurationMinutes,
		routine.CaloriesBurn,
		routine.Exercises,
		routine.Tags,
		routine.ID,
	).Scan(&routine.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoutineNotFound
		}
		return fmt.Errorf("workout repository: update %w", err)
	}

	return nil
}

// Delete удаляет рутину.
func (r *WorkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workout_routines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("workout repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("workout repository: delete rows affected %w", err)
	}

	if affected == 0 {
		return ErrRoutineNotFound
	}

	return nil
}
