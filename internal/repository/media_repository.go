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

// ErrAudioClipNotFound возвращается, когда голосовая запись не найдена.
var ErrAudioClipNotFound = errors.New("audio clip not found")

// MediaRepository отвечает за метаданные загруженных голосовых записей.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository создаёт экземпляр репозитория.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет метаданные записи.
func (r *MediaRepository) Create(ctx context.Context, clip *models.AudioClip) error {
	query := `
		INSERT INTO audio_clips (user_id, file_name, file_path, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		clip.UserID, clip.FileName, clip.FilePath, clip.MimeType, clip.SizeBytes,
	).Scan(&clip.ID, &clip.CreatedAt); err != nil {
		return fmt.Errorf("media repository: create %w", err)
	}

	return nil
}

// GetByID возвращает запись по идентификатору.
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AudioClip, error) {
	var clip models.AudioClip
	if err := r.db.GetContext(ctx, &clip, `SELECT * FROM audio_clips WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAudioClipNotFound
		}
		return nil, fmt.Errorf("media repository: get by id %w", err)
	}

	return &clip, nil
}

// ListByUser возвращает записи пользователя, новые первыми.
func (r *MediaRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AudioClip, error) {
	var clips []models.AudioClip
	query := `SELECT * FROM audio_clips WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &clips, query, userID); err != nil {
		return nil, fmt.Errorf("media repository: list by user %w", err)
	}

	return clips, nil
}

// Delete удаляет метаданные записи.
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audio_clips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("media repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("media repository: delete rows affected %w", err)
	}

	if affected == 0 {
		return ErrAudioClipNotFound
	}

	return nil
}
