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

// ErrWelfareServiceNotFound возвращается, когда сервис не найден в справочнике.
var ErrWelfareServiceNotFound = errors.New("welfare service not found")

// WelfareRepository отвечает за справочник социальных сервисов.
type WelfareRepository struct {
	db *sqlx.DB
}

// NewWelfareRepository создаёт экземпляр репозитория.
func NewWelfareRepository(db *sqlx.DB) *WelfareRepository {
	return &WelfareRepository{db: db}
}

// List возвращает все активные сервисы.
func (r *WelfareRepository) List(ctx context.Context) ([]models.WelfareService, error) {
	var services []models.WelfareService
	query := `SELECT * FROM welfare_services WHERE is_active ORDER BY category, title`
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("welfare repository: list %w", err)
	}

	return services, nil
}

// ListByCategory возвращает активные сервисы указанной категории.
func (r *WelfareRepository) ListByCategory(ctx context.Context, category string) ([]models.WelfareService, error) {
	var services []models.WelfareService
	query := `SELECT * FROM welfare_services WHERE category = $1 AND is_active ORDER BY title`
	if err := r.db.SelectContext(ctx, &services, query, category); err != nil {
		return nil, fmt.Errorf("welfare repository: list by category %w", err)
	}

	return services, nil
}

// GetByID возвращает сервис по идентификатору.
func (r *WelfareRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WelfareService, error) {
	var service models.WelfareService
	if err := r.db.GetContext(ctx, &service,
		`SELECT * FROM welfare_services WHERE id = $1 AND is_active`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWelfareServiceNotFound
		}
		return nil, fmt.Errorf("welfare repository: get by id %w", err)
	}

	return &service, nil
}
