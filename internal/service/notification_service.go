package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/logger"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// Pusher доставляет событие на активное подключение пользователя.
type Pusher interface {
	Push(userID uuid.UUID, event string, data any) error
}

// NotificationService содержит бизнес-логику работы с уведомлениями.
// Уведомление сначала сохраняется в БД, затем по возможности доставляется
// на активное подключение. Неудачная доставка не считается ошибкой:
// клиент заберёт уведомление из списка при следующем запросе.
type NotificationService struct {
	repo   NotificationRepository
	pusher Pusher
}

// NewNotificationService создаёт новый сервис уведомлений.
func NewNotificationService(repo NotificationRepository, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Send сохраняет уведомление и пытается доставить его на живое подключение.
func (s *NotificationService) Send(ctx context.Context, userID uuid.UUID, title, content, category string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:   userID,
		Title:    title,
		Content:  content,
		Category: category,
		IsRead:   false,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		if err := s.pusher.Push(userID, "notification", notification); err != nil {
			// Пользователь офлайн или подключение перегружено, уведомление уже в БД
			logger.Log.WithField("user_id", userID).WithError(err).Debug("notification service: живая доставка не удалась")
		}
	}

	return notification, nil
}

// Get возвращает уведомление по идентификатору с проверкой владельца.
func (s *NotificationService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if notification.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	return notification, nil
}

// List возвращает уведомления пользователя, новые первыми.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление как прочитанное. Повторный вызов для уже
// прочитанного уведомления не является ошибкой.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return apperror.ErrForbidden
	}

	if notification.IsRead {
		return nil
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные
// и возвращает число затронутых записей.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete удаляет уведомление с проверкой владельца.
func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
