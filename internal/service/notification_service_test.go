package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
)

// mockNotificationRepository реализует NotificationRepository для тестов.
type mockNotificationRepository struct {
	notifications map[uuid.UUID]*models.Notification
	createErr     error
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{
		notifications: make(map[uuid.UUID]*models.Notification),
	}
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, repository.ErrNotificationNotFound
}

func (m *mockNotificationRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, nil
}

func (m *mockNotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
		return nil
	}
	return repository.ErrNotificationNotFound
}

func (m *mockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.notifications[id]; !ok {
		return repository.ErrNotificationNotFound
	}
	delete(m.notifications, id)
	return nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// mockPusher считает попытки доставки и может имитировать офлайн.
type mockPusher struct {
	pushed  []uuid.UUID
	pushErr error
}

func (m *mockPusher) Push(userID uuid.UUID, event string, data any) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushed = append(m.pushed, userID)
	return nil
}

func TestNotificationService_SendPersistsAndPushes(t *testing.T) {
	repo := newMockNotificationRepository()
	pusher := &mockPusher{}
	svc := NewNotificationService(repo, pusher)
	userID := uuid.New()

	n, err := svc.Send(context.Background(), userID, "Тренировка", "Пора начинать", models.NotificationCategoryWorkout)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if n.ID == uuid.Nil {
		t.Fatal("уведомление не сохранено")
	}
	if len(pusher.pushed) != 1 || pusher.pushed[0] != userID {
		t.Fatalf("ожидалась одна доставка пользователю %s, получено %v", userID, pusher.pushed)
	}
}

func TestNotificationService_SendSurvivesOfflineUser(t *testing.T) {
	repo := newMockNotificationRepository()
	pusher := &mockPusher{pushErr: errors.New("пользователь не подключён")}
	svc := NewNotificationService(repo, pusher)
	userID := uuid.New()

	n, err := svc.Send(context.Background(), userID, "Тренировка", "Пора начинать", models.NotificationCategoryWorkout)
	if err != nil {
		t.Fatalf("неудачная доставка не должна быть ошибкой: %v", err)
	}

	// Уведомление осталось в хранилище и числится непрочитанным
	count, _ := svc.CountUnread(context.Background(), userID)
	if count != 1 {
		t.Fatalf("ожидалось одно непрочитанное, получено %d", count)
	}
	if n.IsRead {
		t.Fatal("новое уведомление должно быть непрочитанным")
	}
}

func TestNotificationService_SendFailsWhenPersistFails(t *testing.T) {
	repo := newMockNotificationRepository()
	repo.createErr = errors.New("база недоступна")
	pusher := &mockPusher{}
	svc := NewNotificationService(repo, pusher)

	if _, err := svc.Send(context.Background(), uuid.New(), "t", "c", models.NotificationCategorySystem); err == nil {
		t.Fatal("ошибка сохранения должна прерывать отправку")
	}

	// Без записи в БД доставки быть не должно
	if len(pusher.pushed) != 0 {
		t.Fatal("доставка без сохранения недопустима")
	}
}

func TestNotificationService_MarkAsReadIsIdempotent(t *testing.T) {
	repo := newMockNotificationRepository()
	svc := NewNotificationService(repo, nil)
	userID := uuid.New()

	n, _ := svc.Send(context.Background(), userID, "t", "c", models.NotificationCategorySystem)

	if err := svc.MarkAsRead(context.Background(), n.ID, userID); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), n.ID, userID); err != nil {
		t.Fatalf("повторная отметка не должна быть ошибкой: %v", err)
	}

	count, _ := svc.CountUnread(context.Background(), userID)
	if count != 0 {
		t.Fatalf("ожидалось ноль непрочитанных, получено %d", count)
	}
}

func TestNotificationService_MarkAsReadChecksOwner(t *testing.T) {
	repo := newMockNotificationRepository()
	svc := NewNotificationService(repo, nil)

	n, _ := svc.Send(context.Background(), uuid.New(), "t", "c", models.NotificationCategorySystem)

	err := svc.MarkAsRead(context.Background(), n.ID, uuid.New())
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("ожидался ErrForbidden, получено %v", err)
	}
}

func TestNotificationService_MarkAllAsReadReturnsCount(t *testing.T) {
	repo := newMockNotificationRepository()
	svc := NewNotificationService(repo, nil)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, _ = svc.Send(context.Background(), userID, "t", "c", models.NotificationCategorySystem)
	}
	_, _ = svc.Send(context.Background(), uuid.New(), "t", "c", models.NotificationCategorySystem)

	count, err := svc.MarkAllAsRead(context.Background(), userID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if count != 3 {
		t.Fatalf("ожидалось 3 затронутых уведомления, получено %d", count)
	}

	// Повторный вызов уже ничего не трогает
	count, _ = svc.MarkAllAsRead(context.Background(), userID)
	if count != 0 {
		t.Fatalf("ожидался ноль, получено %d", count)
	}
}

func TestNotificationService_MarkAsReadUnknownID(t *testing.T) {
	repo := newMockNotificationRepository()
	svc := NewNotificationService(repo, nil)

	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, repository.ErrNotificationNotFound) {
		t.Fatalf("ожидался ErrNotificationNotFound, получено %v", err)
	}
}
