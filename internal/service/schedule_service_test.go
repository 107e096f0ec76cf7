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

// mockScheduleRepository реализует ScheduleRepository для тестов.
type mockScheduleRepository struct {
	schedules map[uuid.UUID]*models.WorkoutSchedule
}

func newMockScheduleRepository() *mockScheduleRepository {
	return &mockScheduleRepository{schedules: make(map[uuid.UUID]*models.WorkoutSchedule)}
}

func (m *mockScheduleRepository) Create(ctx context.Context, s *models.WorkoutSchedule) error {
	s.ID = uuid.New()
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	m.schedules[s.ID] = s
	return nil
}

func (m *mockScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, repository.ErrScheduleNotFound
}

func (m *mockScheduleRepository) ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WorkoutSchedule, error) {
	var result []models.WorkoutSchedule
	for _, s := range m.schedules {
		if s.UserID == userID && !s.ScheduledDate.Before(from) && !s.ScheduledDate.After(to) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, completion *models.CompletionData) error {
	s, ok := m.schedules[id]
	if !ok {
		return repository.ErrScheduleNotFound
	}
	s.Status = status
	if completion != nil {
		s.CompletionData = completion
	}
	return nil
}

func (m *mockScheduleRepository) Update(ctx context.Context, schedule *models.WorkoutSchedule) error {
	s, ok := m.schedules[schedule.ID]
	if !ok {
		return repository.ErrScheduleNotFound
	}
	s.ScheduledDate = schedule.ScheduledDate
	s.Notes = schedule.Notes
	return nil
}

func (m *mockScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.schedules[id]; !ok {
		return repository.ErrScheduleNotFound
	}
	delete(m.schedules, id)
	return nil
}

// mockRoutineReader отдаёт заранее заданные рутины.
type mockRoutineReader struct {
	routines map[uuid.UUID]*models.WorkoutRoutine
}

func (m *mockRoutineReader) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutRoutine, error) {
	if r, ok := m.routines[id]; ok {
		return r, nil
	}
	return nil, repository.ErrRoutineNotFound
}

// mockNotifier запоминает отправленные уведомления.
type mockNotifier struct {
	sent []string
}

func (m *mockNotifier) Send(ctx context.Context, userID uuid.UUID, title, content, category string) (*models.Notification, error) {
	m.sent = append(m.sent, title)
	return &models.Notification{ID: uuid.New(), UserID: userID, Title: title}, nil
}

func newScheduleFixture(t *testing.T) (*ScheduleService, *mockScheduleRepository, *mockNotifier, uuid.UUID, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	routineID := uuid.New()

	repo := newMockScheduleRepository()
	routines := &mockRoutineReader{routines: map[uuid.UUID]*models.WorkoutRoutine{
		routineID: {ID: routineID, UserID: userID, Name: "Утренняя зарядка"},
	}}
	notifier := &mockNotifier{}

	return NewScheduleService(repo, routines, notifier), repo, notifier, userID, routineID
}

func TestScheduleService_CreateChecksRoutineOwner(t *testing.T) {
	svc, _, _, _, routineID := newScheduleFixture(t)

	err := svc.Create(context.Background(), &models.WorkoutSchedule{
		UserID:        uuid.New(), // чужой пользователь
		RoutineID:     routineID,
		ScheduledDate: time.Now(),
	})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("ожидался ErrForbidden, получено %v", err)
	}
}

func TestScheduleService_CompleteSendsNotification(t *testing.T) {
	svc, _, notifier, userID, routineID := newScheduleFixture(t)

	schedule := &models.WorkoutSchedule{
		UserID:        userID,
		RoutineID:     routineID,
		ScheduledDate: time.Now(),
	}
	if err := svc.Create(context.Background(), schedule); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	updated, err := svc.ChangeStatus(context.Background(), schedule.ID, userID, models.ScheduleStatusCompleted, &models.CompletionData{
		ActualDurationMinutes: 40,
		Difficulty:            7,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if updated.Status != models.ScheduleStatusCompleted {
		t.Fatalf("статус не обновлён: %s", updated.Status)
	}
	if updated.CompletionData == nil || updated.CompletionData.ActualDurationMinutes != 40 {
		t.Fatal("итоги тренировки не сохранены")
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("ожидалось одно уведомление, получено %d", len(notifier.sent))
	}
}

func TestScheduleService_InvalidTransition(t *testing.T) {
	svc, _, _, userID, routineID := newScheduleFixture(t)

	schedule := &models.WorkoutSchedule{UserID: userID, RoutineID: routineID, ScheduledDate: time.Now()}
	_ = svc.Create(context.Background(), schedule)

	if _, err := svc.ChangeStatus(context.Background(), schedule.ID, userID, models.ScheduleStatusCompleted, nil); err != nil {
		t.Fatalf("scheduled -> completed допустим: %v", err)
	}

	// Завершённую тренировку нельзя перевести обратно
	if _, err := svc.ChangeStatus(context.Background(), schedule.ID, userID, models.ScheduleStatusInProgress, nil); err == nil {
		t.Fatal("completed -> in_progress должен быть отклонён")
	}
}

func TestScheduleService_CompletionOnlyOnComplete(t *testing.T) {
	svc, _, _, userID, routineID := newScheduleFixture(t)

	schedule := &models.WorkoutSchedule{UserID: userID, RoutineID: routineID, ScheduledDate: time.Now()}
	_ = svc.Create(context.Background(), schedule)

	_, err := svc.ChangeStatus(context.Background(), schedule.ID, userID, models.ScheduleStatusMissed, &models.CompletionData{CaloriesBurned: 100})
	if err == nil {
		t.Fatal("итоги для пропущенной тренировки должны быть отклонены")
	}
}

func TestScheduleService_ChangeStatusChecksOwner(t *testing.T) {
	svc, _, _, userID, routineID := newScheduleFixture(t)

	schedule := &models.WorkoutSchedule{UserID: userID, RoutineID: routineID, ScheduledDate: time.Now()}
	_ = svc.Create(context.Background(), schedule)

	_, err := svc.ChangeStatus(context.Background(), schedule.ID, uuid.New(), models.ScheduleStatusCompleted, nil)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("ожидался ErrForbidden, получено %v", err)
	}
}
