package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
)

// Интерфейс сервиса обязан совпадать с реальным репозиторием.
var _ WorkoutRepository = (*repository.WorkoutRepository)(nil)

// mockWorkoutRepository реализует WorkoutRepository для тестов.
type mockWorkoutRepository struct {
	routines   map[uuid.UUID]*models.WorkoutRoutine
	lastLimit  int
	lastOffset int
}

func newMockWorkoutRepository() *mockWorkoutRepository {
	return &mockWorkoutRepository{
		routines: make(map[uuid.UUID]*models.WorkoutRoutine),
	}
}

func (m *mockWorkoutRepository) Create(ctx context.Context, routine *models.WorkoutRoutine) error {
	routine.ID = uuid.New()
	m.routines[routine.ID] = routine
	return nil
}

func (m *mockWorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutRoutine, error) {
	if routine, ok := m.routines[id]; ok {
		copied := *routine
		return &copied, nil
	}
	return nil, repository.ErrRoutineNotFound
}

func (m *mockWorkoutRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRoutine, error) {
	m.lastLimit = limit
	m.lastOffset = offset

	var result []models.WorkoutRoutine
	for _, routine := range m.routines {
		if routine.UserID == userID {
			result = append(result, *routine)
		}
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockWorkoutRepository) Update(ctx context.Context, routine *models.WorkoutRoutine) error {
	if _, ok := m.routines[routine.ID]; !ok {
		return repository.ErrRoutineNotFound
	}
	m.routines[routine.ID] = routine
	return nil
}

func (m *mockWorkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.routines[id]; !ok {
		return repository.ErrRoutineNotFound
	}
	delete(m.routines, id)
	return nil
}

func validRoutine(userID uuid.UUID) *models.WorkoutRoutine {
	return &models.WorkoutRoutine{
		UserID:          userID,
		Name:            "Утренняя разминка",
		DurationMinutes: 30,
		Exercises: models.ExerciseList{
			{Name: "Приседания", Type: models.ExerciseTypeBodyweight, Sets: 3, Reps: 15, Order: 1},
		},
	}
}

func TestWorkoutService_ListPassesPagination(t *testing.T) {
	repo := newMockWorkoutRepository()
	svc := NewWorkoutService(repo, nil, nil)
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		_ = repo.Create(context.Background(), validRoutine(userID))
	}

	routines, err := svc.List(context.Background(), userID, 2, 1)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if repo.lastLimit != 2 || repo.lastOffset != 1 {
		t.Fatalf("пагинация не дошла до репозитория: limit=%d offset=%d", repo.lastLimit, repo.lastOffset)
	}
	if len(routines) != 2 {
		t.Fatalf("ожидалось 2 рутины, получено %d", len(routines))
	}
}

func TestWorkoutService_ListClampsPagination(t *testing.T) {
	repo := newMockWorkoutRepository()
	svc := NewWorkoutService(repo, nil, nil)

	if _, err := svc.List(context.Background(), uuid.New(), -5, -10); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if repo.lastLimit != 20 || repo.lastOffset != 0 {
		t.Fatalf("некорректные значения должны приводиться к умолчаниям: limit=%d offset=%d", repo.lastLimit, repo.lastOffset)
	}

	if _, err := svc.List(context.Background(), uuid.New(), 500, 0); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if repo.lastLimit != 20 {
		t.Fatalf("завышенный limit должен приводиться к умолчанию, получено %d", repo.lastLimit)
	}
}

func TestWorkoutService_GetChecksOwner(t *testing.T) {
	repo := newMockWorkoutRepository()
	svc := NewWorkoutService(repo, nil, nil)

	routine := validRoutine(uuid.New())
	_ = repo.Create(context.Background(), routine)

	if _, err := svc.Get(context.Background(), routine.ID, uuid.New()); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("ожидался ErrForbidden, получено %v", err)
	}
}

func TestWorkoutService_CreateValidates(t *testing.T) {
	repo := newMockWorkoutRepository()
	svc := NewWorkoutService(repo, nil, nil)

	routine := validRoutine(uuid.New())
	routine.Exercises = nil

	if err := svc.Create(context.Background(), routine); err == nil {
		t.Fatal("рутина без упражнений должна быть отклонена")
	}
}
