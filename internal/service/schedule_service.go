package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/logger"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/validation"
)

// ScheduleRepository описывает зависимости сервиса от хранилища расписания.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.WorkoutSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutSchedule, error)
	ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WorkoutSchedule, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, completion *models.CompletionData) error
	Update(ctx context.Context, schedule *models.WorkoutSchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoutineReader отдаёт рутину для проверки принадлежности и названия.
type RoutineReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutRoutine, error)
}

// Notifier отправляет уведомление пользователю.
type Notifier interface {
	Send(ctx context.Context, userID uuid.UUID, title, content, category string) (*models.Notification, error)
}

// ScheduleService содержит бизнес-логику календаря тренировок.
type ScheduleService struct {
	repo     ScheduleRepository
	routines RoutineReader
	notifier Notifier
}

// NewScheduleService создаёт сервис расписания.
func NewScheduleService(repo ScheduleRepository, routines RoutineReader, notifier Notifier) *ScheduleService {
	return &ScheduleService{
		repo:     repo,
		routines: routines,
		notifier: notifier,
	}
}

// Create добавляет тренировку в календарь.
func (s *ScheduleService) Create(ctx context.Context, schedule *models.WorkoutSchedule) error {
	routine, err := s.routines.GetByID(ctx, schedule.RoutineID)
	if err != nil {
		return err
	}
	if routine.UserID != schedule.UserID {
		return apperror.ErrForbidden
	}

	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusScheduled
	}
	if schedule.Status != models.ScheduleStatusScheduled {
		return fmt.Errorf("schedule service: новая запись может быть только в статусе scheduled")
	}

	return s.repo.Create(ctx, schedule)
}

// Get возвращает запись с проверкой владельца.
func (s *ScheduleService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.WorkoutSchedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if schedule.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	return schedule, nil
}

// ListByPeriod возвращает записи пользователя за период.
func (s *ScheduleService) ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WorkoutSchedule, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("schedule service: конец периода раньше начала")
	}

	return s.repo.ListByPeriod(ctx, userID, from, to)
}

// ChangeStatus переводит запись в новый статус. Завершение тренировки
// сохраняет итоги и отправляет пользователю уведомление.
func (s *ScheduleService) ChangeStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, status string, completion *models.CompletionData) (*models.WorkoutSchedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if schedule.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	if !models.ValidScheduleTransition(schedule.Status, status) {
		return nil, fmt.Errorf("schedule service: переход %s -> %s недопустим", schedule.Status, status)
	}

	if completion != nil {
		if status != models.ScheduleStatusCompleted {
			return nil, fmt.Errorf("schedule service: итоги сохраняются только при завершении")
		}
		if completion.Difficulty != 0 {
			if err := validation.ValidateScale("сложность", completion.Difficulty); err != nil {
				return nil, fmt.Errorf("schedule service: %w", err)
			}
		}
		if completion.Enjoyment != 0 {
			if err := validation.ValidateScale("удовольствие", completion.Enjoyment); err != nil {
				return nil, fmt.Errorf("schedule service: %w", err)
			}
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status, completion); err != nil {
		return nil, err
	}

	if status == models.ScheduleStatusCompleted {
		s.notifyCompleted(ctx, schedule)
	}

	return s.repo.GetByID(ctx, id)
}

// Update меняет дату и заметки записи.
func (s *ScheduleService) Update(ctx context.Context, schedule *models.WorkoutSchedule, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, schedule.ID)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return apperror.ErrForbidden
	}

	if existing.Status != models.ScheduleStatusScheduled {
		return fmt.Errorf("schedule service: переносить можно только запланированные тренировки")
	}

	return s.repo.Update(ctx, schedule)
}

// Delete удаляет запись с проверкой владельца.
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// notifyCompleted отправляет поздравление о завершённой тренировке.
// Ошибка уведомления тренировку не откатывает.
func (s *ScheduleService) notifyCompleted(ctx context.Context, schedule *models.WorkoutSchedule) {
	if s.notifier == nil {
		return
	}

	title := "Тренировка завершена"
	content := "Отличная работа! Тренировка записана в историю."
	if routine, err := s.routines.GetByID(ctx, schedule.RoutineID); err == nil {
		content = fmt.Sprintf("Отличная работа! Тренировка «%s» завершена.", routine.Name)
	}

	if _, err := s.notifier.Send(ctx, schedule.UserID, title, content, models.NotificationCategorySchedule); err != nil {
		logger.Log.WithField("schedule_id", schedule.ID).WithError(err).Warn("schedule service: не удалось отправить уведомление")
	}
}
