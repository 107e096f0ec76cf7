package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/ai"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/validation"
)

// WorkoutRepository описывает зависимости сервиса от хранилища рутин.
type WorkoutRepository interface {
	Create(ctx context.Context, routine *models.WorkoutRoutine) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkoutRoutine, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRoutine, error)
	Update(ctx context.Context, routine *models.WorkoutRoutine) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileReader отдаёт анкету пользователя для персонализации.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// Completer выполняет запрос к языковой модели.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
}

// WorkoutService содержит бизнес-логику тренировочных рутин.
type WorkoutService struct {
	repo     WorkoutRepository
	profiles ProfileReader
	aiClient Completer
}

// NewWorkoutService создаёт сервис рутин.
func NewWorkoutService(repo WorkoutRepository, profiles ProfileReader, aiClient Completer) *WorkoutService {
	return &WorkoutService{
		repo:     repo,
		profiles: profiles,
		aiClient: aiClient,
	}
}

// Create сохраняет новую рутину.
func (s *WorkoutService) Create(ctx context.Context, routine *models.WorkoutRoutine) error {
	if err := s.validate(routine); err != nil {
		return err
	}

	return s.repo.Create(ctx, routine)
}

// Get возвращает рутину с проверкой владельца.
func (s *WorkoutService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.WorkoutRoutine, error) {
	routine, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if routine.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	return routine, nil
}

// List возвращает рутины пользователя постранично.
func (s *WorkoutService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRoutine, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset)
}

// Update обновляет рутину с проверкой владельца.
func (s *WorkoutService) Update(ctx context.Context, routine *models.WorkoutRoutine, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, routine.ID)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.validate(routine); err != nil {
		return err
	}

	routine.UserID = existing.UserID
	return s.repo.Update(ctx, routine)
}

// Delete удаляет рутину с проверкой владельца.
func (s *WorkoutService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// GenerateInput параметры генерации рутины.
type GenerateInput struct {
	Goal            string
	DurationMinutes int
	WorkoutType     string
	Equipment       []string
}

// Generate просит языковую модель составить рутину под профиль пользователя
// и сохраняет результат.
func (s *WorkoutService) Generate(ctx context.Context, userID uuid.UUID, in GenerateInput) (*models.WorkoutRoutine, error) {
	if s.aiClient == nil {
		return nil, fmt.Errorf("workout service: AI клиент не настроен")
	}
	if err := validation.ValidateNonEmpty("цель тренировки", in.Goal); err != nil {
		return nil, fmt.Errorf("workout service: %w", err)
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = 45
	}
	if in.DurationMinutes < validation.MinRoutineDurationMinutes || in.DurationMinutes > validation.MaxRoutineDurationMinutes {
		return nil, fmt.Errorf("workout service: длительность должна быть от %d до %d минут",
			validation.MinRoutineDurationMinutes, validation.MaxRoutineDurationMinutes)
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		profile = nil
	}

	reply, err := s.aiClient.Complete(ctx, buildGenerationPrompt(profile, in))
	if err != nil {
		return nil, fmt.Errorf("workout service: генерация не удалась: %w", err)
	}

	routine, err := parseGeneratedRoutine(reply)
	if err != nil {
		return nil, fmt.Errorf("workout service: %w", err)
	}

	routine.UserID = userID
	routine.IsAIGenerated = true
	if routine.DurationMinutes == 0 {
		routine.DurationMinutes = in.DurationMinutes
	}
	if routine.DifficultyLevel == "" {
		routine.DifficultyLevel = models.FitnessLevelBeginner
	}
	if routine.Type == "" {
		routine.Type = in.WorkoutType
	}

	if err := s.validate(routine); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, routine); err != nil {
		return nil, err
	}

	return routine, nil
}

func (s *WorkoutService) validate(routine *models.WorkoutRoutine) error {
	if err := validation.ValidateRoutineName(routine.Name); err != nil {
		return fmt.Errorf("workout service: %w", err)
	}
	if routine.DurationMinutes < validation.MinRoutineDurationMinutes || routine.DurationMinutes > validation.MaxRoutineDurationMinutes {
		return fmt.Errorf("workout service: длительность должна быть от %d до %d минут",
			validation.MinRoutineDurationMinutes, validation.MaxRoutineDurationMinutes)
	}
	if len(routine.Exercises) == 0 {
		return fmt.Errorf("workout service: рутина должна содержать хотя бы одно упражнение")
	}
	if len(routine.Exercises) > validation.MaxExercisesPerRoutine {
		return fmt.Errorf("workout service: не более %d упражнений в рутине", validation.MaxExercisesPerRoutine)
	}
	if routine.DifficultyLevel != "" {
		if err := validation.ValidateFitnessLevel(routine.DifficultyLevel); err != nil {
			return fmt.Errorf("workout service: %w", err)
		}
	}
	return nil
}

// buildGenerationPrompt собирает промпт с учётом анкеты пользователя.
func buildGenerationPrompt(profile *models.Profile, in GenerateInput) []ai.Message {
	var sb strings.Builder
	sb.WriteString("Составь тренировочную рутину.\n")
	sb.WriteString(fmt.Sprintf("Цель: %s\n", in.Goal))
	sb.WriteString(fmt.Sprintf("Длительность: %d минут\n", in.DurationMinutes))
	if in.WorkoutType != "" {
		sb.WriteString(fmt.Sprintf("Тип тренировки: %s\n", in.WorkoutType))
	}
	if len(in.Equipment) > 0 {
		sb.WriteString(fmt.Sprintf("Доступное оборудование: %s\n", strings.Join(in.Equipment, ", ")))
	}

	if profile != nil {
		sb.WriteString(fmt.Sprintf("Уровень подготовки: %s\n", profile.FitnessLevel))
		if profile.Age != nil {
			sb.WriteString(fmt.Sprintf("Возраст: %d\n", *profile.Age))
		}
		if profile.WeightKg != nil {
			sb.WriteString(fmt.Sprintf("Вес: %.1f кг\n", *profile.WeightKg))
		}
		if profile.TargetWeightKg != nil {
			sb.WriteString(fmt.Sprintf("Целевой вес: %.1f кг\n", *profile.TargetWeightKg))
		}
	}

	sb.WriteString("\nОтветь строго JSON объектом с полями: ")
	sb.WriteString(`name, description, difficulty_level (beginner|intermediate|advanced), type, duration_minutes, calories_burn, exercises. `)
	sb.WriteString(`Каждое упражнение: name, type, sets, reps, rest_seconds, duration_minutes, order, notes.`)

	return []ai.Message{
		{Role: "system", Content: "Ты профессиональный фитнес тренер. Отвечаешь только валидным JSON без пояснений."},
		{Role: "user", Content: sb.String()},
	}
}

// parseGeneratedRoutine разбирает JSON из ответа модели.
func parseGeneratedRoutine(reply string) (*models.WorkoutRoutine, error) {
	raw, ok := ai.ExtractJSON(reply)
	if !ok {
		return nil, fmt.Errorf("модель вернула ответ без JSON")
	}

	var routine models.WorkoutRoutine
	if err := json.Unmarshal([]byte(raw), &routine); err != nil {
		return nil, fmt.Errorf("не удалось разобрать рутину: %w", err)
	}

	// Нумерация упражнений обязана быть сквозной
	for i := range routine.Exercises {
		if routine.Exercises[i].Order == 0 {
			routine.Exercises[i].Order = i + 1
		}
	}

	return &routine, nil
}
