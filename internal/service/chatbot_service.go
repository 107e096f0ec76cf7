package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/ai"
	"github.com/fitcoach-app/fitcoach-backend/internal/logger"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/validation"
)

// Глубина истории, которая уходит в контекст модели.
const chatHistoryDepth = 20

// ChatRepository описывает зависимости сервиса от хранилища истории.
type ChatRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// LatestMetricReader отдаёт последнее измерение для контекста тренера.
type LatestMetricReader interface {
	GetLatest(ctx context.Context, userID uuid.UUID) (*models.HealthMetric, error)
}

// ChatbotService реализует диалог с AI тренером: история хранится в БД,
// в контекст модели уходят профиль, последнее измерение и недавние реплики.
type ChatbotService struct {
	repo     ChatRepository
	profiles ProfileReader
	metrics  LatestMetricReader
	aiClient Completer
}

// NewChatbotService создаёт сервис диалога.
func NewChatbotService(repo ChatRepository, profiles ProfileReader, metrics LatestMetricReader, aiClient Completer) *ChatbotService {
	return &ChatbotService{
		repo:     repo,
		profiles: profiles,
		metrics:  metrics,
		aiClient: aiClient,
	}
}

// Ask сохраняет реплику пользователя, получает ответ модели и сохраняет его.
func (s *ChatbotService) Ask(ctx context.Context, userID uuid.UUID, text string) (*models.ChatMessage, error) {
	if s.aiClient == nil {
		return nil, fmt.Errorf("chatbot service: AI клиент не настроен")
	}
	if err := validation.ValidateLength("сообщение", text, validation.MinChatMessageLength, validation.MaxChatMessageLength); err != nil {
		return nil, fmt.Errorf("chatbot service: %w", err)
	}

	history, err := s.repo.ListRecent(ctx, userID, chatHistoryDepth)
	if err != nil {
		return nil, err
	}

	userMessage := &models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleUser,
		Content: text,
	}
	if err := s.repo.Create(ctx, userMessage); err != nil {
		return nil, err
	}

	reply, err := s.aiClient.Complete(ctx, s.buildPrompt(ctx, userID, history, text))
	if err != nil {
		return nil, fmt.Errorf("chatbot service: запрос к модели не удался: %w", err)
	}

	assistantMessage := &models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleAssistant,
		Content: reply,
	}
	if err := s.repo.Create(ctx, assistantMessage); err != nil {
		// Ответ уже получен, потеря записи истории не критична
		logger.Log.WithField("user_id", userID).WithError(err).Warn("chatbot service: не удалось сохранить ответ")
	}

	return assistantMessage, nil
}

// History возвращает недавние сообщения, старые первыми.
func (s *ChatbotService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	messages, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	// Хранилище отдаёт новые первыми, клиенту удобнее хронологический порядок
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// Clear удаляет историю диалога пользователя.
func (s *ChatbotService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteByUser(ctx, userID)
}

// buildPrompt собирает контекст: системная роль, профиль, последнее измерение,
// недавняя история и текущий вопрос.
func (s *ChatbotService) buildPrompt(ctx context.Context, userID uuid.UUID, history []models.ChatMessage, text string) []ai.Message {
	var sb strings.Builder
	sb.WriteString("Ты персональный фитнес тренер и консультант по здоровью. ")
	sb.WriteString("Отвечай кратко, дружелюбно и по делу. Не ставь медицинских диагнозов, при тревожных симптомах советуй обратиться к врачу.")

	if profile, err := s.profiles.GetProfile(ctx, userID); err == nil {
		sb.WriteString("\n\nПрофиль подопечного:")
		sb.WriteString(fmt.Sprintf("\nИмя: %s", profile.DisplayName))
		sb.WriteString(fmt.Sprintf("\nУровень подготовки: %s", profile.FitnessLevel))
		if profile.Age != nil {
			sb.WriteString(fmt.Sprintf("\nВозраст: %d", *profile.Age))
		}
		if profile.WeightKg != nil {
			sb.WriteString(fmt.Sprintf("\nВес: %.1f кг", *profile.WeightKg))
		}
		if profile.TargetWeightKg != nil {
			sb.WriteString(fmt.Sprintf("\nЦелевой вес: %.1f кг", *profile.TargetWeightKg))
		}
	}

	if s.metrics != nil {
		if metric, err := s.metrics.GetLatest(ctx, userID); err == nil {
			sb.WriteString("\n\nПоследнее измерение:")
			if metric.WeightKg != nil {
				sb.WriteString(fmt.Sprintf("\nВес: %.1f кг", *metric.WeightKg))
			}
			if metric.SleepHours != nil {
				sb.WriteString(fmt.Sprintf("\nСон: %.1f ч", *metric.SleepHours))
			}
			if metric.StressLevel != nil {
				sb.WriteString(fmt.Sprintf("\nСтресс: %d/10", *metric.StressLevel))
			}
			if metric.EnergyLevel != nil {
				sb.WriteString(fmt.Sprintf("\nЭнергия: %d/10", *metric.EnergyLevel))
			}
		}
	}

	messages := []ai.Message{{Role: "system", Content: sb.String()}}

	// История приходит новыми вперёд, разворачиваем в хронологию
	for i := len(history) - 1; i >= 0; i-- {
		messages = append(messages, ai.Message{
			Role:    history[i].Role,
			Content: history[i].Content,
		})
	}

	messages = append(messages, ai.Message{Role: "user", Content: text})
	return messages
}
