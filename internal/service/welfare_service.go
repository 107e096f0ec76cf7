package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/ai"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
)

// WelfareRepository описывает зависимости сервиса от справочника.
type WelfareRepository interface {
	List(ctx context.Context) ([]models.WelfareService, error)
	ListByCategory(ctx context.Context, category string) ([]models.WelfareService, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.WelfareService, error)
}

// WelfareRecommendation пара сервис + пояснение, почему он подходит.
type WelfareRecommendation struct {
	Service models.WelfareService `json:"service"`
	Reason  string                `json:"reason"`
}

// WelfareService отдаёт справочник социальных сервисов и подбирает
// рекомендации под профиль пользователя.
type WelfareService struct {
	repo     WelfareRepository
	profiles ProfileReader
	aiClient Completer
}

// NewWelfareService создаёт сервис справочника.
func NewWelfareService(repo WelfareRepository, profiles ProfileReader, aiClient Completer) *WelfareService {
	return &WelfareService{
		repo:     repo,
		profiles: profiles,
		aiClient: aiClient,
	}
}

// List возвращает активные сервисы, при необходимости по категории.
func (s *WelfareService) List(ctx context.Context, category string) ([]models.WelfareService, error) {
	if category != "" {
		return s.repo.ListByCategory(ctx, category)
	}
	return s.repo.List(ctx)
}

// Get возвращает сервис по идентификатору.
func (s *WelfareService) Get(ctx context.Context, id uuid.UUID) (*models.WelfareService, error) {
	return s.repo.GetByID(ctx, id)
}

// Recommend подбирает до трёх сервисов под профиль пользователя.
// Языковая модель выбирает из справочника, при её недоступности
// возвращаются первые сервисы списка.
func (s *WelfareService) Recommend(ctx context.Context, userID uuid.UUID) ([]WelfareRecommendation, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return []WelfareRecommendation{}, nil
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		profile = nil
	}

	if s.aiClient != nil {
		if recs := s.recommendWithAI(ctx, profile, services); len(recs) > 0 {
			return recs, nil
		}
	}

	return fallbackRecommendations(services), nil
}

func (s *WelfareService) recommendWithAI(ctx context.Context, profile *models.Profile, services []models.WelfareService) []WelfareRecommendation {
	reply, err := s.aiClient.Complete(ctx, buildWelfarePrompt(profile, services))
	if err != nil {
		return nil
	}

	byID := make(map[uuid.UUID]models.WelfareService, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	// Ответ ожидается строками вида "<uuid>: причина"
	var recs []WelfareRecommendation
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}

		id, err := uuid.Parse(strings.TrimSpace(line[:idx]))
		if err != nil {
			continue
		}

		svc, ok := byID[id]
		if !ok {
			continue
		}

		recs = append(recs, WelfareRecommendation{
			Service: svc,
			Reason:  strings.TrimSpace(line[idx+1:]),
		})
		if len(recs) == 3 {
			break
		}
	}

	return recs
}

func buildWelfarePrompt(profile *models.Profile, services []models.WelfareService) []ai.Message {
	var sb strings.Builder
	sb.WriteString("Подбери до трёх подходящих сервисов для пользователя.\n\n")

	if profile != nil {
		sb.WriteString("Профиль пользователя:\n")
		if profile.Age != nil {
			sb.WriteString(fmt.Sprintf("Возраст: %d\n", *profile.Age))
		}
		if profile.Gender != nil {
			sb.WriteString(fmt.Sprintf("Пол: %s\n", *profile.Gender))
		}
		sb.WriteString(fmt.Sprintf("Уровень подготовки: %s\n", profile.FitnessLevel))
		sb.WriteString("\n")
	}

	sb.WriteString("Доступные сервисы:\n")
	for _, svc := range services {
		sb.WriteString(fmt.Sprintf("%s — %s (%s)\n", svc.ID, svc.Title, svc.Category))
	}

	sb.WriteString("\nОтветь строками вида \"<id>: краткая причина\", по одной на сервис, без другого текста.")

	return []ai.Message{
		{Role: "system", Content: "Ты консультант по социальным и оздоровительным программам."},
		{Role: "user", Content: sb.String()},
	}
}

// fallbackRecommendations берёт первые сервисы списка, когда модель недоступна.
func fallbackRecommendations(services []models.WelfareService) []WelfareRecommendation {
	limit := 3
	if len(services) < limit {
		limit = len(services)
	}

	recs := make([]WelfareRecommendation, 0, limit)
	for _, svc := range services[:limit] {
		recs = append(recs, WelfareRecommendation{
			Service: svc,
			Reason:  "Популярный сервис из справочника.",
		})
	}
	return recs
}
