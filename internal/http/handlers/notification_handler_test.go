package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcoach-app/fitcoach-backend/internal/http/middleware"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// stubNotificationRepo хранит уведомления в памяти для тестов хэндлера.
type stubNotificationRepo struct {
	notifications map[uuid.UUID]*models.Notification
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: make(map[uuid.UUID]*models.Notification)}
}

func (s *stubNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.New()
	s.notifications[n.ID] = n
	return nil
}

func (s *stubNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, ok := s.notifications[id]
	if !ok {
		return nil, repository.ErrNotificationNotFound
	}
	return n, nil
}

func (s *stubNotificationRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range s.notifications {
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

func (s *stubNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	n, ok := s.notifications[id]
	if !ok {
		return repository.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (s *stubNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	var updated int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *stubNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.notifications[id]; !ok {
		return repository.ErrNotificationNotFound
	}
	delete(s.notifications, id)
	return nil
}

func (s *stubNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func setupNotificationRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, *stubNotificationRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newStubNotificationRepo()
	svc := service.NewNotificationService(repo, nil)
	handler := NewNotificationHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	r.GET("/notifications", handler.List)
	r.GET("/notifications/unread/count", handler.CountUnread)
	r.GET("/notifications/:id", handler.Get)
	r.PUT("/notifications/:id/read", handler.MarkAsRead)
	r.PUT("/notifications/read-all", handler.MarkAllAsRead)
	r.DELETE("/notifications/:id", handler.Delete)

	return r, repo
}

func seedNotification(repo *stubNotificationRepo, userID uuid.UUID, isRead bool) *models.Notification {
	n := &models.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    "Тренировка завершена",
		Content:  "Отличная работа!",
		Category: "workout",
		IsRead:   isRead,
	}
	repo.notifications[n.ID] = n
	return n
}

func TestNotificationHandler_List_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewNotificationHandler(service.NewNotificationService(newStubNotificationRepo(), nil))
	r.GET("/notifications", handler.List)

	req, _ := http.NewRequest("GET", "/notifications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotificationHandler_List_EmptyIsArray(t *testing.T) {
	userID := uuid.New()
	r, _ := setupNotificationRouter(t, userID)

	req, _ := http.NewRequest("GET", "/notifications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	userID := uuid.New()
	r, repo := setupNotificationRouter(t, userID)
	n := seedNotification(repo, userID, false)

	req, _ := http.NewRequest("PUT", "/notifications/"+n.ID.String()+"/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.notifications[n.ID].IsRead)
}

func TestNotificationHandler_MarkAsRead_ForeignNotification(t *testing.T) {
	userID := uuid.New()
	r, repo := setupNotificationRouter(t, userID)
	foreign := seedNotification(repo, uuid.New(), false)

	req, _ := http.NewRequest("PUT", "/notifications/"+foreign.ID.String()+"/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, repo.notifications[foreign.ID].IsRead)
}

func TestNotificationHandler_MarkAsRead_InvalidID(t *testing.T) {
	userID := uuid.New()
	r, _ := setupNotificationRouter(t, userID)

	req, _ := http.NewRequest("PUT", "/notifications/invalid-uuid/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationHandler_MarkAllAsRead(t *testing.T) {
	userID := uuid.New()
	r, repo := setupNotificationRouter(t, userID)
	seedNotification(repo, userID, false)
	seedNotification(repo, userID, false)
	seedNotification(repo, userID, true)

	req, _ := http.NewRequest("PUT", "/notifications/read-all", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Updated int64 `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Updated)
}

func TestNotificationHandler_CountUnread(t *testing.T) {
	userID := uuid.New()
	r, repo := setupNotificationRouter(t, userID)
	seedNotification(repo, userID, false)
	seedNotification(repo, userID, true)
	seedNotification(repo, uuid.New(), false)

	req, _ := http.NewRequest("GET", "/notifications/unread/count", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestNotificationHandler_Delete_NotFound(t *testing.T) {
	userID := uuid.New()
	r, _ := setupNotificationRouter(t, userID)

	req, _ := http.NewRequest("DELETE", "/notifications/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
