package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/dto"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// ScheduleHandler обслуживает маршруты календаря тренировок.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler создаёт новый хэндлер.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Create обрабатывает POST /schedule.
func (h *ScheduleHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.ScheduleRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	routineID, err := uuid.Parse(req.RoutineID)
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор рутины")
		return
	}

	schedule := &models.WorkoutSchedule{
		UserID:        userID,
		RoutineID:     routineID,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	}

	if err := h.schedules.Create(c.Request.Context(), schedule); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// List обрабатывает GET /schedule?from=...&to=...
func (h *ScheduleHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	schedules, err := h.schedules.ListByPeriod(c.Request.Context(), userID, from, to)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if schedules == nil {
		schedules = []models.WorkoutSchedule{}
	}

	c.JSON(http.StatusOK, schedules)
}

// Get обрабатывает GET /schedule/:id.
func (h *ScheduleHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор записи")
		return
	}

	schedule, err := h.schedules.Get(c.Request.Context(), id, userID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// ChangeStatus обрабатывает PUT /schedule/:id/status.
func (h *ScheduleHandler) ChangeStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор записи")
		return
	}

	var req dto.ScheduleStatusRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	schedule, err := h.schedules.ChangeStatus(c.Request.Context(), id, userID, req.Status, req.Completion)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// Update обрабатывает PUT /schedule/:id.
func (h *ScheduleHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор записи")
		return
	}

	var req dto.ScheduleUpdateRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	schedule := &models.WorkoutSchedule{
		ID:            id,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	}

	if err := h.schedules.Update(c.Request.Context(), schedule, userID); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// Delete обрабатывает DELETE /schedule/:id.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор записи")
		return
	}

	if err := h.schedules.Delete(c.Request.Context(), id, userID); err != nil {
		respondScheduleError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "запись удалена", nil)
}

// parsePeriod читает границы периода из query. По умолчанию текущая неделя.
func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -int(now.Weekday()))
	to := from.AddDate(0, 0, 7)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("параметр from должен быть в формате YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("параметр to должен быть в формате YYYY-MM-DD")
		}
		to = parsed
	}

	return from, to, nil
}

func respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrScheduleNotFound):
		common.RespondNotFound(c, "запись расписания не найдена")
	case errors.Is(err, repository.ErrRoutineNotFound):
		common.RespondNotFound(c, "рутина не найдена")
	case errors.Is(err, apperror.ErrForbidden):
		common.RespondForbidden(c, "у вас нет доступа к этой записи")
	default:
		common.RespondBadRequest(c, err.Error())
	}
}
