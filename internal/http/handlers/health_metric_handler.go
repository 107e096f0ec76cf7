package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitcoach-app/fitcoach-backend/internal/dto"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// HealthMetricHandler обслуживает маршруты дневника здоровья.
type HealthMetricHandler struct {
	health *service.HealthService
	auth   *service.AuthService
}

// NewHealthMetricHandler создаёт новый хэндлер.
func NewHealthMetricHandler(health *service.HealthService, auth *service.AuthService) *HealthMetricHandler {
	return &HealthMetricHandler{health: health, auth: auth}
}

// Create обрабатывает POST /health-metrics.
func (h *HealthMetricHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.HealthMetricRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	metric := metricFromRequest(&req)
	metric.UserID = userID

	// Рост берём из профиля для расчёта BMI
	var heightCm *float64
	if _, profile, err := h.auth.GetProfile(c.Request.Context(), userID); err == nil && profile != nil {
		heightCm = profile.HeightCm
	}

	if err := h.health.Create(c.Request.Context(), metric, heightCm); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, metric)
}

// List обрабатывает GET /health-metrics?from=...&to=...
func (h *HealthMetricHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	from, to, err := parseMetricPeriod(c)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	metrics, err := h.health.ListByPeriod(c.Request.Context(), userID, from, to)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if metrics == nil {
		metrics = []models.HealthMetric{}
	}

	c.JSON(http.StatusOK, metrics)
}

// Latest обрабатывает GET /health-metrics/latest.
func (h *HealthMetricHandler) Latest(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	metric, err := h.health.Latest(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrHealthMetricNotFound) {
			common.RespondNotFound(c, "измерений ещё нет")
			return
		}
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, metric)
}

// Summary обрабатывает GET /health-metrics/summary?from=...&to=...
func (h *HealthMetricHandler) Summary(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	from, to, err := parseMetricPeriod(c)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	summary, err := h.health.Summary(c.Request.Context(), userID, from, to)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Update обрабатывает PUT /health-metrics/:id.
func (h *HealthMetricHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор измерения")
		return
	}

	var req dto.HealthMetricRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	metric := metricFromRequest(&req)
	metric.ID = id

	if err := h.health.Update(c.Request.Context(), metric, userID); err != nil {
		respondMetricError(c, err)
		return
	}

	c.JSON(http.StatusOK, metric)
}

// Delete обрабатывает DELETE /health-metrics/:id.
func (h *HealthMetricHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор измерения")
		return
	}

	if err := h.health.Delete(c.Request.Context(), id, userID); err != nil {
		respondMetricError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "измерение удалено", nil)
}

func metricFromRequest(req *dto.HealthMetricRequest) *models.HealthMetric {
	metric := &models.HealthMetric{
		WeightKg:         req.WeightKg,
		BodyFatPct:       req.BodyFatPct,
		MuscleWeightKg:   req.MuscleWeightKg,
		RestingHeartRate: req.RestingHeartRate,
		SystolicBP:       req.SystolicBP,
		DiastolicBP:      req.DiastolicBP,
		SleepHours:       req.SleepHours,
		SleepQuality:     req.SleepQuality,
		StressLevel:      req.StressLevel,
		EnergyLevel:      req.EnergyLevel,
		CaloriesConsumed: req.CaloriesConsumed,
		WaterLiters:      req.WaterLiters,
		Notes:            req.Notes,
	}
	if req.Date != nil {
		metric.Date = *req.Date
	}
	return metric
}

// parseMetricPeriod читает границы периода. По умолчанию последние 30 дней.
func parseMetricPeriod(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

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

func respondMetricError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrHealthMetricNotFound):
		common.RespondNotFound(c, "измерение не найдено")
	case errors.Is(err, apperror.ErrForbidden):
		common.RespondForbidden(c, "у вас нет доступа к этому измерению")
	default:
		common.RespondBadRequest(c, err.Error())
	}
}
