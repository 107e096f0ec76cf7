package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// WelfareHandler обслуживает маршруты справочника сервисов.
type WelfareHandler struct {
	welfare *service.WelfareService
}

// NewWelfareHandler создаёт новый хэндлер.
func NewWelfareHandler(welfare *service.WelfareService) *WelfareHandler {
	return &WelfareHandler{welfare: welfare}
}

// List обрабатывает GET /welfare?category=...
func (h *WelfareHandler) List(c *gin.Context) {
	services, err := h.welfare.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, services)
}

// Get обрабатывает GET /welfare/:id.
func (h *WelfareHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор сервиса")
		return
	}

	welfareService, err := h.welfare.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrWelfareServiceNotFound) {
			common.RespondNotFound(c, "сервис не найден")
			return
		}
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, welfareService)
}

// Recommend обрабатывает GET /welfare/recommendations.
func (h *WelfareHandler) Recommend(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	recommendations, err := h.welfare.Recommend(c.Request.Context(), userID)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, recommendations)
}
