package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitcoach-app/fitcoach-backend/internal/dto"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// ProfileHandler обслуживает маршруты профиля.
type ProfileHandler struct {
	auth *service.AuthService
}

// NewProfileHandler создаёт новый хэндлер.
func NewProfileHandler(auth *service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: auth}
}

// GetProfile обрабатывает GET /profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	user, profile, err := h.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondNotFound(c, "пользователь не найден")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"profile": profile,
	})
}

// UpdateProfile обрабатывает PUT /profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile := &models.Profile{
		UserID:            userID,
		DisplayName:       req.DisplayName,
		Age:               req.Age,
		Gender:            req.Gender,
		HeightCm:          req.HeightCm,
		WeightKg:          req.WeightKg,
		TargetWeightKg:    req.TargetWeightKg,
		FitnessLevel:      req.FitnessLevel,
		PreferredWorkouts: req.PreferredWorkouts,
	}
	if profile.FitnessLevel == "" {
		profile.FitnessLevel = models.FitnessLevelBeginner
	}

	if err := h.auth.UpdateProfile(c.Request.Context(), profile); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, profile)
}
