package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitcoach-app/fitcoach-backend/internal/dto"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/pkg/apperror"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// WorkoutHandler обслуживает маршруты тренировочных рутин.
type WorkoutHandler struct {
	workouts *service.WorkoutService
}

// NewWorkoutHandler создаёт новый хэндлер.
func NewWorkoutHandler(workouts *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

// Create обрабатывает POST /routines.
func (h *WorkoutHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.RoutineRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	routine := routineFromRequest(&req)
	routine.UserID = userID

	if err := h.workouts.Create(c.Request.Context(), routine); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, routine)
}

// List обрабатывает GET /routines.
func (h *WorkoutHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	routines, err := h.workouts.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	if routines == nil {
		routines = []models.WorkoutRoutine{}
	}

	c.JSON(http.StatusOK, routines)
}

// Get обрабатывает GET /routines/:id.
func (h *WorkoutHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор рутины")
		return
	}

	routine, err := h.workouts.Get(c.Request.Context(), id, userID)
	if err != nil {
		respondWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, routine)
}

// Update обрабатывает PUT /routines/:id.
func (h *WorkoutHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор рутины")
		return
	}

	var req dto.RoutineRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	routine := routineFromRequest(&req)
	routine.ID = id

	if err := h.workouts.Update(c.Request.Context(), routine, userID); err != nil {
		respondWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, routine)
}

// Delete обрабатывает DELETE /routines/:id.
func (h *WorkoutHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор рутины")
		return
	}

	if err := h.workouts.Delete(c.Request.Context(), id, userID); err != nil {
		respondWorkoutError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "рутина удалена", nil)
}

// Generate обрабатывает POST /routines/generate.
func (h *WorkoutHandler) Generate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.GenerateRoutineRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	routine, err := h.workouts.Generate(c.Request.Context(), userID, service.GenerateInput{
		Goal:            req.Goal,
		DurationMinutes: req.DurationMinutes,
		WorkoutType:     req.WorkoutType,
		Equipment:       req.Equipment,
	})
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, routine)
}

func routineFromRequest(req *dto.RoutineRequest) *models.WorkoutRoutine {
	return &models.WorkoutRoutine{
		Name:            req.Name,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurn:    req.CaloriesBurn,
		Exercises:       req.Exercises,
		Tags:            req.Tags,
	}
}

func respondWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrRoutineNotFound):
		common.RespondNotFound(c, "рутина не найдена")
	case errors.Is(err, apperror.ErrForbidden):
		common.RespondForbidden(c, "у вас нет доступа к этой рутине")
	default:
		common.RespondBadRequest(c, err.Error())
	}
}
