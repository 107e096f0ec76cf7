package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitcoach-app/fitcoach-backend/internal/dto"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// ChatbotHandler обслуживает маршруты диалога с AI тренером.
type ChatbotHandler struct {
	chatbot *service.ChatbotService
}

// NewChatbotHandler создаёт новый хэндлер.
func NewChatbotHandler(chatbot *service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot}
}

// Ask обрабатывает POST /coach/chat.
func (h *ChatbotHandler) Ask(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.ChatRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	reply, err := h.chatbot.Ask(c.Request.Context(), userID, req.Message)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, reply)
}

// History обрабатывает GET /coach/chat/history.
func (h *ChatbotHandler) History(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit := common.ParseIntQuery(c, "limit", 50)

	messages, err := h.chatbot.History(c.Request.Context(), userID, limit)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	c.JSON(http.StatusOK, messages)
}

// Clear обрабатывает DELETE /coach/chat/history.
func (h *ChatbotHandler) Clear(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	if err := h.chatbot.Clear(c.Request.Context(), userID); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "история диалога очищена", nil)
}
