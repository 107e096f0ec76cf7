package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitcoach-app/fitcoach-backend/internal/dto"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// AuthHandler обслуживает маршруты аутентификации.
type AuthHandler struct {
	auth       *service.AuthService
	exposeCode bool
}

// NewAuthHandler создаёт новый хэндлер. exposeCode включает возврат кода
// подтверждения в ответе (только вне production, пока не подключён SMS шлюз).
func NewAuthHandler(auth *service.AuthService, exposeCode bool) *AuthHandler {
	return &AuthHandler{auth: auth, exposeCode: exposeCode}
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		DisplayName: req.DisplayName,
	}, requestMeta(c))
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		User:    result.User,
		Profile: result.Profile,
		Tokens:  result.TokenPair,
	})
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		common.RespondUnauthorized(c, "неверный email или пароль")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:    result.User,
		Profile: result.Profile,
		Tokens:  result.TokenPair,
	})
}

// CheckUsername обрабатывает GET /auth/check-username. Публичный маршрут
// для проверки имени до регистрации.
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")

	available, err := h.auth.IsUsernameAvailable(c.Request.Context(), username)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.UsernameCheckResponse{
		Username:  username,
		Available: available,
	})
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, requestMeta(c))
	if err != nil {
		common.RespondUnauthorized(c, "refresh токен невалиден")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout обрабатывает POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "выход выполнен", nil)
}

// RequestPhoneCode обрабатывает POST /auth/phone/code.
func (h *AuthHandler) RequestPhoneCode(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.PhoneCodeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	code, err := h.auth.RequestPhoneCode(c.Request.Context(), userID, req.Phone)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	resp := gin.H{"message": "код отправлен"}
	if h.exposeCode {
		resp["code"] = code
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPhone обрабатывает POST /auth/phone/verify.
func (h *AuthHandler) VerifyPhone(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.PhoneVerifyRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.VerifyPhone(c.Request.Context(), userID, req.Phone, req.Code); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	common.RespondSuccess(c, http.StatusOK, "номер подтверждён", nil)
}

// CheckPaymentPin обрабатывает GET /auth/payment-pin.
func (h *AuthHandler) CheckPaymentPin(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	registered, err := h.auth.HasPaymentPin(c.Request.Context(), userID)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.PaymentPinStatusResponse{Registered: registered})
}

// SetPaymentPin обрабатывает PUT /auth/payment-pin.
func (h *AuthHandler) SetPaymentPin(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.PaymentPinRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.SetPaymentPin(c.Request.Context(), userID, req.Pin); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	common.RespondSuccess(c, http.StatusOK, "платёжный PIN установлен", nil)
}

// VerifyPaymentPin обрабатывает POST /auth/payment-pin/verify.
func (h *AuthHandler) VerifyPaymentPin(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.PaymentPinRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.VerifyPaymentPin(c.Request.Context(), userID, req.Pin); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	common.RespondSuccess(c, http.StatusOK, "PIN подтверждён", nil)
}

// DeleteAccount обрабатывает DELETE /auth/account.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	if err := h.auth.DeleteAccount(c.Request.Context(), userID); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "аккаунт деактивирован", nil)
}

// requestMeta собирает метаданные запроса для сессии.
func requestMeta(c *gin.Context) map[string]string {
	return map[string]string{
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}
}
