package dto

import (
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

// ErrorResponse стандартный формат ошибки.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse стандартный формат успешного ответа с сообщением.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse ответ регистрации и входа.
type AuthResponse struct {
	User    *models.User       `json:"user"`
	Profile *models.Profile    `json:"profile,omitempty"`
	Tokens  *service.TokenPair `json:"tokens"`
}

// UsernameCheckResponse ответ GET /auth/check-username.
type UsernameCheckResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// PaymentPinStatusResponse ответ GET /auth/payment-pin.
type PaymentPinStatusResponse struct {
	Registered bool `json:"registered"`
}

// TranscriptionResponse ответ POST /speech/transcribe.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// ConversationResponse ответ POST /speech/conversation.
type ConversationResponse struct {
	Transcription string `json:"transcription"`
	Reply         string `json:"reply"`
}

// UnreadCountResponse ответ GET /notifications/unread/count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// MarkAllReadResponse ответ PUT /notifications/read-all.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
