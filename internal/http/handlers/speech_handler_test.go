package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcoach-app/fitcoach-backend/internal/http/middleware"
)

// stubTranscriber возвращает заранее заданную расшифровку.
type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func setupSpeechRouter(t *testing.T, userID uuid.UUID, transcriber Transcriber) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewSpeechHandler(nil, nil, transcriber, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	r.POST("/speech/transcribe", handler.Transcribe)

	return r
}

// wavBytes собирает минимальный валидный заголовок WAV.
func wavBytes() []byte {
	return []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
}

func audioUploadRequest(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSpeechHandler_Transcribe(t *testing.T) {
	r := setupSpeechRouter(t, uuid.New(), &stubTranscriber{text: "сегодня пробежал пять километров"})

	req := audioUploadRequest(t, "/speech/transcribe", "voice.wav", wavBytes())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "сегодня пробежал пять километров", resp.Text)
}

func TestSpeechHandler_Transcribe_UnsupportedExtension(t *testing.T) {
	r := setupSpeechRouter(t, uuid.New(), &stubTranscriber{text: "текст"})

	req := audioUploadRequest(t, "/speech/transcribe", "notes.txt", []byte("просто текст"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSpeechHandler_Transcribe_WrongMagicBytes(t *testing.T) {
	r := setupSpeechRouter(t, uuid.New(), &stubTranscriber{text: "текст"})

	// Расширение аудио, но содержимое не аудио
	req := audioUploadRequest(t, "/speech/transcribe", "voice.wav", []byte("это не звук"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSpeechHandler_Transcribe_NotConfigured(t *testing.T) {
	r := setupSpeechRouter(t, uuid.New(), nil)

	req := audioUploadRequest(t, "/speech/transcribe", "voice.wav", wavBytes())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSpeechHandler_Transcribe_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSpeechHandler(nil, nil, &stubTranscriber{text: "текст"}, nil)
	r := gin.New()
	r.POST("/speech/transcribe", handler.Transcribe)

	req := audioUploadRequest(t, "/speech/transcribe", "voice.wav", wavBytes())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
