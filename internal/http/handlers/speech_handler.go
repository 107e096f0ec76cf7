package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/fitcoach-app/fitcoach-backend/internal/dto"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers/common"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
	"github.com/fitcoach-app/fitcoach-backend/internal/storage"
)

// Разрешённые типы голосовых записей
var allowedAudioMimeTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/m4a":   true,
	"audio/x-m4a": true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/ogg":   true,
	"audio/amr":   true,
}

// Разрешённые расширения
var allowedAudioExtensions = map[string]bool{
	".mp3": true,
	".m4a": true,
	".wav": true,
	".ogg": true,
	".amr": true,
}

// Transcriber распознаёт речь из аудиофайла.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// SpeechHandler управляет голосовыми записями: загрузка, распознавание речи
// и голосовой диалог с AI тренером.
type SpeechHandler struct {
	repo        *repository.MediaRepository
	storage     *storage.AudioStorage
	transcriber Transcriber
	chatbot     *service.ChatbotService
}

// NewSpeechHandler создаёт новый хэндлер. transcriber может быть nil,
// если AI не настроен.
func NewSpeechHandler(repo *repository.MediaRepository, storage *storage.AudioStorage, transcriber Transcriber, chatbot *service.ChatbotService) *SpeechHandler {
	return &SpeechHandler{
		repo:        repo,
		storage:     storage,
		transcriber: transcriber,
		chatbot:     chatbot,
	}
}

// Upload обрабатывает POST /speech.
func (h *SpeechHandler) Upload(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	src, file, contentType, ok := openAudioUpload(c)
	if !ok {
		return
	}
	defer src.Close()

	relativePath, size, err := h.storage.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		common.RespondInternalError(c, err.Error())
		return
	}

	clip := &models.AudioClip{
		UserID:    userID,
		FileName:  file.Filename,
		FilePath:  filepath.ToSlash(relativePath),
		MimeType:  contentType,
		SizeBytes: size,
	}

	if err := h.repo.Create(c.Request.Context(), clip); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, clip)
}

// Transcribe обрабатывает POST /speech/transcribe: распознаёт речь из
// загруженного аудиофайла без сохранения записи.
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	if _, err := common.CurrentUserID(c); err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	if h.transcriber == nil {
		common.RespondBadRequest(c, "распознавание речи не настроено")
		return
	}

	src, file, _, ok := openAudioUpload(c)
	if !ok {
		return
	}
	defer src.Close()

	text, err := h.transcriber.Transcribe(c.Request.Context(), file.Filename, src)
	if err != nil {
		common.RespondInternalError(c, "не удалось распознать речь")
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptionResponse{Text: text})
}

// Converse обрабатывает POST /speech/conversation: распознаёт голосовое
// сообщение и отвечает на него через AI тренера.
func (h *SpeechHandler) Converse(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	if h.transcriber == nil {
		common.RespondBadRequest(c, "распознавание речи не настроено")
		return
	}

	src, file, _, ok := openAudioUpload(c)
	if !ok {
		return
	}
	defer src.Close()

	text, err := h.transcriber.Transcribe(c.Request.Context(), file.Filename, src)
	if err != nil {
		common.RespondInternalError(c, "не удалось распознать речь")
		return
	}

	if strings.TrimSpace(text) == "" {
		common.RespondBadRequest(c, "в записи не распознана речь")
		return
	}

	reply, err := h.chatbot.Ask(c.Request.Context(), userID, text)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ConversationResponse{
		Transcription: text,
		Reply:         reply.Content,
	})
}

// List обрабатывает GET /speech.
func (h *SpeechHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	clips, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	if clips == nil {
		clips = []models.AudioClip{}
	}

	c.JSON(http.StatusOK, clips)
}

// Delete обрабатывает DELETE /speech/:id.
func (h *SpeechHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "некорректный идентификатор")
		return
	}

	clip, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAudioClipNotFound) {
			common.RespondNotFound(c, "запись не найдена")
			return
		}
		common.RespondInternalError(c, "")
		return
	}

	if clip.UserID != userID {
		common.RespondForbidden(c, "у вас нет прав на удаление этой записи")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	if err := h.storage.Delete(c.Request.Context(), clip.FilePath); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// openAudioUpload достаёт файл из multipart формы и проверяет, что это
// аудиозапись разрешённого формата. При ошибке сам пишет ответ и возвращает
// ok=false. Позиция чтения возвращается к началу файла.
func openAudioUpload(c *gin.Context) (multipart.File, *multipart.FileHeader, string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
		return nil, nil, "", false
	}

	if file.Size == 0 {
		common.RespondBadRequest(c, "файл не может быть пустым")
		return nil, nil, "", false
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAudioExtensions[ext] {
		common.RespondBadRequest(c, fmt.Sprintf("неподдерживаемый формат файла. Разрешены: %s", strings.Join(audioExtensions(), ", ")))
		return nil, nil, "", false
	}

	src, err := file.Open()
	if err != nil {
		common.RespondInternalError(c, "")
		return nil, nil, "", false
	}

	// Проверяем магические байты, расширению не доверяем
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		src.Close()
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return nil, nil, "", false
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		src.Close()
		common.RespondBadRequest(c, "не удалось определить тип файла. Разрешены только аудиозаписи")
		return nil, nil, "", false
	}

	contentType := kind.MIME.Value
	if !allowedAudioMimeTypes[contentType] {
		src.Close()
		common.RespondBadRequest(c, fmt.Sprintf("неподдерживаемый тип файла (%s)", contentType))
		return nil, nil, "", false
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			src.Close()
			common.RespondInternalError(c, "не удалось сбросить позицию файла")
			return nil, nil, "", false
		}
	}

	return src, file, contentType, true
}

// audioExtensions возвращает список разрешённых расширений.
func audioExtensions() []string {
	exts := make([]string, 0, len(allowedAudioExtensions))
	for ext := range allowedAudioExtensions {
		exts = append(exts, ext)
	}
	return exts
}
