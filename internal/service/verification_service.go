package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// Ошибки проверки кода подтверждения.
var (
	ErrCodeNotFound = errors.New("код не запрашивался или истёк")
	ErrCodeMismatch = errors.New("неверный код подтверждения")
)

type codeEntry struct {
	code      string
	expiresAt time.Time
	timer     *time.Timer
}

// VerificationService хранит одноразовые коды подтверждения телефона в памяти
// процесса. Код живёт ограниченное время, успешная проверка удаляет его,
// повторный запрос для того же номера заменяет предыдущий код.
type VerificationService struct {
	mu      sync.Mutex
	entries map[string]*codeEntry
	ttl     time.Duration
	closed  bool
}

// NewVerificationService создаёт хранилище кодов с заданным временем жизни.
func NewVerificationService(ttl time.Duration) *VerificationService {
	return &VerificationService{
		entries: make(map[string]*codeEntry),
		ttl:     ttl,
	}
}

// Issue генерирует код для номера телефона и запускает таймер удаления.
// Предыдущий код для этого номера аннулируется.
func (s *VerificationService) Issue(phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("verification service: не удалось сгенерировать код: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", errors.New("verification service: хранилище остановлено")
	}

	if previous, ok := s.entries[phone]; ok {
		previous.timer.Stop()
	}

	entry := &codeEntry{
		code:      code,
		expiresAt: time.Now().Add(s.ttl),
	}
	entry.timer = time.AfterFunc(s.ttl, func() {
		s.expire(phone, entry)
	})
	s.entries[phone] = entry

	// TODO: подключить SMS провайдера и перестать возвращать код наружу
	return code, nil
}

// Verify сверяет код. Совпадение удаляет запись: код одноразовый.
// Неверный код запись не трогает, попытки можно повторять до истечения.
func (s *VerificationService) Verify(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phone]
	if !ok {
		return ErrCodeNotFound
	}

	// Таймер мог ещё не сработать, проверяем срок явно
	if time.Now().After(entry.expiresAt) {
		entry.timer.Stop()
		delete(s.entries, phone)
		return ErrCodeNotFound
	}

	if entry.code != code {
		return ErrCodeMismatch
	}

	entry.timer.Stop()
	delete(s.entries, phone)
	return nil
}

// Pending сообщает, ожидает ли номер подтверждения.
func (s *VerificationService) Pending(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phone]
	return ok && time.Now().Before(entry.expiresAt)
}

// Close останавливает все таймеры и очищает хранилище.
func (s *VerificationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for phone, entry := range s.entries {
		entry.timer.Stop()
		delete(s.entries, phone)
	}
	s.closed = true
}

// expire удаляет запись по срабатыванию таймера. Запись удаляется только
// если её не успел заменить новый код для того же номера.
func (s *VerificationService) expire(phone string, entry *codeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.entries[phone]; ok && current == entry {
		delete(s.entries, phone)
	}
}

// generateCode выдаёт шестизначный код из криптографического источника.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
