package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail    map[string]*models.User
	usersByUsername map[string]*models.User
	usersByID       map[uuid.UUID]*models.User
	profiles        map[uuid.UUID]*models.Profile
	sessions        map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail:    make(map[string]*models.User),
		usersByUsername: make(map[string]*models.User),
		usersByID:       make(map[uuid.UUID]*models.User),
		profiles:        make(map[uuid.UUID]*models.Profile),
		sessions:        make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	m.usersByEmail[user.Email] = user
	m.usersByUsername[user.Username] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok && user.IsActive {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.usersByUsername[username]; ok && user.IsActive {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	for _, user := range m.usersByID {
		if user.Phone != nil && *user.Phone == phone && user.IsActive {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok && user.IsActive {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpdatePhone(ctx context.Context, userID uuid.UUID, phone string) error {
	if user, ok := m.usersByID[userID]; ok {
		user.Phone = &phone
		user.PhoneVerified = false
		return nil
	}
	return repository.ErrUserNotFound
}

func (m *mockAuthRepository) SetPhoneVerified(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		user.PhoneVerified = true
		return nil
	}
	return repository.ErrUserNotFound
}

func (m *mockAuthRepository) SetPaymentPin(ctx context.Context, userID uuid.UUID, pinHash string) error {
	if user, ok := m.usersByID[userID]; ok && user.IsActive {
		user.PaymentPinHash = &pinHash
		return nil
	}
	return repository.ErrUserNotFound
}

func (m *mockAuthRepository) SoftDelete(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		user.IsActive = false
		return nil
	}
	return repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (m *mockAuthRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func newTestAuthService(repo AuthRepository) *AuthService {
	tokenManager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	verification := NewVerificationService(5 * time.Minute)
	return NewAuthService(repo, tokenManager, verification)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "Password1",
		Username: "testuser",
	}, nil)
	if err != nil {
		t.Fatalf("неожиданная ошибка регистрации: %v", err)
	}

	if result.User.ID == uuid.Nil {
		t.Fatal("пользователь не создан")
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Fatal("токены не выпущены")
	}
	if result.Profile == nil || result.Profile.FitnessLevel != models.FitnessLevelBeginner {
		t.Fatal("профиль должен создаваться с уровнем beginner")
	}

	login, err := svc.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "Password1",
	}, nil)
	if err != nil {
		t.Fatalf("неожиданная ошибка входа: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Fatal("вход вернул другого пользователя")
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	in := RegisterInput{Email: "user@example.com", Password: "Password1", Username: "first"}
	if _, err := svc.Register(context.Background(), in, nil); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	in.Username = "second"
	if _, err := svc.Register(context.Background(), in, nil); err == nil {
		t.Fatal("повторная регистрация email должна быть отклонена")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.DefaultCost)
	user := &models.User{Email: "user@example.com", Username: "testuser", PasswordHash: string(hash)}
	_ = repo.Create(context.Background(), user)

	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "WrongPass1",
	}, nil); err == nil {
		t.Fatal("вход с неверным паролем должен быть отклонён")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "Password1",
		Username: "testuser",
	}, nil)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), result.TokenPair.RefreshToken, nil)
	if err != nil {
		t.Fatalf("неожиданная ошибка обновления: %v", err)
	}
	if pair.RefreshToken == result.TokenPair.RefreshToken {
		t.Fatal("refresh должен выпускать новый токен")
	}

	// Старая сессия удалена
	if _, ok := repo.sessions[result.TokenPair.RefreshToken]; ok {
		t.Fatal("старая сессия должна быть удалена")
	}
}

func TestAuthService_PhoneVerificationFlow(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	result, _ := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "Password1",
		Username: "testuser",
	}, nil)
	userID := result.User.ID

	code, err := svc.RequestPhoneCode(context.Background(), userID, "01012345678")
	if err != nil {
		t.Fatalf("неожиданная ошибка запроса кода: %v", err)
	}

	if err := svc.VerifyPhone(context.Background(), userID, "01012345678", "000000"); err == nil {
		t.Fatal("неверный код должен быть отклонён")
	}
	if repo.usersByID[userID].PhoneVerified {
		t.Fatal("номер не должен быть подтверждён после неверного кода")
	}

	if err := svc.VerifyPhone(context.Background(), userID, "01012345678", code); err != nil {
		t.Fatalf("верный код отклонён: %v", err)
	}
	if !repo.usersByID[userID].PhoneVerified {
		t.Fatal("номер должен быть подтверждён")
	}

	// Код одноразовый
	if err := svc.VerifyPhone(context.Background(), userID, "01012345678", code); err == nil {
		t.Fatal("повторное использование кода должно быть отклонено")
	}
}

func TestAuthService_IsUsernameAvailable(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	available, err := svc.IsUsernameAvailable(context.Background(), "newuser")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !available {
		t.Fatal("незанятое имя должно быть свободно")
	}

	result, _ := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "Password1",
		Username: "newuser",
	}, nil)

	available, err = svc.IsUsernameAvailable(context.Background(), "newuser")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if available {
		t.Fatal("занятое имя не должно быть свободно")
	}

	// Некорректный формат отклоняется валидацией
	if _, err := svc.IsUsernameAvailable(context.Background(), "1x"); err == nil {
		t.Fatal("некорректное имя должно быть отклонено")
	}

	// Имя деактивированного аккаунта снова свободно
	_ = svc.DeleteAccount(context.Background(), result.User.ID)
	available, _ = svc.IsUsernameAvailable(context.Background(), "newuser")
	if !available {
		t.Fatal("имя удалённого аккаунта должно быть свободно")
	}
}

func TestAuthService_PaymentPinFlow(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	result, _ := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "Password1",
		Username: "testuser",
	}, nil)
	userID := result.User.ID

	// До установки PIN нет
	registered, err := svc.HasPaymentPin(context.Background(), userID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if registered {
		t.Fatal("PIN не должен числиться установленным")
	}
	if err := svc.VerifyPaymentPin(context.Background(), userID, "123456"); !errors.Is(err, ErrPaymentPinNotSet) {
		t.Fatalf("ожидался ErrPaymentPinNotSet, получено %v", err)
	}

	// Формат строго 6 цифр
	if err := svc.SetPaymentPin(context.Background(), userID, "12345"); err == nil {
		t.Fatal("короткий PIN должен быть отклонён")
	}
	if err := svc.SetPaymentPin(context.Background(), userID, "12345a"); err == nil {
		t.Fatal("PIN с буквами должен быть отклонён")
	}

	if err := svc.SetPaymentPin(context.Background(), userID, "123456"); err != nil {
		t.Fatalf("неожиданная ошибка установки PIN: %v", err)
	}

	registered, _ = svc.HasPaymentPin(context.Background(), userID)
	if !registered {
		t.Fatal("PIN должен числиться установленным")
	}

	// В БД хранится хеш, а не сам PIN
	if hash := repo.usersByID[userID].PaymentPinHash; hash == nil || *hash == "123456" {
		t.Fatal("PIN должен храниться в виде bcrypt хеша")
	}

	if err := svc.VerifyPaymentPin(context.Background(), userID, "654321"); !errors.Is(err, ErrPaymentPinMismatch) {
		t.Fatalf("ожидался ErrPaymentPinMismatch, получено %v", err)
	}
	if err := svc.VerifyPaymentPin(context.Background(), userID, "123456"); err != nil {
		t.Fatalf("верный PIN отклонён: %v", err)
	}
}

func TestAuthService_RequestPhoneCodeTakenNumber(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	first, _ := svc.Register(context.Background(), RegisterInput{
		Email: "first@example.com", Password: "Password1", Username: "firstuser",
	}, nil)
	second, _ := svc.Register(context.Background(), RegisterInput{
		Email: "second@example.com", Password: "Password1", Username: "seconduser",
	}, nil)

	if _, err := svc.RequestPhoneCode(context.Background(), first.User.ID, "01012345678"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if _, err := svc.RequestPhoneCode(context.Background(), second.User.ID, "01012345678"); err == nil {
		t.Fatal("чужой номер должен быть отклонён")
	}
}
