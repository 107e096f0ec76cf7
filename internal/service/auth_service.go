package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/logger"
	"github.com/fitcoach-app/fitcoach-backend/internal/models"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePhone(ctx context.Context, userID uuid.UUID, phone string) error
	SetPhoneVerified(ctx context.Context, userID uuid.UUID) error
	SetPaymentPin(ctx context.Context, userID uuid.UUID, pinHash string) error
	SoftDelete(ctx context.Context, userID uuid.UUID) error
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, refreshToken string) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
}

// Ошибки операций с платёжным PIN.
var (
	ErrPaymentPinNotSet   = errors.New("платёжный PIN не установлен")
	ErrPaymentPinMismatch = errors.New("неверный платёжный PIN")
)

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
	verification *VerificationService
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Email       string
	Password    string
	Username    string
	DisplayName string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	Profile   *models.Profile
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager, verification *VerificationService) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
		verification: verification,
	}
}

// Register создаёт нового пользователя и профиль.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta map[string]string) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("auth service: email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	username := in.Username
	if username == "" {
		username = deriveUsername(in.Email)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("auth service: имя пользователя занято")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(in.Email),
		Username:     username,
		PasswordHash: string(passHash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	displayName := in.DisplayName
	if displayName == "" {
		displayName = username
	}

	profile := &models.Profile{
		UserID:            user.ID,
		DisplayName:       displayName,
		FitnessLevel:      models.FitnessLevelBeginner,
		PreferredWorkouts: []string{},
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	applySessionMeta(session, meta)

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		Profile:   profile,
		TokenPair: tokenPair,
	}, nil
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta map[string]string) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		// Не прерываем вход из-за вспомогательного поля
		logger.Log.WithField("user_id", user.ID).WithError(err).Warn("auth service: не удалось обновить last_login_at")
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	applySessionMeta(session, meta)

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, user.ID)
	if err != nil {
		profile = nil
	}

	return &AuthResult{
		User:      user,
		Profile:   profile,
		TokenPair: tokenPair,
	}, nil
}

// Refresh выпускает новую пару токенов.
func (s *AuthService) Refresh(ctx context.Context, oldToken string, meta map[string]string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, fmt.Errorf("auth service: refresh токен невалиден: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth service: некорректный subject: %w", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, oldToken); err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       userID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	applySessionMeta(session, meta)

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// Logout удаляет сессию по refresh токену.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

// RequestPhoneCode привязывает номер к пользователю и выдаёт код подтверждения.
func (s *AuthService) RequestPhoneCode(ctx context.Context, userID uuid.UUID, phone string) (string, error) {
	if err := validation.ValidatePhone(phone); err != nil {
		return "", fmt.Errorf("auth service: %w", err)
	}

	// Номер не должен принадлежать другому пользователю
	if owner, err := s.repo.GetByPhone(ctx, phone); err == nil && owner.ID != userID {
		return "", fmt.Errorf("auth service: номер уже используется")
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return "", err
	}

	if err := s.repo.UpdatePhone(ctx, userID, phone); err != nil {
		return "", err
	}

	code, err := s.verification.Issue(phone)
	if err != nil {
		return "", err
	}

	return code, nil
}

// VerifyPhone сверяет код и помечает номер подтверждённым.
func (s *AuthService) VerifyPhone(ctx context.Context, userID uuid.UUID, phone, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Phone == nil || *user.Phone != phone {
		return fmt.Errorf("auth service: номер не совпадает с привязанным")
	}

	if err := s.verification.Verify(phone, code); err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	return s.repo.SetPhoneVerified(ctx, userID)
}

// IsUsernameAvailable проверяет, свободно ли имя пользователя.
// Имена деактивированных аккаунтов считаются свободными.
func (s *AuthService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return false, fmt.Errorf("auth service: %w", err)
	}

	_, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// HasPaymentPin сообщает, установлен ли у пользователя платёжный PIN.
func (s *AuthService) HasPaymentPin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	return user.PaymentPinHash != nil && *user.PaymentPinHash != "", nil
}

// SetPaymentPin устанавливает или заменяет платёжный PIN пользователя.
func (s *AuthService) SetPaymentPin(ctx context.Context, userID uuid.UUID, pin string) error {
	if err := validation.ValidatePaymentPin(pin); err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth service: не удалось захешировать PIN: %w", err)
	}

	return s.repo.SetPaymentPin(ctx, userID, string(pinHash))
}

// VerifyPaymentPin сверяет PIN с сохранённым хешем.
func (s *AuthService) VerifyPaymentPin(ctx context.Context, userID uuid.UUID, pin string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.PaymentPinHash == nil || *user.PaymentPinHash == "" {
		return fmt.Errorf("auth service: %w", ErrPaymentPinNotSet)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PaymentPinHash), []byte(pin)); err != nil {
		return fmt.Errorf("auth service: %w", ErrPaymentPinMismatch)
	}

	return nil
}

// GetProfile возвращает профиль пользователя.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, err
		}
		profile = nil
	}

	return user, profile, nil
}

// UpdateProfile сохраняет анкетные данные пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	if err := validation.ValidateLength("имя", profile.DisplayName, 1, 100); err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	if profile.FitnessLevel != "" {
		if err := validation.ValidateFitnessLevel(profile.FitnessLevel); err != nil {
			return fmt.Errorf("auth service: %w", err)
		}
	}

	return s.repo.UpsertProfile(ctx, profile)
}

// DeleteAccount деактивирует пользователя и снимает все его сессии.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}

	return s.repo.DeleteUserSessions(ctx, userID)
}

// applySessionMeta переносит user agent и адрес клиента в сессию.
func applySessionMeta(session *models.Session, meta map[string]string) {
	if meta == nil {
		return
	}
	if ua, ok := meta["user_agent"]; ok {
		session.UserAgent = &ua
	}
	if ip, ok := meta["ip"]; ok {
		session.IPAddress = &ip
	}
}

// deriveUsername формирует username из email.
func deriveUsername(email string) string {
	name := strings.Split(email, "@")[0]
	name = strings.NewReplacer(".", "_", "+", "_").Replace(name)
	name = strings.ToLower(name)
	if len(name) < 3 {
		name = "user_" + uuid.NewString()[:6]
	}
	return name
}
