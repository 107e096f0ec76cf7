package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength          = 3
	MaxUsernameLength          = 30
	MinDisplayNameLength       = 2
	MaxDisplayNameLength       = 100
	MinRoutineNameLength       = 2
	MaxRoutineNameLength       = 200
	MaxRoutineDescriptionLength = 2000
	MinRoutineDurationMinutes  = 5
	MaxRoutineDurationMinutes  = 240
	MaxExercisesPerRoutine     = 50
	MinChatMessageLength       = 1
	MaxChatMessageLength       = 4000
	MaxNotesLength             = 1000
	MinAge                     = 12
	MaxAge                     = 120
	MinWeightKg                = 20.0
	MaxWeightKg                = 500.0
	MinHeightCm                = 50.0
	MaxHeightCm                = 300.0
)

var (
	phoneRegex      = regexp.MustCompile(`^\d{10,11}$`)
	paymentPinRegex = regexp.MustCompile(`^\d{6}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidatePhone проверяет формат номера телефона: 10-11 цифр без разделителей.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("номер телефона обязателен")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("номер телефона должен содержать 10-11 цифр без разделителей")
	}
	return nil
}

// ValidatePaymentPin проверяет формат платёжного PIN: ровно 6 цифр.
func ValidatePaymentPin(pin string) error {
	if pin == "" {
		return fmt.Errorf("платёжный PIN обязателен")
	}
	if !paymentPinRegex.MatchString(pin) {
		return fmt.Errorf("платёжный PIN должен состоять из 6 цифр")
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateFitnessLevel проверяет уровень подготовки.
func ValidateFitnessLevel(level string) error {
	switch level {
	case "beginner", "intermediate", "advanced":
		return nil
	default:
		return fmt.Errorf("уровень подготовки должен быть beginner, intermediate или advanced")
	}
}

// ValidateRoutineName проверяет название рутины.
func ValidateRoutineName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("название рутины обязательно")
	}
	return ValidateLength("название рутины", name, MinRoutineNameLength, MaxRoutineNameLength)
}

// ValidateScale проверяет значение по шкале 1-10 (качество сна, стресс и т.п.).
func ValidateScale(fieldName string, value int) error {
	if value < 1 || value > 10 {
		return fmt.Errorf("%s должен быть от 1 до 10", fieldName)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}
