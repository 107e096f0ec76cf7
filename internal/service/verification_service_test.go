package service

import (
	"errors"
	"testing"
	"time"
)

func TestVerificationService_IssueAndVerify(t *testing.T) {
	svc := NewVerificationService(5 * time.Minute)
	defer svc.Close()

	code, err := svc.Issue("01012345678")
	if err != nil {
		t.Fatalf("неожиданная ошибка выдачи кода: %v", err)
	}

	if len(code) != 6 {
		t.Fatalf("ожидался шестизначный код, получен %q", code)
	}

	if err := svc.Verify("01012345678", code); err != nil {
		t.Fatalf("верный код отклонён: %v", err)
	}
}

func TestVerificationService_CodeIsSingleUse(t *testing.T) {
	svc := NewVerificationService(5 * time.Minute)
	defer svc.Close()

	code, _ := svc.Issue("01012345678")

	if err := svc.Verify("01012345678", code); err != nil {
		t.Fatalf("верный код отклонён: %v", err)
	}

	if err := svc.Verify("01012345678", code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("повторная проверка должна вернуть ErrCodeNotFound, получено %v", err)
	}
}

func TestVerificationService_WrongCodeKeepsEntry(t *testing.T) {
	svc := NewVerificationService(5 * time.Minute)
	defer svc.Close()

	code, _ := svc.Issue("01012345678")

	if err := svc.Verify("01012345678", "000000"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("ожидался ErrCodeMismatch, получено %v", err)
	}

	// Неудачная попытка не сжигает код
	if err := svc.Verify("01012345678", code); err != nil {
		t.Fatalf("верный код отклонён после неудачной попытки: %v", err)
	}
}

func TestVerificationService_ReissueReplacesCode(t *testing.T) {
	svc := NewVerificationService(5 * time.Minute)
	defer svc.Close()

	first, _ := svc.Issue("01012345678")
	second, _ := svc.Issue("01012345678")

	if first == second {
		t.Skip("коды совпали, перевыпуск неотличим")
	}

	if err := svc.Verify("01012345678", first); err == nil {
		t.Fatal("старый код должен быть аннулирован")
	}

	if err := svc.Verify("01012345678", second); err != nil {
		t.Fatalf("новый код отклонён: %v", err)
	}
}

func TestVerificationService_Expiry(t *testing.T) {
	svc := NewVerificationService(20 * time.Millisecond)
	defer svc.Close()

	code, _ := svc.Issue("01012345678")

	time.Sleep(50 * time.Millisecond)

	if err := svc.Verify("01012345678", code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("просроченный код должен вернуть ErrCodeNotFound, получено %v", err)
	}
}

func TestVerificationService_LazyExpiry(t *testing.T) {
	// Длинный TTL, но запись уже просрочена: таймер ещё не сработал,
	// проверка обязана отклонить код по сроку
	svc := NewVerificationService(time.Hour)
	defer svc.Close()

	code, _ := svc.Issue("01012345678")

	svc.mu.Lock()
	svc.entries["01012345678"].expiresAt = time.Now().Add(-time.Second)
	svc.mu.Unlock()

	if err := svc.Verify("01012345678", code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("просроченный код должен вернуть ErrCodeNotFound, получено %v", err)
	}
}

func TestVerificationService_UnknownPhone(t *testing.T) {
	svc := NewVerificationService(5 * time.Minute)
	defer svc.Close()

	if err := svc.Verify("01000000000", "123456"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("ожидался ErrCodeNotFound, получено %v", err)
	}
}

func TestVerificationService_Pending(t *testing.T) {
	svc := NewVerificationService(5 * time.Minute)
	defer svc.Close()

	if svc.Pending("01012345678") {
		t.Fatal("номер без кода не должен быть в ожидании")
	}

	_, _ = svc.Issue("01012345678")

	if !svc.Pending("01012345678") {
		t.Fatal("номер с активным кодом должен быть в ожидании")
	}
}
