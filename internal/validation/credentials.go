package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// EmailPattern определяет допустимый формат email:
// непустые части без пробелов и @, точка в домене
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLen минимальная длина пароля
const MinPasswordLen = 10

var (
	// ErrInvalidEmail email не соответствует EmailPattern
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword пароль не проходит политику сложности
	ErrWeakPassword = errors.New("password does not meet complexity requirements")
)

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if !EmailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword проверяет политику пароля:
// минимум 10 символов, строчная и заглавная латинская буква, цифра и спецсимвол
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return ErrWeakPassword
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}

	if !lower || !upper || !digit || !special {
		return ErrWeakPassword
	}

	return nil
}
