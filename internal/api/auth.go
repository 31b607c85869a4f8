package api

import "github.com/iudanet/jobboard/internal/models"

// CredentialsRequest тело запросов signup и login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse ответ на успешную регистрацию
type SignupResponse struct {
	Message           string `json:"message"`
	Email             string `json:"email"`
	NeedsVerification bool   `json:"needsVerification"`
}

// LoginResponse ответ на успешный вход. Refresh token передается в cookie.
type LoginResponse struct {
	Message     string       `json:"message"`
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// RefreshResponse ответ на ротацию токенов
type RefreshResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// MessageResponse ответ, содержащий только сообщение
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error             string `json:"error"`                       // описание ошибки
	NeedsVerification bool   `json:"needsVerification,omitempty"` // требуется подтверждение email
}
