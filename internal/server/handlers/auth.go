package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/jobboard/internal/api"
	"github.com/iudanet/jobboard/internal/crypto"
	"github.com/iudanet/jobboard/internal/mailer"
	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/server/auth"
	"github.com/iudanet/jobboard/internal/server/storage"
	"github.com/iudanet/jobboard/internal/validation"
)

// RefreshCookieName имя cookie с refresh token
const RefreshCookieName = "refreshToken"

// TokenService выпускает и проверяет токены
type TokenService interface {
	IssueAccess(userID string) (string, error)
	IssueRefresh(userID string) (string, error)
	IssueEmailVerify(userID string) (string, error)
	Verify(kind auth.Kind, token string) (string, error)
	TTL(kind auth.Kind) time.Duration
}

// AuthConfig настройки auth handler
type AuthConfig struct {
	// ClientURL адрес фронтенда для ссылки подтверждения почты
	ClientURL string
	// SecureCookies включает Secure и SameSite=None (production)
	SecureCookies bool
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	tokens TokenService
	mail   mailer.Sender
	cfg    AuthConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, tokens TokenService, mail mailer.Sender, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		tokens: tokens,
		mail:   mail,
		cfg:    cfg,
	}
}

// Signup обрабатывает POST /api/auth/signup
// Регистрация нового пользователя и отправка письма подтверждения
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signup request", slog.Any("error", err))
		WriteError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		WriteError(w, h.logger, "Please provide email and password", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateEmail(email); err != nil {
		WriteError(w, h.logger, "Please provide a valid email address", http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		WriteError(w, h.logger,
			"Password must be at least 10 characters, contain one uppercase letter, one lowercase letter, one number, and one special character",
			http.StatusBadRequest)
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "email already registered", slog.String("email", email))
			WriteError(w, h.logger, "Email already registered", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	emailToken, err := h.tokens.IssueEmailVerify(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue email token", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	msg := mailer.NewVerificationMessage(user.Email, h.cfg.ClientURL, emailToken)
	if err := h.mail.Send(ctx, msg); err != nil {
		h.logger.ErrorContext(ctx, "failed to send verification email",
			slog.String("user_id", user.ID), slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully", slog.String("user_id", user.ID))

	WriteJSON(w, h.logger, api.SignupResponse{
		Message:           "Signup successful. Please check your email to verify your account before logging in",
		Email:             user.Email,
		NeedsVerification: true,
	}, http.StatusCreated)
}

// Login обрабатывает POST /api/auth/login
// Выдает access token в теле ответа и refresh token в cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		WriteError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		WriteError(w, h.logger, "Please provide email and password", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found")
			WriteError(w, h.logger, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	if err := crypto.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("user_id", user.ID))
			WriteError(w, h.logger, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to verify password", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	if !user.Verified {
		writeNeedsVerification(w, h.logger, "Please verify your email before logging in")
		return
	}

	accessToken, ok := h.issueSession(w, r, user.ID)
	if !ok {
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.String("user_id", user.ID))

	WriteJSON(w, h.logger, api.LoginResponse{
		Message:     "Successfully logged in",
		User:        user,
		AccessToken: accessToken,
	}, http.StatusOK)
}

// RefreshToken обрабатывает POST /api/auth/refresh-token
// Ротация пары токенов по refresh cookie
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	userID, err := h.tokens.Verify(auth.KindRefresh, cookie.Value)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid refresh token", slog.Any("error", err))
		WriteError(w, h.logger, "Invalid refresh token", http.StatusForbidden)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			WriteError(w, h.logger, "User no longer exist", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	if !user.Verified {
		h.clearRefreshCookie(w)
		writeNeedsVerification(w, h.logger, "Email verification required")
		return
	}

	accessToken, ok := h.issueSession(w, r, user.ID)
	if !ok {
		return
	}

	h.logger.InfoContext(ctx, "tokens refreshed successfully", slog.String("user_id", user.ID))

	WriteJSON(w, h.logger, api.RefreshResponse{
		AccessToken: accessToken,
		User:        user,
	}, http.StatusOK)
}

// Logout обрабатывает POST /api/auth/logout
// Токены не хранятся на сервере, поэтому достаточно удалить cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearRefreshCookie(w)
	WriteJSON(w, h.logger, api.MessageResponse{Message: "Successfully logged out"}, http.StatusOK)
}

// VerifyEmail обрабатывает GET /api/auth/verify-email?token=
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		WriteError(w, h.logger, "Token is missing", http.StatusUnauthorized)
		return
	}

	userID, err := h.tokens.Verify(auth.KindEmail, token)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid email token", slog.Any("error", err))
		WriteError(w, h.logger, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	if err := h.users.MarkVerified(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			WriteError(w, h.logger, "User doesn't exist", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to mark user verified", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "email verified", slog.String("user_id", userID))

	WriteJSON(w, h.logger, api.MessageResponse{Message: "Email is verified"}, http.StatusOK)
}

// issueSession выпускает access token и ставит refresh cookie.
// При ошибке ответ уже отправлен и ok == false.
func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, userID string) (string, bool) {
	ctx := r.Context()

	accessToken, err := h.tokens.IssueAccess(userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return "", false
	}

	refreshToken, err := h.tokens.IssueRefresh(userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue refresh token", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return "", false
	}

	http.SetCookie(w, h.refreshCookie(refreshToken, int(h.tokens.TTL(auth.KindRefresh).Seconds())))

	return accessToken, true
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	cookie := h.refreshCookie("", -1)
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

func (h *AuthHandler) refreshCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.SecureCookies {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
