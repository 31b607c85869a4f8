// Package auth выпускает и проверяет JWT токены трех видов:
// access (Bearer), refresh (cookie) и email (ссылка подтверждения почты).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind вид токена
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindEmail   Kind = "email"
)

// ErrInvalidToken возвращается для любого токена, не прошедшего проверку
var ErrInvalidToken = errors.New("invalid token")

// Claims представляет JWT claims для нашего приложения
type Claims struct {
	UserID string `json:"userID"`
	Kind   Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// KeyConfig секрет и время жизни токенов одного вида
type KeyConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Config содержит конфигурацию для всех видов токенов
type Config struct {
	Access  KeyConfig
	Refresh KeyConfig
	Email   KeyConfig
}

// Service выпускает и проверяет токены.
// Безопасен для конкурентного использования.
type Service struct {
	keys map[Kind]KeyConfig
	now  func() time.Time
}

// NewService создает Service; секреты всех видов обязательны
func NewService(cfg Config) (*Service, error) {
	keys := map[Kind]KeyConfig{
		KindAccess:  cfg.Access,
		KindRefresh: cfg.Refresh,
		KindEmail:   cfg.Email,
	}

	for kind, key := range keys {
		if len(key.Secret) == 0 {
			return nil, fmt.Errorf("%s token secret is empty", kind)
		}
		if key.TTL <= 0 {
			return nil, fmt.Errorf("%s token ttl must be positive", kind)
		}
	}

	return &Service{keys: keys, now: time.Now}, nil
}

// IssueAccess создает access token для Bearer авторизации
func (s *Service) IssueAccess(userID string) (string, error) {
	return s.issue(KindAccess, userID)
}

// IssueRefresh создает refresh token для cookie
func (s *Service) IssueRefresh(userID string) (string, error) {
	return s.issue(KindRefresh, userID)
}

// IssueEmailVerify создает короткоживущий токен для ссылки подтверждения почты
func (s *Service) IssueEmailVerify(userID string) (string, error) {
	return s.issue(KindEmail, userID)
}

// TTL возвращает время жизни токенов вида kind
func (s *Service) TTL(kind Kind) time.Duration {
	return s.keys[kind].TTL
}

// Verify проверяет подпись, срок действия и вид токена.
// Возвращает ID пользователя из claims.
func (s *Service) Verify(kind Kind, tokenString string) (string, error) {
	key, ok := s.keys[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key.Secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Kind != kind {
		return "", fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, kind, claims.Kind)
	}

	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return claims.UserID, nil
}

func (s *Service) issue(kind Kind, userID string) (string, error) {
	key := s.keys[kind]
	now := s.now()

	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(key.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "jobboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}
