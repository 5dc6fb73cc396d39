// Package jwt issues and validates session tokens. A session token binds one
// client session to the notebook file path it joined.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "mythic-rtc"

// ErrInvalidToken returned when the token is malformed, expired or badly signed
var ErrInvalidToken = errors.New("invalid session token")

// Claims представляет JWT claims сессии. ID (jti): идентификатор сессии.
type Claims struct {
	FilePath string `json:"file_path"`
	gojwt.RegisteredClaims
}

// Service подписывает и проверяет токены сессий
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a new JWT service
// secret should be a cryptographically secure random string
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue создает токен новой сессии для filePath
func (s *Service) Issue(filePath string) (token string, claims *Claims, err error) {
	now := time.Now()
	claims = &Claims{
		FilePath: filePath,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   filePath,
			Issuer:    issuer,
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
		},
	}

	token, err = gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, claims, nil
}

// Validate валидирует и парсит токен сессии
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := gojwt.ParseWithClaims(tokenString, &Claims{}, func(token *gojwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, gojwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" || claims.FilePath == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
