// Package auth выпускает и проверяет HMAC-токены доступа.
package auth

import (
	"errors"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Роли учетных записей
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleDoctor    = "doctor"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims представляет содержимое токена доступа
type Claims struct {
	AccountID int64  `json:"account_id"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`

	jwtlib.RegisteredClaims
}

// Service выпускает и проверяет токены доступа
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService создает сервис токенов с HMAC-подписью
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает токен доступа для учетной записи
func (s *Service) Issue(accountID int64, role, email string) (string, error) {
	if len(s.secret) == 0 || s.ttl <= 0 {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	claims := Claims{
		AccountID: accountID,
		Role:      role,
		Email:     email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			Subject:   strconv.FormatInt(accountID, 10),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate проверяет подпись и срок действия токена
func (s *Service) Validate(tokenString string) (Claims, error) {
	parser := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var claims Claims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if token == nil || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	switch claims.Role {
	case RoleUser, RoleAssistant, RoleDoctor:
	default:
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}
