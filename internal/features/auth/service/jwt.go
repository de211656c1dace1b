package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: malformed input,
// bad signature and expiry. Callers branch on this single error instead
// of a nil-result sentinel.
var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims are the claims embedded in an access token.
type SessionClaims struct {
	TelegramID int64  `json:"telegram_id"`
	UserID     string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *JWTManager) Issue(userID string, telegramID int64) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := SessionClaims{
		TelegramID: telegramID,
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) Verify(raw string) (*SessionClaims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithTimeFunc(m.now))
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" || claims.TelegramID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
