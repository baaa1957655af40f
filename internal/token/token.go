// Package token issues and verifies the signed bearer tokens that carry a
// user's identity between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the browser flow stores the token in.
const CookieName = "jwt"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Manager signs and verifies HS256 tokens with a symmetric secret.
type Manager struct {
	secret     []byte
	expireDays int
}

// NewManager returns a Manager for the given secret and lifetime in days.
func NewManager(secret string, expireDays int) *Manager {
	return &Manager{secret: []byte(secret), expireDays: expireDays}
}

// Issue produces a signed token whose subject is the username, expiring
// after the configured number of days.
func (m *Manager) Issue(username string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("signing secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"exp": now.Add(time.Duration(m.expireDays) * 24 * time.Hour).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks signature and expiry only (no issuer or audience claims) and
// returns the embedded username.
func (m *Manager) Verify(raw string) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
