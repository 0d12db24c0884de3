// Package token issues and verifies the bearer credentials used by the API:
// short-lived access tokens and long-lived refresh tokens, both HS256 JWTs
// whose subject is the user id.
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/recipehub/recipe-service/internal/apperrors"
)

// Token types carried in the "typ" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the decoded content of a verified token.
type Claims struct {
	UserID int64
	Type   string
}

type jwtClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager creates a token manager.
func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess issues an access token for the user.
func (m *Manager) IssueAccess(userID int64) (string, error) {
	return m.issue(userID, TypeAccess, m.accessTTL)
}

// IssueRefresh issues a refresh token for the user.
func (m *Manager) IssueRefresh(userID int64) (string, error) {
	return m.issue(userID, TypeRefresh, m.refreshTTL)
}

func (m *Manager) issue(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token's signature, expiry, and type, and returns its
// claims. Any failure is reported as Unauthenticated.
func (m *Manager) Parse(tokenString, wantType string) (*Claims, *apperrors.Error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperrors.Wrap(apperrors.KindUnauthenticated, "invalid or expired token", err)
	}
	if claims.Type != wantType {
		return nil, apperrors.New(apperrors.KindUnauthenticated, "wrong token type")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 {
		return nil, apperrors.Wrap(apperrors.KindUnauthenticated, "invalid token subject", err)
	}
	return &Claims{UserID: userID, Type: claims.Type}, nil
}
