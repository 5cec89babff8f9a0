// Package token issues and verifies the signed bearer credentials that stand
// in for sessions. Tokens are stateless: possession of a validly signed,
// unexpired token is the sole authorization artifact, and nothing server-side
// can revoke one before it expires.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the fixed token lifetime applied when none is configured.
const DefaultTTL = time.Hour

var ErrExpired = errors.New("token expired")
var ErrInvalid = errors.New("invalid token")

// Claims binds a user identifier to the standard expiry/issued-at claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Manager signs and verifies tokens with a process-wide HS256 secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a Manager. The secret must be non-empty; its absence is
// a startup misconfiguration the caller treats as fatal.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a signed token for userID, valid for the configured TTL.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	})
	return t.SignedString(m.secret)
}

// Verify parses and validates a token string and returns the embedded user
// identifier. Failures are ErrExpired for an elapsed lifetime and ErrInvalid
// for everything else (bad signature, malformed input, missing claims); the
// transport layer collapses both into the same 401 response.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !t.Valid || claims.UserID == "" {
		return "", ErrInvalid
	}
	return claims.UserID, nil
}
