package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// Verification failures, distinguished for logging only. The HTTP edge
// collapses all of them into one generic unauthenticated response so callers
// cannot probe verification internals.
var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

const defaultTTL = 24 * time.Hour

// Claims carried inside an issued credential. The subject is the user id;
// the role is a hint for diagnostics only: authorization always reads the
// role from the freshly loaded user, never from the token.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the credential's subject.
func (c *Claims) UserID() string {
	return c.Subject
}

// Manager issues and verifies HMAC-signed credentials. Verification is pure:
// no store round-trip, no server-side session state. Revocation is therefore
// only as strong as TTL expiry; a stolen token stays valid until it expires.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime applied to issued credentials.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new credential for the user with the configured TTL.
func (m *Manager) Issue(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature integrity and expiry and returns the claims.
// A missing token is the caller's case to handle; Verify is only ever called
// with a non-empty credential.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenSignatureInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
