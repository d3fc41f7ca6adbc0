// Package session issues and verifies the signed cookie that identifies a
// shopper session.
package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	issuer  = "green-haven"
	keySize = 32
	keyInfo = "green-haven session cookie v1"
)

var (
	// ErrInvalidToken is returned for tokens that are malformed, forged or expired.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrEmptySecret is returned when no signing secret is configured.
	ErrEmptySecret = errors.New("session secret is empty")
)

// Claims carried by a session token. The subject is the session id.
type Claims struct {
	jwt.RegisteredClaims
}

// SessionID returns the session id carried by the token.
func (c *Claims) SessionID() string {
	return c.Subject
}

// Codec signs and verifies session tokens with HS256.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec derives the signing key from secret. Tokens expire after ttl.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}
	return &Codec{key: key, ttl: ttl, now: time.Now}, nil
}

func deriveKey(secret string) ([]byte, error) {
	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, []byte(secret), []byte(issuer), []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// TTL returns the token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue returns a signed token for sessionID.
func (c *Codec) Issue(sessionID string) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its claims.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NeedsRefresh reports whether less than half of the token lifetime remains.
func (c *Codec) NeedsRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Sub(c.now()) < c.ttl/2
}
