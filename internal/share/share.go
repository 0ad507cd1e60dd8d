// Package share mints and verifies the signed tokens behind read-only
// shopping list share links.
package share

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long a share link stays valid.
const DefaultTTL = 24 * time.Hour

// Signer creates and verifies share tokens with a shared HMAC secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a Signer with the default TTL.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), ttl: DefaultTTL}
}

// Token generates a short-lived token granting read access to one list.
func (s *Signer) Token(userID, listID string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("share secret not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"list": listID,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.ttl).Unix(),
	})

	return token.SignedString(s.secret)
}

// Verify parses a token and returns the user and list it grants access to.
func (s *Signer) Verify(tokenString string) (userID, listID string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid share token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid share token claims")
	}

	userID, _ = claims["sub"].(string)
	listID, _ = claims["list"].(string)
	if userID == "" || listID == "" {
		return "", "", fmt.Errorf("share token missing subject or list")
	}
	return userID, listID, nil
}
