// Package token decodes the payload segment of a bearer credential so the
// client can show the logged-in user and derive display state. The signature
// is never checked here: nothing decoded by this package is a trust boundary,
// every authorization decision is re-validated by the server.
package token

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims is the decoded token payload.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// Expired reports whether the exp claim is in the past. Tokens without an
// exp claim never expire client-side.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != 0 && now.Unix() >= c.ExpiresAt
}

// Decode parses the middle segment of raw without verifying the signature.
// A malformed token yields an error, never a panic. Expired tokens still
// decode: callers decide what expiry means for them.
func Decode(raw string) (Claims, error) {
	var claims Claims
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// UserID extracts the user id from raw, or 0 when the token is malformed.
func UserID(raw string) int64 {
	claims, err := Decode(raw)
	if err != nil {
		return 0
	}
	return claims.UserID
}

// Username extracts the username from raw, or "" when the token is malformed.
func Username(raw string) string {
	claims, err := Decode(raw)
	if err != nil {
		return ""
	}
	return claims.Username
}
