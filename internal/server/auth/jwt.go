package auth

import (
	"fmt"
	"time"

	"bookapp/internal/server/storage"
	"bookapp/internal/token"

	"github.com/dgrijalva/jwt-go"
)

// IssueToken signs an HS256 credential carrying the display claims the
// client decodes (userId, username) plus the standard expiry fields.
func IssueToken(secret string, ttl time.Duration, user storage.User, now time.Time) (string, error) {
	claims := token.Claims{
		UserID:   user.ID,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Email,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// verify parses raw and checks the signature and expiry. This is the trust
// boundary; the client-side decode never is.
func verify(secret, raw string) (token.Claims, error) {
	var claims token.Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return token.Claims{}, err
	}
	return claims, nil
}
