package token

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestDecode(t *testing.T) {
	raw := signedToken(t, Claims{
		UserID:   42,
		Username: "ivan",
		StandardClaims: jwt.StandardClaims{
			Subject:   "ivan@example.com",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	claims, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "ivan" {
		t.Errorf("Username = %q, want %q", claims.Username, "ivan")
	}
	if claims.Subject != "ivan@example.com" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if claims.Expired(time.Now()) {
		t.Error("token should not be expired")
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b", "!!!.###.$$$"} {
		if _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) should fail", raw)
		}
	}
}

func TestDecodeExpiredStillDecodes(t *testing.T) {
	raw := signedToken(t, Claims{
		UserID:         7,
		Username:       "old",
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Hour).Unix()},
	})

	claims, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !claims.Expired(time.Now()) {
		t.Error("token should be expired")
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
}

func TestExpiredWithoutExpClaim(t *testing.T) {
	claims := Claims{UserID: 1}
	if claims.Expired(time.Now()) {
		t.Error("token without exp claim never expires client-side")
	}
}

func TestHelpersOnMalformed(t *testing.T) {
	if got := UserID("not-a-token"); got != 0 {
		t.Errorf("UserID = %d, want 0", got)
	}
	if got := Username("not-a-token"); got != "" {
		t.Errorf("Username = %q, want empty", got)
	}
}

func TestHelpers(t *testing.T) {
	raw := signedToken(t, Claims{UserID: 9, Username: "reader"})
	if got := UserID(raw); got != 9 {
		t.Errorf("UserID = %d, want 9", got)
	}
	if got := Username(raw); got != "reader" {
		t.Errorf("Username = %q, want %q", got, "reader")
	}
}
