package session

import (
	"testing"
	"time"

	"bookapp/internal/token"

	"github.com/dgrijalva/jwt-go"
)

// memStore is the in-memory stand-in for the token file.
type memStore struct {
	tok    string
	clears int
}

func (m *memStore) Load() (string, error) { return m.tok, nil }
func (m *memStore) Save(tok string) error { m.tok = tok; return nil }
func (m *memStore) Clear() error          { m.tok = ""; m.clears++; return nil }

func signedToken(t *testing.T, userID int64, username string, expiresAt int64) string {
	t.Helper()
	claims := token.Claims{
		UserID:         userID,
		Username:       username,
		StandardClaims: jwt.StandardClaims{ExpiresAt: expiresAt},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestNewEmptyStore(t *testing.T) {
	s, err := New(&memStore{})
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
	if _, ok := s.Token(); ok {
		t.Error("no token expected")
	}
}

func TestNewValidToken(t *testing.T) {
	raw := signedToken(t, 3, "ivan", time.Now().Add(time.Hour).Unix())
	s, err := New(&memStore{tok: raw})
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %q, want authenticated", s.State())
	}
	claims, ok := s.Claims()
	if !ok || claims.Username != "ivan" || claims.UserID != 3 {
		t.Errorf("claims = %+v ok=%v", claims, ok)
	}
}

func TestNewExpiredTokenClearsStore(t *testing.T) {
	store := &memStore{tok: signedToken(t, 3, "ivan", time.Now().Add(-time.Minute).Unix())}
	s, err := New(store)
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
	if store.tok != "" {
		t.Error("expired token should be erased from the store")
	}
}

func TestNewMalformedTokenClearsStore(t *testing.T) {
	store := &memStore{tok: "not-a-token"}
	s, err := New(store)
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
	if store.tok != "" {
		t.Error("malformed token should be erased from the store")
	}
}

func TestLoginPersistsAndNotifies(t *testing.T) {
	store := &memStore{}
	s, _ := New(store)

	var states []State
	s.OnChange(func(st State) { states = append(states, st) })

	raw := signedToken(t, 5, "anna", time.Now().Add(time.Hour).Unix())
	if err := s.Login(raw); err != nil {
		t.Fatal(err)
	}
	if store.tok != raw {
		t.Error("token not persisted")
	}
	if got, ok := s.Token(); !ok || got != raw {
		t.Errorf("Token() = %q ok=%v", got, ok)
	}
	if len(states) != 1 || states[0] != StateAuthenticated {
		t.Errorf("states = %v", states)
	}
}

func TestLoginMalformedToken(t *testing.T) {
	store := &memStore{}
	s, _ := New(store)
	if err := s.Login("broken"); err == nil {
		t.Fatal("expected decode error")
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
}

func TestLogoutIdempotent(t *testing.T) {
	store := &memStore{}
	s, _ := New(store)

	var notifications int
	s.OnChange(func(State) { notifications++ })

	raw := signedToken(t, 5, "anna", time.Now().Add(time.Hour).Unix())
	if err := s.Login(raw); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
	if store.tok != "" {
		t.Error("token should be erased")
	}
	// login + first logout only; the second logout is a no-op.
	if notifications != 2 {
		t.Errorf("notifications = %d, want 2", notifications)
	}
}

func TestInvalidateExactlyOnce(t *testing.T) {
	store := &memStore{tok: signedToken(t, 5, "anna", time.Now().Add(time.Hour).Unix())}
	s, _ := New(store)

	var notifications int
	s.OnChange(func(st State) {
		if st == StateAnonymous {
			notifications++
		}
	})

	s.Invalidate()
	s.Invalidate()
	s.Invalidate()

	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
	if notifications != 1 {
		t.Errorf("notifications = %d, want 1", notifications)
	}
	if store.clears != 1 {
		t.Errorf("store cleared %d times, want 1", store.clears)
	}
}

func TestReloadExternalClear(t *testing.T) {
	store := &memStore{tok: signedToken(t, 5, "anna", time.Now().Add(time.Hour).Unix())}
	s, _ := New(store)

	store.tok = "" // another process logged out
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
}

func TestReloadExternalReplace(t *testing.T) {
	store := &memStore{tok: signedToken(t, 5, "anna", time.Now().Add(time.Hour).Unix())}
	s, _ := New(store)

	store.tok = signedToken(t, 6, "boris", time.Now().Add(time.Hour).Unix())
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	claims, ok := s.Claims()
	if !ok || claims.Username != "boris" {
		t.Errorf("claims = %+v ok=%v, want boris", claims, ok)
	}
}

func TestReloadExternalExpired(t *testing.T) {
	store := &memStore{tok: signedToken(t, 5, "anna", time.Now().Add(time.Hour).Unix())}
	s, _ := New(store)

	store.tok = signedToken(t, 5, "anna", time.Now().Add(-time.Hour).Unix())
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", s.State())
	}
	if store.tok != "" {
		t.Error("expired replacement should be erased")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/nested/token"
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if tok, err := store.Load(); err != nil || tok != "" {
		t.Fatalf("Load on empty store = %q, %v", tok, err)
	}
	if err := store.Save("abc.def.ghi"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := store.Load(); tok != "abc.def.ghi" {
		t.Errorf("Load = %q", tok)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on empty store: %v", err)
	}
	if tok, _ := store.Load(); tok != "" {
		t.Errorf("Load after Clear = %q", tok)
	}
}
