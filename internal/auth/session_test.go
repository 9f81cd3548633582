package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return tok
}

func TestNewSession_Empty(t *testing.T) {
	for _, tok := range []string{"", "   ", "Bearer "} {
		if _, err := NewSession(tok); !errors.Is(err, ErrNoSession) {
			t.Errorf("NewSession(%q) err = %v, want ErrNoSession", tok, err)
		}
	}
}

func TestNewSession_ReadsClaims(t *testing.T) {
	exp := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signToken(t, Claims{
		Email:        "ravi@example.com",
		UserMetadata: UserMetadata{FullName: "Ravi"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-7",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	s, err := NewSession("Bearer " + tok)
	if err != nil {
		t.Fatal(err)
	}
	if s.Opaque {
		t.Fatal("JWT reported as opaque")
	}
	if s.Email != "ravi@example.com" || s.Subject != "user-7" || s.DisplayName() != "Ravi" {
		t.Errorf("session = %+v", s)
	}
	if !s.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, exp)
	}

	if !s.IsAuthenticated(exp.Add(-time.Minute)) {
		t.Error("session not authenticated before expiry")
	}
	if s.IsAuthenticated(exp) {
		t.Error("session still authenticated at expiry")
	}
}

func TestNewSession_Opaque(t *testing.T) {
	s, err := NewSession("not-a-jwt")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Opaque || !s.IsAuthenticated(time.Now()) {
		t.Errorf("opaque session = %+v", s)
	}
	if s.DisplayName() != "User" {
		t.Errorf("DisplayName = %q", s.DisplayName())
	}
}

type fakeFetcher struct {
	user *travelapi.User
	err  error
}

func (f fakeFetcher) Me(context.Context) (*travelapi.User, error) {
	return f.user, f.err
}

func TestRefresh(t *testing.T) {
	s, _ := NewSession("opaque")

	if err := s.Refresh(context.Background(), fakeFetcher{user: &travelapi.User{Email: "a@b.c", FullName: "Asha"}}); err != nil {
		t.Fatal(err)
	}
	if s.DisplayName() != "Asha" || s.Email != "a@b.c" {
		t.Errorf("session after refresh = %+v", s)
	}

	err := s.Refresh(context.Background(), fakeFetcher{err: travelapi.ErrUnauthorized})
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("rejected token err = %v, want ErrNoSession", err)
	}

	err = s.Refresh(context.Background(), fakeFetcher{err: errors.New("boom")})
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("network err = %v", err)
	}
}
