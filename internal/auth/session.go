// Package auth exposes the signed-in user derived from the configured bearer token.
//
// Tokens are issued by an external identity provider. They are decoded here
// without signature verification, only to show who is signed in and when the
// token expires; the API remains the authority on whether a token is valid.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

// ErrNoSession is returned when no usable token is configured.
var ErrNoSession = errors.New("auth: not signed in")

// Claims are the token fields tripmeter reads.
type Claims struct {
	Email        string       `json:"email"`
	Role         string       `json:"role,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// UserMetadata carries profile fields set at registration.
type UserMetadata struct {
	FullName string `json:"full_name"`
}

// Session is the current sign-in state.
type Session struct {
	Token     string
	Email     string
	Name      string
	Subject   string
	ExpiresAt time.Time

	// Opaque is set when the token is not a JWT, so nothing but its presence
	// is known locally.
	Opaque bool
}

// NewSession builds a session from a bearer token.
func NewSession(token string) (*Session, error) {
	fields := strings.Fields(token)
	if len(fields) > 0 && strings.EqualFold(fields[0], "Bearer") {
		fields = fields[1:]
	}
	token = strings.Join(fields, "")
	if token == "" {
		return nil, ErrNoSession
	}

	s := &Session{Token: token}

	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		s.Opaque = true
		return s, nil
	}

	s.Email = claims.Email
	s.Name = claims.UserMetadata.FullName
	s.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Expired reports whether the token carries an expiry that has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsAuthenticated reports whether the session holds an unexpired token.
func (s *Session) IsAuthenticated(now time.Time) bool {
	return s != nil && s.Token != "" && !s.Expired(now)
}

// DisplayName returns the best available label for the user.
func (s *Session) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Email != "":
		return s.Email
	case s.Subject != "":
		return s.Subject
	default:
		return "User"
	}
}

// UserFetcher returns the signed-in user from the API.
type UserFetcher interface {
	Me(ctx context.Context) (*travelapi.User, error)
}

// Refresh asks the API who the token belongs to and updates the session.
// A rejected token yields ErrNoSession.
func (s *Session) Refresh(ctx context.Context, f UserFetcher) error {
	u, err := f.Me(ctx)
	if err != nil {
		if errors.Is(err, travelapi.ErrUnauthorized) {
			return fmt.Errorf("%w: token rejected by server", ErrNoSession)
		}
		return fmt.Errorf("fetching user: %w", err)
	}
	if u.Email != "" {
		s.Email = u.Email
	}
	if u.FullName != "" {
		s.Name = u.FullName
	}
	return nil
}
