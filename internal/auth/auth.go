// Package auth handles user accounts and login sessions.
//
// Passwords are stored as bcrypt hashes. A successful login issues an
// HS256-signed token that is also recorded as a session, so logging out
// revokes the token before it expires.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned by stores when no user matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned by stores when a token has no session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidRegistration is returned when register input fails validation.
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingToken is returned when a request carries no token at all.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken is returned for malformed, expired or revoked tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// User is a registered account.
type User struct {
	ID           string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session records an issued token until it expires or the user logs out.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// UserStore persists user accounts. Emails are unique.
type UserStore interface {
	CreateUser(ctx context.Context, u User) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByID(ctx context.Context, id string) (User, error)
}

// SessionStore persists issued tokens.
type SessionStore interface {
	CreateSession(ctx context.Context, s Session) error
	FindSession(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Store is everything the Service needs from persistence.
type Store interface {
	UserStore
	SessionStore
}
