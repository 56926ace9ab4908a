package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
)

var _ auth.Store = (*Store)(nil)

// pgUniqueViolation is the SQLSTATE for a unique constraint failure.
const pgUniqueViolation = "23505"

// CreateUser stores u under a new ID. Emails are unique.
func (s *Store) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	id := uuid.New()
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		id, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return auth.User{}, auth.ErrUserExists
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("create user: %w", err)
	}

	u.ID = id.String()
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

// FindUserByEmail looks a user up by exact email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (auth.User, error) {
	return s.findUser(ctx, `email = $1`, email)
}

// FindUserByID looks a user up by ID.
func (s *Store) FindUserByID(ctx context.Context, id string) (auth.User, error) {
	if !validID(id) {
		return auth.User{}, auth.ErrUserNotFound
	}
	return s.findUser(ctx, `id = $1`, id)
}

func (s *Store) findUser(ctx context.Context, where string, arg any) (auth.User, error) {
	var (
		u  auth.User
		id uuid.UUID
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE `+where, arg,
	).Scan(&id, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("find user: %w", err)
	}
	u.ID = id.String()
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

// CreateSession records an issued token.
func (s *Store) CreateSession(ctx context.Context, sess auth.Session) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		sess.Token, sess.UserID, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindSession returns the session for token.
func (s *Store) FindSession(ctx context.Context, token string) (auth.Session, error) {
	var (
		sess   auth.Session
		userID uuid.UUID
	)
	err := s.pool.QueryRow(ctx,
		`SELECT token, user_id, expires_at FROM sessions WHERE token = $1`, token,
	).Scan(&sess.Token, &userID, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, fmt.Errorf("find session: %w", err)
	}
	sess.UserID = userID.String()
	return sess, nil
}

// DeleteSession revokes token.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired at or before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
