package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/tablekeeper/internal/config")

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// Credentials is the register and login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the shape of credentials submitted for registration.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Password, validation.Required, validation.RuneLength(MinPasswordLength, 72)),
	)
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Service registers users and issues, checks and revokes session tokens.
type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost overrides the bcrypt work factor.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// NewService creates an auth Service signing tokens with cfg.JWTSecret.
func NewService(store Store, cfg config.AuthConfig, opts ...Option) *Service {
	s := &Service{
		store:  store,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenTTL returns how long issued tokens stay valid.
func (s *Service) TokenTTL() time.Duration {
	return s.ttl
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account for the given credentials.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := creds.Validate(); err != nil {
		return User{}, fmt.Errorf("register: %w: %v", ErrInvalidRegistration, err)
	}

	if _, err := s.store.FindUserByEmail(ctx, creds.Email); err == nil {
		return User{}, fmt.Errorf("register: %w", ErrUserExists)
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("register: hash password: %w", err)
	}

	u, err := s.store.CreateUser(ctx, User{
		Email:        creds.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and issues a new session token.
func (s *Service) Login(ctx context.Context, creds Credentials) (string, User, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return "", User{}, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}

	u, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", User{}, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return "", User{}, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		return "", User{}, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}

	token, expires, err := s.issueToken(u.ID)
	if err != nil {
		return "", User{}, fmt.Errorf("login: %w", err)
	}

	if err := s.store.CreateSession(ctx, Session{Token: token, UserID: u.ID, ExpiresAt: expires}); err != nil {
		return "", User{}, fmt.Errorf("login: save session: %w", err)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return token, u, nil
}

func (s *Service) issueToken(userID string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Logout revokes token. Revoking an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("logout: %w", ErrMissingToken)
	}
	if err := s.store.DeleteSession(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate returns the user a token belongs to. The token must have a
// valid signature, be unexpired and still have a session.
func (s *Service) Authenticate(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, ErrMissingToken
	}

	claims := &Claims{}
	// Expiry is checked against the service clock below.
	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || claims.UserID == "" || !claims.VerifyExpiresAt(s.now(), true) {
		return User{}, ErrInvalidToken
	}

	sess, err := s.store.FindSession(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, fmt.Errorf("authenticate: %w", err)
	}
	if sess.UserID != claims.UserID || !s.now().Before(sess.ExpiresAt) {
		return User{}, ErrInvalidToken
	}

	u, err := s.store.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, fmt.Errorf("authenticate: %w", err)
	}
	return u, nil
}

// User returns the account with id. Unknown IDs yield ErrInvalidToken since
// they can only come from a token whose user has gone.
func (s *Service) User(ctx context.Context, id string) (User, error) {
	u, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// SweepExpired deletes sessions whose tokens have expired.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return n, nil
}
