// Package memory is an in-process implementation of the table, audit,
// user and session stores. It backs tests and local experiments; data is
// lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/core"
)

// Store keeps everything in maps guarded by a single mutex.
// Tables are cloned on the way in and out so callers never share slices
// with the store.
type Store struct {
	mu       sync.RWMutex
	tables   map[string]core.Table
	audit    []core.AuditEntry
	users    map[string]auth.User
	sessions map[string]auth.Session
	now      func() time.Time
}

var (
	_ core.Store = (*Store)(nil)
	_ auth.Store = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{
		tables:   make(map[string]core.Table),
		users:    make(map[string]auth.User),
		sessions: make(map[string]auth.Session),
		now:      time.Now,
	}
}

// SaveTable inserts t when it has no ID, otherwise replaces the owned table.
func (s *Store) SaveTable(_ context.Context, t core.Table) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t = t.Clone()

	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = now
	} else {
		existing, ok := s.tables[t.ID]
		if !ok || existing.OwnerID != t.OwnerID {
			return core.Table{}, core.ErrNotFound
		}
		t.CreatedAt = existing.CreatedAt
	}
	t.UpdatedAt = now

	s.tables[t.ID] = t
	return t.Clone(), nil
}

// FindTable returns the table with id if ownerID owns it.
func (s *Store) FindTable(_ context.Context, ownerID, id string) (core.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok || t.OwnerID != ownerID {
		return core.Table{}, core.ErrNotFound
	}
	return t.Clone(), nil
}

// ListTables returns ownerID's tables, most recently updated first.
func (s *Store) ListTables(_ context.Context, ownerID string) ([]core.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Table{}
	for _, t := range s.tables {
		if t.OwnerID == ownerID {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// DeleteTable removes the table with id if ownerID owns it.
func (s *Store) DeleteTable(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[id]
	if !ok || t.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.tables, id)
	return nil
}

// RecordAudit appends an entry to the change history.
func (s *Store) RecordAudit(_ context.Context, e core.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	s.audit = append(s.audit, e)
	return nil
}

// ListAudit returns up to limit entries for the table, newest first.
func (s *Store) ListAudit(_ context.Context, ownerID, tableID string, limit int) ([]core.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.AuditEntry{}
	for i := len(s.audit) - 1; i >= 0; i-- {
		e := s.audit[i]
		if e.TableID != tableID || e.UserID != ownerID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// CreateUser stores u under a new ID. Emails are unique.
func (s *Store) CreateUser(_ context.Context, u auth.User) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return auth.User{}, auth.ErrUserExists
		}
	}
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	s.users[u.ID] = u
	return u, nil
}

// FindUserByEmail looks a user up by exact email.
func (s *Store) FindUserByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

// FindUserByID looks a user up by ID.
func (s *Store) FindUserByID(_ context.Context, id string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

// CreateSession records an issued token.
func (s *Store) CreateSession(_ context.Context, sess auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.Token] = sess
	return nil
}

// FindSession returns the session for token.
func (s *Store) FindSession(_ context.Context, token string) (auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return sess, nil
}

// DeleteSession revokes token.
func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return auth.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

// DeleteExpiredSessions removes sessions that expired at or before now.
func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for token, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}
