package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/config"
	"github.com/JonMunkholm/tablekeeper/internal/core"
)

func TestValidID(t *testing.T) {
	tests := map[string]bool{
		"6f1c2a0e-8a4b-4b7e-9d3f-0c1e2d3f4a5b": true,
		"":                                     false,
		"42":                                   false,
		"not-a-uuid":                           false,
	}
	for in, want := range tests {
		if got := validID(in); got != want {
			t.Errorf("validID(%q) = %v, want %v", in, got, want)
		}
	}
}

// newTestStore connects to TEST_DATABASE_URL and migrates it. Tests using
// it are skipped when the variable is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, config.DatabaseConfig{URL: dsn, MaxConns: 4, MinConns: 1, MaxConnLifetime: time.Hour, MaxConnIdleTime: time.Minute})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(pool.Close)

	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return New(pool)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, auth.User{Email: "pg-" + time.Now().Format("150405.000000") + "@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := s.CreateUser(ctx, auth.User{Email: u.Email, PasswordHash: "y"}); !errors.Is(err, auth.ErrUserExists) {
		t.Errorf("CreateUser(duplicate) error = %v, want ErrUserExists", err)
	}

	in := core.Table{
		OwnerID: u.ID,
		Name:    "Budget",
		Columns: []core.Column{{Name: "Item", Type: core.ColumnText}, {Name: "Due", Type: core.ColumnDate}},
		Rows:    []core.Row{{"rent", "2024-01-01"}},
	}
	saved, err := s.SaveTable(ctx, in)
	if err != nil {
		t.Fatalf("SaveTable() error = %v", err)
	}

	got, err := s.FindTable(ctx, u.ID, saved.ID)
	if err != nil {
		t.Fatalf("FindTable() error = %v", err)
	}
	if diff := cmp.Diff(in.Rows, got.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(in.Columns, got.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.FindTable(ctx, u.ID, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("FindTable(bad id) error = %v", err)
	}

	if err := s.RecordAudit(ctx, core.AuditEntry{TableID: saved.ID, UserID: u.ID, Action: core.ActionTableCreate}); err != nil {
		t.Fatalf("RecordAudit() error = %v", err)
	}
	if err := s.DeleteTable(ctx, u.ID, saved.ID); err != nil {
		t.Fatalf("DeleteTable() error = %v", err)
	}
	entries, err := s.ListAudit(ctx, u.ID, saved.ID, 10)
	if err != nil || len(entries) != 1 {
		t.Errorf("ListAudit() = %v, %v; want 1 entry surviving delete", entries, err)
	}
}
