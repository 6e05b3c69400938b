package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemoryStore(timeout time.Duration) (*MemoryStore, *clock) {
	c := &clock{t: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(timeout)
	s.now = c.now
	return s, c
}

func TestMemoryStore_CreateValidate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestMemoryStore(time.Hour)
	sess, err := s.Create(ctx, "admin")
	if err != nil || sess.ID == "" || sess.Username != "admin" {
		t.Fatalf("create: %+v %v", sess, err)
	}
	got, err := s.Validate(ctx, sess.ID)
	if err != nil || got.Username != "admin" {
		t.Fatalf("validate: %+v %v", got, err)
	}
	if _, err := s.Validate(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err=%v", err)
	}
}

func TestMemoryStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	s, c := newTestMemoryStore(time.Hour)
	sess, _ := s.Create(ctx, "admin")

	// each validation pushes the expiry forward
	for i := 0; i < 3; i++ {
		c.advance(50 * time.Minute)
		if _, err := s.Validate(ctx, sess.ID); err != nil {
			t.Fatalf("validation %d failed: %v", i, err)
		}
	}
	c.advance(time.Hour)
	if _, err := s.Validate(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry after idle timeout, err=%v", err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Fatalf("expired session still counted: %d", n)
	}
}

func TestMemoryStore_DeleteClearCount(t *testing.T) {
	ctx := context.Background()
	s, c := newTestMemoryStore(time.Hour)
	a, _ := s.Create(ctx, "a")
	_, _ = s.Create(ctx, "b")
	_, _ = s.Create(ctx, "c")

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 2 {
		t.Fatalf("count=%d", n)
	}
	c.advance(2 * time.Hour)
	if n, _ := s.Clear(ctx); n != 2 {
		t.Fatalf("clear removed %d", n)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Fatalf("count after clear=%d", n)
	}
}

func TestMemoryStore_DefaultTimeout(t *testing.T) {
	s := NewMemoryStore(0)
	if s.timeout != DefaultTimeout {
		t.Fatalf("timeout=%v", s.timeout)
	}
}

func TestAuthenticator(t *testing.T) {
	a, err := NewAuthenticator("admin", "coffee2025")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name     string
		user     string
		password string
		want     bool
	}{
		{"valid", "admin", "coffee2025", true},
		{"wrong password", "admin", "coffee2024", false},
		{"wrong user", "root", "coffee2025", false},
		{"user prefix", "adm", "coffee2025", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Check(tc.user, tc.password); got != tc.want {
				t.Fatalf("Check(%q,%q)=%v", tc.user, tc.password, got)
			}
		})
	}
}

func TestAuthenticator_PasswordTooLong(t *testing.T) {
	if _, err := NewAuthenticator("admin", strings.Repeat("x", 100)); err == nil {
		t.Fatalf("expected bcrypt length error")
	}
}
