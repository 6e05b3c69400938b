package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id is unknown or has expired.
var ErrNotFound = errors.New("session: not found")

// CookieName is the cookie that carries the session id.
const CookieName = "sessionId"

// DefaultTimeout is the sliding session lifetime.
const DefaultTimeout = 24 * time.Hour

// Session is an authenticated login.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps sessions. Validate extends the expiry of a live session.
type Store interface {
	Create(ctx context.Context, username string) (Session, error)
	Validate(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}
