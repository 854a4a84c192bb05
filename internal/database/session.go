package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SessionProvider hands out one storage session per unit of work.
//
// A session is a *gorm.DB pinned to a single pooled connection. The
// connection is returned to the pool when WithSession returns, including
// when fn fails or panics.
type SessionProvider struct {
	db *gorm.DB
}

// NewSessionProvider wraps a process-wide pool.
func NewSessionProvider(db *gorm.DB) *SessionProvider {
	return &SessionProvider{db: db}
}

// WithSession runs fn with a session bound to ctx and releases it afterwards.
// Sessions must not be retained or shared once fn returns.
func (p *SessionProvider) WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if p == nil || p.db == nil {
		return fmt.Errorf("session provider not configured")
	}
	return p.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		// NewDB keeps the pinned connection but starts every chain from a clean statement.
		return fn(conn.Session(&gorm.Session{NewDB: true}))
	})
}
