package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Session is the unit of database work of a single request.
//
// Reads run on the pool until the first write, which opens a transaction that
// every later read and write of the session shares. Nothing is persisted
// unless Commit is called; Close rolls back whatever is left open.
type Session struct {
	db        *gorm.DB
	tx        *gorm.DB
	committed bool
	closed    bool
}

// ErrSessionClosed is returned by a session used after Close.
var ErrSessionClosed = errors.New("database session is closed")

// NewSession binds a session to ctx. It does not touch the store yet.
func NewSession(ctx context.Context, db *gorm.DB) *Session {
	return &Session{db: db.WithContext(ctx)}
}

// Reader returns the handle reads should use.
func (s *Session) Reader() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Writer returns the session transaction, beginning it on first use.
func (s *Session) Writer() (*gorm.DB, error) {
	if s.closed || s.committed {
		return nil, ErrSessionClosed
	}
	if s.tx == nil {
		tx := s.db.Begin()
		if tx.Error != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// Commit persists the pending writes. A session without writes commits trivially.
func (s *Session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil || s.committed {
		return nil
	}
	if err := s.tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.committed = true
	return nil
}

// Close releases the session, rolling back uncommitted writes. It is safe to call twice.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.tx == nil || s.committed {
		return nil
	}
	if err := s.tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx, if any.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// Reader resolves the read handle for ctx, falling back to db outside a session.
func Reader(ctx context.Context, db *gorm.DB) *gorm.DB {
	if s, ok := SessionFrom(ctx); ok {
		return s.Reader()
	}
	return db.WithContext(ctx)
}

// Writer resolves the write handle for ctx. Outside a session writes autocommit.
func Writer(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
	if s, ok := SessionFrom(ctx); ok {
		return s.Writer()
	}
	return db.WithContext(ctx), nil
}

// Commit commits the session carried by ctx. Outside a session it is a no-op.
func Commit(ctx context.Context) error {
	if s, ok := SessionFrom(ctx); ok {
		return s.Commit()
	}
	return nil
}
