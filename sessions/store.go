// Package sessions keeps one workshop state per browser session.
package sessions

import (
	"context"
	"errors"

	"sqlworkshop-server/models"
)

// ErrNotFound is returned by a Store when the session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// ErrConflict is returned when a transaction kept losing to concurrent writers.
var ErrConflict = errors.New("session modified concurrently")

// Store persists session states by id.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Save(ctx context.Context, sessionID string, state *models.SessionState) error
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}

// TxFunc receives the stored state, or nil when there is none, and returns
// the state to save.
type TxFunc func(current *models.SessionState) (*models.SessionState, error)

// Transactor is implemented by stores that can run a read-modify-write
// atomically, even against writers in other processes. fn may run more than
// once and must not have side effects beyond the state it returns.
type Transactor interface {
	Transact(ctx context.Context, sessionID string, fn TxFunc) error
}
