// Package journal persists practice sessions and their trades. The
// simulator only cares about id-keyed load/save; everything else here
// is reporting convenience.
package journal

import (
	"context"
	"errors"

	"daxsim/session"
)

// ErrNotFound is returned for lookups of ids the store has never seen.
var ErrNotFound = errors.New("not found")

// Store is the persistence surface the simulator depends on.
type Store interface {
	SaveSession(ctx context.Context, s *session.Session) error
	Session(ctx context.Context, id string) (*session.Session, error)
	SaveTrade(ctx context.Context, t *session.Trade) error
	Trade(ctx context.Context, id string) (*session.Trade, error)
	TradesBySession(ctx context.Context, sessionID string) ([]*session.Trade, error)
	Close() error
}
