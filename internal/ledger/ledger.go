// Package ledger is the single boundary through which the wagering
// engine touches member point balances. Every debit and credit goes
// through a Ledger implementation; the engine never caches a balance
// beyond the placement-time check.
package ledger

import (
	"context"
	"errors"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrUnavailable       = errors.New("ledger unavailable")
)

// Ledger applies point balance changes for members. Implementations
// must apply each change as a serializable read-modify-write per player
// so the exactly-once invariant is enforceable.
type Ledger interface {
	// Balance returns the member's current point balance.
	Balance(ctx context.Context, playerID string) (int64, error)

	// Debit removes amount points. It fails with ErrInsufficientFunds
	// when the balance does not cover the amount, leaving the balance
	// untouched. Returns the new balance.
	Debit(ctx context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error)

	// Credit adds amount points and returns the new balance.
	Credit(ctx context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error)
}
