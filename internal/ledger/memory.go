package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

// Memory is an in-process Ledger for headless callers and tests. It
// keeps the same semantics as the SQL ledger: per-player serialized
// read-modify-write, transaction history with before/after balances.
type Memory struct {
	mu       sync.Mutex
	balances map[string]int64
	history  map[string][]*domain.Transaction
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances: make(map[string]int64),
		history:  make(map[string][]*domain.Transaction),
	}
}

// Grant seeds a member's balance, creating the account when missing.
func (m *Memory) Grant(playerID string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] += amount
}

// Balance returns the member's current point balance.
func (m *Memory) Balance(_ context.Context, playerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	points, ok := m.balances[playerID]
	if !ok {
		return 0, ErrPlayerNotFound
	}
	return points, nil
}

// Debit removes points, failing with ErrInsufficientFunds when the
// balance does not cover the amount.
func (m *Memory) Debit(_ context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	before, ok := m.balances[playerID]
	if !ok {
		return 0, ErrPlayerNotFound
	}
	if before < amount {
		return 0, ErrInsufficientFunds
	}

	after := before - amount
	m.balances[playerID] = after
	m.record(playerID, txType, amount, before, after, ref, memo)
	return after, nil
}

// Credit adds points to the member's balance.
func (m *Memory) Credit(_ context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	before, ok := m.balances[playerID]
	if !ok {
		return 0, ErrPlayerNotFound
	}

	after := before + amount
	m.balances[playerID] = after
	m.record(playerID, txType, amount, before, after, ref, memo)
	return after, nil
}

// Transactions returns the member's balance changes, newest first.
func (m *Memory) Transactions(playerID string) []*domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.history[playerID]
	out := make([]*domain.Transaction, len(history))
	for i, tx := range history {
		out[len(history)-1-i] = tx
	}
	return out
}

// record appends to history; caller holds the lock.
func (m *Memory) record(playerID string, txType domain.TransactionType, amount, before, after int64, ref, memo string) {
	m.history[playerID] = append(m.history[playerID], &domain.Transaction{
		ID:            uuid.New().String(),
		PlayerID:      playerID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reference:     ref,
		Memo:          memo,
		CreatedAt:     time.Now().UTC(),
	})
}
