package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

func TestMemoryBalance(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Grant("alice", 1000)

	t.Run("KnownPlayer", func(t *testing.T) {
		points, err := mem.Balance(ctx, "alice")
		if err != nil {
			t.Fatalf("Balance failed: %v", err)
		}
		if points != 1000 {
			t.Errorf("expected 1000, got %d", points)
		}
	})

	t.Run("UnknownPlayer", func(t *testing.T) {
		_, err := mem.Balance(ctx, "nobody")
		if !errors.Is(err, ErrPlayerNotFound) {
			t.Errorf("expected ErrPlayerNotFound, got %v", err)
		}
	})
}

func TestMemoryDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful", func(t *testing.T) {
		mem := NewMemory()
		mem.Grant("alice", 500)

		after, err := mem.Debit(ctx, "alice", 200, domain.TxTypeWager, "ref-1", "bet")
		if err != nil {
			t.Fatalf("Debit failed: %v", err)
		}
		if after != 300 {
			t.Errorf("expected 300, got %d", after)
		}
	})

	t.Run("Insufficient", func(t *testing.T) {
		mem := NewMemory()
		mem.Grant("alice", 100)

		_, err := mem.Debit(ctx, "alice", 200, domain.TxTypeWager, "ref-2", "bet")
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}

		// Balance untouched after a rejected debit.
		points, _ := mem.Balance(ctx, "alice")
		if points != 100 {
			t.Errorf("balance changed on rejected debit: %d", points)
		}
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		mem := NewMemory()
		mem.Grant("alice", 100)

		for _, amount := range []int64{0, -50} {
			if _, err := mem.Debit(ctx, "alice", amount, domain.TxTypeWager, "ref-3", "bet"); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Debit(%d): expected ErrInvalidAmount, got %v", amount, err)
			}
		}
	})
}

func TestMemoryCredit(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Grant("alice", 100)

	after, err := mem.Credit(ctx, "alice", 195, domain.TxTypeWin, "ref-4", "baccarat banker win")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if after != 295 {
		t.Errorf("expected 295, got %d", after)
	}
}

func TestMemoryDebitCreditRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Grant("alice", 1000)

	if _, err := mem.Debit(ctx, "alice", 100, domain.TxTypeWager, "ref-5", "bet"); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if _, err := mem.Credit(ctx, "alice", 100, domain.TxTypeRefund, "ref-5", "cleared"); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	points, _ := mem.Balance(ctx, "alice")
	if points != 1000 {
		t.Errorf("round trip should restore balance, got %d", points)
	}
}

func TestMemoryTransactionHistory(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Grant("alice", 1000)

	mem.Debit(ctx, "alice", 100, domain.TxTypeWager, "round-1", "bet")
	mem.Credit(ctx, "alice", 200, domain.TxTypeWin, "round-1", "win")

	txs := mem.Transactions("alice")
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	// Newest first.
	if txs[0].Type != domain.TxTypeWin {
		t.Errorf("expected win first, got %s", txs[0].Type)
	}

	// Every entry is self-checking.
	for _, tx := range txs {
		diff := tx.BalanceAfter - tx.BalanceBefore
		if diff != tx.Amount && diff != -tx.Amount {
			t.Errorf("transaction %s balance delta %d inconsistent with amount %d", tx.ID, diff, tx.Amount)
		}
	}
}
