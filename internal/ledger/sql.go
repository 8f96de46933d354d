package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

// SQL is a Ledger backed by the forum's relational database. Balance
// changes apply as a single guarded UPDATE so concurrent wagers against
// the same balance cannot lose updates, with each change appended to
// the transactions table carrying the balance before and after.
type SQL struct {
	db *sql.DB
}

// NewSQL creates a SQL-backed ledger.
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

// Balance returns the member's current point balance.
func (s *SQL) Balance(ctx context.Context, playerID string) (int64, error) {
	var points int64
	err := s.db.QueryRowContext(ctx, `
		SELECT points FROM balances WHERE player_id = $1
	`, playerID).Scan(&points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPlayerNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return points, nil
}

// Debit removes points from the member's balance.
func (s *SQL) Debit(ctx context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.apply(ctx, playerID, -amount, txType, ref, memo)
}

// Credit adds points to the member's balance.
func (s *SQL) Credit(ctx context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.apply(ctx, playerID, amount, txType, ref, memo)
}

// apply performs one balance mutation and records the transaction
// atomically. delta is negative for debits.
func (s *SQL) apply(ctx context.Context, playerID string, delta int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer dbTx.Rollback()

	now := time.Now().UTC()

	// One guarded increment; the WHERE clause keeps the balance from
	// going negative even when two wagers race on the same row.
	var before, after int64
	err = dbTx.QueryRowContext(ctx, `
		UPDATE balances SET points = points + $1, updated_at = $2
		WHERE player_id = $3 AND points + $1 >= 0
		RETURNING points - $1, points
	`, delta, now, playerID).Scan(&before, &after)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var one int
			checkErr := dbTx.QueryRowContext(ctx, `
				SELECT 1 FROM balances WHERE player_id = $1
			`, playerID).Scan(&one)
			if errors.Is(checkErr, sql.ErrNoRows) {
				return 0, ErrPlayerNotFound
			}
			if checkErr != nil {
				return 0, fmt.Errorf("%w: %v", ErrUnavailable, checkErr)
			}
			return 0, ErrInsufficientFunds
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO transactions (id, player_id, type, amount, balance_before, balance_after, reference, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.New().String(), playerID, txType, amount, before, after, ref, memo, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return after, nil
}

// Grant seeds or tops up a member's balance; used by the forum when
// awarding points, and by tests. Creates the balance row when missing.
func (s *SQL) Grant(ctx context.Context, playerID string, amount int64, memo string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (player_id, points, updated_at)
		VALUES ($1, 0, $2)
		ON CONFLICT (player_id) DO NOTHING
	`, playerID, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return s.apply(ctx, playerID, amount, domain.TxTypeGrant, uuid.New().String(), memo)
}

// Transactions returns the member's most recent balance changes, newest
// first.
func (s *SQL) Transactions(ctx context.Context, playerID string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player_id, type, amount, balance_before, balance_after, reference, memo, created_at
		FROM transactions WHERE player_id = $1 ORDER BY created_at DESC LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(&tx.ID, &tx.PlayerID, &tx.Type, &tx.Amount,
			&tx.BalanceBefore, &tx.BalanceAfter, &tx.Reference, &tx.Memo, &tx.CreatedAt)
		if err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}
