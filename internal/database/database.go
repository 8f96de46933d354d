// Package database provides database access for the wagering engine's
// ledger and history storage.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver for self-hosted forums
)

// DB wraps the SQL database connection.
type DB struct {
	*sql.DB
}

// New opens a database connection. Supported drivers are "postgres"
// and "sqlite3".
func New(driver, dsn string) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates all required tables.
func (db *DB) Migrate() error {
	schema := `
	-- Member point balances; the ledger's single source of truth.
	CREATE TABLE IF NOT EXISTS balances (
		player_id VARCHAR(64) PRIMARY KEY,
		points BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	);

	-- Every applied balance change, with before/after so the history
	-- is self-checking.
	CREATE TABLE IF NOT EXISTS transactions (
		id VARCHAR(64) PRIMARY KEY,
		player_id VARCHAR(64) NOT NULL,
		type VARCHAR(20) NOT NULL,
		amount BIGINT NOT NULL,
		balance_before BIGINT NOT NULL,
		balance_after BIGINT NOT NULL,
		reference VARCHAR(64),
		memo TEXT,
		created_at TIMESTAMP NOT NULL
	);

	-- Settled rounds kept for game recall.
	CREATE TABLE IF NOT EXISTS rounds (
		id VARCHAR(64) PRIMARY KEY,
		player_id VARCHAR(64) NOT NULL,
		game_type VARCHAR(20) NOT NULL,
		bets TEXT NOT NULL,
		total_staked BIGINT NOT NULL,
		credit_amount BIGINT NOT NULL,
		balance_before BIGINT NOT NULL,
		balance_after BIGINT NOT NULL,
		outcome TEXT NOT NULL,
		settled_at TIMESTAMP NOT NULL
	);

	-- Payouts that could not be credited at settlement; swept later.
	CREATE TABLE IF NOT EXISTS owed_payouts (
		id VARCHAR(64) PRIMARY KEY,
		player_id VARCHAR(64) NOT NULL,
		amount BIGINT NOT NULL,
		reference VARCHAR(64) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		paid_at TIMESTAMP
	);

	-- Significant events: large wins, owed payouts, RNG health.
	CREATE TABLE IF NOT EXISTS audit_events (
		id VARCHAR(64) PRIMARY KEY,
		type VARCHAR(50) NOT NULL,
		severity VARCHAR(20) NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		player_id VARCHAR(64),
		game_type VARCHAR(20),
		description TEXT NOT NULL,
		data TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_player ON transactions(player_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player_id, settled_at);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}

	return nil
}

// CleanData removes all rows; used by tests for a fresh state.
func (db *DB) CleanData() error {
	tables := []string{"audit_events", "owed_payouts", "rounds", "transactions", "balances"}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}
