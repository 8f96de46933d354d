package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/audit"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/event"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/ledger"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// Manager owns one session per member and game, archives settled
// rounds, and tracks payouts the ledger could not deliver.
type Manager struct {
	registry *Registry
	ledger   ledger.Ledger
	src      rng.Source
	db       *sql.DB
	audit    *audit.Service
	bus      *event.Bus
	log      zerolog.Logger

	largeWin int64

	mu       sync.Mutex
	sessions map[string]*Session
	disabled map[domain.GameType]bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDB enables round and owed-payout persistence.
func WithDB(db *sql.DB) ManagerOption {
	return func(m *Manager) { m.db = db }
}

// WithAudit attaches the audit service.
func WithAudit(a *audit.Service) ManagerOption {
	return func(m *Manager) { m.audit = a }
}

// WithEvents attaches the presentation event bus.
func WithEvents(bus *event.Bus) ManagerOption {
	return func(m *Manager) { m.bus = bus }
}

// WithManagerLogger attaches a logger.
func WithManagerLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// WithLargeWinThreshold sets the credit amount above which a win is
// audit-logged. Zero disables the check.
func WithLargeWinThreshold(points int64) ManagerOption {
	return func(m *Manager) { m.largeWin = points }
}

// NewManager creates a manager over the given game registry.
func NewManager(registry *Registry, lgr ledger.Ledger, src rng.Source, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		ledger:   lgr,
		src:      src,
		log:      zerolog.Nop(),
		sessions: make(map[string]*Session),
		disabled: make(map[domain.GameType]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns the member's session for a game, creating it on
// first use. Disabled games reject new sessions but existing ones keep
// working so an in-flight round can finish.
func (m *Manager) Session(playerID string, gt domain.GameType) (*Session, error) {
	rules, err := m.registry.Get(gt)
	if err != nil {
		return nil, err
	}

	key := playerID + "/" + string(gt)

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		return s, nil
	}
	if m.disabled[gt] {
		return nil, ErrGameDisabled
	}

	s := NewSession(playerID, rules, m.ledger, m.src,
		WithBus(m.bus),
		WithLogger(m.log.With().Str("player_id", playerID).Str("game", string(gt)).Logger()),
		WithSettledHook(m.recordRound),
		WithOwedHook(m.recordOwed),
	)
	m.sessions[key] = s
	return s, nil
}

// Games lists every registered game with its current enabled flag.
func (m *Manager) Games() []domain.GameInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := m.registry.List()
	for i := range infos {
		if m.disabled[infos[i].Type] {
			infos[i].Enabled = false
		}
	}
	return infos
}

// SetEnabled flips a game's availability.
func (m *Manager) SetEnabled(ctx context.Context, gt domain.GameType, enabled bool) error {
	if _, err := m.registry.Get(gt); err != nil {
		return err
	}

	m.mu.Lock()
	m.disabled[gt] = !enabled
	m.mu.Unlock()

	if !enabled {
		m.audit.Log(ctx, audit.EventGameDisabled, domain.SeverityWarning,
			fmt.Sprintf("game %s disabled", gt), nil, audit.WithGame(gt))
	}
	m.log.Info().Str("game", string(gt)).Bool("enabled", enabled).Msg("game availability changed")
	return nil
}

// Rounds returns a member's most recent settled rounds, newest first.
func (m *Manager) Rounds(ctx context.Context, playerID string, limit int) ([]*domain.RoundRecord, error) {
	if m.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, player_id, game_type, bets, total_staked, credit_amount,
		       balance_before, balance_after, outcome, settled_at
		FROM rounds WHERE player_id = $1
		ORDER BY settled_at DESC LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var records []*domain.RoundRecord
	for rows.Next() {
		var rec domain.RoundRecord
		var bets, outcome string
		if err := rows.Scan(&rec.ID, &rec.PlayerID, &rec.GameType, &bets, &rec.TotalStaked,
			&rec.CreditAmount, &rec.BalanceBefore, &rec.BalanceAfter, &outcome, &rec.SettledAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bets), &rec.Bets); err != nil {
			return nil, fmt.Errorf("corrupt bets for round %s: %w", rec.ID, err)
		}
		rec.Outcome = json.RawMessage(outcome)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// PayOwed sweeps unpaid owed payouts, crediting each through the
// ledger and marking it paid. Returns the number delivered.
func (m *Manager) PayOwed(ctx context.Context) (int, error) {
	if m.db == nil {
		return 0, nil
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, player_id, amount, reference
		FROM owed_payouts WHERE paid_at IS NULL
		ORDER BY created_at
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to query owed payouts: %w", err)
	}

	type owed struct {
		id, playerID, ref string
		amount            int64
	}
	var pending []owed
	for rows.Next() {
		var o owed
		if err := rows.Scan(&o.id, &o.playerID, &o.amount, &o.ref); err != nil {
			rows.Close()
			return 0, err
		}
		pending = append(pending, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	paid := 0
	for _, o := range pending {
		if _, err := m.ledger.Credit(ctx, o.playerID, o.amount, domain.TxTypeWin, o.ref, "owed payout delivery"); err != nil {
			m.log.Warn().Err(err).Str("player_id", o.playerID).Int64("amount", o.amount).
				Msg("owed payout still undeliverable")
			continue
		}
		if _, err := m.db.ExecContext(ctx,
			`UPDATE owed_payouts SET paid_at = $1 WHERE id = $2`, time.Now().UTC(), o.id); err != nil {
			return paid, fmt.Errorf("failed to mark owed payout paid: %w", err)
		}
		m.audit.Log(ctx, audit.EventOwedPaid, domain.SeverityInfo,
			fmt.Sprintf("delivered owed payout of %d points", o.amount),
			map[string]any{"reference": o.ref, "amount": o.amount},
			audit.WithPlayer(o.playerID))
		paid++
	}
	return paid, nil
}

// recordRound archives a settled round and audit-logs large wins.
func (m *Manager) recordRound(ctx context.Context, rec *domain.RoundRecord) {
	if m.db != nil {
		bets, err := json.Marshal(rec.Bets)
		if err == nil {
			_, err = m.db.ExecContext(ctx, `
				INSERT INTO rounds (id, player_id, game_type, bets, total_staked, credit_amount,
				                    balance_before, balance_after, outcome, settled_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`, rec.ID, rec.PlayerID, rec.GameType, string(bets), rec.TotalStaked, rec.CreditAmount,
				rec.BalanceBefore, rec.BalanceAfter, string(rec.Outcome), rec.SettledAt)
		}
		if err != nil {
			m.log.Error().Err(err).Str("round_id", rec.ID).Msg("failed to archive round")
		}
	}

	if m.largeWin > 0 && rec.CreditAmount >= m.largeWin {
		m.audit.Log(ctx, audit.EventLargeWin, domain.SeverityWarning,
			fmt.Sprintf("win of %d points on %s", rec.CreditAmount, rec.GameType),
			map[string]any{"round_id": rec.ID, "credit": rec.CreditAmount, "staked": rec.TotalStaked},
			audit.WithPlayer(rec.PlayerID), audit.WithGame(rec.GameType))
	}
}

// recordOwed persists a payout the ledger refused so it can be swept
// later.
func (m *Manager) recordOwed(ctx context.Context, playerID string, amount int64, ref string) {
	if m.db != nil {
		if _, err := m.db.ExecContext(ctx, `
			INSERT INTO owed_payouts (id, player_id, amount, reference, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), playerID, amount, ref, time.Now().UTC()); err != nil {
			m.log.Error().Err(err).Str("player_id", playerID).Int64("amount", amount).
				Msg("failed to record owed payout")
		}
	}

	m.audit.Log(ctx, audit.EventOwedPayout, domain.SeverityCritical,
		fmt.Sprintf("payout of %d points could not be credited", amount),
		map[string]any{"reference": ref, "amount": amount},
		audit.WithPlayer(playerID))
}
