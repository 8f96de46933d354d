// Package audit records significant casino events in the database,
// separate from the normal log stream.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

// Event types worth keeping.
const (
	EventLargeWin       = "large_win"
	EventLargeWager     = "large_wager"
	EventOwedPayout     = "owed_payout"
	EventOwedPaid       = "owed_paid"
	EventRNGHealthCheck = "rng_health_check"
	EventGameDisabled   = "game_disabled"
	EventSystemError    = "system_error"
)

// Service provides audit logging backed by the audit_events table.
type Service struct {
	db *sql.DB
}

// New creates an audit service. A nil db turns the service into a
// no-op, which headless callers use.
func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// LogEvent records a significant event.
func (s *Service) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if s == nil || s.db == nil {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	var data any
	if len(event.Data) > 0 {
		data = string(event.Data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, type, severity, timestamp, player_id, game_type, description, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.Type, event.Severity, event.Timestamp, event.PlayerID, event.GameType,
		event.Description, data)

	return err
}

// Log is a convenience wrapper around LogEvent.
func (s *Service) Log(ctx context.Context, eventType string, severity domain.EventSeverity, description string, data any, opts ...EventOption) error {
	event := &domain.AuditEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Severity:    severity,
		Timestamp:   time.Now().UTC(),
		Description: description,
	}

	if data != nil {
		if jsonData, err := json.Marshal(data); err == nil {
			event.Data = jsonData
		}
	}

	for _, opt := range opts {
		opt(event)
	}

	return s.LogEvent(ctx, event)
}

// EventOption is a functional option for configuring audit events.
type EventOption func(*domain.AuditEvent)

// WithPlayer sets the player ID for the event.
func WithPlayer(playerID string) EventOption {
	return func(e *domain.AuditEvent) {
		e.PlayerID = &playerID
	}
}

// WithGame sets the game type for the event.
func WithGame(gt domain.GameType) EventOption {
	return func(e *domain.AuditEvent) {
		e.GameType = &gt
	}
}

// EventFilter defines criteria for filtering audit events.
type EventFilter struct {
	PlayerID string
	Type     string
	From     time.Time
	To       time.Time
	Limit    int
}

// GetEvents retrieves audit events with optional filtering.
func (s *Service) GetEvents(ctx context.Context, filter *EventFilter) ([]*domain.AuditEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	query := `SELECT id, type, severity, timestamp, player_id, game_type, description, data
			  FROM audit_events WHERE 1=1`
	args := []any{}
	paramIdx := 1

	if filter != nil {
		if filter.PlayerID != "" {
			query += fmt.Sprintf(" AND player_id = $%d", paramIdx)
			args = append(args, filter.PlayerID)
			paramIdx++
		}
		if filter.Type != "" {
			query += fmt.Sprintf(" AND type = $%d", paramIdx)
			args = append(args, filter.Type)
			paramIdx++
		}
		if !filter.From.IsZero() {
			query += fmt.Sprintf(" AND timestamp >= $%d", paramIdx)
			args = append(args, filter.From)
			paramIdx++
		}
		if !filter.To.IsZero() {
			query += fmt.Sprintf(" AND timestamp <= $%d", paramIdx)
			args = append(args, filter.To)
			paramIdx++
		}
	}

	query += " ORDER BY timestamp DESC"

	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", paramIdx)
		args = append(args, filter.Limit)
	} else {
		query += " LIMIT 100"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		var playerID, gameType, data sql.NullString

		err := rows.Scan(&event.ID, &event.Type, &event.Severity, &event.Timestamp,
			&playerID, &gameType, &event.Description, &data)
		if err != nil {
			return nil, err
		}

		if playerID.Valid {
			event.PlayerID = &playerID.String
		}
		if gameType.Valid {
			gt := domain.GameType(gameType.String)
			event.GameType = &gt
		}
		if data.Valid && data.String != "" {
			event.Data = json.RawMessage(data.String)
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}
