// Package domain contains the core models shared by the casino wagering
// engine: games, bets, wagers, payouts and the point transactions the
// ledger records against member balances.
package domain

import (
	"encoding/json"
	"time"
)

// GameType identifies one of the six wagering mini-games.
type GameType string

const (
	GameBaccarat  GameType = "baccarat"
	GameBlackjack GameType = "blackjack"
	GameRoulette  GameType = "roulette"
	GameSlots     GameType = "slots"
	GameMary      GameType = "mary"
	GameHooHeyHow GameType = "hoo-hey-how"
)

// BetKind identifies what a bet is staked on within a game.
type BetKind string

const (
	// Baccarat
	BetPlayer BetKind = "player"
	BetBanker BetKind = "banker"
	BetTie    BetKind = "tie"

	// Blackjack: the single main stake, plus the extra stake added by a
	// double down.
	BetMain   BetKind = "main"
	BetDouble BetKind = "double"

	// Roulette
	BetStraight BetKind = "straight"
	BetRed      BetKind = "red"
	BetBlack    BetKind = "black"
	BetOdd      BetKind = "odd"
	BetEven     BetKind = "even"

	// Slots: one per-line stake covering all five paylines.
	BetLines BetKind = "lines"

	// Little Mary and Hoo Hey How: a stake on a named symbol.
	BetSymbol BetKind = "symbol"
)

// Bet is a single stake on a selector within a game. Selector is only
// meaningful for kinds that need one (straight number, symbol name).
// Amount is in forum points.
type Bet struct {
	Kind     BetKind `json:"kind"`
	Selector string  `json:"selector,omitempty"`
	Amount   int64   `json:"amount"`
}

// Wager is the set of bets a member has committed for one round.
// TotalStaked is debited in full before any outcome is generated.
type Wager struct {
	Ref         string    `json:"ref"`
	PlayerID    string    `json:"player_id"`
	GameType    GameType  `json:"game_type"`
	Bets        []Bet     `json:"bets"`
	TotalStaked int64     `json:"total_staked"`
	PlacedAt    time.Time `json:"placed_at"`
}

// BetPayout is the per-bet line of a payout breakdown.
type BetPayout struct {
	Bet    Bet   `json:"bet"`
	Credit int64 `json:"credit"`
}

// PayoutResult is the settled credit for a wager. A wager is credited
// exactly once; Owed is set when the ledger credit could not be applied
// and the amount was recorded for later payment instead.
type PayoutResult struct {
	WagerRef     string      `json:"wager_ref"`
	CreditAmount int64       `json:"credit_amount"`
	Breakdown    []BetPayout `json:"breakdown,omitempty"`
	Owed         bool        `json:"owed,omitempty"`
}

// GameInfo describes a registered game for listings and bet validation.
type GameInfo struct {
	Type    GameType `json:"type"`
	Name    string   `json:"name"`
	MinBet  int64    `json:"min_bet"`
	MaxBet  int64    `json:"max_bet"`
	Enabled bool     `json:"enabled"`
}

// TransactionType classifies ledger transactions.
type TransactionType string

const (
	TxTypeWager  TransactionType = "wager"
	TxTypeWin    TransactionType = "win"
	TxTypeRefund TransactionType = "refund"
	TxTypeGrant  TransactionType = "grant"
)

// Transaction is one applied balance change, with the balance recorded
// before and after so the ledger history is self-checking.
type Transaction struct {
	ID            string          `json:"id"`
	PlayerID      string          `json:"player_id"`
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"`
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
	Reference     string          `json:"reference"`
	Memo          string          `json:"memo"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RoundRecord is the archived form of a settled round, kept for game
// recall. The engine writes it once at settlement and never reads it
// back for game logic.
type RoundRecord struct {
	ID            string          `json:"id"`
	PlayerID      string          `json:"player_id"`
	GameType      GameType        `json:"game_type"`
	Bets          []Bet           `json:"bets"`
	TotalStaked   int64           `json:"total_staked"`
	CreditAmount  int64           `json:"credit_amount"`
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
	Outcome       json.RawMessage `json:"outcome"`
	SettledAt     time.Time       `json:"settled_at"`
}

// EventSeverity grades audit events.
type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityError    EventSeverity = "error"
	SeverityCritical EventSeverity = "critical"
)

// AuditEvent is a significant event worth keeping outside the normal
// log stream: large wins, owed payouts, RNG health results.
type AuditEvent struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Severity    EventSeverity   `json:"severity"`
	Timestamp   time.Time       `json:"timestamp"`
	PlayerID    *string         `json:"player_id,omitempty"`
	GameType    *GameType       `json:"game_type,omitempty"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data,omitempty"`
}
