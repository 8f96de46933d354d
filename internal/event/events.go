package event

import "github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"

// Topics published by the engine.
const (
	TopicReveal  = "round.reveal"
	TopicSettled = "round.settled"
)

// Reveal is one intermediate presentation step: a dealt card, a reel
// stop, a die face, the roulette pocket with its derived wheel angle.
// The sequence number orders reveals within a round.
type Reveal struct {
	PlayerID string          `json:"player_id"`
	GameType domain.GameType `json:"game_type"`
	Seq      int             `json:"seq"`
	Stage    string          `json:"stage"`
	Value    any             `json:"value"`
}

// Settled announces a finished round.
type Settled struct {
	PlayerID string              `json:"player_id"`
	GameType domain.GameType     `json:"game_type"`
	Outcome  any                 `json:"outcome"`
	Payout   domain.PayoutResult `json:"payout"`
}
