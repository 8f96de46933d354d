package game

import (
	"errors"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameDisabled     = errors.New("game is disabled")
	ErrInvalidSelector  = errors.New("invalid selector for game")
	ErrInvalidBetAmount = errors.New("invalid bet amount")
	ErrNoActiveBets     = errors.New("no active bets")
	ErrAlreadyResolved  = errors.New("round already resolved")
	ErrBetsLocked       = errors.New("bets are locked")
	ErrRoundInPlay      = errors.New("round is in play")
	ErrNotBlackjack     = errors.New("action only valid for blackjack")
	ErrNoHandInPlay     = errors.New("no hand in play")
	ErrDoubleNotAllowed = errors.New("double down requires exactly two cards")
)

// Outcome is a resolved game result. Concrete types carry the
// game-specific fields the presentation layer renders.
type Outcome interface {
	Game() domain.GameType
}

// RevealFunc receives intermediate presentation steps while an outcome
// is generated: one call per dealt card, reel stop, die face. Rules
// must tolerate a nil RevealFunc (headless callers pass none).
type RevealFunc func(stage string, value any)

// Rules is the capability set a game contributes to the shared session
// controller. Deal consumes randomness (and, for card games, the shoe)
// to produce an Outcome; Settle is a pure function of that outcome and
// the recorded bets.
type Rules interface {
	Type() domain.GameType
	Info() domain.GameInfo

	// ValidateBet checks kind and selector legality. Amount bounds are
	// enforced by the session against Info().
	ValidateBet(b domain.Bet) error

	// Stake is the amount reserved for a bet; for most games the bet
	// amount itself, for the slot grid the per-line amount times the
	// number of paylines.
	Stake(b domain.Bet) int64

	// Deal produces the round outcome.
	Deal(src rng.Source, shoe *Shoe, reveal RevealFunc) (Outcome, error)

	// Settle computes the total credit and per-bet breakdown for an
	// outcome. Same inputs always produce the same credit.
	Settle(o Outcome, bets []domain.Bet) (int64, []domain.BetPayout)
}

// Registry holds the engine's registered games.
type Registry struct {
	games map[domain.GameType]Rules
}

// NewRegistry registers all six games.
func NewRegistry() *Registry {
	r := &Registry{games: make(map[domain.GameType]Rules)}
	for _, rules := range []Rules{
		NewBaccarat(),
		NewBlackjack(),
		NewRoulette(),
		NewSlots(),
		NewMary(),
		NewHooHeyHow(),
	} {
		r.games[rules.Type()] = rules
	}
	return r
}

// Get returns the rules for a game type.
func (r *Registry) Get(gt domain.GameType) (Rules, error) {
	rules, ok := r.games[gt]
	if !ok {
		return nil, ErrGameNotFound
	}
	return rules, nil
}

// List returns info for every registered game.
func (r *Registry) List() []domain.GameInfo {
	infos := make([]domain.GameInfo, 0, len(r.games))
	for _, rules := range r.games {
		infos = append(infos, rules.Info())
	}
	return infos
}

func reveal(fn RevealFunc, stage string, value any) {
	if fn != nil {
		fn(stage, value)
	}
}
