package game

import (
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// The six Hoo Hey How die faces.
const (
	DiceFish     = "fish"
	DicePrawn    = "prawn"
	DiceCrab     = "crab"
	DiceRooster  = "rooster"
	DiceCalabash = "calabash"
	DiceCoin     = "coin"
)

// DiceOutcome is a resolved Hoo Hey How roll of three dice.
type DiceOutcome struct {
	Dice [3]string `json:"dice"`
}

// Game implements Outcome.
func (o *DiceOutcome) Game() domain.GameType { return domain.GameHooHeyHow }

// Count returns how many of the three dice show the symbol.
func (o *DiceOutcome) Count(symbol string) int64 {
	var n int64
	for _, d := range o.Dice {
		if d == symbol {
			n++
		}
	}
	return n
}

// Fair dice: equal weights across the six faces.
var diceWeightTable = []rng.WeightedSymbol{
	{Symbol: DiceFish, Weight: 1},
	{Symbol: DicePrawn, Weight: 1},
	{Symbol: DiceCrab, Weight: 1},
	{Symbol: DiceRooster, Weight: 1},
	{Symbol: DiceCalabash, Weight: 1},
	{Symbol: DiceCoin, Weight: 1},
}

var diceFaces = map[string]bool{
	DiceFish:     true,
	DicePrawn:    true,
	DiceCrab:     true,
	DiceRooster:  true,
	DiceCalabash: true,
	DiceCoin:     true,
}

// HooHeyHow implements the three-dice match game: each staked symbol
// appearing n times among the dice returns the stake plus n times the
// stake.
type HooHeyHow struct{}

// NewHooHeyHow creates the dice rule engine.
func NewHooHeyHow() *HooHeyHow { return &HooHeyHow{} }

func (g *HooHeyHow) Type() domain.GameType { return domain.GameHooHeyHow }

func (g *HooHeyHow) Info() domain.GameInfo {
	return domain.GameInfo{
		Type:    domain.GameHooHeyHow,
		Name:    "Hoo Hey How",
		MinBet:  1,
		MaxBet:  2000,
		Enabled: true,
	}
}

func (g *HooHeyHow) ValidateBet(b domain.Bet) error {
	if b.Kind != domain.BetSymbol || !diceFaces[b.Selector] {
		return ErrInvalidSelector
	}
	return nil
}

func (g *HooHeyHow) Stake(b domain.Bet) int64 { return b.Amount }

// Deal rolls three independent dice.
func (g *HooHeyHow) Deal(src rng.Source, _ *Shoe, fn RevealFunc) (Outcome, error) {
	outcome := &DiceOutcome{}
	for i := 0; i < 3; i++ {
		face, err := rng.PickWeighted(src, diceWeightTable)
		if err != nil {
			return nil, err
		}
		outcome.Dice[i] = face
		reveal(fn, "die", face)
	}
	return outcome, nil
}

// Settle returns, for each matched stake, the stake plus the stake for
// every die showing the symbol.
func (g *HooHeyHow) Settle(o Outcome, bets []domain.Bet) (int64, []domain.BetPayout) {
	outcome := o.(*DiceOutcome)

	var total int64
	breakdown := make([]domain.BetPayout, 0, len(bets))

	for _, b := range bets {
		var credit int64
		if n := outcome.Count(b.Selector); n > 0 {
			credit = b.Amount + b.Amount*n
		}
		total += credit
		breakdown = append(breakdown, domain.BetPayout{Bet: b, Credit: credit})
	}

	return total, breakdown
}
