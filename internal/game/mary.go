package game

import (
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// Little Mary symbol names. MaryLost is the blank outcome that pays
// nothing regardless of stakes.
const (
	MaryBar        = "BAR"
	MarySeven      = "SEVEN"
	MaryStar       = "STAR"
	MaryWatermelon = "WATERMELON"
	MaryBell       = "BELL"
	MaryPeach      = "PEACH"
	MaryOrange     = "ORANGE"
	MaryApple      = "APPLE"
	MaryLost       = "LOST"
)

// MaryOutcome is a resolved Little Mary spin: the drawn symbol and the
// cell on the 24-cell track the light lands on. The cell is derived
// from the symbol, not the other way around.
type MaryOutcome struct {
	Symbol     string `json:"symbol"`
	TrackIndex int    `json:"track_index"`
	Odds       int64  `json:"odds"`
}

// Game implements Outcome.
func (o *MaryOutcome) Game() domain.GameType { return domain.GameMary }

// marySymbols is the paytable: draw weight and the odds a stake on the
// symbol pays. Weights sum to 1000.
var marySymbols = []struct {
	symbol string
	weight int
	odds   int64
}{
	{MaryBar, 9, 100},
	{MarySeven, 22, 40},
	{MaryStar, 30, 30},
	{MaryWatermelon, 45, 20},
	{MaryBell, 60, 15},
	{MaryPeach, 90, 10},
	{MaryOrange, 112, 8},
	{MaryApple, 180, 5},
	{MaryLost, 452, 0},
}

// maryTrack is the fixed 24-cell circular track the cabinet light runs
// around.
var maryTrack = [24]string{
	MaryApple, MaryOrange, MaryBar, MaryApple, MaryPeach, MaryBell,
	MaryOrange, MaryApple, MaryWatermelon, MaryPeach, MaryOrange, MarySeven,
	MaryApple, MaryBell, MaryPeach, MaryOrange, MaryApple, MaryStar,
	MaryLost, MaryPeach, MaryBell, MaryOrange, MaryApple, MaryWatermelon,
}

var maryWeightTable = buildMaryWeights()
var maryOdds = buildMaryOdds()

func buildMaryWeights() []rng.WeightedSymbol {
	table := make([]rng.WeightedSymbol, len(marySymbols))
	for i, s := range marySymbols {
		table[i] = rng.WeightedSymbol{Symbol: s.symbol, Weight: s.weight}
	}
	return table
}

func buildMaryOdds() map[string]int64 {
	odds := make(map[string]int64, len(marySymbols))
	for _, s := range marySymbols {
		odds[s.symbol] = s.odds
	}
	return odds
}

// Mary implements the Little Mary circular-track slot: one weighted
// draw selects the winning symbol, the track cell is derived from it,
// and stakes on the drawn symbol pay stake times the symbol's odds.
type Mary struct{}

// NewMary creates the Little Mary rule engine.
func NewMary() *Mary { return &Mary{} }

func (g *Mary) Type() domain.GameType { return domain.GameMary }

func (g *Mary) Info() domain.GameInfo {
	return domain.GameInfo{
		Type:    domain.GameMary,
		Name:    "Little Mary",
		MinBet:  1,
		MaxBet:  1000,
		Enabled: true,
	}
}

func (g *Mary) ValidateBet(b domain.Bet) error {
	if b.Kind != domain.BetSymbol {
		return ErrInvalidSelector
	}
	if odds, ok := maryOdds[b.Selector]; !ok || odds == 0 {
		// LOST is not a stakeable symbol.
		return ErrInvalidSelector
	}
	return nil
}

func (g *Mary) Stake(b domain.Bet) int64 { return b.Amount }

// Deal draws the symbol, then picks which of its track cells the light
// stops on.
func (g *Mary) Deal(src rng.Source, _ *Shoe, fn RevealFunc) (Outcome, error) {
	symbol, err := rng.PickWeighted(src, maryWeightTable)
	if err != nil {
		return nil, err
	}

	var positions []int
	for i, cell := range maryTrack {
		if cell == symbol {
			positions = append(positions, i)
		}
	}

	// Every paytable symbol occupies at least one cell.
	idx := 0
	if len(positions) > 1 {
		pick, err := src.Intn(len(positions))
		if err != nil {
			return nil, err
		}
		idx = pick
	}

	outcome := &MaryOutcome{
		Symbol:     symbol,
		TrackIndex: positions[idx],
		Odds:       maryOdds[symbol],
	}

	reveal(fn, "track_stop", outcome)
	return outcome, nil
}

// Settle pays stakes on the drawn symbol at the symbol's odds;
// everything else, including every stake on a LOST draw, pays nothing.
func (g *Mary) Settle(o Outcome, bets []domain.Bet) (int64, []domain.BetPayout) {
	outcome := o.(*MaryOutcome)

	var total int64
	breakdown := make([]domain.BetPayout, 0, len(bets))

	for _, b := range bets {
		var credit int64
		if b.Selector == outcome.Symbol {
			credit = b.Amount * outcome.Odds
		}
		total += credit
		breakdown = append(breakdown, domain.BetPayout{Bet: b, Credit: credit})
	}

	return total, breakdown
}
