package game

import (
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

const slotPaylines = 5

// GridOutcome is a resolved 3x3 spin. Grid is row-major; WinLines
// lists the paylines where all three symbols matched.
type GridOutcome struct {
	Grid     [9]string  `json:"grid"`
	WinLines []SlotLine `json:"win_lines,omitempty"`
}

// SlotLine is one winning payline.
type SlotLine struct {
	Line   int    `json:"line"`
	Symbol string `json:"symbol"`
	Value  int64  `json:"value"`
}

// Game implements Outcome.
func (o *GridOutcome) Game() domain.GameType { return domain.GameSlots }

// paylines are the five fixed cell triples: three rows and the two
// diagonals, over the row-major 3x3 grid.
var paylines = [slotPaylines][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// slotSymbols is the weighted symbol domain of a cell together with
// the per-line multiplier a matched line pays.
var slotSymbols = []struct {
	symbol string
	weight int
	value  int64
}{
	{"SEVEN", 2, 50},
	{"BAR", 4, 20},
	{"BELL", 8, 10},
	{"WATERMELON", 12, 8},
	{"GRAPES", 16, 5},
	{"ORANGE", 22, 3},
	{"CHERRY", 36, 2},
}

var slotWeightTable = buildSlotWeights()
var slotValues = buildSlotValues()

func buildSlotWeights() []rng.WeightedSymbol {
	table := make([]rng.WeightedSymbol, len(slotSymbols))
	for i, s := range slotSymbols {
		table[i] = rng.WeightedSymbol{Symbol: s.symbol, Weight: s.weight}
	}
	return table
}

func buildSlotValues() map[string]int64 {
	values := make(map[string]int64, len(slotSymbols))
	for _, s := range slotSymbols {
		values[s.symbol] = s.value
	}
	return values
}

// Slots implements the 3x3 video slot: every cell drawn independently
// from the weighted symbol table, five fixed paylines, a line paying
// its symbol value times the per-line stake.
type Slots struct{}

// NewSlots creates the slot grid rule engine.
func NewSlots() *Slots { return &Slots{} }

func (g *Slots) Type() domain.GameType { return domain.GameSlots }

func (g *Slots) Info() domain.GameInfo {
	return domain.GameInfo{
		Type:    domain.GameSlots,
		Name:    "Video Slot",
		MinBet:  2,
		MaxBet:  1000,
		Enabled: true,
	}
}

func (g *Slots) ValidateBet(b domain.Bet) error {
	if b.Kind != domain.BetLines {
		return ErrInvalidSelector
	}
	return nil
}

// Stake reserves the per-line amount for all five paylines.
func (g *Slots) Stake(b domain.Bet) int64 {
	return b.Amount * slotPaylines
}

// Deal draws each cell independently and evaluates the paylines.
func (g *Slots) Deal(src rng.Source, _ *Shoe, fn RevealFunc) (Outcome, error) {
	outcome := &GridOutcome{}

	for i := 0; i < 9; i++ {
		symbol, err := rng.PickWeighted(src, slotWeightTable)
		if err != nil {
			return nil, err
		}
		outcome.Grid[i] = symbol
		reveal(fn, "cell", symbol)
	}

	for i, line := range paylines {
		a, b, c := outcome.Grid[line[0]], outcome.Grid[line[1]], outcome.Grid[line[2]]
		if a == b && b == c {
			outcome.WinLines = append(outcome.WinLines, SlotLine{
				Line:   i + 1,
				Symbol: a,
				Value:  slotValues[a],
			})
		}
	}

	return outcome, nil
}

// Settle pays each winning line its symbol value times the per-line
// stake.
func (g *Slots) Settle(o Outcome, bets []domain.Bet) (int64, []domain.BetPayout) {
	outcome := o.(*GridOutcome)

	var total int64
	breakdown := make([]domain.BetPayout, 0, len(bets))

	for _, b := range bets {
		var credit int64
		for _, line := range outcome.WinLines {
			credit += line.Value * b.Amount
		}
		total += credit
		breakdown = append(breakdown, domain.BetPayout{Bet: b, Credit: credit})
	}

	return total, breakdown
}
