package game

import (
	"strconv"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// RouletteColor is the pocket colour; zero is green.
type RouletteColor string

const (
	RouletteRed   RouletteColor = "red"
	RouletteBlack RouletteColor = "black"
	RouletteGreen RouletteColor = "green"
)

// RouletteOutcome is a resolved spin. Angle is the wheel rotation, in
// degrees, that visually lands the drawn pocket under the pointer: the
// outcome is drawn first and the animation derived from it, never the
// other way around.
type RouletteOutcome struct {
	Number int           `json:"number"`
	Color  RouletteColor `json:"color"`
	Odd    bool          `json:"odd"`
	Angle  float64       `json:"angle"`
}

// Game implements Outcome.
func (o *RouletteOutcome) Game() domain.GameType { return domain.GameRoulette }

// wheelOrder is the physical pocket layout of a European single-zero
// wheel, clockwise from zero. Only presentation depends on it.
var wheelOrder = [37]int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30,
	8, 23, 10, 5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7,
	28, 12, 35, 3, 26,
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true,
	12: true, 14: true, 16: true, 18: true, 19: true,
	21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// Roulette implements a European single-zero wheel: one uniform draw
// over 37 pockets, straight bets at 35:1, outside colour and parity
// bets at 1:1, all outside bets lost on zero.
type Roulette struct{}

// NewRoulette creates the roulette rule engine.
func NewRoulette() *Roulette { return &Roulette{} }

func (g *Roulette) Type() domain.GameType { return domain.GameRoulette }

func (g *Roulette) Info() domain.GameInfo {
	return domain.GameInfo{
		Type:    domain.GameRoulette,
		Name:    "Roulette",
		MinBet:  10,
		MaxBet:  5000,
		Enabled: true,
	}
}

func (g *Roulette) ValidateBet(b domain.Bet) error {
	switch b.Kind {
	case domain.BetRed, domain.BetBlack, domain.BetOdd, domain.BetEven:
		return nil
	case domain.BetStraight:
		n, err := strconv.Atoi(b.Selector)
		if err != nil || n < 0 || n > 36 {
			return ErrInvalidSelector
		}
		return nil
	}
	return ErrInvalidSelector
}

func (g *Roulette) Stake(b domain.Bet) int64 { return b.Amount }

// Deal draws the pocket uniformly, independent of any animation.
func (g *Roulette) Deal(src rng.Source, _ *Shoe, fn RevealFunc) (Outcome, error) {
	number, err := src.Intn(37)
	if err != nil {
		return nil, err
	}

	color := RouletteGreen
	if number != 0 {
		if redNumbers[number] {
			color = RouletteRed
		} else {
			color = RouletteBlack
		}
	}

	outcome := &RouletteOutcome{
		Number: number,
		Color:  color,
		Odd:    number != 0 && number%2 == 1,
		Angle:  RotationFor(number),
	}

	reveal(fn, "pocket", outcome)
	return outcome, nil
}

// RotationFor derives the wheel rotation angle, in degrees, that lands
// the given pocket under the pointer.
func RotationFor(number int) float64 {
	for i, n := range wheelOrder {
		if n == number {
			return float64(i) * (360.0 / 37.0)
		}
	}
	return 0
}

// Settle pays straight hits at 35:1 plus stake and winning outside
// bets at even money; zero loses every outside bet.
func (g *Roulette) Settle(o Outcome, bets []domain.Bet) (int64, []domain.BetPayout) {
	outcome := o.(*RouletteOutcome)

	var total int64
	breakdown := make([]domain.BetPayout, 0, len(bets))

	for _, b := range bets {
		var credit int64

		switch b.Kind {
		case domain.BetStraight:
			if n, err := strconv.Atoi(b.Selector); err == nil && n == outcome.Number {
				credit = b.Amount * 36
			}
		case domain.BetRed:
			if outcome.Color == RouletteRed {
				credit = b.Amount * 2
			}
		case domain.BetBlack:
			if outcome.Color == RouletteBlack {
				credit = b.Amount * 2
			}
		case domain.BetOdd:
			if outcome.Number != 0 && outcome.Odd {
				credit = b.Amount * 2
			}
		case domain.BetEven:
			if outcome.Number != 0 && !outcome.Odd {
				credit = b.Amount * 2
			}
		}

		total += credit
		breakdown = append(breakdown, domain.BetPayout{Bet: b, Credit: credit})
	}

	return total, breakdown
}
