package game

import (
	"github.com/shopspring/decimal"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// BaccaratWinner is the side a baccarat round resolves to.
type BaccaratWinner string

const (
	BaccaratPlayer BaccaratWinner = "player"
	BaccaratBanker BaccaratWinner = "banker"
	BaccaratTie    BaccaratWinner = "tie"
)

// BaccaratOutcome is a resolved baccarat deal.
type BaccaratOutcome struct {
	PlayerHand  []string       `json:"player_hand"`
	BankerHand  []string       `json:"banker_hand"`
	PlayerScore int            `json:"player_score"`
	BankerScore int            `json:"banker_score"`
	Winner      BaccaratWinner `json:"winner"`
	Natural     bool           `json:"natural"`
}

// Game implements Outcome.
func (o *BaccaratOutcome) Game() domain.GameType { return domain.GameBaccarat }

// Baccarat implements the punto banco rules: naturals stop play, the
// player draws on five or less, and the banker follows the fixed
// third-card table.
type Baccarat struct {
	playerPays decimal.Decimal
	bankerPays decimal.Decimal
	tiePays    decimal.Decimal
}

// NewBaccarat creates the baccarat rule engine. The banker multiplier
// carries the 5% commission; the tie multiplier includes the returned
// stake on top of 8:1.
func NewBaccarat() *Baccarat {
	return &Baccarat{
		playerPays: decimal.NewFromInt(2),
		bankerPays: decimal.NewFromFloat(1.95),
		tiePays:    decimal.NewFromInt(9),
	}
}

func (g *Baccarat) Type() domain.GameType { return domain.GameBaccarat }

func (g *Baccarat) Info() domain.GameInfo {
	return domain.GameInfo{
		Type:    domain.GameBaccarat,
		Name:    "Baccarat",
		MinBet:  10,
		MaxBet:  10000,
		Enabled: true,
	}
}

func (g *Baccarat) ValidateBet(b domain.Bet) error {
	switch b.Kind {
	case domain.BetPlayer, domain.BetBanker, domain.BetTie:
		return nil
	}
	return ErrInvalidSelector
}

func (g *Baccarat) Stake(b domain.Bet) int64 { return b.Amount }

// Deal draws from the shoe in the standard order (player, banker,
// player, banker, then thirds) and applies the tableau.
func (g *Baccarat) Deal(_ rng.Source, shoe *Shoe, fn RevealFunc) (Outcome, error) {
	draw := func(stage string) (Card, error) {
		c, err := shoe.Draw()
		if err != nil {
			return Card{}, err
		}
		reveal(fn, stage, c.String())
		return c, nil
	}

	var player, banker []Card
	for i := 0; i < 2; i++ {
		p, err := draw("player_card")
		if err != nil {
			return nil, err
		}
		player = append(player, p)

		b, err := draw("banker_card")
		if err != nil {
			return nil, err
		}
		banker = append(banker, b)
	}

	playerScore := baccaratScore(player)
	bankerScore := baccaratScore(banker)
	natural := playerScore >= 8 || bankerScore >= 8

	if !natural {
		playerDrew := false
		playerThird := 0

		if playerScore <= 5 {
			c, err := draw("player_card")
			if err != nil {
				return nil, err
			}
			player = append(player, c)
			playerScore = baccaratScore(player)
			playerDrew = true
			playerThird = baccaratValue(c.Rank)
		}

		if bankerDraws(bankerScore, playerDrew, playerThird) {
			c, err := draw("banker_card")
			if err != nil {
				return nil, err
			}
			banker = append(banker, c)
			bankerScore = baccaratScore(banker)
		}
	}

	winner := BaccaratTie
	switch {
	case playerScore > bankerScore:
		winner = BaccaratPlayer
	case bankerScore > playerScore:
		winner = BaccaratBanker
	}

	return &BaccaratOutcome{
		PlayerHand:  cardStrings(player),
		BankerHand:  cardStrings(banker),
		PlayerScore: playerScore,
		BankerScore: bankerScore,
		Winner:      winner,
		Natural:     natural,
	}, nil
}

// bankerDraws is the third-card table. With the player standing the
// banker simply draws on five or less; otherwise the decision keys on
// the banker score and the player's third-card value.
func bankerDraws(bankerScore int, playerDrew bool, playerThird int) bool {
	if !playerDrew {
		return bankerScore <= 5
	}

	switch bankerScore {
	case 0, 1, 2:
		return true
	case 3:
		return playerThird != 8
	case 4:
		return playerThird >= 2 && playerThird <= 7
	case 5:
		return playerThird >= 4 && playerThird <= 7
	case 6:
		return playerThird == 6 || playerThird == 7
	default: // 7, 8, 9
		return false
	}
}

// Settle pays player 1:1, banker 0.95:1 (floored), tie 8:1 plus stake.
// On a tie the player and banker stakes are returned as well; the
// original game refunds side bets on a push and that behaviour is kept
// deliberately.
func (g *Baccarat) Settle(o Outcome, bets []domain.Bet) (int64, []domain.BetPayout) {
	outcome := o.(*BaccaratOutcome)

	var total int64
	breakdown := make([]domain.BetPayout, 0, len(bets))

	for _, b := range bets {
		var credit int64

		switch outcome.Winner {
		case BaccaratPlayer:
			if b.Kind == domain.BetPlayer {
				credit = mulFloor(b.Amount, g.playerPays)
			}
		case BaccaratBanker:
			if b.Kind == domain.BetBanker {
				credit = mulFloor(b.Amount, g.bankerPays)
			}
		case BaccaratTie:
			switch b.Kind {
			case domain.BetTie:
				credit = mulFloor(b.Amount, g.tiePays)
			case domain.BetPlayer, domain.BetBanker:
				// Stake returned on a push.
				credit = b.Amount
			}
		}

		total += credit
		breakdown = append(breakdown, domain.BetPayout{Bet: b, Credit: credit})
	}

	return total, breakdown
}

// mulFloor multiplies a stake by a decimal multiplier and floors the
// result to whole points.
func mulFloor(stake int64, multiplier decimal.Decimal) int64 {
	return multiplier.Mul(decimal.NewFromInt(stake)).Floor().IntPart()
}
