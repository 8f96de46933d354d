package game

import (
	"github.com/shopspring/decimal"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// BlackjackReason says how a blackjack hand ended.
type BlackjackReason string

const (
	BlackjackShowdown   BlackjackReason = "showdown"
	BlackjackPlayerBust BlackjackReason = "player_bust"
	BlackjackDealerBust BlackjackReason = "dealer_bust"
	BlackjackNatural    BlackjackReason = "natural"
	BlackjackCharlie    BlackjackReason = "five_card_charlie"
)

// BlackjackOutcome is the state of a blackjack hand. Terminal is false
// while the player still has decisions to make; the session keeps the
// round locked until it flips.
type BlackjackOutcome struct {
	PlayerHand  []string        `json:"player_hand"`
	DealerHand  []string        `json:"dealer_hand"`
	PlayerScore int             `json:"player_score"`
	DealerScore int             `json:"dealer_score"`
	Reason      BlackjackReason `json:"reason,omitempty"`
	Doubled     bool            `json:"doubled,omitempty"`
	Terminal    bool            `json:"terminal"`

	playerCards []Card
	dealerCards []Card
}

// Game implements Outcome.
func (o *BlackjackOutcome) Game() domain.GameType { return domain.GameBlackjack }

func (o *BlackjackOutcome) sync() {
	o.PlayerHand = cardStrings(o.playerCards)
	o.DealerHand = cardStrings(o.dealerCards)
	o.PlayerScore = blackjackScore(o.playerCards)
	o.DealerScore = blackjackScore(o.dealerCards)
}

// Blackjack implements the house blackjack rules: dealer stands on any
// 17 (hard-17 rule, no soft-17 hit), natural pays 3:2, and a five-card
// hand under 21 wins outright.
type Blackjack struct {
	naturalPays decimal.Decimal
}

// NewBlackjack creates the blackjack rule engine.
func NewBlackjack() *Blackjack {
	return &Blackjack{
		naturalPays: decimal.NewFromFloat(2.5),
	}
}

func (g *Blackjack) Type() domain.GameType { return domain.GameBlackjack }

func (g *Blackjack) Info() domain.GameInfo {
	return domain.GameInfo{
		Type:    domain.GameBlackjack,
		Name:    "Blackjack",
		MinBet:  10,
		MaxBet:  10000,
		Enabled: true,
	}
}

func (g *Blackjack) ValidateBet(b domain.Bet) error {
	switch b.Kind {
	case domain.BetMain, domain.BetDouble:
		return nil
	}
	return ErrInvalidSelector
}

func (g *Blackjack) Stake(b domain.Bet) int64 { return b.Amount }

// Deal gives two cards each. A player natural (21 on two cards) ends
// the hand immediately: the dealer's two cards decide win or push.
func (g *Blackjack) Deal(_ rng.Source, shoe *Shoe, fn RevealFunc) (Outcome, error) {
	o := &BlackjackOutcome{}

	for i := 0; i < 2; i++ {
		p, err := shoe.Draw()
		if err != nil {
			return nil, err
		}
		o.playerCards = append(o.playerCards, p)
		reveal(fn, "player_card", p.String())

		d, err := shoe.Draw()
		if err != nil {
			return nil, err
		}
		o.dealerCards = append(o.dealerCards, d)
		reveal(fn, "dealer_card", d.String())
	}

	o.sync()

	if o.PlayerScore == 21 {
		o.Terminal = true
		o.Reason = BlackjackNatural
	}

	return o, nil
}

// Hit draws one card for the player. The hand ends on a bust or when a
// fifth card stays at or under 21 (five-card Charlie).
func (g *Blackjack) Hit(o *BlackjackOutcome, shoe *Shoe, fn RevealFunc) error {
	c, err := shoe.Draw()
	if err != nil {
		return err
	}
	o.playerCards = append(o.playerCards, c)
	reveal(fn, "player_card", c.String())
	o.sync()

	if o.PlayerScore > 21 {
		o.Terminal = true
		o.Reason = BlackjackPlayerBust
	} else if len(o.playerCards) >= 5 {
		o.Terminal = true
		o.Reason = BlackjackCharlie
	}
	return nil
}

// Stand ends the player's turn and plays the dealer out.
func (g *Blackjack) Stand(o *BlackjackOutcome, shoe *Shoe, fn RevealFunc) error {
	return g.playDealer(o, shoe, fn)
}

// Double draws exactly one more card and, unless the player busts,
// plays the dealer out. The session has already debited the doubled
// stake before calling this.
func (g *Blackjack) Double(o *BlackjackOutcome, shoe *Shoe, fn RevealFunc) error {
	o.Doubled = true

	c, err := shoe.Draw()
	if err != nil {
		return err
	}
	o.playerCards = append(o.playerCards, c)
	reveal(fn, "player_card", c.String())
	o.sync()

	if o.PlayerScore > 21 {
		o.Terminal = true
		o.Reason = BlackjackPlayerBust
		return nil
	}

	return g.playDealer(o, shoe, fn)
}

// playDealer hits while the dealer is under 17 and stands at 17 or
// more regardless of softness.
func (g *Blackjack) playDealer(o *BlackjackOutcome, shoe *Shoe, fn RevealFunc) error {
	for blackjackScore(o.dealerCards) < 17 {
		c, err := shoe.Draw()
		if err != nil {
			return err
		}
		o.dealerCards = append(o.dealerCards, c)
		reveal(fn, "dealer_card", c.String())
	}

	o.sync()
	o.Terminal = true
	if o.DealerScore > 21 {
		o.Reason = BlackjackDealerBust
	} else {
		o.Reason = BlackjackShowdown
	}
	return nil
}

// Settle applies one multiplier across the main and double stakes:
// bust pays nothing, a win pays 1:1, a push returns the stake, Charlie
// and dealer bust count as wins, and a natural pays 3:2 floored unless
// the dealer also holds a two-card 21.
func (g *Blackjack) Settle(o Outcome, bets []domain.Bet) (int64, []domain.BetPayout) {
	outcome := o.(*BlackjackOutcome)

	multiplier := g.resultMultiplier(outcome)

	var total int64
	breakdown := make([]domain.BetPayout, 0, len(bets))
	for _, b := range bets {
		credit := mulFloor(b.Amount, multiplier)
		total += credit
		breakdown = append(breakdown, domain.BetPayout{Bet: b, Credit: credit})
	}

	return total, breakdown
}

func (g *Blackjack) resultMultiplier(o *BlackjackOutcome) decimal.Decimal {
	lose := decimal.Zero
	push := decimal.NewFromInt(1)
	win := decimal.NewFromInt(2)

	switch o.Reason {
	case BlackjackPlayerBust:
		return lose
	case BlackjackCharlie, BlackjackDealerBust:
		return win
	case BlackjackNatural:
		// A two-card dealer 21 pushes against the natural.
		if o.DealerScore == 21 && len(o.DealerHand) == 2 {
			return push
		}
		return g.naturalPays
	default: // showdown
		switch {
		case o.PlayerScore > o.DealerScore:
			return win
		case o.PlayerScore == o.DealerScore:
			return push
		default:
			return lose
		}
	}
}
