// Package game implements the casino wagering engine: the six game
// rule strategies, the shoe, the payout tables, and the wager session
// state machine that ties them to the ledger.
package game

// Card is a single playing card.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// String returns a short human-readable form like "♠A" or "♦10".
func (c Card) String() string {
	return c.Suit + c.Rank
}

var cardSuits = []string{"♦", "♥", "♠", "♣"}

var cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// newDeck returns one ordered 52-card deck.
func newDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, rank := range cardRanks {
		for _, suit := range cardSuits {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// baccaratValue returns the baccarat point value of a card:
// 2-9 face value, 10/J/Q/K zero, ace one.
func baccaratValue(rank string) int {
	switch rank {
	case "A":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default: // 10, J, Q, K
		return 0
	}
}

// baccaratScore is the hand total mod 10.
func baccaratScore(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += baccaratValue(c.Rank)
	}
	return total % 10
}

// blackjackValue returns the blackjack point value of a card with the
// ace counted soft (11).
func blackjackValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default:
		return 0
	}
}

// blackjackScore is the best hand total: aces start at 11 and drop to 1
// one at a time while the hand would bust.
func blackjackScore(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += blackjackValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// cardStrings renders a hand for outcomes and events.
func cardStrings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
