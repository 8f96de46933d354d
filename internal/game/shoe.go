package game

import (
	"fmt"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

const (
	shoeDecks = 6
	// Reshuffle before a draw whenever fewer cards than this remain.
	shoeLowWater = 10
)

// Shoe is the ordered multi-deck card supply for the card games. Cards
// are consumed from the tail and never repeat until the shoe falls
// below its low-water mark and is reshuffled into a fresh sequence.
type Shoe struct {
	src   rng.Source
	cards []Card
}

// NewShoe creates an empty shoe; the first Draw fills and shuffles it.
func NewShoe(src rng.Source) *Shoe {
	return &Shoe{src: src}
}

// Remaining reports how many cards are left before the next reshuffle.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Draw takes the next card, reshuffling first when the shoe is running
// low.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) < shoeLowWater {
		if err := s.reshuffle(); err != nil {
			return Card{}, err
		}
	}

	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, nil
}

// reshuffle rebuilds the full multi-deck sequence and shuffles it.
func (s *Shoe) reshuffle() error {
	cards := make([]Card, 0, shoeDecks*52)
	for i := 0; i < shoeDecks; i++ {
		cards = append(cards, newDeck()...)
	}

	err := rng.Shuffle(s.src, len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	if err != nil {
		return fmt.Errorf("failed to shuffle shoe: %w", err)
	}

	s.cards = cards
	return nil
}
