package game

import (
	"fmt"
)

// scriptSource replays a fixed sequence of draws so tests can force a
// particular outcome.
type scriptSource struct {
	ints   []int
	floats []float64
}

func (s *scriptSource) Intn(n int) (int, error) {
	if len(s.ints) == 0 {
		return 0, fmt.Errorf("script exhausted for Intn(%d)", n)
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		return 0, fmt.Errorf("scripted value %d out of range for Intn(%d)", v, n)
	}
	return v, nil
}

func (s *scriptSource) Float64() (float64, error) {
	if len(s.floats) == 0 {
		return 0, fmt.Errorf("script exhausted for Float64")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v, nil
}

// card makes a spade of the given rank; suit never affects scoring.
func card(rank string) Card {
	return Card{Rank: rank, Suit: "♠"}
}

// stackShoe builds a shoe that deals the given cards in order. Filler
// cards keep the shoe above its low-water mark so no reshuffle fires
// mid-test.
func stackShoe(cards ...Card) *Shoe {
	stacked := make([]Card, 0, len(cards)+2*shoeLowWater)
	for i := 0; i < 2*shoeLowWater; i++ {
		stacked = append(stacked, card("2"))
	}
	for i := len(cards) - 1; i >= 0; i-- {
		stacked = append(stacked, cards[i])
	}
	return &Shoe{cards: stacked}
}
