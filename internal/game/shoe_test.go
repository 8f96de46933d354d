package game

import (
	"testing"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

func TestShoeDealsWithoutRepeats(t *testing.T) {
	shoe := NewShoe(rng.New())

	// A six-deck shoe holds 6 copies of each card. Drawing down to the
	// low-water mark must never produce a seventh copy of anything.
	counts := make(map[string]int)
	for i := 0; i < shoeDecks*52-shoeLowWater; i++ {
		c, err := shoe.Draw()
		if err != nil {
			t.Fatalf("draw %d failed: %v", i, err)
		}
		counts[c.String()]++
		if counts[c.String()] > shoeDecks {
			t.Fatalf("card %s drawn more than %d times", c, shoeDecks)
		}
	}
}

func TestShoeReshufflesAtLowWater(t *testing.T) {
	shoe := NewShoe(rng.New())

	if _, err := shoe.Draw(); err != nil {
		t.Fatalf("first draw failed: %v", err)
	}
	if got := shoe.Remaining(); got != shoeDecks*52-1 {
		t.Fatalf("expected full shoe after first draw, got %d remaining", got)
	}

	// Drain to just under the low-water mark; the next draw refills.
	for shoe.Remaining() >= shoeLowWater {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("draw failed: %v", err)
		}
	}

	if _, err := shoe.Draw(); err != nil {
		t.Fatalf("draw after low water failed: %v", err)
	}
	if got := shoe.Remaining(); got != shoeDecks*52-1 {
		t.Errorf("expected reshuffled shoe, got %d remaining", got)
	}
}

func TestStackShoeOrder(t *testing.T) {
	shoe := stackShoe(card("A"), card("K"), card("3"))

	for _, want := range []string{"A", "K", "3"} {
		c, err := shoe.Draw()
		if err != nil {
			t.Fatalf("draw failed: %v", err)
		}
		if c.Rank != want {
			t.Errorf("drew %s, want rank %s", c, want)
		}
	}
}
