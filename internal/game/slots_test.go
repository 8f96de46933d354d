package game

import (
	"testing"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

// Weighted draws select by cumulative weight; these values land on the
// named symbol.
const (
	drawSeven      = 0
	drawBar        = 2
	drawBell       = 6
	drawWatermelon = 14
	drawGrapes     = 26
	drawOrange     = 42
	drawCherry     = 64
)

func TestSlotsDealSingleLine(t *testing.T) {
	g := NewSlots()

	// Top row of sevens, everything else mixed so no other line hits.
	src := &scriptSource{ints: []int{
		drawSeven, drawSeven, drawSeven,
		drawBar, drawBell, drawGrapes,
		drawOrange, drawCherry, drawWatermelon,
	}}

	o, err := g.Deal(src, nil, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*GridOutcome)

	if len(outcome.WinLines) != 1 {
		t.Fatalf("win lines = %+v, want exactly one", outcome.WinLines)
	}
	line := outcome.WinLines[0]
	if line.Line != 1 || line.Symbol != "SEVEN" || line.Value != 50 {
		t.Errorf("line = %+v, want line 1 SEVEN at 50", line)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetLines, Amount: 2}})
	if total != 100 {
		t.Errorf("total = %d, want 100", total)
	}
}

func TestSlotsDealAllLinesHit(t *testing.T) {
	g := NewSlots()

	src := &scriptSource{ints: []int{
		drawCherry, drawCherry, drawCherry,
		drawCherry, drawCherry, drawCherry,
		drawCherry, drawCherry, drawCherry,
	}}

	o, err := g.Deal(src, nil, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*GridOutcome)

	// Three rows plus both diagonals.
	if len(outcome.WinLines) != slotPaylines {
		t.Fatalf("win lines = %d, want %d", len(outcome.WinLines), slotPaylines)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetLines, Amount: 10}})
	if total != 5*2*10 {
		t.Errorf("total = %d, want 100", total)
	}
}

func TestSlotsDealNoLines(t *testing.T) {
	g := NewSlots()

	src := &scriptSource{ints: []int{
		drawSeven, drawBar, drawBell,
		drawBar, drawSeven, drawSeven,
		drawBell, drawSeven, drawBar,
	}}

	o, err := g.Deal(src, nil, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*GridOutcome)

	if len(outcome.WinLines) != 0 {
		t.Fatalf("win lines = %+v, want none", outcome.WinLines)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetLines, Amount: 10}})
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestSlotsStakeCoversAllPaylines(t *testing.T) {
	g := NewSlots()

	if got := g.Stake(domain.Bet{Kind: domain.BetLines, Amount: 10}); got != 50 {
		t.Errorf("Stake() = %d, want 50", got)
	}
}

func TestSlotsValidateBet(t *testing.T) {
	g := NewSlots()

	if err := g.ValidateBet(domain.Bet{Kind: domain.BetLines, Amount: 10}); err != nil {
		t.Errorf("ValidateBet(lines) = %v", err)
	}
	if err := g.ValidateBet(domain.Bet{Kind: domain.BetMain, Amount: 10}); err != ErrInvalidSelector {
		t.Errorf("expected ErrInvalidSelector, got %v", err)
	}
}
