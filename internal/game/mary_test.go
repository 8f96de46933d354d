package game

import (
	"testing"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

func TestMaryDealBar(t *testing.T) {
	g := NewMary()

	// Cumulative weight zero lands on BAR, which holds a single track
	// cell, so no position draw is consumed.
	src := &scriptSource{ints: []int{0}}

	o, err := g.Deal(src, nil, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*MaryOutcome)

	if outcome.Symbol != MaryBar {
		t.Fatalf("symbol = %s, want BAR", outcome.Symbol)
	}
	if maryTrack[outcome.TrackIndex] != MaryBar {
		t.Errorf("track cell %d holds %s, not the drawn symbol", outcome.TrackIndex, maryTrack[outcome.TrackIndex])
	}
	if outcome.Odds != 100 {
		t.Errorf("odds = %d, want 100", outcome.Odds)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetSymbol, Selector: MaryBar, Amount: 10}})
	if total != 1000 {
		t.Errorf("total = %d, want 1000", total)
	}
}

func TestMaryDealLost(t *testing.T) {
	g := NewMary()

	// Cumulative weight 548 is the first LOST value.
	src := &scriptSource{ints: []int{548}}

	o, err := g.Deal(src, nil, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*MaryOutcome)

	if outcome.Symbol != MaryLost {
		t.Fatalf("symbol = %s, want LOST", outcome.Symbol)
	}
	if outcome.Odds != 0 {
		t.Errorf("odds = %d, want 0", outcome.Odds)
	}

	// Every stake loses on a LOST draw.
	bets := []domain.Bet{
		{Kind: domain.BetSymbol, Selector: MaryBar, Amount: 100},
		{Kind: domain.BetSymbol, Selector: MaryApple, Amount: 100},
	}
	total, _ := g.Settle(outcome, bets)
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestMaryDealPicksAmongCells(t *testing.T) {
	g := NewMary()

	// APPLE occupies several cells; the second draw picks among them.
	src := &scriptSource{ints: []int{368, 3}}

	o, err := g.Deal(src, nil, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*MaryOutcome)

	if outcome.Symbol != MaryApple {
		t.Fatalf("symbol = %s, want APPLE", outcome.Symbol)
	}
	if maryTrack[outcome.TrackIndex] != MaryApple {
		t.Errorf("track cell %d holds %s, not APPLE", outcome.TrackIndex, maryTrack[outcome.TrackIndex])
	}
}

func TestMarySettleMismatchPaysNothing(t *testing.T) {
	g := NewMary()

	outcome := &MaryOutcome{Symbol: MaryBell, Odds: 15}
	bets := []domain.Bet{
		{Kind: domain.BetSymbol, Selector: MaryBell, Amount: 10},
		{Kind: domain.BetSymbol, Selector: MaryPeach, Amount: 10},
	}

	total, breakdown := g.Settle(outcome, bets)
	if total != 150 {
		t.Errorf("total = %d, want 150", total)
	}
	if breakdown[1].Credit != 0 {
		t.Errorf("mismatched stake credited: %+v", breakdown[1])
	}
}

func TestMaryValidateBet(t *testing.T) {
	g := NewMary()

	if err := g.ValidateBet(domain.Bet{Kind: domain.BetSymbol, Selector: MaryBar}); err != nil {
		t.Errorf("ValidateBet(BAR) = %v", err)
	}
	if err := g.ValidateBet(domain.Bet{Kind: domain.BetSymbol, Selector: MaryLost}); err != ErrInvalidSelector {
		t.Errorf("LOST must not be stakeable, got %v", err)
	}
	if err := g.ValidateBet(domain.Bet{Kind: domain.BetSymbol, Selector: "DIAMOND"}); err != ErrInvalidSelector {
		t.Errorf("unknown symbol accepted, got %v", err)
	}
	if err := g.ValidateBet(domain.Bet{Kind: domain.BetMain, Selector: MaryBar}); err != ErrInvalidSelector {
		t.Errorf("wrong kind accepted, got %v", err)
	}
}

func TestMaryWeightsSumToThousand(t *testing.T) {
	total := 0
	for _, s := range marySymbols {
		total += s.weight
	}
	if total != 1000 {
		t.Errorf("weights sum to %d, want 1000", total)
	}
}
