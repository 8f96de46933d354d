package game

import (
	"testing"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
)

func TestBlackjackDealNatural(t *testing.T) {
	g := NewBlackjack()

	// Deal order is player, dealer, player, dealer.
	shoe := stackShoe(card("A"), card("5"), card("K"), card("9"))

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)

	if !outcome.Terminal {
		t.Fatal("natural should end the hand immediately")
	}
	if outcome.Reason != BlackjackNatural {
		t.Errorf("reason = %s, want natural", outcome.Reason)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 250 {
		t.Errorf("natural payout = %d, want 250", total)
	}
}

func TestBlackjackNaturalPushesAgainstDealerNatural(t *testing.T) {
	g := NewBlackjack()

	shoe := stackShoe(card("A"), card("A"), card("K"), card("K"))

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)

	if !outcome.Terminal || outcome.Reason != BlackjackNatural {
		t.Fatalf("expected terminal natural, got %+v", outcome)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 100 {
		t.Errorf("push payout = %d, want stake back", total)
	}
}

func TestBlackjackHitBust(t *testing.T) {
	g := NewBlackjack()

	shoe := stackShoe(card("7"), card("5"), card("8"), card("9"), card("K"))

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)
	if outcome.Terminal {
		t.Fatal("hand should still be in play")
	}

	if err := g.Hit(outcome, shoe, nil); err != nil {
		t.Fatalf("hit failed: %v", err)
	}
	if !outcome.Terminal || outcome.Reason != BlackjackPlayerBust {
		t.Fatalf("expected player bust, got %+v", outcome)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 0 {
		t.Errorf("bust payout = %d, want 0", total)
	}
}

func TestBlackjackFiveCardCharlie(t *testing.T) {
	g := NewBlackjack()

	shoe := stackShoe(
		card("2"), card("K"), card("3"), card("9"),
		card("2"), card("2"), card("3"),
	)

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)

	for i := 0; i < 3; i++ {
		if err := g.Hit(outcome, shoe, nil); err != nil {
			t.Fatalf("hit %d failed: %v", i, err)
		}
	}

	if !outcome.Terminal || outcome.Reason != BlackjackCharlie {
		t.Fatalf("expected five-card Charlie, got %+v", outcome)
	}

	// Charlie wins outright even against a dealer nineteen.
	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 200 {
		t.Errorf("Charlie payout = %d, want 200", total)
	}
}

func TestBlackjackStandDealerPlaysToSeventeen(t *testing.T) {
	g := NewBlackjack()

	shoe := stackShoe(
		card("K"), card("6"), card("9"), card("5"),
		card("6"), // dealer draw to 17
	)

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)

	if err := g.Stand(outcome, shoe, nil); err != nil {
		t.Fatalf("stand failed: %v", err)
	}

	if outcome.DealerScore != 17 {
		t.Errorf("dealer score = %d, want 17 (stands on any seventeen)", outcome.DealerScore)
	}
	if outcome.Reason != BlackjackShowdown {
		t.Errorf("reason = %s, want showdown", outcome.Reason)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 200 {
		t.Errorf("payout = %d, want 200", total)
	}
}

func TestBlackjackDealerStandsOnSoftSeventeen(t *testing.T) {
	g := NewBlackjack()

	// Dealer A+6 is seventeen and must not draw.
	shoe := stackShoe(card("K"), card("A"), card("8"), card("6"))

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)

	if err := g.Stand(outcome, shoe, nil); err != nil {
		t.Fatalf("stand failed: %v", err)
	}

	if len(outcome.DealerHand) != 2 || outcome.DealerScore != 17 {
		t.Errorf("dealer hand = %v (%d), want two-card seventeen", outcome.DealerHand, outcome.DealerScore)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 200 {
		t.Errorf("payout = %d, want 200 for eighteen over seventeen", total)
	}
}

func TestBlackjackDealerBust(t *testing.T) {
	g := NewBlackjack()

	shoe := stackShoe(
		card("K"), card("10"), card("8"), card("6"),
		card("K"), // dealer draw busts
	)

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)

	if err := g.Stand(outcome, shoe, nil); err != nil {
		t.Fatalf("stand failed: %v", err)
	}

	if outcome.Reason != BlackjackDealerBust {
		t.Errorf("reason = %s, want dealer bust", outcome.Reason)
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 200 {
		t.Errorf("payout = %d, want 200", total)
	}
}

func TestBlackjackDouble(t *testing.T) {
	g := NewBlackjack()

	shoe := stackShoe(
		card("5"), card("10"), card("6"), card("6"),
		card("10"), // player's doubled card, 21
		card("2"),  // dealer draws to 18
	)

	o, err := g.Deal(nil, shoe, nil)
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	outcome := o.(*BlackjackOutcome)

	if err := g.Double(outcome, shoe, nil); err != nil {
		t.Fatalf("double failed: %v", err)
	}

	if !outcome.Terminal || !outcome.Doubled {
		t.Fatalf("expected terminal doubled hand, got %+v", outcome)
	}
	if len(outcome.PlayerHand) != 3 {
		t.Errorf("player hand = %v, want exactly one extra card", outcome.PlayerHand)
	}

	// The same multiplier covers both the main and the doubled stake.
	bets := []domain.Bet{
		{Kind: domain.BetMain, Amount: 100},
		{Kind: domain.BetDouble, Amount: 100},
	}
	total, breakdown := g.Settle(outcome, bets)
	if total != 400 {
		t.Errorf("payout = %d, want 400", total)
	}
	if breakdown[0].Credit != 200 || breakdown[1].Credit != 200 {
		t.Errorf("breakdown = %+v", breakdown)
	}
}

func TestBlackjackShowdownPush(t *testing.T) {
	g := NewBlackjack()

	outcome := &BlackjackOutcome{
		PlayerScore: 18,
		DealerScore: 18,
		Reason:      BlackjackShowdown,
		Terminal:    true,
	}

	total, _ := g.Settle(outcome, []domain.Bet{{Kind: domain.BetMain, Amount: 100}})
	if total != 100 {
		t.Errorf("push payout = %d, want stake back", total)
	}
}
