package domain

import (
	"encoding/json"
	"testing"
)

func TestBetJSONRoundTrip(t *testing.T) {
	bet := Bet{Kind: BetStraight, Selector: "17", Amount: 100}

	data, err := json.Marshal(bet)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Bet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded != bet {
		t.Errorf("expected %+v, got %+v", bet, decoded)
	}
}

func TestBetOmitsEmptySelector(t *testing.T) {
	bet := Bet{Kind: BetBanker, Amount: 50}

	data, err := json.Marshal(bet)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	json.Unmarshal(data, &raw)
	if _, ok := raw["selector"]; ok {
		t.Error("empty selector should be omitted")
	}
}

func TestPayoutResultOwedFlag(t *testing.T) {
	result := PayoutResult{WagerRef: "ref-1", CreditAmount: 195}

	data, _ := json.Marshal(result)
	var raw map[string]any
	json.Unmarshal(data, &raw)

	if _, ok := raw["owed"]; ok {
		t.Error("owed should be omitted when false")
	}
}
