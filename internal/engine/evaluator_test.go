package engine_test

import (
	"testing"

	"casino-engine/internal/engine"
)

func hand(ranks ...engine.Rank) []engine.Card {
	suits := []engine.Suit{engine.Hearts, engine.Diamonds, engine.Clubs, engine.Spades}
	cards := make([]engine.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = engine.Card{Suit: suits[i%4], Rank: r}
	}
	return cards
}

func TestBlackjackValue(t *testing.T) {
	cases := []struct {
		name  string
		ranks []engine.Rank
		want  int
	}{
		{"ten plus nine", []engine.Rank{engine.Ten, engine.Nine}, 19},
		{"face cards count ten", []engine.Rank{engine.Jack, engine.Queen}, 20},
		{"soft seventeen", []engine.Rank{engine.Ace, engine.Six}, 17},
		{"natural", []engine.Rank{engine.Ace, engine.King}, 21},
		{"two aces", []engine.Rank{engine.Ace, engine.Ace}, 12},
		{"aces reduce one at a time", []engine.Rank{engine.Ace, engine.Ace, engine.Nine}, 21},
		{"ace forced hard", []engine.Rank{engine.Ace, engine.Nine, engine.Five}, 15},
		{"bust stays bust", []engine.Rank{engine.King, engine.Queen, engine.Five}, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.BlackjackValue(hand(tc.ranks...)); got != tc.want {
				t.Fatalf("BlackjackValue(%v) = %d, want %d", tc.ranks, got, tc.want)
			}
		})
	}
}

func TestIsSoft(t *testing.T) {
	if !engine.IsSoft(hand(engine.Ace, engine.Six)) {
		t.Fatal("A,6 should be soft")
	}
	if engine.IsSoft(hand(engine.Ace, engine.Nine, engine.Five)) {
		t.Fatal("A,9,5 should be hard: the ace already counts as 1")
	}
	if engine.IsSoft(hand(engine.Ten, engine.Seven)) {
		t.Fatal("10,7 has no ace to be soft with")
	}
}

func TestIsNatural(t *testing.T) {
	if !engine.IsNatural(hand(engine.Ace, engine.King)) {
		t.Fatal("A,K should be a natural")
	}
	if engine.IsNatural(hand(engine.Seven, engine.Seven, engine.Seven)) {
		t.Fatal("a three-card 21 is not a natural")
	}
	if engine.IsNatural(hand(engine.Ten, engine.Nine)) {
		t.Fatal("19 is not a natural")
	}
}

func TestBaccaratValue(t *testing.T) {
	cases := []struct {
		name  string
		ranks []engine.Rank
		want  int
	}{
		{"king counts zero", []engine.Rank{engine.King, engine.Seven}, 7},
		{"total wraps mod ten", []engine.Rank{engine.Nine, engine.Nine}, 8},
		{"ace is one", []engine.Rank{engine.Ace, engine.Nine}, 0},
		{"ten counts zero", []engine.Rank{engine.Ten, engine.Five}, 5},
		{"three cards", []engine.Rank{engine.Four, engine.Three, engine.Eight}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.BaccaratValue(hand(tc.ranks...)); got != tc.want {
				t.Fatalf("BaccaratValue(%v) = %d, want %d", tc.ranks, got, tc.want)
			}
		})
	}
}
