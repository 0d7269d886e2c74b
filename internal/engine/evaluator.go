package engine

import "strconv"

// blackjackCardValue maps a rank to its Blackjack value: aces start at 11,
// face cards are 10, the rest count face value.
func blackjackCardValue(r Rank) int {
	switch r {
	case Ace:
		return 11
	case Jack, Queen, King:
		return 10
	default:
		n, _ := strconv.Atoi(string(r))
		return n
	}
}

// baccaratCardValue maps a rank to its Baccarat value: aces are 1, tens and
// face cards are 0.
func baccaratCardValue(r Rank) int {
	switch r {
	case Ace:
		return 1
	case Ten, Jack, Queen, King:
		return 0
	default:
		n, _ := strconv.Atoi(string(r))
		return n
	}
}

// BlackjackValue computes the best Blackjack total for a hand. Every ace is
// counted as 11 first; while the total busts and soft aces remain, one ace
// at a time is converted to 1. A result above 21 is a bust.
func BlackjackValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		v := blackjackCardValue(c.Rank)
		total += v
		if c.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsSoft reports whether the hand still counts an ace as 11.
func IsSoft(cards []Card) bool {
	total := 0
	aces := 0
	for _, c := range cards {
		total += blackjackCardValue(c.Rank)
		if c.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return aces > 0
}

// IsNatural reports whether the hand is a two-card 21. Split hands never
// qualify; the round resolver enforces that, not the evaluator.
func IsNatural(cards []Card) bool {
	return len(cards) == 2 && BlackjackValue(cards) == 21
}

// BaccaratValue computes the Baccarat total: sum of card values mod 10,
// always in [0, 9].
func BaccaratValue(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += baccaratCardValue(c.Rank)
	}
	return total % 10
}
