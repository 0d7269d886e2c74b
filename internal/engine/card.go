package engine

import (
	"fmt"

	appErr "casino-engine/pkg/errors"
)

type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

var suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

var ranks = [13]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Card is immutable once dealt. Point values are not stored on the card;
// each game's evaluator owns its own rank-to-value mapping.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%c", c.Rank, c.Suit[0])
}

// Deck is an ordered sequence of cards consumed front to back. A fresh deck
// is built and shuffled once per round and never reused across rounds.
type Deck struct {
	cards []Card
}

// NewDeck returns all 52 unique (suit, rank) combinations in fixed order.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, s := range suits {
		for _, r := range ranks {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	return &Deck{cards: cards}
}

// NewShuffledDeck builds a full deck and shuffles it with src.
func NewShuffledDeck(src Source) *Deck {
	d := NewDeck()
	d.Shuffle(src)
	return d
}

// DeckFromCards builds a deck with a fixed dealing order. This is the
// replay seam: audits and tests reconstruct a round by supplying the exact
// cards it consumed instead of a randomness source.
func DeckFromCards(cards ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Shuffle performs a Fisher-Yates shuffle: iterate from the last index down
// to 1, swapping with a uniformly random earlier-or-equal index. Any bias
// here is a payable defect, so the algorithm is fixed, not an implementation
// detail.
func (d *Deck) Shuffle(src Source) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the first n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative deal count %d", appErr.ErrInsufficientCards, n)
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", appErr.ErrInsufficientCards, n, len(d.cards))
	}
	dealt := d.cards[:n]
	d.cards = d.cards[n:]
	return dealt, nil
}

// DealOne removes and returns the top card.
func (d *Deck) DealOne() (Card, error) {
	cards, err := d.Deal(1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

// Remaining reports how many cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
