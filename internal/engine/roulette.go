package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	appErr "casino-engine/pkg/errors"
)

// BetCategory is a roulette outcome category: "red", "black", "even",
// "odd", "low", "high", or "straight:N" for a single number.
type BetCategory string

const (
	BetRed   BetCategory = "red"
	BetBlack BetCategory = "black"
	BetEven  BetCategory = "even"
	BetOdd   BetCategory = "odd"
	BetLow   BetCategory = "low"
	BetHigh  BetCategory = "high"

	straightPrefix = "straight:"
	wheelPockets   = 37
)

// ParseBetCategory validates and normalizes a category string.
func ParseBetCategory(s string) (BetCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch BetCategory(normalized) {
	case BetRed, BetBlack, BetEven, BetOdd, BetLow, BetHigh:
		return BetCategory(normalized), nil
	}
	if rest, ok := strings.CutPrefix(normalized, straightPrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || n >= wheelPockets {
			return "", fmt.Errorf("%w: %q", appErr.ErrInvalidBetCategory, s)
		}
		return BetCategory(straightPrefix + strconv.Itoa(n)), nil
	}
	return "", fmt.Errorf("%w: %q", appErr.ErrInvalidBetCategory, s)
}

// Straight builds the single-number category for pocket n.
func Straight(n int) BetCategory {
	return BetCategory(straightPrefix + strconv.Itoa(n))
}

type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Black Color = "black"
)

// Standard European layout: 0 is green, these 18 are red, the rest black.
var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// PocketColor returns the fixed color of a pocket.
func PocketColor(pocket int) Color {
	switch {
	case pocket == 0:
		return Green
	case redPockets[pocket]:
		return Red
	default:
		return Black
	}
}

// RouletteRound accumulates wagers over a 37-pocket European wheel and
// settles them all on a single spin. The spin draws directly from the
// round's randomness source; no cards are involved.
type RouletteRound struct {
	ledger *ChipLedger
	limits Limits
	src    Source

	phase  Phase
	bets   map[BetCategory]int64
	pocket int

	staked int64
	payout int64
}

func NewRouletteRound(ledger *ChipLedger, limits Limits, src Source) *RouletteRound {
	return &RouletteRound{
		ledger: ledger,
		limits: limits,
		src:    src,
		phase:  PhaseWaitingBets,
		bets:   make(map[BetCategory]int64),
		pocket: -1,
	}
}

func (r *RouletteRound) Phase() Phase  { return r.phase }
func (r *RouletteRound) Staked() int64 { return r.staked }
func (r *RouletteRound) Payout() int64 { return r.payout }

// PlaceBet stakes amount on a category, debiting the balance immediately.
// Repeated placements on one category accumulate; the table maximum
// applies to the accumulated amount.
func (r *RouletteRound) PlaceBet(category string, amount int64) error {
	if r.phase != PhaseWaitingBets {
		return fmt.Errorf("%w: bet in %s", appErr.ErrInvalidAction, r.phase)
	}
	cat, err := ParseBetCategory(category)
	if err != nil {
		return err
	}
	if err := r.limits.Validate(r.bets[cat] + amount); err != nil {
		return err
	}
	if err := r.ledger.Debit(amount); err != nil {
		return err
	}
	r.bets[cat] += amount
	r.staked += amount
	return nil
}

// ClearBets refunds every placed wager. Only valid before the spin.
func (r *RouletteRound) ClearBets() error {
	if r.phase != PhaseWaitingBets {
		return fmt.Errorf("%w: clear in %s", appErr.ErrInvalidAction, r.phase)
	}
	_ = r.ledger.Credit(r.staked)
	r.bets = make(map[BetCategory]int64)
	r.staked = 0
	return nil
}

// Spin draws one pocket, pays every winning category, and settles the
// round. Requires at least one placed bet.
func (r *RouletteRound) Spin() error {
	if r.phase != PhaseWaitingBets {
		return fmt.Errorf("%w: spin in %s", appErr.ErrInvalidAction, r.phase)
	}
	if len(r.bets) == 0 {
		return fmt.Errorf("%w: spin with no bets placed", appErr.ErrInvalidAction)
	}

	r.pocket = r.src.Intn(wheelPockets)

	var total int64
	for cat, amount := range r.bets {
		total += amount * payoutMultiple(cat, r.pocket)
	}
	r.payout = total
	_ = r.ledger.Credit(total)
	r.phase = PhaseSettled
	return nil
}

// Forfeit abandons the round, losing everything staked.
func (r *RouletteRound) Forfeit() error {
	if r.phase == PhaseSettled {
		return fmt.Errorf("%w: round already settled", appErr.ErrInvalidAction)
	}
	r.phase = PhaseSettled
	return nil
}

// payoutMultiple returns the total return per unit staked, stake included.
// Zero wins nothing but a straight bet on 0 itself.
func payoutMultiple(cat BetCategory, pocket int) int64 {
	if rest, ok := strings.CutPrefix(string(cat), straightPrefix); ok {
		n, _ := strconv.Atoi(rest)
		if n == pocket {
			return 36
		}
		return 0
	}
	win := false
	switch cat {
	case BetRed:
		win = PocketColor(pocket) == Red
	case BetBlack:
		win = PocketColor(pocket) == Black
	case BetEven:
		win = pocket != 0 && pocket%2 == 0
	case BetOdd:
		win = pocket%2 == 1
	case BetLow:
		win = pocket >= 1 && pocket <= 18
	case BetHigh:
		win = pocket >= 19 && pocket <= 36
	}
	if win {
		return 2
	}
	return 0
}

// RouletteBetState is one placed wager in a snapshot.
type RouletteBetState struct {
	Category BetCategory `json:"category"`
	Amount   int64       `json:"amount"`
}

type RouletteState struct {
	Phase   Phase              `json:"phase"`
	Bets    []RouletteBetState `json:"bets"`
	Pocket  *int               `json:"pocket,omitempty"`
	Color   Color              `json:"color,omitempty"`
	Actions []string           `json:"actions"`
	Staked  int64              `json:"staked"`
	Payout  int64              `json:"payout"`
}

func (r *RouletteRound) Snapshot() RouletteState {
	state := RouletteState{
		Phase:  r.phase,
		Staked: r.staked,
		Payout: r.payout,
	}
	for cat, amount := range r.bets {
		state.Bets = append(state.Bets, RouletteBetState{Category: cat, Amount: amount})
	}
	sort.Slice(state.Bets, func(i, j int) bool {
		return state.Bets[i].Category < state.Bets[j].Category
	})
	if r.pocket >= 0 {
		pocket := r.pocket
		state.Pocket = &pocket
		state.Color = PocketColor(pocket)
	}
	if r.phase == PhaseWaitingBets {
		state.Actions = []string{"bet", "clear"}
		if len(r.bets) > 0 {
			state.Actions = append(state.Actions, "spin")
		}
	}
	return state
}
