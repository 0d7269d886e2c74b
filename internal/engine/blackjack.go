package engine

import (
	"fmt"

	appErr "casino-engine/pkg/errors"
)

type Phase string

const (
	PhaseWaitingBet      Phase = "waiting_bet"
	PhaseWaitingBets     Phase = "waiting_bets"
	PhasePlayerActing    Phase = "player_acting"
	PhaseDealerResolving Phase = "dealer_resolving"
	PhaseSettled         Phase = "settled"
)

const dealerStandValue = 17

// HandOutcome labels one player hand after settlement.
type HandOutcome string

const (
	OutcomeBust      HandOutcome = "bust"
	OutcomeLose      HandOutcome = "lose"
	OutcomePush      HandOutcome = "push"
	OutcomeWin       HandOutcome = "win"
	OutcomeBlackjack HandOutcome = "blackjack"
	OutcomeForfeit   HandOutcome = "forfeit"
)

type blackjackHand struct {
	cards   []Card
	bet     int64
	doubled bool
	done    bool
	outcome HandOutcome
	payout  int64
}

// BlackjackRound plays a single-player blackjack round against the dealer.
// One fresh shuffled deck backs the whole round, so no card can appear
// twice. The dealer draws to 17 and stands on soft 17.
type BlackjackRound struct {
	deck   *Deck
	ledger *ChipLedger
	limits Limits

	phase  Phase
	hands  []*blackjackHand
	active int
	split  bool

	dealer       []Card
	holeRevealed bool

	staked int64
	payout int64
}

func NewBlackjackRound(ledger *ChipLedger, limits Limits, src Source) *BlackjackRound {
	return NewBlackjackRoundFromDeck(ledger, limits, NewShuffledDeck(src))
}

// NewBlackjackRoundFromDeck plays against a pre-arranged deck. Replay and
// test use only; production rounds shuffle their own deck.
func NewBlackjackRoundFromDeck(ledger *ChipLedger, limits Limits, deck *Deck) *BlackjackRound {
	return &BlackjackRound{
		deck:   deck,
		ledger: ledger,
		limits: limits,
		phase:  PhaseWaitingBet,
	}
}

func (r *BlackjackRound) Phase() Phase { return r.phase }

// Staked returns the total amount debited for this round so far.
func (r *BlackjackRound) Staked() int64 { return r.staked }

// Payout returns the total credited at settlement; zero before that.
func (r *BlackjackRound) Payout() int64 { return r.payout }

// Deal stakes bet, deals two cards to the player and two to the dealer
// (hole card hidden), and opens the player's turn. A player natural skips
// straight to dealer resolution.
func (r *BlackjackRound) Deal(bet int64) error {
	if r.phase != PhaseWaitingBet {
		return fmt.Errorf("%w: deal in %s", appErr.ErrInvalidAction, r.phase)
	}
	if err := r.limits.Validate(bet); err != nil {
		return err
	}
	if err := r.ledger.Debit(bet); err != nil {
		return err
	}
	r.staked += bet

	cards, err := r.deck.Deal(4)
	if err != nil {
		return err
	}
	hand := &blackjackHand{
		cards: []Card{cards[0], cards[2]},
		bet:   bet,
	}
	r.hands = []*blackjackHand{hand}
	r.dealer = []Card{cards[1], cards[3]}
	r.active = 0

	if BlackjackValue(hand.cards) == 21 {
		hand.done = true
		return r.resolveDealer()
	}
	r.phase = PhasePlayerActing
	return nil
}

// Hit deals one card to the active hand. Reaching 21 exactly or busting
// both end the hand's turn: 21 cannot be improved and a bust forfeits.
func (r *BlackjackRound) Hit() error {
	hand, err := r.activeHand()
	if err != nil {
		return err
	}
	card, err := r.deck.DealOne()
	if err != nil {
		return err
	}
	hand.cards = append(hand.cards, card)
	if BlackjackValue(hand.cards) >= 21 {
		hand.done = true
		return r.advance()
	}
	return nil
}

// Stand ends the active hand's turn.
func (r *BlackjackRound) Stand() error {
	hand, err := r.activeHand()
	if err != nil {
		return err
	}
	hand.done = true
	return r.advance()
}

// Double stakes a second bet equal to the hand's original bet, deals
// exactly one card, and ends the hand's turn regardless of the result.
// Only allowed as the hand's first decision.
func (r *BlackjackRound) Double() error {
	hand, err := r.activeHand()
	if err != nil {
		return err
	}
	if len(hand.cards) != 2 || hand.doubled {
		return fmt.Errorf("%w: double after hitting", appErr.ErrInvalidAction)
	}
	if err := r.ledger.Debit(hand.bet); err != nil {
		return err
	}
	r.staked += hand.bet
	hand.bet *= 2
	hand.doubled = true

	card, err := r.deck.DealOne()
	if err != nil {
		return err
	}
	hand.cards = append(hand.cards, card)
	hand.done = true
	return r.advance()
}

// Split divides an equal-rank starting pair into two hands, stakes the
// original bet again on the second hand, and deals one card to each. Each
// hand is then played to completion in order. One split per round; a
// two-card 21 on a split hand is a plain 21, not a natural.
func (r *BlackjackRound) Split() error {
	hand, err := r.activeHand()
	if err != nil {
		return err
	}
	if r.split || len(r.hands) != 1 || len(hand.cards) != 2 {
		return fmt.Errorf("%w: split not available", appErr.ErrInvalidAction)
	}
	if hand.cards[0].Rank != hand.cards[1].Rank {
		return fmt.Errorf("%w: split requires an equal-rank pair", appErr.ErrInvalidAction)
	}
	if err := r.ledger.Debit(hand.bet); err != nil {
		return err
	}
	r.staked += hand.bet

	cards, err := r.deck.Deal(2)
	if err != nil {
		return err
	}
	second := &blackjackHand{
		cards: []Card{hand.cards[1], cards[1]},
		bet:   hand.bet,
	}
	hand.cards = []Card{hand.cards[0], cards[0]}
	r.hands = append(r.hands, second)
	r.split = true

	// A split hand dealt to 21 has no further decisions to make.
	for _, h := range r.hands {
		if BlackjackValue(h.cards) == 21 {
			h.done = true
		}
	}
	return r.advance()
}

// Forfeit abandons the round. Everything staked is lost; nothing is
// credited back. Partial refunds on abandonment are deliberately not
// supported.
func (r *BlackjackRound) Forfeit() error {
	if r.phase == PhaseSettled {
		return fmt.Errorf("%w: round already settled", appErr.ErrInvalidAction)
	}
	for _, h := range r.hands {
		h.done = true
		h.outcome = OutcomeForfeit
	}
	r.holeRevealed = true
	r.phase = PhaseSettled
	return nil
}

func (r *BlackjackRound) activeHand() (*blackjackHand, error) {
	if r.phase != PhasePlayerActing {
		return nil, fmt.Errorf("%w: player action in %s", appErr.ErrInvalidAction, r.phase)
	}
	return r.hands[r.active], nil
}

// advance moves to the next unfinished hand, or into dealer resolution
// once every hand is done.
func (r *BlackjackRound) advance() error {
	for i, h := range r.hands {
		if !h.done {
			r.active = i
			r.phase = PhasePlayerActing
			return nil
		}
	}
	return r.resolveDealer()
}

// resolveDealer reveals the hole card, draws the dealer hand out, and
// settles. If every player hand busted the house already won, so the
// dealer does not draw.
func (r *BlackjackRound) resolveDealer() error {
	r.phase = PhaseDealerResolving
	r.holeRevealed = true

	allBust := true
	for _, h := range r.hands {
		if BlackjackValue(h.cards) <= 21 {
			allBust = false
			break
		}
	}
	if !allBust {
		for BlackjackValue(r.dealer) < dealerStandValue {
			card, err := r.deck.DealOne()
			if err != nil {
				return err
			}
			r.dealer = append(r.dealer, card)
		}
	}
	r.settle()
	return nil
}

func (r *BlackjackRound) settle() {
	dealerValue := BlackjackValue(r.dealer)
	dealerBust := dealerValue > 21
	dealerNatural := IsNatural(r.dealer)

	var total int64
	for _, h := range r.hands {
		value := BlackjackValue(h.cards)
		natural := !r.split && IsNatural(h.cards)
		switch {
		case value > 21:
			h.outcome = OutcomeBust
			h.payout = 0
		case natural && !dealerNatural:
			h.outcome = OutcomeBlackjack
			h.payout = h.bet * 5 / 2
		case dealerBust:
			h.outcome = OutcomeWin
			h.payout = 2 * h.bet
		case value > dealerValue:
			h.outcome = OutcomeWin
			h.payout = 2 * h.bet
		case value == dealerValue:
			h.outcome = OutcomePush
			h.payout = h.bet
		default:
			h.outcome = OutcomeLose
			h.payout = 0
		}
		total += h.payout
	}

	r.payout = total
	_ = r.ledger.Credit(total)
	r.phase = PhaseSettled
}

// BlackjackHandState is the externally visible view of one player hand.
type BlackjackHandState struct {
	Cards   []Card      `json:"cards"`
	Value   int         `json:"value"`
	Soft    bool        `json:"soft"`
	Bet     int64       `json:"bet"`
	Doubled bool        `json:"doubled"`
	Done    bool        `json:"done"`
	Outcome HandOutcome `json:"outcome,omitempty"`
	Payout  int64       `json:"payout"`
}

// BlackjackState snapshots the round for callers. The dealer's hole card is
// withheld until resolution begins.
type BlackjackState struct {
	Phase       Phase                `json:"phase"`
	Hands       []BlackjackHandState `json:"hands"`
	ActiveHand  int                  `json:"activeHand"`
	Dealer      []Card               `json:"dealer"`
	DealerValue int                  `json:"dealerValue"`
	HoleHidden  bool                 `json:"holeHidden"`
	Actions     []string             `json:"actions"`
	Staked      int64                `json:"staked"`
	Payout      int64                `json:"payout"`
}

func (r *BlackjackRound) Snapshot() BlackjackState {
	state := BlackjackState{
		Phase:      r.phase,
		ActiveHand: r.active,
		HoleHidden: !r.holeRevealed,
		Actions:    r.allowedActions(),
		Staked:     r.staked,
		Payout:     r.payout,
	}
	for _, h := range r.hands {
		state.Hands = append(state.Hands, BlackjackHandState{
			Cards:   append([]Card(nil), h.cards...),
			Value:   BlackjackValue(h.cards),
			Soft:    IsSoft(h.cards),
			Bet:     h.bet,
			Doubled: h.doubled,
			Done:    h.done,
			Outcome: h.outcome,
			Payout:  h.payout,
		})
	}
	if r.holeRevealed {
		state.Dealer = append([]Card(nil), r.dealer...)
		state.DealerValue = BlackjackValue(r.dealer)
	} else if len(r.dealer) > 0 {
		state.Dealer = []Card{r.dealer[0]}
		state.DealerValue = BlackjackValue(state.Dealer)
	}
	return state
}

func (r *BlackjackRound) allowedActions() []string {
	switch r.phase {
	case PhaseWaitingBet:
		return []string{"deal"}
	case PhasePlayerActing:
		actions := []string{"hit", "stand"}
		hand := r.hands[r.active]
		if len(hand.cards) == 2 && !hand.doubled {
			actions = append(actions, "double")
		}
		if !r.split && len(r.hands) == 1 && len(hand.cards) == 2 &&
			hand.cards[0].Rank == hand.cards[1].Rank {
			actions = append(actions, "split")
		}
		return actions
	default:
		return nil
	}
}
