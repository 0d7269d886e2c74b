package engine

import (
	"fmt"

	appErr "casino-engine/pkg/errors"
)

// BaccaratOutcome names the winning side of a settled baccarat round.
type BaccaratOutcome string

const (
	BaccaratPlayerWin BaccaratOutcome = "player"
	BaccaratBankerWin BaccaratOutcome = "banker"
	BaccaratTie       BaccaratOutcome = "tie"
)

// BaccaratRound plays one coup: player and banker hands dealt from a fresh
// shuffled deck, third cards drawn per the standard tableau, all three bet
// flags settled together. Banker wins pay 1:1 minus the 5% commission.
type BaccaratRound struct {
	deck   *Deck
	ledger *ChipLedger
	limits Limits

	phase Phase

	betPlayer int64
	betBanker int64
	betTie    int64

	playerCards []Card
	bankerCards []Card
	outcome     BaccaratOutcome

	staked int64
	payout int64
}

func NewBaccaratRound(ledger *ChipLedger, limits Limits, src Source) *BaccaratRound {
	return NewBaccaratRoundFromDeck(ledger, limits, NewShuffledDeck(src))
}

// NewBaccaratRoundFromDeck plays against a pre-arranged deck. Replay and
// test use only; production rounds shuffle their own deck.
func NewBaccaratRoundFromDeck(ledger *ChipLedger, limits Limits, deck *Deck) *BaccaratRound {
	return &BaccaratRound{
		deck:   deck,
		ledger: ledger,
		limits: limits,
		phase:  PhaseWaitingBets,
	}
}

func (r *BaccaratRound) Phase() Phase  { return r.phase }
func (r *BaccaratRound) Staked() int64 { return r.staked }
func (r *BaccaratRound) Payout() int64 { return r.payout }

// PlaceBets stakes the three independent flags. Each amount may be zero;
// repeated calls accumulate. The whole placement is debited atomically:
// if funds or limits reject it, nothing changes.
func (r *BaccaratRound) PlaceBets(player, banker, tie int64) error {
	if r.phase != PhaseWaitingBets {
		return fmt.Errorf("%w: bets in %s", appErr.ErrInvalidAction, r.phase)
	}
	if player < 0 || banker < 0 || tie < 0 {
		return fmt.Errorf("%w: negative bet", appErr.ErrInvalidAmount)
	}
	total := player + banker + tie
	if total <= 0 {
		return fmt.Errorf("%w: empty placement", appErr.ErrInvalidAmount)
	}
	for _, staked := range []int64{r.betPlayer + player, r.betBanker + banker, r.betTie + tie} {
		if staked == 0 {
			continue
		}
		if err := r.limits.Validate(staked); err != nil {
			return err
		}
	}
	if err := r.ledger.Debit(total); err != nil {
		return err
	}
	r.betPlayer += player
	r.betBanker += banker
	r.betTie += tie
	r.staked += total
	return nil
}

// ClearBets refunds every placed amount. Only valid before the deal.
func (r *BaccaratRound) ClearBets() error {
	if r.phase != PhaseWaitingBets {
		return fmt.Errorf("%w: clear in %s", appErr.ErrInvalidAction, r.phase)
	}
	_ = r.ledger.Credit(r.staked)
	r.betPlayer, r.betBanker, r.betTie = 0, 0, 0
	r.staked = 0
	return nil
}

// Deal runs the whole coup and settles it. Requires a non-zero total bet.
func (r *BaccaratRound) Deal() error {
	if r.phase != PhaseWaitingBets {
		return fmt.Errorf("%w: deal in %s", appErr.ErrInvalidAction, r.phase)
	}
	if r.staked == 0 {
		return fmt.Errorf("%w: deal with no bets placed", appErr.ErrInvalidAction)
	}

	cards, err := r.deck.Deal(4)
	if err != nil {
		return err
	}
	r.playerCards = []Card{cards[0], cards[2]}
	r.bankerCards = []Card{cards[1], cards[3]}

	playerValue := BaccaratValue(r.playerCards)
	bankerValue := BaccaratValue(r.bankerCards)

	// A natural 8 or 9 on either side ends the coup with no draws.
	if playerValue < 8 && bankerValue < 8 {
		playerDrew := false
		var playerThird Card
		if playerValue <= 5 {
			playerThird, err = r.deck.DealOne()
			if err != nil {
				return err
			}
			r.playerCards = append(r.playerCards, playerThird)
			playerDrew = true
		}

		bankerDraws := false
		if playerDrew {
			bankerDraws = bankerShouldDraw(bankerValue, baccaratCardValue(playerThird.Rank))
		} else {
			bankerDraws = bankerValue <= 5
		}
		if bankerDraws {
			card, err := r.deck.DealOne()
			if err != nil {
				return err
			}
			r.bankerCards = append(r.bankerCards, card)
		}
	}

	r.settle()
	return nil
}

// Forfeit abandons the round before the deal, losing everything staked.
func (r *BaccaratRound) Forfeit() error {
	if r.phase == PhaseSettled {
		return fmt.Errorf("%w: round already settled", appErr.ErrInvalidAction)
	}
	r.phase = PhaseSettled
	return nil
}

// bankerShouldDraw is the standard baccarat tableau: the banker's decision
// depends on its own total and the point value of the player's third card.
func bankerShouldDraw(bankerValue, playerThird int) bool {
	switch bankerValue {
	case 0, 1, 2:
		return true
	case 3:
		return playerThird != 8
	case 4:
		return playerThird >= 2 && playerThird <= 7
	case 5:
		return playerThird >= 4 && playerThird <= 7
	case 6:
		return playerThird == 6 || playerThird == 7
	default: // 7; naturals never reach the tableau
		return false
	}
}

func (r *BaccaratRound) settle() {
	playerValue := BaccaratValue(r.playerCards)
	bankerValue := BaccaratValue(r.bankerCards)

	var total int64
	switch {
	case playerValue > bankerValue:
		r.outcome = BaccaratPlayerWin
		total = r.betPlayer * 2
	case bankerValue > playerValue:
		r.outcome = BaccaratBankerWin
		total = r.betBanker * 39 / 20
	default:
		// Tie pays 8:1; player and banker stakes are returned, not lost.
		r.outcome = BaccaratTie
		total = r.betTie*9 + r.betPlayer + r.betBanker
	}

	r.payout = total
	_ = r.ledger.Credit(total)
	r.phase = PhaseSettled
}

type BaccaratBetsState struct {
	Player int64 `json:"player"`
	Banker int64 `json:"banker"`
	Tie    int64 `json:"tie"`
}

type BaccaratState struct {
	Phase       Phase             `json:"phase"`
	Bets        BaccaratBetsState `json:"bets"`
	PlayerCards []Card            `json:"playerCards,omitempty"`
	BankerCards []Card            `json:"bankerCards,omitempty"`
	PlayerValue int               `json:"playerValue"`
	BankerValue int               `json:"bankerValue"`
	Outcome     BaccaratOutcome   `json:"outcome,omitempty"`
	Actions     []string          `json:"actions"`
	Staked      int64             `json:"staked"`
	Payout      int64             `json:"payout"`
}

func (r *BaccaratRound) Snapshot() BaccaratState {
	state := BaccaratState{
		Phase: r.phase,
		Bets: BaccaratBetsState{
			Player: r.betPlayer,
			Banker: r.betBanker,
			Tie:    r.betTie,
		},
		Outcome: r.outcome,
		Staked:  r.staked,
		Payout:  r.payout,
	}
	if len(r.playerCards) > 0 {
		state.PlayerCards = append([]Card(nil), r.playerCards...)
		state.BankerCards = append([]Card(nil), r.bankerCards...)
		state.PlayerValue = BaccaratValue(r.playerCards)
		state.BankerValue = BaccaratValue(r.bankerCards)
	}
	if r.phase == PhaseWaitingBets {
		state.Actions = []string{"bets", "clear"}
		if r.staked > 0 {
			state.Actions = append(state.Actions, "deal")
		}
	}
	return state
}
