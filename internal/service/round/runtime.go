package round

import (
	"sync"
	"time"

	"casino-engine/internal/engine"
)

const (
	GameBlackjack = "blackjack"
	GameRoulette  = "roulette"
	GameBaccarat  = "baccarat"
)

// runtime owns one player's active round: the engine round object plus the
// chip ledger it bets against, seeded from the stored wallet balance when
// the round opened. It is the per-round value object the engine's ambient
// state was re-architected into; nothing about a round lives anywhere else.
type runtime struct {
	mu sync.Mutex

	roundID  string
	refCode  string
	game     string
	playerID int64
	openedAt time.Time

	ledger *engine.ChipLedger

	blackjack *engine.BlackjackRound
	roulette  *engine.RouletteRound
	baccarat  *engine.BaccaratRound
}

func (rt *runtime) staked() int64 {
	switch rt.game {
	case GameBlackjack:
		return rt.blackjack.Staked()
	case GameRoulette:
		return rt.roulette.Staked()
	default:
		return rt.baccarat.Staked()
	}
}

func (rt *runtime) payout() int64 {
	switch rt.game {
	case GameBlackjack:
		return rt.blackjack.Payout()
	case GameRoulette:
		return rt.roulette.Payout()
	default:
		return rt.baccarat.Payout()
	}
}

func (rt *runtime) settled() bool {
	switch rt.game {
	case GameBlackjack:
		return rt.blackjack.Phase() == engine.PhaseSettled
	case GameRoulette:
		return rt.roulette.Phase() == engine.PhaseSettled
	default:
		return rt.baccarat.Phase() == engine.PhaseSettled
	}
}

func (rt *runtime) forfeit() error {
	switch rt.game {
	case GameBlackjack:
		return rt.blackjack.Forfeit()
	case GameRoulette:
		return rt.roulette.Forfeit()
	default:
		return rt.baccarat.Forfeit()
	}
}

// State is the serializable snapshot returned by every round operation.
// Exactly one of the game fields is set.
type State struct {
	RoundID   string                 `json:"roundId"`
	RefCode   string                 `json:"refCode"`
	Game      string                 `json:"game"`
	Balance   int64                  `json:"balance"`
	Blackjack *engine.BlackjackState `json:"blackjack,omitempty"`
	Roulette  *engine.RouletteState  `json:"roulette,omitempty"`
	Baccarat  *engine.BaccaratState  `json:"baccarat,omitempty"`
}

func (rt *runtime) state() *State {
	s := &State{
		RoundID: rt.roundID,
		RefCode: rt.refCode,
		Game:    rt.game,
		Balance: rt.ledger.Balance(),
	}
	switch rt.game {
	case GameBlackjack:
		snap := rt.blackjack.Snapshot()
		s.Blackjack = &snap
	case GameRoulette:
		snap := rt.roulette.Snapshot()
		s.Roulette = &snap
	default:
		snap := rt.baccarat.Snapshot()
		s.Baccarat = &snap
	}
	return s
}

// detail is the settlement snapshot persisted to the round log.
func (rt *runtime) detail() interface{} {
	switch rt.game {
	case GameBlackjack:
		return rt.blackjack.Snapshot()
	case GameRoulette:
		return rt.roulette.Snapshot()
	default:
		return rt.baccarat.Snapshot()
	}
}
