package round

import (
	"context"
	"fmt"
	"sync"
	"time"

	"casino-engine/internal/engine"
	"casino-engine/internal/model"
	"casino-engine/internal/service/table"
	"casino-engine/internal/service/wallet"
	appErr "casino-engine/pkg/errors"
	"casino-engine/pkg/logger"
	"casino-engine/pkg/utils/random"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service hosts at most one active round per player and maps each engine
// operation onto wallet persistence: stakes are debited when placed,
// payouts credited when the round settles, and the finished round is
// written to the round log.
type Service struct {
	db      *gorm.DB
	wallets *wallet.Service
	tables  *table.Service
	locker  Locker
	src     engine.Source

	runtimes sync.Map // playerID -> *runtime
}

// NewService wires the round host. src may be nil, in which case the
// crypto source is used; tests pass a seeded source.
func NewService(db *gorm.DB, wallets *wallet.Service, tables *table.Service, locker Locker, src engine.Source) *Service {
	if src == nil {
		src = engine.CryptoSource{}
	}
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &Service{
		db:      db,
		wallets: wallets,
		tables:  tables,
		locker:  locker,
		src:     src,
	}
}

// --- Blackjack ---

func (s *Service) BlackjackDeal(ctx context.Context, playerID, bet int64) (*State, error) {
	return s.run(ctx, playerID, GameBlackjack, true, func(rt *runtime) error {
		return rt.blackjack.Deal(bet)
	})
}

func (s *Service) BlackjackHit(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameBlackjack, false, func(rt *runtime) error {
		return rt.blackjack.Hit()
	})
}

func (s *Service) BlackjackStand(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameBlackjack, false, func(rt *runtime) error {
		return rt.blackjack.Stand()
	})
}

func (s *Service) BlackjackDouble(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameBlackjack, false, func(rt *runtime) error {
		return rt.blackjack.Double()
	})
}

func (s *Service) BlackjackSplit(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameBlackjack, false, func(rt *runtime) error {
		return rt.blackjack.Split()
	})
}

// --- Roulette ---

func (s *Service) RouletteBet(ctx context.Context, playerID int64, category string, amount int64) (*State, error) {
	return s.run(ctx, playerID, GameRoulette, true, func(rt *runtime) error {
		return rt.roulette.PlaceBet(category, amount)
	})
}

func (s *Service) RouletteClear(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameRoulette, false, func(rt *runtime) error {
		return rt.roulette.ClearBets()
	})
}

func (s *Service) RouletteSpin(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameRoulette, false, func(rt *runtime) error {
		return rt.roulette.Spin()
	})
}

// --- Baccarat ---

func (s *Service) BaccaratBets(ctx context.Context, playerID, player, banker, tie int64) (*State, error) {
	return s.run(ctx, playerID, GameBaccarat, true, func(rt *runtime) error {
		return rt.baccarat.PlaceBets(player, banker, tie)
	})
}

func (s *Service) BaccaratClear(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameBaccarat, false, func(rt *runtime) error {
		return rt.baccarat.ClearBets()
	})
}

func (s *Service) BaccaratDeal(ctx context.Context, playerID int64) (*State, error) {
	return s.run(ctx, playerID, GameBaccarat, false, func(rt *runtime) error {
		return rt.baccarat.Deal()
	})
}

// --- Round lifecycle ---

// State returns the active round snapshot without mutating anything.
func (s *Service) State(ctx context.Context, playerID int64) (*State, error) {
	v, ok := s.runtimes.Load(playerID)
	if !ok {
		return nil, appErr.ErrNoActiveRound
	}
	rt := v.(*runtime)
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.state(), nil
}

// Abandon forfeits the active round: everything staked is lost, the round
// is settled with zero payout and logged as abandoned.
func (s *Service) Abandon(ctx context.Context, playerID int64) (*State, error) {
	release, err := s.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	v, ok := s.runtimes.Load(playerID)
	if !ok {
		return nil, appErr.ErrNoActiveRound
	}
	rt := v.(*runtime)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := rt.forfeit(); err != nil {
		return nil, err
	}
	if err := s.finalize(ctx, rt, true); err != nil {
		return nil, err
	}
	return rt.state(), nil
}

type HistoryResult struct {
	Total int64            `json:"total"`
	Items []model.RoundLog `json:"items"`
}

// History lists the player's settled rounds, newest first.
func (s *Service) History(ctx context.Context, playerID int64, page, pageSize int) (*HistoryResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&model.RoundLog{}).Where("player_id = ?", playerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []model.RoundLog
	err := query.Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &HistoryResult{Total: total, Items: items}, nil
}

// run executes one engine operation under the player's round lock,
// opening a fresh runtime first when openIfMissing is set. Wallet deltas
// are persisted after the engine accepts the operation; a rejected
// operation leaves both the runtime and the wallet untouched.
func (s *Service) run(ctx context.Context, playerID int64, game string, openIfMissing bool, fn func(*runtime) error) (*State, error) {
	release, err := s.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	var rt *runtime
	created := false
	if v, ok := s.runtimes.Load(playerID); ok {
		rt = v.(*runtime)
		if rt.game != game {
			return nil, fmt.Errorf("%w: active %s round", appErr.ErrRoundInProgress, rt.game)
		}
	} else {
		if !openIfMissing {
			return nil, appErr.ErrNoActiveRound
		}
		rt, err = s.open(ctx, playerID, game)
		if err != nil {
			return nil, err
		}
		created = true
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	stakedBefore := rt.staked()
	if err := fn(rt); err != nil {
		return nil, err
	}
	if created {
		s.runtimes.Store(playerID, rt)
	}

	if err := s.persistStakeDelta(ctx, rt, stakedBefore); err != nil {
		return nil, err
	}
	if rt.settled() {
		if err := s.finalize(ctx, rt, false); err != nil {
			return nil, err
		}
	}
	return rt.state(), nil
}

// open builds a runtime for a new round: current limits, a ledger seeded
// from the stored wallet balance, and a fresh engine round.
func (s *Service) open(ctx context.Context, playerID int64, game string) (*runtime, error) {
	w, err := s.wallets.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	limits, err := s.tables.LimitsFor(ctx, game)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		roundID:  uuid.NewString(),
		refCode:  random.Code(8),
		game:     game,
		playerID: playerID,
		openedAt: time.Now(),
		ledger:   engine.NewChipLedger(w.BalanceAvailable),
	}
	switch game {
	case GameBlackjack:
		rt.blackjack = engine.NewBlackjackRound(rt.ledger, limits, s.src)
	case GameRoulette:
		rt.roulette = engine.NewRouletteRound(rt.ledger, limits, s.src)
	case GameBaccarat:
		rt.baccarat = engine.NewBaccaratRound(rt.ledger, limits, s.src)
	default:
		return nil, fmt.Errorf("%w: %q", appErr.ErrUnknownGame, game)
	}
	return rt, nil
}

// persistStakeDelta mirrors the engine ledger's stake movement since the
// last operation into the stored wallet: extra stake becomes a debit row,
// cleared bets become a refund row.
func (s *Service) persistStakeDelta(ctx context.Context, rt *runtime, stakedBefore int64) error {
	delta := rt.staked() - stakedBefore
	meta := map[string]interface{}{"refCode": rt.refCode}
	switch {
	case delta > 0:
		_, err := s.wallets.ApplyStake(ctx, rt.playerID, rt.roundID, rt.game, delta, meta)
		return err
	case delta < 0:
		_, err := s.wallets.ApplyRefund(ctx, rt.playerID, rt.roundID, rt.game, -delta, meta)
		return err
	default:
		return nil
	}
}

func (s *Service) finalize(ctx context.Context, rt *runtime, abandoned bool) error {
	_, err := s.wallets.SettleRound(ctx, wallet.SettleParams{
		PlayerID:  rt.playerID,
		RoundID:   rt.roundID,
		RefCode:   rt.refCode,
		Game:      rt.game,
		Staked:    rt.staked(),
		Payout:    rt.payout(),
		Abandoned: abandoned,
		Detail:    rt.detail(),
		OpenedAt:  rt.openedAt,
	})
	if err != nil {
		return err
	}
	s.runtimes.Delete(rt.playerID)

	logger.Log.Info("round settled",
		zap.String("roundId", rt.roundID),
		zap.String("game", rt.game),
		zap.Int64("playerId", rt.playerID),
		zap.Int64("staked", rt.staked()),
		zap.Int64("payout", rt.payout()),
		zap.Bool("abandoned", abandoned),
	)
	return nil
}
