package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casino-engine/internal/model"
	appErr "casino-engine/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns the persisted chip wallet. During a round the engine's
// in-memory ledger is authoritative; every mutation it makes is mirrored
// here so the stored balance and the bet log survive the process.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Get(ctx context.Context, playerID int64) (*model.Wallet, error) {
	var w model.Wallet
	err := s.db.WithContext(ctx).Where("player_id = ?", playerID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrPlayerNotFound
		}
		return nil, err
	}
	return &w, nil
}

// EnsureWithBalance creates the wallet with the starting balance if the
// player does not have one yet.
func (s *Service) EnsureWithBalance(ctx context.Context, playerID, starting int64) (*model.Wallet, error) {
	w := model.Wallet{PlayerID: playerID, BalanceAvailable: starting, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		FirstOrCreate(&w, model.Wallet{PlayerID: playerID}).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ApplyStake debits a freshly placed wager and appends the stake row.
// The engine already validated the amount against its ledger snapshot;
// the balance check here guards the stored copy against drift.
func (s *Service) ApplyStake(ctx context.Context, playerID int64, roundID, game string, amount int64, meta map[string]interface{}) (*model.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: stake %d", appErr.ErrInvalidAmount, amount)
	}
	return s.mutate(ctx, playerID, func(w *model.Wallet) (*model.BetLog, error) {
		if amount > w.BalanceAvailable {
			return nil, fmt.Errorf("%w: stake %d, stored balance %d", appErr.ErrInsufficientFunds, amount, w.BalanceAvailable)
		}
		w.BalanceAvailable -= amount
		w.TotalStaked += amount
		return &model.BetLog{
			PlayerID: playerID,
			RoundID:  roundID,
			Game:     game,
			Type:     "stake",
			Delta:    -amount,
			MetaJSON: mustJSON(meta),
		}, nil
	})
}

// ApplyRefund credits back cleared wagers (roulette/baccarat clear-bets).
func (s *Service) ApplyRefund(ctx context.Context, playerID int64, roundID, game string, amount int64, meta map[string]interface{}) (*model.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: refund %d", appErr.ErrInvalidAmount, amount)
	}
	return s.mutate(ctx, playerID, func(w *model.Wallet) (*model.BetLog, error) {
		w.BalanceAvailable += amount
		w.TotalStaked -= amount
		return &model.BetLog{
			PlayerID: playerID,
			RoundID:  roundID,
			Game:     game,
			Type:     "refund",
			Delta:    amount,
			MetaJSON: mustJSON(meta),
		}, nil
	})
}

type SettleParams struct {
	PlayerID  int64
	RoundID   string
	RefCode   string
	Game      string
	Staked    int64
	Payout    int64
	Abandoned bool
	Detail    interface{}
	OpenedAt  time.Time
}

// SettleRound credits the payout, appends the payout (or forfeit) row, and
// writes the round snapshot, all in one transaction. Stakes were debited
// at placement time, so settlement only moves the payout.
func (s *Service) SettleRound(ctx context.Context, params SettleParams) (*model.Wallet, error) {
	if params.RoundID == "" || params.PlayerID == 0 {
		return nil, fmt.Errorf("%w: settle without round", appErr.ErrNoActiveRound)
	}
	now := time.Now()

	var result model.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w model.Wallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", params.PlayerID).
			First(&w).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErr.ErrPlayerNotFound
			}
			return err
		}

		w.BalanceAvailable += params.Payout
		w.TotalWon += params.Payout
		w.UpdatedAt = now
		if err := tx.Save(&w).Error; err != nil {
			return err
		}

		logType := "payout"
		if params.Abandoned {
			logType = "forfeit"
		}
		betLog := model.BetLog{
			PlayerID:     params.PlayerID,
			RoundID:      params.RoundID,
			Game:         params.Game,
			Type:         logType,
			Delta:        params.Payout,
			BalanceAfter: w.BalanceAvailable,
			MetaJSON: mustJSON(map[string]interface{}{
				"refCode": params.RefCode,
				"staked":  params.Staked,
			}),
			CreatedAt: now,
		}
		if err := tx.Create(&betLog).Error; err != nil {
			return err
		}

		roundLog := model.RoundLog{
			ID:         params.RoundID,
			RefCode:    params.RefCode,
			PlayerID:   params.PlayerID,
			Game:       params.Game,
			Staked:     params.Staked,
			Payout:     params.Payout,
			Abandoned:  params.Abandoned,
			DetailJSON: mustJSON(params.Detail),
			CreatedAt:  params.OpenedAt,
			SettledAt:  &now,
		}
		if err := tx.Create(&roundLog).Error; err != nil {
			return err
		}

		result = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// mutate applies one wallet mutation plus its bet log row transactionally,
// with the wallet row locked for the duration.
func (s *Service) mutate(ctx context.Context, playerID int64, fn func(*model.Wallet) (*model.BetLog, error)) (*model.Wallet, error) {
	now := time.Now()
	var result model.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w model.Wallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", playerID).
			First(&w).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErr.ErrPlayerNotFound
			}
			return err
		}

		betLog, err := fn(&w)
		if err != nil {
			return err
		}

		w.UpdatedAt = now
		if err := tx.Save(&w).Error; err != nil {
			return err
		}

		betLog.BalanceAfter = w.BalanceAvailable
		betLog.CreatedAt = now
		if err := tx.Create(betLog).Error; err != nil {
			return err
		}

		result = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("{}")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
