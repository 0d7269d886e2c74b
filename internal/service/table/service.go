package table

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"casino-engine/internal/config"
	"casino-engine/internal/engine"
	"casino-engine/internal/model"
	appErr "casino-engine/pkg/errors"

	"gorm.io/gorm"
)

var knownGames = map[string]bool{
	"blackjack": true,
	"roulette":  true,
	"baccarat":  true,
}

// Service administers per-game table limits. The round service consults it
// every time a round opens, so limit changes apply to the next round
// without a restart.
type Service struct {
	db *gorm.DB
}

type MutationParams struct {
	MinBet int64
	MaxBet int64
	Status string
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EnsureDefaults seeds a limit row per game from config. Idempotent:
// existing rows are left alone.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, entry := range config.GlobalConfig.Casino.Tables {
		game := strings.ToLower(strings.TrimSpace(entry.Game))
		if !knownGames[game] {
			return fmt.Errorf("%w: %q in config", appErr.ErrUnknownGame, entry.Game)
		}
		limit := model.TableLimit{
			Game:      game,
			MinBet:    entry.MinBet,
			MaxBet:    entry.MaxBet,
			Status:    "enabled",
			UpdatedAt: time.Now(),
		}
		err := s.db.WithContext(ctx).
			Where("game = ?", game).
			FirstOrCreate(&limit, model.TableLimit{Game: game}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]model.TableLimit, error) {
	var limits []model.TableLimit
	err := s.db.WithContext(ctx).Order("game asc").Find(&limits).Error
	if err != nil {
		return nil, err
	}
	return limits, nil
}

func (s *Service) Get(ctx context.Context, game string) (*model.TableLimit, error) {
	var limit model.TableLimit
	err := s.db.WithContext(ctx).Where("game = ?", strings.ToLower(game)).First(&limit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrTableLimitNotFound
		}
		return nil, err
	}
	return &limit, nil
}

func (s *Service) Update(ctx context.Context, game string, params MutationParams) (*model.TableLimit, error) {
	if params.MinBet <= 0 || (params.MaxBet > 0 && params.MaxBet < params.MinBet) {
		return nil, fmt.Errorf("%w: min %d, max %d", appErr.ErrBetLimit, params.MinBet, params.MaxBet)
	}
	status := strings.ToLower(strings.TrimSpace(params.Status))
	if status == "" {
		status = "enabled"
	}
	if status != "enabled" && status != "disabled" {
		return nil, fmt.Errorf("invalid status %q, must be enabled or disabled", params.Status)
	}

	limit, err := s.Get(ctx, game)
	if err != nil {
		return nil, err
	}
	limit.MinBet = params.MinBet
	limit.MaxBet = params.MaxBet
	limit.Status = status
	limit.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(limit).Error; err != nil {
		return nil, err
	}
	return limit, nil
}

// LimitsFor resolves the engine limits for one game, rejecting disabled
// tables.
func (s *Service) LimitsFor(ctx context.Context, game string) (engine.Limits, error) {
	limit, err := s.Get(ctx, game)
	if err != nil {
		return engine.Limits{}, err
	}
	if limit.Status != "enabled" {
		return engine.Limits{}, fmt.Errorf("%w: table %s is disabled", appErr.ErrTableDisabled, game)
	}
	return engine.Limits{MinBet: limit.MinBet, MaxBet: limit.MaxBet}, nil
}
