package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"casino-engine/internal/config"
	"casino-engine/internal/model"
	"casino-engine/internal/service/wallet"
	pkgAuth "casino-engine/pkg/auth"
	appErr "casino-engine/pkg/errors"

	"gorm.io/gorm"
)

// Service opens player sessions. A session is just a signed player ID plus
// a wallet seeded with the configured starting balance; there are no
// credentials and nothing to verify.
type Service struct {
	db      *gorm.DB
	wallets *wallet.Service
}

type OpenResult struct {
	Token  string       `json:"token"`
	Player model.Player `json:"player"`
	Wallet model.Wallet `json:"wallet"`
}

func NewService(db *gorm.DB, wallets *wallet.Service) *Service {
	return &Service{db: db, wallets: wallets}
}

func (s *Service) Open(ctx context.Context, displayName string) (*OpenResult, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "player"
	}

	player := model.Player{
		DisplayName: displayName,
		Status:      "active",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&player).Error; err != nil {
		return nil, err
	}

	w, err := s.wallets.EnsureWithBalance(ctx, player.ID, config.GlobalConfig.Casino.StartingBalance)
	if err != nil {
		return nil, err
	}

	token, err := pkgAuth.GeneratePlayerToken(player.ID)
	if err != nil {
		return nil, err
	}

	return &OpenResult{
		Token:  token,
		Player: player,
		Wallet: *w,
	}, nil
}

func (s *Service) GetPlayer(ctx context.Context, playerID int64) (*model.Player, error) {
	var player model.Player
	err := s.db.WithContext(ctx).First(&player, playerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}
