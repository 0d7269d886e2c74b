package model

import (
	"time"

	"gorm.io/datatypes"
)

// 2.1 Player & Wallet

type Player struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	DisplayName string `gorm:"size:64"`
	Status      string `gorm:"default:active;not null"` // active/banned
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Wallet struct {
	PlayerID         int64 `gorm:"primaryKey"`
	BalanceAvailable int64
	TotalStaked      int64
	TotalWon         int64
	UpdatedAt        time.Time
}

// 2.2 Round bookkeeping

// BetLog records one balance mutation: stake debits, refunds, payouts,
// forfeits. Deltas are signed; BalanceAfter is the wallet balance once the
// mutation applied.
type BetLog struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	PlayerID     int64 `gorm:"index"`
	RoundID      string
	Game         string // blackjack/roulette/baccarat
	Type         string // stake/refund/payout/forfeit
	Delta        int64
	BalanceAfter int64
	MetaJSON     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time
}

// RoundLog is the settlement snapshot of one finished round. The engine
// itself retains no round history; this row is the caller-side record.
type RoundLog struct {
	ID        string `gorm:"primaryKey;size:36"` // uuid
	RefCode   string `gorm:"size:12"`
	PlayerID  int64  `gorm:"index"`
	Game      string
	Staked    int64
	Payout    int64
	Abandoned bool
	DetailJSON datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
	SettledAt  *time.Time
}

// 2.3 Table configuration

type TableLimit struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Game      string `gorm:"unique;not null"`
	MinBet    int64
	MaxBet    int64
	Status    string `gorm:"default:enabled"` // enabled/disabled
	UpdatedAt time.Time
}
