package service

import (
	"context"

	"casino-engine/internal/service/round"
	"casino-engine/internal/service/session"
	"casino-engine/internal/service/table"
	"casino-engine/internal/service/wallet"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Session *session.Service
	Wallet  *wallet.Service
	Table   *table.Service
	Round   *round.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client) *Container {
	wallets := wallet.NewService(db)
	tables := table.NewService(db)
	return &Container{
		Session: session.NewService(db, wallets),
		Wallet:  wallets,
		Table:   tables,
		Round:   round.NewService(db, wallets, tables, round.NewRedisLocker(rdb), nil),
	}
}

func (c *Container) Start(ctx context.Context) error {
	return c.Table.EnsureDefaults(ctx)
}
