package engine

import (
	"fmt"
	"sync"

	appErr "casino-engine/pkg/errors"
)

// ChipLedger holds one player's chip balance for the duration of a round.
// All stake debits and payout credits flow through it; the balance can never
// go negative because Debit rejects the whole amount up front.
type ChipLedger struct {
	mu      sync.Mutex
	balance int64
}

func NewChipLedger(balance int64) *ChipLedger {
	if balance < 0 {
		balance = 0
	}
	return &ChipLedger{balance: balance}
}

func (l *ChipLedger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Debit removes amount from the balance. Rejections leave the balance
// unchanged; there is no partial debit.
func (l *ChipLedger) Debit(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit %d", appErr.ErrInvalidAmount, amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount > l.balance {
		return fmt.Errorf("%w: need %d, have %d", appErr.ErrInsufficientFunds, amount, l.balance)
	}
	l.balance -= amount
	return nil
}

// Credit adds amount to the balance. A zero credit is a no-op so settlement
// code can credit the computed payout unconditionally.
func (l *ChipLedger) Credit(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: credit %d", appErr.ErrInvalidAmount, amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance += amount
	return nil
}

// Limits bound a single wager at one table.
type Limits struct {
	MinBet int64
	MaxBet int64
}

// Validate checks a total wager against the table limits. MaxBet of zero
// means uncapped.
func (t Limits) Validate(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: bet %d", appErr.ErrInvalidAmount, amount)
	}
	if amount < t.MinBet {
		return fmt.Errorf("%w: bet %d below table minimum %d", appErr.ErrBetLimit, amount, t.MinBet)
	}
	if t.MaxBet > 0 && amount > t.MaxBet {
		return fmt.Errorf("%w: bet %d above table maximum %d", appErr.ErrBetLimit, amount, t.MaxBet)
	}
	return nil
}
