package errors

import "errors"

var (
	// Engine rejections. Every one of these leaves round state and the
	// chip balance exactly as they were.
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAction      = errors.New("action not valid in current round state")
	ErrInsufficientCards  = errors.New("not enough cards left in deck")
	ErrInvalidBetCategory = errors.New("unrecognized bet category")
	ErrBetLimit           = errors.New("bet outside table limits")
	ErrInvalidAmount      = errors.New("amount must be positive")

	// Service-level.
	ErrRoundInProgress    = errors.New("a round is already in progress")
	ErrNoActiveRound      = errors.New("no active round")
	ErrRoundBusy          = errors.New("round is being processed")
	ErrWrongGame          = errors.New("active round is for a different game")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTableLimitNotFound = errors.New("table limit not found")
	ErrTableDisabled      = errors.New("table disabled")
	ErrUnknownGame        = errors.New("unknown game")
)
