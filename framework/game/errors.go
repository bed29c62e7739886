package game

import "errors"

var (
	ErrEmptyHistory       = errors.New("history is empty")
	ErrModeViolation      = errors.New("not available outside interactive mode")
	ErrIllegalPhase       = errors.New("operation not legal in current phase")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrInvalidPlayerCount = errors.New("player count must be 3 or 4")
)
