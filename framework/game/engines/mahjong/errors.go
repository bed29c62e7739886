package mahjong

import "errors"

var (
	ErrOutOfBounds          = errors.New("tile count out of bounds")
	ErrInvalidHandSize      = errors.New("invalid hand size")
	ErrIllegalTileForConfig = errors.New("tile not allowed for player count")
	ErrIllegalMeldShape     = errors.New("illegal meld shape")
	ErrInvalidNotation      = errors.New("invalid tile notation")
	ErrTileNotInHand        = errors.New("tile not in hand")
)
