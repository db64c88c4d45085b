package game

import "errors"

// Errors returned by game operations. Call sites wrap them with context, so
// compare with errors.Is.
var (
	ErrInvalidAction        = errors.New("invalid action")
	ErrOutOfBounds          = errors.New("slot index out of bounds")
	ErrInsufficientGold     = errors.New("insufficient gold")
	ErrEmptySlot            = errors.New("empty slot")
	ErrInsufficientPool     = errors.New("insufficient champions in pool")
	ErrUnknownAgent         = errors.New("unknown agent")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNegativeAmount       = errors.New("negative amount")
)
