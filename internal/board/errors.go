package board

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned when a move is not in the legal move set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrPromotionRequired is returned when a source and destination only
	// match promotion moves and no promotion piece was given.
	ErrPromotionRequired = errors.New("promotion piece required")

	// ErrInvariantViolation marks a corrupted state, such as a missing king.
	ErrInvariantViolation = errors.New("board invariant violated")

	// ErrInvalidFEN is returned by ParseFEN for malformed or unplayable input.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrInvalidRecord is returned by FromRecord for inconsistent records.
	ErrInvalidRecord = errors.New("invalid record")
)

// MoveError describes a move that could not be applied to a position.
type MoveError struct {
	Move string
	FEN  string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s in %q: %v", e.Move, e.FEN, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
