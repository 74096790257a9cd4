package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove matches any move that is not allowed for the hand's
	// current state. The round recovers by asking again.
	ErrIllegalMove = errors.New("illegal move")

	// ErrMoveTimeout is returned by a MoveSource when the seat did not answer
	// in time. It abandons the round.
	ErrMoveTimeout = errors.New("move timed out")

	// ErrInvariant marks an engine bug such as hitting a finished hand.
	ErrInvariant = errors.New("invariant violation")

	// ErrRoundFinished is returned when Run is called on a round that has
	// already been played.
	ErrRoundFinished = errors.New("round already played")
)

// MoveError is a rejected move along with the reason shown to the player
type MoveError struct {
	Move   Move
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}

// Is makes errors.Is(err, ErrIllegalMove) true for every MoveError
func (e *MoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

func illegal(move Move, reason string) error {
	return &MoveError{Move: move, Reason: reason}
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
