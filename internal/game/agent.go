package game

import (
	"context"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// MoveRequest describes the hand a seat must act on
type MoveRequest struct {
	RoundID      string
	Channel      string
	Participant  string // identity the move must come from
	Name         string
	HandIndex    int
	HandCount    int
	Hand         HandView
	DealerUpcard deck.Card
	Timeout      time.Duration

	// Rejected carries the reason the previous move for this hand was
	// refused, empty on the first request.
	Rejected string
}

// MoveSource supplies one move at a time for a seat. Implementations block
// until a move arrives or Timeout elapses; on timeout they return an error
// wrapping ErrMoveTimeout.
type MoveSource interface {
	RequestMove(ctx context.Context, req MoveRequest) (Move, error)
}

// MoveSourceFunc adapts a function to MoveSource
type MoveSourceFunc func(ctx context.Context, req MoveRequest) (Move, error)

// RequestMove implements MoveSource
func (f MoveSourceFunc) RequestMove(ctx context.Context, req MoveRequest) (Move, error) {
	return f(ctx, req)
}

// Renderer presents round state. It is called after every state change
// with a fresh snapshot and an optional status line, and must tolerate
// repeated calls with the same state.
type Renderer interface {
	Render(state State, message string)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(state State, message string)

// Render implements Renderer
func (f RendererFunc) Render(state State, message string) {
	f(state, message)
}

type nopRenderer struct{}

func (nopRenderer) Render(State, string) {}

// Seat binds a participant identity to the source of its moves
type Seat struct {
	ID     string
	Name   string
	Source MoveSource
}
