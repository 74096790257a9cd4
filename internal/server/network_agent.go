package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

// Sender delivers messages to connected players
type Sender interface {
	SendToPlayer(identity string, msg *protocol.Message) error
	BroadcastToChannel(channel string, msg *protocol.Message)
}

// NetworkAgent is a server-side MoveSource that proxies move requests to a
// remote player and waits for their chat input
type NetworkAgent struct {
	identity string
	channel  string
	sender   Sender
	logger   *log.Logger
	clock    quartz.Clock
	moves    chan game.Move

	mu      sync.Mutex
	pending bool
}

// NewNetworkAgent creates a new network agent for a remote player
func NewNetworkAgent(identity, channel string, sender Sender, logger *log.Logger, clock quartz.Clock) *NetworkAgent {
	return &NetworkAgent{
		identity: identity,
		channel:  channel,
		sender:   sender,
		logger:   logger.WithPrefix("network-agent").With("player", identity, "channel", channel),
		clock:    clock,
		moves:    make(chan game.Move, 1),
	}
}

// RequestMove implements game.MoveSource by asking the remote player and
// waiting for their answer or the request timeout
func (na *NetworkAgent) RequestMove(ctx context.Context, req game.MoveRequest) (game.Move, error) {
	msg, err := protocol.NewMessage(protocol.TypeMoveRequest, protocol.MoveRequestFrom(req))
	if err != nil {
		return 0, err
	}

	na.setPending(true)
	defer na.setPending(false)

	// a disconnected player still gets the full timeout to come back
	if err := na.sender.SendToPlayer(na.identity, msg); err != nil {
		na.logger.Warn("Failed to send move request", "error", err)
	}

	na.logger.Debug("Requesting move",
		"hand", req.HandIndex,
		"total", req.Hand.Total,
		"timeout", req.Timeout,
		"rejected", req.Rejected)

	timeoutFired := make(chan struct{})
	timer := na.clock.AfterFunc(req.Timeout, func() {
		close(timeoutFired)
	}, "agent", "move")
	defer timer.Stop()

	select {
	case move := <-na.moves:
		na.logger.Debug("Received move", "move", move)
		return move, nil

	case <-timeoutFired:
		na.logger.Warn("Move timeout", "timeout", req.Timeout)
		return 0, fmt.Errorf("%s did not move within %s: %w", na.identity, req.Timeout, game.ErrMoveTimeout)

	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// HandleInput offers a line of chat text to the agent. It returns true when
// the text was taken as this player's move. Text from other identities,
// text that is not a move, and text arriving with no request outstanding
// are left alone.
func (na *NetworkAgent) HandleInput(identity, text string) bool {
	if identity != na.identity {
		return false
	}
	move, ok := game.ParseMove(text)
	if !ok {
		return false
	}

	na.mu.Lock()
	defer na.mu.Unlock()
	if !na.pending {
		return false
	}

	select {
	case na.moves <- move:
		return true
	default:
		// a move is already queued for this request
		return false
	}
}

func (na *NetworkAgent) setPending(pending bool) {
	na.mu.Lock()
	defer na.mu.Unlock()
	na.pending = pending
	if !pending {
		// drop a move that raced the timeout so it cannot answer the next request
		select {
		case <-na.moves:
		default:
		}
	}
}
