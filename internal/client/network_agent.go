package client

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

// Transport is the part of Client a NetworkAgent needs
type Transport interface {
	AddEventHandler(messageType protocol.MessageType, handler EventHandler)
	SendInput(channel, text string) error
	GetPlayerName() string
}

// NetworkAgent answers the server's move requests for the local player
// with moves from a game.MoveSource, typically a bot.
type NetworkAgent struct {
	transport Transport
	source    game.MoveSource
	logger    *log.Logger
	ctx       context.Context
	requests  chan protocol.MoveRequestData

	// OnOutcome is called with every round result seen in a joined channel
	OnOutcome func(*game.Outcome)
}

// NewNetworkAgent creates a network agent and registers its handlers.
// Requests arriving after ctx is cancelled are ignored.
func NewNetworkAgent(ctx context.Context, transport Transport, source game.MoveSource, logger *log.Logger) *NetworkAgent {
	na := &NetworkAgent{
		transport: transport,
		source:    source,
		logger:    logger.WithPrefix("network-agent"),
		ctx:       ctx,
		requests:  make(chan protocol.MoveRequestData, 8),
	}
	go na.answerLoop()

	transport.AddEventHandler(protocol.TypeMoveRequest, na.handleMoveRequest)
	transport.AddEventHandler(protocol.TypeRoundResult, na.handleRoundResult)
	transport.AddEventHandler(protocol.TypeRoundEnded, na.handleRoundEnded)
	transport.AddEventHandler(protocol.TypeError, na.handleError)

	return na
}

func (na *NetworkAgent) handleMoveRequest(msg *protocol.Message) {
	var data protocol.MoveRequestData
	if err := protocol.Decode(msg, &data); err != nil {
		na.logger.Error("Failed to parse move request", "error", err)
		return
	}
	if data.Player != na.transport.GetPlayerName() {
		return
	}
	if na.ctx.Err() != nil {
		return
	}
	if data.Rejected != "" {
		na.logger.Warn("Move rejected", "round", data.RoundID, "hand", data.HandIndex, "reason", data.Rejected)
	}

	select {
	case na.requests <- data:
	case <-na.ctx.Done():
	}
}

// answerLoop answers requests one at a time in arrival order, off the
// dispatch goroutine since the source may block
func (na *NetworkAgent) answerLoop() {
	for {
		select {
		case data := <-na.requests:
			na.answer(data)
		case <-na.ctx.Done():
			return
		}
	}
}

func (na *NetworkAgent) answer(data protocol.MoveRequestData) {
	req := data.Request()
	move, err := na.source.RequestMove(na.ctx, req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			na.logger.Warn("No move chosen", "round", data.RoundID, "error", err)
		}
		return
	}

	na.logger.Debug("Sending move", "round", data.RoundID, "hand", data.HandIndex, "total", req.Hand.Total, "move", move)
	if err := na.transport.SendInput(data.Channel, move.String()); err != nil {
		na.logger.Error("Failed to send move", "error", err)
	}
}

func (na *NetworkAgent) handleRoundResult(msg *protocol.Message) {
	var data protocol.RoundResultData
	if err := protocol.Decode(msg, &data); err != nil {
		na.logger.Error("Failed to parse round result", "error", err)
		return
	}

	me := na.transport.GetPlayerName()
	for _, r := range data.Outcome.ResultsFor(me) {
		na.logger.Info("Hand settled", "round", data.Outcome.RoundID, "hand", r.HandIndex, "total", r.Hand.Total, "result", r.Result)
	}
	if na.OnOutcome != nil {
		na.OnOutcome(&data.Outcome)
	}
}

func (na *NetworkAgent) handleRoundEnded(msg *protocol.Message) {
	var data protocol.RoundEndedData
	if err := protocol.Decode(msg, &data); err != nil {
		return
	}
	na.logger.Info("Round ended", "round", data.RoundID, "channel", data.Channel, "reason", data.Reason)
}

func (na *NetworkAgent) handleError(msg *protocol.Message) {
	var data protocol.ErrorData
	if err := protocol.Decode(msg, &data); err != nil {
		return
	}
	na.logger.Warn("Server error", "code", data.Code, "message", data.Message)
}
