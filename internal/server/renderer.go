package server

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

// ChannelRenderer implements game.Renderer by broadcasting every snapshot
// to the channel the round is played in
type ChannelRenderer struct {
	channel string
	sender  Sender
	logger  *log.Logger
}

// NewChannelRenderer creates a renderer for channel
func NewChannelRenderer(channel string, sender Sender, logger *log.Logger) *ChannelRenderer {
	return &ChannelRenderer{
		channel: channel,
		sender:  sender,
		logger:  logger.WithPrefix("renderer").With("channel", channel),
	}
}

// Render implements game.Renderer
func (r *ChannelRenderer) Render(state game.State, message string) {
	msg, err := protocol.NewMessage(protocol.TypeRoundState, protocol.RoundStateData{
		State:   state,
		Message: message,
	})
	if err != nil {
		r.logger.Error("Failed to create round state message", "error", err)
		return
	}
	r.sender.BroadcastToChannel(r.channel, msg)
}
