package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/protocol"
)

// Client is the part of client.Client the bridge drives
type Client interface {
	AddEventHandler(messageType protocol.MessageType, handler client.EventHandler)
	JoinChannel(channel string) error
	StartRound(channel string, players []string) error
	SendInput(channel, text string) error
	GetChannel() string
	Done() <-chan struct{}
}

// Sender delivers messages into a running program; *tea.Program is one
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge manages the connection between a client and TUI model. Server
// messages become tea messages, and submitted lines become client calls.
type Bridge struct {
	client  Client
	tui     *TUIModel
	program Sender
	logger  *log.Logger
}

// NewBridge creates a new bridge between client and TUI
func NewBridge(c Client, tui *TUIModel, program Sender, logger *log.Logger) *Bridge {
	bridge := &Bridge{
		client:  c,
		tui:     tui,
		program: program,
		logger:  logger.WithPrefix("bridge"),
	}

	bridge.setupEventHandlers()
	return bridge
}

// Start begins the command handling loop (non-blocking)
func (b *Bridge) Start() {
	go b.commandLoop()
	go func() {
		<-b.client.Done()
		b.program.Send(DisconnectedMsg{})
	}()
}

// forward decodes a payload of type D and sends it to the program as M
func forward[D any, M any](b *Bridge, convert func(D) M) client.EventHandler {
	return func(msg *protocol.Message) {
		var data D
		if err := protocol.Decode(msg, &data); err != nil {
			b.logger.Error("Dropping malformed message", "type", msg.Type, "error", err)
			return
		}
		b.program.Send(convert(data))
	}
}

// setupEventHandlers configures all client event handlers
func (b *Bridge) setupEventHandlers() {
	b.client.AddEventHandler(protocol.TypeChannelJoined, forward(b, func(d protocol.ChannelJoinedData) ChannelJoinedMsg { return ChannelJoinedMsg(d) }))
	b.client.AddEventHandler(protocol.TypeRoundStarted, forward(b, func(d protocol.RoundStartedData) RoundStartedMsg { return RoundStartedMsg(d) }))
	b.client.AddEventHandler(protocol.TypeRoundState, forward(b, func(d protocol.RoundStateData) StateMsg { return StateMsg(d) }))
	b.client.AddEventHandler(protocol.TypeMoveRequest, forward(b, func(d protocol.MoveRequestData) MoveRequestMsg { return MoveRequestMsg(d) }))
	b.client.AddEventHandler(protocol.TypeRoundResult, forward(b, func(d protocol.RoundResultData) ResultMsg { return ResultMsg(d) }))
	b.client.AddEventHandler(protocol.TypeRoundEnded, forward(b, func(d protocol.RoundEndedData) RoundEndedMsg { return RoundEndedMsg(d) }))
	b.client.AddEventHandler(protocol.TypeError, forward(b, func(d protocol.ErrorData) ServerErrorMsg { return ServerErrorMsg(d) }))
}

// commandLoop handles user actions from the TUI
func (b *Bridge) commandLoop() {
	for {
		action := b.tui.WaitForAction()
		if !action.Continue {
			return
		}

		if err := b.handle(action); err != nil {
			b.program.Send(ActionErrorMsg{Err: err})
		}
	}
}

func (b *Bridge) handle(action ActionResult) error {
	b.logger.Debug("User action", "action", action.Action, "args", action.Args)

	switch action.Action {
	case "/join":
		if len(action.Args) != 1 || !strings.HasPrefix(action.Args[0], "#") {
			return fmt.Errorf("usage: /join #channel")
		}
		return b.client.JoinChannel(action.Args[0])

	case "/start":
		channel := b.client.GetChannel()
		if channel == "" {
			return fmt.Errorf("join a channel before starting a round")
		}
		return b.client.StartRound(channel, action.Args)
	}

	if strings.HasPrefix(action.Action, "/") {
		return fmt.Errorf("unknown command %s, try /help", action.Action)
	}
	return b.client.SendInput(b.client.GetChannel(), action.Text)
}
