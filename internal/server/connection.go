package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/protocol"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Message
	playerID  string
	channels  map[string]bool
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:     conn,
		send:     make(chan *protocol.Message, 256),
		channels: make(map[string]bool),
		logger:   logger.WithPrefix("conn"),
		ctx:      ctx,
		cancel:   cancel,
		server:   server,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection", "player", c.GetPlayer())
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// JoinChannel adds channel to the connection's subscriptions
func (c *Connection) JoinChannel(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[channel] = true
}

// InChannel reports whether the connection has joined channel
func (c *Connection) InChannel(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels[channel]
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	if msg.Type != protocol.TypeAuth && c.GetPlayer() == "" {
		c.sendError(protocol.CodeAuthRequired, "Must authenticate first")
		return
	}

	switch msg.Type {
	case protocol.TypeAuth:
		var data protocol.AuthData
		if err := protocol.Decode(msg, &data); err != nil {
			c.sendError(protocol.CodeInvalidMessage, "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case protocol.TypeJoinChannel:
		var data protocol.JoinChannelData
		if err := protocol.Decode(msg, &data); err != nil || data.Channel == "" {
			c.sendError(protocol.CodeInvalidMessage, "Failed to parse join channel data")
			return
		}
		c.handleJoinChannel(data)

	case protocol.TypeStartRound:
		var data protocol.StartRoundData
		if err := protocol.Decode(msg, &data); err != nil {
			c.sendError(protocol.CodeInvalidMessage, "Failed to parse start round data")
			return
		}
		c.handleStartRound(data)

	case protocol.TypeInput:
		var data protocol.InputData
		if err := protocol.Decode(msg, &data); err != nil {
			c.sendError(protocol.CodeInvalidMessage, "Failed to parse input data")
			return
		}
		c.handleInput(data)

	default:
		c.sendError(protocol.CodeUnknownType, "Unknown message type: "+string(msg.Type))
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

func (c *Connection) reply(msgType protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(msgType, data)
	if err != nil {
		c.logger.Error("Failed to create reply", "type", msgType, "error", err)
		return
	}
	_ = c.SendMessage(msg) // Ignore send errors
}

func (c *Connection) handleAuth(data protocol.AuthData) {
	c.logger.Info("Auth request", "name", data.Name)

	if data.Name == "" {
		c.reply(protocol.TypeAuthResponse, protocol.AuthResponseData{Error: "name required"})
		return
	}
	if current := c.GetPlayer(); current != "" {
		c.reply(protocol.TypeAuthResponse, protocol.AuthResponseData{Error: "already authenticated as " + current})
		return
	}
	if err := c.server.claimPlayer(c, data.Name); err != nil {
		c.reply(protocol.TypeAuthResponse, protocol.AuthResponseData{Error: err.Error()})
		return
	}

	c.reply(protocol.TypeAuthResponse, protocol.AuthResponseData{
		Success:  true,
		PlayerID: data.Name,
	})
}

func (c *Connection) handleJoinChannel(data protocol.JoinChannelData) {
	c.logger.Info("Join channel", "player", c.GetPlayer(), "channel", data.Channel)
	c.JoinChannel(data.Channel)

	c.reply(protocol.TypeChannelJoined, protocol.ChannelJoinedData{
		Channel: data.Channel,
		Members: c.server.ChannelMembers(data.Channel),
	})
}

func (c *Connection) handleStartRound(data protocol.StartRoundData) {
	if !c.InChannel(data.Channel) {
		c.sendError(protocol.CodeNotInChannel, "Join "+data.Channel+" before starting a round")
		return
	}
	if c.server.gameService == nil {
		c.sendError(protocol.CodeStartFailed, "Game service not available")
		return
	}

	members := make(map[string]bool)
	for _, m := range c.server.ChannelMembers(data.Channel) {
		members[m] = true
	}
	players := append([]string{c.GetPlayer()}, data.Players...)
	for _, p := range players {
		if !members[p] {
			c.sendError(protocol.CodeUnknownPlayer, p+" is not in "+data.Channel)
			return
		}
	}

	roundID, err := c.server.gameService.StartRound(data.Channel, players)
	switch {
	case errors.Is(err, ErrAlreadyPlaying):
		c.sendError(protocol.CodeAlreadyPlaying, err.Error())
	case errors.Is(err, ErrTooManyPlayers):
		c.sendError(protocol.CodeTooManyPlayers, err.Error())
	case err != nil:
		c.sendError(protocol.CodeStartFailed, err.Error())
	default:
		c.logger.Info("Round requested", "player", c.GetPlayer(), "round", roundID, "channel", data.Channel, "players", players)
	}
}

func (c *Connection) handleInput(data protocol.InputData) {
	if !c.InChannel(data.Channel) {
		c.sendError(protocol.CodeNotInChannel, "Not in "+data.Channel)
		return
	}
	if c.server.gameService == nil {
		return
	}
	if !c.server.gameService.HandleInput(data.Channel, c.GetPlayer(), data.Text) {
		c.logger.Debug("Input ignored", "player", c.GetPlayer(), "channel", data.Channel, "text", data.Text)
	}
}
