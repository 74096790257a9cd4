package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/protocol"
)

// Client represents a WebSocket client for the blackjack server
type Client struct {
	serverURL  string
	conn       *websocket.Conn
	send       chan *protocol.Message
	receive    chan *protocol.Message
	logger     *log.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	connected  bool
	playerName string
	channel    string
	closeOnce  sync.Once

	// Event handlers
	eventHandlers map[protocol.MessageType][]EventHandler
	waiters       map[protocol.MessageType][]chan *protocol.Message
}

// EventHandler is a function that handles incoming events. Handlers run
// one at a time in the order messages arrive, so they must not block.
type EventHandler func(*protocol.Message)

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL:     serverURL,
		send:          make(chan *protocol.Message, 256),
		receive:       make(chan *protocol.Message, 256),
		logger:        logger.WithPrefix("client"),
		ctx:           ctx,
		cancel:        cancel,
		eventHandlers: make(map[protocol.MessageType][]EventHandler),
		waiters:       make(map[protocol.MessageType][]chan *protocol.Message),
	}
}

// websocketURL converts an http(s) server URL into the /ws endpoint
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}

	u.Path = "/ws"
	return u.String(), nil
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect() error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	wsURL, err := websocketURL(c.serverURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(c.ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()
	go c.eventProcessor()

	c.logger.Info("Connected to server")
	return nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
			c.connected = false
		}

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// Done is closed once the connection is gone
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SendMessage sends a message to the server
func (c *Client) SendMessage(msg *protocol.Message) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

func (c *Client) sendData(msgType protocol.MessageType, data any) error {
	msg, err := protocol.NewMessage(msgType, data)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.cancel()
	}()

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
			return
		}
	}
}

// eventProcessor dispatches incoming messages in arrival order
func (c *Client) eventProcessor() {
	for {
		select {
		case msg := <-c.receive:
			c.handleMessage(msg)
		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches messages to registered handlers and waiters
func (c *Client) handleMessage(msg *protocol.Message) {
	c.mu.Lock()
	handlers := c.eventHandlers[msg.Type]
	waiters := c.waiters[msg.Type]
	delete(c.waiters, msg.Type)
	c.mu.Unlock()

	for _, w := range waiters {
		w <- msg
	}

	if len(handlers) == 0 && len(waiters) == 0 {
		c.logger.Debug("No handler for message type", "type", msg.Type)
		return
	}
	for _, handler := range handlers {
		handler(msg)
	}
}

// AddEventHandler adds an event handler for a specific message type
func (c *Client) AddEventHandler(messageType protocol.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.eventHandlers[messageType] = append(c.eventHandlers[messageType], handler)
}

// Auth performs authentication with the server
func (c *Client) Auth(playerName string) error {
	c.mu.Lock()
	c.playerName = playerName
	c.mu.Unlock()

	return c.sendData(protocol.TypeAuth, protocol.AuthData{Name: playerName})
}

// Login authenticates and waits for the server to accept the name
func (c *Client) Login(playerName string, timeout time.Duration) error {
	waiter := c.expect(protocol.TypeAuthResponse)
	if err := c.Auth(playerName); err != nil {
		return err
	}

	msg, err := c.await(waiter, protocol.TypeAuthResponse, timeout)
	if err != nil {
		return err
	}

	var data protocol.AuthResponseData
	if err := protocol.Decode(msg, &data); err != nil {
		return err
	}
	if !data.Success {
		return fmt.Errorf("authentication failed: %s", data.Error)
	}
	return nil
}

// JoinChannel joins a channel and makes it the default for later calls
func (c *Client) JoinChannel(channel string) error {
	c.SetChannel(channel)
	return c.sendData(protocol.TypeJoinChannel, protocol.JoinChannelData{Channel: channel})
}

// StartRound asks the server to deal a round in channel for the caller
// and the named players
func (c *Client) StartRound(channel string, players []string) error {
	return c.sendData(protocol.TypeStartRound, protocol.StartRoundData{
		Channel: channel,
		Players: players,
	})
}

// SendInput sends a line of player input to a channel
func (c *Client) SendInput(channel, text string) error {
	return c.sendData(protocol.TypeInput, protocol.InputData{
		Channel: channel,
		Text:    text,
	})
}

// SetChannel sets the current channel
func (c *Client) SetChannel(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = channel
}

// GetChannel returns the current channel
func (c *Client) GetChannel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// GetPlayerName returns the player name
func (c *Client) GetPlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

func (c *Client) expect(messageType protocol.MessageType) chan *protocol.Message {
	ch := make(chan *protocol.Message, 1)
	c.mu.Lock()
	c.waiters[messageType] = append(c.waiters[messageType], ch)
	c.mu.Unlock()
	return ch
}

func (c *Client) await(ch chan *protocol.Message, messageType protocol.MessageType, timeout time.Duration) (*protocol.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-ch:
		return msg, nil
	case <-timer.C:
		return nil, fmt.Errorf("timeout waiting for %s", messageType)
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

// WaitForMessage waits for the next message of a specific type with timeout
func (c *Client) WaitForMessage(messageType protocol.MessageType, timeout time.Duration) (*protocol.Message, error) {
	return c.await(c.expect(messageType), messageType, timeout)
}
