// Package protocol defines the JSON messages exchanged between the
// blackjack server and its clients over a websocket.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeAuth        MessageType = "auth"
	TypeJoinChannel MessageType = "join_channel"
	TypeStartRound  MessageType = "start_round"
	TypeInput       MessageType = "input"

	// Server -> Client
	TypeAuthResponse  MessageType = "auth_response"
	TypeChannelJoined MessageType = "channel_joined"
	TypeRoundStarted  MessageType = "round_started"
	TypeMoveRequest   MessageType = "move_request"
	TypeRoundState    MessageType = "round_state"
	TypeRoundResult   MessageType = "round_result"
	TypeRoundEnded    MessageType = "round_ended"
	TypeError         MessageType = "error"
)

// Error codes carried in ErrorData
const (
	CodeAuthRequired   = "auth_required"
	CodeInvalidMessage = "invalid_message"
	CodeUnknownType    = "unknown_message_type"
	CodeNotInChannel   = "not_in_channel"
	CodeUnknownPlayer  = "unknown_player"
	CodeAlreadyPlaying = "already_playing"
	CodeTooManyPlayers = "too_many_players"
	CodeStartFailed    = "start_failed"
)

// Message is the envelope every websocket frame is wrapped in
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", messageType, err)
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the message payload into v
func Decode(msg *Message, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%s message has no data", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Type, err)
	}
	return nil
}

// Client → Server Messages

type AuthData struct {
	Name string `json:"name"`
}

type JoinChannelData struct {
	Channel string `json:"channel"`
}

// StartRoundData asks for a round in Channel between the named players.
// The sender is always seated first and need not be listed.
type StartRoundData struct {
	Channel string   `json:"channel"`
	Players []string `json:"players,omitempty"`
}

// InputData is a line of chat text. Text that parses as a move answers
// the sender's pending move request; anything else is ignored by rounds.
type InputData struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ChannelJoinedData struct {
	Channel string   `json:"channel"`
	Members []string `json:"members"`
}

type RoundStartedData struct {
	RoundID string   `json:"roundId"`
	Channel string   `json:"channel"`
	Players []string `json:"players"`
}

// MoveRequestData is sent only to the player whose hand is active
type MoveRequestData struct {
	RoundID        string        `json:"roundId"`
	Channel        string        `json:"channel"`
	Player         string        `json:"player"`
	HandIndex      int           `json:"handIndex"`
	HandCount      int           `json:"handCount"`
	Hand           game.HandView `json:"hand"`
	DealerUpcard   deck.Card     `json:"dealerUpcard"`
	ValidMoves     []game.Move   `json:"validMoves"`
	TimeoutSeconds int           `json:"timeoutSeconds"`
	Rejected       string        `json:"rejected,omitempty"`
}

// MoveRequestFrom converts an engine request into its wire form
func MoveRequestFrom(req game.MoveRequest) MoveRequestData {
	return MoveRequestData{
		RoundID:        req.RoundID,
		Channel:        req.Channel,
		Player:         req.Participant,
		HandIndex:      req.HandIndex,
		HandCount:      req.HandCount,
		Hand:           req.Hand,
		DealerUpcard:   req.DealerUpcard,
		ValidMoves:     req.Hand.LegalMoves(),
		TimeoutSeconds: int(req.Timeout / time.Second),
		Rejected:       req.Rejected,
	}
}

// Request converts the wire form back into an engine request
func (d MoveRequestData) Request() game.MoveRequest {
	return game.MoveRequest{
		RoundID:      d.RoundID,
		Channel:      d.Channel,
		Participant:  d.Player,
		Name:         d.Player,
		HandIndex:    d.HandIndex,
		HandCount:    d.HandCount,
		Hand:         d.Hand,
		DealerUpcard: d.DealerUpcard,
		Timeout:      time.Duration(d.TimeoutSeconds) * time.Second,
		Rejected:     d.Rejected,
	}
}

// RoundStateData is broadcast to the channel after every state change
type RoundStateData struct {
	State   game.State `json:"state"`
	Message string     `json:"message,omitempty"`
}

type RoundResultData struct {
	Outcome game.Outcome `json:"outcome"`
}

// RoundEndedData closes every round, whether it finished or was abandoned.
// Message is empty for inactivity; the final round_state carries that notice.
type RoundEndedData struct {
	RoundID  string      `json:"roundId"`
	Channel  string      `json:"channel"`
	Reason   game.Reason `json:"reason"`
	Inactive string      `json:"inactive,omitempty"`
	Message  string      `json:"message"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
