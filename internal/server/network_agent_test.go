package server

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

type fakeSender struct {
	mu        sync.Mutex
	direct    map[string][]*protocol.Message
	broadcast []*protocol.Message
}

func newFakeSender() *fakeSender {
	return &fakeSender{direct: make(map[string][]*protocol.Message)}
}

func (f *fakeSender) SendToPlayer(identity string, msg *protocol.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct[identity] = append(f.direct[identity], msg)
	return nil
}

func (f *fakeSender) BroadcastToChannel(_ string, msg *protocol.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcast = append(f.broadcast, msg)
}

func (f *fakeSender) sentTo(identity string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.direct[identity])
}

func testRequest(timeout time.Duration) game.MoveRequest {
	cards := deck.MustParseCards("10s6d")
	return game.MoveRequest{
		RoundID:      "r1",
		Channel:      "#blackjack",
		Participant:  "alice",
		HandCount:    1,
		Hand:         game.HandView{Cards: cards, Total: 16, Status: game.StatusCurrent},
		DealerUpcard: deck.MustParseCards("9h")[0],
		Timeout:      timeout,
	}
}

func TestNetworkAgentReceivesMove(t *testing.T) {
	sender := newFakeSender()
	agent := NewNetworkAgent("alice", "#blackjack", sender, log.New(io.Discard), quartz.NewMock(t))

	assert.False(t, agent.HandleInput("alice", "hit"), "no request outstanding")

	result := make(chan game.Move, 1)
	go func() {
		move, err := agent.RequestMove(context.Background(), testRequest(time.Minute))
		assert.NoError(t, err)
		result <- move
	}()

	require.Eventually(t, func() bool { return sender.sentTo("alice") == 1 }, time.Second, time.Millisecond)

	assert.False(t, agent.HandleInput("bob", "hit"), "other identities are ignored")
	assert.False(t, agent.HandleInput("alice", "nice hand"), "chat is ignored")

	require.Eventually(t, func() bool { return agent.HandleInput("alice", "  Double Down") }, time.Second, time.Millisecond)
	assert.Equal(t, game.Double, <-result)

	var data protocol.MoveRequestData
	require.NoError(t, protocol.Decode(sender.direct["alice"][0], &data))
	assert.Equal(t, 60, data.TimeoutSeconds)
	assert.Equal(t, []game.Move{game.Hit, game.Stand, game.Double, game.Surrender}, data.ValidMoves)
}

func TestNetworkAgentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	sender := newFakeSender()
	agent := NewNetworkAgent("alice", "#blackjack", sender, log.New(io.Discard), mClock)

	errs := make(chan error, 1)
	go func() {
		_, err := agent.RequestMove(ctx, testRequest(30*time.Second))
		errs <- err
	}()

	require.Eventually(t, func() bool {
		d, ok := mClock.Peek()
		return ok && d == 30*time.Second
	}, time.Second, time.Millisecond)
	mClock.Advance(30 * time.Second).MustWait(ctx)

	err := <-errs
	assert.ErrorIs(t, err, game.ErrMoveTimeout)
	assert.False(t, agent.HandleInput("alice", "stand"), "late input is not queued for the next request")
}

func TestNetworkAgentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	agent := NewNetworkAgent("alice", "#blackjack", newFakeSender(), log.New(io.Discard), quartz.NewMock(t))

	cancel()
	_, err := agent.RequestMove(ctx, testRequest(time.Minute))
	assert.ErrorIs(t, err, context.Canceled)
}
