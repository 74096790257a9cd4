package client

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
	"github.com/lox/blackjack/internal/server"
)

func startServer(t *testing.T, cards string) string {
	t.Helper()
	logger := log.New(io.Discard)

	srv := server.NewServer("", logger)
	service := server.NewGameService(srv, logger,
		server.WithGameSettings(&server.GameSettings{MoveTimeout: "1m", DealerDelay: "0s", MaxPlayers: 4}),
		server.WithShoeFactory(func() deck.Shoe {
			return deck.NewScriptedShoe(nil, deck.MustParseCards(cards)...)
		}),
	)
	srv.SetGameService(service)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
		ts.Close()
	})
	return ts.URL
}

func connect(t *testing.T, url, name string) *Client {
	t.Helper()
	c := NewClient(url, log.New(io.Discard))
	require.NoError(t, c.Connect())
	t.Cleanup(func() { _ = c.Disconnect() })
	require.NoError(t, c.Login(name, 5*time.Second))
	return c
}

func TestWebsocketURL(t *testing.T) {
	for in, want := range map[string]string{
		"http://localhost:8080":   "ws://localhost:8080/ws",
		"https://example.com":     "wss://example.com/ws",
		"ws://127.0.0.1:9000/foo": "ws://127.0.0.1:9000/ws",
	} {
		got, err := websocketURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := websocketURL("ftp://example.com")
	assert.Error(t, err)
}

func TestClientLoginRejectsDuplicateName(t *testing.T) {
	url := startServer(t, "")
	connect(t, url, "alice")

	c := NewClient(url, log.New(io.Discard))
	require.NoError(t, c.Connect())
	defer c.Disconnect()

	err := c.Login("alice", 5*time.Second)
	assert.ErrorContains(t, err, "already connected")
}

func TestClientPlaysRoundWithAgent(t *testing.T) {
	// dealer 10s 7d, alice 10h 9c
	url := startServer(t, "10s7d10h9c")
	c := connect(t, url, "alice")

	requests := make(chan game.MoveRequest, 4)
	stand := game.MoveSourceFunc(func(_ context.Context, req game.MoveRequest) (game.Move, error) {
		requests <- req
		return game.Stand, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcomes := make(chan *game.Outcome, 1)
	agent := NewNetworkAgent(ctx, c, stand, log.New(io.Discard))
	agent.OnOutcome = func(o *game.Outcome) { outcomes <- o }

	var states []game.Phase
	c.AddEventHandler(protocol.TypeRoundState, func(msg *protocol.Message) {
		var data protocol.RoundStateData
		if protocol.Decode(msg, &data) == nil {
			states = append(states, data.State.Phase)
		}
	})

	require.NoError(t, c.JoinChannel("#blackjack"))
	assert.Equal(t, "#blackjack", c.GetChannel())
	require.NoError(t, c.StartRound(c.GetChannel(), nil))

	ended, err := c.WaitForMessage(protocol.TypeRoundEnded, 5*time.Second)
	require.NoError(t, err)
	var endedData protocol.RoundEndedData
	require.NoError(t, protocol.Decode(ended, &endedData))
	assert.Equal(t, game.ReasonCompleted, endedData.Reason)

	var outcome *game.Outcome
	select {
	case outcome = <-outcomes:
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome delivered")
	}
	assert.Equal(t, game.Win, outcome.ResultsFor("alice")[0].Result)

	require.Len(t, requests, 1)
	req := <-requests
	assert.Equal(t, 19, req.Hand.Total)
	assert.Equal(t, time.Minute, req.Timeout)

	// handlers run in arrival order, ahead of the round_ended waiter returning
	require.NotEmpty(t, states)
	assert.Equal(t, game.PhaseFinished, states[len(states)-1])
}

func TestClientWaitForMessageTimeout(t *testing.T) {
	url := startServer(t, "")
	c := connect(t, url, "alice")

	_, err := c.WaitForMessage(protocol.TypeRoundResult, 20*time.Millisecond)
	assert.ErrorContains(t, err, "timeout waiting for round_result")
}

func TestClientDoneAfterDisconnect(t *testing.T) {
	url := startServer(t, "")
	c := connect(t, url, "alice")
	require.True(t, c.IsConnected())

	require.NoError(t, c.Disconnect())
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed")
	}
	assert.False(t, c.IsConnected())
	assert.Error(t, c.SendInput("#blackjack", "hit"))
}
