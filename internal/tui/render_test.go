package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func TestFormatHand(t *testing.T) {
	win := game.Win
	tests := []struct {
		name string
		hand game.HandView
		want string
	}{
		{"in play", game.HandView{Cards: deck.MustParseCards("Ah6d"), Total: 17, Soft: true}, "[A♥ 6♦] soft 17"},
		{"bust", game.HandView{Cards: deck.MustParseCards("10s6dKc"), Total: 26, Status: game.StatusBust}, "[10♠ 6♦ K♣] 26 bust"},
		{"natural win", game.HandView{Cards: deck.MustParseCards("AsKd"), Total: 21, Status: game.StatusBlackjack, Result: &win}, "[A♠ K♦] 21 blackjack win"},
		{"doubled", game.HandView{Cards: deck.MustParseCards("5s6d9c"), Total: 20, Status: game.StatusDouble}, "[5♠ 6♦ 9♣] 20 double"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHand(tt.hand))
		})
	}

	assert.Equal(t, "[]", FormatCards(nil))
}

func TestRenderState(t *testing.T) {
	state := game.State{
		Dealer: game.DealerView{
			HandView: game.HandView{Cards: deck.MustParseCards("10s7d"), Total: 17, Status: game.StatusStand},
		},
		Participants: []game.ParticipantView{
			{Name: "alice", Hands: []game.HandView{
				{Cards: deck.MustParseCards("8s3d"), Total: 11, Status: game.StatusCurrent},
				{Cards: deck.MustParseCards("8dKc"), Total: 18},
			}},
			{Name: "bob", Hands: []game.HandView{{Cards: deck.MustParseCards("9h9c"), Total: 18}}},
		},
		Active: &game.Turn{Participant: 0, Hand: 0},
	}

	want := "Dealer [10♠ 7♦] 17 stand\n" +
		"▶ alice (hand 1) [8♠ 3♦] 11\n" +
		"  alice (hand 2) [8♦ K♣] 18\n" +
		"  bob [9♥ 9♣] 18\n" +
		"alice (hand 1) to act"
	assert.Equal(t, want, RenderState(state, "alice (hand 1) to act"))
	assert.Equal(t, RenderTable(state), RenderState(state, ""))
}

func TestRenderMoves(t *testing.T) {
	assert.Equal(t, "Moves: [h]it [s]tand [d]ouble s[p]lit su[r]render", RenderMoves(game.Moves))
	assert.Equal(t, "[no moves available]", RenderMoves(nil))
}
