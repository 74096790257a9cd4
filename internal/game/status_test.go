package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		input string
		move  Move
		ok    bool
	}{
		{"h", Hit, true},
		{"HIT", Hit, true},
		{"  stand ", Stand, true},
		{"d", Double, true},
		{"Double   Down", Double, true},
		{"p", Split, true},
		{"split", Split, true},
		{"r", Surrender, true},
		{"surrender", Surrender, true},
		{"hit me", 0, false},
		{"nice hand", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			move, ok := ParseMove(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.move, move)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusWait.Terminal())
	assert.False(t, StatusCurrent.Terminal())
	for _, s := range []Status{StatusBlackjack, StatusSurrender, StatusBust, StatusStand, StatusDouble} {
		assert.True(t, s.Terminal(), s.String())
	}
}

func TestStateJSON(t *testing.T) {
	win := Win
	state := State{
		RoundID: "r1",
		Phase:   PhaseDealerTurn,
		Participants: []ParticipantView{{
			ID:    "alice",
			Hands: []HandView{{Total: 20, Status: StatusDouble, Result: &win}},
		}},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phase":"dealer"`)
	assert.Contains(t, string(data), `"status":"double"`)
	assert.Contains(t, string(data), `"result":"win"`)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, state, decoded)
}

func TestMoveErrorIs(t *testing.T) {
	err := illegal(Double, "no")
	assert.ErrorIs(t, err, ErrIllegalMove)
	assert.NotErrorIs(t, err, ErrInvariant)
	assert.Equal(t, "illegal move double: no", err.Error())
}

func TestLegalMoves(t *testing.T) {
	assert.Equal(t, []Move{Hit, Stand, Double, Split, Surrender}, viewOf(hand("8s8d")).LegalMoves())
	assert.Equal(t, []Move{Hit, Stand, Double, Surrender}, viewOf(hand("10s6d")).LegalMoves())
	assert.Equal(t, []Move{Hit, Stand}, viewOf(hand("4s4d4c")).LegalMoves())
	assert.Equal(t, []Move{Stand}, viewOf(hand("7s7d7c")).LegalMoves())
	assert.Nil(t, viewOf(hand("AsKd")).LegalMoves())
}

func TestViewRulesMatchHand(t *testing.T) {
	for _, cards := range []string{"8s8d", "10sQd", "10s9d", "4s4d4c", "As", "5s6d2c"} {
		h := hand(cards)
		v := viewOf(h)
		assert.Equal(t, h.CanSplit(), v.CanSplit(), cards)
		assert.Equal(t, h.CanDouble(), v.CanDouble(), cards)
		assert.Equal(t, h.CanSurrender(), v.CanSurrender(), cards)
	}
}
