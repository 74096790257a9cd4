package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func hand(cards string) *Hand {
	return NewHand(deck.MustParseCards(cards)...)
}

func shoe(cards string) *deck.ScriptedShoe {
	return deck.NewScriptedShoe(nil, deck.MustParseCards(cards)...)
}

func TestNewHandNatural(t *testing.T) {
	h := hand("AsKd")
	assert.True(t, h.Blackjack())
	assert.Equal(t, StatusBlackjack, h.Status)

	h = hand("10s9d")
	assert.False(t, h.Blackjack())
	assert.Equal(t, StatusWait, h.Status)
}

func TestHandTwentyOneBoundary(t *testing.T) {
	t.Run("two cards is a natural", func(t *testing.T) {
		h := hand("Qs")
		require.NoError(t, h.Add(deck.MustParseCards("Ah")[0]))
		assert.Equal(t, 21, h.Total())
		assert.True(t, h.Blackjack())
	})

	t.Run("three cards is not", func(t *testing.T) {
		h := hand("7s4h")
		_, err := h.Hit(shoe("Kd"))
		require.NoError(t, err)
		assert.Equal(t, 21, h.Total())
		assert.False(t, h.Blackjack())
		assert.Equal(t, StatusWait, h.Status)
	})
}

func TestHandHitTerminal(t *testing.T) {
	h := hand("10s9d")
	h.Status = StatusStand

	_, err := h.Hit(shoe("2c"))
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Len(t, h.Cards, 2)

	err = h.Add(deck.MustParseCards("2c")[0])
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestHandCompare(t *testing.T) {
	tests := []struct {
		name     string
		player   string
		dealer   string
		expected Result
	}{
		{"higher total wins", "10s9d", "10h8c", Win},
		{"lower total loses", "10s7d", "10h8c", Lose},
		{"equal totals tie", "10s8d", "9h9c", Tie},
		{"natural beats three card 21", "AsKd", "7h7c7d", Win},
		{"three card 21 loses to natural", "7h7c7d", "AsKd", Lose},
		{"two naturals tie", "AsKd", "AhQc", Tie},
		{"two three card 21s tie", "7h7c7d", "5s6dKh", Tie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hand(tt.player).Compare(hand(tt.dealer)))
		})
	}
}

func TestHandCanSplit(t *testing.T) {
	assert.True(t, hand("10sQd").CanSplit())
	assert.True(t, hand("8s8d").CanSplit())
	assert.True(t, hand("AsAd").CanSplit())
	assert.False(t, hand("10s9d").CanSplit())
	assert.False(t, hand("4s4d4c").CanSplit())
}

func TestHandSplit(t *testing.T) {
	h := hand("8s8d")
	created, err := h.Split()
	require.NoError(t, err)

	assert.Equal(t, deck.MustParseCards("8s"), h.Cards)
	assert.Equal(t, 8, h.Total())
	assert.Equal(t, deck.MustParseCards("8d"), created.Cards)
	assert.Equal(t, 8, created.Total())
	assert.Equal(t, StatusWait, created.Status)

	// appending to one half must not leak into the other
	require.NoError(t, h.Add(deck.MustParseCards("3c")[0]))
	assert.Len(t, created.Cards, 1)
}

func TestHandSplitIllegal(t *testing.T) {
	_, err := hand("10s9d").Split()
	require.ErrorIs(t, err, ErrIllegalMove)

	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, Split, moveErr.Move)
	assert.Contains(t, moveErr.Reason, "same value")

	_, err = hand("4s4d4c").Split()
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestHandDoubleAndSurrenderOnlyOnTwoCards(t *testing.T) {
	h := hand("5s6d")
	assert.True(t, h.CanDouble())
	assert.True(t, h.CanSurrender())

	_, err := h.Hit(shoe("2c"))
	require.NoError(t, err)
	assert.False(t, h.CanDouble())
	assert.False(t, h.CanSurrender())
}

func TestHandString(t *testing.T) {
	assert.Equal(t, "A♠ 6♦ (soft 17)", hand("As6d").String())
	assert.Equal(t, "10♠ 9♦ (19)", hand("10s9d").String())
}

func TestParticipantSplit(t *testing.T) {
	p := NewParticipant("alice", "", hand("8s8d"))
	p.Hands = append(p.Hands, hand("10s7c"))

	require.NoError(t, p.Split(0, shoe("3h10d")))
	require.Len(t, p.Hands, 3)

	assert.Equal(t, deck.MustParseCards("8s3h"), p.Hands[0].Cards)
	assert.Equal(t, deck.MustParseCards("8d10d"), p.Hands[1].Cards)
	assert.Equal(t, deck.MustParseCards("10s7c"), p.Hands[2].Cards)
	assert.Equal(t, "alice", p.DisplayName())
}

func TestParticipantSplitIllegalLeavesHands(t *testing.T) {
	p := NewParticipant("bob", "Bob", hand("10s9d"))

	err := p.Split(0, shoe(""))
	assert.ErrorIs(t, err, ErrIllegalMove)
	require.Len(t, p.Hands, 1)
	assert.Len(t, p.Hands[0].Cards, 2)

	assert.ErrorIs(t, p.Split(3, shoe("")), ErrInvariant)
}
