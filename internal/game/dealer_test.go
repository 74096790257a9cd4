package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func TestDealerShouldHit(t *testing.T) {
	tests := []struct {
		cards string
		hit   bool
	}{
		{"10s6d", true},
		{"As6d", true},
		{"10s7d", false},
		{"10s8d", false},
		{"As7d", false},
		{"5s2dAh9c", false}, // hard 17
		{"2s3d", true},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			d := &Dealer{Hand: *hand(tt.cards)}
			assert.Equal(t, tt.hit, d.ShouldHit(), "total %s", formatTotal(d.Sum))
		})
	}
}

func TestDealDealerHidesHoleCard(t *testing.T) {
	d := DealDealer(shoe("10s7d"))

	assert.True(t, d.Hidden)
	assert.False(t, d.Upcard().FaceDown)
	assert.True(t, d.Cards[1].FaceDown)
	assert.Equal(t, 17, d.Total(), "hidden card still counts toward the true total")
	assert.Equal(t, "10♠ ??", d.String())

	view := dealerViewOf(d)
	assert.True(t, view.Hidden)
	assert.Equal(t, 10, view.Total)
	assert.Equal(t, deck.Card{FaceDown: true}, view.Cards[1])

	hole, err := d.Reveal()
	require.NoError(t, err)
	assert.False(t, hole.FaceDown)
	assert.False(t, d.Hidden)
	assert.Equal(t, 17, dealerViewOf(d).Total)
	assert.Equal(t, "10♠ 7♦ (17)", d.String())

	_, err = d.Reveal()
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDealerDrawsToPolicy(t *testing.T) {
	d := DealDealer(shoe("As2d"))
	_, err := d.Reveal()
	require.NoError(t, err)

	draws := 0
	s := shoe("3c5h")
	for d.ShouldHit() {
		_, err := d.Hit(s)
		require.NoError(t, err)
		draws++
	}

	// soft 13, soft 16, then soft 21 stands
	assert.Equal(t, 2, draws)
	assert.Equal(t, 21, d.Total())
}
