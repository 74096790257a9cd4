package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

func TestSumOf(t *testing.T) {
	tests := []struct {
		cards string
		total int
		soft  bool
	}{
		{"", 0, false},
		{"As", 11, true},
		{"AsKd", 21, true},
		{"AsAd", 12, true},
		{"AsAdAh", 13, true},
		{"AsAdAhAc", 14, true},
		{"As6d", 17, true},
		{"As6d10c", 17, false},
		{"10s9d", 19, false},
		{"10s6d6c", 22, false},
		{"AsAd9h", 21, true},
		{"AsAd10h", 12, false},
		{"5s5dAh", 21, true},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			s := SumOf(deck.MustParseCards(tt.cards))
			assert.Equal(t, tt.total, s.Total)
			assert.Equal(t, tt.soft, s.Soft)
		})
	}
}

func TestHandSumAddMatchesSumOf(t *testing.T) {
	shoe := deck.NewRandomShoe(randutil.New(7))

	for game := 0; game < 2000; game++ {
		var cards []deck.Card
		var running HandSum
		for !running.Bust() {
			c := shoe.Draw(false)
			cards = append(cards, c)
			running = running.Add(c)

			full := SumOf(cards)
			if !assert.Equal(t, full, running, "cards %v", cards) {
				return
			}
		}
	}
}

func TestHandSumSoftAceDropsOnBust(t *testing.T) {
	s := SumOf(deck.MustParseCards("As5d"))
	assert.Equal(t, HandSum{Total: 16, Soft: true}, s)

	s = s.Add(deck.MustParseCards("9c")[0])
	assert.Equal(t, HandSum{Total: 15, Soft: false}, s)
	assert.False(t, s.Bust())

	s = s.Add(deck.MustParseCards("Kc")[0])
	assert.True(t, s.Bust())
}
