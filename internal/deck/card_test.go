package deck

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "compact run",
			input: "AsKdQc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Diamonds, Rank: King},
				{Suit: Clubs, Rank: Queen},
			},
		},
		{
			name:  "tens both ways",
			input: "10hTd",
			expected: []Card{
				{Suit: Hearts, Rank: Ten},
				{Suit: Diamonds, Rank: Ten},
			},
		},
		{
			name:  "glyph suits with spaces",
			input: "A♠ 8♥ 2♣",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: Eight},
				{Suit: Clubs, Rank: Two},
			},
		},
		{
			name:  "case insensitive",
			input: "asjH",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: Jack},
			},
		},
		{
			name:    "invalid rank",
			input:   "Xs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "Ax",
			wantErr: true,
		},
		{
			name:    "truncated",
			input:   "AsK",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cards)
		})
	}
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		rank  Rank
		value int
	}{
		{Ace, 1},
		{Two, 2},
		{Five, 5},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
	}

	for _, tt := range tests {
		t.Run(tt.rank.String(), func(t *testing.T) {
			assert.Equal(t, tt.value, NewCard(Clubs, tt.rank).Value())
		})
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Spades, Ace).String())
	assert.Equal(t, "10♥", NewCard(Hearts, Ten).String())
	assert.Equal(t, "7♦", NewCard(Diamonds, Seven).String())

	hidden := Card{Suit: Clubs, Rank: King, FaceDown: true}
	assert.Equal(t, "??", hidden.String())
	assert.Equal(t, "K♣", hidden.Revealed().String())
	assert.True(t, hidden.FaceDown, "Revealed must not mutate the receiver")
}

func TestRandomShoe(t *testing.T) {
	shoe := NewRandomShoe(rand.New(rand.NewPCG(1, 2)))

	seen := make(map[Card]int)
	for i := 0; i < 20000; i++ {
		c := shoe.Draw(false)
		require.GreaterOrEqual(t, int(c.Suit), 0)
		require.Less(t, int(c.Suit), NumSuits)
		require.GreaterOrEqual(t, int(c.Rank), 0)
		require.Less(t, int(c.Rank), NumRanks)
		seen[c]++
	}

	// Infinite shoe: every one of the 52 faces shows up, with repeats
	assert.Len(t, seen, NumSuits*NumRanks)

	assert.True(t, shoe.Draw(true).FaceDown)
}

func TestScriptedShoe(t *testing.T) {
	fallback := NewRandomShoe(rand.New(rand.NewPCG(3, 4)))
	shoe := NewScriptedShoe(fallback, MustParseCards("As Kd")...)

	assert.Equal(t, 2, shoe.Remaining())
	assert.Equal(t, NewCard(Spades, Ace), shoe.Draw(false))

	down := shoe.Draw(true)
	assert.Equal(t, King, down.Rank)
	assert.True(t, down.FaceDown)
	assert.Equal(t, 0, shoe.Remaining())

	// Falls back once the script is exhausted
	assert.NotPanics(t, func() { shoe.Draw(false) })

	empty := NewScriptedShoe(nil)
	assert.Panics(t, func() { empty.Draw(false) })
}
