package deck

import (
	rand "math/rand/v2"
	"sync"
)

// Shoe is a source of cards for a round
type Shoe interface {
	Draw(faceDown bool) Card
}

// RandomShoe deals from an effectively infinite shoe: every draw picks suit
// and rank independently and uniformly, so nothing is ever depleted.
type RandomShoe struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomShoe creates a shoe backed by the given RNG
func NewRandomShoe(rng *rand.Rand) *RandomShoe {
	return &RandomShoe{rng: rng}
}

// Draw returns a uniformly random card
func (s *RandomShoe) Draw(faceDown bool) Card {
	s.mu.Lock()
	suit := Suit(s.rng.IntN(NumSuits))
	rank := Rank(s.rng.IntN(NumRanks))
	s.mu.Unlock()
	return Card{Suit: suit, Rank: rank, FaceDown: faceDown}
}

// ScriptedShoe deals a fixed sequence of cards and then falls back to
// another shoe. Used for deterministic tests and replays.
type ScriptedShoe struct {
	cards    []Card
	fallback Shoe
}

// NewScriptedShoe creates a shoe that deals cards in order before handing
// over to fallback. A nil fallback panics once the script runs out.
func NewScriptedShoe(fallback Shoe, cards ...Card) *ScriptedShoe {
	return &ScriptedShoe{cards: cards, fallback: fallback}
}

// Draw deals the next scripted card
func (s *ScriptedShoe) Draw(faceDown bool) Card {
	if len(s.cards) == 0 {
		if s.fallback == nil {
			panic("deck: scripted shoe exhausted")
		}
		return s.fallback.Draw(faceDown)
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	card.FaceDown = faceDown
	return card
}

// Remaining returns the number of scripted cards left
func (s *ScriptedShoe) Remaining() int {
	return len(s.cards)
}
