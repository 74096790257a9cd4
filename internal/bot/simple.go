package bot

import (
	"math/rand/v2"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// StandBot stands on whatever it is dealt
type StandBot struct{}

// Choose implements Strategy
func (StandBot) Choose(game.HandView, deck.Card) game.Move {
	return game.Stand
}

// DealerBot plays the house policy: hit below 17 and on soft 17
type DealerBot struct{}

// Choose implements Strategy
func (DealerBot) Choose(hand game.HandView, _ deck.Card) game.Move {
	if hand.Total < game.DealerStandsOn || (hand.Total == game.DealerStandsOn && hand.Soft) {
		return game.Hit
	}
	return game.Stand
}

// RandBot picks uniformly among the legal moves
type RandBot struct {
	rng *rand.Rand
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand) *RandBot {
	return &RandBot{rng: rng}
}

// Choose implements Strategy
func (r *RandBot) Choose(hand game.HandView, _ deck.Card) game.Move {
	legal := hand.LegalMoves()
	if len(legal) == 0 {
		return game.Stand
	}
	return legal[r.rng.IntN(len(legal))]
}
