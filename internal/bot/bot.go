// Package bot provides computer players that answer move requests for a
// seat. Every bot only ever chooses from the hand's legal moves.
package bot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Strategy picks a move for a hand given the dealer's upcard
type Strategy interface {
	Choose(hand game.HandView, upcard deck.Card) game.Move
}

// StrategyFunc adapts a function to Strategy
type StrategyFunc func(hand game.HandView, upcard deck.Card) game.Move

// Choose implements Strategy
func (f StrategyFunc) Choose(hand game.HandView, upcard deck.Card) game.Move {
	return f(hand, upcard)
}

// Agent seats a Strategy at a round by implementing game.MoveSource
type Agent struct {
	name     string
	strategy Strategy
	logger   *log.Logger
}

// NewAgent creates a MoveSource that answers with strategy
func NewAgent(name string, strategy Strategy, logger *log.Logger) *Agent {
	return &Agent{
		name:     name,
		strategy: strategy,
		logger:   logger.WithPrefix("bot").With("name", name),
	}
}

// RequestMove implements game.MoveSource. Bots answer immediately, so the
// request's timeout never applies.
func (a *Agent) RequestMove(ctx context.Context, req game.MoveRequest) (game.Move, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	legal := req.Hand.LegalMoves()
	if len(legal) == 0 {
		return 0, fmt.Errorf("no legal moves for %s hand %d", req.Participant, req.HandIndex)
	}

	move := a.strategy.Choose(req.Hand, req.DealerUpcard)
	if !slices.Contains(legal, move) {
		a.logger.Warn("Strategy chose an illegal move", "move", move, "legal", legal)
		move = fallback(legal)
	}

	a.logger.Debug("Bot decision",
		"round", req.RoundID,
		"hand", req.HandIndex,
		"cards", req.Hand.Cards,
		"total", req.Hand.Label(),
		"upcard", req.DealerUpcard,
		"move", move)

	return move, nil
}

// fallback prefers standing, then hitting
func fallback(legal []game.Move) game.Move {
	for _, m := range []game.Move{game.Stand, game.Hit} {
		if slices.Contains(legal, m) {
			return m
		}
	}
	return legal[0]
}

// Factory builds a strategy. rng is only used by strategies that need one.
type Factory func(rng *rand.Rand) Strategy

var registry = map[string]Factory{
	"stand":  func(*rand.Rand) Strategy { return StandBot{} },
	"dealer": func(*rand.Rand) Strategy { return DealerBot{} },
	"random": func(rng *rand.Rand) Strategy { return NewRandBot(rng) },
	"basic":  func(*rand.Rand) Strategy { return BasicStrategyBot{} },
}

// Kinds lists the registered strategy names
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New returns the strategy registered as kind
func New(kind string, rng *rand.Rand) (Strategy, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q (want one of %v)", kind, Kinds())
	}
	return f(rng), nil
}
