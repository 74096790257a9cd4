package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

const (
	// DefaultMoveTimeout bounds how long a seat may take to answer
	DefaultMoveTimeout = 60 * time.Second

	// DefaultDealerDelay paces the dealer's reveal and draws
	DefaultDealerDelay = time.Second
)

// RoundOption configures a Round during creation.
type RoundOption func(*roundConfig)

// roundConfig holds all configuration for creating a round.
type roundConfig struct {
	shoe        deck.Shoe
	clock       quartz.Clock
	logger      *log.Logger
	renderer    Renderer
	moveTimeout time.Duration
	dealerDelay time.Duration
}

func defaultRoundConfig() *roundConfig {
	return &roundConfig{
		clock:       quartz.NewReal(),
		logger:      log.New(io.Discard),
		renderer:    nopRenderer{},
		moveTimeout: DefaultMoveTimeout,
		dealerDelay: DefaultDealerDelay,
	}
}

// WithShoe sets the card source. Without it a time-seeded RandomShoe is used.
func WithShoe(shoe deck.Shoe) RoundOption {
	return func(c *roundConfig) { c.shoe = shoe }
}

// WithClock sets the clock used for dealer pacing
func WithClock(clock quartz.Clock) RoundOption {
	return func(c *roundConfig) { c.clock = clock }
}

// WithLogger sets the round logger
func WithLogger(logger *log.Logger) RoundOption {
	return func(c *roundConfig) { c.logger = logger }
}

// WithRenderer sets where state snapshots are pushed
func WithRenderer(r Renderer) RoundOption {
	return func(c *roundConfig) { c.renderer = r }
}

// WithMoveTimeout sets the timeout passed to every MoveRequest
func WithMoveTimeout(d time.Duration) RoundOption {
	return func(c *roundConfig) { c.moveTimeout = d }
}

// WithDealerDelay sets the pause before each dealer action. Zero disables
// pacing.
func WithDealerDelay(d time.Duration) RoundOption {
	return func(c *roundConfig) { c.dealerDelay = d }
}

func (c *roundConfig) resolveShoe() deck.Shoe {
	if c.shoe != nil {
		return c.shoe
	}
	rng, _ := randutil.Seeded(nil)
	return deck.NewRandomShoe(rng)
}
