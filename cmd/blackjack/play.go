package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/client/commands"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd seats you at a local table, optionally alongside bots
type PlayCmd struct {
	Name        string        `short:"n" default:"you" help:"Your name at the table"`
	Bots        []string      `short:"b" help:"Bot strategies to seat after you, e.g. --bots basic,random"`
	Rounds      int           `short:"r" default:"0" help:"Rounds to play (0 plays until input ends)"`
	Seed        *int64        `help:"Deterministic RNG seed for the shoe (optional)"`
	MoveTimeout time.Duration `default:"60s" help:"How long you may take to move"`
	DealerDelay time.Duration `default:"500ms" help:"Pause between dealer draws"`
	LogLevel    string        `short:"l" default:"error" help:"Log level (debug|info|warn|error)"`
}

func (c *PlayCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := c.play(ctx, os.Stdin, os.Stdout, quartz.NewReal())
	if stats != nil && stats.Hands > 0 {
		fmt.Printf("%d rounds, %d hands: %d won, %d tied, %d lost, net %+.1f units\n",
			stats.Rounds, stats.Hands, stats.Wins, stats.Ties, stats.Losses, stats.SumUnits)
	}
	return err
}

// play runs rounds until the round limit, the end of input or ctx, and
// returns the tally of the player's own hands
func (c *PlayCmd) play(ctx context.Context, in io.Reader, out io.Writer, clock quartz.Clock) (*statistics.Statistics, error) {
	logger := commands.NewLogger(os.Stderr, c.LogLevel)
	rng, seed := randutil.Seeded(c.Seed)
	logger.Debug("Seeded shoe", "seed", seed)

	seats := []game.Seat{{ID: c.Name, Name: c.Name, Source: tui.NewConsoleAgent(in, out, clock)}}
	for i, kind := range c.Bots {
		strategy, err := bot.New(kind, randutil.Split(rng))
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%s-%d", kind, i+1)
		seats = append(seats, game.Seat{ID: name, Name: name, Source: bot.NewAgent(name, strategy, logger)})
	}
	if len(seats) > 7 {
		return nil, fmt.Errorf("at most 6 bots may join you, got %d", len(c.Bots))
	}

	ids := gameid.NewGenerator(nil)
	shoe := deck.NewRandomShoe(rng)
	stats := &statistics.Statistics{}

	for n := 0; c.Rounds == 0 || n < c.Rounds; n++ {
		round := game.NewRound(ids.Generate(), "#local", seats,
			game.WithShoe(shoe),
			game.WithClock(clock),
			game.WithLogger(logger),
			game.WithRenderer(tui.NewConsoleRenderer(out)),
			game.WithMoveTimeout(c.MoveTimeout),
			game.WithDealerDelay(c.DealerDelay),
		)

		outcome, err := round.Run(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return stats, nil
		case err != nil:
			return stats, err
		}

		if outcome.Reason == game.ReasonInactivity {
			return stats, nil
		}

		own := *outcome
		own.Results = outcome.ResultsFor(c.Name)
		stats.AddRound(statistics.FromOutcome(&own, seed))
	}
	return stats, nil
}
