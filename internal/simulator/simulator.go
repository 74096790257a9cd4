// Package simulator plays many offline rounds between bots and the house
// and summarises the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Bot     string // strategy every seat plays, see bot.Kinds
	Seats   int
	Seed    int64
	Workers int
	Timeout time.Duration // per round
	Logger  *log.Logger
}

func (c *Config) applyDefaults() {
	if c.Seats == 0 {
		c.Seats = 1
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Validate checks the configuration before any round is played
func (c *Config) Validate() error {
	var errs []error
	if c.Rounds <= 0 {
		errs = append(errs, fmt.Errorf("rounds must be positive, got %d", c.Rounds))
	}
	if c.Seats < 1 || c.Seats > 7 {
		errs = append(errs, fmt.Errorf("seats must be between 1 and 7, got %d", c.Seats))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if _, err := bot.New(c.Bot, nil); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	config.applyDefaults()
	return &Simulator{config: config}
}

// Run plays every round and returns the combined statistics. Rounds are
// spread over the workers, but each round's cards and bot choices depend
// only on Seed and the round number.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	total, _, err := s.run(ctx)
	return total, err
}

// run also returns the net units of every round, indexed by round number
func (s *Simulator) run(ctx context.Context) (*statistics.Statistics, []float64, error) {
	if err := s.config.Validate(); err != nil {
		return nil, nil, err
	}

	nets := make([]float64, s.config.Rounds)
	perWorker := make([]*statistics.Statistics, s.config.Workers)
	g, ctx := errgroup.WithContext(ctx)

	for w := range perWorker {
		stats := &statistics.Statistics{}
		perWorker[w] = stats

		g.Go(func() error {
			for i := w; i < s.config.Rounds; i += s.config.Workers {
				roundSeed := s.config.Seed + int64(i)
				results, err := s.playRoundWithTimeout(ctx, i, roundSeed)
				if err != nil {
					return fmt.Errorf("round %d (seed %d): %w", i+1, roundSeed, err)
				}
				stats.AddRound(results)
				for _, r := range results {
					nets[i] += r.NetUnits()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	total := &statistics.Statistics{}
	for _, stats := range perWorker {
		total.Merge(stats)
	}

	if err := total.Validate(); err != nil {
		return nil, nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return total, nets, nil
}

// playRoundWithTimeout runs a single round with timeout protection
func (s *Simulator) playRoundWithTimeout(ctx context.Context, n int, seed int64) ([]statistics.HandResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	rng := randutil.New(seed)
	seats := make([]game.Seat, s.config.Seats)
	for i := range seats {
		strategy, err := bot.New(s.config.Bot, randutil.Split(rng))
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%s-%d", s.config.Bot, i+1)
		seats[i] = game.Seat{ID: name, Name: name, Source: bot.NewAgent(name, strategy, s.config.Logger)}
	}

	round := game.NewRound(fmt.Sprintf("sim-%d", n+1), "#simulation", seats,
		game.WithShoe(deck.NewRandomShoe(randutil.Split(rng))),
		game.WithDealerDelay(0),
		game.WithLogger(s.config.Logger))

	outcome, err := round.Run(ctx)
	if err != nil {
		return nil, err
	}
	if outcome.Reason == game.ReasonInactivity {
		return nil, fmt.Errorf("bot %s timed out", outcome.Inactive)
	}
	return statistics.FromOutcome(outcome, seed), nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds int, botKind string, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Rounds: rounds,
		Bot:    botKind,
		Seed:   seed,
		Logger: logger,
	}).Run(ctx)
}

// Summary renders the results as a table
func Summary(stats *statistics.Statistics, botKind string) (string, error) {
	low, high := stats.ConfidenceInterval95()
	pct := func(n int) string { return fmt.Sprintf("%d (%.1f%%)", n, stats.Rate(n)*100) }

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(pterm.TableData{
		{"Metric", "Value"},
		{"Rounds", fmt.Sprintf("%d", stats.Rounds)},
		{"Hands", fmt.Sprintf("%d", stats.Hands)},
		{"Wins", pct(stats.Wins)},
		{"Ties", pct(stats.Ties)},
		{"Losses", pct(stats.Losses)},
		{"Blackjacks", pct(stats.Blackjacks)},
		{"Busts", pct(stats.Busts)},
		{"Doubles", pct(stats.Doubles)},
		{"Split hands", pct(stats.SplitHands)},
		{"Surrenders", pct(stats.Surrenders)},
		{"Dealer busts", pct(stats.DealerBusts)},
		{"Mean", fmt.Sprintf("%+.4f units/hand", stats.Mean())},
		{"Std dev", fmt.Sprintf("%.4f units", stats.StdDev())},
		{"95% CI", fmt.Sprintf("[%+.4f, %+.4f]", low, high)},
	}).Srender()
	if err != nil {
		return "", err
	}

	title := pterm.LightCyan(fmt.Sprintf("%s bot", botKind))
	return pterm.DefaultBox.WithTitle(title).WithTitleTopCenter().Sprint(table), nil
}
