package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/blackjack/internal/client/commands"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays offline rounds with every seat using one strategy
type SimulateCmd struct {
	Rounds   int    `short:"n" default:"10000" help:"Number of rounds to play"`
	Bot      string `short:"b" default:"basic" help:"Bot strategy (stand, dealer, random, basic)"`
	Seats    int    `default:"1" help:"Seats per round (1-7)"`
	Seed     *int64 `help:"Base seed; round i uses seed+i (optional)"`
	Workers  int    `short:"w" help:"Parallel workers (default: GOMAXPROCS)"`
	Output   string `short:"o" help:"Also write the results as JSON to this file"`
	LogLevel string `short:"l" default:"warn" help:"Log level (debug|info|warn|error)"`
}

func (c *SimulateCmd) Run() error {
	logger := commands.NewLogger(os.Stderr, c.LogLevel)
	_, seed := randutil.Seeded(c.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation", "rounds", c.Rounds, "bot", c.Bot, "seats", c.Seats, "seed", seed)
	start := time.Now()

	config := simulator.Config{
		Rounds:  c.Rounds,
		Bot:     c.Bot,
		Seats:   c.Seats,
		Seed:    seed,
		Workers: c.Workers,
		Logger:  logger,
	}
	stats, err := simulator.New(config).Run(ctx)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := simulator.NewReport(config, stats).WriteFile(c.Output); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}

	summary, err := simulator.Summary(stats, c.Bot)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	fmt.Printf("seed %d, %s\n", seed, time.Since(start).Round(time.Millisecond))
	return nil
}

// CompareCmd plays the same rounds with two strategies and tests whether
// one does better
type CompareCmd struct {
	BotA     string `arg:"" help:"Baseline strategy"`
	BotB     string `arg:"" help:"Challenger strategy"`
	Rounds   int    `short:"n" default:"10000" help:"Number of rounds each strategy plays"`
	Seats    int    `default:"1" help:"Seats per round (1-7)"`
	Seed     *int64 `help:"Base seed; round i uses seed+i (optional)"`
	Workers  int    `short:"w" help:"Parallel workers (default: GOMAXPROCS)"`
	LogLevel string `short:"l" default:"warn" help:"Log level (debug|info|warn|error)"`
}

func (c *CompareCmd) Run() error {
	logger := commands.NewLogger(os.Stderr, c.LogLevel)
	_, seed := randutil.Seeded(c.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comparison, err := simulator.Compare(ctx, simulator.Config{
		Rounds:  c.Rounds,
		Seats:   c.Seats,
		Seed:    seed,
		Workers: c.Workers,
		Logger:  logger,
	}, c.BotA, c.BotB)
	if err != nil {
		return err
	}

	summary, err := simulator.CompareSummary(comparison)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	fmt.Printf("seed %d\n", seed)
	return nil
}
