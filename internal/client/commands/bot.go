package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// BotCommand plays a built-in strategy in a channel until interrupted
type BotCommand struct {
	Kind string `arg:"" help:"Bot strategy (stand, dealer, random, basic)"`
	Seed *int64 `help:"Seed for bots that use randomness (optional)"`
}

func (cmd *BotCommand) Run(flags *GlobalFlags) error {
	rng, seed := randutil.Seeded(cmd.Seed)
	strategy, err := bot.New(cmd.Kind, rng)
	if err != nil {
		return err
	}

	wsClient, cfg, logger, err := SetupClient(flags)
	if err != nil {
		return err
	}
	defer func() { _ = wsClient.Disconnect() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting bot",
		"kind", cmd.Kind,
		"player", cfg.Player.Name,
		"channel", cfg.Player.Channel,
		"seed", seed)

	tally := newTally(cfg.Player.Name)
	agent := client.NewNetworkAgent(ctx, wsClient, bot.NewAgent(cfg.Player.Name, strategy, logger), logger)
	agent.OnOutcome = func(o *game.Outcome) {
		tally.add(o)
		stats := tally.snapshot()
		logger.Info("Round settled",
			"round", o.RoundID,
			"rounds", stats.Rounds,
			"hands", stats.Hands,
			"net", fmt.Sprintf("%+.1f", stats.SumUnits))
	}

	if err := wsClient.JoinChannel(cfg.Player.Channel); err != nil {
		return fmt.Errorf("failed to join channel %s: %w", cfg.Player.Channel, err)
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down bot")
	case <-wsClient.Done():
		logger.Warn("Disconnected from server")
	}

	stats := tally.snapshot()
	fmt.Printf("%s played %d rounds, %d hands, net %+.1f units\n",
		cfg.Player.Name, stats.Rounds, stats.Hands, stats.SumUnits)
	return nil
}

// tally accumulates the results of one player's hands
type tally struct {
	player string
	mu     sync.Mutex
	stats  statistics.Statistics
}

func newTally(player string) *tally {
	return &tally{player: player}
}

func (t *tally) add(o *game.Outcome) {
	own := *o
	own.Results = o.ResultsFor(t.player)
	if len(own.Results) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.AddRound(statistics.FromOutcome(&own, 0))
}

func (t *tally) snapshot() statistics.Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
