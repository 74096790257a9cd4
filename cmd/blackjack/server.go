package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lox/blackjack/internal/client/commands"
	"github.com/lox/blackjack/internal/server"
)

// ServerCmd contains core server configuration. Flags override the config
// file and BLACKJACK_* environment variables.
type ServerCmd struct {
	Config      string        `short:"c" default:"blackjack-server.hcl" help:"Path to HCL configuration file"`
	Addr        string        `short:"a" help:"Server address to bind to, host:port (overrides config)"`
	LogLevel    string        `short:"l" help:"Log level (overrides config)"`
	MoveTimeout time.Duration `help:"How long a player may take to move (overrides config)"`
	DealerDelay time.Duration `help:"Pause between dealer draws (overrides config)"`
	Seed        *int64        `help:"Deterministic RNG seed for the shoe (optional)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	logger := commands.NewLogger(os.Stderr, cfg.Server.LogLevel)
	logger.Info("Starting Blackjack Server",
		"addr", cfg.GetServerAddress(),
		"move_timeout", cfg.Game.MoveTimeout,
		"dealer_delay", cfg.Game.DealerDelay,
		"max_players", cfg.Game.MaxPlayers)

	wsServer := server.NewServer(cfg.GetServerAddress(), logger)
	gameService := server.NewGameService(wsServer, logger, server.WithGameSettings(cfg.Game))
	wsServer.SetGameService(gameService)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := wsServer.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// load reads the config file, then the environment, then flags
func (c *ServerCmd) load() (*server.ServerConfig, error) {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}

	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return nil, fmt.Errorf("--addr: %w", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("--addr: invalid port %q", port)
		}
		cfg.Server.Address, cfg.Server.Port = host, p
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.MoveTimeout != 0 {
		cfg.Game.MoveTimeout = c.MoveTimeout.String()
	}
	if c.DealerDelay != 0 {
		cfg.Game.DealerDelay = c.DealerDelay.String()
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
