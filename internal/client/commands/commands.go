// Package commands holds the kong subcommands that connect to a blackjack
// server as a player.
package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/server"
)

// GlobalFlags holds common configuration for all client commands
type GlobalFlags struct {
	Config   string        `short:"c" long:"config" default:"blackjack-client.hcl" help:"Path to HCL configuration file"`
	Server   string        `short:"s" long:"server" help:"Server URL to connect to (overrides config)"`
	Player   string        `short:"p" long:"player" help:"Player name (overrides config)"`
	Channel  string        `long:"channel" help:"Channel to join (overrides config)"`
	LogLevel string        `short:"l" long:"log-level" help:"Log level (overrides config)"`
	LogFile  string        `long:"log-file" help:"Log file path (overrides config)"`
	Wait     time.Duration `long:"wait" help:"Wait up to this long for the server to become healthy before connecting"`
}

// LoadConfig loads the config file, then applies the environment and
// finally the command line flags
func LoadConfig(flags *GlobalFlags, environ map[string]string) (*client.ClientConfig, error) {
	cfg, err := client.LoadClientConfig(flags.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.ApplyEnv(environ); err != nil {
		return nil, err
	}

	// Apply command line overrides
	if flags.Server != "" {
		cfg.Server.URL = flags.Server
	}
	if flags.Player != "" {
		cfg.Player.Name = flags.Player
	}
	if flags.Channel != "" {
		cfg.Player.Channel = flags.Channel
	}
	if flags.LogLevel != "" {
		cfg.UI.LogLevel = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.UI.LogFile = flags.LogFile
	}
	return cfg, nil
}

// PromptName asks for a player name when none is configured
func PromptName(cfg *client.ClientConfig, in io.Reader, out io.Writer) error {
	if cfg.Player.Name != "" {
		return nil
	}

	fmt.Fprint(out, "Enter your player name: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("player name is required")
	}
	cfg.Player.Name = strings.TrimSpace(line)
	if cfg.Player.Name == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// NewLogger creates a logger writing to w at the named level
func NewLogger(w io.Writer, level string) *log.Logger {
	logger := log.New(w)
	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel) // Default to warn to reduce noise
	}
	return logger
}

// SetupClient creates, connects and authenticates a client logging to
// stderr
func SetupClient(flags *GlobalFlags) (*client.Client, *client.ClientConfig, *log.Logger, error) {
	cfg, err := LoadConfig(flags, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return setupClientConfigured(cfg, os.Stderr, flags.Wait)
}

// SetupClientWithFileLogging creates, connects and authenticates a client
// that logs to the configured file, leaving the terminal to the UI
func SetupClientWithFileLogging(flags *GlobalFlags) (*client.Client, *client.ClientConfig, *log.Logger, func(), error) {
	cfg, err := LoadConfig(flags, nil)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	// Setup logging to file (overwrite each time)
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	wsClient, finalCfg, logger, err := setupClientConfigured(cfg, logFile, flags.Wait)
	if err != nil {
		logFile.Close()
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		_ = wsClient.Disconnect()
		_ = logFile.Close()
	}

	return wsClient, finalCfg, logger, cleanup, nil
}

// setupClientConfigured connects with an already loaded config
func setupClientConfigured(cfg *client.ClientConfig, logWriter io.Writer, wait time.Duration) (*client.Client, *client.ClientConfig, *log.Logger, error) {
	if err := PromptName(cfg, os.Stdin, os.Stdout); err != nil {
		return nil, nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := NewLogger(logWriter, cfg.UI.LogLevel)

	if wait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()
		if err := server.WaitForHealthy(ctx, cfg.Server.URL); err != nil {
			return nil, nil, nil, err
		}
	}

	wsClient := client.NewClient(cfg.Server.URL, logger)
	if err := wsClient.Connect(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	if err := wsClient.Login(cfg.Player.Name, cfg.ConnectTimeoutDuration()); err != nil {
		_ = wsClient.Disconnect()
		return nil, nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return wsClient, cfg, logger, nil
}
