package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/tui"
)

// JoinCommand joins a channel and starts the TUI interface
type JoinCommand struct {
	Target string `arg:"" optional:"" help:"Channel to join (defaults to the configured channel)"`
}

func (cmd *JoinCommand) Run(flags *GlobalFlags) error {
	if cmd.Target != "" {
		flags.Channel = cmd.Target
	}

	// Create client with file logging (handles config loading and log file creation)
	wsClient, cfg, logger, cleanup, err := SetupClientWithFileLogging(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting Blackjack Client TUI",
		"server", cfg.Server.URL,
		"player", cfg.Player.Name,
		"channel", cfg.Player.Channel)

	tuiModel := tui.NewTUIModel(cfg.Player.Name, logger)
	tuiModel.AddLogEntry(tui.HeaderStyle.Render("Blackjack") + " connected to " + cfg.Server.URL + " as " + cfg.Player.Name)
	tuiModel.AddLogEntry("Type /help for commands")

	program := tea.NewProgram(tuiModel, tea.WithAltScreen())

	// Handlers must be in place before the join reply arrives
	bridge := tui.NewBridge(wsClient, tuiModel, program, logger)
	bridge.Start()

	if err := wsClient.JoinChannel(cfg.Player.Channel); err != nil {
		return fmt.Errorf("failed to join channel %s: %w", cfg.Player.Channel, err)
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
