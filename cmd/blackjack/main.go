package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/blackjack/internal/client/commands"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the blackjack server"`
	Join     ClientCmd        `cmd:"" help:"Join a channel with the interactive client"`
	Bot      BotCmd           `cmd:"" help:"Play a built-in bot in a channel"`
	Play     PlayCmd          `cmd:"" help:"Play rounds against the house in this terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate many rounds of a bot strategy"`
	Compare  CompareCmd       `cmd:"" help:"Compare two bot strategies on identical rounds"`
}

// ClientCmd runs the TUI client
type ClientCmd struct {
	Flags commands.GlobalFlags `embed:""`
	Join  commands.JoinCommand `embed:""`
}

func (c *ClientCmd) Run() error {
	return c.Join.Run(&c.Flags)
}

// BotCmd connects a built-in strategy to a server
type BotCmd struct {
	Flags commands.GlobalFlags `embed:""`
	Bot   commands.BotCommand  `embed:""`
}

func (c *BotCmd) Run() error {
	return c.Bot.Run(&c.Flags)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Multiplayer blackjack over chat channels"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
