package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  url = "http://file:8080"
}
player {
  name    = "file"
  channel = "#file"
}
`), 0644))

	cfg, err := LoadConfig(&GlobalFlags{Config: path}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "http://file:8080", cfg.Server.URL)
	assert.Equal(t, "file", cfg.Player.Name)

	cfg, err = LoadConfig(&GlobalFlags{Config: path}, map[string]string{
		"BLACKJACK_SERVER": "http://env:8080",
		"BLACKJACK_PLAYER": "env",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://env:8080", cfg.Server.URL)
	assert.Equal(t, "env", cfg.Player.Name)
	assert.Equal(t, "#file", cfg.Player.Channel)

	cfg, err = LoadConfig(&GlobalFlags{
		Config:   path,
		Player:   "flag",
		Channel:  "#flag",
		LogLevel: "debug",
	}, map[string]string{"BLACKJACK_PLAYER": "env"})
	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.Player.Name)
	assert.Equal(t, "#flag", cfg.Player.Channel)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(&GlobalFlags{Config: filepath.Join(t.TempDir(), "nope.hcl")}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, client.DefaultClientConfig(), cfg)
}

func TestPromptName(t *testing.T) {
	cfg := client.DefaultClientConfig()
	var out bytes.Buffer
	require.NoError(t, PromptName(cfg, strings.NewReader("  alice \n"), &out))
	assert.Equal(t, "alice", cfg.Player.Name)
	assert.Equal(t, "Enter your player name: ", out.String())

	// configured names are kept without prompting
	out.Reset()
	require.NoError(t, PromptName(cfg, strings.NewReader("bob\n"), &out))
	assert.Equal(t, "alice", cfg.Player.Name)
	assert.Empty(t, out.String())

	assert.EqualError(t, PromptName(client.DefaultClientConfig(), strings.NewReader("\n"), &out), "player name is required")
	assert.EqualError(t, PromptName(client.DefaultClientConfig(), strings.NewReader(""), &out), "player name is required")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, log.DebugLevel, NewLogger(&buf, "debug").GetLevel())
	assert.Equal(t, log.ErrorLevel, NewLogger(&buf, "error").GetLevel())
	assert.Equal(t, log.WarnLevel, NewLogger(&buf, "bogus").GetLevel())
}

func TestTallyCountsOwnHands(t *testing.T) {
	tl := newTally("alice")

	tl.add(&game.Outcome{
		Dealer: game.DealerView{HandView: game.HandView{Total: 18}},
		Results: []game.HandResult{
			{ParticipantID: "alice", HandIndex: 0, Hand: game.HandView{Cards: deck.MustParseCards("10s9d"), Status: game.StatusStand}, Result: game.Win},
			{ParticipantID: "alice", HandIndex: 1, Hand: game.HandView{Cards: deck.MustParseCards("10c6d5h"), Status: game.StatusDouble}, Result: game.Win},
			{ParticipantID: "bob", Hand: game.HandView{Status: game.StatusBust}, Result: game.Lose},
		},
	})
	// rounds without alice are ignored
	tl.add(&game.Outcome{Results: []game.HandResult{{ParticipantID: "bob", Result: game.Win}}})

	stats := tl.snapshot()
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 2, stats.Hands)
	assert.Equal(t, 2, stats.SplitHands)
	assert.InDelta(t, 3.0, stats.SumUnits, 1e-9)
}
