package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayCmd(rounds int, bots ...string) *PlayCmd {
	seed := int64(42)
	return &PlayCmd{
		Name:        "alice",
		Bots:        bots,
		Rounds:      rounds,
		Seed:        &seed,
		MoveTimeout: 60e9,
		LogLevel:    "error",
	}
}

func TestPlayStandsThroughRounds(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(strings.Repeat("s\n", 10))

	stats, err := testPlayCmd(3, "stand", "basic").play(context.Background(), in, &out, quartz.NewReal())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rounds)
	assert.Equal(t, 3, stats.Hands, "standing never splits")
	assert.Zero(t, stats.Busts)
	assert.Contains(t, out.String(), "stand-1")
	assert.Contains(t, out.String(), "basic-2")
}

func TestPlayStopsAtEndOfInput(t *testing.T) {
	var out bytes.Buffer
	stats, err := testPlayCmd(0).play(context.Background(), strings.NewReader(""), &out, quartz.NewReal())
	require.NoError(t, err)
	assert.NotNil(t, stats)
}

func TestPlayRejectsBadBots(t *testing.T) {
	_, err := testPlayCmd(1, "card-counter").play(context.Background(), strings.NewReader(""), &bytes.Buffer{}, quartz.NewReal())
	assert.ErrorContains(t, err, `unknown bot "card-counter"`)

	_, err = testPlayCmd(1, "stand", "stand", "stand", "stand", "stand", "stand", "stand").
		play(context.Background(), strings.NewReader(""), &bytes.Buffer{}, quartz.NewReal())
	assert.EqualError(t, err, "at most 6 bots may join you, got 7")
}

func TestServerCmdLoad(t *testing.T) {
	seed := int64(7)
	cmd := &ServerCmd{Config: t.TempDir() + "/missing.hcl", Addr: "127.0.0.1:9090", MoveTimeout: 5e9, Seed: &seed}
	cfg, err := cmd.load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddress())
	assert.Equal(t, "5s", cfg.Game.MoveTimeout)
	assert.Equal(t, int64(7), cfg.Game.Seed)

	_, err = (&ServerCmd{Config: t.TempDir() + "/missing.hcl", Addr: "nope"}).load()
	assert.Error(t, err)
}
