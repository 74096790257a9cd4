package simulator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	sim := New(Config{Rounds: 10, Bot: "basic"})
	assert.Equal(t, 1, sim.config.Seats)
	assert.Positive(t, sim.config.Workers)
	assert.NotNil(t, sim.config.Logger)
	assert.NotZero(t, sim.config.Timeout)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Rounds: 0, Bot: "counter", Seats: 9, Workers: 1}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"rounds", "seats", "unknown bot"} {
		assert.ErrorContains(t, err, want)
	}

	_, err = New(Config{Rounds: -1, Bot: "basic"}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunCountsEveryRound(t *testing.T) {
	stats, err := New(Config{Rounds: 200, Bot: "basic", Seats: 3, Seed: 42, Workers: 4}).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	assert.Equal(t, 200, stats.Rounds)
	assert.GreaterOrEqual(t, stats.Hands, 600, "every seat settles at least one hand")
	assert.Positive(t, stats.Wins)
	assert.Positive(t, stats.Losses)
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	one, err := New(Config{Rounds: 150, Bot: "random", Seats: 2, Seed: 7, Workers: 1}).Run(context.Background())
	require.NoError(t, err)
	many, err := New(Config{Rounds: 150, Bot: "random", Seats: 2, Seed: 7, Workers: 5}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, one.Hands, many.Hands)
	assert.Equal(t, one.Wins, many.Wins)
	assert.Equal(t, one.SplitHands, many.SplitHands)
	assert.InDelta(t, one.SumUnits, many.SumUnits, 1e-9)
	assert.ElementsMatch(t, one.Values, many.Values)
}

func TestStandBotNeverBusts(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 300, "stand", 3, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Busts)
	assert.Zero(t, stats.Doubles)
	assert.Equal(t, stats.Rounds, stats.Hands, "no splits")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Rounds: 50, Bot: "basic", Workers: 2}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummary(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	stats, err := RunSimulation(context.Background(), 20, "dealer", 1, nil)
	require.NoError(t, err)

	out, err := Summary(stats, "dealer")
	require.NoError(t, err)
	assert.Contains(t, out, "dealer bot")
	assert.Contains(t, out, "Rounds")
	assert.Contains(t, out, "units/hand")
	assert.Contains(t, out, "95% CI")
}

func TestCompareSameStrategyIsEven(t *testing.T) {
	c, err := Compare(context.Background(), Config{Rounds: 300, Seed: 3, Workers: 2}, "stand", "stand")
	require.NoError(t, err)

	assert.Equal(t, 300, c.Rounds)
	assert.Zero(t, c.MeanDiff)
	assert.Equal(t, 1.0, c.PValue)
	assert.False(t, c.Significant())
	assert.Equal(t, "no significant difference", c.Verdict())
	assert.Equal(t, c.StatsA.Hands, c.StatsB.Hands)
}

func TestCompareFindsTheBetterStrategy(t *testing.T) {
	c, err := Compare(context.Background(), Config{Rounds: 3000, Seed: 11}, "stand", "basic")
	require.NoError(t, err)

	assert.Positive(t, c.MeanDiff)
	assert.True(t, c.Significant())
	assert.Equal(t, "basic is better", c.Verdict())

	pterm.DisableStyling()
	defer pterm.EnableStyling()
	out, err := CompareSummary(c)
	require.NoError(t, err)
	assert.Contains(t, out, "stand vs basic over 3000 rounds")
	assert.Contains(t, out, "basic is better")
}

func TestCompareRejectsUnknownBot(t *testing.T) {
	_, err := Compare(context.Background(), Config{Rounds: 10}, "stand", "oracle")
	assert.ErrorContains(t, err, `unknown bot "oracle"`)
}

func TestReportWriteFile(t *testing.T) {
	cfg := Config{Rounds: 50, Bot: "dealer", Seed: 9}
	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, NewReport(cfg, stats).WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "dealer", got.Bot)
	assert.Equal(t, 1, got.Seats)
	assert.Equal(t, int64(9), got.Seed)
	assert.Equal(t, 50, got.Rounds)
	assert.Equal(t, stats.Wins+stats.Ties+stats.Losses, got.Hands)
	assert.LessOrEqual(t, got.CI95[0], got.MeanUnits)
}
