package simulator

import (
	"context"
	"fmt"
	"math"

	"github.com/pterm/pterm"

	"github.com/lox/blackjack/internal/statistics"
)

// Comparison pits two strategies against the same rounds. Round i is dealt
// from seed Seed+i for both, so the per-round differences are paired.
type Comparison struct {
	BotA, BotB     string
	StatsA, StatsB *statistics.Statistics

	Rounds     int
	MeanDiff   float64 // B minus A, units per round
	StdDevDiff float64
	EffectSize float64 // Cohen's d of the paired differences
	PValue     float64 // two-sided, normal approximation
}

// Compare plays config.Rounds rounds with botA, then the same rounds with
// botB. config.Bot is ignored.
func Compare(ctx context.Context, config Config, botA, botB string) (*Comparison, error) {
	configA, configB := config, config
	configA.Bot, configB.Bot = botA, botB

	statsA, netsA, err := New(configA).run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", botA, err)
	}
	statsB, netsB, err := New(configB).run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", botB, err)
	}

	c := &Comparison{BotA: botA, BotB: botB, StatsA: statsA, StatsB: statsB, Rounds: len(netsA)}
	c.pairedDifference(netsA, netsB)
	return c, nil
}

func (c *Comparison) pairedDifference(a, b []float64) {
	n := float64(len(a))
	if n == 0 {
		return
	}

	var sum, sum2 float64
	for i := range a {
		d := b[i] - a[i]
		sum += d
		sum2 += d * d
	}
	c.MeanDiff = sum / n

	if n < 2 {
		c.PValue = 1
		return
	}
	c.StdDevDiff = math.Sqrt(math.Max((sum2-n*c.MeanDiff*c.MeanDiff)/(n-1), 0))
	if c.StdDevDiff == 0 {
		// identical play on every round
		c.PValue = 1
		if c.MeanDiff != 0 {
			c.PValue = 0
		}
		return
	}

	c.EffectSize = c.MeanDiff / c.StdDevDiff
	z := c.MeanDiff / (c.StdDevDiff / math.Sqrt(n))
	c.PValue = math.Erfc(math.Abs(z) / math.Sqrt2)
}

// Significant reports whether the difference holds at the 5% level
func (c *Comparison) Significant() bool {
	return c.PValue < 0.05
}

// Verdict names the better strategy, or says neither is
func (c *Comparison) Verdict() string {
	switch {
	case !c.Significant():
		return "no significant difference"
	case c.MeanDiff > 0:
		return c.BotB + " is better"
	default:
		return c.BotA + " is better"
	}
}

// interpretEffectSize provides a human-readable interpretation
func interpretEffectSize(d float64) string {
	absD := math.Abs(d)
	switch {
	case absD < 0.2:
		return "negligible"
	case absD < 0.5:
		return "small"
	case absD < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// CompareSummary renders a comparison as a table
func CompareSummary(c *Comparison) (string, error) {
	row := func(name string, f func(*statistics.Statistics) string) []string {
		return []string{name, f(c.StatsA), f(c.StatsB)}
	}
	rate := func(n func(*statistics.Statistics) int) func(*statistics.Statistics) string {
		return func(s *statistics.Statistics) string { return fmt.Sprintf("%.1f%%", s.Rate(n(s))*100) }
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(pterm.TableData{
		{"Metric", c.BotA, c.BotB},
		row("Hands", func(s *statistics.Statistics) string { return fmt.Sprintf("%d", s.Hands) }),
		row("Wins", rate(func(s *statistics.Statistics) int { return s.Wins })),
		row("Losses", rate(func(s *statistics.Statistics) int { return s.Losses })),
		row("Busts", rate(func(s *statistics.Statistics) int { return s.Busts })),
		row("Mean", func(s *statistics.Statistics) string { return fmt.Sprintf("%+.4f units/hand", s.Mean()) }),
	}).Srender()
	if err != nil {
		return "", err
	}

	verdict := fmt.Sprintf("%s minus %s: %+.4f units/round, effect %s (d=%.3f), p=%.4f\n%s",
		c.BotB, c.BotA, c.MeanDiff, interpretEffectSize(c.EffectSize), c.EffectSize, c.PValue, c.Verdict())
	if c.Significant() {
		verdict = pterm.Green(verdict)
	}

	title := pterm.LightCyan(fmt.Sprintf("%s vs %s over %d rounds", c.BotA, c.BotB, c.Rounds))
	return pterm.DefaultBox.WithTitle(title).WithTitleTopCenter().Sprint(table + "\n" + verdict), nil
}
