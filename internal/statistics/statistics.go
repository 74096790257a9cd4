// Package statistics accumulates per-hand blackjack results into win rates
// and net-unit estimates.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// HandResult is one settled participant hand
type HandResult struct {
	Result     game.Result
	Status     game.Status // final turn state of the hand
	Split      bool        // hand was one of several after a split
	DealerBust bool
	Seed       int64 // RNG seed of the round (for replay)
}

// NetUnits is the hand's value in initial bets: a win pays 1, a doubled
// hand doubles both ways, a natural pays 1.5 and surrender returns half
func (r HandResult) NetUnits() float64 {
	if r.Status == game.StatusSurrender {
		return -0.5
	}

	stake := 1.0
	if r.Status == game.StatusDouble {
		stake = 2
	}

	switch r.Result {
	case game.Win:
		if r.Status == game.StatusBlackjack {
			return 1.5
		}
		return stake
	case game.Lose:
		return -stake
	default:
		return 0
	}
}

// FromOutcome extracts the hand results of every participant. Abandoned
// rounds have no results.
func FromOutcome(o *game.Outcome, seed int64) []HandResult {
	dealerBust := o.Dealer.Total > 21
	out := make([]HandResult, 0, len(o.Results))
	for _, hr := range o.Results {
		out = append(out, HandResult{
			Result:     hr.Result,
			Status:     hr.Hand.Status,
			Split:      countHands(o, hr.ParticipantID) > 1,
			DealerBust: dealerBust,
			Seed:       seed,
		})
	}
	return out
}

func countHands(o *game.Outcome, participantID string) int {
	return len(o.ResultsFor(participantID))
}

// Statistics tracks simulation results in net units per hand
type Statistics struct {
	Rounds    int
	Hands     int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	Wins       int
	Ties       int
	Losses     int
	Blackjacks int
	Busts      int
	Surrenders int
	Doubles    int
	SplitHands int

	// DealerBusts counts hands settled against a busted dealer
	DealerBusts int
}

// AddRound incorporates every hand of one round
func (s *Statistics) AddRound(results []HandResult) {
	s.Rounds++
	for _, r := range results {
		s.Add(r)
	}
}

// Add incorporates a new hand result into the statistics
func (s *Statistics) Add(result HandResult) {
	units := result.NetUnits()
	s.Hands++
	s.SumUnits += units
	s.SumUnits2 += units * units
	s.Values = append(s.Values, units)

	switch result.Result {
	case game.Win:
		s.Wins++
	case game.Tie:
		s.Ties++
	case game.Lose:
		s.Losses++
	}

	switch result.Status {
	case game.StatusBlackjack:
		s.Blackjacks++
	case game.StatusBust:
		s.Busts++
	case game.StatusSurrender:
		s.Surrenders++
	case game.StatusDouble:
		s.Doubles++
	}

	if result.Split {
		s.SplitHands++
	}
	if result.DealerBust {
		s.DealerBusts++
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.Hands += other.Hands
	s.SumUnits += other.SumUnits
	s.SumUnits2 += other.SumUnits2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Ties += other.Ties
	s.Losses += other.Losses
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Surrenders += other.Surrenders
	s.Doubles += other.Doubles
	s.SplitHands += other.SplitHands
	s.DealerBusts += other.DealerBusts
}

// Mean returns the arithmetic mean of all results in units per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumUnits2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Rate returns n as a fraction of all hands
func (s *Statistics) Rate(n int) float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(n) / float64(s.Hands)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the tallies agree with each other
func (s *Statistics) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if total := s.Wins + s.Ties + s.Losses; total != s.Hands {
		return fmt.Errorf("results total (%d) does not match hands count (%d)", total, s.Hands)
	}
	if s.Hands < s.Rounds {
		return fmt.Errorf("fewer hands (%d) than rounds (%d)", s.Hands, s.Rounds)
	}

	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	if math.Abs(sum-s.SumUnits) > 1e-6 {
		return fmt.Errorf("ledger mismatch: values sum %.6f, running sum %.6f", sum, s.SumUnits)
	}
	return nil
}
