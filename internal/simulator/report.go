package simulator

import (
	"encoding/json"
	"fmt"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Report is the machine-readable form of a simulation
type Report struct {
	Bot    string `json:"bot"`
	Seats  int    `json:"seats"`
	Seed   int64  `json:"seed"`
	Rounds int    `json:"rounds"`
	Hands  int    `json:"hands"`

	Wins        int `json:"wins"`
	Ties        int `json:"ties"`
	Losses      int `json:"losses"`
	Blackjacks  int `json:"blackjacks"`
	Busts       int `json:"busts"`
	Doubles     int `json:"doubles"`
	SplitHands  int `json:"split_hands"`
	Surrenders  int `json:"surrenders"`
	DealerBusts int `json:"dealer_busts"`

	MeanUnits float64    `json:"mean_units"`
	StdDev    float64    `json:"std_dev"`
	CI95      [2]float64 `json:"ci95"`
}

// NewReport summarises stats from a run with config
func NewReport(config Config, stats *statistics.Statistics) Report {
	config.applyDefaults()
	low, high := stats.ConfidenceInterval95()
	return Report{
		Bot:         config.Bot,
		Seats:       config.Seats,
		Seed:        config.Seed,
		Rounds:      stats.Rounds,
		Hands:       stats.Hands,
		Wins:        stats.Wins,
		Ties:        stats.Ties,
		Losses:      stats.Losses,
		Blackjacks:  stats.Blackjacks,
		Busts:       stats.Busts,
		Doubles:     stats.Doubles,
		SplitHands:  stats.SplitHands,
		Surrenders:  stats.Surrenders,
		DealerBusts: stats.DealerBusts,
		MeanUnits:   stats.Mean(),
		StdDev:      stats.StdDev(),
		CI95:        [2]float64{low, high},
	}
}

// WriteFile writes the report as indented JSON. Readers polling the path
// never see a partial report.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
