package game

import "fmt"

// Reason says how a round ended
type Reason int

const (
	// ReasonCompleted is a round played through the dealer's turn
	ReasonCompleted Reason = iota
	// ReasonDealerNatural is a round settled on the deal
	ReasonDealerNatural
	// ReasonInactivity is a round abandoned after a move timeout
	ReasonInactivity
	// ReasonAborted is a round stopped by an error or shutdown. Run never
	// reports it; hosts use it when Run fails.
	ReasonAborted
)

// String returns the reason name
func (r Reason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonDealerNatural:
		return "dealer_natural"
	case ReasonInactivity:
		return "inactivity"
	case ReasonAborted:
		return "aborted"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Reason) UnmarshalText(b []byte) error {
	for candidate := ReasonCompleted; candidate <= ReasonAborted; candidate++ {
		if candidate.String() == string(b) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", string(b))
}

// HandResult is the settlement of one participant hand
type HandResult struct {
	ParticipantID string   `json:"participantId"`
	Name          string   `json:"name"`
	HandIndex     int      `json:"handIndex"`
	Hand          HandView `json:"hand"`
	Result        Result   `json:"result"`
}

// Outcome summarises a finished or abandoned round. Results is empty when
// the round was abandoned.
type Outcome struct {
	RoundID  string       `json:"roundId"`
	Channel  string       `json:"channel"`
	Reason   Reason       `json:"reason"`
	Dealer   DealerView   `json:"dealer"`
	Results  []HandResult `json:"results,omitempty"`
	Inactive string       `json:"inactive,omitempty"`
}

// ResultsFor returns the results belonging to one participant
func (o *Outcome) ResultsFor(participantID string) []HandResult {
	var out []HandResult
	for _, r := range o.Results {
		if r.ParticipantID == participantID {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many hands ended with result
func (o *Outcome) Count(result Result) int {
	n := 0
	for _, r := range o.Results {
		if r.Result == result {
			n++
		}
	}
	return n
}
