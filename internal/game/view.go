package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Phase is the round-level stage
type Phase int

const (
	PhaseDealing Phase = iota
	PhasePlaying
	PhaseDealerTurn
	PhaseFinished
	PhaseAbandoned
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhasePlaying:
		return "playing"
	case PhaseDealerTurn:
		return "dealer"
	case PhaseFinished:
		return "finished"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(b []byte) error {
	for candidate := PhaseDealing; candidate <= PhaseAbandoned; candidate++ {
		if candidate.String() == string(b) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(b))
}

// HandView is a read-only copy of a hand for rendering and move requests
type HandView struct {
	Cards  []deck.Card `json:"cards"`
	Total  int         `json:"total"`
	Soft   bool        `json:"soft,omitempty"`
	Status Status      `json:"status"`
	Result *Result     `json:"result,omitempty"`
}

// CanSplit mirrors Hand.CanSplit for decision makers holding only a view
func (v HandView) CanSplit() bool {
	return splittable(v.Cards)
}

// CanDouble mirrors Hand.CanDouble
func (v HandView) CanDouble() bool {
	return twoCards(v.Cards)
}

// CanSurrender mirrors Hand.CanSurrender
func (v HandView) CanSurrender() bool {
	return twoCards(v.Cards)
}

// DealerView is the dealer's hand as participants may see it. While Hidden
// the hole card is face down and the total only counts the upcard.
type DealerView struct {
	HandView
	Hidden bool `json:"hidden"`
}

// ParticipantView is one participant's hands
type ParticipantView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Hands []HandView `json:"hands"`
}

// Turn identifies the hand whose turn is active
type Turn struct {
	Participant int `json:"participant"`
	Hand        int `json:"hand"`
}

// State is an immutable snapshot of a round
type State struct {
	RoundID      string            `json:"roundId"`
	Channel      string            `json:"channel"`
	Phase        Phase             `json:"phase"`
	Dealer       DealerView        `json:"dealer"`
	Participants []ParticipantView `json:"participants"`
	Active       *Turn             `json:"active,omitempty"`
}

func viewOf(h *Hand) HandView {
	return HandView{
		Cards:  append([]deck.Card(nil), h.Cards...),
		Total:  h.Sum.Total,
		Soft:   h.Sum.Soft,
		Status: h.Status,
	}
}

func dealerViewOf(d *Dealer) DealerView {
	v := DealerView{HandView: viewOf(&d.Hand), Hidden: d.Hidden}
	if d.Hidden {
		visible := SumOf([]deck.Card{d.Upcard()})
		v.Total, v.Soft = visible.Total, visible.Soft
		// views leave the engine, so the hole card carries no rank or suit
		for i := 1; i < len(v.Cards); i++ {
			if v.Cards[i].FaceDown {
				v.Cards[i] = deck.Card{FaceDown: true}
			}
		}
	}
	return v
}

// Label renders a total the way players read it, e.g. "soft 17" or "21"
func (v HandView) Label() string {
	return formatTotal(HandSum{Total: v.Total, Soft: v.Soft})
}

func formatTotal(s HandSum) string {
	if s.Soft {
		return fmt.Sprintf("soft %d", s.Total)
	}
	return fmt.Sprintf("%d", s.Total)
}

// LegalMoves lists the moves the round will accept for this hand, in
// display order. A hand on 21 may only stand.
func (v HandView) LegalMoves() []Move {
	if v.Status.Terminal() {
		return nil
	}
	if v.Total == 21 {
		return []Move{Stand}
	}
	moves := []Move{Hit, Stand}
	if v.CanDouble() {
		moves = append(moves, Double)
	}
	if v.CanSplit() {
		moves = append(moves, Split)
	}
	if v.CanSurrender() {
		moves = append(moves, Surrender)
	}
	return moves
}
