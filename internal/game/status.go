package game

import (
	"fmt"
	"strings"
)

// Status is the per-hand turn state
type Status int

const (
	StatusWait Status = iota
	StatusCurrent
	StatusBlackjack
	StatusSurrender
	StatusBust
	StatusStand
	StatusDouble
)

var statusNames = [...]string{
	StatusWait:      "wait",
	StatusCurrent:   "current",
	StatusBlackjack: "blackjack",
	StatusSurrender: "surrender",
	StatusBust:      "bust",
	StatusStand:     "stand",
	StatusDouble:    "double",
}

// String returns the lowercase status name
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Terminal reports whether no further moves can be made on the hand
func (s Status) Terminal() bool {
	switch s {
	case StatusBlackjack, StatusSurrender, StatusBust, StatusStand, StatusDouble:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(b))
}

// Result is the settlement of one participant hand against the dealer
type Result int

const (
	Lose Result = iota
	Tie
	Win
)

// String returns the result name
func (r Result) String() string {
	switch r {
	case Lose:
		return "lose"
	case Tie:
		return "tie"
	case Win:
		return "win"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Result) UnmarshalText(b []byte) error {
	switch string(b) {
	case "lose":
		*r = Lose
	case "tie":
		*r = Tie
	case "win":
		*r = Win
	default:
		return fmt.Errorf("unknown result %q", string(b))
	}
	return nil
}

// Move is a decision for the hand whose turn is active
type Move int

const (
	Hit Move = iota
	Stand
	Double
	Split
	Surrender
)

// Moves lists every move in display order
var Moves = []Move{Hit, Stand, Double, Split, Surrender}

// String returns the move name
func (m Move) String() string {
	switch m {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return fmt.Sprintf("move(%d)", int(m))
	}
}

// Shortcut returns the single-letter alias for the move
func (m Move) Shortcut() string {
	switch m {
	case Hit:
		return "h"
	case Stand:
		return "s"
	case Double:
		return "d"
	case Split:
		return "p"
	case Surrender:
		return "r"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Move) UnmarshalText(b []byte) error {
	move, ok := ParseMove(string(b))
	if !ok {
		return fmt.Errorf("unknown move %q", string(b))
	}
	*m = move
	return nil
}

var moveAliases = map[string]Move{
	"h":           Hit,
	"hit":         Hit,
	"s":           Stand,
	"stand":       Stand,
	"d":           Double,
	"double":      Double,
	"double down": Double,
	"p":           Split,
	"split":       Split,
	"r":           Surrender,
	"surrender":   Surrender,
}

// ParseMove maps chat text to a move. Matching is case-insensitive and
// ignores surrounding and repeated whitespace; anything else is not a move.
func ParseMove(text string) (Move, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(text), " "))
	m, ok := moveAliases[key]
	return m, ok
}
