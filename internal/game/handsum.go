package game

import "github.com/lox/blackjack/internal/deck"

// HandSum is a running blackjack total. Soft means exactly one ace is
// currently counted as 11.
type HandSum struct {
	Total int  `json:"total"`
	Soft  bool `json:"soft,omitempty"`
}

// SumOf computes the total of cards from scratch: base values summed, then
// one ace promoted to 11 if that stays at or under 21.
func SumOf(cards []deck.Card) HandSum {
	var s HandSum
	hasAce := false
	for _, c := range cards {
		s.Total += c.Value()
		if c.IsAce() {
			hasAce = true
		}
	}
	if hasAce && s.Total+10 <= 21 {
		s.Total += 10
		s.Soft = true
	}
	return s
}

// Add returns the sum after one more card. An ace is taken as 11 when it
// fits; a soft total that goes over 21 drops its ace back to 1. At most one
// ace is ever counted high.
func (s HandSum) Add(c deck.Card) HandSum {
	if c.IsAce() && s.Total+11 <= 21 {
		s.Total += 11
		s.Soft = true
	} else {
		s.Total += c.Value()
	}
	if s.Soft && s.Total > 21 {
		s.Total -= 10
		s.Soft = false
	}
	return s
}

// Bust reports a total over 21
func (s HandSum) Bust() bool {
	return s.Total > 21
}
