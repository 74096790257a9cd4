package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Participant is one player's hands for a round. Splits grow the list in
// place, inserting each new hand directly after the one it came from.
type Participant struct {
	ID    string
	Name  string
	Hands []*Hand
}

// NewParticipant creates a participant holding a single hand
func NewParticipant(id, name string, hand *Hand) *Participant {
	return &Participant{ID: id, Name: name, Hands: []*Hand{hand}}
}

// Split splits the hand at index into two, inserts the new hand right after
// it, and deals one card to each. Illegal splits leave everything untouched.
func (p *Participant) Split(index int, shoe deck.Shoe) error {
	if index < 0 || index >= len(p.Hands) {
		return invariant("split of hand %d, participant has %d", index, len(p.Hands))
	}

	original := p.Hands[index]
	created, err := original.Split()
	if err != nil {
		return err
	}

	p.Hands = append(p.Hands, nil)
	copy(p.Hands[index+2:], p.Hands[index+1:])
	p.Hands[index+1] = created

	if _, err := original.Hit(shoe); err != nil {
		return fmt.Errorf("deal to split hand: %w", err)
	}
	if _, err := created.Hit(shoe); err != nil {
		return fmt.Errorf("deal to split hand: %w", err)
	}
	return nil
}

// DisplayName returns the name, or the ID when no name is set
func (p *Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
