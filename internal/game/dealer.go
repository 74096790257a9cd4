package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// DealerStandsOn is the total the dealer stops drawing at. A soft total of
// exactly this value still draws.
const DealerStandsOn = 17

// Dealer is a Hand plus a hole card that stays face down until Reveal.
// All Hand operations apply to the embedded hand.
type Dealer struct {
	Hand
	Hidden bool
}

// DealDealer draws one face-up card and one face-down card
func DealDealer(shoe deck.Shoe) *Dealer {
	cards := []deck.Card{shoe.Draw(false), shoe.Draw(true)}
	return &Dealer{
		Hand: Hand{
			Cards:  cards,
			Sum:    SumOf(cards),
			Status: StatusWait,
		},
		Hidden: true,
	}
}

// Upcard returns the dealer's visible first card
func (d *Dealer) Upcard() deck.Card {
	return d.Cards[0]
}

// Reveal turns the hole card face up. It may only happen once.
func (d *Dealer) Reveal() (deck.Card, error) {
	if !d.Hidden {
		return deck.Card{}, invariant("dealer hole card already revealed")
	}
	d.Hidden = false
	d.Cards[1] = d.Cards[1].Revealed()
	return d.Cards[1], nil
}

// ShouldHit applies the fixed dealer policy: draw below 17 and on soft 17
func (d *Dealer) ShouldHit() bool {
	if d.Sum.Total < DealerStandsOn {
		return true
	}
	return d.Sum.Total == DealerStandsOn && d.Sum.Soft
}

// String renders the dealer's hand, hiding the hole card and total while
// the hole card is down
func (d *Dealer) String() string {
	if !d.Hidden {
		return d.Hand.String()
	}
	parts := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
