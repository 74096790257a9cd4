package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is an ordered set of cards with its running total and turn status
type Hand struct {
	Cards  []deck.Card
	Sum    HandSum
	Status Status
}

// NewHand builds a hand from the given cards. A two-card 21 starts as
// StatusBlackjack, anything else as StatusWait.
func NewHand(cards ...deck.Card) *Hand {
	h := &Hand{
		Cards:  append([]deck.Card(nil), cards...),
		Sum:    SumOf(cards),
		Status: StatusWait,
	}
	if h.Blackjack() {
		h.Status = StatusBlackjack
	}
	return h
}

// DealHand draws two face-up cards for an initial deal
func DealHand(shoe deck.Shoe) *Hand {
	return NewHand(shoe.Draw(false), shoe.Draw(false))
}

// Hit draws one face-up card into the hand and returns it
func (h *Hand) Hit(shoe deck.Shoe) (deck.Card, error) {
	if h.Status.Terminal() {
		return deck.Card{}, invariant("hit on %s hand", h.Status)
	}
	card := shoe.Draw(false)
	h.add(card)
	return card, nil
}

// Add appends a specific card to the hand
func (h *Hand) Add(card deck.Card) error {
	if h.Status.Terminal() {
		return invariant("add %s to %s hand", card, h.Status)
	}
	h.add(card)
	return nil
}

func (h *Hand) add(card deck.Card) {
	h.Cards = append(h.Cards, card)
	h.Sum = h.Sum.Add(card)
}

// Total returns the current hand total
func (h *Hand) Total() int {
	return h.Sum.Total
}

// Bust reports a total over 21
func (h *Hand) Bust() bool {
	return h.Sum.Bust()
}

// Blackjack reports a natural: 21 with no more than two cards
func (h *Hand) Blackjack() bool {
	return h.Sum.Total == 21 && len(h.Cards) <= 2
}

// CanSplit reports whether the hand is exactly two cards of equal point
// value. A ten and a queen split; a ten and a nine do not.
func (h *Hand) CanSplit() bool {
	return splittable(h.Cards)
}

// CanDouble reports whether doubling is still allowed
func (h *Hand) CanDouble() bool {
	return twoCards(h.Cards)
}

// CanSurrender reports whether surrendering is still allowed
func (h *Hand) CanSurrender() bool {
	return twoCards(h.Cards)
}

// Move rules shared by Hand and HandView. Double and surrender are only
// allowed on the first two cards.
func splittable(cards []deck.Card) bool {
	return len(cards) == 2 && cards[0].Value() == cards[1].Value()
}

func twoCards(cards []deck.Card) bool {
	return len(cards) == 2
}

// Compare settles h against other. The higher total wins; equal totals tie
// unless both are 21, where a two-card natural beats a longer 21.
func (h *Hand) Compare(other *Hand) Result {
	a, b := h.Sum.Total, other.Sum.Total
	switch {
	case a > b:
		return Win
	case a < b:
		return Lose
	}
	if a == 21 {
		hn, on := h.Blackjack(), other.Blackjack()
		switch {
		case hn && !on:
			return Win
		case on && !hn:
			return Lose
		}
	}
	return Tie
}

// Split moves the second card into a new hand and recomputes both totals.
// Drawing the replacement cards is left to the caller.
func (h *Hand) Split() (*Hand, error) {
	if h.Status.Terminal() {
		return nil, invariant("split on %s hand", h.Status)
	}
	if len(h.Cards) != 2 {
		return nil, illegal(Split, "you can only split your first two cards")
	}
	if !h.CanSplit() {
		return nil, illegal(Split, "you can only split two cards of the same value")
	}

	moved := h.Cards[1]
	h.Cards = h.Cards[:1:1]
	h.Sum = SumOf(h.Cards)

	return &Hand{
		Cards:  []deck.Card{moved},
		Sum:    SumOf([]deck.Card{moved}),
		Status: StatusWait,
	}, nil
}

// String renders the cards and total, e.g. "A♠ 7♦ (soft 18)"
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ") + " (" + formatTotal(h.Sum) + ")"
}
