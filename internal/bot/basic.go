package bot

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// BasicStrategyBot plays the standard chart for a dealer that hits soft 17
type BasicStrategyBot struct{}

// Choose implements Strategy
func (BasicStrategyBot) Choose(hand game.HandView, upcard deck.Card) game.Move {
	legal := hand.LegalMoves()
	can := func(m game.Move) bool { return slices.Contains(legal, m) }

	if !can(game.Hit) {
		return game.Stand
	}

	up := upcardValue(upcard)
	if can(game.Split) && splitPair(hand.Cards[0].Value(), up) {
		return game.Split
	}
	if can(game.Surrender) && !hand.Soft && surrenderHard(hand.Total, up) {
		return game.Surrender
	}

	var move game.Move
	if hand.Soft {
		move = softTotal(hand.Total, up)
	} else {
		move = hardTotal(hand.Total, up)
	}

	if move == game.Double && !can(game.Double) {
		// soft 18 and up stands when it cannot double
		if hand.Soft && hand.Total >= 18 {
			return game.Stand
		}
		return game.Hit
	}
	return move
}

// upcardValue counts an ace as 11
func upcardValue(c deck.Card) int {
	if c.IsAce() {
		return 11
	}
	return c.Value()
}

func between(v, lo, hi int) bool { return v >= lo && v <= hi }

// splitPair takes the value of one card of the pair, aces as 1
func splitPair(v, up int) bool {
	switch v {
	case 1, 8:
		return true
	case 9:
		return between(up, 2, 9) && up != 7
	case 7, 3, 2:
		return between(up, 2, 7)
	case 6:
		return between(up, 2, 6)
	case 4:
		return between(up, 5, 6)
	}
	return false
}

func surrenderHard(total, up int) bool {
	switch total {
	case 15:
		return up == 10 || up == 11
	case 16:
		return up >= 9
	case 17:
		return up == 11
	}
	return false
}

func softTotal(total, up int) game.Move {
	switch {
	case total >= 20:
		return game.Stand
	case total == 19:
		if up == 6 {
			return game.Double
		}
		return game.Stand
	case total == 18:
		switch {
		case between(up, 2, 6):
			return game.Double
		case between(up, 7, 8):
			return game.Stand
		}
		return game.Hit
	case total == 17:
		if between(up, 3, 6) {
			return game.Double
		}
	case total >= 15:
		if between(up, 4, 6) {
			return game.Double
		}
	default:
		if between(up, 5, 6) {
			return game.Double
		}
	}
	return game.Hit
}

func hardTotal(total, up int) game.Move {
	switch {
	case total >= 17:
		return game.Stand
	case total >= 13:
		if up <= 6 {
			return game.Stand
		}
	case total == 12:
		if between(up, 4, 6) {
			return game.Stand
		}
	case total == 11:
		return game.Double
	case total == 10:
		if up <= 9 {
			return game.Double
		}
	case total == 9:
		if between(up, 3, 6) {
			return game.Double
		}
	}
	return game.Hit
}
