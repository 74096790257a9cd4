package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// FormatCards formats cards with colors. Face-down cards render as "??".
func FormatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "[]"
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		switch {
		case card.FaceDown:
			formatted = append(formatted, InfoStyle.Render(card.String()))
		case card.IsRed():
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}

	return "[" + strings.Join(formatted, " ") + "]"
}

// FormatHand renders cards, total and, once the hand is over, its status
// and result
func FormatHand(v game.HandView) string {
	var b strings.Builder
	b.WriteString(FormatCards(v.Cards))
	b.WriteString(" ")
	b.WriteString(v.Label())

	switch v.Status {
	case game.StatusBlackjack:
		b.WriteString(" " + SuccessStyle.Render("blackjack"))
	case game.StatusBust:
		b.WriteString(" " + ErrorStyle.Render("bust"))
	case game.StatusSurrender, game.StatusStand, game.StatusDouble:
		b.WriteString(" " + InfoStyle.Render(v.Status.String()))
	}

	if v.Result != nil {
		b.WriteString(" " + resultStyle(*v.Result).Render(v.Result.String()))
	}
	return b.String()
}

func resultStyle(r game.Result) lipgloss.Style {
	switch r {
	case game.Win:
		return SuccessStyle
	case game.Lose:
		return ErrorStyle
	default:
		return WarningStyle
	}
}

// HandLabel names a participant hand the way round messages do
func HandLabel(p game.ParticipantView, hand int) string {
	if len(p.Hands) > 1 {
		return fmt.Sprintf("%s (hand %d)", p.Name, hand+1)
	}
	return p.Name
}

// RenderTable renders the dealer and every participant hand, marking the
// hand whose turn it is
func RenderTable(state game.State) string {
	var b strings.Builder

	dealer := FormatCards(state.Dealer.Cards)
	if state.Dealer.Hidden {
		dealer += " " + state.Dealer.Label() + " showing"
	} else {
		dealer = FormatHand(state.Dealer.HandView)
	}
	b.WriteString(HeaderStyle.Render("Dealer"))
	b.WriteString(" " + dealer + "\n")

	for pi, p := range state.Participants {
		for hi, h := range p.Hands {
			marker := "  "
			if state.Active != nil && state.Active.Participant == pi && state.Active.Hand == hi {
				marker = ActionsStyle.Render("▶ ")
			}
			b.WriteString(marker)
			b.WriteString(PlayerInfoStyle.Render(HandLabel(p, hi)))
			b.WriteString(" " + FormatHand(h) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderState renders a snapshot followed by its status line
func RenderState(state game.State, message string) string {
	out := RenderTable(state)
	if message != "" {
		out += "\n" + HandInfoStyle.Render(message)
	}
	return out
}

// RenderMoves renders the legal moves with their shortcuts, e.g. "[h]it"
func RenderMoves(moves []game.Move) string {
	if len(moves) == 0 {
		return ErrorStyle.Render("[no moves available]")
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		name := m.String()
		short := m.Shortcut()
		if idx := strings.Index(name, short); idx >= 0 {
			parts[i] = name[:idx] + "[" + short + "]" + name[idx+len(short):]
		} else {
			parts[i] = "[" + short + "] " + name
		}
	}
	return ActionsStyle.Render("Moves: " + strings.Join(parts, " "))
}
