package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// ConsoleAgent is a game.MoveSource for a person at a plain terminal.
// Lines are read from the input as they are typed, so a line typed ahead
// of a request answers it.
type ConsoleAgent struct {
	lines <-chan string
	out   io.Writer
	clock quartz.Clock
	mu    sync.Mutex // serialises prompts
}

// NewConsoleAgent reads moves from in and writes prompts to out
func NewConsoleAgent(in io.Reader, out io.Writer, clock quartz.Clock) *ConsoleAgent {
	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return &ConsoleAgent{lines: lines, out: out, clock: clock}
}

// RequestMove implements game.MoveSource
func (a *ConsoleAgent) RequestMove(ctx context.Context, req game.MoveRequest) (game.Move, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	label := req.Name
	if req.HandCount > 1 {
		label = fmt.Sprintf("%s (hand %d)", req.Name, req.HandIndex+1)
	}
	if req.Rejected != "" {
		fmt.Fprintln(a.out, ErrorStyle.Render(req.Rejected))
	}
	fmt.Fprintf(a.out, "%s: %s against %s\n", label, FormatHand(req.Hand), FormatCards([]deck.Card{req.DealerUpcard}))
	fmt.Fprintln(a.out, RenderMoves(req.Hand.LegalMoves()))
	fmt.Fprint(a.out, "> ")

	timer := a.clock.NewTimer(req.Timeout, "console", "move")
	defer timer.Stop()

	for {
		select {
		case line, ok := <-a.lines:
			if !ok {
				return 0, fmt.Errorf("console closed: %w", io.EOF)
			}
			move, ok := game.ParseMove(line)
			if !ok {
				fmt.Fprintf(a.out, "%q is not a move\n> ", line)
				continue
			}
			return move, nil

		case <-timer.C:
			fmt.Fprintln(a.out)
			return 0, fmt.Errorf("%s did not answer within %s: %w", label, req.Timeout, game.ErrMoveTimeout)

		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// NewConsoleRenderer prints every snapshot with its status line
func NewConsoleRenderer(out io.Writer) game.Renderer {
	return game.RendererFunc(func(state game.State, message string) {
		fmt.Fprintln(out, RenderState(state, message))
		fmt.Fprintln(out)
	})
}
