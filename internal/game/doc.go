// Package game implements the blackjack round engine.
//
// A Round deals a Dealer and one Hand per Participant, then walks every
// participant's hands in order through the turn state machine:
//
//	WAIT -> CURRENT -> BLACKJACK | SURRENDER | BUST | STAND | DOUBLE
//
// Moves are pulled one at a time from each seat's MoveSource, and every
// state change is pushed to a Renderer as an immutable State snapshot.
// When all hands are terminal the dealer reveals its hole card, plays the
// fixed hit-soft-17 policy and each hand is settled against the dealer.
//
// # Basic Usage
//
//	seats := []game.Seat{
//	    {ID: "u1", Name: "Alice", Source: aliceAgent},
//	    {ID: "u2", Name: "Bob", Source: bobAgent},
//	}
//	r := game.NewRound(id, "#tables", seats,
//	    game.WithShoe(deck.NewRandomShoe(rng)),
//	    game.WithRenderer(renderer),
//	    game.WithLogger(logger))
//	outcome, err := r.Run(ctx)
//
// # Deterministic Testing
//
// Inject a deck.ScriptedShoe to control every card, and a quartz mock clock
// to control the dealer's presentation delay:
//
//	shoe := deck.NewScriptedShoe(nil, deck.MustParseCards("8s 8d Ks 6h")...)
//	r := game.NewRound(id, ch, seats, game.WithShoe(shoe), game.WithClock(mockClock))
//
// # Errors
//
// Illegal moves wrap ErrIllegalMove and never leave the round: the hand
// stays CURRENT and the seat is asked again. A MoveSource returning an error
// that wraps ErrMoveTimeout abandons the round with ReasonInactivity. Any
// error wrapping ErrInvariant means the engine itself is broken and Run
// returns it.
package game
