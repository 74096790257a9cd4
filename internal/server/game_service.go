package server

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/protocol"
	"github.com/lox/blackjack/internal/randutil"
)

// ErrTooManyPlayers is returned when a round is requested for more seats
// than the table allows
var ErrTooManyPlayers = errors.New("too many players")

// GameService starts rounds on channels and routes chat input to the
// agents playing them
type GameService struct {
	sender   Sender
	registry *Registry
	logger   *log.Logger
	clock    quartz.Clock
	ids      *gameid.Generator

	moveTimeout time.Duration
	dealerDelay time.Duration
	maxPlayers  int
	newShoe     func() deck.Shoe

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	rng    *rand.Rand
	rounds map[string]*activeRound // round ID -> round
}

type activeRound struct {
	round   *game.Round
	channel string
	players []string
	agents  []*NetworkAgent
}

// GameServiceOption configures a GameService
type GameServiceOption func(*GameService)

// WithServiceClock sets the clock used for move timeouts and dealer pacing
func WithServiceClock(clock quartz.Clock) GameServiceOption {
	return func(gs *GameService) { gs.clock = clock }
}

// WithGameSettings applies the game block of the server config
func WithGameSettings(settings *GameSettings) GameServiceOption {
	return func(gs *GameService) {
		gs.moveTimeout = settings.MoveTimeoutDuration()
		gs.dealerDelay = settings.DealerDelayDuration()
		gs.maxPlayers = settings.MaxPlayers
		if settings.Seed != 0 {
			gs.rng = randutil.New(settings.Seed)
		}
	}
}

// WithShoeFactory overrides how each round's shoe is created
func WithShoeFactory(f func() deck.Shoe) GameServiceOption {
	return func(gs *GameService) { gs.newShoe = f }
}

// NewGameService creates a game service that talks to players through sender
func NewGameService(sender Sender, logger *log.Logger, opts ...GameServiceOption) *GameService {
	ctx, cancel := context.WithCancel(context.Background())

	gs := &GameService{
		sender:      sender,
		registry:    NewRegistry(),
		logger:      logger.WithPrefix("game"),
		clock:       quartz.NewReal(),
		ids:         gameid.NewGenerator(nil),
		moveTimeout: game.DefaultMoveTimeout,
		dealerDelay: game.DefaultDealerDelay,
		maxPlayers:  defaultMaxPlayers,
		ctx:         ctx,
		cancel:      cancel,
		rounds:      make(map[string]*activeRound),
	}
	for _, opt := range opts {
		opt(gs)
	}
	if gs.rng == nil {
		var seed int64
		gs.rng, seed = randutil.Seeded(nil)
		gs.logger.Debug("Seeded shoes", "seed", seed)
	}
	return gs
}

// StartRound seats players in a new round on channel and plays it in the
// background. The first player is the one who asked for the round.
func (gs *GameService) StartRound(channel string, players []string) (string, error) {
	players = dedupe(players)
	if len(players) == 0 {
		return "", fmt.Errorf("no players")
	}
	if len(players) > gs.maxPlayers {
		return "", fmt.Errorf("%w: %d seats, table allows %d", ErrTooManyPlayers, len(players), gs.maxPlayers)
	}

	roundID := gs.ids.Generate()
	if err := gs.registry.Acquire(channel, roundID, players); err != nil {
		return "", err
	}

	ar := &activeRound{channel: channel, players: players}
	seats := make([]game.Seat, len(players))
	for i, id := range players {
		agent := NewNetworkAgent(id, channel, gs.sender, gs.logger, gs.clock)
		ar.agents = append(ar.agents, agent)
		seats[i] = game.Seat{ID: id, Name: id, Source: agent}
	}

	ar.round = game.NewRound(roundID, channel, seats,
		game.WithShoe(gs.shoe()),
		game.WithClock(gs.clock),
		game.WithLogger(gs.logger),
		game.WithRenderer(NewChannelRenderer(channel, gs.sender, gs.logger)),
		game.WithMoveTimeout(gs.moveTimeout),
		game.WithDealerDelay(gs.dealerDelay),
	)

	gs.mu.Lock()
	gs.rounds[roundID] = ar
	gs.mu.Unlock()

	gs.broadcast(channel, protocol.TypeRoundStarted, protocol.RoundStartedData{
		RoundID: roundID,
		Channel: channel,
		Players: players,
	})

	gs.wg.Add(1)
	go gs.play(roundID, ar)

	gs.logger.Info("Started round", "round", roundID, "channel", channel, "players", players)
	return roundID, nil
}

func (gs *GameService) play(roundID string, ar *activeRound) {
	defer gs.wg.Done()
	defer func() {
		gs.mu.Lock()
		delete(gs.rounds, roundID)
		gs.mu.Unlock()
		gs.registry.Release(ar.channel, roundID, ar.players)
	}()

	outcome, err := ar.round.Run(gs.ctx)
	if err != nil {
		gs.logger.Error("Round failed", "round", roundID, "error", err)
		gs.broadcast(ar.channel, protocol.TypeRoundEnded, protocol.RoundEndedData{
			RoundID: roundID,
			Channel: ar.channel,
			Reason:  game.ReasonAborted,
			Message: "Round aborted",
		})
		return
	}

	ended := protocol.RoundEndedData{
		RoundID:  roundID,
		Channel:  ar.channel,
		Reason:   outcome.Reason,
		Inactive: outcome.Inactive,
	}
	// the round already announced the inactivity in its final snapshot
	if outcome.Reason != game.ReasonInactivity {
		ended.Message = "Round over"
		gs.broadcast(ar.channel, protocol.TypeRoundResult, protocol.RoundResultData{Outcome: *outcome})
	}
	gs.broadcast(ar.channel, protocol.TypeRoundEnded, ended)
}

// HandleInput routes chat text from identity on channel to the agents of
// rounds playing there. It reports whether any agent took it as a move.
func (gs *GameService) HandleInput(channel, identity, text string) bool {
	gs.mu.Lock()
	var agents []*NetworkAgent
	for _, ar := range gs.rounds {
		if ar.channel == channel {
			agents = append(agents, ar.agents...)
		}
	}
	gs.mu.Unlock()

	for _, agent := range agents {
		if agent.HandleInput(identity, text) {
			return true
		}
	}
	return false
}

// Playing reports the round identity is playing on channel, if any
func (gs *GameService) Playing(channel, identity string) (string, bool) {
	return gs.registry.Playing(channel, identity)
}

// ActiveRounds returns the number of rounds in progress
func (gs *GameService) ActiveRounds() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.rounds)
}

// Shutdown cancels running rounds and waits for them to return
func (gs *GameService) Shutdown(ctx context.Context) error {
	gs.cancel()

	done := make(chan struct{})
	go func() {
		gs.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (gs *GameService) shoe() deck.Shoe {
	if gs.newShoe != nil {
		return gs.newShoe()
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return deck.NewRandomShoe(randutil.Split(gs.rng))
}

func (gs *GameService) broadcast(channel string, msgType protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(msgType, data)
	if err != nil {
		gs.logger.Error("Failed to create message", "type", msgType, "error", err)
		return
	}
	gs.sender.BroadcastToChannel(channel, msg)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
