package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// Round runs one game of blackjack between a dealer and its participants.
// A Round is driven by a single goroutine calling Run; it is not safe to
// read State concurrently with Run. Renderers receive snapshots instead.
type Round struct {
	id      string
	channel string
	cfg     *roundConfig
	shoe    deck.Shoe
	logger  *log.Logger

	seats        []Seat
	dealer       *Dealer
	participants []*Participant

	started bool
	phase   Phase
	active  *Turn
	results map[*Hand]Result
	outcome *Outcome
}

// NewRound creates a round for the given seats. Seats play in order, each
// identity at most once.
func NewRound(id, channel string, seats []Seat, opts ...RoundOption) *Round {
	if len(seats) == 0 {
		panic("at least one seat required")
	}
	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if s.Source == nil {
			panic("seat " + s.ID + " has no move source")
		}
		if seen[s.ID] {
			panic("seat " + s.ID + " appears twice")
		}
		seen[s.ID] = true
	}

	cfg := defaultRoundConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Round{
		id:      id,
		channel: channel,
		cfg:     cfg,
		shoe:    cfg.resolveShoe(),
		logger:  cfg.logger.WithPrefix("round").With("round", id),
		seats:   append([]Seat(nil), seats...),
		phase:   PhaseDealing,
		results: make(map[*Hand]Result),
	}
}

// ID returns the round ID
func (r *Round) ID() string { return r.id }

// Channel returns the channel the round is played in
func (r *Round) Channel() string { return r.channel }

// Phase returns the current round phase
func (r *Round) Phase() Phase { return r.phase }

// Outcome returns the outcome once Run has returned, nil before
func (r *Round) Outcome() *Outcome { return r.outcome }

// Run plays the round to completion. It returns the outcome for finished
// and abandoned rounds alike; an error means the engine hit an invariant
// violation or a move source failed for a reason other than timeout.
func (r *Round) Run(ctx context.Context) (*Outcome, error) {
	if r.started {
		return nil, ErrRoundFinished
	}
	r.started = true
	start := r.cfg.clock.Now()

	r.deal()
	r.logger.Info("Round started",
		"channel", r.channel,
		"participants", len(r.participants),
		"upcard", r.dealer.Upcard())
	r.render("Cards are dealt")

	if r.dealer.Total() == 21 {
		return r.settleDealerNatural()
	}

	r.phase = PhasePlaying
	for pi, p := range r.participants {
		// p.Hands grows when a hand is split, so the bound is re-read
		for hi := 0; hi < len(p.Hands); hi++ {
			err := r.playHand(ctx, pi, hi)
			if errors.Is(err, ErrMoveTimeout) {
				return r.abandon(p), nil
			}
			if err != nil {
				r.phase = PhaseAbandoned
				return nil, err
			}
		}
	}
	r.active = nil

	if err := r.playDealer(ctx); err != nil {
		r.phase = PhaseAbandoned
		return nil, err
	}

	outcome, err := r.settle()
	if err != nil {
		return nil, err
	}
	r.logger.Info("Round finished",
		"dealer", r.dealer.Total(),
		"wins", outcome.Count(Win),
		"ties", outcome.Count(Tie),
		"losses", outcome.Count(Lose),
		"duration", r.cfg.clock.Since(start))
	return outcome, nil
}

func (r *Round) deal() {
	r.dealer = DealDealer(r.shoe)
	r.participants = make([]*Participant, len(r.seats))
	for i, s := range r.seats {
		r.participants[i] = NewParticipant(s.ID, s.Name, DealHand(r.shoe))
	}
}

func (r *Round) settleDealerNatural() (*Outcome, error) {
	if _, err := r.dealer.Reveal(); err != nil {
		return nil, err
	}
	r.dealer.Status = StatusBlackjack

	for _, p := range r.participants {
		initial := p.Hands[0]
		if initial.Total() == 21 {
			r.results[initial] = Tie
		} else {
			r.results[initial] = Lose
		}
	}

	r.phase = PhaseFinished
	r.outcome = r.buildOutcome(ReasonDealerNatural)
	r.logger.Info("Dealer natural", "hole", r.dealer.Cards[1], "ties", r.outcome.Count(Tie))
	r.render("Dealer has blackjack")
	return r.outcome, nil
}

func (r *Round) playHand(ctx context.Context, pi, hi int) error {
	p := r.participants[pi]
	hand := p.Hands[hi]
	if hand.Status.Terminal() {
		return nil
	}

	hand.Status = StatusCurrent
	r.active = &Turn{Participant: pi, Hand: hi}
	r.render(fmt.Sprintf("%s to act", r.handLabel(p, hi)))

	rejected := ""
	for {
		move, err := r.seats[pi].Source.RequestMove(ctx, r.moveRequest(pi, hi, rejected))
		if err != nil {
			if errors.Is(err, ErrMoveTimeout) {
				return err
			}
			return fmt.Errorf("request move for %s: %w", p.ID, err)
		}

		done, message, err := r.apply(p, hi, move)
		var moveErr *MoveError
		if errors.As(err, &moveErr) {
			rejected = moveErr.Reason
			r.logger.Debug("Rejected move", "participant", p.ID, "hand", hi, "move", move, "reason", rejected)
			r.render(fmt.Sprintf("%s: %s", p.DisplayName(), rejected))
			continue
		}
		if err != nil {
			return err
		}

		rejected = ""
		r.logger.Debug("Applied move", "participant", p.ID, "hand", hi, "move", move, "status", p.Hands[hi].Status)
		r.render(message)
		if done {
			return nil
		}
	}
}

// apply performs one move on the active hand and reports whether the
// hand's turn is over
func (r *Round) apply(p *Participant, hi int, move Move) (bool, string, error) {
	hand := p.Hands[hi]
	label := r.handLabel(p, hi)

	if hand.Total() == 21 && move != Stand {
		return false, "", illegal(move, "you have 21, you can only stand")
	}

	switch move {
	case Hit:
		card, err := hand.Hit(r.shoe)
		if err != nil {
			return false, "", err
		}
		if hand.Bust() {
			hand.Status = StatusBust
			return true, fmt.Sprintf("%s draws %s and busts with %d", label, card, hand.Total()), nil
		}
		return false, fmt.Sprintf("%s draws %s (%s)", label, card, formatTotal(hand.Sum)), nil

	case Stand:
		hand.Status = StatusStand
		return true, fmt.Sprintf("%s stands on %s", label, formatTotal(hand.Sum)), nil

	case Double:
		if !hand.CanDouble() {
			return false, "", illegal(move, "you can only double down on your first two cards")
		}
		card, err := hand.Hit(r.shoe)
		if err != nil {
			return false, "", err
		}
		if hand.Bust() {
			hand.Status = StatusBust
			return true, fmt.Sprintf("%s doubles down, draws %s and busts with %d", label, card, hand.Total()), nil
		}
		hand.Status = StatusDouble
		return true, fmt.Sprintf("%s doubles down and draws %s (%s)", label, card, formatTotal(hand.Sum)), nil

	case Split:
		if err := p.Split(hi, r.shoe); err != nil {
			return false, "", err
		}
		return false, fmt.Sprintf("%s splits: %s and %s", label, p.Hands[hi], p.Hands[hi+1]), nil

	case Surrender:
		if !hand.CanSurrender() {
			return false, "", illegal(move, "you can only surrender on your first two cards")
		}
		hand.Status = StatusSurrender
		return true, fmt.Sprintf("%s surrenders", label), nil
	}

	return false, "", invariant("unknown move %d", int(move))
}

func (r *Round) playDealer(ctx context.Context) error {
	r.phase = PhaseDealerTurn
	r.dealer.Status = StatusCurrent

	if err := r.pause(ctx); err != nil {
		return err
	}
	hole, err := r.dealer.Reveal()
	if err != nil {
		return err
	}
	r.render(fmt.Sprintf("Dealer reveals %s (%s)", hole, formatTotal(r.dealer.Sum)))

	for r.dealer.ShouldHit() {
		if err := r.pause(ctx); err != nil {
			return err
		}
		card, err := r.dealer.Hit(r.shoe)
		if err != nil {
			return err
		}
		r.render(fmt.Sprintf("Dealer draws %s (%s)", card, formatTotal(r.dealer.Sum)))
	}

	if r.dealer.Bust() {
		r.dealer.Status = StatusBust
	} else {
		r.dealer.Status = StatusStand
	}
	r.logger.Debug("Dealer done", "total", r.dealer.Total(), "status", r.dealer.Status, "cards", len(r.dealer.Cards))
	return nil
}

// pause waits out the dealer's presentation delay
func (r *Round) pause(ctx context.Context) error {
	if r.cfg.dealerDelay <= 0 {
		return nil
	}
	timer := r.cfg.clock.NewTimer(r.cfg.dealerDelay, "round", "dealer")
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Round) settle() (*Outcome, error) {
	dealerBust := r.dealer.Status == StatusBust

	for _, p := range r.participants {
		for hi, hand := range p.Hands {
			switch {
			case !hand.Status.Terminal():
				return nil, invariant("settling %s hand %d in status %s", p.ID, hi, hand.Status)
			case hand.Status == StatusBust, hand.Status == StatusSurrender:
				r.results[hand] = Lose
			case dealerBust:
				r.results[hand] = Win
			default:
				r.results[hand] = hand.Compare(&r.dealer.Hand)
			}
		}
	}

	r.phase = PhaseFinished
	r.outcome = r.buildOutcome(ReasonCompleted)
	r.render(r.summary())
	return r.outcome, nil
}

// abandon ends the round in place after a timeout. No results are computed
// and exactly one notification is rendered.
func (r *Round) abandon(p *Participant) *Outcome {
	r.phase = PhaseAbandoned
	r.active = nil
	r.outcome = r.buildOutcome(ReasonInactivity)
	r.outcome.Inactive = p.ID

	r.logger.Warn("Round abandoned due to inactivity", "participant", p.ID)
	r.render(fmt.Sprintf("Game ended due to inactivity from %s", p.DisplayName()))
	return r.outcome
}

func (r *Round) buildOutcome(reason Reason) *Outcome {
	o := &Outcome{
		RoundID: r.id,
		Channel: r.channel,
		Reason:  reason,
		Dealer:  dealerViewOf(r.dealer),
	}
	if reason == ReasonInactivity {
		return o
	}
	for _, p := range r.participants {
		for hi, hand := range p.Hands {
			result, ok := r.results[hand]
			if !ok {
				continue
			}
			o.Results = append(o.Results, HandResult{
				ParticipantID: p.ID,
				Name:          p.DisplayName(),
				HandIndex:     hi,
				Hand:          viewOf(hand),
				Result:        result,
			})
		}
	}
	return o
}

func (r *Round) summary() string {
	var parts []string
	for _, hr := range r.outcome.Results {
		label := hr.Name
		if r.handCount(hr.ParticipantID) > 1 {
			label = fmt.Sprintf("%s (hand %d)", hr.Name, hr.HandIndex+1)
		}
		parts = append(parts, fmt.Sprintf("%s %s", label, resultVerb(hr.Result)))
	}
	if r.dealer.Status == StatusBust {
		return "Dealer busts! " + strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Dealer stands on %d. %s", r.dealer.Total(), strings.Join(parts, ", "))
}

func resultVerb(result Result) string {
	switch result {
	case Win:
		return "wins"
	case Tie:
		return "ties"
	default:
		return "loses"
	}
}

func (r *Round) handCount(participantID string) int {
	for _, p := range r.participants {
		if p.ID == participantID {
			return len(p.Hands)
		}
	}
	return 0
}

func (r *Round) handLabel(p *Participant, hi int) string {
	if len(p.Hands) == 1 {
		return p.DisplayName()
	}
	return fmt.Sprintf("%s (hand %d)", p.DisplayName(), hi+1)
}

func (r *Round) moveRequest(pi, hi int, rejected string) MoveRequest {
	p := r.participants[pi]
	return MoveRequest{
		RoundID:      r.id,
		Channel:      r.channel,
		Participant:  p.ID,
		Name:         p.DisplayName(),
		HandIndex:    hi,
		HandCount:    len(p.Hands),
		Hand:         viewOf(p.Hands[hi]),
		DealerUpcard: r.dealer.Upcard(),
		Timeout:      r.cfg.moveTimeout,
		Rejected:     rejected,
	}
}

// State returns a snapshot of the round
func (r *Round) State() State {
	s := State{
		RoundID: r.id,
		Channel: r.channel,
		Phase:   r.phase,
	}
	if r.dealer != nil {
		s.Dealer = dealerViewOf(r.dealer)
	}
	for _, p := range r.participants {
		pv := ParticipantView{ID: p.ID, Name: p.DisplayName()}
		for _, h := range p.Hands {
			hv := viewOf(h)
			if result, ok := r.results[h]; ok {
				hv.Result = &result
			}
			pv.Hands = append(pv.Hands, hv)
		}
		s.Participants = append(s.Participants, pv)
	}
	if r.active != nil {
		turn := *r.active
		s.Active = &turn
	}
	return s
}

func (r *Round) render(message string) {
	r.cfg.renderer.Render(r.State(), message)
}
