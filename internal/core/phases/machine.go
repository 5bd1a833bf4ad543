package phases

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/riordanpawley/spinquiz/internal/core/spin"
	"github.com/riordanpawley/spinquiz/internal/domain"
)

// Scheduler is the scheduling state the machine reads and mutates
type Scheduler interface {
	spin.SchedulerView
	RecordRating(key domain.TaskKey, rating domain.Rating) int
	AdvanceFocus() (string, bool)
}

// Catalogue supplies the current task catalogue
type Catalogue interface {
	Categories() []domain.Category
}

// Turn is the state of the turn in flight
type Turn struct {
	ID      uint64
	Outcome spin.Outcome
	// Index of the player taking the turn
	Player int
	// Index of the chosen partner, -1 when none
	Partner int
	// Players that may be nominated as partner
	Eligible []int
	// Jackpot points credited at resolve time
	JackpotPoints int
	BonusPending  bool
	BonusPassed   bool
	Rated         bool
	Rating        domain.Rating
	NewBox        int
	// Points earned by the main task rating
	Earned     int
	DoubleUsed bool
	CoinWon    bool
	TimeUp     bool
	// Spin paid for with an extra spin
	ExtraSpin bool
}

// Machine drives the turn life cycle. It is not safe for concurrent use;
// the host serializes all calls.
type Machine struct {
	phase     Phase
	turn      Turn
	nextTurn  uint64
	players   []domain.Player
	resolver  *spin.Resolver
	scheduler Scheduler
	catalogue Catalogue
	rng       *rand.Rand
	logger    *slog.Logger
	intents   []Intent

	doubleOrNothing bool
}

// Option configures a Machine
type Option func(*Machine)

// WithDoubleOrNothing enables or disables the post-rating risk round
func WithDoubleOrNothing(enabled bool) Option {
	return func(m *Machine) {
		m.doubleOrNothing = enabled
	}
}

// WithPlayers seeds the roster
func WithPlayers(names ...string) Option {
	return func(m *Machine) {
		for _, n := range names {
			m.players = append(m.players, domain.Player{Name: n})
		}
	}
}

// NewMachine creates a machine in the idle phase
func NewMachine(resolver *spin.Resolver, scheduler Scheduler, catalogue Catalogue, rng *rand.Rand, logger *slog.Logger, opts ...Option) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Machine{
		phase:           Idle,
		turn:            Turn{Partner: -1},
		resolver:        resolver,
		scheduler:       scheduler,
		catalogue:       catalogue,
		rng:             rng,
		logger:          logger,
		doubleOrNothing: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Phase returns the current phase
func (m *Machine) Phase() Phase {
	return m.phase
}

// Turn returns a copy of the turn in flight
func (m *Machine) Turn() Turn {
	t := m.turn
	t.Eligible = slices.Clone(m.turn.Eligible)
	return t
}

// Players returns a copy of the roster
func (m *Machine) Players() []domain.Player {
	return slices.Clone(m.players)
}

// AddPlayer appends a player to the roster. Indices of existing players
// are stable, so this is allowed in any phase.
func (m *Machine) AddPlayer(name string) bool {
	if name == "" {
		return false
	}
	for _, p := range m.players {
		if p.Name == name {
			return false
		}
	}
	m.players = append(m.players, domain.Player{Name: name})
	return true
}

// RemovePlayer drops a player between turns
func (m *Machine) RemovePlayer(index int) error {
	if m.phase != Idle && m.phase != Ended {
		return m.reject("remove_player", "turn in progress")
	}
	if index < 0 || index >= len(m.players) {
		return fmt.Errorf("player %d: %w", index, domain.ErrNotFound)
	}
	m.players = slices.Delete(m.players, index, index+1)
	m.phase = Idle
	m.turn = Turn{Partner: -1}
	return nil
}

// DrainIntents returns and clears the queued intents
func (m *Machine) DrainIntents() []Intent {
	out := m.intents
	m.intents = nil
	return out
}

// Spin starts a new turn. Allowed from idle and ended; from ended the
// previous turn is closed first.
func (m *Machine) Spin() (uint64, error) {
	if err := m.guard(ActionSpin); err != nil {
		return 0, err
	}
	return m.spin(-1, false)
}

// UseExtraSpin spends one extra spin of the current player and spins again
// for the same player with the jackpot reel held.
func (m *Machine) UseExtraSpin() (uint64, error) {
	if err := m.guard(ActionExtraSpin); err != nil {
		return 0, err
	}
	p := m.turn.Player
	if p < 0 || p >= len(m.players) || m.players[p].ExtraSpins == 0 {
		return 0, m.reject(ActionExtraSpin, "no extra spins left")
	}

	id, err := m.spin(p, true)
	if err != nil {
		return 0, err
	}
	m.players[p].ExtraSpins--
	m.turn.ExtraSpin = true
	return id, nil
}

func (m *Machine) spin(player int, joker bool) (uint64, error) {
	outcome, err := m.resolver.Resolve(spin.Request{
		Categories: m.catalogue.Categories(),
		Players:    m.players,
		Player:     player,
		Joker:      joker,
	}, m.scheduler)
	if err != nil {
		m.logger.Debug("spin failed", "error", err)
		return 0, err
	}

	m.nextTurn++
	m.turn = Turn{
		ID:      m.nextTurn,
		Outcome: outcome,
		Player:  outcome.PlayerIndex,
		Partner: -1,
	}
	m.phase = Spinning
	m.emit(Intent{Kind: IntentSpun, Key: outcome.Key})
	return m.turn.ID, nil
}

// Resolve ends the spinning phase of the given turn and routes to the
// first pending sub-phase. A resolve for another turn is rejected.
func (m *Machine) Resolve(turn uint64) error {
	if err := m.guard(ActionResolve); err != nil {
		return err
	}
	if turn != m.turn.ID {
		return m.reject(ActionResolve, "stale turn")
	}

	bonus := m.turn.Outcome.Bonus
	player := &m.players[m.turn.Player]
	if bonus.ExtraSpins > 0 {
		player.ExtraSpins += bonus.ExtraSpins
	}
	if bonus.Points > 0 && !bonus.BonusRound {
		player.Score += bonus.Points
		m.turn.JackpotPoints = bonus.Points
	}
	m.turn.BonusPending = bonus.BonusRound && m.turn.Outcome.BonusTask != nil

	if m.turn.Outcome.Task.Partner {
		for i := range m.players {
			if i != m.turn.Player {
				m.turn.Eligible = append(m.turn.Eligible, i)
			}
		}
	}

	switch {
	case len(m.turn.Eligible) > 0:
		m.phase = PartnerChoice
	case m.turn.BonusPending:
		m.phase = BonusRound
	default:
		m.phase = Assessment
	}

	m.emit(Intent{Kind: IntentResolved, Key: m.turn.Outcome.Key, Points: m.turn.JackpotPoints, Message: bonus.Description})
	return nil
}

// ChoosePartner nominates the partner for a two-player task
func (m *Machine) ChoosePartner(player int) error {
	if err := m.guard(ActionChoosePartner); err != nil {
		return err
	}
	if !slices.Contains(m.turn.Eligible, player) {
		return m.reject(ActionChoosePartner, fmt.Sprintf("player %d is not eligible", player))
	}

	m.turn.Partner = player
	if m.turn.BonusPending {
		m.phase = BonusRound
	} else {
		m.phase = Assessment
	}
	m.emit(Intent{Kind: IntentPartnerChosen, Message: m.players[player].Name})
	return nil
}

// ResolveBonus settles the bonus round. Passing credits the bonus points;
// the main task is assessed next either way.
func (m *Machine) ResolveBonus(passed bool) error {
	if err := m.guard(ActionResolveBonus); err != nil {
		return err
	}

	m.turn.BonusPending = false
	m.turn.BonusPassed = passed
	points := 0
	if passed {
		points = m.turn.Outcome.Bonus.Points
		m.players[m.turn.Player].Score += points
	}
	m.phase = Assessment
	m.emit(Intent{Kind: IntentBonusResolved, Points: points, Won: passed})
	return nil
}

// Rate records the assessment of the main task. The scheduler update and
// the focus advance happen together here and nowhere else.
func (m *Machine) Rate(rating domain.Rating) error {
	if err := m.guard(ActionRate); err != nil {
		return err
	}

	out := m.turn.Outcome
	box := m.scheduler.RecordRating(out.Key, rating)

	advanced, didAdvance := m.advanceFocus(out)

	earned := rating.Award(out.Task)
	m.players[m.turn.Player].Score += earned
	if m.turn.Partner >= 0 {
		m.players[m.turn.Partner].Score += earned
	}

	m.turn.Rated = true
	m.turn.Rating = rating
	m.turn.NewBox = box
	m.turn.Earned = earned
	m.phase = Ended

	m.emit(Intent{Kind: IntentRated, Key: out.Key, Rating: rating, Box: box, Points: earned})
	if didAdvance {
		m.emit(Intent{Kind: IntentFocusAdvanced, Message: advanced})
	}
	return nil
}

// advanceFocus drops the focus entries the spin skipped, then the served
// one. The queue is checked first since focus may have been stopped or
// restarted while the turn was in flight.
func (m *Machine) advanceFocus(out spin.Outcome) (string, bool) {
	served := out.Key.String()
	for i := 0; i < out.FocusSkipped; i++ {
		queue := m.scheduler.FocusQueue()
		if len(queue) == 0 || queue[0] == served {
			break
		}
		m.scheduler.AdvanceFocus()
	}
	if !out.FromFocus {
		return "", false
	}
	queue := m.scheduler.FocusQueue()
	if len(queue) == 0 || queue[0] != served {
		return "", false
	}
	return m.scheduler.AdvanceFocus()
}

// CanDoubleOrNothing reports whether the risk round is still on offer
func (m *Machine) CanDoubleOrNothing() bool {
	return m.doubleOrNothing && m.phase == Ended && m.turn.Rated && !m.turn.DoubleUsed && m.turn.Earned > 0
}

// DoubleOrNothing enters the risk round. It can be taken once per turn.
func (m *Machine) DoubleOrNothing() error {
	if err := m.guard(ActionDoubleOrNothing); err != nil {
		return err
	}
	if !m.CanDoubleOrNothing() {
		return m.reject(ActionDoubleOrNothing, "not available this turn")
	}
	m.turn.DoubleUsed = true
	m.phase = DoubleOrNothing
	return nil
}

// FlipCoin settles double or nothing: heads doubles the earned points,
// tails takes them back. The schedule is not touched.
func (m *Machine) FlipCoin() (bool, error) {
	if err := m.guard(ActionFlipCoin); err != nil {
		return false, err
	}

	won := m.rng.Intn(2) == 0
	delta := m.turn.Earned
	if !won {
		delta = -delta
	}
	m.players[m.turn.Player].Score += delta
	if m.turn.Partner >= 0 {
		m.players[m.turn.Partner].Score += delta
	}
	m.turn.Earned += delta
	m.turn.CoinWon = won
	m.phase = Ended

	m.emit(Intent{Kind: IntentCoinFlipped, Won: won, Points: m.turn.Earned})
	return won, nil
}

// TimerExpired marks the task time as used up. It only applies to the
// given turn while it is being assessed; anything else is a stale timer.
func (m *Machine) TimerExpired(turn uint64) bool {
	if m.phase != Assessment || turn != m.turn.ID || m.turn.TimeUp {
		return false
	}
	m.turn.TimeUp = true
	m.emit(Intent{Kind: IntentTimeUp})
	return true
}

// Reset returns to idle from any phase. A turn that was not rated leaves
// no trace in the schedule.
func (m *Machine) Reset() {
	m.phase = Idle
	m.turn = Turn{Partner: -1}
	m.emit(Intent{Kind: IntentReset})
}

func (m *Machine) guard(action Action) error {
	if Allowed(m.phase, action) {
		return nil
	}
	return m.reject(action, "")
}

func (m *Machine) reject(action Action, reason string) error {
	m.logger.Debug("rejected phase transition",
		"action", string(action),
		"phase", m.phase.String(),
		"reason", reason,
	)
	return &domain.TransitionError{Action: string(action), Phase: m.phase.String(), Reason: reason}
}

func (m *Machine) emit(i Intent) {
	i.Turn = m.turn.ID
	i.Phase = m.phase
	m.intents = append(m.intents, i)
}
