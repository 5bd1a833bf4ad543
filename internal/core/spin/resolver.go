// Package spin resolves a spin of the reels: which task, which player, and
// what the jackpot reel is worth.
//
// Task selection works on a pool built before any random draw. Paused tasks
// never enter the pool, so their probability mass is spread over the rest.
// Within the pool, tasks due for review weigh more than fresh tasks, which
// weigh more than tasks scheduled for later.
package spin

import (
	"math/rand"

	"github.com/riordanpawley/spinquiz/internal/domain"
)

// SchedulerView is the read-only scheduling state the resolver consults
type SchedulerView interface {
	IsPaused(key domain.TaskKey) bool
	Box(key domain.TaskKey) (int, bool)
	IsDue(key domain.TaskKey) bool
	// FocusQueue returns the pending focus keys, nil when no session runs
	FocusQueue() []string
}

// Class is the scheduling class of a candidate task
type Class int

const (
	ClassFresh Class = iota
	ClassDue
	ClassScheduled
)

func (c Class) String() string {
	return [...]string{"fresh", "due", "scheduled"}[c]
}

// Weights sets the relative selection weight per class
type Weights struct {
	Due       int
	Fresh     int
	Scheduled int
}

// DefaultWeights favours due tasks, then unseen ones
var DefaultWeights = Weights{Due: 3, Fresh: 2, Scheduled: 1}

func (w Weights) of(c Class) int {
	switch c {
	case ClassDue:
		return w.Due
	case ClassFresh:
		return w.Fresh
	default:
		return w.Scheduled
	}
}

// Candidate is a selectable task
type Candidate struct {
	CategoryIndex int
	TaskIndex     int
	Task          domain.Task
	Key           domain.TaskKey
	Class         Class
	Weight        int
}

// Request is the input for one spin
type Request struct {
	Categories []domain.Category
	Players    []domain.Player
	// Player keeps the player reel on this index; -1 spins it
	Player int
	// Joker holds the jackpot reel, used for extra spins
	Joker bool
}

// Outcome is the result of one spin
type Outcome struct {
	Symbols       [3]Symbol
	CategoryIndex int
	TaskIndex     int
	PlayerIndex   int
	Task          domain.Task
	Key           domain.TaskKey
	Class         Class
	// The task was served from the focus session queue
	FromFocus bool
	// Focus entries ahead of the served one that could not be served.
	// They leave the queue when the turn is rated.
	FocusSkipped int
	Bonus     BonusAnalysis
	// Task played in the bonus round, set when Bonus.BonusRound is true
	BonusTask *domain.Task
}

// Resolver draws spin outcomes
type Resolver struct {
	rng      *rand.Rand
	weights  Weights
	paytable Paytable
}

// Option configures a Resolver
type Option func(*Resolver)

// WithWeights overrides the selection weights
func WithWeights(w Weights) Option {
	return func(r *Resolver) {
		if w.Due > 0 || w.Fresh > 0 || w.Scheduled > 0 {
			r.weights = w
		}
	}
}

// WithPaytable overrides the jackpot paytable
func WithPaytable(p Paytable) Option {
	return func(r *Resolver) {
		if len(p.Triple) > 0 {
			r.paytable = p
		}
	}
}

// New creates a resolver drawing from rng
func New(rng *rand.Rand, opts ...Option) *Resolver {
	r := &Resolver{
		rng:      rng,
		weights:  DefaultWeights,
		paytable: DefaultPaytable(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Paytable returns the active paytable
func (r *Resolver) Paytable() Paytable {
	return r.paytable
}

// Pool returns every selectable task with its weight. Paused tasks and
// tasks whose class has zero weight are left out.
func (r *Resolver) Pool(categories []domain.Category, view SchedulerView) []Candidate {
	var pool []Candidate
	for ci, cat := range categories {
		for ti, task := range cat.Tasks {
			key := task.Key()
			if view.IsPaused(key) {
				continue
			}
			class := classify(key, view)
			weight := r.weights.of(class)
			if weight <= 0 {
				continue
			}
			pool = append(pool, Candidate{
				CategoryIndex: ci,
				TaskIndex:     ti,
				Task:          task,
				Key:           key,
				Class:         class,
				Weight:        weight,
			})
		}
	}
	return pool
}

func classify(key domain.TaskKey, view SchedulerView) Class {
	if _, ok := view.Box(key); !ok {
		return ClassFresh
	}
	if view.IsDue(key) {
		return ClassDue
	}
	return ClassScheduled
}

// Resolve spins all reels
func (r *Resolver) Resolve(req Request, view SchedulerView) (Outcome, error) {
	if len(req.Players) == 0 {
		return Outcome{}, domain.ErrNoPlayers
	}

	pool := r.Pool(req.Categories, view)
	if len(pool) == 0 {
		return Outcome{}, domain.ErrEmptyPool
	}

	picked, skipped, fromFocus := r.focusCandidate(req.Categories, view)
	if !fromFocus {
		picked = r.pickWeighted(pool)
	}

	out := Outcome{
		CategoryIndex: picked.CategoryIndex,
		TaskIndex:     picked.TaskIndex,
		PlayerIndex:   req.Player,
		Task:          picked.Task,
		Key:           picked.Key,
		Class:         picked.Class,
		FromFocus:     fromFocus,
		FocusSkipped:  skipped,
	}

	if req.Player < 0 || req.Player >= len(req.Players) {
		out.PlayerIndex = r.rng.Intn(len(req.Players))
	}

	if !req.Joker {
		for i := range out.Symbols {
			out.Symbols[i] = Symbols[r.rng.Intn(len(Symbols))]
		}
	}
	out.Bonus = r.paytable.Analyze(out.Symbols)

	if out.Bonus.BonusRound {
		bonus := r.pickBonusTask(pool, picked)
		out.BonusTask = &bonus.Task
	}

	return out, nil
}

// focusCandidate serves the first focus entry that is in the catalogue
// and not paused. The count of entries ahead of it is returned as skipped.
// When nothing is servable, leading entries that left the catalogue are
// reported as skipped so they cannot hold the session forever; paused
// entries wait until they are resumed.
func (r *Resolver) focusCandidate(categories []domain.Category, view SchedulerView) (Candidate, int, bool) {
	queue := view.FocusQueue()
	if len(queue) == 0 {
		return Candidate{}, 0, false
	}

	known := make(map[string]Candidate)
	for ci, cat := range categories {
		for ti, task := range cat.Tasks {
			key := task.Key()
			class := classify(key, view)
			known[key.String()] = Candidate{
				CategoryIndex: ci,
				TaskIndex:     ti,
				Task:          task,
				Key:           key,
				Class:         class,
				Weight:        r.weights.of(class),
			}
		}
	}

	for i, k := range queue {
		if c, ok := known[k]; ok && !view.IsPaused(c.Key) {
			return c, i, true
		}
	}

	gone := 0
	for _, k := range queue {
		if _, ok := known[k]; ok {
			break
		}
		gone++
	}
	return Candidate{}, gone, false
}

func (r *Resolver) pickWeighted(pool []Candidate) Candidate {
	total := 0
	for _, c := range pool {
		total += c.Weight
	}

	pick := r.rng.Intn(total)
	running := 0
	for _, c := range pool {
		running += c.Weight
		if pick < running {
			return c
		}
	}
	return pool[len(pool)-1]
}

// pickBonusTask draws uniformly from the pool, avoiding the main task
// when anything else is available
func (r *Resolver) pickBonusTask(pool []Candidate, main Candidate) Candidate {
	others := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Key.String() != main.Key.String() {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return main
	}
	return others[r.rng.Intn(len(others))]
}
