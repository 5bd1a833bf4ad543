// Package app contains the game model and its Bubble Tea implementation.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/spinquiz/internal/config"
	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/riordanpawley/spinquiz/internal/services/catalogue"
	"github.com/riordanpawley/spinquiz/internal/services/scheduler"
	"github.com/riordanpawley/spinquiz/internal/services/store"
	"github.com/riordanpawley/spinquiz/internal/types"
	"github.com/riordanpawley/spinquiz/internal/ui/overlay"
	"github.com/riordanpawley/spinquiz/internal/ui/styles"
)

// saveTimeout bounds a single snapshot write
const saveTimeout = 5 * time.Second

// Deps are the services a game session runs on
type Deps struct {
	Config    *config.Config
	Machine   *phases.Machine
	Scheduler *scheduler.Service
	Catalogue *catalogue.Catalogue
	Store     store.Store
	Logger    *slog.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

// Model is the main application state
type Model struct {
	// Game services
	machine   *phases.Machine
	scheduler *scheduler.Service
	catalogue *catalogue.Catalogue
	store     store.Store
	config    *config.Config
	logger    *slog.Logger
	now       func() time.Time

	// UI state
	overlayStack *overlay.Stack
	review       *overlay.ReviewOverlay
	toasts       []types.Toast
	spinner      spinner.Model
	styles       *styles.Styles

	// Terminal size
	width  int
	height int

	// Task timer of the turn being assessed
	timerTurn uint64
	timerEnds time.Time

	// Persistence: one save in flight at a time
	saving   bool
	dirty    bool
	quitting bool
}

// New creates the game model
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Mauve)

	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	st := deps.Store
	if st == nil {
		st, _ = store.Open(store.Config{Driver: "none"}, logger)
	}

	return Model{
		machine:      deps.Machine,
		scheduler:    deps.Scheduler,
		catalogue:    deps.Catalogue,
		store:        st,
		config:       cfg,
		logger:       logger,
		now:          now,
		overlayStack: overlay.NewStack(),
		spinner:      s,
		styles:       styles.New(),
	}
}

// Message types

type resolveMsg struct {
	turn uint64
}

type taskTimerMsg struct {
	turn uint64
}

type tickMsg time.Time

type savedMsg struct {
	err error
}

// CatalogueReloadedMsg carries a reload from the catalogue watcher. The
// watcher runs in its own goroutine and delivers this via Program.Send.
type CatalogueReloadedMsg catalogue.Reload

// Init starts the clock that expires toasts and redraws the task timer
func (m Model) Init() tea.Cmd {
	return tickEvery(time.Second)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		// Let the spinner stop once the reels have settled
		if m.machine.Phase() != phases.Spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		m.expireToasts()
		return m, tickEvery(time.Second)

	case resolveMsg:
		if err := m.machine.Resolve(msg.turn); err != nil {
			// Stale spin from a reset turn
			return m, nil
		}
		return m, m.sync()

	case taskTimerMsg:
		m.machine.TimerExpired(msg.turn)
		return m, m.sync()

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.logger.Error("failed to save schedule", "error", msg.err)
			m.addToast(types.ToastError, "Could not save schedule: "+msg.err.Error())
		}
		if m.dirty {
			return m, m.persist()
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case CatalogueReloadedMsg:
		return m.handleCatalogueReload(catalogue.Reload(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if _, ok := m.overlayStack.Current().(*overlay.PartnerOverlay); ok && msg.String() == "r" {
			return m.requestReset()
		}
		if !m.overlayStack.IsEmpty() {
			return m, m.overlayStack.Update(msg)
		}
		return m.handleKey(msg)

	case overlay.CloseOverlayMsg:
		if m.overlayStack.Pop() == overlay.Overlay(m.review) {
			m.review = nil
		}
		return m, nil

	case overlay.SelectionMsg:
		return m.handleSelection(msg)
	}

	if !m.overlayStack.IsEmpty() {
		// Cursor blink and other overlay-internal messages
		return m, m.overlayStack.Update(msg)
	}
	return m, nil
}

// spin starts a turn and schedules the reels to stop
func (m *Model) spin(extra bool) tea.Cmd {
	var (
		turn uint64
		err  error
	)
	if extra {
		turn, err = m.machine.UseExtraSpin()
	} else {
		turn, err = m.machine.Spin()
	}

	switch {
	case errors.Is(err, domain.ErrNoPlayers):
		m.addToast(types.ToastError, "Add a player first (a)")
		return nil
	case errors.Is(err, domain.ErrEmptyPool):
		m.addToast(types.ToastError, "No tasks left to spin: everything is paused")
		return nil
	case err != nil:
		return nil
	}

	delay := m.config.Game.SpinDelay()
	return tea.Batch(
		m.sync(),
		m.spinner.Tick,
		tea.Tick(delay, func(time.Time) tea.Msg { return resolveMsg{turn: turn} }),
	)
}

// sync turns queued intents and notices into toasts, opens the overlay the
// phase needs, arms the task timer and persists scheduling changes.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd
	changed := false

	for _, in := range m.machine.DrainIntents() {
		m.onIntent(in)
		if in.Kind == phases.IntentRated || in.Kind == phases.IntentFocusAdvanced {
			changed = true
		}
	}
	for _, n := range m.scheduler.DrainNotices() {
		m.toasts = append(m.toasts, n.Toast(m.now()))
		changed = true
	}

	phase := m.machine.Phase()
	turn := m.machine.Turn()

	_, partnerOpen := m.overlayStack.Current().(*overlay.PartnerOverlay)
	switch {
	case phase == phases.PartnerChoice && !partnerOpen:
		cmds = append(cmds, m.overlayStack.Push(overlay.NewPartnerOverlay(turn.Outcome.Task.Text, m.partnerCandidates(turn))))
	case phase != phases.PartnerChoice && partnerOpen:
		m.overlayStack.Pop()
	}

	if phase == phases.Assessment && m.timerTurn != turn.ID {
		if limit := turn.Outcome.Task.TimeLimit; limit > 0 {
			m.timerTurn = turn.ID
			m.timerEnds = m.now().Add(limit)
			id := turn.ID
			cmds = append(cmds, tea.Tick(limit, func(time.Time) tea.Msg { return taskTimerMsg{turn: id} }))
		}
	}

	if m.review != nil {
		m.review.SetRows(m.reviewRows())
	}
	if changed {
		cmds = append(cmds, m.persist())
	}
	return tea.Batch(cmds...)
}

func (m *Model) onIntent(in phases.Intent) {
	players := m.machine.Players()
	switch in.Kind {
	case phases.IntentResolved:
		if in.Points > 0 {
			m.addToast(types.ToastSuccess, fmt.Sprintf("Jackpot! %s +%d", in.Message, in.Points))
		} else if in.Message != "" {
			m.addToast(types.ToastInfo, in.Message)
		}
	case phases.IntentPartnerChosen:
		m.addToast(types.ToastInfo, "Partner: "+in.Message)
	case phases.IntentBonusResolved:
		if in.Won {
			m.addToast(types.ToastSuccess, fmt.Sprintf("Bonus gehaald! +%d", in.Points))
		} else {
			m.addToast(types.ToastWarning, "Bonus mislukt")
		}
	case phases.IntentRated:
		turn := m.machine.Turn()
		name := ""
		if turn.Player >= 0 && turn.Player < len(players) {
			name = players[turn.Player].Name + ": "
		}
		m.addToast(types.ToastInfo, fmt.Sprintf("%s%s +%d → box %d", name, in.Rating, in.Points, in.Box))
	case phases.IntentCoinFlipped:
		if in.Won {
			m.addToast(types.ToastSuccess, fmt.Sprintf("Kop! Verdubbeld tot %d", in.Points))
		} else {
			m.addToast(types.ToastWarning, "Munt! Punten kwijt")
		}
	case phases.IntentTimeUp:
		m.addToast(types.ToastWarning, "Tijd is om!")
	case phases.IntentReset:
		m.timerTurn = 0
	}
	m.logger.Debug("intent", "kind", string(in.Kind), "turn", in.Turn, "phase", in.Phase.String())
}

func (m Model) partnerCandidates(turn phases.Turn) []overlay.PartnerCandidate {
	players := m.machine.Players()
	out := make([]overlay.PartnerCandidate, 0, len(turn.Eligible))
	for _, i := range turn.Eligible {
		out = append(out, overlay.PartnerCandidate{Index: i, Name: players[i].Name})
	}
	return out
}

// persist saves a snapshot in the background. A change arriving while a
// save is in flight is written once that save completes.
func (m *Model) persist() tea.Cmd {
	if m.saving {
		m.dirty = true
		return nil
	}
	m.saving = true
	m.dirty = false

	snap := m.scheduler.Snapshot()
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return savedMsg{err: st.Save(ctx, snap)}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.saving {
		m.dirty = true
		return m, nil
	}
	return m, m.persist()
}

func (m Model) handleCatalogueReload(r catalogue.Reload) (tea.Model, tea.Cmd) {
	if r.Err != nil {
		m.logger.Warn("catalogue reload failed", "path", r.Path, "error", r.Err)
		m.addToast(types.ToastError, "Catalogue not reloaded: "+r.Err.Error())
		return m, nil
	}
	m.catalogue.Replace(r.Categories)
	m.logger.Info("catalogue reloaded", "path", r.Path, "tasks", m.catalogue.Len())
	m.addToast(types.ToastInfo, fmt.Sprintf("Catalogue reloaded (%d tasks)", m.catalogue.Len()))
	if m.review != nil {
		m.review.SetRows(m.reviewRows())
	}
	return m, nil
}

// addToast adds a toast with the configured timeout for its level
func (m *Model) addToast(level types.ToastLevel, message string) {
	timeout := m.config.Notifications.SuccessTimeoutMs
	if level == types.ToastError || level == types.ToastWarning {
		timeout = m.config.Notifications.ErrorTimeoutMs
	}
	m.toasts = append(m.toasts, types.Toast{
		Level:   level,
		Message: message,
		Expires: m.now().Add(time.Duration(timeout) * time.Millisecond),
	})
}

// expireToasts removes expired toasts from the list
func (m *Model) expireToasts() {
	now := m.now()
	filtered := make([]types.Toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if t.Expires.After(now) {
			filtered = append(filtered, t)
		}
	}
	m.toasts = filtered
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
