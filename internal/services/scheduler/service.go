// Package scheduler composes the box schedule, the pause set and the pin set
// into the one scheduling service a game session talks to.
//
// Manual actions (box moves, review shifts, pause, pin, focus) queue a
// Notice for the presentation layer. Ratings recorded by the game do not:
// the game reports those itself.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/riordanpawley/spinquiz/internal/core/leitner"
	"github.com/riordanpawley/spinquiz/internal/core/registry"
	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/riordanpawley/spinquiz/internal/services/store"
	"github.com/riordanpawley/spinquiz/internal/types"
)

// Options configures a Service
type Options struct {
	Intervals        []time.Duration
	Clock            leitner.Clock
	SuccessTimeoutMs int
	ErrorTimeoutMs   int
}

// Service owns all scheduling state of one game session
type Service struct {
	boxes  *leitner.Scheduler
	pauses *registry.PauseRegistry
	pins   *registry.PinRegistry
	now    leitner.Clock
	logger *slog.Logger

	successTimeoutMs int
	errorTimeoutMs   int
	notices          []types.Notice
}

// Status is the scheduling state of one task as shown to players
type Status struct {
	Key     domain.TaskKey
	Box     int
	Rated   bool
	Paused  bool
	Pinned  bool
	DueText string
}

// Entry is one row of the schedule overview
type Entry struct {
	Key       string
	Box       int
	Rated     bool
	NextDueAt time.Time
	Due       bool
	Paused    bool
	Pinned    bool
}

// NewService creates an empty scheduling service
func NewService(opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.SuccessTimeoutMs <= 0 {
		opts.SuccessTimeoutMs = 2500
	}
	if opts.ErrorTimeoutMs <= 0 {
		opts.ErrorTimeoutMs = 4000
	}
	return &Service{
		boxes:            leitner.New(opts.Intervals, opts.Clock),
		pauses:           registry.NewPauseRegistry(),
		pins:             registry.NewPinRegistry(),
		now:              opts.Clock,
		logger:           logger,
		successTimeoutMs: opts.SuccessTimeoutMs,
		errorTimeoutMs:   opts.ErrorTimeoutMs,
	}
}

// DrainNotices returns and clears the queued notices
func (s *Service) DrainNotices() []types.Notice {
	out := s.notices
	s.notices = nil
	return out
}

// IsPaused reports whether a task is excluded from selection
func (s *Service) IsPaused(key domain.TaskKey) bool {
	return s.pauses.IsPaused(key)
}

// Box returns the box of a task; false means never rated
func (s *Service) Box(key domain.TaskKey) (int, bool) {
	return s.boxes.Box(key)
}

// IsDue reports whether a rated task is due for review
func (s *Service) IsDue(key domain.TaskKey) bool {
	return s.boxes.IsDue(key)
}

// PeekFocus returns the head of the focus queue
func (s *Service) PeekFocus() (string, bool) {
	return s.pins.PeekFocus()
}

// FocusQueue returns the pending focus keys, nil when no session runs
func (s *Service) FocusQueue() []string {
	if !s.pins.IsFocusActive() {
		return nil
	}
	return s.pins.Focus().Queue
}

// RecordRating applies a rating to the box schedule
func (s *Service) RecordRating(key domain.TaskKey, rating domain.Rating) int {
	box := s.boxes.RecordRating(key, rating)
	s.logger.Info("rating recorded", "key", key.String(), "rating", rating.String(), "box", box)
	return box
}

// AdvanceFocus pops the focus queue
func (s *Service) AdvanceFocus() (string, bool) {
	next, ok := s.pins.AdvanceFocus()
	if ok && !s.pins.IsFocusActive() {
		s.success("Focus session complete")
	}
	return next, ok
}

// MaxBox returns the highest box index
func (s *Service) MaxBox() int {
	return s.boxes.MaxBox()
}

// NextDueText describes when a task is due next
func (s *Service) NextDueText(key domain.TaskKey) (string, bool) {
	return s.boxes.NextDueText(key)
}

// Status returns everything known about one task
func (s *Service) Status(key domain.TaskKey) Status {
	st := Status{
		Key:    key,
		Paused: s.pauses.IsPaused(key),
		Pinned: s.pins.IsPinned(key),
	}
	st.Box, st.Rated = s.boxes.Box(key)
	if st.Rated {
		st.DueText, _ = s.boxes.NextDueText(key)
	}
	return st
}

// SetBox moves a task to a box and restarts its interval
func (s *Service) SetBox(key domain.TaskKey, box int) int {
	box = s.boxes.SetBox(key, box)
	s.success(fmt.Sprintf("%s moved to %s", key.Label(), s.boxes.Describe(box)))
	return box
}

// ShiftBox moves a task one box up or down. A task that was never rated
// starts from box 0.
func (s *Service) ShiftBox(key domain.TaskKey, delta int) int {
	box, _ := s.boxes.Box(key)
	return s.SetBox(key, box+delta)
}

// AdjustReview shifts the next review by a signed number of minutes
func (s *Service) AdjustReview(key domain.TaskKey, minutes int) bool {
	at, ok := s.boxes.AdjustReview(key, minutes)
	if !ok {
		s.failure(key.Label() + " has no review scheduled yet")
		return false
	}
	s.success(fmt.Sprintf("Next review of %s shifted by %+dm (%s)", key.Label(), minutes, s.dueText(key, at)))
	return true
}

// Nudge moves the next review earlier or later by half the box interval
func (s *Service) Nudge(key domain.TaskKey, earlier bool) bool {
	at, ok := s.boxes.Nudge(key, earlier)
	if !ok {
		s.failure(key.Label() + " has no review scheduled yet")
		return false
	}
	dir := "later"
	if earlier {
		dir = "earlier"
	}
	s.success(fmt.Sprintf("%s nudged %s (%s)", key.Label(), dir, s.dueText(key, at)))
	return true
}

func (s *Service) dueText(key domain.TaskKey, at time.Time) string {
	if text, ok := s.boxes.NextDueText(key); ok {
		return text
	}
	return at.Format(time.Kitchen)
}

// TogglePause pauses or resumes a task and returns the new paused state
func (s *Service) TogglePause(key domain.TaskKey) bool {
	if s.pauses.Resume(key) {
		s.success(key.Label() + " resumed")
		return false
	}
	s.pauses.Pause(key)
	s.success(key.Label() + " paused")
	return true
}

// TogglePin pins or unpins a task and returns the new pinned state
func (s *Service) TogglePin(key domain.TaskKey) bool {
	if s.pins.Unpin(key) {
		s.success(fmt.Sprintf("%s unpinned (%d pinned)", key.Label(), s.pins.PinnedCount()))
		return false
	}
	s.pins.Pin(key)
	s.success(fmt.Sprintf("%s pinned (%d pinned)", key.Label(), s.pins.PinnedCount()))
	return true
}

// PinnedCount returns the number of pinned tasks
func (s *Service) PinnedCount() int {
	return s.pins.PinnedCount()
}

// StartFocus snapshots the pinned tasks into a focus session
func (s *Service) StartFocus() registry.FocusSession {
	if s.pins.IsFocusActive() {
		return s.pins.Focus()
	}
	session := s.pins.StartFocusNow()
	if !session.Active {
		s.failure("Pin tasks before starting a focus session")
		return session
	}
	s.success(fmt.Sprintf("Focus session started with %d tasks", len(session.Queue)))
	return session
}

// StopFocus cancels the focus session
func (s *Service) StopFocus() {
	if !s.pins.IsFocusActive() {
		return
	}
	s.pins.StopFocus()
	s.success("Focus session stopped")
}

// Focus returns a copy of the focus session
func (s *Service) Focus() registry.FocusSession {
	return s.pins.Focus()
}

// Entries lists every task with scheduling state, due tasks first
func (s *Service) Entries() []Entry {
	now := s.now()
	seen := make(map[string]bool)
	var out []Entry

	for _, a := range s.boxes.Assignments() {
		seen[a.Key] = true
		out = append(out, Entry{
			Key:       a.Key,
			Box:       a.Box,
			Rated:     true,
			NextDueAt: a.NextDueAt,
			Due:       !a.NextDueAt.After(now),
		})
	}
	for _, key := range s.pauses.Keys() {
		if !seen[key] {
			out = append(out, Entry{Key: key})
		}
	}

	pinned := make(map[string]bool)
	for _, key := range s.pins.Pinned() {
		pinned[key] = true
	}
	paused := make(map[string]bool)
	for _, key := range s.pauses.Keys() {
		paused[key] = true
	}
	for i := range out {
		out[i].Paused = paused[out[i].Key]
		out[i].Pinned = pinned[out[i].Key]
	}

	sortEntries(out)
	return out
}

// Snapshot exports the state for persistence
func (s *Service) Snapshot() store.Snapshot {
	snap := store.Empty()
	for _, a := range s.boxes.Assignments() {
		snap.Records[a.Key] = store.Record{BoxIndex: a.Box, NextDueAt: a.NextDueAt.UnixMilli()}
	}
	for _, key := range s.pauses.Keys() {
		rec := snap.Records[key]
		rec.Paused = true
		snap.Records[key] = rec
	}
	snap.Pinned = append(snap.Pinned, s.pins.Pinned()...)
	if focus := s.pins.Focus(); focus.Active {
		snap.FocusQueue = focus.Queue
	}
	return snap
}

// Restore replaces all state with a persisted snapshot
func (s *Service) Restore(snap store.Snapshot) {
	var assignments []leitner.Assignment
	s.pauses.Reset()
	s.pins.Reset()

	for key, rec := range snap.Records {
		if rec.Rated() {
			assignments = append(assignments, leitner.Assignment{
				Key:       key,
				Box:       rec.BoxIndex,
				NextDueAt: time.UnixMilli(rec.NextDueAt),
			})
		}
		if rec.Paused {
			s.pauses.PauseString(key)
		}
	}
	s.boxes.Restore(assignments)

	for _, key := range snap.Pinned {
		s.pins.PinString(key)
	}
	s.pins.RestoreFocus(snap.FocusQueue)

	s.logger.Debug("scheduling state restored",
		"records", len(assignments),
		"paused", s.pauses.Len(),
		"pinned", s.pins.PinnedCount(),
		"focus", s.pins.IsFocusActive(),
	)
}

func (s *Service) success(msg string) {
	s.logger.Debug("notice", "kind", types.NoticeSuccess, "message", msg)
	s.notices = append(s.notices, types.Notice{Message: msg, Kind: types.NoticeSuccess, TimeoutMs: s.successTimeoutMs})
}

func (s *Service) failure(msg string) {
	s.logger.Debug("notice", "kind", types.NoticeError, "message", msg)
	s.notices = append(s.notices, types.Notice{Message: msg, Kind: types.NoticeError, TimeoutMs: s.errorTimeoutMs})
}
