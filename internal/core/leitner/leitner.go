// Package leitner implements the box-based spaced repetition schedule.
//
// Every rated task lives in a box 0..K. Each box has a review interval that
// grows with the box index. A successful rating promotes a task one box, a
// failed rating sends it back to box 0, and a partial rating keeps the box but
// restarts its interval.
package leitner

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/riordanpawley/spinquiz/internal/domain"
)

// DefaultIntervals are the review intervals for boxes 0..5
var DefaultIntervals = []time.Duration{
	5 * time.Minute,
	30 * time.Minute,
	2 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
}

// Clock returns the current time
type Clock func() time.Time

// Assignment is the scheduling state of one task
type Assignment struct {
	Key       string
	Box       int
	NextDueAt time.Time
}

// Scheduler owns box assignments and review timestamps.
// It is not safe for concurrent use.
type Scheduler struct {
	intervals   []time.Duration
	now         Clock
	assignments map[string]*Assignment
}

// New creates a scheduler with the given interval table.
// Intervals must be non-empty and strictly increasing; otherwise the
// defaults are used.
func New(intervals []time.Duration, now Clock) *Scheduler {
	if !validIntervals(intervals) {
		intervals = DefaultIntervals
	}
	if now == nil {
		now = time.Now
	}
	table := make([]time.Duration, len(intervals))
	copy(table, intervals)

	return &Scheduler{
		intervals:   table,
		now:         now,
		assignments: make(map[string]*Assignment),
	}
}

func validIntervals(intervals []time.Duration) bool {
	if len(intervals) == 0 {
		return false
	}
	for i, d := range intervals {
		if d <= 0 {
			return false
		}
		if i > 0 && d <= intervals[i-1] {
			return false
		}
	}
	return true
}

// MaxBox returns K, the highest box index
func (s *Scheduler) MaxBox() int {
	return len(s.intervals) - 1
}

// Interval returns the review interval for a box, clamped to [0, K]
func (s *Scheduler) Interval(box int) time.Duration {
	return s.intervals[s.clamp(box)]
}

// Box returns the box of a task; false means the task was never rated
func (s *Scheduler) Box(key domain.TaskKey) (int, bool) {
	a, ok := s.assignments[key.String()]
	if !ok {
		return 0, false
	}
	return a.Box, true
}

// State returns a copy of the assignment for a task
func (s *Scheduler) State(key domain.TaskKey) (Assignment, bool) {
	a, ok := s.assignments[key.String()]
	if !ok {
		return Assignment{}, false
	}
	return *a, true
}

// SetBox moves a task to a box and restarts its interval
func (s *Scheduler) SetBox(key domain.TaskKey, box int) int {
	box = s.clamp(box)
	s.put(key.String(), box)
	return box
}

// RecordRating applies the promotion rule and returns the new box.
// Unknown tasks start in box 0 before the rule is applied.
func (s *Scheduler) RecordRating(key domain.TaskKey, rating domain.Rating) int {
	box := 0
	if a, ok := s.assignments[key.String()]; ok {
		box = a.Box
	}

	switch rating {
	case domain.RatingSuccess:
		box = min(box+1, s.MaxBox())
	case domain.RatingFail:
		box = 0
	}

	s.put(key.String(), box)
	return box
}

// AdjustReview shifts the next review of a task by a signed number of
// minutes. Results in the past are kept; the task is then simply due.
func (s *Scheduler) AdjustReview(key domain.TaskKey, minutes int) (time.Time, bool) {
	a, ok := s.assignments[key.String()]
	if !ok {
		return time.Time{}, false
	}
	a.NextDueAt = a.NextDueAt.Add(time.Duration(minutes) * time.Minute)
	return a.NextDueAt, true
}

// NudgeStep is the fixed manual adjustment for a box: half its interval
func (s *Scheduler) NudgeStep(box int) time.Duration {
	return s.Interval(box) / 2
}

// Nudge moves the next review earlier or later by NudgeStep
func (s *Scheduler) Nudge(key domain.TaskKey, earlier bool) (time.Time, bool) {
	a, ok := s.assignments[key.String()]
	if !ok {
		return time.Time{}, false
	}
	step := s.NudgeStep(a.Box)
	if earlier {
		step = -step
	}
	a.NextDueAt = a.NextDueAt.Add(step)
	return a.NextDueAt, true
}

// IsDue reports whether a rated task's review time has passed
func (s *Scheduler) IsDue(key domain.TaskKey) bool {
	a, ok := s.assignments[key.String()]
	if !ok {
		return false
	}
	return !a.NextDueAt.After(s.now())
}

// NextDueText describes the next review relative to now
func (s *Scheduler) NextDueText(key domain.TaskKey) (string, bool) {
	a, ok := s.assignments[key.String()]
	if !ok {
		return "", false
	}
	now := s.now()
	if !a.NextDueAt.After(now) {
		if now.Sub(a.NextDueAt) < time.Second {
			return "due now", true
		}
		return "overdue (" + humanize.RelTime(a.NextDueAt, now, "ago", "from now") + ")", true
	}
	return "due " + humanize.RelTime(a.NextDueAt, now, "ago", "from now"), true
}

// Assignments returns all assignments sorted by key
func (s *Scheduler) Assignments() []Assignment {
	out := make([]Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Restore replaces all state with previously persisted assignments.
// Boxes outside the current table are clamped.
func (s *Scheduler) Restore(assignments []Assignment) {
	s.assignments = make(map[string]*Assignment, len(assignments))
	for _, a := range assignments {
		if a.Key == "" {
			continue
		}
		s.assignments[a.Key] = &Assignment{
			Key:       a.Key,
			Box:       s.clamp(a.Box),
			NextDueAt: a.NextDueAt,
		}
	}
}

// Describe renders a one-line summary used in notices
func (s *Scheduler) Describe(box int) string {
	return fmt.Sprintf("box %d (%s)", box, formatInterval(s.Interval(box)))
}

func (s *Scheduler) put(key string, box int) {
	a, ok := s.assignments[key]
	if !ok {
		a = &Assignment{Key: key}
		s.assignments[key] = a
	}
	a.Box = box
	a.NextDueAt = s.now().Add(s.intervals[box])
}

func (s *Scheduler) clamp(box int) int {
	if box < 0 {
		return 0
	}
	if box > s.MaxBox() {
		return s.MaxBox()
	}
	return box
}

func formatInterval(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	default:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
}
