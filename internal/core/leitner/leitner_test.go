package leitner

import (
	"testing"
	"time"

	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler() (*Scheduler, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(DefaultIntervals, clock.Now), clock
}

func key(text string) domain.TaskKey {
	return domain.DeriveKey(domain.Task{MainCategory: "Quiz", Category: "Kennis", Text: text})
}

func TestNew_InvalidIntervalsFallBack(t *testing.T) {
	tests := []struct {
		name      string
		intervals []time.Duration
	}{
		{"nil", nil},
		{"non increasing", []time.Duration{time.Minute, time.Minute}},
		{"zero", []time.Duration{0, time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.intervals, nil)
			assert.Equal(t, len(DefaultIntervals)-1, s.MaxBox())
		})
	}
}

func TestScheduler_FreshTask(t *testing.T) {
	s, _ := newTestScheduler()
	k := key("never rated")

	_, ok := s.Box(k)
	assert.False(t, ok)

	_, ok = s.NextDueText(k)
	assert.False(t, ok)

	assert.False(t, s.IsDue(k))
}

func TestScheduler_RecordRating_FromFresh(t *testing.T) {
	tests := []struct {
		rating domain.Rating
		want   int
	}{
		{domain.RatingSuccess, 1},
		{domain.RatingPartial, 0},
		{domain.RatingFail, 0},
	}

	for _, tt := range tests {
		t.Run(tt.rating.String(), func(t *testing.T) {
			s, clock := newTestScheduler()
			k := key("fresh " + tt.rating.String())

			got := s.RecordRating(k, tt.rating)

			assert.Equal(t, tt.want, got)
			state, ok := s.State(k)
			require.True(t, ok)
			assert.Equal(t, clock.Now().Add(s.Interval(tt.want)), state.NextDueAt)
		})
	}
}

func TestScheduler_RecordRating_Promotion(t *testing.T) {
	s, _ := newTestScheduler()
	k := key("promote me")

	for b := 0; b < s.MaxBox(); b++ {
		s.SetBox(k, b)
		assert.Equal(t, b+1, s.RecordRating(k, domain.RatingSuccess))
	}

	s.SetBox(k, s.MaxBox())
	assert.Equal(t, s.MaxBox(), s.RecordRating(k, domain.RatingSuccess), "ceiling at K")
}

func TestScheduler_RecordRating_FailResets(t *testing.T) {
	s, _ := newTestScheduler()
	k := key("fail me")

	for b := 0; b <= s.MaxBox(); b++ {
		s.SetBox(k, b)
		assert.Equal(t, 0, s.RecordRating(k, domain.RatingFail))
	}
}

func TestScheduler_RecordRating_PartialRefreshes(t *testing.T) {
	s, clock := newTestScheduler()
	k := key("partial")

	s.SetBox(k, 3)
	clock.Advance(10 * time.Hour)

	assert.Equal(t, 3, s.RecordRating(k, domain.RatingPartial))
	state, _ := s.State(k)
	assert.Equal(t, clock.Now().Add(s.Interval(3)), state.NextDueAt)
}

func TestScheduler_HeelGoedScenario(t *testing.T) {
	s, clock := newTestScheduler()
	k := key("task A")

	s.SetBox(k, 1)
	require.Equal(t, 30*time.Minute, s.Interval(1))

	box := s.RecordRating(k, domain.RatingSuccess)

	assert.Equal(t, 2, box)
	state, _ := s.State(k)
	assert.Equal(t, clock.Now().Add(s.Interval(2)), state.NextDueAt)
}

func TestScheduler_SetBox(t *testing.T) {
	s, clock := newTestScheduler()
	k := key("override")

	tests := []struct {
		name string
		box  int
		want int
	}{
		{"in range", 2, 2},
		{"below range", -3, 0},
		{"above range", 99, s.MaxBox()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.Advance(time.Hour)
			_, _ = s.AdjustReview(k, -500)

			got := s.SetBox(k, tt.box)

			assert.Equal(t, tt.want, got)
			state, ok := s.State(k)
			require.True(t, ok)
			assert.Equal(t, clock.Now().Add(s.Interval(tt.want)), state.NextDueAt, "always refreshed")
		})
	}
}

func TestScheduler_AdjustReview(t *testing.T) {
	s, clock := newTestScheduler()
	k := key("adjust")

	_, ok := s.AdjustReview(k, 10)
	assert.False(t, ok, "unknown key")

	s.SetBox(k, 1)
	due, ok := s.AdjustReview(k, 15)
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(45*time.Minute), due)

	due, ok = s.AdjustReview(k, -120)
	require.True(t, ok)
	assert.True(t, due.Before(clock.Now()), "past is accepted")
	assert.True(t, s.IsDue(k))

	box, _ := s.Box(k)
	assert.Equal(t, 1, box, "box untouched")
}

func TestScheduler_Nudge(t *testing.T) {
	s, clock := newTestScheduler()
	k := key("nudge")

	_, ok := s.Nudge(k, true)
	assert.False(t, ok)

	s.SetBox(k, 1)
	assert.Equal(t, 15*time.Minute, s.NudgeStep(1))

	due, ok := s.Nudge(k, true)
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(15*time.Minute), due)

	due, _ = s.Nudge(k, false)
	assert.Equal(t, clock.Now().Add(30*time.Minute), due)
}

func TestScheduler_NudgeKeepsSeconds(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		step     time.Duration
	}{
		{"five minute box", 5 * time.Minute, 150 * time.Second},
		{"one minute box", time.Minute, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
			s := New([]time.Duration{tt.interval, time.Hour}, clock.Now)
			k := key("seconds")
			s.SetBox(k, 0)
			start := clock.Now().Add(tt.interval)

			due, ok := s.Nudge(k, true)
			require.True(t, ok)
			assert.Equal(t, start.Add(-tt.step), due)

			due, _ = s.Nudge(k, false)
			due, _ = s.Nudge(k, false)
			assert.Equal(t, start.Add(tt.step), due)
		})
	}
}

func TestScheduler_NextDueText(t *testing.T) {
	s, clock := newTestScheduler()
	k := key("text")
	s.SetBox(k, 1)

	text, ok := s.NextDueText(k)
	require.True(t, ok)
	assert.Contains(t, text, "from now")

	before, _ := s.State(k)
	clock.Advance(30 * time.Minute)
	text, _ = s.NextDueText(k)
	assert.Equal(t, "due now", text)

	clock.Advance(2 * time.Hour)
	text, _ = s.NextDueText(k)
	assert.Contains(t, text, "overdue")

	after, _ := s.State(k)
	assert.Equal(t, before, after, "never mutates")
}

func TestScheduler_RestoreAndAssignments(t *testing.T) {
	s, clock := newTestScheduler()
	due := clock.Now().Add(-time.Minute)

	s.Restore([]Assignment{
		{Key: "b", Box: 2, NextDueAt: due},
		{Key: "a", Box: 42, NextDueAt: due},
		{Key: "", Box: 1},
	})

	got := s.Assignments()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Key)
	assert.Equal(t, s.MaxBox(), got[0].Box, "clamped")
	assert.Equal(t, "b", got[1].Key)
}

func TestScheduler_Describe(t *testing.T) {
	s, _ := newTestScheduler()
	assert.Equal(t, "box 0 (5m)", s.Describe(0))
	assert.Equal(t, "box 2 (2h)", s.Describe(2))
	assert.Equal(t, "box 5 (7d)", s.Describe(5))
}
