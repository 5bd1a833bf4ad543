package scheduler

import (
	"log/slog"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/riordanpawley/spinquiz/internal/core/spin"
	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/riordanpawley/spinquiz/internal/services/store"
	"github.com/riordanpawley/spinquiz/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ phases.Scheduler = (*Service)(nil)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := NewService(Options{Clock: clock.Now, SuccessTimeoutMs: 1000, ErrorTimeoutMs: 3000}, logger)
	return svc, clock
}

func task(text string) domain.TaskKey {
	return domain.Task{MainCategory: "Quiz", Category: "Kennis", Text: text}.Key()
}

func TestService_RatingDoesNotNotify(t *testing.T) {
	svc, clock := newTestService(t)
	k := task("Noem vijf hoofdsteden")

	assert.Equal(t, 1, svc.RecordRating(k, domain.RatingSuccess))
	assert.Empty(t, svc.DrainNotices())

	assert.False(t, svc.IsDue(k))
	clock.Advance(30 * time.Minute)
	assert.True(t, svc.IsDue(k))
}

func TestService_SetBoxNotifies(t *testing.T) {
	svc, _ := newTestService(t)
	k := task("Wat is de langste rivier?")

	assert.Equal(t, 5, svc.SetBox(k, 9))
	notices := svc.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, types.NoticeSuccess, notices[0].Kind)
	assert.Equal(t, 1000, notices[0].TimeoutMs)
	assert.Contains(t, notices[0].Message, "box 5 (7d)")

	assert.Equal(t, 4, svc.ShiftBox(k, -1))
	assert.Equal(t, 0, svc.ShiftBox(task("nieuw"), -1))
	assert.Len(t, svc.DrainNotices(), 2)
}

func TestService_AdjustAndNudge(t *testing.T) {
	svc, _ := newTestService(t)
	k := task("Doe tien push-ups")

	assert.False(t, svc.AdjustReview(k, 10))
	notices := svc.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, types.NoticeError, notices[0].Kind)
	assert.Equal(t, 3000, notices[0].TimeoutMs)

	svc.SetBox(k, 2)
	svc.DrainNotices()

	require.True(t, svc.AdjustReview(k, -150))
	assert.True(t, svc.IsDue(k), "adjusting into the past makes the task due")

	require.True(t, svc.Nudge(k, false))
	notices = svc.DrainNotices()
	require.Len(t, notices, 2)
	assert.Contains(t, notices[1].Message, "later")
	assert.False(t, svc.IsDue(k))
}

func TestService_PauseAndPinToggles(t *testing.T) {
	svc, _ := newTestService(t)
	k := task("Zing een lied")

	assert.True(t, svc.TogglePause(k))
	assert.True(t, svc.IsPaused(k))
	assert.False(t, svc.TogglePause(k))
	assert.False(t, svc.IsPaused(k))

	assert.True(t, svc.TogglePin(k))
	assert.Equal(t, 1, svc.PinnedCount())
	assert.False(t, svc.TogglePin(k))
	assert.Equal(t, 0, svc.PinnedCount())

	notices := svc.DrainNotices()
	require.Len(t, notices, 4)
	assert.Contains(t, notices[0].Message, "paused")
	assert.Contains(t, notices[1].Message, "resumed")
	assert.Contains(t, notices[2].Message, "pinned (1 pinned)")
	assert.Contains(t, notices[3].Message, "unpinned (0 pinned)")
}

func TestService_FocusSession(t *testing.T) {
	svc, _ := newTestService(t)
	a, b := task("een"), task("twee")

	session := svc.StartFocus()
	assert.False(t, session.Active)
	notices := svc.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, types.NoticeError, notices[0].Kind)

	svc.TogglePin(a)
	svc.TogglePin(b)
	svc.DrainNotices()

	session = svc.StartFocus()
	assert.Equal(t, []string{a.String(), b.String()}, session.Queue)
	again := svc.StartFocus()
	assert.Equal(t, session, again)
	require.Len(t, svc.DrainNotices(), 1)

	head, ok := svc.PeekFocus()
	require.True(t, ok)
	assert.Equal(t, a.String(), head)

	next, ok := svc.AdvanceFocus()
	assert.True(t, ok)
	assert.Equal(t, a.String(), next)
	assert.Empty(t, svc.DrainNotices())

	_, ok = svc.AdvanceFocus()
	assert.True(t, ok)
	notices = svc.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Focus session complete", notices[0].Message)

	_, ok = svc.AdvanceFocus()
	assert.False(t, ok)

	svc.StartFocus()
	svc.StopFocus()
	assert.False(t, svc.Focus().Active)
}

type staticCatalogue []domain.Category

func (c staticCatalogue) Categories() []domain.Category { return c }

func TestService_FocusSessionRunsPastPausedHead(t *testing.T) {
	svc, _ := newTestService(t)
	texts := []string{"een", "twee", "drie", "vier"}
	cat := domain.Category{Main: "Quiz", Name: "Kennis"}
	for _, text := range texts {
		cat.Tasks = append(cat.Tasks, domain.Task{MainCategory: "Quiz", Category: "Kennis", Text: text, Points: 5})
	}
	a, b, c := task("een"), task("twee"), task("drie")

	svc.TogglePin(a)
	svc.TogglePin(b)
	svc.TogglePin(c)
	svc.TogglePause(a)
	require.True(t, svc.StartFocus().Active)
	svc.DrainNotices()

	rng := rand.New(rand.NewSource(11))
	m := phases.NewMachine(spin.New(rng), svc, staticCatalogue{cat}, rng, nil, phases.WithPlayers("Ann"))

	var served []string
	for turn := 0; turn < 10 && svc.Focus().Active; turn++ {
		id, err := m.Spin()
		require.NoError(t, err)
		if out := m.Turn().Outcome; out.FromFocus {
			served = append(served, out.Key.String())
		}
		require.NoError(t, m.Resolve(id))
		if m.Phase() == phases.BonusRound {
			require.NoError(t, m.ResolveBonus(false))
		}
		require.NoError(t, m.Rate(domain.RatingSuccess))
	}

	assert.Equal(t, []string{b.String(), c.String()}, served)
	assert.False(t, svc.Focus().Active)
	assert.Nil(t, svc.FocusQueue())
	assert.True(t, svc.IsPaused(a))
}

func TestService_SnapshotRestore(t *testing.T) {
	svc, clock := newTestService(t)
	rated, pausedOnly, pinned := task("een"), task("twee"), task("drie")

	svc.RecordRating(rated, domain.RatingSuccess)
	svc.TogglePause(rated)
	svc.TogglePause(pausedOnly)
	svc.TogglePin(pinned)
	svc.TogglePin(rated)
	svc.StartFocus()

	snap := svc.Snapshot()
	require.Len(t, snap.Records, 2)
	assert.Equal(t, store.Record{
		BoxIndex:  1,
		NextDueAt: clock.t.Add(30 * time.Minute).UnixMilli(),
		Paused:    true,
	}, snap.Records[rated.String()])
	assert.False(t, snap.Records[pausedOnly.String()].Rated())
	assert.Equal(t, []string{pinned.String(), rated.String()}, snap.Pinned)
	assert.Equal(t, []string{pinned.String(), rated.String()}, snap.FocusQueue)

	restored, _ := newTestService(t)
	restored.Restore(snap)

	box, ok := restored.Box(rated)
	assert.True(t, ok)
	assert.Equal(t, 1, box)
	_, ok = restored.Box(pausedOnly)
	assert.False(t, ok)
	assert.True(t, restored.IsPaused(pausedOnly))
	assert.Equal(t, 2, restored.PinnedCount())
	head, ok := restored.PeekFocus()
	assert.True(t, ok)
	assert.Equal(t, pinned.String(), head)
	assert.Equal(t, snap, restored.Snapshot())
}

func TestService_SnapshotWithoutFocus(t *testing.T) {
	svc, _ := newTestService(t)
	svc.TogglePin(task("een"))

	snap := svc.Snapshot()
	assert.Nil(t, snap.FocusQueue)
	assert.NotNil(t, snap.Records)
}

func TestService_Entries(t *testing.T) {
	svc, clock := newTestService(t)
	due, later, paused := task("een"), task("twee"), task("drie")

	svc.SetBox(later, 3)
	svc.SetBox(due, 0)
	svc.TogglePause(paused)
	svc.TogglePin(later)
	clock.Advance(10 * time.Minute)

	entries := svc.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, due.String(), entries[0].Key)
	assert.True(t, entries[0].Due)
	assert.Equal(t, later.String(), entries[1].Key)
	assert.True(t, entries[1].Pinned)
	assert.False(t, entries[1].Due)
	assert.Equal(t, paused.String(), entries[2].Key)
	assert.True(t, entries[2].Paused)
	assert.False(t, entries[2].Rated)
}

func TestService_Status(t *testing.T) {
	svc, _ := newTestService(t)
	k := task("een")

	st := svc.Status(k)
	assert.False(t, st.Rated)
	assert.Empty(t, st.DueText)

	svc.SetBox(k, 1)
	svc.TogglePin(k)
	st = svc.Status(k)
	assert.True(t, st.Rated)
	assert.True(t, st.Pinned)
	assert.Equal(t, 1, st.Box)
	assert.Contains(t, st.DueText, "from now")
}
