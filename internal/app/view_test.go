package app

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/stretchr/testify/assert"
)

func TestView_BeforeResize(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")
	g.model.width, g.model.height = 0, 0

	assert.Equal(t, "Loading...", g.model.View())
}

func TestView_Height(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")

	view := g.model.View()

	assert.Equal(t, g.model.height, lipgloss.Height(view), "view fills the terminal")
	assert.Contains(t, view, "Anna")
	assert.Contains(t, view, "IDLE")
}

func TestView_NoPlayers(t *testing.T) {
	g := newTestGame(t, soloCategories())

	assert.Contains(t, g.model.View(), "Press a to add one")
}

func TestView_Assessment(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")
	g.spinToAssessment(t)

	view := g.model.View()

	assert.Contains(t, view, "Noem de hoofdstad van Frankrijk")
	assert.Contains(t, view, "Aardrijkskunde")
	assert.Contains(t, view, "10 punten")
	assert.Contains(t, view, "⏱ 30s")
	assert.Contains(t, view, "ASSESSMENT")
}

func TestView_TimerCountsDown(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")
	g.spinToAssessment(t)

	g.clock.Advance(12 * time.Second)

	assert.Contains(t, g.model.View(), "⏱ 18s")
}

func TestView_Ended(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")
	g.spinToAssessment(t)
	g.press("2")

	view := g.model.View()

	assert.Equal(t, phases.Ended, g.phase())
	assert.Contains(t, view, "Redelijk: +5")
	assert.Contains(t, view, "box")
}

func TestView_Overlay(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")
	g.press("?")

	view := g.model.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "Double or nothing")
}

func TestView_Toasts(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")
	g.model.width = 150
	g.press("p")

	view := g.model.View()
	assert.True(t, strings.Contains(view, "No task on the table"))
}

func TestScheduleInfo(t *testing.T) {
	g := newTestGame(t, soloCategories(), "Anna")
	assert.Equal(t, "0 due", g.model.scheduleInfo())

	turn := g.spinToAssessment(t)
	g.sched.TogglePin(turn.Outcome.Key)
	g.sched.StartFocus()

	info := g.model.scheduleInfo()
	assert.Contains(t, info, "focus: 1 left")
	assert.Contains(t, info, "1 pinned")
}
