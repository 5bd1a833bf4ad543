package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/riordanpawley/spinquiz/internal/types"
	"github.com/riordanpawley/spinquiz/internal/ui/overlay"
)

// ratingKeys maps the number row onto ratings
var ratingKeys = map[string]domain.Rating{
	"1": domain.RatingSuccess,
	"2": domain.RatingPartial,
	"3": domain.RatingFail,
}

// handleKey processes keyboard input when no overlay is open
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Keys that work in every phase
	switch key {
	case "q":
		return m.quit()
	case "?":
		return m, m.overlayStack.Push(overlay.NewHelpOverlay())
	case "a":
		return m, m.overlayStack.Push(overlay.NewPlayerOverlay())
	case "t":
		m.review = overlay.NewReviewOverlay(m.reviewRows(), m.now)
		return m, m.overlayStack.Push(m.review)
	case "r":
		return m.requestReset()
	case "F":
		m.scheduler.StartFocus()
		return m, m.sync()
	case "S":
		m.scheduler.StopFocus()
		return m, m.sync()
	case "p", "P", "+", "=", "-", "0", "[", "]":
		return m.adjustCurrent(key)
	}

	switch m.machine.Phase() {
	case phases.Idle:
		if key == " " || key == "enter" {
			return m, m.spin(false)
		}

	case phases.BonusRound:
		if key == "y" || key == "n" {
			m.machine.ResolveBonus(key == "y")
			return m, m.sync()
		}

	case phases.Assessment:
		if rating, ok := ratingKeys[key]; ok {
			m.machine.Rate(rating)
			return m, m.sync()
		}

	case phases.Ended:
		switch key {
		case " ", "enter":
			return m, m.spin(false)
		case "d":
			if err := m.machine.DoubleOrNothing(); err != nil {
				m.addToast(types.ToastWarning, "Double or nothing is not available")
			}
			return m, m.sync()
		case "e":
			return m, m.spin(true)
		}

	case phases.DoubleOrNothing:
		if key == "f" {
			m.machine.FlipCoin()
			return m, m.sync()
		}
	}

	return m, nil
}

// requestReset resets straight away between turns and asks first mid-turn
func (m Model) requestReset() (tea.Model, tea.Cmd) {
	switch m.machine.Phase() {
	case phases.Idle:
		return m, nil
	case phases.Ended:
		m.machine.Reset()
		return m, m.sync()
	}
	return m, m.overlayStack.Push(overlay.NewConfirmDialog("reset", "Reset turn", "The task has not been rated.\nDrop this turn?"))
}

// currentKey is the task on the table, if any
func (m Model) currentKey() (domain.TaskKey, bool) {
	if m.machine.Phase() == phases.Idle {
		return domain.TaskKey{}, false
	}
	key := m.machine.Turn().Outcome.Key
	return key, !key.IsZero()
}

// adjustCurrent applies a manual scheduling action to the current task
func (m Model) adjustCurrent(action string) (tea.Model, tea.Cmd) {
	key, ok := m.currentKey()
	if !ok {
		m.addToast(types.ToastWarning, "No task on the table (t: task schedule)")
		return m, nil
	}
	m.adjust(key, action)
	return m, m.sync()
}

// adjust maps an action name onto the scheduler. The scheduler queues the
// notices; sync turns them into toasts.
func (m Model) adjust(key domain.TaskKey, action string) {
	switch action {
	case "p", "pause":
		m.scheduler.TogglePause(key)
	case "P", "pin":
		m.scheduler.TogglePin(key)
	case "+", "=", "up":
		m.scheduler.ShiftBox(key, 1)
	case "-", "down":
		m.scheduler.ShiftBox(key, -1)
	case "0", "reset":
		m.scheduler.SetBox(key, 0)
	case "[", "earlier":
		m.scheduler.Nudge(key, true)
	case "]", "later":
		m.scheduler.Nudge(key, false)
	}
}

// handleSelection processes results coming back from overlays
func (m Model) handleSelection(msg overlay.SelectionMsg) (tea.Model, tea.Cmd) {
	switch v := msg.Value.(type) {
	case overlay.ConfirmResult:
		m.overlayStack.Pop()
		if v.ID == "reset" && v.Confirmed {
			m.machine.Reset()
		}
		return m, m.sync()

	case overlay.PartnerChoice:
		if err := m.machine.ChoosePartner(v.Player); err != nil {
			m.logger.Warn("partner rejected", "player", v.Player, "error", err)
			return m, nil
		}
		return m, m.sync()

	case overlay.PlayerName:
		if !m.machine.AddPlayer(v.Name) {
			if p, ok := m.overlayStack.Current().(*overlay.PlayerOverlay); ok {
				p.SetError(fmt.Sprintf("%s already plays", v.Name))
			}
			return m, nil
		}
		m.overlayStack.Pop()
		m.addToast(types.ToastSuccess, v.Name+" doet mee")
		return m, nil

	case overlay.ReviewAction:
		task, ok := m.catalogue.Find(v.Key)
		if !ok {
			return m, nil
		}
		m.adjust(task.Key(), v.Action)
		return m, m.sync()
	}
	return m, nil
}

// reviewRows joins the catalogue with the schedule
func (m Model) reviewRows() []overlay.ReviewRow {
	entries := make(map[string]overlay.ReviewRow)
	for _, e := range m.scheduler.Entries() {
		entries[e.Key] = overlay.ReviewRow{Box: e.Box, Rated: e.Rated, Due: e.Due, NextDueAt: e.NextDueAt}
	}

	var due, rest []overlay.ReviewRow
	for _, cat := range m.catalogue.Categories() {
		for _, t := range cat.Tasks {
			key := t.Key()
			row := entries[key.String()]
			row.Key = key.String()
			row.Label = key.Label()
			row.Paused = m.scheduler.IsPaused(key)
			row.Pinned = m.scheduler.Status(key).Pinned
			if row.Due {
				due = append(due, row)
			} else {
				rest = append(rest, row)
			}
		}
	}
	return append(due, rest...)
}
