package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/riordanpawley/spinquiz/internal/core/spin"
	"github.com/riordanpawley/spinquiz/internal/ui/statusbar"
	"github.com/riordanpawley/spinquiz/internal/ui/toast"
)

// View renders the game
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.renderPlayers(),
		m.renderReels(),
		m.renderTask(),
	)

	sb := statusbar.New(m.machine.Phase(), m.statusContext(), m.width, m.styles).
		WithInfo(m.scheduleInfo())

	mainHeight := max(0, m.height-lipgloss.Height(sb.Render()))
	view := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(m.width, mainHeight, lipgloss.Left, lipgloss.Top, body),
		sb.Render(),
	)

	if !m.overlayStack.IsEmpty() {
		current := m.overlayStack.Current()
		body := current.View()
		if title := current.Title(); title != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, m.styles.OverlayTitle.Render(title), body)
		}
		w, h := current.Size()
		box := m.styles.Overlay.Width(w).Height(h).Render(body)
		view = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	if toasts := toast.New(m.styles).Render(m.toasts, m.width); toasts != "" {
		view = lipgloss.JoinVertical(lipgloss.Right, view, toasts)
	}

	return view
}

func (m Model) statusContext() statusbar.Context {
	ctx := statusbar.Context{
		CanDouble: m.machine.CanDoubleOrNothing(),
		Players:   len(m.machine.Players()),
	}
	turn := m.machine.Turn()
	if players := m.machine.Players(); turn.Player >= 0 && turn.Player < len(players) {
		ctx.ExtraSpins = players[turn.Player].ExtraSpins
	}
	return ctx
}

// scheduleInfo summarizes focus and due counts for the status bar
func (m Model) scheduleInfo() string {
	var parts []string
	if f := m.scheduler.Focus(); f.Active {
		parts = append(parts, fmt.Sprintf("focus: %d left", len(f.Queue)))
	}
	if n := m.scheduler.PinnedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d pinned", n))
	}
	due := 0
	for _, e := range m.scheduler.Entries() {
		if e.Due && !e.Paused {
			due++
		}
	}
	parts = append(parts, fmt.Sprintf("%d due", due))
	return strings.Join(parts, " · ")
}

func (m Model) renderPlayers() string {
	players := m.machine.Players()
	if len(players) == 0 {
		return m.styles.Category.Render("No players yet. Press a to add one.")
	}

	turn := m.machine.Turn()
	active := m.machine.Phase() != phases.Idle
	cells := make([]string, 0, len(players))
	for i, p := range players {
		label := fmt.Sprintf("%s %s", p.Name, m.styles.Score.Render(fmt.Sprintf("%d", p.Score)))
		if p.ExtraSpins > 0 {
			label += m.styles.Jackpot.Render(fmt.Sprintf(" +%d🎰", p.ExtraSpins))
		}
		style := m.styles.Player
		if active && (i == turn.Player || i == turn.Partner) {
			style = m.styles.PlayerActive
		}
		cells = append(cells, style.Render(label))
	}
	return strings.Join(cells, "  ")
}

func (m Model) renderReels() string {
	phase := m.machine.Phase()
	if phase == phases.Idle {
		return m.styles.Panel.Render(m.styles.PanelTitle.Render("Druk op spatie om te draaien"))
	}

	turn := m.machine.Turn()
	out := turn.Outcome
	players := m.machine.Players()

	category, player := out.Task.Category, ""
	if out.PlayerIndex >= 0 && out.PlayerIndex < len(players) {
		player = players[out.PlayerIndex].Name
	}
	symbols := out.Symbols

	if phase == phases.Spinning {
		s := m.spinner.View()
		category, player = s, s
		if !turn.ExtraSpin {
			symbols = [3]spin.Symbol{"?", "?", "?"}
		}
	}

	jackpot := string(symbols[0]) + " " + string(symbols[1]) + " " + string(symbols[2])
	jackpotStyle := m.styles.Reel
	if turn.ExtraSpin {
		jackpotStyle = m.styles.ReelHeld
	}
	reels := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Reel.Render(category),
		m.styles.Reel.Render(player),
		jackpotStyle.Render(jackpot),
	)

	if phase != phases.Spinning && out.Bonus.Description != "" {
		reels = lipgloss.JoinVertical(lipgloss.Left, reels, m.styles.Jackpot.Render(out.Bonus.Description))
	}
	return reels
}

func (m Model) renderTask() string {
	phase := m.machine.Phase()
	if phase == phases.Idle || phase == phases.Spinning {
		return ""
	}

	turn := m.machine.Turn()
	out := turn.Outcome
	status := m.scheduler.Status(out.Key)

	var lines []string
	header := m.styles.Category.Render(out.Task.MainCategory+" / "+out.Task.Category) + " " +
		m.styles.ClassBadge(out.Class.String()).Render(out.Class.String())
	if status.Rated {
		header += " " + m.styles.BoxBadge(status.Box).Render(fmt.Sprintf("box %d", status.Box))
	}
	if out.FromFocus {
		header += " " + m.styles.Badge.Render("focus")
	}
	if status.Paused {
		header += " " + m.styles.Badge.Render("paused")
	}
	if status.Pinned {
		header += " " + m.styles.Badge.Render("pinned")
	}
	lines = append(lines, header, "", m.styles.TaskText.Render(out.Task.Text))

	if out.Task.Partner && turn.Partner >= 0 {
		lines = append(lines, m.styles.Category.Render("Samen met "+m.machine.Players()[turn.Partner].Name))
	}
	lines = append(lines, m.styles.Score.Render(fmt.Sprintf("%d punten", out.Task.Worth())))

	switch phase {
	case phases.BonusRound:
		if out.BonusTask != nil {
			lines = append(lines, "",
				m.styles.Jackpot.Render(fmt.Sprintf("Bonus (+%d): %s", out.Bonus.Points, out.BonusTask.Text)),
				m.styles.StatusHint.Render("y: gehaald  n: mislukt"))
		}
	case phases.Assessment:
		if t := m.timerText(turn); t != "" {
			lines = append(lines, t)
		}
		lines = append(lines, "", m.styles.StatusHint.Render("1: Heel Goed  2: Redelijk  3: Niet Goed"))
	case phases.Ended, phases.DoubleOrNothing:
		lines = append(lines, "", m.resultLine(turn, status.DueText))
		if phase == phases.DoubleOrNothing {
			lines = append(lines, m.styles.Jackpot.Render(fmt.Sprintf("Dubbel of niets: %d punten op het spel. f: gooi de munt", turn.Earned)))
		}
	}

	width := min(max(40, m.width-4), 80)
	style := m.styles.Panel
	if phase == phases.Assessment {
		style = m.styles.PanelActive
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) timerText(turn phases.Turn) string {
	if turn.TimeUp {
		return m.styles.TimerUp.Render("Tijd is om!")
	}
	if m.timerTurn != turn.ID {
		return ""
	}
	left := m.timerEnds.Sub(m.now()).Round(time.Second)
	if left < 0 {
		left = 0
	}
	return m.styles.Timer.Render(fmt.Sprintf("⏱ %s", left))
}

func (m Model) resultLine(turn phases.Turn, dueText string) string {
	line := fmt.Sprintf("%s: +%d", turn.Rating, turn.Earned)
	if turn.DoubleUsed && m.machine.Phase() == phases.Ended {
		if turn.CoinWon {
			line += " (verdubbeld)"
		} else {
			line += " (verspeeld)"
		}
	}
	line += fmt.Sprintf(" · box %d", turn.NewBox)
	if dueText != "" {
		line += " · " + dueText
	}
	return m.styles.Score.Render(line)
}
