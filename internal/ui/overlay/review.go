package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// ReviewRow is one catalogue task with its schedule
type ReviewRow struct {
	Key       string
	Label     string
	Box       int
	Rated     bool
	Due       bool
	NextDueAt time.Time
	Paused    bool
	Pinned    bool
}

// ReviewAction is the Value of the "review" SelectionMsg
type ReviewAction struct {
	// One of "pause", "pin", "up", "down", "reset", "earlier", "later"
	Action string
	Key    string
}

// ReviewOverlay lists every task with its box and next review time and
// lets the host pause, pin or reschedule the selected one.
type ReviewOverlay struct {
	rows      []ReviewRow
	visible   []int
	cursor    int
	offset    int
	height    int
	filter    textinput.Model
	filtering bool
	now       func() time.Time
	styles    *Styles
}

// NewReviewOverlay creates the schedule list
func NewReviewOverlay(rows []ReviewRow, now func() time.Time) *ReviewOverlay {
	if now == nil {
		now = time.Now
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter..."
	ti.CharLimit = 60
	ti.Width = 40

	r := &ReviewOverlay{
		filter: ti,
		height: 14,
		now:    now,
		styles: New(),
	}
	r.SetRows(rows)
	return r
}

// SetRows replaces the rows, keeping the cursor on the same task if present
func (r *ReviewOverlay) SetRows(rows []ReviewRow) {
	selected := r.Selected()
	r.rows = rows
	r.applyFilter()
	for i, idx := range r.visible {
		if r.rows[idx].Key == selected.Key {
			r.cursor = i
			break
		}
	}
	r.clampCursor()
}

// Selected returns the row under the cursor, or a zero row
func (r *ReviewOverlay) Selected() ReviewRow {
	if r.cursor < 0 || r.cursor >= len(r.visible) {
		return ReviewRow{}
	}
	return r.rows[r.visible[r.cursor]]
}

// Init initializes the overlay
func (r *ReviewOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (r *ReviewOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	if r.filtering {
		switch key.Type {
		case tea.KeyEnter:
			r.filtering = false
			r.filter.Blur()
			return r, nil
		case tea.KeyEsc:
			r.filtering = false
			r.filter.Blur()
			r.filter.SetValue("")
			r.applyFilter()
			return r, nil
		}
		var cmd tea.Cmd
		r.filter, cmd = r.filter.Update(msg)
		r.applyFilter()
		return r, cmd
	}

	switch key.String() {
	case "esc", "q", "t":
		return r, closeOverlay
	case "/":
		r.filtering = true
		return r, r.filter.Focus()
	case "j", "down":
		r.cursor++
	case "k", "up":
		r.cursor--
	case "g":
		r.cursor = 0
	case "G":
		r.cursor = len(r.visible) - 1
	case "p":
		return r, r.act("pause")
	case "P":
		return r, r.act("pin")
	case "+", "=":
		return r, r.act("up")
	case "-":
		return r, r.act("down")
	case "0":
		return r, r.act("reset")
	case "[":
		return r, r.act("earlier")
	case "]":
		return r, r.act("later")
	}
	r.clampCursor()
	return r, nil
}

func (r *ReviewOverlay) act(action string) tea.Cmd {
	row := r.Selected()
	if row.Key == "" {
		return nil
	}
	return selection("review", ReviewAction{Action: action, Key: row.Key})
}

func (r *ReviewOverlay) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(r.filter.Value()))
	r.visible = r.visible[:0]
	for i, row := range r.rows {
		if q == "" || strings.Contains(strings.ToLower(row.Label), q) {
			r.visible = append(r.visible, i)
		}
	}
	r.clampCursor()
}

func (r *ReviewOverlay) clampCursor() {
	r.cursor = max(0, min(r.cursor, len(r.visible)-1))
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+r.height {
		r.offset = r.cursor - r.height + 1
	}
}

// View renders the list
func (r *ReviewOverlay) View() string {
	var b strings.Builder
	if r.filtering || r.filter.Value() != "" {
		b.WriteString(r.filter.View())
		b.WriteString("\n")
	}

	if len(r.visible) == 0 {
		b.WriteString(r.styles.MenuItemDisabled.Render("No tasks"))
		b.WriteString("\n")
	}

	end := min(r.offset+r.height, len(r.visible))
	now := r.now()
	for i := r.offset; i < end; i++ {
		row := r.rows[r.visible[i]]
		style := r.styles.MenuItem
		cursor := "  "
		if i == r.cursor {
			style = r.styles.MenuItemActive
			cursor = "> "
		}
		b.WriteString(cursor)
		b.WriteString(r.styles.MenuKey.Render(fmt.Sprintf("B%d", row.Box)) + " ")
		b.WriteString(style.Render(truncate(row.Label, 36)))
		b.WriteString(" " + r.flags(row) + " " + r.when(row, now))
		b.WriteString("\n")
	}

	b.WriteString(r.styles.Footer.Render(fmt.Sprintf("%d/%d • /: filter • p: pause • P: pin • +/-: box • 0: box 0 • [/]: nudge", len(r.visible), len(r.rows))))
	return b.String()
}

func (r *ReviewOverlay) flags(row ReviewRow) string {
	var f string
	if row.Paused {
		f += "⏸"
	}
	if row.Pinned {
		f += "📌"
	}
	return r.styles.Flag.Render(f)
}

func (r *ReviewOverlay) when(row ReviewRow, now time.Time) string {
	switch {
	case !row.Rated:
		return r.styles.MenuItemDisabled.Render("new")
	case row.Due:
		return r.styles.Due.Render("due")
	default:
		return r.styles.MenuItemDisabled.Render(humanize.RelTime(row.NextDueAt, now, "ago", "from now"))
	}
}

// Title returns the overlay title
func (r *ReviewOverlay) Title() string {
	return "Task schedule"
}

// Size returns the overlay dimensions
func (r *ReviewOverlay) Size() (width, height int) {
	return 72, r.height + 6
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
