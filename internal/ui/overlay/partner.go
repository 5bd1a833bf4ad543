package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PartnerChoice is the Value of the "partner" SelectionMsg: the roster
// index of the chosen player.
type PartnerChoice struct {
	Player int
}

// PartnerCandidate is a player that may be picked
type PartnerCandidate struct {
	Index int
	Name  string
}

// PartnerOverlay lets the spinning player pick who does the task with them.
// It cannot be dismissed without a choice. The host handles "r" to reset
// the turn, which closes it.
type PartnerOverlay struct {
	task       string
	candidates []PartnerCandidate
	cursor     int
	styles     *Styles
}

// NewPartnerOverlay creates a chooser over the eligible players
func NewPartnerOverlay(task string, candidates []PartnerCandidate) *PartnerOverlay {
	return &PartnerOverlay{
		task:       task,
		candidates: candidates,
		styles:     New(),
	}
}

// Init initializes the overlay
func (p *PartnerOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (p *PartnerOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(p.candidates) == 0 {
		return p, nil
	}

	switch key.String() {
	case "j", "down", "tab":
		p.cursor = (p.cursor + 1) % len(p.candidates)
	case "k", "up", "shift+tab":
		p.cursor = (p.cursor - 1 + len(p.candidates)) % len(p.candidates)
	case "enter", " ":
		return p, selection("partner", PartnerChoice{Player: p.candidates[p.cursor].Index})
	default:
		// Number keys pick directly
		s := key.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			i := int(s[0] - '1')
			if i < len(p.candidates) {
				return p, selection("partner", PartnerChoice{Player: p.candidates[i].Index})
			}
		}
	}
	return p, nil
}

// View renders the overlay
func (p *PartnerOverlay) View() string {
	var b strings.Builder
	if p.task != "" {
		b.WriteString(p.styles.MenuItemDisabled.Render(p.task))
		b.WriteString("\n\n")
	}
	for i, c := range p.candidates {
		style := p.styles.MenuItem
		cursor := "  "
		if i == p.cursor {
			style = p.styles.MenuItemActive
			cursor = "> "
		}
		b.WriteString(cursor + p.styles.MenuKey.Render(fmt.Sprintf("%d", i+1)) + " " + style.Render(c.Name))
		b.WriteString("\n")
	}
	b.WriteString(p.styles.Footer.Render("j/k: move • Enter: choose • r: reset turn"))
	return b.String()
}

// Title returns the overlay title
func (p *PartnerOverlay) Title() string {
	return "Kies een partner"
}

// Size returns the overlay dimensions
func (p *PartnerOverlay) Size() (width, height int) {
	return 48, len(p.candidates) + 7
}
