package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PlayerName is the Value of the "player" SelectionMsg
type PlayerName struct {
	Name string
}

// PlayerOverlay asks for the name of a new player
type PlayerOverlay struct {
	input  textinput.Model
	err    string
	styles *Styles
}

// NewPlayerOverlay creates the add-player form
func NewPlayerOverlay() *PlayerOverlay {
	ti := textinput.New()
	ti.Placeholder = "Naam..."
	ti.CharLimit = 24
	ti.Width = 30
	ti.Focus()

	return &PlayerOverlay{
		input:  ti,
		styles: New(),
	}
}

// Init starts the cursor blinking
func (p *PlayerOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (p *PlayerOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return p, closeOverlay
		case tea.KeyEnter:
			name := strings.TrimSpace(p.input.Value())
			if name == "" {
				p.err = "Name cannot be empty"
				return p, nil
			}
			return p, selection("player", PlayerName{Name: name})
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.err = ""
	return p, cmd
}

// SetError shows a validation message, e.g. for a duplicate name
func (p *PlayerOverlay) SetError(msg string) {
	p.err = msg
}

// View renders the form
func (p *PlayerOverlay) View() string {
	var b strings.Builder
	b.WriteString(p.input.View())
	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(p.styles.Due.Render(p.err))
	}
	b.WriteString("\n")
	b.WriteString(p.styles.Footer.Render("Enter: add • Esc: cancel"))
	return b.String()
}

// Title returns the overlay title
func (p *PlayerOverlay) Title() string {
	return "Speler toevoegen"
}

// Size returns the overlay dimensions
func (p *PlayerOverlay) Size() (width, height int) {
	return 44, 7
}
