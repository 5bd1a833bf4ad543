package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmDialog asks a yes/no question. The ID is echoed in the result so
// the host knows which question was answered.
type ConfirmDialog struct {
	id       string
	title    string
	message  string
	styles   *Styles
	selected bool // true = Yes
}

// ConfirmResult is the Value of the SelectionMsg a ConfirmDialog emits
type ConfirmResult struct {
	ID        string
	Confirmed bool
}

// NewConfirmDialog creates a dialog defaulting to No
func NewConfirmDialog(id, title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		id:      id,
		title:   title,
		message: message,
		styles:  New(),
	}
}

// Init initializes the dialog
func (c *ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (c *ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key.String() {
	case "y", "Y":
		return c, c.answer(true)
	case "n", "N", "esc":
		return c, c.answer(false)
	case "enter":
		return c, c.answer(c.selected)
	case "left", "h":
		c.selected = true
	case "right", "l", "tab":
		c.selected = !c.selected
	}
	return c, nil
}

func (c *ConfirmDialog) answer(yes bool) tea.Cmd {
	k := "no"
	if yes {
		k = "yes"
	}
	return selection(k, ConfirmResult{ID: c.id, Confirmed: yes})
}

// View renders the dialog
func (c *ConfirmDialog) View() string {
	var b strings.Builder

	if c.message != "" {
		b.WriteString(c.styles.MenuItem.Render(c.message))
		b.WriteString("\n\n")
	}

	yesStyle, noStyle := c.styles.MenuItem, c.styles.MenuItemActive
	if c.selected {
		yesStyle, noStyle = c.styles.MenuItemActive, c.styles.MenuItem
	}
	b.WriteString(yesStyle.Render("[Y] Ja") + "    " + noStyle.Render("[N] Nee"))
	b.WriteString("\n")
	b.WriteString(c.styles.Footer.Render("Tab: switch • Enter: confirm • Esc: cancel"))

	return b.String()
}

// Title returns the dialog title
func (c *ConfirmDialog) Title() string {
	return c.title
}

// Size returns the dialog dimensions
func (c *ConfirmDialog) Size() (width, height int) {
	return 56, strings.Count(c.message, "\n") + 7
}
