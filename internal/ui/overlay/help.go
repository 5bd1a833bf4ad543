package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding represents a single keybinding entry
type KeyBinding struct {
	Key         string
	Description string
}

// KeyCategory represents a category of keybindings
type KeyCategory struct {
	Name     string
	Bindings []KeyBinding
}

// HelpOverlay displays the keybinding reference
type HelpOverlay struct {
	styles     *Styles
	categories []KeyCategory
	scroll     int
	maxScroll  int
	viewHeight int
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		styles:     New(),
		categories: Categories(),
		viewHeight: 20,
	}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch key.String() {
	case "esc", "q", "?":
		return h, closeOverlay
	case "j", "down":
		h.scroll = min(h.scroll+1, h.maxScroll)
	case "k", "up":
		h.scroll = max(h.scroll-1, 0)
	case "g":
		h.scroll = 0
	case "G":
		h.scroll = h.maxScroll
	}
	return h, nil
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	var content strings.Builder
	for i, cat := range h.categories {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(h.styles.MenuHeader.Render(cat.Name + ":"))
		content.WriteString("\n")
		for _, b := range cat.Bindings {
			content.WriteString("  " + h.styles.MenuKey.Render(padRight(b.Key, 7)) + " " + h.styles.MenuItem.Render(b.Description))
			content.WriteString("\n")
		}
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")
	h.maxScroll = max(0, len(lines)-h.viewHeight)
	h.scroll = min(h.scroll, h.maxScroll)

	end := min(h.scroll+h.viewHeight, len(lines))
	result := strings.Join(lines[h.scroll:end], "\n")

	if h.maxScroll > 0 {
		result += "\n" + h.styles.Footer.Render("[j/k to scroll, g/G to jump]")
	}
	return result
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Help"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	return 52, h.viewHeight + 4
}

// Categories returns the game keybindings grouped by purpose
func Categories() []KeyCategory {
	return []KeyCategory{
		{
			Name: "Turn",
			Bindings: []KeyBinding{
				{Key: "Space", Description: "Spin / next turn"},
				{Key: "1 2 3", Description: "Rate: heel goed, redelijk, niet goed"},
				{Key: "y / n", Description: "Bonus task passed / failed"},
				{Key: "d", Description: "Double or nothing"},
				{Key: "f", Description: "Flip the coin"},
				{Key: "e", Description: "Use an extra spin"},
				{Key: "r", Description: "Reset the turn"},
			},
		},
		{
			Name: "Schedule",
			Bindings: []KeyBinding{
				{Key: "p", Description: "Pause / resume current task"},
				{Key: "P", Description: "Pin / unpin current task"},
				{Key: "+ / -", Description: "Move task up / down a box"},
				{Key: "0", Description: "Move task back to box 0"},
				{Key: "[ / ]", Description: "Review earlier / later"},
				{Key: "F / S", Description: "Start / stop focus session"},
				{Key: "t", Description: "Task schedule"},
			},
		},
		{
			Name: "Other",
			Bindings: []KeyBinding{
				{Key: "a", Description: "Add player"},
				{Key: "?", Description: "Help (this screen)"},
				{Key: "q", Description: "Quit"},
			},
		},
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
