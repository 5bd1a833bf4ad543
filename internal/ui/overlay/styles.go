package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/spinquiz/internal/ui/styles"
)

// Styles holds all overlay-specific styles
type Styles struct {
	Overlay          lipgloss.Style
	Title            lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style
	MenuHeader       lipgloss.Style
	Separator        lipgloss.Style
	Footer           lipgloss.Style
	// Marks paused or pinned rows
	Flag lipgloss.Style
	// Review due text
	Due lipgloss.Style
}

// New creates overlay styles from the shared game palette
func New() *Styles {
	base := styles.New()
	return &Styles{
		Overlay:          base.Overlay,
		Title:            base.OverlayTitle,
		MenuItem:         base.MenuItem,
		MenuItemActive:   base.MenuItemActive,
		MenuItemDisabled: base.MenuItemDisabled,
		MenuKey:          base.MenuKey,
		Separator:        base.Separator,
		MenuHeader: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),
		Flag: lipgloss.NewStyle().
			Foreground(styles.Mauve),
		Due: lipgloss.NewStyle().
			Foreground(styles.Peach),
	}
}
