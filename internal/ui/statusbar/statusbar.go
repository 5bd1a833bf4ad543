// Package statusbar renders the bottom bar with the current phase and the
// keys that are valid in it.
package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/riordanpawley/spinquiz/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	phase  phases.Phase
	ctx    Context
	info   string
	width  int
	styles *styles.Styles
}

// New creates a new StatusBar for the given phase
func New(phase phases.Phase, ctx Context, width int, s *styles.Styles) StatusBar {
	return StatusBar{
		phase:  phase,
		ctx:    ctx,
		width:  width,
		styles: s,
	}
}

// WithInfo sets right-aligned text such as the focus or due summary
func (sb StatusBar) WithInfo(info string) StatusBar {
	sb.info = info
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	badge := sb.styles.StatusMode.Render(strings.ToUpper(sb.phase.String()))

	content := badge
	if hints := GetHints(sb.phase, sb.ctx); hints != "" {
		separator := sb.styles.StatusHint.Render(" │ ")
		content = lipgloss.JoinHorizontal(lipgloss.Left, badge, separator, sb.styles.StatusHint.Render(hints))
	}

	if sb.info != "" {
		info := sb.styles.StatusInfo.Render(sb.info)
		gap := sb.width - lipgloss.Width(content) - lipgloss.Width(info) - 2
		if gap > 0 {
			content = lipgloss.JoinHorizontal(lipgloss.Left, content, strings.Repeat(" ", gap), info)
		}
	}

	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
