// Package toast renders transient notices in the corner of the game screen.
package toast

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/spinquiz/internal/types"
	"github.com/riordanpawley/spinquiz/internal/ui/styles"
)

// MaxVisible caps how many toasts are stacked at once; older ones are hidden.
const MaxVisible = 4

// Renderer draws toast notifications
type Renderer struct {
	styles *styles.Styles
}

// New creates a new Renderer with the given styles
func New(s *styles.Styles) *Renderer {
	return &Renderer{styles: s}
}

// Render stacks the newest toasts right-aligned, newest at the bottom.
// Returns empty string if there is nothing to display.
func (r *Renderer) Render(toasts []types.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	if len(toasts) > MaxVisible {
		toasts = toasts[len(toasts)-MaxVisible:]
	}

	toastWidth := min(width/3, 40)
	if toastWidth < 12 {
		toastWidth = 12
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := r.styleFor(t.Level)
		rendered = append(rendered, style.Width(toastWidth).Render(icon(t.Level)+" "+t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func (r *Renderer) styleFor(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}

func icon(level types.ToastLevel) string {
	switch level {
	case types.ToastSuccess:
		return "✓"
	case types.ToastWarning:
		return "!"
	case types.ToastError:
		return "✗"
	default:
		return "•"
	}
}
