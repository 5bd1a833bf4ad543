// Package overlay provides the modal dialogs drawn over the game screen.
package overlay

import tea "github.com/charmbracelet/bubbletea"

// Overlay represents a modal overlay component
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// CloseOverlayMsg signals that the overlay should be closed
type CloseOverlayMsg struct{}

// SelectionMsg is sent when an overlay produces a result. Key names the
// result; Value carries its payload.
type SelectionMsg struct {
	Key   string
	Value any
}

func selection(key string, value any) tea.Cmd {
	return func() tea.Msg { return SelectionMsg{Key: key, Value: value} }
}

func closeOverlay() tea.Msg { return CloseOverlayMsg{} }
