package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOverlay is a simple overlay implementation for testing
type mockOverlay struct {
	title string
	value string
}

func (m mockOverlay) Init() tea.Cmd { return nil }

func (m mockOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m, selection("test", m.value)
		case "esc":
			return m, closeOverlay
		case "x":
			m.value += "x"
		}
	}
	return m, nil
}

func (m mockOverlay) View() string              { return m.title }
func (m mockOverlay) Title() string             { return m.title }
func (m mockOverlay) Size() (width, height int) { return 40, 10 }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStack_PushPop(t *testing.T) {
	s := NewStack()
	assert.True(t, s.IsEmpty())
	assert.Nil(t, s.Current())
	assert.Nil(t, s.Pop())

	s.Push(mockOverlay{title: "one"})
	s.Push(mockOverlay{title: "two"})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "two", s.Current().Title())

	assert.Equal(t, "two", s.Pop().Title())
	assert.Equal(t, "one", s.Current().Title())

	s.Clear()
	assert.True(t, s.IsEmpty())
}

func TestStack_UpdateReplacesCurrent(t *testing.T) {
	s := NewStack()
	assert.Nil(t, s.Update(tea.KeyMsg{Type: tea.KeyEnter}))

	s.Push(mockOverlay{title: "m", value: "v"})
	s.Update(runes("x"))

	cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectionMsg{Key: "test", Value: "vx"}, cmd())
}

func TestStack_CloseOverlayMsgPops(t *testing.T) {
	s := NewStack()
	s.Push(mockOverlay{title: "one"})
	s.Push(mockOverlay{title: "two"})

	assert.Nil(t, s.Update(CloseOverlayMsg{}))
	assert.Equal(t, "one", s.Current().Title())

	s.Update(CloseOverlayMsg{})
	assert.True(t, s.IsEmpty())
}
