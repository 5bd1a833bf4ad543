package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds all the UI styles
type Styles struct {
	// Game panels
	Panel       lipgloss.Style
	PanelActive lipgloss.Style
	PanelTitle  lipgloss.Style
	Reel        lipgloss.Style
	ReelHeld    lipgloss.Style
	Jackpot     lipgloss.Style
	TaskText    lipgloss.Style
	Category    lipgloss.Style
	Timer       lipgloss.Style
	TimerUp     lipgloss.Style

	// Players
	Player       lipgloss.Style
	PlayerActive lipgloss.Style
	Score        lipgloss.Style

	// Badges
	BoxBadge   func(box int) lipgloss.Style
	ClassBadge func(class string) lipgloss.Style
	Badge      lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style

	// Overlays
	Overlay          lipgloss.Style
	OverlayTitle     lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style
	Separator        lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		PanelActive: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Lavender).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true).
			MarginBottom(1),

		Reel: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Mauve).
			Padding(0, 2).
			Bold(true),

		ReelHeld: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Surface2).
			Foreground(Overlay0).
			Padding(0, 2),

		Jackpot: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		TaskText: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true),

		Category: lipgloss.NewStyle().
			Foreground(Overlay1),

		Timer: lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true),

		TimerUp: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true).
			Blink(true),

		Player: lipgloss.NewStyle().
			Foreground(Subtext1),

		PlayerActive: lipgloss.NewStyle().
			Foreground(Base).
			Background(Lavender).
			Bold(true).
			Padding(0, 1),

		Score: lipgloss.NewStyle().
			Foreground(Green).
			Bold(true),

		BoxBadge: func(box int) lipgloss.Style {
			color := BoxColors[max(0, min(box, len(BoxColors)-1))]
			return lipgloss.NewStyle().
				Foreground(Base).
				Background(color).
				Padding(0, 1).
				Bold(true)
		},

		ClassBadge: func(class string) lipgloss.Style {
			color, ok := ClassColors[class]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().
				Foreground(color).
				Padding(0, 1)
		},

		Badge: lipgloss.NewStyle().
			Foreground(Subtext0).
			Background(Surface1).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuItemDisabled: lipgloss.NewStyle().
			Foreground(Overlay0),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),
	}
}
