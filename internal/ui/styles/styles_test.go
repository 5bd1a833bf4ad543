package styles

import (
	"testing"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
}

func TestBoxBadge(t *testing.T) {
	s := New()

	tests := []struct {
		box  int
		name string
	}{
		{0, "box 0"},
		{3, "box 3"},
		{5, "box 5"},
		{9, "out of bounds (should use last color)"},
		{-1, "negative (should use first color)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := s.BoxBadge(tt.box).Render("B")
			if len(rendered) == 0 {
				t.Error("BoxBadge rendered empty string")
			}
		})
	}
}

func TestClassBadge(t *testing.T) {
	s := New()

	for _, class := range []string{"due", "fresh", "scheduled", "unknown"} {
		t.Run(class, func(t *testing.T) {
			if s.ClassBadge(class).Render(class) == "" {
				t.Error("ClassBadge rendered empty string")
			}
		})
	}
}

func TestThemeColors(t *testing.T) {
	// Verify colors are defined
	colors := []struct {
		name  string
		color string
	}{
		{"Base", string(Base)},
		{"Blue", string(Blue)},
		{"Red", string(Red)},
		{"Green", string(Green)},
		{"Yellow", string(Yellow)},
	}

	for _, c := range colors {
		t.Run(c.name, func(t *testing.T) {
			if c.color == "" {
				t.Errorf("%s color is empty", c.name)
			}
			// Catppuccin colors start with #
			if c.color[0] != '#' {
				t.Errorf("%s color doesn't start with #: %s", c.name, c.color)
			}
		})
	}

	if len(BoxColors) != 6 {
		t.Errorf("Expected one color per default box, got %d", len(BoxColors))
	}
}
