package statusbar_test

import (
	"fmt"

	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/riordanpawley/spinquiz/internal/ui/statusbar"
	"github.com/riordanpawley/spinquiz/internal/ui/styles"
)

// Example demonstrates how to use the StatusBar
func Example() {
	sb := statusbar.New(phases.Idle, statusbar.Context{Players: 2}, 80, styles.New())

	// Render it (output will include ANSI codes for styling)
	rendered := sb.Render()

	fmt.Println(len(rendered) > 0)
	// Output: true
}

// ExampleGetHints shows the keys offered once a turn has ended
func ExampleGetHints() {
	fmt.Println(statusbar.GetHints(phases.Ended, statusbar.Context{CanDouble: true}))
	// Output: Space: next  d: double or nothing  ?: help  q: quit
}
