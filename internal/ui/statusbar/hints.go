package statusbar

import (
	"strings"

	"github.com/riordanpawley/spinquiz/internal/core/phases"
)

// Context carries the turn details that change which keys are offered
type Context struct {
	CanDouble  bool
	ExtraSpins int
	Players    int
}

// GetHints returns the keybinding hints for the given phase
func GetHints(phase phases.Phase, ctx Context) string {
	var hints []string
	switch phase {
	case phases.Idle:
		if ctx.Players == 0 {
			hints = append(hints, "a: add player")
		} else {
			hints = append(hints, "Space: spin", "a: add player")
		}
	case phases.Spinning:
		hints = append(hints, "spinning...")
	case phases.PartnerChoice:
		hints = append(hints, "j/k: pick partner", "Enter: choose", "r: reset")
	case phases.BonusRound:
		hints = append(hints, "y: passed", "n: failed")
	case phases.Assessment:
		hints = append(hints, "1: heel goed", "2: redelijk", "3: niet goed", "p: pause", "P: pin")
	case phases.Ended:
		hints = append(hints, "Space: next")
		if ctx.CanDouble {
			hints = append(hints, "d: double or nothing")
		}
		if ctx.ExtraSpins > 0 {
			hints = append(hints, "e: extra spin")
		}
	case phases.DoubleOrNothing:
		hints = append(hints, "f: flip coin")
	default:
		return ""
	}
	hints = append(hints, "?: help", "q: quit")
	return strings.Join(hints, "  ")
}
