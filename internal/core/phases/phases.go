// Package phases implements the turn life cycle of the game.
//
// A turn moves through an explicit, closed set of phases:
//
//	idle -> spinning -> [partner_choice] -> [bonus_round] -> assessment -> ended -> idle
//	                                                       ended <-> double_or_nothing
//
// Every action is checked against a transition table. Rejected actions
// return a *domain.TransitionError and leave the machine untouched.
// Delayed callbacks (spin animation, task timer) carry the turn ID they were
// scheduled for; a callback for any other turn is ignored.
package phases

// Phase is the current step of a turn
type Phase int

const (
	Idle Phase = iota
	Spinning
	PartnerChoice
	BonusRound
	Assessment
	Ended
	DoubleOrNothing
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Spinning:
		return "spinning"
	case PartnerChoice:
		return "partner_choice"
	case BonusRound:
		return "bonus_round"
	case Assessment:
		return "assessment"
	case Ended:
		return "ended"
	case DoubleOrNothing:
		return "double_or_nothing"
	default:
		return "unknown"
	}
}

// Action is an input to the machine
type Action string

const (
	ActionSpin            Action = "spin"
	ActionResolve         Action = "resolve"
	ActionChoosePartner   Action = "choose_partner"
	ActionResolveBonus    Action = "resolve_bonus"
	ActionRate            Action = "rate"
	ActionDoubleOrNothing Action = "double_or_nothing"
	ActionFlipCoin        Action = "flip_coin"
	ActionExtraSpin       Action = "extra_spin"
	ActionReset           Action = "reset"
)

// transitions lists the actions accepted in each phase
var transitions = map[Phase][]Action{
	Idle:            {ActionSpin, ActionReset},
	Spinning:        {ActionResolve, ActionReset},
	PartnerChoice:   {ActionChoosePartner, ActionReset},
	BonusRound:      {ActionResolveBonus, ActionReset},
	Assessment:      {ActionRate, ActionReset},
	Ended:           {ActionSpin, ActionDoubleOrNothing, ActionExtraSpin, ActionReset},
	DoubleOrNothing: {ActionFlipCoin, ActionReset},
}

// Allowed reports whether an action is accepted in a phase
func Allowed(p Phase, a Action) bool {
	for _, allowed := range transitions[p] {
		if allowed == a {
			return true
		}
	}
	return false
}

// Phases returns every phase in declaration order
func Phases() []Phase {
	return []Phase{Idle, Spinning, PartnerChoice, BonusRound, Assessment, Ended, DoubleOrNothing}
}
