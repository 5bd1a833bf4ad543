package phases

import "github.com/riordanpawley/spinquiz/internal/domain"

// IntentKind names something the presentation layer may react to
type IntentKind string

const (
	IntentSpun          IntentKind = "spun"
	IntentResolved      IntentKind = "resolved"
	IntentPartnerChosen IntentKind = "partner_chosen"
	IntentBonusResolved IntentKind = "bonus_resolved"
	IntentRated         IntentKind = "rating_recorded"
	IntentFocusAdvanced IntentKind = "focus_advanced"
	IntentCoinFlipped   IntentKind = "coin_flipped"
	IntentTimeUp        IntentKind = "time_up"
	IntentReset         IntentKind = "reset"
)

// Intent is emitted by a transition. The machine never plays sounds or
// renders anything itself.
type Intent struct {
	Kind    IntentKind
	Turn    uint64
	Phase   Phase
	Key     domain.TaskKey
	Rating  domain.Rating
	Box     int
	Points  int
	Won     bool
	Message string
}
