package spin

import "fmt"

// Symbol is one face of the jackpot reel
type Symbol string

// Reel faces
const (
	Cherry  Symbol = "🍒"
	Lemon   Symbol = "🍋"
	Bell    Symbol = "🔔"
	Star    Symbol = "⭐"
	Diamond Symbol = "💎"
	Seven   Symbol = "7"
)

// Symbols is the jackpot reel in display order
var Symbols = []Symbol{Cherry, Lemon, Bell, Star, Diamond, Seven}

// Combination classifies a jackpot triple
type Combination int

const (
	CombinationNone Combination = iota
	CombinationPair
	CombinationThreeOfAKind
)

func (c Combination) String() string {
	return [...]string{"none", "pair", "three of a kind"}[c]
}

// Paytable maps jackpot triples to rewards
type Paytable struct {
	// Three-of-a-kind points per symbol
	Triple map[Symbol]int
	// Points for any pair
	Pair int
	// Triple of this symbol opens a bonus round instead of paying out directly
	BonusSymbol Symbol
}

// DefaultPaytable is used when no paytable is configured
func DefaultPaytable() Paytable {
	return Paytable{
		Triple: map[Symbol]int{
			Cherry:  15,
			Lemon:   15,
			Bell:    25,
			Star:    30,
			Diamond: 50,
			Seven:   100,
		},
		Pair:        5,
		BonusSymbol: Star,
	}
}

// BonusAnalysis describes what a jackpot triple is worth
type BonusAnalysis struct {
	Combination Combination
	Symbol      Symbol
	// Points awarded with the spin, or on passing the bonus round
	Points int
	// Extra spins granted to the spinning player
	ExtraSpins int
	// A bonus task must be played before the main assessment
	BonusRound  bool
	Description string
}

// Analyze evaluates a jackpot triple against the paytable
func (p Paytable) Analyze(symbols [3]Symbol) BonusAnalysis {
	a, b, c := symbols[0], symbols[1], symbols[2]

	switch {
	case a == "" || b == "" || c == "":
		return BonusAnalysis{Description: "Jackpot reel held"}

	case a == b && b == c:
		points := p.Triple[a]
		if a == p.BonusSymbol {
			return BonusAnalysis{
				Combination: CombinationThreeOfAKind,
				Symbol:      a,
				Points:      points,
				ExtraSpins:  1,
				BonusRound:  true,
				Description: fmt.Sprintf("JACKPOT %s%s%s! Bonus round for %d points and an extra spin", a, a, a, points),
			}
		}
		return BonusAnalysis{
			Combination: CombinationThreeOfAKind,
			Symbol:      a,
			Points:      points,
			ExtraSpins:  1,
			Description: fmt.Sprintf("JACKPOT %s%s%s! +%d points and an extra spin", a, a, a, points),
		}

	case a == b || a == c:
		return p.pair(a)
	case b == c:
		return p.pair(b)
	}

	return BonusAnalysis{Description: "No combination"}
}

func (p Paytable) pair(s Symbol) BonusAnalysis {
	return BonusAnalysis{
		Combination: CombinationPair,
		Symbol:      s,
		Points:      p.Pair,
		Description: fmt.Sprintf("Pair of %s: +%d points", s, p.Pair),
	}
}
