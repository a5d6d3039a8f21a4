// Package battle implements the damage calculator and the turn resolution
// engine that drives a two-trainer battle to completion.
package battle

import (
	"math"

	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/rng"
)

// Calculator resolves the chance rolls and damage math for attacks. All
// randomness flows through the injected source so battles are replayable
// under a fixed source.
type Calculator struct {
	src rng.Source
}

// NewCalculator creates a calculator drawing rolls from src.
//
// Precondition: src must not be nil.
func NewCalculator(src rng.Source) *Calculator {
	if src == nil {
		panic("battle: NewCalculator called with nil source")
	}
	return &Calculator{src: src}
}

// Hits rolls whether move lands. The move's hit chance is scaled by the
// attacker's accuracy multiplier, so a dizzied attacker misses more.
//
// Postcondition: a combined chance of 1.0 always hits; 0.0 never hits.
func (c *Calculator) Hits(move goober.Move, attacker *goober.State) bool {
	chance := move.HitChance * attacker.Accuracy
	return c.src.Float64() < chance
}

// IsCritical rolls whether the hit is critical. The attacker's crit stat and
// the move's bonus add together, capped at certainty.
func (c *Calculator) IsCritical(attacker *goober.State, move goober.Move) bool {
	chance := math.Min(attacker.CritChance+move.CritChance, 1.0)
	return c.src.Float64() < chance
}

// Damage computes the HP a landed hit removes.
//
// Pure status moves (zero base damage) deal nothing. Otherwise the move's
// base damage and the attacker's attack add, the defender's defence fraction
// scales the sum down, a critical multiplies by 1.5, and the result rounds
// with a floor of 1 so even a 99% defence never nullifies a damaging hit.
func (c *Calculator) Damage(move goober.Move, attacker, defender *goober.State, critical bool) int {
	if move.Damage == 0 {
		return 0
	}
	dmg := float64(move.Damage+attacker.Attack) * (1 - defender.Defence)
	if critical {
		dmg *= 1.5
	}
	out := int(math.Round(dmg))
	if out < 1 {
		out = 1
	}
	return out
}

// ExpectedDamage returns the probability-weighted damage of move, used by
// the search agent to value attacks without rolling. Criticals contribute
// their half-again bonus scaled by the crit chance.
func (c *Calculator) ExpectedDamage(move goober.Move, attacker, defender *goober.State) float64 {
	base := float64(c.Damage(move, attacker, defender, false))
	hitChance := move.HitChance * attacker.Accuracy
	critChance := math.Min(attacker.CritChance+move.CritChance, 1.0)
	return base * hitChance * (1 + 0.5*critChance)
}
