package ai

import (
	"math"

	"github.com/goober-game/goober/internal/game/trainer"
)

// Heuristic weights. Living team members dominate everything except an
// outright win; defence and crit are fractions, so their weights are large
// to put them on the same scale as HP terms.
const (
	winScore         = math.MaxInt32
	aliveWeight      = 2000
	teamHPWeight     = 5
	itemCostWeight   = 50
	activeHPWeight   = 2
	attackWeight     = 5
	defenceWeight    = 500
	critWeight       = 250
	stunnedPenalty   = 300
	dizzinessPenalty = 100
)

// Evaluate scores the position from me's perspective; positive means me is
// ahead. Terminal positions return +-winScore.
func Evaluate(me, enemy *trainer.Trainer) float64 {
	if enemy.Defeated() {
		return winScore
	}
	if me.Defeated() {
		return -winScore
	}

	score := float64(me.LivingCount()-enemy.LivingCount()) * aliveWeight
	score += (teamHPPercent(me) - teamHPPercent(enemy)) * teamHPWeight
	score += float64(inventoryCost(me)-inventoryCost(enemy)) * itemCostWeight

	mine := me.Active().State
	theirs := enemy.Active().State
	score += float64(mine.CurrentHP-theirs.CurrentHP) * activeHPWeight
	score += float64(mine.Attack-theirs.Attack) * attackWeight
	score += (mine.Defence - theirs.Defence) * defenceWeight
	score += (mine.CritChance - theirs.CritChance) * critWeight

	if mine.Stunned {
		score -= stunnedPenalty
	}
	if theirs.Stunned {
		score += stunnedPenalty
	}
	if mine.Dizzy() {
		score -= dizzinessPenalty
	}
	if theirs.Dizzy() {
		score += dizzinessPenalty
	}
	return score
}

// teamHPPercent is the team's surviving HP as a percentage of its total.
func teamHPPercent(t *trainer.Trainer) float64 {
	current, max := 0, 0
	for _, g := range t.Team {
		current += g.State.CurrentHP
		max += g.State.MaxHP
	}
	if max == 0 {
		return 0
	}
	return float64(current) / float64(max) * 100
}

func inventoryCost(t *trainer.Trainer) int {
	total := 0
	for _, it := range t.Inventory {
		total += it.Cost
	}
	return total
}
