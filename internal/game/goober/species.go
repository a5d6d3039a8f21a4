// Package goober implements the creature model: immutable species
// definitions, the usable-move set, and the mutable per-instance combat
// state that battles act on.
package goober

// Archetype classifies a species' combat role. The archetype fixes the base
// stat block and growth rates; individual species apply small tuning deltas
// on top.
type Archetype int

const (
	ArchetypeTank Archetype = iota
	ArchetypeAssassin
	ArchetypeDamager
	ArchetypeSupport
	ArchetypeSpecial
	// ArchetypeBoss is reserved for boss encounters and is not part of the
	// normal selection pool.
	ArchetypeBoss
)

// String returns the lowercase archetype name used in content files.
func (a Archetype) String() string {
	switch a {
	case ArchetypeTank:
		return "tank"
	case ArchetypeAssassin:
		return "assassin"
	case ArchetypeDamager:
		return "damager"
	case ArchetypeSupport:
		return "support"
	case ArchetypeSpecial:
		return "special"
	case ArchetypeBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// StatBlock holds the level-1 base stats and per-level growth rates shared
// by every species of an archetype.
type StatBlock struct {
	BaseHP      int
	BaseAttack  int
	BaseDefence float64
	BaseCrit    float64

	HPGrowth      int
	AttackGrowth  int
	DefenceGrowth float64
	CritGrowth    float64
}

// archetypeStats is the balancing table for all archetypes. Growth values
// are intentionally small to support long campaigns without runaway stats.
var archetypeStats = map[Archetype]StatBlock{
	ArchetypeTank:     {BaseHP: 110, BaseAttack: 15, BaseDefence: 0.15, BaseCrit: 0.05, HPGrowth: 14, AttackGrowth: 2, DefenceGrowth: 0.0020, CritGrowth: 0.0005},
	ArchetypeAssassin: {BaseHP: 60, BaseAttack: 28, BaseDefence: 0.05, BaseCrit: 0.20, HPGrowth: 7, AttackGrowth: 6, DefenceGrowth: 0.0008, CritGrowth: 0.0020},
	ArchetypeDamager:  {BaseHP: 80, BaseAttack: 22, BaseDefence: 0.10, BaseCrit: 0.10, HPGrowth: 9, AttackGrowth: 4, DefenceGrowth: 0.0012, CritGrowth: 0.0010},
	ArchetypeSupport:  {BaseHP: 90, BaseAttack: 14, BaseDefence: 0.12, BaseCrit: 0.05, HPGrowth: 11, AttackGrowth: 2, DefenceGrowth: 0.0015, CritGrowth: 0.0005},
	ArchetypeSpecial:  {BaseHP: 70, BaseAttack: 20, BaseDefence: 0.08, BaseCrit: 0.15, HPGrowth: 8, AttackGrowth: 5, DefenceGrowth: 0.0010, CritGrowth: 0.0015},
	ArchetypeBoss:     {BaseHP: 180, BaseAttack: 35, BaseDefence: 0.10, BaseCrit: 0.20, HPGrowth: 20, AttackGrowth: 8, DefenceGrowth: 0.0015, CritGrowth: 0.0015},
}

// Stats returns the archetype's base stat block.
//
// Postcondition: returns a non-zero block for every defined archetype.
func (a Archetype) Stats() StatBlock {
	return archetypeStats[a]
}

// baseSpeed is the archetype component of the derived speed stat.
func (a Archetype) baseSpeed() int {
	switch a {
	case ArchetypeAssassin:
		return 20
	case ArchetypeDamager:
		return 15
	case ArchetypeSupport:
		return 12
	case ArchetypeTank:
		return 8
	case ArchetypeSpecial:
		return 21
	case ArchetypeBoss:
		return 22
	default:
		return 10
	}
}

// ParseArchetype maps a content-file archetype name to its Archetype.
//
// Postcondition: returns (archetype, true) for a known lowercase name, or
// (0, false) otherwise.
func ParseArchetype(name string) (Archetype, bool) {
	switch name {
	case "tank":
		return ArchetypeTank, true
	case "assassin":
		return ArchetypeAssassin, true
	case "damager":
		return ArchetypeDamager, true
	case "support":
		return ArchetypeSupport, true
	case "special":
		return ArchetypeSpecial, true
	case "boss":
		return ArchetypeBoss, true
	default:
		return 0, false
	}
}

// Species is an immutable creature definition: identity, archetype, and the
// fully resolved stat block (archetype base plus species tuning). Never
// mutated after construction.
type Species struct {
	Name      string
	Archetype Archetype
	Stats     StatBlock
}

// NewSpecies resolves a species from its archetype's stat block plus tuning
// deltas, applying the safety floors that keep hand-tuned content sane.
//
// Postcondition: BaseHP >= 10, BaseAttack >= 1, BaseDefence >= 0, BaseCrit >= 0.
func NewSpecies(name string, archetype Archetype, hpDelta, attackDelta int, defenceDelta, critDelta float64) Species {
	s := archetype.Stats()
	s.BaseHP += hpDelta
	s.BaseAttack += attackDelta
	s.BaseDefence += defenceDelta
	s.BaseCrit += critDelta

	if s.BaseHP < 10 {
		s.BaseHP = 10
	}
	if s.BaseAttack < 1 {
		s.BaseAttack = 1
	}
	if s.BaseDefence < 0 {
		s.BaseDefence = 0
	}
	if s.BaseCrit < 0 {
		s.BaseCrit = 0
	}

	return Species{Name: name, Archetype: archetype, Stats: s}
}
