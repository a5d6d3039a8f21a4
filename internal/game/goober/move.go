package goober

import "github.com/goober-game/goober/internal/game/effect"

// TargetScope identifies which combat instances a move's attached effect
// reaches on a successful use.
type TargetScope int

const (
	// ScopeSelf targets the acting instance.
	ScopeSelf TargetScope = iota
	// ScopeEnemy targets the opposing active instance.
	ScopeEnemy
	// ScopeAllAllies targets every non-fainted instance on the actor's team.
	ScopeAllAllies
	// ScopeAllEnemies targets every non-fainted instance on the opposing team.
	ScopeAllEnemies
)

// String returns the content-file name of the scope.
func (s TargetScope) String() string {
	switch s {
	case ScopeSelf:
		return "self"
	case ScopeEnemy:
		return "enemy"
	case ScopeAllAllies:
		return "all_allies"
	case ScopeAllEnemies:
		return "all_enemies"
	default:
		return "unknown"
	}
}

// ParseTargetScope maps a content-file scope name to its TargetScope.
func ParseTargetScope(name string) (TargetScope, bool) {
	switch name {
	case "self":
		return ScopeSelf, true
	case "enemy":
		return ScopeEnemy, true
	case "all_allies":
		return ScopeAllAllies, true
	case "all_enemies":
		return ScopeAllEnemies, true
	default:
		return 0, false
	}
}

// Move is an immutable action template: base damage, accuracy, critical
// bonus, target scope, an optional attached effect template, and the level
// at which the move unlocks.
type Move struct {
	Name        string
	Damage      int
	HitChance   float64
	CritChance  float64
	Scope       TargetScope
	UnlockLevel int

	// Effect is an unbound template copied per target on a successful use;
	// nil when the move has no side effect.
	Effect *effect.Effect
}
