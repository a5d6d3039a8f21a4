// Package effect implements the timed status effects that battles apply to
// combat instances: damage over time, healing over time, stun, and the
// one-shot-with-revert stat modifications.
//
// The variant set is closed. Each effect is a Kind-dispatched value rather
// than an open hierarchy; Apply performs one tick and reports expiry, at
// which point the owner must remove the effect from its list.
package effect

import "fmt"

// Kind identifies one of the closed set of effect variants.
type Kind int

const (
	// Poison drains HP each tick. The per-tick amount is a fraction of the
	// target's max HP, fixed when the effect is bound.
	Poison Kind = iota
	// Heal restores HP each tick, recomputed from current max HP.
	Heal
	// Stun queues disablement; the queued stun is promoted to an active
	// block by the turn engine at the start of the next resolution.
	Stun
	// Dizzy lowers the target's accuracy multiplier once and restores the
	// exact amount on expiry.
	Dizzy
	// DamageMod shifts the target's attack stat once and reverts on expiry.
	DamageMod
	// DefenceMod shifts the target's defence fraction once and reverts on expiry.
	DefenceMod
	// CritMod shifts the target's critical chance once and reverts on expiry.
	CritMod
)

// String returns the display name of the effect kind.
func (k Kind) String() string {
	switch k {
	case Poison:
		return "Poison"
	case Heal:
		return "Heal"
	case Stun:
		return "Stun"
	case Dizzy:
		return "Dizzy"
	case DamageMod:
		return "Damage Modification"
	case DefenceMod:
		return "Defence Modification"
	case CritMod:
		return "Crit Modification"
	default:
		return "unknown"
	}
}

// ParseKind maps a content-file kind name to its Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "poison":
		return Poison, true
	case "heal":
		return Heal, true
	case "stun":
		return Stun, true
	case "dizzy":
		return Dizzy, true
	case "damage_mod":
		return DamageMod, true
	case "defence_mod":
		return DefenceMod, true
	case "crit_mod":
		return CritMod, true
	default:
		return 0, false
	}
}

// IsStatModification reports whether the kind applies a one-shot stat delta
// that must be reverted on expiry. Dizzy belongs here: it is an accuracy
// modification with the same apply-once/revert contract.
func (k Kind) IsStatModification() bool {
	switch k {
	case Dizzy, DamageMod, DefenceMod, CritMod:
		return true
	default:
		return false
	}
}

// Target is the mutable combat state an effect acts on. goober.State
// implements it; the local interface keeps this package free of a dependency
// on the model package.
type Target interface {
	// MaxHealth returns the target's current maximum HP.
	MaxHealth() int
	// AdjustHealth shifts current HP by delta, clamped to [0, max].
	AdjustHealth(delta int)
	// QueueStun marks the target to become stunned at the next turn start.
	QueueStun()
	// ClearStun removes an active stun.
	ClearStun()
	// ModifyStat applies a fractional stat change and returns the delta
	// actually applied after clamping.
	ModifyStat(kind Kind, strength float64) float64
	// RevertStat undoes a previously applied stat delta.
	RevertStat(kind Kind, amount float64)
}

// Effect is one active (or template) status effect.
//
// A template effect has no target; Bind attaches one before the first Apply.
// Duration counts remaining ticks. Strength scales the variant's magnitude.
type Effect struct {
	Kind     Kind
	Duration int
	Strength float64

	// Magnitude is the fixed per-tick HP drain for Poison, computed at bind
	// time so later max-HP changes do not alter an ongoing poison.
	Magnitude int

	// Applied and AppliedDelta track the one-shot stat modifications so
	// expiry reverts exactly the post-clamp amount that was applied,
	// never a recomputed one.
	Applied      bool
	AppliedDelta float64

	target Target
}

// New creates an unbound effect template.
//
// Postcondition: the returned effect has no target; Bind must be called
// before Apply.
func New(kind Kind, duration int, strength float64) *Effect {
	return &Effect{Kind: kind, Duration: duration, Strength: strength}
}

// Bind attaches the effect to its target. For Poison the per-tick drain is
// fixed here from the target's max HP.
//
// Precondition: t must not be nil.
func (e *Effect) Bind(t Target) {
	if t == nil {
		panic("effect: Bind called with nil target")
	}
	e.target = t
	if e.Kind == Poison {
		e.Magnitude = int(float64(t.MaxHealth()) * e.Strength)
	}
}

// Bound reports whether the effect has a target.
func (e *Effect) Bound() bool { return e.target != nil }

// Activate realizes a stat modification at attach time without consuming a
// tick, so a one-turn debuff lands the moment it is inflicted and still
// lasts its full duration. Per-tick kinds do nothing here; their work
// happens in Apply.
//
// Precondition: the effect must be bound.
func (e *Effect) Activate() {
	if e.target == nil {
		panic(fmt.Sprintf("effect: %s activated with no bound target", e.Kind))
	}
	if !e.Kind.IsStatModification() || e.Applied {
		return
	}
	e.AppliedDelta = e.target.ModifyStat(e.Kind, e.Strength)
	e.Applied = true
}

// Apply performs one tick: mutates the target, decrements Duration, and
// reports whether the effect has expired and must be removed. Expiring
// stat modifications revert their recorded delta.
//
// Precondition: the effect must be bound. An unbound Apply is a construction
// bug upstream and fails loudly.
func (e *Effect) Apply() bool {
	if e.target == nil {
		panic(fmt.Sprintf("effect: %s applied with no bound target", e.Kind))
	}

	switch e.Kind {
	case Poison:
		e.target.AdjustHealth(-e.Magnitude)
		e.Duration--
		return e.Duration <= 0

	case Heal:
		// Recomputed each tick so level-ups mid-effect heal for the new max.
		amount := int(float64(e.target.MaxHealth()) * e.Strength)
		e.target.AdjustHealth(amount)
		e.Duration--
		return e.Duration <= 0

	case Stun:
		e.target.QueueStun()
		e.Duration--
		if e.Duration <= 0 {
			e.target.ClearStun()
			return true
		}
		return false

	default:
		// Stat modifications: apply once, revert the exact delta on expiry.
		if !e.Applied {
			e.AppliedDelta = e.target.ModifyStat(e.Kind, e.Strength)
			e.Applied = true
		}
		e.Duration--
		if e.Duration <= 0 {
			e.target.RevertStat(e.Kind, e.AppliedDelta)
			return true
		}
		return false
	}
}

// Cancel undoes the effect's reversible modification without waiting for
// expiry. Used when a cleanse removes effects mid-battle. Non-stat kinds
// have nothing to revert.
func (e *Effect) Cancel() {
	if e.target == nil || !e.Applied || !e.Kind.IsStatModification() {
		return
	}
	e.target.RevertStat(e.Kind, e.AppliedDelta)
	e.Applied = false
	e.AppliedDelta = 0
}

// Copy returns a fresh, unapplied template with the same kind, duration, and
// strength but no target. Move templates are copied per target this way, and
// it is the template side of the search agent's cloning.
func (e *Effect) Copy() *Effect {
	return New(e.Kind, e.Duration, e.Strength)
}

// Clone returns a deep copy of the effect in its current lifecycle state,
// bound to t. Unlike Copy, the applied flag, applied delta, and fixed poison
// magnitude carry over, so a cloned stat modification neither re-applies nor
// reverts the wrong amount. Used when cloning whole combat states for search.
//
// Precondition: t must not be nil.
func (e *Effect) Clone(t Target) *Effect {
	if t == nil {
		panic("effect: Clone called with nil target")
	}
	return &Effect{
		Kind:         e.Kind,
		Duration:     e.Duration,
		Strength:     e.Strength,
		Magnitude:    e.Magnitude,
		Applied:      e.Applied,
		AppliedDelta: e.AppliedDelta,
		target:       t,
	}
}
