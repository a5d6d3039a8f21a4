package goober

import (
	"math"

	"github.com/goober-game/goober/internal/game/effect"
)

// State is the mutable combat state of one instance: current HP, derived
// stats, transient conditions, active effects, and XP progression. All
// permanent values live on the Species.
//
// Invariant: 0 <= CurrentHP <= MaxHP; CritChance and Defence stay in [0, 1].
// It is not safe for concurrent use; a battle owns its states exclusively.
type State struct {
	species Species

	MaxHP      int
	CurrentHP  int
	Attack     int
	CritChance float64
	Defence    float64
	Speed      int

	// Stunned blocks most actions this turn. PendingStun is the queued
	// flag a stun effect sets; it is promoted to Stunned only at the next
	// turn start, never in the same turn it was queued.
	Stunned     bool
	PendingStun bool

	// Accuracy multiplies move hit chances; 1.0 means unimpaired.
	Accuracy float64

	// levelBaseAttack is the unmodified attack at the current level, used
	// to cap damage buffs at three times the level base.
	levelBaseAttack int

	XP XPTracker

	effects []*effect.Effect
}

// NewState builds the combat state for a species at the given level with
// full HP and no conditions.
func NewState(species Species, level int) *State {
	s := &State{
		species:  species,
		Accuracy: 1.0,
		XP:       NewXPTracker(level),
	}
	s.Recalculate(s.XP.Level)
	s.CurrentHP = s.MaxHP
	return s
}

// Recalculate derives all stats from the species block at the given level
// using the non-linear curve stat = base + growth * (level-1)^1.5. Crit and
// defence are clamped to [0, 1]; speed combines the archetype base with a
// linear level term.
//
// Postcondition: levelBaseAttack equals the freshly derived attack.
func (s *State) Recalculate(level int) {
	multiplier := math.Pow(float64(level-1), 1.5)
	st := s.species.Stats

	s.MaxHP = st.BaseHP + int(float64(st.HPGrowth)*multiplier)
	s.Attack = st.BaseAttack + int(float64(st.AttackGrowth)*multiplier)
	s.CritChance = math.Min(st.BaseCrit+st.CritGrowth*multiplier, 1.0)
	s.Defence = math.Min(st.BaseDefence+st.DefenceGrowth*multiplier, 1.0)
	s.levelBaseAttack = s.Attack

	s.Speed = int(float64(s.species.Archetype.baseSpeed()) + float64(level)*1.5)
}

// MaxHealth returns the current maximum HP. Part of the effect.Target contract.
func (s *State) MaxHealth() int { return s.MaxHP }

// AdjustHealth shifts current HP by delta and clamps to [0, MaxHP].
// Positive deltas heal, negative deltas damage.
func (s *State) AdjustHealth(delta int) {
	s.CurrentHP += delta
	if s.CurrentHP < 0 {
		s.CurrentHP = 0
	}
	if s.CurrentHP > s.MaxHP {
		s.CurrentHP = s.MaxHP
	}
}

// SetHealth sets current HP to value, clamped to [0, MaxHP].
func (s *State) SetHealth(value int) {
	s.CurrentHP = value
	if s.CurrentHP < 0 {
		s.CurrentHP = 0
	}
	if s.CurrentHP > s.MaxHP {
		s.CurrentHP = s.MaxHP
	}
}

// Fainted reports whether the instance is out of the battle.
func (s *State) Fainted() bool { return s.CurrentHP <= 0 }

// QueueStun marks the instance to become stunned at the next turn start.
// Only one queued stun is pending at a time; further queues are absorbed.
func (s *State) QueueStun() { s.PendingStun = true }

// PromoteQueuedStun promotes a pending stun to an active one and clears the
// queue. Called by the turn engine once per turn before actions execute.
func (s *State) PromoteQueuedStun() {
	s.Stunned = s.PendingStun
	s.PendingStun = false
}

// ClearStun removes an active stun.
func (s *State) ClearStun() { s.Stunned = false }

// Dizzy reports whether accuracy has been reduced from its default.
func (s *State) Dizzy() bool { return s.Accuracy != 1.0 }

// ModifyStat applies a fractional stat change and returns the delta actually
// applied after clamping, which the caller must retain to revert precisely.
//
// Damage modifications are capped at three times the level-base attack and
// floored so attack never drops below 1. Crit and defence scale relative to
// their current value and clamp to [0, 1]. Dizzy subtracts from the accuracy
// multiplier, floored at 0.
func (s *State) ModifyStat(kind effect.Kind, strength float64) float64 {
	switch kind {
	case effect.CritMod:
		old := s.CritChance
		s.CritChance = clamp01(s.CritChance + s.CritChance*strength)
		return s.CritChance - old

	case effect.DamageMod:
		change := int(float64(s.Attack) * strength)
		limit := s.levelBaseAttack * 3
		if strength > 0 {
			if s.Attack >= limit {
				return 0
			}
			if s.Attack+change > limit {
				change = limit - s.Attack
			}
		}
		if s.Attack+change < 1 {
			change = 1 - s.Attack
		}
		s.Attack += change
		return float64(change)

	case effect.DefenceMod:
		old := s.Defence
		s.Defence = clamp01(s.Defence + s.Defence*strength)
		return s.Defence - old

	case effect.Dizzy:
		old := s.Accuracy
		s.Accuracy = math.Max(0, s.Accuracy-strength)
		return old - s.Accuracy

	default:
		return 0
	}
}

// RevertStat undoes a previously applied stat delta. The amount must be the
// value ModifyStat returned for the matching application.
func (s *State) RevertStat(kind effect.Kind, amount float64) {
	switch kind {
	case effect.DamageMod:
		s.Attack -= int(amount)
		if s.Attack < 1 {
			s.Attack = 1
		}
	case effect.DefenceMod:
		s.Defence = clamp01(s.Defence - amount)
	case effect.CritMod:
		s.CritChance = clamp01(s.CritChance - amount)
	case effect.Dizzy:
		s.Accuracy = math.Min(1.0, s.Accuracy+amount)
	}
}

// AddEffect attaches an effect to this state, binding it first if the caller
// passed an unbound template copy. Stat modifications take hold immediately;
// per-tick effects wait for the next TickEffects.
func (s *State) AddEffect(e *effect.Effect) {
	if !e.Bound() {
		e.Bind(s)
	}
	e.Activate()
	s.effects = append(s.effects, e)
}

// RemoveEffect drops e from the active list without cancelling it. Used when
// an effect expired on its immediate post-attach tick.
func (s *State) RemoveEffect(e *effect.Effect) {
	for i, cur := range s.effects {
		if cur == e {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// TickEffects applies every active effect once, removes the expired ones,
// and returns the kinds that expired this tick.
func (s *State) TickEffects() []effect.Kind {
	var expired []effect.Kind
	for i := len(s.effects) - 1; i >= 0; i-- {
		e := s.effects[i]
		if e.Apply() {
			expired = append(expired, e.Kind)
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
		}
	}
	return expired
}

// ClearEffects cancels all reversible modifications and empties the effect
// list. Used by cleanse abilities.
func (s *State) ClearEffects() {
	for _, e := range s.effects {
		e.Cancel()
	}
	s.effects = nil
}

// Effects returns the live active-effect list. Callers must not mutate it;
// use AddEffect and ClearEffects.
func (s *State) Effects() []*effect.Effect { return s.effects }

// GainXP grants experience. On level-up the stats are re-derived for the new
// level and the instance is fully healed.
//
// Postcondition: returns true iff at least one level was gained.
func (s *State) GainXP(amount int) bool {
	leveled := s.XP.Add(amount)
	if leveled {
		s.Recalculate(s.XP.Level)
		s.CurrentHP = s.MaxHP
	}
	return leveled
}

// clone returns a deep copy of the state, including active effects in their
// current lifecycle state bound to the copy.
func (s *State) clone() *State {
	ns := &State{}
	*ns = *s
	ns.effects = make([]*effect.Effect, 0, len(s.effects))
	for _, e := range s.effects {
		ns.effects = append(ns.effects, e.Clone(ns))
	}
	return ns
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
