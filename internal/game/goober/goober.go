package goober

import (
	"fmt"

	"github.com/google/uuid"
)

// Goober is one creature in play: an immutable species, its full move pool,
// and the mutable combat state. The ID is stable across clones so search
// nodes and serialized snapshots refer to the same instance.
type Goober struct {
	ID      string
	Species Species
	Moves   []Move
	State   *State
}

// New creates an instance of the species at the given level with full HP.
//
// Postcondition: returns a non-nil Goober with a fresh uuid ID; levels below
// 1 are clamped to 1.
func New(species Species, moves []Move, level int) *Goober {
	if level < 1 {
		level = 1
	}
	return &Goober{
		ID:      uuid.New().String(),
		Species: species,
		Moves:   moves,
		State:   NewState(species, level),
	}
}

// Name returns the species display name.
func (g *Goober) Name() string { return g.Species.Name }

// Level returns the current level.
func (g *Goober) Level() int { return g.State.XP.Level }

// Fainted reports whether the instance is out of the battle.
func (g *Goober) Fainted() bool { return g.State.Fainted() }

// UsableMoves returns the moves unlocked at the current level, in pool order.
func (g *Goober) UsableMoves() []Move {
	level := g.Level()
	usable := make([]Move, 0, len(g.Moves))
	for _, m := range g.Moves {
		if level >= m.UnlockLevel {
			usable = append(usable, m)
		}
	}
	return usable
}

// MoveAt returns the usable move at index. The index refers to the
// UsableMoves list, not the full pool.
//
// Postcondition: returns an error for out-of-range indices; never clamps.
func (g *Goober) MoveAt(index int) (Move, error) {
	usable := g.UsableMoves()
	if index < 0 || index >= len(usable) {
		return Move{}, fmt.Errorf("goober %s: move index %d out of range [0, %d)", g.Name(), index, len(usable))
	}
	return usable[index], nil
}

// TakeDamage reduces HP by dmg, flooring at zero.
//
// Precondition: dmg must be >= 0.
func (g *Goober) TakeDamage(dmg int) {
	g.State.AdjustHealth(-dmg)
}

// Heal restores HP by amount, capped at max HP.
//
// Precondition: amount must be >= 0.
func (g *Goober) Heal(amount int) {
	g.State.AdjustHealth(amount)
}

// GainXP grants experience and reports whether a level was gained.
func (g *Goober) GainXP(amount int) bool {
	return g.State.GainXP(amount)
}

// Clone returns a deep copy: same ID, species, and move pool, with the
// combat state and every active effect independently owned. Mutating the
// clone never reaches the original. The search agent depends on this.
func (g *Goober) Clone() *Goober {
	return &Goober{
		ID:      g.ID,
		Species: g.Species,
		Moves:   g.Moves,
		State:   g.State.clone(),
	}
}
