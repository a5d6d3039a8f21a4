// Package trainer models a battling trainer: a team of goobers, an item
// inventory, and a role that grants a passive and a once-per-battle ability.
package trainer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/game/item"
)

// Role is a trainer class. Each role carries a passive and an active
// ability; both are resolved by the battle engine.
type Role int

const (
	// RoleNone has no passive and no ability.
	RoleNone Role = iota
	// RoleNecromancer drains life on hit and can revive a fallen goober.
	RoleNecromancer
	// RoleGambler starts with a team crit buff and can flip a coin for
	// a big swing.
	RoleGambler
	// RoleCSStudent poisons the enemy team at the start and can execute
	// low-health targets.
	RoleCSStudent
	// RoleWeeb survives one lethal hit per battle and can fully restore
	// the active goober.
	RoleWeeb
	// RoleJoker randomly inflicts ailments on hit and can deal a large
	// stunning blow.
	RoleJoker
)

// String returns the display name of the role.
func (r Role) String() string {
	switch r {
	case RoleNecromancer:
		return "Necromancer"
	case RoleGambler:
		return "Gambler"
	case RoleCSStudent:
		return "CS Student"
	case RoleWeeb:
		return "Weeb"
	case RoleJoker:
		return "Joker"
	default:
		return "None"
	}
}

// ParseRole maps a display or content-file name to its Role.
func ParseRole(name string) (Role, bool) {
	switch name {
	case "Necromancer", "necromancer":
		return RoleNecromancer, true
	case "Gambler", "gambler":
		return RoleGambler, true
	case "CS Student", "cs_student":
		return RoleCSStudent, true
	case "Weeb", "weeb":
		return RoleWeeb, true
	case "Joker", "joker":
		return RoleJoker, true
	case "None", "none", "":
		return RoleNone, true
	default:
		return RoleNone, false
	}
}

// Trainer is one side of a battle.
//
// ActiveIndex always points at a team slot; the engine forces a switch when
// the active goober faints.
type Trainer struct {
	ID          uuid.UUID
	Name        string
	Role        Role
	Team        []*goober.Goober
	ActiveIndex int
	Inventory   []item.Item

	// AbilityUsed is set once the role ability resolves; abilities are
	// once per battle.
	AbilityUsed bool
	// PlotArmorUsed marks a spent Weeb passive.
	PlotArmorUsed bool
}

// New creates a trainer with the given team. The first slot starts active.
//
// Precondition: team is non-empty.
func New(name string, role Role, team []*goober.Goober) (*Trainer, error) {
	if len(team) == 0 {
		return nil, fmt.Errorf("trainer %q: team must not be empty", name)
	}
	return &Trainer{
		ID:   uuid.New(),
		Name: name,
		Role: role,
		Team: team,
	}, nil
}

// Active returns the goober currently in play.
func (t *Trainer) Active() *goober.Goober {
	return t.Team[t.ActiveIndex]
}

// ValidateSwitch reports whether the active slot could swap to index without
// performing the swap. Out-of-range indices are errors, never clamped.
func (t *Trainer) ValidateSwitch(index int) error {
	if index < 0 || index >= len(t.Team) {
		return fmt.Errorf("switch: index %d out of range for team of %d", index, len(t.Team))
	}
	if index == t.ActiveIndex {
		return fmt.Errorf("switch: %s is already active", t.Team[index].Name())
	}
	if t.Team[index].Fainted() {
		return fmt.Errorf("switch: %s has fainted", t.Team[index].Name())
	}
	return nil
}

// SwitchActive swaps the active slot to index.
//
// Postcondition: returns an error and leaves ActiveIndex unchanged if index
// is out of range, already active, or points at a fainted goober.
func (t *Trainer) SwitchActive(index int) error {
	if err := t.ValidateSwitch(index); err != nil {
		return err
	}
	t.ActiveIndex = index
	return nil
}

// Defeated reports whether every team member has fainted.
func (t *Trainer) Defeated() bool {
	for _, g := range t.Team {
		if !g.Fainted() {
			return false
		}
	}
	return true
}

// LivingCount returns the number of non-fainted team members.
func (t *Trainer) LivingCount() int {
	n := 0
	for _, g := range t.Team {
		if !g.Fainted() {
			n++
		}
	}
	return n
}

// AddItem appends an item to the inventory. Duplicates are allowed;
// each copy is consumed separately.
func (t *Trainer) AddItem(it item.Item) {
	t.Inventory = append(t.Inventory, it)
}

// HasItem reports whether at least one item with the given name is held.
func (t *Trainer) HasItem(name string) bool {
	for _, it := range t.Inventory {
		if it.Name == name {
			return true
		}
	}
	return false
}

// ConsumeItem removes and returns the first held item with the given name.
//
// Postcondition: returns an error if no such item is held.
func (t *Trainer) ConsumeItem(name string) (item.Item, error) {
	for i, it := range t.Inventory {
		if it.Name == name {
			t.Inventory = append(t.Inventory[:i], t.Inventory[i+1:]...)
			return it, nil
		}
	}
	return item.Item{}, fmt.Errorf("%s does not hold %q", t.Name, name)
}

// Copy returns a deep copy of the trainer for battle simulation. Team
// members and their status effects are cloned; the copy shares no mutable
// state with the original.
func (t *Trainer) Copy() *Trainer {
	team := make([]*goober.Goober, len(t.Team))
	for i, g := range t.Team {
		team[i] = g.Clone()
	}
	inv := make([]item.Item, len(t.Inventory))
	copy(inv, t.Inventory)
	return &Trainer{
		ID:            t.ID,
		Name:          t.Name,
		Role:          t.Role,
		Team:          team,
		ActiveIndex:   t.ActiveIndex,
		Inventory:     inv,
		AbilityUsed:   t.AbilityUsed,
		PlotArmorUsed: t.PlotArmorUsed,
	}
}
