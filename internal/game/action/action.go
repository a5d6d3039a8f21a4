// Package action defines the moves a trainer can submit for a battle turn.
package action

import (
	"fmt"

	"github.com/goober-game/goober/internal/game/trainer"
)

// Type discriminates the action union.
type Type int

const (
	// TypeNone is the absent action: the side submits nothing this turn and
	// the engine skips it. The zero-value Action is a valid TypeNone.
	TypeNone Type = iota
	// TypeAttack uses one of the active goober's moves.
	TypeAttack
	// TypeSwitch swaps the active goober for a benched one.
	TypeSwitch
	// TypeUseItem consumes an inventory item.
	TypeUseItem
	// TypeAbility triggers the trainer's once-per-battle role ability.
	TypeAbility
)

// String returns the display name of the action type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeAttack:
		return "attack"
	case TypeSwitch:
		return "switch"
	case TypeUseItem:
		return "item"
	case TypeAbility:
		return "ability"
	default:
		return "unknown"
	}
}

// Action is one submitted battle action. Exactly one of the payload fields
// is meaningful, selected by Type: MoveIndex for attacks, TargetIndex for
// switches, ItemName for item use. Abilities carry no payload.
type Action struct {
	Type        Type
	Actor       *trainer.Trainer
	MoveIndex   int
	TargetIndex int
	ItemName    string
}

// None builds the absent action for a side that submits nothing this turn.
func None() Action {
	return Action{Type: TypeNone}
}

// Attack builds an attack with the actor's move at moveIndex.
func Attack(actor *trainer.Trainer, moveIndex int) Action {
	return Action{Type: TypeAttack, Actor: actor, MoveIndex: moveIndex}
}

// Switch builds a switch to the team slot at targetIndex.
func Switch(actor *trainer.Trainer, targetIndex int) Action {
	return Action{Type: TypeSwitch, Actor: actor, TargetIndex: targetIndex}
}

// UseItem builds an item use for the named inventory item.
func UseItem(actor *trainer.Trainer, itemName string) Action {
	return Action{Type: TypeUseItem, Actor: actor, ItemName: itemName}
}

// Ability builds a role-ability use.
func Ability(actor *trainer.Trainer) Action {
	return Action{Type: TypeAbility, Actor: actor}
}

// Describe returns a short human-readable form for logs.
func (a Action) Describe() string {
	switch a.Type {
	case TypeNone:
		return "no action"
	case TypeAttack:
		return fmt.Sprintf("%s attacks with move %d", a.Actor.Name, a.MoveIndex)
	case TypeSwitch:
		return fmt.Sprintf("%s switches to slot %d", a.Actor.Name, a.TargetIndex)
	case TypeUseItem:
		return fmt.Sprintf("%s uses %s", a.Actor.Name, a.ItemName)
	case TypeAbility:
		return fmt.Sprintf("%s uses their %s ability", a.Actor.Name, a.Actor.Role)
	default:
		return fmt.Sprintf("%s does nothing", a.Actor.Name)
	}
}

// Rebind returns a copy of the action with a different actor. The search
// agent uses this to replay a candidate action against cloned trainers.
func (a Action) Rebind(actor *trainer.Trainer) Action {
	a.Actor = actor
	return a
}
