// Package item implements consumable battle items and the default catalog.
// Items are single-use: resolving one removes it from the trainer's
// inventory.
package item

import "fmt"

// Kind describes the basic behavior of a battle item.
type Kind int

const (
	// KindHeal restores a fraction of the target's max HP.
	KindHeal Kind = iota
	// KindDamage removes a fraction of the target's current HP.
	KindDamage
	// KindStun applies a stun effect for Magnitude turns.
	KindStun
)

// String returns the content-file name of the kind.
func (k Kind) String() string {
	switch k {
	case KindHeal:
		return "heal"
	case KindDamage:
		return "damage"
	case KindStun:
		return "stun"
	default:
		return "unknown"
	}
}

// ParseKind maps a content-file kind name to its Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "heal":
		return KindHeal, true
	case "damage":
		return KindDamage, true
	case "stun":
		return KindStun, true
	default:
		return 0, false
	}
}

// Item is one consumable. Magnitude is the kind-specific strength: a max-HP
// fraction for heals, a current-HP fraction for damage, and a turn count for
// stuns. Cost is the shop price, which also weighs the item in the search
// heuristic.
type Item struct {
	Name       string
	Kind       Kind
	TargetSelf bool
	Magnitude  float64
	Cost       int
}

// Catalog resolves item names to definitions and stamps out fresh instances.
type Catalog struct {
	defs  map[string]Item
	names []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]Item)}
}

// Register adds or replaces a definition.
//
// Postcondition: Create(def.Name) succeeds.
func (c *Catalog) Register(def Item) {
	if _, exists := c.defs[def.Name]; !exists {
		c.names = append(c.names, def.Name)
	}
	c.defs[def.Name] = def
}

// Create returns a new instance of the named item.
//
// Postcondition: returns an error for unknown names, never a zero Item.
func (c *Catalog) Create(name string) (Item, error) {
	def, ok := c.defs[name]
	if !ok {
		return Item{}, fmt.Errorf("unknown item %q", name)
	}
	return def, nil
}

// Names returns all registered item names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// DefaultCatalog returns the built-in item table. Content files may replace
// it, but the defaults mirror the shipped game data.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Register(Item{Name: "Baby Thing", Kind: KindStun, Magnitude: 1.0, Cost: 5})
	c.Register(Item{Name: "Job Application", Kind: KindStun, Magnitude: 2.0, Cost: 10})
	c.Register(Item{Name: "Plankton", Kind: KindHeal, TargetSelf: true, Magnitude: 0.25, Cost: 5})
	c.Register(Item{Name: "Freakbob", Kind: KindHeal, TargetSelf: true, Magnitude: 0.50, Cost: 10})
	c.Register(Item{Name: "Chicken Nugget", Kind: KindDamage, Magnitude: 0.15, Cost: 5})
	c.Register(Item{Name: "The Annoying Orange", Kind: KindDamage, Magnitude: 0.25, Cost: 10})
	return c
}

// StarterInventory returns the basic loadout new trainers begin with.
func StarterInventory(c *Catalog) ([]Item, error) {
	var items []Item
	for _, name := range []string{"Plankton", "The Annoying Orange", "Chicken Nugget"} {
		it, err := c.Create(name)
		if err != nil {
			return nil, fmt.Errorf("starter inventory: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}
