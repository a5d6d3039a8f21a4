package content

import (
	"fmt"

	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/game/item"
)

// Registry provides lookup of loaded species and the item catalog, and
// stamps out battle-ready goober instances.
type Registry struct {
	species map[string]*SpeciesDef
	names   []string
	items   *item.Catalog
}

// NewRegistry builds a registry from loaded definitions. A nil catalog
// falls back to the built-in item table.
func NewRegistry(defs []*SpeciesDef, catalog *item.Catalog) *Registry {
	if catalog == nil {
		catalog = item.DefaultCatalog()
	}
	r := &Registry{species: make(map[string]*SpeciesDef), items: catalog}
	for _, d := range defs {
		if _, exists := r.species[d.Name]; !exists {
			r.names = append(r.names, d.Name)
		}
		r.species[d.Name] = d
	}
	return r
}

// LoadRegistry loads species and items from their content directories.
func LoadRegistry(speciesDir, itemsDir string) (*Registry, error) {
	defs, err := LoadSpecies(speciesDir)
	if err != nil {
		return nil, err
	}
	catalog, err := LoadItems(itemsDir)
	if err != nil {
		return nil, err
	}
	return NewRegistry(defs, catalog), nil
}

// SpeciesNames returns the loaded species names in file order.
func (r *Registry) SpeciesNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Items returns the item catalog.
func (r *Registry) Items() *item.Catalog { return r.items }

// NewGoober creates an instance of the named species at the given level.
//
// Postcondition: returns an error for unknown species names.
func (r *Registry) NewGoober(name string, level int) (*goober.Goober, error) {
	d, ok := r.species[name]
	if !ok {
		return nil, fmt.Errorf("unknown species %q", name)
	}
	return goober.New(d.Species(), d.MovePool(), level), nil
}
