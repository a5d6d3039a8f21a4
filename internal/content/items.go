package content

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goober-game/goober/internal/game/item"
)

// ItemDef is the YAML form of one consumable item.
type ItemDef struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`
	TargetSelf bool    `yaml:"target_self"`
	Magnitude  float64 `yaml:"magnitude"`
	Cost       int     `yaml:"cost"`
}

// LoadItems reads all .yaml files in dir and builds an item catalog from
// them.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns a catalog with every parsed item registered, or a
// non-nil error naming the offending file and field.
func LoadItems(dir string) (*item.Catalog, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	catalog := item.NewCatalog()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var d ItemDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing item file %s: %w", path, err)
		}
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("item file %s: %w", path, err)
		}
		kind, _ := item.ParseKind(d.Kind)
		catalog.Register(item.Item{
			Name:       d.Name,
			Kind:       kind,
			TargetSelf: d.TargetSelf,
			Magnitude:  d.Magnitude,
			Cost:       d.Cost,
		})
	}
	return catalog, nil
}

func (d *ItemDef) validate() error {
	var errs []string
	if d.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if _, ok := item.ParseKind(d.Kind); !ok {
		errs = append(errs, fmt.Sprintf("kind %q is not recognized", d.Kind))
	}
	if d.Magnitude <= 0 {
		errs = append(errs, fmt.Sprintf("magnitude must be > 0, got %g", d.Magnitude))
	}
	if d.Cost < 0 {
		errs = append(errs, fmt.Sprintf("cost must be >= 0, got %d", d.Cost))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
