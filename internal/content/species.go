// Package content loads game data from YAML files: species definitions with
// their move pools, and the item catalog. Each entity lives in its own file
// inside a content directory.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goober-game/goober/internal/game/effect"
	"github.com/goober-game/goober/internal/game/goober"
)

// EffectDef is the YAML form of a move's attached effect template.
type EffectDef struct {
	Kind     string  `yaml:"kind"`
	Duration int     `yaml:"duration"`
	Strength float64 `yaml:"strength"`
}

// MoveDef is the YAML form of one move in a species' pool.
type MoveDef struct {
	Name        string     `yaml:"name"`
	Damage      int        `yaml:"damage"`
	HitChance   float64    `yaml:"hit_chance"`
	CritChance  float64    `yaml:"crit_chance"`
	Scope       string     `yaml:"scope"`
	UnlockLevel int        `yaml:"unlock_level"`
	Effect      *EffectDef `yaml:"effect"`
}

// SpeciesDef is the YAML form of a species: an archetype plus hand-tuned
// deltas on the archetype's base stats, and the full move pool.
type SpeciesDef struct {
	Name         string    `yaml:"name"`
	Archetype    string    `yaml:"archetype"`
	HPDelta      int       `yaml:"hp_delta"`
	AttackDelta  int       `yaml:"attack_delta"`
	DefenceDelta float64   `yaml:"defence_delta"`
	CritDelta    float64   `yaml:"crit_delta"`
	Moves        []MoveDef `yaml:"moves"`
}

// LoadSpecies reads all .yaml files in dir and parses each as a SpeciesDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed definitions or a non-nil error naming
// the offending file and field.
func LoadSpecies(dir string) ([]*SpeciesDef, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	defs := make([]*SpeciesDef, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var d SpeciesDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing species file %s: %w", path, err)
		}
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("species file %s: %w", path, err)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}

func (d *SpeciesDef) validate() error {
	var errs []string
	if d.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if _, ok := goober.ParseArchetype(d.Archetype); !ok {
		errs = append(errs, fmt.Sprintf("archetype %q is not recognized", d.Archetype))
	}
	for i, m := range d.Moves {
		if m.Name == "" {
			errs = append(errs, fmt.Sprintf("moves[%d].name must not be empty", i))
		}
		if m.Damage < 0 {
			errs = append(errs, fmt.Sprintf("moves[%d].damage must be >= 0, got %d", i, m.Damage))
		}
		if m.HitChance < 0 || m.HitChance > 1 {
			errs = append(errs, fmt.Sprintf("moves[%d].hit_chance must be in [0, 1], got %g", i, m.HitChance))
		}
		if m.CritChance < 0 || m.CritChance > 1 {
			errs = append(errs, fmt.Sprintf("moves[%d].crit_chance must be in [0, 1], got %g", i, m.CritChance))
		}
		if m.Scope != "" {
			if _, ok := goober.ParseTargetScope(m.Scope); !ok {
				errs = append(errs, fmt.Sprintf("moves[%d].scope %q is not recognized", i, m.Scope))
			}
		}
		if m.UnlockLevel < 0 {
			errs = append(errs, fmt.Sprintf("moves[%d].unlock_level must be >= 0, got %d", i, m.UnlockLevel))
		}
		if m.Effect != nil {
			if _, ok := effect.ParseKind(m.Effect.Kind); !ok {
				errs = append(errs, fmt.Sprintf("moves[%d].effect.kind %q is not recognized", i, m.Effect.Kind))
			}
			if m.Effect.Duration < 1 {
				errs = append(errs, fmt.Sprintf("moves[%d].effect.duration must be >= 1, got %d", i, m.Effect.Duration))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Species builds the immutable species value from the definition.
//
// Precondition: validate must have passed.
func (d *SpeciesDef) Species() goober.Species {
	archetype, _ := goober.ParseArchetype(d.Archetype)
	return goober.NewSpecies(d.Name, archetype, d.HPDelta, d.AttackDelta, d.DefenceDelta, d.CritDelta)
}

// MovePool builds the move templates from the definition.
func (d *SpeciesDef) MovePool() []goober.Move {
	moves := make([]goober.Move, 0, len(d.Moves))
	for _, m := range d.Moves {
		scope, _ := goober.ParseTargetScope(m.Scope)
		move := goober.Move{
			Name:        m.Name,
			Damage:      m.Damage,
			HitChance:   m.HitChance,
			CritChance:  m.CritChance,
			Scope:       scope,
			UnlockLevel: m.UnlockLevel,
		}
		if m.Effect != nil {
			kind, _ := effect.ParseKind(m.Effect.Kind)
			move.Effect = effect.New(kind, m.Effect.Duration, m.Effect.Strength)
		}
		moves = append(moves, move)
	}
	return moves
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
