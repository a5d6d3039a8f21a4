// Package ai implements the opponent brain: difficulty tiers, a board
// evaluation heuristic, and a minimax search agent with alpha-beta pruning.
package ai

import "fmt"

// Difficulty tunes the agent. Depth is the search ply count; MistakeChance
// is the probability the agent ignores the search and plays a random legal
// action instead.
type Difficulty struct {
	Name          string
	Depth         int
	MistakeChance float64
}

var (
	// Easy barely looks ahead and blunders half the time.
	Easy = Difficulty{Name: "easy", Depth: 1, MistakeChance: 0.5}
	// Medium looks a few turns ahead with occasional blunders.
	Medium = Difficulty{Name: "medium", Depth: 3, MistakeChance: 0.3}
	// Hard searches deep and rarely errs.
	Hard = Difficulty{Name: "hard", Depth: 5, MistakeChance: 0.1}
	// Impossible plays the search result every time.
	Impossible = Difficulty{Name: "impossible", Depth: 7, MistakeChance: 0.0}
)

// ByName resolves a difficulty by its name.
//
// Postcondition: returns an error for unknown names.
func ByName(name string) (Difficulty, error) {
	switch name {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	case "impossible":
		return Impossible, nil
	default:
		return Difficulty{}, fmt.Errorf("unknown difficulty %q", name)
	}
}

// Next returns the next harder tier. Impossible escalates to itself.
func (d Difficulty) Next() Difficulty {
	switch d.Name {
	case "easy":
		return Medium
	case "medium":
		return Hard
	default:
		return Impossible
	}
}

// String returns the tier name.
func (d Difficulty) String() string { return d.Name }
