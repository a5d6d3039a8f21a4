package battle

import "github.com/goober-game/goober/internal/game/trainer"

// Phase is the battle lifecycle stage.
type Phase int

const (
	// PhaseInProgress means both sides still have living goobers.
	PhaseInProgress Phase = iota
	// PhasePlayerWon means the opponent's team is entirely fainted.
	PhasePlayerWon
	// PhaseOpponentWon means the player's team is entirely fainted.
	PhaseOpponentWon
)

// String returns the display name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in progress"
	case PhasePlayerWon:
		return "player won"
	case PhaseOpponentWon:
		return "opponent won"
	default:
		return "unknown"
	}
}

// State is the shared battle state: the two sides, the phase, and the turn
// counter. The player side is the human; defeat experience is only awarded
// to their team.
type State struct {
	Player   *trainer.Trainer
	Opponent *trainer.Trainer
	Phase    Phase
	Turn     int
}

// Finished reports whether either side has been defeated.
func (s *State) Finished() bool { return s.Phase != PhaseInProgress }

// Winner returns the winning trainer, or nil while the battle runs.
func (s *State) Winner() *trainer.Trainer {
	switch s.Phase {
	case PhasePlayerWon:
		return s.Player
	case PhaseOpponentWon:
		return s.Opponent
	default:
		return nil
	}
}

// OpposingSide returns the trainer facing t.
//
// Precondition: t must be one of the two sides.
func (s *State) OpposingSide(t *trainer.Trainer) *trainer.Trainer {
	if t == s.Player {
		return s.Opponent
	}
	return s.Player
}
