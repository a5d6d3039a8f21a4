package battle

import "github.com/goober-game/goober/internal/game/action"

// Event records what happened when one action (or turn-start tick) was
// resolved. Narrative is the display form; the typed fields let callers and
// tests inspect outcomes without parsing text.
type Event struct {
	Action    action.Type
	Actor     string
	Target    string
	Move      string
	Damage    int
	Critical  bool
	Missed    bool
	Fainted   bool
	Narrative string
}

// TurnResult is the outcome of one resolved turn.
type TurnResult struct {
	Events   []Event
	Finished bool
	// Winner is the winning trainer's name, empty while the battle runs.
	Winner string
}
