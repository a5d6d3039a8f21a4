package battle

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/goober-game/goober/internal/game/action"
	"github.com/goober-game/goober/internal/game/effect"
	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/game/item"
	"github.com/goober-game/goober/internal/game/trainer"
)

const (
	// lifestealFraction is the share of dealt damage a Necromancer's
	// goobers drain back.
	lifestealFraction = 0.2
	// jokerAilmentChance is the per-hit chance a Joker's goobers inflict
	// a random ailment.
	jokerAilmentChance = 0.33
	// executeThreshold is the enemy HP fraction below which the CS
	// Student ability kills outright.
	executeThreshold = 0.2
)

// Manager owns a battle from start to finish: it applies start-of-battle
// role passives, resolves submitted turns in priority order, and detects the
// win condition.
//
// Not safe for concurrent use; one goroutine drives a battle.
type Manager struct {
	state *State
	calc  *Calculator
	src   roller
	log   *zap.Logger
}

// roller is the subset of rng.Source the manager rolls on directly.
type roller interface {
	Intn(n int) int
	Float64() float64
}

// NewManager starts a battle between player and opponent. Start-of-battle
// passives fire here: a CS Student poisons the entire enemy team, a Gambler
// buffs their own team's crit chance.
//
// Precondition: both trainers and src must not be nil. A nil logger is
// replaced with a no-op one.
func NewManager(player, opponent *trainer.Trainer, src roller, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		state: &State{Player: player, Opponent: opponent},
		calc:  NewCalculator(src),
		src:   src,
		log:   log,
	}
	m.applyStartPassives(player, opponent)
	m.applyStartPassives(opponent, player)
	return m
}

// State returns the live battle state.
func (m *Manager) State() *State { return m.state }

func (m *Manager) applyStartPassives(side, enemy *trainer.Trainer) {
	switch side.Role {
	case trainer.RoleCSStudent:
		for _, g := range enemy.Team {
			g.State.AddEffect(effect.New(effect.Poison, 999, 0.05))
		}
		m.log.Debug("start passive poisoned enemy team", zap.String("trainer", side.Name))
	case trainer.RoleGambler:
		for _, g := range side.Team {
			g.State.AddEffect(effect.New(effect.CritMod, 999, 0.15))
		}
		m.log.Debug("start passive buffed team crit", zap.String("trainer", side.Name))
	}
}

// ResolveTurn executes one full turn from the two submitted actions. Either
// action may be the absent TypeNone, which resolves as a no-op for that side.
//
// Turn order: active goobers tick their effects and promote queued stuns,
// then items and abilities resolve in submission order, then switches, then
// attacks by active-goober speed with ties going to the player. The second
// action is skipped if the first ends the battle.
//
// Postcondition: a structurally illegal action, an out-of-range move or
// team index, is a reported error and the turn does not advance. Calling on
// a finished battle is a no-op that reports the standing result.
func (m *Manager) ResolveTurn(playerAction, opponentAction action.Action) (TurnResult, error) {
	if m.state.Finished() {
		return m.result(nil), nil
	}
	if err := m.validateAction(playerAction); err != nil {
		return TurnResult{}, err
	}
	if err := m.validateAction(opponentAction); err != nil {
		return TurnResult{}, err
	}
	m.state.Turn++

	var events []Event
	for _, side := range []*trainer.Trainer{m.state.Player, m.state.Opponent} {
		events = append(events, m.startOfTurn(side)...)
	}
	if m.checkWinCondition() {
		return m.result(events), nil
	}

	first, second := m.orderActions(playerAction, opponentAction)
	events = append(events, m.executeAction(first)...)
	if m.checkWinCondition() {
		return m.result(events), nil
	}
	events = append(events, m.executeAction(second)...)
	m.checkWinCondition()
	return m.result(events), nil
}

// validateAction rejects structurally illegal submissions before any state
// changes. Eligibility failures that depend on battle state, a fainted or
// stunned active or a missing inventory item, resolve as skip events instead.
func (m *Manager) validateAction(a action.Action) error {
	if a.Type == action.TypeNone {
		return nil
	}
	if a.Actor == nil {
		return fmt.Errorf("battle: %s action has no actor", a.Type)
	}
	switch a.Type {
	case action.TypeAttack:
		if _, err := a.Actor.Active().MoveAt(a.MoveIndex); err != nil {
			return fmt.Errorf("battle: %s: %w", a.Actor.Name, err)
		}
	case action.TypeSwitch:
		if err := a.Actor.ValidateSwitch(a.TargetIndex); err != nil {
			return fmt.Errorf("battle: %s: %w", a.Actor.Name, err)
		}
	}
	return nil
}

func (m *Manager) result(events []Event) TurnResult {
	r := TurnResult{Events: events, Finished: m.state.Finished()}
	if w := m.state.Winner(); w != nil {
		r.Winner = w.Name
	}
	return r
}

// startOfTurn ticks the active goober's effects and promotes a queued stun
// into an active one. Fainted actives do not tick.
func (m *Manager) startOfTurn(side *trainer.Trainer) []Event {
	active := side.Active()
	if active.Fainted() {
		return nil
	}
	before := active.State.CurrentHP
	expired := active.State.TickEffects()
	active.State.PromoteQueuedStun()

	var events []Event
	if delta := active.State.CurrentHP - before; delta < 0 {
		ev := Event{
			Actor:     side.Name,
			Target:    active.Name(),
			Damage:    -delta,
			Narrative: fmt.Sprintf("%s's %s takes %d damage from its afflictions.", side.Name, active.Name(), -delta),
		}
		if active.Fainted() {
			ev.Fainted = true
			ev.Narrative += fmt.Sprintf(" %s faints!", active.Name())
			events = append(events, ev)
			events = append(events, m.awardDefeatXP(m.state.OpposingSide(side), active)...)
			return events
		}
		events = append(events, ev)
	}
	for _, kind := range expired {
		events = append(events, Event{
			Actor:     side.Name,
			Target:    active.Name(),
			Narrative: fmt.Sprintf("%s wears off of %s.", kind, active.Name()),
		})
	}
	return events
}

// orderActions sorts the two submissions into resolution order: items and
// abilities first, then switches, then attacks ordered by active speed.
// Within a priority tier the player acts first, which also breaks speed
// ties.
func (m *Manager) orderActions(playerAction, opponentAction action.Action) (action.Action, action.Action) {
	pt, ot := tier(playerAction.Type), tier(opponentAction.Type)
	if pt < ot {
		return playerAction, opponentAction
	}
	if ot < pt {
		return opponentAction, playerAction
	}
	if pt == tierAttack {
		if m.state.Opponent.Active().State.Speed > m.state.Player.Active().State.Speed {
			return opponentAction, playerAction
		}
	}
	return playerAction, opponentAction
}

const (
	tierSupport = iota // items and abilities
	tierSwitch
	tierAttack
)

func tier(t action.Type) int {
	switch t {
	case action.TypeNone, action.TypeUseItem, action.TypeAbility:
		return tierSupport
	case action.TypeSwitch:
		return tierSwitch
	default:
		return tierAttack
	}
}

// executeAction resolves one action, enforcing the eligibility rules: a
// fainted active can only be switched out, and a stunned active can still
// switch or use the trainer's ability but cannot attack or use items.
func (m *Manager) executeAction(a action.Action) []Event {
	if a.Type == action.TypeNone {
		return nil
	}
	active := a.Actor.Active()

	if active.Fainted() && a.Type != action.TypeSwitch {
		return []Event{{
			Action:    a.Type,
			Actor:     a.Actor.Name,
			Narrative: fmt.Sprintf("%s's %s has fainted and cannot act.", a.Actor.Name, active.Name()),
		}}
	}
	if active.State.Stunned && (a.Type == action.TypeAttack || a.Type == action.TypeUseItem) {
		return []Event{{
			Action:    a.Type,
			Actor:     a.Actor.Name,
			Narrative: fmt.Sprintf("%s's %s is stunned and cannot act.", a.Actor.Name, active.Name()),
		}}
	}

	m.log.Debug("resolving action",
		zap.String("trainer", a.Actor.Name),
		zap.String("type", a.Type.String()),
		zap.Int("turn", m.state.Turn))

	switch a.Type {
	case action.TypeAttack:
		return m.resolveAttack(a)
	case action.TypeSwitch:
		return m.resolveSwitch(a)
	case action.TypeUseItem:
		return m.resolveItem(a)
	case action.TypeAbility:
		return m.resolveAbility(a)
	default:
		return []Event{{Action: a.Type, Actor: a.Actor.Name, Narrative: a.Describe()}}
	}
}

func (m *Manager) resolveAttack(a action.Action) []Event {
	attacker := a.Actor
	defender := m.state.OpposingSide(attacker)
	atkGoober := attacker.Active()
	defGoober := defender.Active()

	move, err := atkGoober.MoveAt(a.MoveIndex)
	if err != nil {
		return []Event{{
			Action:    a.Type,
			Actor:     attacker.Name,
			Narrative: fmt.Sprintf("%s's %s flails uselessly.", attacker.Name, atkGoober.Name()),
		}}
	}

	ev := Event{
		Action: a.Type,
		Actor:  attacker.Name,
		Target: defGoober.Name(),
		Move:   move.Name,
	}

	if !m.calc.Hits(move, atkGoober.State) {
		ev.Missed = true
		ev.Narrative = fmt.Sprintf("%s's %s uses %s but misses!", attacker.Name, atkGoober.Name(), move.Name)
		return []Event{ev}
	}

	crit := m.calc.IsCritical(atkGoober.State, move)
	dmg := m.calc.Damage(move, atkGoober.State, defGoober.State, crit)
	events := []Event{ev}

	if dmg > 0 {
		var survived bool
		dmg, survived = m.applyPlotArmor(defender, defGoober, dmg)
		defGoober.TakeDamage(dmg)
		events[0].Damage = dmg
		events[0].Critical = crit
		events[0].Narrative = fmt.Sprintf("%s's %s hits %s with %s for %d damage.",
			attacker.Name, atkGoober.Name(), defGoober.Name(), move.Name, dmg)
		if crit {
			events[0].Narrative += " A critical hit!"
		}
		if survived {
			events = append(events, Event{
				Actor:     defender.Name,
				Target:    defGoober.Name(),
				Narrative: fmt.Sprintf("%s clings on at 1 HP through sheer plot armor!", defGoober.Name()),
			})
		}
		if attacker.Role == trainer.RoleNecromancer {
			drain := int(math.Ceil(float64(dmg) * lifestealFraction))
			atkGoober.Heal(drain)
			events = append(events, Event{
				Actor:     attacker.Name,
				Target:    atkGoober.Name(),
				Narrative: fmt.Sprintf("%s drains %d HP from the hit.", atkGoober.Name(), drain),
			})
		}
	} else {
		events[0].Narrative = fmt.Sprintf("%s's %s uses %s.", attacker.Name, atkGoober.Name(), move.Name)
	}

	if defGoober.Fainted() {
		events[0].Fainted = true
		events = append(events, Event{
			Actor:     defender.Name,
			Target:    defGoober.Name(),
			Narrative: fmt.Sprintf("%s faints!", defGoober.Name()),
		})
		events = append(events, m.awardDefeatXP(attacker, defGoober)...)
	} else if attacker.Role == trainer.RoleJoker && m.src.Float64() < jokerAilmentChance {
		events = append(events, m.inflictJokerAilment(attacker, defGoober))
	}

	if move.Effect != nil {
		for _, target := range m.scopeTargets(move.Scope, attacker, defender) {
			events = append(events, m.inflictMoveEffect(attacker, target, move.Effect)...)
		}
	}
	return events
}

// inflictMoveEffect attaches a copy of a move's effect template to target and
// ticks it once on the spot, so a poison move bites on the hit turn and a
// heal move restores immediately. Stat modifications already took hold inside
// AddEffect and keep their full duration. An effect whose immediate tick
// expires it is removed again.
func (m *Manager) inflictMoveEffect(attacker *trainer.Trainer, target *goober.Goober, template *effect.Effect) []Event {
	applied := template.Copy()
	target.State.AddEffect(applied)
	ev := Event{
		Actor:     attacker.Name,
		Target:    target.Name(),
		Narrative: fmt.Sprintf("%s is afflicted with %s.", target.Name(), applied.Kind),
	}
	if applied.Kind.IsStatModification() {
		return []Event{ev}
	}

	before := target.State.CurrentHP
	if applied.Apply() {
		target.State.RemoveEffect(applied)
	}
	if lost := before - target.State.CurrentHP; lost > 0 {
		ev.Damage = lost
		ev.Narrative += fmt.Sprintf(" It takes %d damage straight away.", lost)
	}
	events := []Event{ev}
	if target.Fainted() {
		events[0].Fainted = true
		events = append(events, Event{
			Target:    target.Name(),
			Narrative: fmt.Sprintf("%s faints!", target.Name()),
		})
		events = append(events, m.awardDefeatXP(attacker, target)...)
	}
	return events
}

// applyPlotArmor checks the Weeb passive: once per battle, a hit that would
// faint the defending goober leaves it at 1 HP instead. Returns the possibly
// reduced damage and whether the passive fired.
func (m *Manager) applyPlotArmor(defender *trainer.Trainer, g *goober.Goober, dmg int) (int, bool) {
	if defender.Role != trainer.RoleWeeb || defender.PlotArmorUsed {
		return dmg, false
	}
	if dmg < g.State.CurrentHP {
		return dmg, false
	}
	defender.PlotArmorUsed = true
	return g.State.CurrentHP - 1, true
}

func (m *Manager) inflictJokerAilment(attacker *trainer.Trainer, target *goober.Goober) Event {
	var e *effect.Effect
	switch m.src.Intn(3) {
	case 0:
		e = effect.New(effect.Stun, 1, 0)
	case 1:
		e = effect.New(effect.Poison, 1, 0.05)
	default:
		e = effect.New(effect.Dizzy, 1, 0.3)
	}
	target.State.AddEffect(e)
	return Event{
		Actor:     attacker.Name,
		Target:    target.Name(),
		Narrative: fmt.Sprintf("The Joker's chaos inflicts %s on %s!", e.Kind, target.Name()),
	}
}

// scopeTargets resolves a move's target scope to living goobers.
func (m *Manager) scopeTargets(scope goober.TargetScope, attacker, defender *trainer.Trainer) []*goober.Goober {
	living := func(team []*goober.Goober) []*goober.Goober {
		var out []*goober.Goober
		for _, g := range team {
			if !g.Fainted() {
				out = append(out, g)
			}
		}
		return out
	}
	switch scope {
	case goober.ScopeSelf:
		if attacker.Active().Fainted() {
			return nil
		}
		return []*goober.Goober{attacker.Active()}
	case goober.ScopeAllAllies:
		return living(attacker.Team)
	case goober.ScopeAllEnemies:
		return living(defender.Team)
	default:
		if defender.Active().Fainted() {
			return nil
		}
		return []*goober.Goober{defender.Active()}
	}
}

// awardDefeatXP grants defeat experience for the fallen goober to every
// living member of the victor's team. Only the player side earns experience.
func (m *Manager) awardDefeatXP(victor *trainer.Trainer, fallen *goober.Goober) []Event {
	if victor != m.state.Player {
		return nil
	}
	amount := goober.DefeatYield(fallen.Level())
	var events []Event
	for _, g := range victor.Team {
		if g.Fainted() {
			continue
		}
		if g.GainXP(amount) {
			events = append(events, Event{
				Actor:     victor.Name,
				Target:    g.Name(),
				Narrative: fmt.Sprintf("%s grows to level %d!", g.Name(), g.Level()),
			})
		}
	}
	m.log.Debug("awarded defeat experience",
		zap.String("trainer", victor.Name),
		zap.Int("amount", amount))
	return events
}

func (m *Manager) resolveSwitch(a action.Action) []Event {
	prev := a.Actor.Active().Name()
	if err := a.Actor.SwitchActive(a.TargetIndex); err != nil {
		return []Event{{
			Action:    a.Type,
			Actor:     a.Actor.Name,
			Narrative: fmt.Sprintf("%s hesitates: %s.", a.Actor.Name, err),
		}}
	}
	return []Event{{
		Action:    a.Type,
		Actor:     a.Actor.Name,
		Target:    a.Actor.Active().Name(),
		Narrative: fmt.Sprintf("%s recalls %s and sends out %s!", a.Actor.Name, prev, a.Actor.Active().Name()),
	}}
}

func (m *Manager) resolveItem(a action.Action) []Event {
	it, err := a.Actor.ConsumeItem(a.ItemName)
	if err != nil {
		return []Event{{
			Action:    a.Type,
			Actor:     a.Actor.Name,
			Narrative: fmt.Sprintf("%s rummages for %s but comes up empty.", a.Actor.Name, a.ItemName),
		}}
	}

	ev := Event{Action: a.Type, Actor: a.Actor.Name, Move: it.Name}
	enemy := m.state.OpposingSide(a.Actor).Active()

	switch it.Kind {
	case item.KindHeal:
		target := a.Actor.Active()
		amount := int(float64(target.State.MaxHP) * it.Magnitude)
		target.Heal(amount)
		ev.Target = target.Name()
		ev.Narrative = fmt.Sprintf("%s uses %s; %s recovers %d HP.", a.Actor.Name, it.Name, target.Name(), amount)
		return []Event{ev}

	case item.KindDamage:
		dmg := int(float64(enemy.State.CurrentHP) * it.Magnitude)
		enemy.TakeDamage(dmg)
		ev.Target = enemy.Name()
		ev.Damage = dmg
		ev.Narrative = fmt.Sprintf("%s hurls %s at %s for %d damage.", a.Actor.Name, it.Name, enemy.Name(), dmg)
		events := []Event{ev}
		if enemy.Fainted() {
			events[0].Fainted = true
			events = append(events, Event{
				Target:    enemy.Name(),
				Narrative: fmt.Sprintf("%s faints!", enemy.Name()),
			})
			events = append(events, m.awardDefeatXP(a.Actor, enemy)...)
		}
		return events

	case item.KindStun:
		enemy.State.AddEffect(effect.New(effect.Stun, int(it.Magnitude), 0))
		ev.Target = enemy.Name()
		ev.Narrative = fmt.Sprintf("%s throws %s; %s is stunned!", a.Actor.Name, it.Name, enemy.Name())
		return []Event{ev}

	default:
		ev.Narrative = fmt.Sprintf("%s uses %s to no effect.", a.Actor.Name, it.Name)
		return []Event{ev}
	}
}

func (m *Manager) resolveAbility(a action.Action) []Event {
	actor := a.Actor
	if actor.AbilityUsed {
		return []Event{{
			Action:    a.Type,
			Actor:     actor.Name,
			Narrative: fmt.Sprintf("%s has already spent their ability.", actor.Name),
		}}
	}

	enemySide := m.state.OpposingSide(actor)
	enemy := enemySide.Active()
	active := actor.Active()

	switch actor.Role {
	case trainer.RoleNecromancer:
		var fainted []*goober.Goober
		for _, g := range actor.Team {
			if g.Fainted() {
				fainted = append(fainted, g)
			}
		}
		if len(fainted) == 0 {
			return []Event{{
				Action:    a.Type,
				Actor:     actor.Name,
				Narrative: fmt.Sprintf("%s calls to the dead, but none answer.", actor.Name),
			}}
		}
		revived := fainted[m.src.Intn(len(fainted))]
		revived.State.SetHealth(revived.State.MaxHP / 2)
		actor.AbilityUsed = true
		return []Event{{
			Action:    a.Type,
			Actor:     actor.Name,
			Target:    revived.Name(),
			Narrative: fmt.Sprintf("%s raises %s from the dead at %d HP!", actor.Name, revived.Name(), revived.State.CurrentHP),
		}}

	case trainer.RoleGambler:
		actor.AbilityUsed = true
		if m.src.Float64() < 0.5 {
			dmg := enemy.State.CurrentHP / 2
			enemy.TakeDamage(dmg)
			events := []Event{{
				Action:    a.Type,
				Actor:     actor.Name,
				Target:    enemy.Name(),
				Damage:    dmg,
				Narrative: fmt.Sprintf("%s wins the bet: %s loses %d HP!", actor.Name, enemy.Name(), dmg),
			}}
			if enemy.Fainted() {
				events[0].Fainted = true
				events = append(events, m.awardDefeatXP(actor, enemy)...)
			}
			return events
		}
		dmg := active.State.CurrentHP / 4
		active.TakeDamage(dmg)
		return []Event{{
			Action:    a.Type,
			Actor:     actor.Name,
			Target:    active.Name(),
			Damage:    dmg,
			Narrative: fmt.Sprintf("%s loses the bet: %s takes %d HP recoil.", actor.Name, active.Name(), dmg),
		}}

	case trainer.RoleCSStudent:
		actor.AbilityUsed = true
		if float64(enemy.State.CurrentHP) < float64(enemy.State.MaxHP)*executeThreshold {
			enemy.TakeDamage(9999)
			events := []Event{{
				Action:    a.Type,
				Actor:     actor.Name,
				Target:    enemy.Name(),
				Damage:    9999,
				Fainted:   true,
				Narrative: fmt.Sprintf("%s force-kills the process: %s is executed!", actor.Name, enemy.Name()),
			}}
			events = append(events, m.awardDefeatXP(actor, enemy)...)
			return events
		}
		return []Event{{
			Action:    a.Type,
			Actor:     actor.Name,
			Target:    enemy.Name(),
			Narrative: fmt.Sprintf("%s's exploit fails: %s is too healthy to execute.", actor.Name, enemy.Name()),
		}}

	case trainer.RoleWeeb:
		actor.AbilityUsed = true
		// The friendship burst also spends the plot-armor passive.
		actor.PlotArmorUsed = true
		active.State.ClearEffects()
		active.State.ClearStun()
		active.State.PendingStun = false
		active.State.SetHealth(active.State.MaxHP)
		return []Event{{
			Action:    a.Type,
			Actor:     actor.Name,
			Target:    active.Name(),
			Narrative: fmt.Sprintf("The power of friendship fully restores %s!", active.Name()),
		}}

	case trainer.RoleJoker:
		actor.AbilityUsed = true
		dmg := int(float64(enemy.State.CurrentHP) * 0.69)
		enemy.TakeDamage(dmg)
		enemy.State.AddEffect(effect.New(effect.Stun, 1, 0))
		events := []Event{{
			Action:    a.Type,
			Actor:     actor.Name,
			Target:    enemy.Name(),
			Damage:    dmg,
			Narrative: fmt.Sprintf("%s's punchline lands: %s takes %d damage and reels, stunned!", actor.Name, enemy.Name(), dmg),
		}}
		if enemy.Fainted() {
			events[0].Fainted = true
			events = append(events, m.awardDefeatXP(actor, enemy)...)
		}
		return events

	default:
		return []Event{{
			Action:    a.Type,
			Actor:     actor.Name,
			Narrative: fmt.Sprintf("%s has no ability to use.", actor.Name),
		}}
	}
}

// checkWinCondition updates the phase when a side has no living goobers.
//
// Postcondition: returns true iff the battle is finished.
func (m *Manager) checkWinCondition() bool {
	if m.state.Finished() {
		return true
	}
	// The player's defeat is checked first, so a double knockout goes to
	// the opponent.
	switch {
	case m.state.Player.Defeated():
		m.state.Phase = PhaseOpponentWon
	case m.state.Opponent.Defeated():
		m.state.Phase = PhasePlayerWon
	default:
		return false
	}
	m.log.Info("battle finished",
		zap.String("winner", m.state.Winner().Name),
		zap.Int("turns", m.state.Turn))
	return true
}
