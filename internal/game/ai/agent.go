package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/goober-game/goober/internal/game/action"
	"github.com/goober-game/goober/internal/game/battle"
	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/game/item"
	"github.com/goober-game/goober/internal/game/trainer"
	"github.com/goober-game/goober/internal/rng"
)

// Agent picks actions for one side by alpha-beta minimax over deep-copied
// trainers. The live battle state is never mutated; every simulation step
// runs on clones.
type Agent struct {
	difficulty Difficulty
	calc       *battle.Calculator
	src        rng.Source
	log        *zap.Logger
}

// NewAgent creates an agent at the given difficulty.
//
// Precondition: src must not be nil. A nil logger is replaced with a no-op
// one.
func NewAgent(difficulty Difficulty, src rng.Source, log *zap.Logger) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{
		difficulty: difficulty,
		calc:       battle.NewCalculator(src),
		src:        src,
		log:        log,
	}
}

// Difficulty returns the agent's tier.
func (a *Agent) Difficulty() Difficulty { return a.difficulty }

// ChooseAction returns the action me should submit this turn. A mistake
// roll below the difficulty's chance yields a uniformly random legal action;
// otherwise the minimax pick wins.
//
// Postcondition: me and the opposing side are unchanged.
func (a *Agent) ChooseAction(st *battle.State, me *trainer.Trainer) action.Action {
	enemy := st.OpposingSide(me)
	legal := possibleActions(me, enemy)
	if len(legal) == 0 {
		return fallback(me)
	}

	if a.src.Float64() < a.difficulty.MistakeChance {
		pick := legal[a.src.Intn(len(legal))]
		a.log.Debug("agent blundered",
			zap.String("trainer", me.Name),
			zap.String("action", pick.Type.String()))
		return pick
	}

	best := legal[0]
	bestScore := math.Inf(-1)
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, act := range legal {
		meClone, enemyClone := me.Copy(), enemy.Copy()
		a.applySimulated(act.Rebind(meClone), meClone, enemyClone)
		score := a.minimax(meClone, enemyClone, a.difficulty.Depth-1, alpha, beta, false)
		if score > bestScore {
			bestScore = score
			best = act
		}
		alpha = math.Max(alpha, bestScore)
	}
	a.log.Debug("agent chose action",
		zap.String("trainer", me.Name),
		zap.String("action", best.Type.String()),
		zap.Float64("score", bestScore))
	return best
}

// minimax explores the game tree on cloned trainers. me is always the
// agent's side; maximizing flags whose move it is.
func (a *Agent) minimax(me, enemy *trainer.Trainer, depth int, alpha, beta float64, maximizing bool) float64 {
	if depth <= 0 || me.Defeated() || enemy.Defeated() {
		return Evaluate(me, enemy)
	}

	if maximizing {
		best := math.Inf(-1)
		for _, act := range possibleActions(me, enemy) {
			meClone, enemyClone := me.Copy(), enemy.Copy()
			a.applySimulated(act.Rebind(meClone), meClone, enemyClone)
			best = math.Max(best, a.minimax(meClone, enemyClone, depth-1, alpha, beta, false))
			alpha = math.Max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		if math.IsInf(best, -1) {
			return Evaluate(me, enemy)
		}
		return best
	}

	best := math.Inf(1)
	for _, act := range possibleActions(enemy, me) {
		meClone, enemyClone := me.Copy(), enemy.Copy()
		a.applySimulated(act.Rebind(enemyClone), enemyClone, meClone)
		best = math.Min(best, a.minimax(meClone, enemyClone, depth-1, alpha, beta, true))
		beta = math.Min(beta, best)
		if beta <= alpha {
			break
		}
	}
	if math.IsInf(best, 1) {
		return Evaluate(me, enemy)
	}
	return best
}

// possibleActions enumerates the legal submissions for actor against enemy.
// A fainted active forces switches. A stunned active cannot attack or use
// items but may still switch or trigger the trainer ability. Duplicate
// items contribute one action per distinct name.
func possibleActions(actor, enemy *trainer.Trainer) []action.Action {
	active := actor.Active()

	if active.Fainted() {
		return forcedSwitches(actor)
	}

	var acts []action.Action
	if !active.State.Stunned {
		for i := range active.UsableMoves() {
			acts = append(acts, action.Attack(actor, i))
		}
		seen := make(map[string]bool)
		for _, it := range actor.Inventory {
			if seen[it.Name] {
				continue
			}
			seen[it.Name] = true
			acts = append(acts, action.UseItem(actor, it.Name))
		}
	}
	for i, g := range actor.Team {
		if i != actor.ActiveIndex && !g.Fainted() {
			acts = append(acts, action.Switch(actor, i))
		}
	}
	if actor.Role != trainer.RoleNone && !actor.AbilityUsed {
		acts = append(acts, action.Ability(actor))
	}
	return acts
}

func forcedSwitches(actor *trainer.Trainer) []action.Action {
	var acts []action.Action
	for i, g := range actor.Team {
		if i != actor.ActiveIndex && !g.Fainted() {
			acts = append(acts, action.Switch(actor, i))
		}
	}
	return acts
}

// fallback is the action of last resort when enumeration comes up empty.
func fallback(actor *trainer.Trainer) action.Action {
	if actor.Active().Fainted() {
		for i, g := range actor.Team {
			if i != actor.ActiveIndex && !g.Fainted() {
				return action.Switch(actor, i)
			}
		}
	}
	return action.Attack(actor, 0)
}

// applySimulated plays act deterministically onto the cloned trainers:
// attacks deal their probability-weighted expected damage, chance-gated
// side effects resolve to their likelier branch, and abilities use fixed
// approximations. act.Actor must be the me clone.
func (a *Agent) applySimulated(act action.Action, me, enemy *trainer.Trainer) {
	active := me.Active()

	switch act.Type {
	case action.TypeSwitch:
		_ = me.SwitchActive(act.TargetIndex)

	case action.TypeAttack:
		if active.Fainted() || active.State.Stunned {
			return
		}
		move, err := active.MoveAt(act.MoveIndex)
		if err != nil {
			return
		}
		target := enemy.Active()
		dmg := int(a.calc.ExpectedDamage(move, active.State, target.State))
		if dmg > 0 {
			target.TakeDamage(dmg)
		}
		if move.Effect != nil && move.HitChance > 0.5 {
			for _, g := range simScopeTargets(move.Scope, me, enemy) {
				g.State.AddEffect(move.Effect.Copy())
			}
		}

	case action.TypeUseItem:
		it, err := me.ConsumeItem(act.ItemName)
		if err != nil {
			return
		}
		switch it.Kind {
		case item.KindHeal:
			active.Heal(int(float64(active.State.MaxHP) * it.Magnitude))
		case item.KindDamage:
			target := enemy.Active()
			target.TakeDamage(int(float64(target.State.CurrentHP) * it.Magnitude))
		case item.KindStun:
			target := enemy.Active()
			target.State.QueueStun()
			target.State.PromoteQueuedStun()
		}

	case action.TypeAbility:
		a.applySimulatedAbility(me, enemy)
	}
}

// applySimulatedAbility approximates the role abilities without randomness.
// The Gambler's coin flip is averaged: half the winning damage to the enemy
// and half the losing recoil to self.
func (a *Agent) applySimulatedAbility(me, enemy *trainer.Trainer) {
	if me.AbilityUsed {
		return
	}
	active := me.Active()
	target := enemy.Active()

	switch me.Role {
	case trainer.RoleNecromancer:
		for _, g := range me.Team {
			if g.Fainted() {
				g.State.SetHealth(g.State.MaxHP / 2)
				me.AbilityUsed = true
				return
			}
		}
		return

	case trainer.RoleGambler:
		target.TakeDamage(target.State.CurrentHP / 4)
		active.TakeDamage(active.State.CurrentHP / 8)

	case trainer.RoleCSStudent:
		if float64(target.State.CurrentHP) < float64(target.State.MaxHP)*0.2 {
			target.TakeDamage(9999)
		}

	case trainer.RoleWeeb:
		active.State.ClearEffects()
		active.State.ClearStun()
		active.State.PendingStun = false
		active.State.SetHealth(active.State.MaxHP)

	case trainer.RoleJoker:
		target.TakeDamage(int(float64(target.State.CurrentHP) * 0.69))
		target.State.QueueStun()
		target.State.PromoteQueuedStun()

	default:
		return
	}
	me.AbilityUsed = true
}

func simScopeTargets(scope goober.TargetScope, me, enemy *trainer.Trainer) []*goober.Goober {
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
		return []*goober.Goober{me.Active()}
	case goober.ScopeAllAllies:
		return living(me.Team)
	case goober.ScopeAllEnemies:
		return living(enemy.Team)
	default:
		if enemy.Active().Fainted() {
			return nil
		}
		return []*goober.Goober{enemy.Active()}
	}
}
