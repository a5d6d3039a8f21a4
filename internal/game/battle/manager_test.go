package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goober-game/goober/internal/game/action"
	"github.com/goober-game/goober/internal/game/effect"
	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/game/item"
	"github.com/goober-game/goober/internal/game/trainer"
)

// flatSpecies zeroes defence and crit so damage numbers are exact.
func flatSpecies(name string) goober.Species {
	return goober.NewSpecies(name, goober.ArchetypeDamager, 0, 0, -0.10, -0.10)
}

func bonk() []goober.Move {
	return []goober.Move{{Name: "Bonk", Damage: 10, HitChance: 1.0}}
}

func newSide(t *testing.T, name string, role trainer.Role, size int) *trainer.Trainer {
	t.Helper()
	team := make([]*goober.Goober, size)
	for i := range team {
		team[i] = goober.New(flatSpecies("Gubbin"), bonk(), 1)
	}
	tr, err := trainer.New(name, role, team)
	require.NoError(t, err)
	return tr
}

func newBattle(t *testing.T, playerRole, opponentRole trainer.Role, src *fixedSrc) (*Manager, *trainer.Trainer, *trainer.Trainer) {
	t.Helper()
	player := newSide(t, "Player", playerRole, 2)
	opponent := newSide(t, "Rival", opponentRole, 2)
	return NewManager(player, opponent, src, nil), player, opponent
}

// resolve runs one turn that must not be rejected.
func resolve(t *testing.T, m *Manager, playerAction, opponentAction action.Action) TurnResult {
	t.Helper()
	res, err := m.ResolveTurn(playerAction, opponentAction)
	require.NoError(t, err)
	return res
}

func TestResolveTurn_FinishedBattleIsNoop(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})
	m.State().Phase = PhasePlayerWon

	hpBefore := opponent.Active().State.CurrentHP
	res := resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))

	assert.True(t, res.Finished)
	assert.Empty(t, res.Events)
	assert.Equal(t, "Player", res.Winner)
	assert.Equal(t, hpBefore, opponent.Active().State.CurrentHP)
}

func TestResolveTurn_AttackDealsExactDamage(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})

	res := resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))

	// (10 base + 22 attack) against zero defence, both ways.
	assert.Equal(t, 80-32, opponent.Active().State.CurrentHP)
	assert.Equal(t, 80-32, player.Active().State.CurrentHP)
	assert.False(t, res.Finished)
	require.Len(t, res.Events, 2)
}

func TestResolveTurn_SpeedOrdersAttacks(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	// Higher level means higher speed.
	opponent.Team[0] = goober.New(flatSpecies("Zoomer"), bonk(), 10)
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	res := resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))
	require.NotEmpty(t, res.Events)
	assert.Equal(t, "Rival", res.Events[0].Actor, "faster side attacks first")
}

func TestResolveTurn_SpeedTieFavorsPlayer(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})

	res := resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))
	require.NotEmpty(t, res.Events)
	assert.Equal(t, "Player", res.Events[0].Actor)
}

func TestResolveTurn_ItemsResolveBeforeAttacks(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})
	heal, err := item.DefaultCatalog().Create("Freakbob")
	require.NoError(t, err)
	opponent.AddItem(heal)

	res := resolve(t, m, action.Attack(player, 0), action.UseItem(opponent, "Freakbob"))
	require.NotEmpty(t, res.Events)
	assert.Equal(t, action.TypeUseItem, res.Events[0].Action, "item goes first despite slower side")
}

func TestResolveTurn_SecondActionSkippedWhenBattleEnds(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	opponent.Team[0].TakeDamage(opponent.Team[0].State.MaxHP - 5)
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	playerHP := player.Active().State.CurrentHP
	res := resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))

	assert.True(t, res.Finished)
	assert.Equal(t, "Player", res.Winner)
	assert.Equal(t, playerHP, player.Active().State.CurrentHP, "fallen rival never got to act")
}

func TestResolveTurn_FaintedActorCanOnlySwitch(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})
	player.Active().TakeDamage(player.Active().State.MaxHP)

	opponentHP := opponent.Active().State.CurrentHP

	res := resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))
	assert.Equal(t, opponentHP, opponent.Active().State.CurrentHP, "fainted attacker deals nothing")
	for _, ev := range res.Events {
		if ev.Actor == "Player" && ev.Action == action.TypeAttack {
			assert.Contains(t, ev.Narrative, "fainted")
		}
	}

	res = resolve(t, m, action.Switch(player, 1), action.Attack(opponent, 0))
	assert.Equal(t, 1, player.ActiveIndex, "fainted active may still be switched out")
	assert.False(t, res.Finished)
}

func TestResolveTurn_StunnedBlocksAttacksAndItems(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})
	player.Active().State.QueueStun()

	opponentHP := opponent.Active().State.CurrentHP
	resolve(t, m, action.Attack(player, 0), action.None())
	assert.Equal(t, opponentHP, opponent.Active().State.CurrentHP, "stun promoted at turn start blocks the attack")

	resolve(t, m, action.Attack(player, 0), action.None())
	assert.Equal(t, opponentHP-32, opponent.Active().State.CurrentHP, "stun clears the next turn")
}

func TestResolveTurn_SwitchToFaintedIsError(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})
	player.Team[1].TakeDamage(player.Team[1].State.MaxHP)

	_, err := m.ResolveTurn(action.Switch(player, 1), action.Attack(opponent, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fainted")
	assert.Equal(t, 0, player.ActiveIndex)
	assert.Equal(t, 0, m.State().Turn, "rejected turn does not advance")
}

func TestResolveTurn_OutOfRangeIndicesAreErrors(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})
	hpBefore := player.Active().State.CurrentHP

	_, err := m.ResolveTurn(action.Attack(player, 99), action.Attack(opponent, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")

	_, err = m.ResolveTurn(action.Attack(player, 0), action.Switch(opponent, -1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	assert.Equal(t, 0, m.State().Turn, "rejected turns do not advance")
	assert.Equal(t, hpBefore, player.Active().State.CurrentHP, "nothing resolved")
}

func TestResolveTurn_AbsentActionIsNoop(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})

	res := resolve(t, m, action.Action{}, action.Attack(opponent, 0))
	assert.Equal(t, 80-32, player.Active().State.CurrentHP, "only the rival acted")
	assert.Equal(t, 80, opponent.Active().State.CurrentHP)
	for _, ev := range res.Events {
		assert.NotEqual(t, "Player", ev.Actor)
	}
}

func TestResolveTurn_PlotArmorFiresOnce(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleWeeb, &fixedSrc{})
	opponent.Active().State.SetHealth(5)

	resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))
	assert.Equal(t, 1, opponent.Active().State.CurrentHP, "survives the lethal hit at 1 HP")
	assert.True(t, opponent.PlotArmorUsed)

	resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))
	assert.True(t, opponent.Active().Fainted(), "plot armor does not fire twice")
}

func TestResolveTurn_LifestealHeals(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNecromancer, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	m := NewManager(player, opponent, &fixedSrc{}, nil)
	player.Active().State.SetHealth(40)

	// Opponent sits the turn out so only the player's attack lands.
	res := resolve(t, m, action.Attack(player, 0), action.None())
	assert.Equal(t, 40+7, player.Active().State.CurrentHP, "drains ceil(32*0.2)")
	require.NotEmpty(t, res.Events)
}

func TestResolveTurn_DefeatAwardsXPToPlayerOnly(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 2)
	opponent := newSide(t, "Rival", trainer.RoleNone, 2)
	opponent.Team[0].TakeDamage(opponent.Team[0].State.MaxHP - 5)
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	// Tie-broken to the player, whose hit fells the weakened rival.
	resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))

	// Level 1 threshold is 102; defeat yields 34 to each living member.
	assert.Equal(t, 34, player.Team[0].State.XP.XP)
	assert.Equal(t, 34, player.Team[1].State.XP.XP)

	player.Team[1].TakeDamage(player.Team[1].State.MaxHP)
	opponent.Team[1].TakeDamage(opponent.Team[1].State.MaxHP - 5)
	require.NoError(t, opponent.SwitchActive(1))
	resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))
	assert.Equal(t, 68, player.Team[0].State.XP.XP, "second defeat stacks")
	assert.Equal(t, 34, player.Team[1].State.XP.XP, "fainted member earns nothing")
}

func TestResolveTurn_OpponentDefeatsEarnNoXP(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 2)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	player.Team[0].TakeDamage(player.Team[0].State.MaxHP - 5)
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	// Player swings first and survives the tie-break; the rival's reply
	// fells the weakened active.
	resolve(t, m, action.Attack(player, 0), action.Attack(opponent, 0))
	assert.True(t, player.Team[0].Fainted())
	assert.Equal(t, 0, opponent.Team[0].State.XP.XP)
}

func TestResolveTurn_ItemHealDamageStun(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})
	catalog := item.DefaultCatalog()
	for _, name := range []string{"Freakbob", "The Annoying Orange", "Baby Thing"} {
		it, err := catalog.Create(name)
		require.NoError(t, err)
		player.AddItem(it)
	}
	player.Active().State.SetHealth(10)

	resolve(t, m, action.UseItem(player, "Freakbob"), action.None())
	assert.Equal(t, 10+40, player.Active().State.CurrentHP, "heals half of 80 max")

	opponent.Active().State.SetHealth(60)
	resolve(t, m, action.UseItem(player, "The Annoying Orange"), action.None())
	assert.Equal(t, 60-15, opponent.Active().State.CurrentHP, "removes a quarter of current HP")

	resolve(t, m, action.UseItem(player, "Baby Thing"), action.None())
	require.Len(t, opponent.Active().State.Effects(), 1)
	assert.Equal(t, effect.Stun, opponent.Active().State.Effects()[0].Kind)
	assert.Empty(t, player.Inventory, "items are consumed")
}

func TestResolveTurn_MissingItemIsNoop(t *testing.T) {
	m, player, _ := newBattle(t, trainer.RoleNone, trainer.RoleNone, &fixedSrc{})

	res := resolve(t, m, action.UseItem(player, "Master Ball"), action.None())
	require.NotEmpty(t, res.Events)
	assert.Contains(t, res.Events[0].Narrative, "comes up empty")
}

func TestStartPassives(t *testing.T) {
	_, player, opponent := newBattle(t, trainer.RoleCSStudent, trainer.RoleGambler, &fixedSrc{})

	for _, g := range player.Team {
		require.Len(t, g.State.Effects(), 0, "gambler buff targets own team only")
	}
	for _, g := range opponent.Team {
		kinds := make([]effect.Kind, 0, 2)
		for _, e := range g.State.Effects() {
			kinds = append(kinds, e.Kind)
			if e.Kind == effect.CritMod {
				assert.True(t, e.Applied, "crit buff lands at battle start")
			}
		}
		assert.Contains(t, kinds, effect.Poison, "CS Student poisons every enemy")
		assert.Contains(t, kinds, effect.CritMod, "Gambler buffs every ally")
	}
}

func TestAbility_CSStudentExecute(t *testing.T) {
	m, player, _ := newBattle(t, trainer.RoleCSStudent, trainer.RoleNone, &fixedSrc{})

	res := resolve(t, m, action.Ability(player), action.None())
	require.NotEmpty(t, res.Events)
	assert.Contains(t, res.Events[0].Narrative, "too healthy")
	assert.True(t, player.AbilityUsed)

	res = resolve(t, m, action.Ability(player), action.None())
	require.NotEmpty(t, res.Events)
	assert.Contains(t, res.Events[0].Narrative, "already spent")
}

func TestAbility_CSStudentExecutesBelowThreshold(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleCSStudent, trainer.RoleNone, &fixedSrc{})
	opponent.Active().State.SetHealth(10) // below 20% of 80

	resolve(t, m, action.Ability(player), action.None())
	assert.True(t, opponent.Team[0].Fainted())
}

func TestAbility_WeebCleanse(t *testing.T) {
	m, player, _ := newBattle(t, trainer.RoleWeeb, trainer.RoleNone, &fixedSrc{})
	active := player.Active()
	active.State.SetHealth(5)
	active.State.AddEffect(effect.New(effect.Poison, 10, 0.05))
	active.State.QueueStun()

	resolve(t, m, action.Ability(player), action.None())
	assert.Equal(t, active.State.MaxHP, active.State.CurrentHP)
	assert.Empty(t, active.State.Effects())
	assert.False(t, active.State.Stunned)
	assert.False(t, active.State.PendingStun)
	assert.True(t, player.PlotArmorUsed, "the burst spends the plot-armor passive too")
}

func TestAbility_NecromancerRevive(t *testing.T) {
	m, player, _ := newBattle(t, trainer.RoleNecromancer, trainer.RoleNone, &fixedSrc{})

	res := resolve(t, m, action.Ability(player), action.None())
	assert.Contains(t, res.Events[0].Narrative, "none answer")
	assert.False(t, player.AbilityUsed, "a failed call is not consumed")

	player.Team[1].TakeDamage(player.Team[1].State.MaxHP)
	resolve(t, m, action.Ability(player), action.None())
	assert.Equal(t, player.Team[1].State.MaxHP/2, player.Team[1].State.CurrentHP)
	assert.True(t, player.AbilityUsed)
}

func TestAbility_GamblerBothOutcomes(t *testing.T) {
	// Winning roll halves the enemy's current HP.
	m, player, opponent := newBattle(t, trainer.RoleGambler, trainer.RoleNone, &fixedSrc{floats: []float64{0.4}})
	resolve(t, m, action.Ability(player), action.None())
	assert.Equal(t, 40, opponent.Active().State.CurrentHP)

	// Losing roll recoils a quarter of own current HP.
	m2, player2, opponent2 := newBattle(t, trainer.RoleGambler, trainer.RoleNone, &fixedSrc{floats: []float64{0.6}})
	resolve(t, m2, action.Ability(player2), action.None())
	assert.Equal(t, 60, player2.Active().State.CurrentHP)
	assert.Equal(t, 80, opponent2.Active().State.CurrentHP)
}

func TestAbility_JokerPunchline(t *testing.T) {
	m, player, opponent := newBattle(t, trainer.RoleJoker, trainer.RoleNone, &fixedSrc{})

	resolve(t, m, action.Ability(player), action.None())
	assert.Equal(t, 80-55, opponent.Active().State.CurrentHP, "69% of 80 current HP")
	require.Len(t, opponent.Active().State.Effects(), 1)
	assert.Equal(t, effect.Stun, opponent.Active().State.Effects()[0].Kind)
}

func TestResolveAttack_MoveEffectAppliesToScope(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 2)
	player.Team[0].Moves = []goober.Move{{
		Name:      "Toxic Wave",
		Damage:    5,
		HitChance: 1.0,
		Scope:     goober.ScopeAllEnemies,
		Effect:    effect.New(effect.Poison, 3, 0.05),
	}}
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	resolve(t, m, action.Attack(player, 0), action.None())
	for _, g := range opponent.Team {
		require.Len(t, g.State.Effects(), 1, "every living enemy is poisoned")
		assert.Equal(t, effect.Poison, g.State.Effects()[0].Kind)
	}
}

func TestResolveAttack_MissSkipsDamageAndEffects(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	player.Team[0].Moves = []goober.Move{{
		Name:      "Wild Swing",
		Damage:    50,
		HitChance: 0.5,
		Effect:    effect.New(effect.Dizzy, 2, 0.3),
	}}
	m := NewManager(player, opponent, &fixedSrc{floats: []float64{0.7}}, nil)

	res := resolve(t, m, action.Attack(player, 0), action.None())
	assert.Equal(t, 80, opponent.Active().State.CurrentHP)
	assert.Empty(t, opponent.Active().State.Effects())
	require.NotEmpty(t, res.Events)
	assert.True(t, res.Events[0].Missed)
}

func TestResolveAttack_PoisonMoveBitesOnTheHitTurn(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	player.Team[0].Moves = []goober.Move{{
		Name:      "Slime Time",
		HitChance: 1.0,
		Scope:     goober.ScopeEnemy,
		Effect:    effect.New(effect.Poison, 3, 0.10),
	}}
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	resolve(t, m, action.Attack(player, 0), action.None())
	assert.Equal(t, 80-8, opponent.Active().State.CurrentHP, "10% of max HP lands on infliction")
	require.Len(t, opponent.Active().State.Effects(), 1)
	assert.Equal(t, 2, opponent.Active().State.Effects()[0].Duration, "the immediate tick consumed one")
}

func TestResolveAttack_OneTickEffectExpiresImmediately(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	player.Team[0].Moves = []goober.Move{{
		Name:      "Second Wind",
		HitChance: 1.0,
		Scope:     goober.ScopeSelf,
		Effect:    effect.New(effect.Heal, 1, 0.3),
	}}
	player.Active().State.SetHealth(40)
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	resolve(t, m, action.Attack(player, 0), action.None())
	assert.Equal(t, 40+24, player.Active().State.CurrentHP, "heals 30% of max on the spot")
	assert.Empty(t, player.Active().State.Effects(), "spent effect is removed")
}

func TestResolveTurn_DoubleKnockoutGoesToOpponent(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleNone, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	for _, g := range []*goober.Goober{player.Team[0], opponent.Team[0]} {
		g.State.AddEffect(effect.New(effect.Poison, 3, 0.10))
		g.State.SetHealth(4)
	}
	m := NewManager(player, opponent, &fixedSrc{}, nil)

	res := resolve(t, m, action.None(), action.None())
	assert.True(t, res.Finished)
	assert.Equal(t, "Rival", res.Winner)
}

func TestJokerPassive_InflictsAilmentOnHit(t *testing.T) {
	player := newSide(t, "Player", trainer.RoleJoker, 1)
	opponent := newSide(t, "Rival", trainer.RoleNone, 1)
	// Hit roll, crit roll, ailment roll, then Intn picks poison.
	src := &fixedSrc{floats: []float64{0.5, 0.99, 0.1}, ints: []int{1}}
	m := NewManager(player, opponent, src, nil)

	resolve(t, m, action.Attack(player, 0), action.None())
	require.Len(t, opponent.Active().State.Effects(), 1)
	assert.Equal(t, effect.Poison, opponent.Active().State.Effects()[0].Kind)
}
