package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/game/item"
)

func testTeam(t *testing.T, size int) []*goober.Goober {
	t.Helper()
	team := make([]*goober.Goober, size)
	for i := range team {
		sp := goober.NewSpecies("Gubbin", goober.ArchetypeDamager, 0, 0, 0, 0)
		team[i] = goober.New(sp, []goober.Move{{Name: "Bonk", Damage: 10, HitChance: 1.0}}, 5)
	}
	return team
}

func TestNew_RequiresTeam(t *testing.T) {
	_, err := New("Ash", RoleNone, nil)
	require.Error(t, err)

	tr, err := New("Ash", RoleWeeb, testTeam(t, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, tr.ActiveIndex)
	assert.NotEqual(t, "", tr.ID.String())
}

func TestSwitchActive(t *testing.T) {
	tr, err := New("Ash", RoleNone, testTeam(t, 3))
	require.NoError(t, err)

	require.NoError(t, tr.SwitchActive(2))
	assert.Equal(t, 2, tr.ActiveIndex)

	assert.Error(t, tr.SwitchActive(2), "already active")
	assert.Error(t, tr.SwitchActive(3), "out of range")
	assert.Error(t, tr.SwitchActive(-1), "out of range")

	tr.Team[0].TakeDamage(tr.Team[0].State.MaxHP)
	err = tr.SwitchActive(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fainted")
	assert.Equal(t, 2, tr.ActiveIndex)
}

func TestValidateSwitch_DoesNotSwap(t *testing.T) {
	tr, err := New("Ash", RoleNone, testTeam(t, 3))
	require.NoError(t, err)

	require.NoError(t, tr.ValidateSwitch(1))
	assert.Equal(t, 0, tr.ActiveIndex, "validation alone never swaps")
	assert.Error(t, tr.ValidateSwitch(0), "already active")
	assert.Error(t, tr.ValidateSwitch(5), "out of range")
}

func TestDefeatedAndLivingCount(t *testing.T) {
	tr, err := New("Ash", RoleNone, testTeam(t, 2))
	require.NoError(t, err)
	assert.False(t, tr.Defeated())
	assert.Equal(t, 2, tr.LivingCount())

	tr.Team[0].TakeDamage(tr.Team[0].State.MaxHP)
	assert.Equal(t, 1, tr.LivingCount())
	tr.Team[1].TakeDamage(tr.Team[1].State.MaxHP)
	assert.True(t, tr.Defeated())
}

func TestConsumeItem(t *testing.T) {
	tr, err := New("Ash", RoleNone, testTeam(t, 1))
	require.NoError(t, err)
	catalog := item.DefaultCatalog()
	plankton, err := catalog.Create("Plankton")
	require.NoError(t, err)

	tr.AddItem(plankton)
	tr.AddItem(plankton)
	assert.True(t, tr.HasItem("Plankton"))

	got, err := tr.ConsumeItem("Plankton")
	require.NoError(t, err)
	assert.Equal(t, "Plankton", got.Name)
	assert.True(t, tr.HasItem("Plankton"), "second copy remains")

	_, err = tr.ConsumeItem("Plankton")
	require.NoError(t, err)
	assert.False(t, tr.HasItem("Plankton"))

	_, err = tr.ConsumeItem("Plankton")
	require.Error(t, err)
}

func TestCopy_IsDeep(t *testing.T) {
	tr, err := New("Ash", RoleGambler, testTeam(t, 2))
	require.NoError(t, err)
	catalog := item.DefaultCatalog()
	freakbob, err := catalog.Create("Freakbob")
	require.NoError(t, err)
	tr.AddItem(freakbob)

	cp := tr.Copy()
	cp.Team[0].TakeDamage(10)
	_, err = cp.ConsumeItem("Freakbob")
	require.NoError(t, err)
	require.NoError(t, cp.SwitchActive(1))
	cp.AbilityUsed = true

	assert.Equal(t, tr.Team[0].State.MaxHP, tr.Team[0].State.CurrentHP)
	assert.True(t, tr.HasItem("Freakbob"))
	assert.Equal(t, 0, tr.ActiveIndex)
	assert.False(t, tr.AbilityUsed)
	assert.Equal(t, tr.ID, cp.ID)
}

func TestParseRole_RoundTrip(t *testing.T) {
	for _, r := range []Role{RoleNone, RoleNecromancer, RoleGambler, RoleCSStudent, RoleWeeb, RoleJoker} {
		parsed, ok := ParseRole(r.String())
		require.True(t, ok, r.String())
		assert.Equal(t, r, parsed)
	}
	_, ok := ParseRole("Paladin")
	assert.False(t, ok)
}
