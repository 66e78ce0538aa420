package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/dice"
	dicemock "github.com/wyrmgate/engine/internal/dice/mock"
	"github.com/wyrmgate/engine/internal/domain/character"
	domain "github.com/wyrmgate/engine/internal/domain/combat"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
	combatsvc "github.com/wyrmgate/engine/internal/services/combat"
)

func testDatabase(t *testing.T) *campaign.Database {
	t.Helper()
	db := campaign.NewDatabase()

	special := content.SpecialPoison
	require.NoError(t, db.AddMonster(&content.MonsterDefinition{
		ID:   1,
		Name: "Goblin",
		Stats: content.BaseStats{
			Might: 10, Intellect: 5, Personality: 5,
			Endurance: 8, Speed: 8, Accuracy: 9, Luck: 5,
		},
		HP: 8,
		AC: 5,
		Attacks: []content.Attack{
			content.PhysicalAttack(dice.MustDiceRoll(1, 6, 0)),
		},
		Loot: content.LootTable{
			GoldMin:    1,
			GoldMax:    10,
			Experience: 25,
			Items:      []content.LootDrop{{Chance: 1.0, ItemID: 7}},
		},
	}))
	require.NoError(t, db.AddMonster(&content.MonsterDefinition{
		ID:   2,
		Name: "Giant Spider",
		Stats: content.BaseStats{
			Might: 12, Intellect: 3, Personality: 3,
			Endurance: 10, Speed: 14, Accuracy: 10, Luck: 5,
		},
		HP: 12,
		AC: 4,
		Attacks: []content.Attack{
			content.PhysicalAttack(dice.MustDiceRoll(1, 4, 0)),
			{Damage: dice.MustDiceRoll(1, 6, 0), Type: content.AttackPhysical, Special: &special},
		},
		SpecialAttackThreshold: 100,
	}))
	require.NoError(t, db.AddCondition(&content.ConditionDefinition{
		ID:   "poisoned",
		Name: "Poisoned",
		Effects: []content.ConditionEffect{
			content.StatusEffect("poisoned"),
			content.DamageOverTime(dice.MustDiceRoll(1, 4, 0), "poison"),
		},
		DefaultDuration: shared.Rounds(3),
	}))
	return db
}

func testHero(name string, speed uint8) *character.Character {
	return &character.Character{
		ID:      shared.CharacterID(name),
		Name:    name,
		RaceID:  "human",
		ClassID: "knight",
		Level:   1,
		Stats:   shared.NewStats(12, 10, 10, 12, speed, 11, 9),
		HP:      shared.NewBoundedAttr16(10),
		AC:      shared.NewBoundedAttr8(2),
	}
}

func testParty(t *testing.T, members ...*character.Character) *character.Party {
	t.Helper()
	party := character.NewParty(0)
	for _, m := range members {
		require.NoError(t, party.AddMember(m))
	}
	return party
}

func newService(t *testing.T, roller dice.Roller) combatsvc.Service {
	t.Helper()
	return combatsvc.NewService(&combatsvc.ServiceConfig{
		Database: testDatabase(t),
		Roller:   roller,
	})
}

func TestNewServicePanicsWithoutDeps(t *testing.T) {
	assert.Panics(t, func() {
		combatsvc.NewService(&combatsvc.ServiceConfig{Roller: dicemock.NewManualMockRoller()})
	})
	assert.Panics(t, func() {
		combatsvc.NewService(&combatsvc.ServiceConfig{Database: campaign.NewDatabase()})
	})
}

func TestStartEncounter(t *testing.T) {
	svc := newService(t, dicemock.NewManualMockRoller())
	party := testParty(t, testHero("Galahad", 12), testHero("Yara", 6))

	state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
		Party:        party,
		MonsterGroup: []shared.MonsterID{1, 1},
	})
	require.NoError(t, err)

	assert.Len(t, state.Participants, 4)
	require.Len(t, state.TurnOrder, 4)
	assert.Equal(t, domain.PlayerID(0), state.TurnOrder[0], "fastest goes first")
	assert.True(t, state.InProgress())

	// Clones, not the party members themselves.
	clone, err := state.Combatant(domain.PlayerID(0))
	require.NoError(t, err)
	assert.NotSame(t, party.Members[0], clone.Player)

	t.Run("unknown monster id", func(t *testing.T) {
		_, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
			Party:        party,
			MonsterGroup: []shared.MonsterID{99},
		})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("empty party", func(t *testing.T) {
		_, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
			Party:        character.NewParty(0),
			MonsterGroup: []shared.MonsterID{1},
		})
		assert.Error(t, err)
	})
}

func TestResolveAttack(t *testing.T) {
	attack := content.PhysicalAttack(dice.MustDiceRoll(1, 6, 0))

	start := func(t *testing.T, roller dice.Roller) (combatsvc.Service, *domain.State) {
		svc := newService(t, roller)
		state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
			Party:        testParty(t, testHero("Galahad", 12)),
			MonsterGroup: []shared.MonsterID{1},
		})
		require.NoError(t, err)
		return svc, state
	}

	t.Run("hit adds the might bonus", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc, state := start(t, roller)

		// Threshold is max(2, 10 + AC 5 - accuracy 11) = 4.
		roller.SetRolls([]int{10, 4})

		result, err := svc.ResolveAttack(state, domain.PlayerID(0), domain.MonsterID(1), &attack)
		require.NoError(t, err)
		assert.True(t, result.Hit)
		assert.Equal(t, uint16(5), result.Damage, "1d6 roll of 4 plus might 12 bonus")
		assert.Nil(t, result.Special)
	})

	t.Run("roll under the threshold misses", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc, state := start(t, roller)

		roller.SetNextRoll(3)

		result, err := svc.ResolveAttack(state, domain.PlayerID(0), domain.MonsterID(1), &attack)
		require.NoError(t, err)
		assert.False(t, result.Hit)
		assert.Equal(t, uint16(0), result.Damage)
	})

	t.Run("damage never drops below one", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc, state := start(t, roller)

		weakling, err := state.Combatant(domain.PlayerID(0))
		require.NoError(t, err)
		weakling.Player.Stats.Might.Current = 4

		roller.SetRolls([]int{20, 1})

		result, err := svc.ResolveAttack(state, domain.PlayerID(0), domain.MonsterID(1), &attack)
		require.NoError(t, err)
		assert.Equal(t, uint16(1), result.Damage)
	})

	t.Run("paralyzed attacker cannot act", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc, state := start(t, roller)

		hero, err := state.Combatant(domain.PlayerID(0))
		require.NoError(t, err)
		hero.Player.Conditions = hero.Player.Conditions.Set(shared.FlagParalyzed)

		_, err = svc.ResolveAttack(state, domain.PlayerID(0), domain.MonsterID(1), &attack)
		assert.True(t, errors.Is(err, errors.CodeCannotAct))
	})

	t.Run("dead target is invalid", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc, state := start(t, roller)

		goblin, err := state.Combatant(domain.MonsterID(1))
		require.NoError(t, err)
		goblin.Monster.TakeDamage(100)

		_, err = svc.ResolveAttack(state, domain.PlayerID(0), domain.MonsterID(1), &attack)
		assert.True(t, errors.Is(err, errors.CodeInvalidTarget))
	})
}

func TestApplyDamage(t *testing.T) {
	roller := dicemock.NewManualMockRoller()
	svc := newService(t, roller)
	state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
		Party:        testParty(t, testHero("Galahad", 12)),
		MonsterGroup: []shared.MonsterID{1},
	})
	require.NoError(t, err)

	died, err := svc.ApplyDamage(state, domain.MonsterID(1), 5)
	require.NoError(t, err)
	assert.False(t, died)

	died, err = svc.ApplyDamage(state, domain.MonsterID(1), 5)
	require.NoError(t, err)
	assert.True(t, died)

	// A player at zero is down, not dead.
	died, err = svc.ApplyDamage(state, domain.PlayerID(0), 10)
	require.NoError(t, err)
	assert.True(t, died)
	hero, err := state.Combatant(domain.PlayerID(0))
	require.NoError(t, err)
	assert.True(t, hero.Player.IsAlive())
	assert.False(t, hero.Player.IsConscious())
}

func TestTakeMonsterTurn(t *testing.T) {
	t.Run("attacks the least armored member", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc := newService(t, roller)

		tank := testHero("Tank", 12)
		tank.AC = shared.NewBoundedAttr8(8)
		squishy := testHero("Squishy", 6)
		squishy.AC = shared.NewBoundedAttr8(0)

		state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
			Party:        testParty(t, tank, squishy),
			MonsterGroup: []shared.MonsterID{1},
		})
		require.NoError(t, err)

		// Hit roll, then 1d6 damage.
		roller.SetRolls([]int{15, 4})

		result, err := svc.TakeMonsterTurn(state, domain.MonsterID(2))
		require.NoError(t, err)

		assert.Equal(t, combatsvc.MonsterActionAttack, result.Action)
		require.NotNil(t, result.Target)
		assert.Equal(t, domain.PlayerID(1), *result.Target)
		require.NotNil(t, result.Attack)
		assert.True(t, result.Attack.Hit)

		victim, err := state.Combatant(domain.PlayerID(1))
		require.NoError(t, err)
		assert.Less(t, victim.Player.HP.Current, uint16(10))
	})

	t.Run("flees when badly hurt", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc := newService(t, roller)
		state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
			Party:        testParty(t, testHero("Galahad", 12)),
			MonsterGroup: []shared.MonsterID{1},
		})
		require.NoError(t, err)

		goblin, err := state.Combatant(domain.MonsterID(1))
		require.NoError(t, err)
		goblin.Monster.FleeThreshold = 50
		goblin.Monster.TakeDamage(6)

		result, err := svc.TakeMonsterTurn(state, domain.MonsterID(1))
		require.NoError(t, err)

		assert.Equal(t, combatsvc.MonsterActionFlee, result.Action)
		assert.False(t, goblin.Monster.IsAlive())
		assert.Equal(t, domain.StatusVictory, state.Status, "last monster fleeing ends the fight")
	})

	t.Run("special attack overrides fleeing", func(t *testing.T) {
		roller := dicemock.NewManualMockRoller()
		svc := newService(t, roller)
		state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
			Party:        testParty(t, testHero("Galahad", 12)),
			MonsterGroup: []shared.MonsterID{2},
		})
		require.NoError(t, err)

		spider, err := state.Combatant(domain.MonsterID(1))
		require.NoError(t, err)
		spider.Monster.FleeThreshold = 90
		spider.Monster.TakeDamage(6)

		// Percent roll, hit roll, 1d6 damage.
		roller.SetRolls([]int{1, 15, 3})

		result, err := svc.TakeMonsterTurn(state, domain.MonsterID(1))
		require.NoError(t, err)

		assert.Equal(t, combatsvc.MonsterActionAttack, result.Action)
		require.NotNil(t, result.Attack)
		require.NotNil(t, result.Attack.Special)
		assert.Equal(t, content.SpecialPoison, *result.Attack.Special)
	})
}

func TestFleeSurrenderBribe(t *testing.T) {
	start := func(t *testing.T) (combatsvc.Service, *domain.State) {
		svc := newService(t, dicemock.NewManualMockRoller())
		state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
			Party:        testParty(t, testHero("Galahad", 12)),
			MonsterGroup: []shared.MonsterID{1},
		})
		require.NoError(t, err)
		return svc, state
	}

	t.Run("flee", func(t *testing.T) {
		svc, state := start(t)
		require.NoError(t, svc.AttemptFlee(state))
		assert.Equal(t, domain.StatusFled, state.Status)
	})

	t.Run("flee forbidden", func(t *testing.T) {
		svc, state := start(t)
		state.CanFlee = false
		err := svc.AttemptFlee(state)
		assert.True(t, errors.Is(err, errors.CodeRestricted))
		assert.True(t, state.InProgress())
	})

	t.Run("surrender", func(t *testing.T) {
		svc, state := start(t)
		require.NoError(t, svc.Surrender(state))
		assert.Equal(t, domain.StatusSurrendered, state.Status)
	})

	t.Run("bribe spends party gold", func(t *testing.T) {
		svc, state := start(t)
		party := testParty(t, testHero("Rich", 10))
		party.Gold = 100

		cost, err := svc.Bribe(state, party)
		require.NoError(t, err)
		assert.Equal(t, uint32(10), cost)
		assert.Equal(t, uint32(90), party.Gold)
		assert.Equal(t, domain.StatusFled, state.Status)
	})

	t.Run("bribe without the gold fails", func(t *testing.T) {
		svc, state := start(t)
		party := testParty(t, testHero("Poor", 10))
		party.Gold = 3

		_, err := svc.Bribe(state, party)
		assert.True(t, errors.IsInsufficient(err))
		assert.Equal(t, uint32(3), party.Gold)
		assert.True(t, state.InProgress())
	})
}

func TestVictoryRewards(t *testing.T) {
	roller := dicemock.NewManualMockRoller()
	svc := newService(t, roller)
	state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
		Party:        testParty(t, testHero("Galahad", 12)),
		MonsterGroup: []shared.MonsterID{1},
	})
	require.NoError(t, err)

	_, err = svc.VictoryRewards(state)
	assert.Error(t, err, "no rewards before the fight is won")

	_, err = svc.ApplyDamage(state, domain.MonsterID(1), 100)
	require.NoError(t, err)
	state.CheckCombatEnd()
	require.Equal(t, domain.StatusVictory, state.Status)

	// Gold roll in 1..10, then the item drop percent roll.
	roller.SetRolls([]int{7, 50})

	rewards, err := svc.VictoryRewards(state)
	require.NoError(t, err)
	assert.Equal(t, uint32(25), rewards.Experience)
	assert.Equal(t, uint32(7), rewards.Gold)
	assert.Equal(t, uint32(0), rewards.Gems)
	assert.Equal(t, []shared.ItemID{7}, rewards.Items)
}

func TestExitCombat(t *testing.T) {
	svc := newService(t, dicemock.NewManualMockRoller())
	hero := testHero("Galahad", 12)
	party := testParty(t, hero)

	state, err := svc.StartEncounter(&combatsvc.StartEncounterInput{
		Party:        party,
		MonsterGroup: []shared.MonsterID{1},
	})
	require.NoError(t, err)

	err = svc.ExitCombat(state, party)
	assert.Error(t, err, "cannot exit mid-combat")

	_, err = svc.ApplyDamage(state, domain.PlayerID(0), 4)
	require.NoError(t, err)
	_, err = svc.ApplyDamage(state, domain.MonsterID(1), 100)
	require.NoError(t, err)
	state.CheckCombatEnd()

	require.NoError(t, svc.ExitCombat(state, party))
	assert.Equal(t, uint16(6), hero.HP.Current, "combat damage carries back to the party")
}
