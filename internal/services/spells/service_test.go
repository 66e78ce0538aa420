package spells_test

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
	"github.com/wyrmgate/engine/internal/domain/monster"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
	"github.com/wyrmgate/engine/internal/services/spells"
)

func testDatabase(t *testing.T) *campaign.Database {
	t.Helper()
	db := campaign.NewDatabase()

	sorcerer := content.SchoolSorcerer
	cleric := content.SchoolCleric
	intellect := content.SpellStatIntellect
	personality := content.SpellStatPersonality
	require.NoError(t, db.AddClass(&content.ClassDefinition{
		ID:           "sorcerer",
		Name:         "Sorcerer",
		HPDie:        dice.MustDiceRoll(1, 4, 0),
		SpellSchool:  &sorcerer,
		IsPureCaster: true,
		SpellStat:    &intellect,
	}))
	require.NoError(t, db.AddClass(&content.ClassDefinition{
		ID:    "knight",
		Name:  "Knight",
		HPDie: dice.MustDiceRoll(1, 10, 0),
	}))
	require.NoError(t, db.AddClass(&content.ClassDefinition{
		ID:          "paladin",
		Name:        "Paladin",
		HPDie:       dice.MustDiceRoll(1, 8, 0),
		SpellSchool: &cleric,
		SpellStat:   &personality,
	}))

	damage1d6 := dice.MustDiceRoll(1, 6, 0)
	damage2d6 := dice.MustDiceRoll(2, 6, 0)
	require.NoError(t, db.AddSpell(&content.Spell{
		ID:      1,
		Name:    "Flame Arrow",
		School:  content.SchoolSorcerer,
		Level:   1,
		SPCost:  2,
		Context: content.ContextCombatOnly,
		Target:  content.TargetSingleMonster,
		Damage:  &damage1d6,
	}))
	require.NoError(t, db.AddSpell(&content.Spell{
		ID:      2,
		Name:    "Fireball",
		School:  content.SchoolSorcerer,
		Level:   3,
		SPCost:  5,
		GemCost: 1,
		Context: content.ContextCombatOnly,
		Target:  content.TargetAllMonsters,
		Damage:  &damage2d6,
	}))
	require.NoError(t, db.AddSpell(&content.Spell{
		ID:                3,
		Name:              "Bless",
		School:            content.SchoolCleric,
		Level:             1,
		SPCost:            1,
		Context:           content.ContextAnyTime,
		Target:            content.TargetAllCharacters,
		AppliedConditions: []shared.ConditionID{"blessed"},
	}))
	require.NoError(t, db.AddSpell(&content.Spell{
		ID:                4,
		Name:              "Sleep",
		School:            content.SchoolSorcerer,
		Level:             1,
		SPCost:            3,
		Context:           content.ContextCombatOnly,
		Target:            content.TargetMonsterGroup,
		AppliedConditions: []shared.ConditionID{"drowsy"},
	}))
	require.NoError(t, db.AddSpell(&content.Spell{
		ID:      5,
		Name:    "Beacon",
		School:  content.SchoolSorcerer,
		Level:   1,
		SPCost:  1,
		Context: content.ContextOutdoors,
		Target:  content.TargetSelf,
	}))

	require.NoError(t, db.AddCondition(&content.ConditionDefinition{
		ID:   "blessed",
		Name: "Blessed",
		Effects: []content.ConditionEffect{
			content.AttributeModifier("ac", 1),
		},
		DefaultDuration: shared.Rounds(5),
	}))
	require.NoError(t, db.AddCondition(&content.ConditionDefinition{
		ID:   "drowsy",
		Name: "Drowsy",
		Effects: []content.ConditionEffect{
			content.StatusEffect("asleep"),
		},
		DefaultDuration: shared.Rounds(3),
	}))

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
	}))
	return db
}

func testSorcerer(name string) *character.Character {
	return &character.Character{
		ID:      shared.CharacterID(name),
		Name:    name,
		RaceID:  "elf",
		ClassID: "sorcerer",
		Level:   5,
		Stats:   shared.NewStats(10, 14, 10, 10, 9, 10, 8),
		HP:      shared.NewBoundedAttr16(12),
		SP:      shared.NewBoundedAttr16(10),
		AC:      shared.NewBoundedAttr8(2),
	}
}

func testParty(t *testing.T, members ...*character.Character) *character.Party {
	t.Helper()
	party := character.NewParty(0)
	for _, m := range members {
		require.NoError(t, party.AddMember(m))
	}
	party.Gems = 3
	return party
}

func testEncounter(t *testing.T, db *campaign.Database, heroes ...*character.Character) *domain.State {
	t.Helper()
	state := domain.NewState(domain.HandicapEven)
	for _, h := range heroes {
		state.AddPlayer(h)
	}
	def, err := db.Monster(1)
	require.NoError(t, err)
	state.AddMonster(monster.FromDefinition(def))
	state.AddMonster(monster.FromDefinition(def))
	state.Start()
	return state
}

func newService(t *testing.T, db *campaign.Database, roller dice.Roller) spells.Service {
	t.Helper()
	return spells.NewService(&spells.ServiceConfig{Database: db, Roller: roller})
}

func TestNewServicePanicsWithoutDeps(t *testing.T) {
	assert.Panics(t, func() {
		spells.NewService(&spells.ServiceConfig{Roller: dicemock.NewManualMockRoller()})
	})
	assert.Panics(t, func() {
		spells.NewService(&spells.ServiceConfig{Database: campaign.NewDatabase()})
	})
}

func TestCanCast(t *testing.T) {
	db := testDatabase(t)
	svc := newService(t, db, dicemock.NewManualMockRoller())
	inCombat := spells.CastContext{InCombat: true}

	t.Run("all checks pass", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		assert.NoError(t, svc.CanCast(caster, party, 1, inCombat))
	})

	t.Run("silenced caster", func(t *testing.T) {
		caster := testSorcerer("Mira")
		caster.Conditions = caster.Conditions.Set(shared.FlagSilenced)
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 1, inCombat)
		assert.True(t, errors.Is(err, errors.CodeCannotAct))
	})

	t.Run("wrong school", func(t *testing.T) {
		caster := testSorcerer("Mira")
		caster.ClassID = "knight"
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 1, inCombat)
		assert.True(t, errors.Is(err, errors.CodeRestricted))
	})

	t.Run("level too low", func(t *testing.T) {
		caster := testSorcerer("Mira")
		caster.Level = 4
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 2, inCombat)
		assert.True(t, errors.Is(err, errors.CodeRestricted), "level 3 spells unlock at 5")
	})

	t.Run("hybrid caster floor", func(t *testing.T) {
		caster := testSorcerer("Roland")
		caster.ClassID = "paladin"
		caster.Level = 2
		party := testParty(t, caster)

		err := svc.CanCast(caster, party, 3, inCombat)
		assert.True(t, errors.Is(err, errors.CodeRestricted), "hybrids learn nothing before level 3")

		caster.Level = 3
		assert.NoError(t, svc.CanCast(caster, party, 3, inCombat))
	})

	t.Run("combat spell outside combat", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 1, spells.CastContext{})
		assert.True(t, errors.Is(err, errors.CodeInvalidContext))
	})

	t.Run("outdoor spell indoors", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 5, spells.CastContext{})
		assert.True(t, errors.Is(err, errors.CodeInvalidContext))

		assert.NoError(t, svc.CanCast(caster, party, 5, spells.CastContext{Outdoors: true}))
	})

	t.Run("anti-magic zone", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 1, spells.CastContext{InCombat: true, AntiMagicZone: true})
		assert.True(t, errors.Is(err, errors.CodeInvalidContext))
	})

	t.Run("not enough spell points", func(t *testing.T) {
		caster := testSorcerer("Mira")
		caster.SP.Current = 1
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 1, inCombat)
		assert.True(t, errors.IsInsufficient(err))
	})

	t.Run("not enough gems", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		party.Gems = 0
		err := svc.CanCast(caster, party, 2, inCombat)
		assert.True(t, errors.IsInsufficient(err))
	})

	t.Run("unknown spell", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		err := svc.CanCast(caster, party, 99, inCombat)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestCastSpellSpendsResources(t *testing.T) {
	db := testDatabase(t)
	svc := newService(t, db, dicemock.NewManualMockRoller())

	caster := testSorcerer("Mira")
	party := testParty(t, caster)

	spell, err := svc.CastSpell(caster, party, 2, spells.CastContext{InCombat: true})
	require.NoError(t, err)
	assert.Equal(t, "Fireball", spell.Name)
	assert.Equal(t, uint16(5), caster.SP.Current)
	assert.Equal(t, uint32(2), party.Gems)

	t.Run("failed validation spends nothing", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		party.Gems = 0

		_, err := svc.CastSpell(caster, party, 2, spells.CastContext{InCombat: true})
		require.Error(t, err)
		assert.Equal(t, uint16(10), caster.SP.Current)
	})
}

func TestExecuteSpellCastSingleTarget(t *testing.T) {
	db := testDatabase(t)
	roller := dicemock.NewManualMockRoller()
	svc := newService(t, db, roller)

	caster := testSorcerer("Mira")
	party := testParty(t, caster)
	state := testEncounter(t, db, caster)

	roller.SetRolls([]int{4})
	result, err := svc.ExecuteSpellCast(state, domain.PlayerID(0), party, 1, domain.MonsterID(1), spells.CastContext{})
	require.NoError(t, err)

	// 1d6 roll of 4 plus the intellect bonus of +2.
	assert.Equal(t, 6, result.Damage)
	assert.Equal(t, []domain.CombatantID{domain.MonsterID(1)}, result.Affected)
	assert.Equal(t, uint16(8), caster.SP.Current)

	target, err := state.Combatant(domain.MonsterID(1))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), target.Monster.HP.Current)

	assert.Equal(t, 1, state.CurrentTurn, "casting consumes the turn")

	t.Run("monster spell aimed at a player", func(t *testing.T) {
		_, err := svc.ExecuteSpellCast(state, domain.PlayerID(0), party, 1, domain.PlayerID(0), spells.CastContext{})
		assert.True(t, errors.Is(err, errors.CodeInvalidTarget))
	})
}

func TestExecuteSpellCastAllMonsters(t *testing.T) {
	db := testDatabase(t)
	roller := dicemock.NewManualMockRoller()
	svc := newService(t, db, roller)

	caster := testSorcerer("Mira")
	party := testParty(t, caster)
	state := testEncounter(t, db, caster)

	// First goblin takes 6+2, the second 3+1, both plus the +2 bonus.
	roller.SetRolls([]int{6, 2, 3, 1})
	result, err := svc.ExecuteSpellCast(state, domain.PlayerID(0), party, 2, domain.CombatantID{}, spells.CastContext{})
	require.NoError(t, err)

	assert.Equal(t, 16, result.Damage)
	assert.Equal(t, []domain.CombatantID{domain.MonsterID(1), domain.MonsterID(2)}, result.Affected)
	assert.Equal(t, uint32(2), party.Gems)

	first, err := state.Combatant(domain.MonsterID(1))
	require.NoError(t, err)
	assert.False(t, first.Monster.IsAlive(), "ten damage kills an eight hit point goblin")

	second, err := state.Combatant(domain.MonsterID(2))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), second.Monster.HP.Current)

	assert.True(t, state.InProgress(), "one goblin still stands")
}

func TestExecuteSpellCastConditions(t *testing.T) {
	db := testDatabase(t)
	roller := dicemock.NewManualMockRoller()
	svc := newService(t, db, roller)

	t.Run("bless raises every member's armor class", func(t *testing.T) {
		caster := testSorcerer("Roland")
		caster.ClassID = "paladin"
		ally := testSorcerer("Selene")
		party := testParty(t, caster, ally)
		state := testEncounter(t, db, caster, ally)

		result, err := svc.ExecuteSpellCast(state, domain.PlayerID(0), party, 3, domain.CombatantID{}, spells.CastContext{})
		require.NoError(t, err)

		assert.Equal(t, []shared.ConditionID{"blessed"}, result.AppliedConditions)
		assert.Equal(t, uint8(3), caster.AC.Current)
		assert.Equal(t, uint8(3), ally.AC.Current)
	})

	t.Run("sleep downs the monster group", func(t *testing.T) {
		caster := testSorcerer("Mira")
		party := testParty(t, caster)
		state := testEncounter(t, db, caster)

		result, err := svc.ExecuteSpellCast(state, domain.PlayerID(0), party, 4, domain.CombatantID{}, spells.CastContext{})
		require.NoError(t, err)
		assert.Len(t, result.Affected, 2)

		for _, id := range result.Affected {
			target, err := state.Combatant(id)
			require.NoError(t, err)
			assert.Equal(t, monster.ConditionAsleep, target.Monster.Condition)
			assert.False(t, target.Monster.CanAct())
		}
	})
}

func TestExecuteSpellCastValidationBlocks(t *testing.T) {
	db := testDatabase(t)
	svc := newService(t, db, dicemock.NewManualMockRoller())

	caster := testSorcerer("Mira")
	caster.SP.Current = 0
	party := testParty(t, caster)
	state := testEncounter(t, db, caster)

	_, err := svc.ExecuteSpellCast(state, domain.PlayerID(0), party, 1, domain.MonsterID(1), spells.CastContext{})
	assert.True(t, errors.IsInsufficient(err))
	assert.Equal(t, 0, state.CurrentTurn, "a refused cast does not consume the turn")

	t.Run("monsters cannot use the casting service", func(t *testing.T) {
		_, err := svc.ExecuteSpellCast(state, domain.MonsterID(1), party, 1, domain.MonsterID(2), spells.CastContext{})
		assert.True(t, errors.Is(err, errors.CodeInvalidTarget))
	})

	t.Run("silence outranks a bad target", func(t *testing.T) {
		caster := testSorcerer("Mira")
		caster.Conditions = caster.Conditions.Set(shared.FlagSilenced)
		party := testParty(t, caster)
		state := testEncounter(t, db, caster)

		_, err := svc.ExecuteSpellCast(state, domain.PlayerID(0), party, 1, domain.MonsterID(99), spells.CastContext{})
		assert.True(t, errors.Is(err, errors.CodeCannotAct))
	})
}
