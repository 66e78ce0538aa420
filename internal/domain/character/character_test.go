package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/character"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

func knightClass() *content.ClassDefinition {
	return &content.ClassDefinition{
		ID: "knight", Name: "Knight", HPDie: dice.MustDiceRoll(1, 10, 0),
	}
}

func sorcererClass() *content.ClassDefinition {
	school := content.SchoolSorcerer
	stat := content.SpellStatIntellect
	return &content.ClassDefinition{
		ID: "sorcerer", Name: "Sorcerer", HPDie: dice.MustDiceRoll(1, 4, 0),
		SpellSchool: &school, IsPureCaster: true, SpellStat: &stat,
	}
}

func humanRace() *content.RaceDefinition {
	return &content.RaceDefinition{ID: "human", Name: "Human", Size: content.SizeMedium}
}

func dwarfRace() *content.RaceDefinition {
	return &content.RaceDefinition{
		ID: "dwarf", Name: "Dwarf", Size: content.SizeMedium,
		StatModifiers: content.StatModifiers{Endurance: 2, Speed: -1},
		Resistances:   content.Resistances{Poison: 25},
	}
}

func knightDef() *content.CharacterDefinition {
	return &content.CharacterDefinition{
		ID: "galahad", Name: "Sir Galahad", RaceID: "human", ClassID: "knight",
		Sex: shared.SexMale, Alignment: shared.AlignmentGood,
		BaseStats: content.BaseStats{Might: 16, Intellect: 8, Personality: 10,
			Endurance: 14, Speed: 12, Accuracy: 14, Luck: 10},
	}
}

func TestFromDefinition(t *testing.T) {
	t.Run("knight", func(t *testing.T) {
		c, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
		require.NoError(t, err)

		assert.Equal(t, shared.CharacterID("galahad"), c.ID)
		assert.Equal(t, uint8(1), c.Level)
		assert.Equal(t, uint16(18), c.Age)
		// d10 max plus endurance 14 modifier.
		assert.Equal(t, uint16(12), c.HP.Base)
		assert.Equal(t, uint16(0), c.SP.Base, "non-casters get no spell points")
		assert.Equal(t, uint8(1), c.AC.Base, "speed 12 grants +1")
		assert.True(t, c.IsAlive())
		assert.True(t, c.CanAct())
	})

	t.Run("race modifiers adjust base stats", func(t *testing.T) {
		def := knightDef()
		def.RaceID = "dwarf"
		c, err := character.FromDefinition(def, dwarfRace(), knightClass(), 1)
		require.NoError(t, err)

		assert.Equal(t, uint8(16), c.Stats.Endurance.Base)
		assert.Equal(t, uint8(11), c.Stats.Speed.Base)
		assert.Equal(t, uint8(25), c.Resistances.Poison)
		// d10 max plus endurance 16 modifier.
		assert.Equal(t, uint16(13), c.HP.Base)
	})

	t.Run("sorcerer spell points", func(t *testing.T) {
		def := knightDef()
		def.ClassID = "sorcerer"
		def.BaseStats.Intellect = 16
		c, err := character.FromDefinition(def, humanRace(), sorcererClass(), 3)
		require.NoError(t, err)

		// (16-10)*3/2 + 3*2 = 9 + 6
		assert.Equal(t, uint16(15), c.SP.Base)
	})

	t.Run("race mismatch rejected", func(t *testing.T) {
		_, err := character.FromDefinition(knightDef(), dwarfRace(), knightClass(), 1)
		assert.Error(t, err)
	})
}

func TestTakeDamageAndHeal(t *testing.T) {
	c, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
	require.NoError(t, err)

	c.TakeDamage(5)
	assert.Equal(t, uint16(7), c.HP.Current)
	assert.True(t, c.IsConscious())

	c.TakeDamage(100)
	assert.Equal(t, uint16(0), c.HP.Current)
	assert.True(t, c.IsAlive(), "zero hit points means unconscious, not dead")
	assert.False(t, c.IsConscious())
	assert.False(t, c.CanAct())

	c.Heal(3)
	assert.Equal(t, uint16(3), c.HP.Current)
	assert.True(t, c.IsConscious(), "healing above zero wakes the character")

	c.Heal(1000)
	assert.Equal(t, c.HP.Base, c.HP.Current, "healing never exceeds the maximum")

	c.Kill()
	assert.False(t, c.IsAlive())
	c.Heal(10)
	assert.False(t, c.IsAlive(), "healing does not raise the dead")
}

func TestConditionRefreshAndTick(t *testing.T) {
	c, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
	require.NoError(t, err)

	c.AddCondition(shared.NewActiveCondition("poisoned", shared.Rounds(2)))
	c.AddCondition(shared.NewActiveCondition("blessed", shared.Minutes(5)))
	require.Len(t, c.ActiveConditions, 2)

	// Reapplying refreshes the duration instead of stacking.
	c.AddCondition(shared.NewActiveCondition("poisoned", shared.Rounds(4)))
	require.Len(t, c.ActiveConditions, 2)
	assert.Equal(t, 4, c.ActiveConditions[0].Duration.Value)

	for i := 0; i < 4; i++ {
		c.TickConditionsRound()
	}
	assert.False(t, c.HasCondition("poisoned"))
	assert.True(t, c.HasCondition("blessed"))

	c.RemoveCondition("blessed")
	assert.Empty(t, c.ActiveConditions)
}

func TestConditionModifier(t *testing.T) {
	defs := []*content.ConditionDefinition{
		{ID: "weakened", Effects: []content.ConditionEffect{
			content.AttributeModifier(shared.AttributeMight, -4),
		}},
		{ID: "heroism", Effects: []content.ConditionEffect{
			content.AttributeModifier(shared.AttributeMight, 2),
			content.StatusEffect("heroic"),
		}},
	}

	c, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
	require.NoError(t, err)

	c.AddCondition(shared.NewActiveCondition("weakened", shared.UntilRest()))
	assert.Equal(t, int16(-4), c.ConditionModifier(shared.AttributeMight, defs))
	assert.Equal(t, uint8(12), c.EffectiveStat(shared.AttributeMight, defs))

	heroism := shared.NewActiveCondition("heroism", shared.Minutes(10))
	heroism.Magnitude = 2
	c.AddCondition(heroism)
	assert.Equal(t, int16(0), c.ConditionModifier(shared.AttributeMight, defs))
	assert.True(t, c.HasStatusEffect("heroic", defs))

	c.Rest()
	assert.False(t, c.HasCondition("weakened"), "rest clears until-rest conditions")
	assert.True(t, c.HasCondition("heroism"))
}

func TestLegacyFlagsGateActions(t *testing.T) {
	c, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
	require.NoError(t, err)

	c.Conditions = c.Conditions.Set(shared.FlagPoisoned)
	assert.True(t, c.CanAct(), "poison alone does not stop a turn")

	c.Conditions = c.Conditions.Set(shared.FlagParalyzed)
	assert.False(t, c.CanAct())

	c.Conditions = shared.FlagSilenced
	assert.True(t, c.IsSilenced())
}

func TestInventoryLimits(t *testing.T) {
	inv := character.Inventory{}
	for i := 1; i <= character.MaxInventoryItems; i++ {
		require.NoError(t, inv.Add(shared.ItemID(i), 0))
	}
	err := inv.Add(7, 0)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficient(err))

	slot, err := inv.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, shared.ItemID(1), slot.ItemID)
	assert.Len(t, inv.Items, 5)

	_, err = inv.Remove(10)
	assert.Error(t, err)
}

func TestSpellBook(t *testing.T) {
	def := knightDef()
	def.ClassID = "sorcerer"
	c, err := character.FromDefinition(def, humanRace(), sorcererClass(), 1)
	require.NoError(t, err)

	require.NoError(t, c.LearnSpell(3))
	assert.True(t, c.KnowsSpell(3))
	err = c.LearnSpell(3)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestPartyMembership(t *testing.T) {
	party := character.NewParty(0)
	assert.True(t, party.IsEmpty())

	for i := 0; i < character.DefaultMaxPartySize; i++ {
		def := knightDef()
		def.ID = shared.CharacterID(string(rune('a' + i)))
		c, err := character.FromDefinition(def, humanRace(), knightClass(), 1)
		require.NoError(t, err)
		require.NoError(t, party.AddMember(c))
	}
	assert.True(t, party.IsFull())

	extra, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
	require.NoError(t, err)
	assert.Error(t, party.AddMember(extra))

	require.NoError(t, party.SwapMembers(0, 5))
	assert.Equal(t, shared.CharacterID("f"), party.Members[0].ID)

	removed, err := party.RemoveMember(0)
	require.NoError(t, err)
	assert.Equal(t, shared.CharacterID("f"), removed.ID)
	assert.Len(t, party.Members, 5)
}

func TestPartyResources(t *testing.T) {
	party := character.NewParty(0)
	party.Gold = 100

	require.NoError(t, party.SpendGold(60))
	assert.Equal(t, uint32(40), party.Gold)

	err := party.SpendGold(50)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficient(err))
	assert.Equal(t, uint32(40), party.Gold, "failed spend deducts nothing")
}

func TestPartyDefeated(t *testing.T) {
	party := character.NewParty(0)
	a, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
	require.NoError(t, err)
	require.NoError(t, party.AddMember(a))

	assert.False(t, party.IsDefeated())
	a.TakeDamage(1000)
	assert.True(t, party.IsDefeated(), "an unconscious party is beaten")
}

func TestRoster(t *testing.T) {
	roster := character.NewRoster(0)

	a, err := character.FromDefinition(knightDef(), humanRace(), knightClass(), 1)
	require.NoError(t, err)
	require.NoError(t, roster.Add(a, character.InParty()))

	def := knightDef()
	def.ID = "percival"
	b, err := character.FromDefinition(def, humanRace(), knightClass(), 1)
	require.NoError(t, err)
	require.NoError(t, roster.Add(b, character.AtInn("innkeeper_sorpigal")))

	err = roster.Add(a, character.InParty())
	assert.True(t, errors.IsAlreadyExists(err))

	assert.Equal(t, 1, roster.InPartyCount())
	inn := roster.AtInn("innkeeper_sorpigal")
	require.Len(t, inn, 1)
	assert.Equal(t, shared.CharacterID("percival"), inn[0].ID)

	require.NoError(t, roster.SetLocation("percival", character.InParty()))
	assert.Equal(t, 2, roster.InPartyCount())

	_, err = roster.Remove("nobody")
	assert.True(t, errors.IsNotFound(err))
}
