// Package testutils provides shared fixtures for engine tests: a small
// but fully valid content database and a Redis gate for integration
// tests.
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/character"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
)

// CreateTestDatabase builds a minimal content database: one race, one
// class, one healing potion and one premade character. Tests that need
// more register their own definitions on top.
func CreateTestDatabase(t *testing.T) *campaign.Database {
	t.Helper()
	db := campaign.NewDatabase()

	require.NoError(t, db.AddRace(&content.RaceDefinition{ID: "human", Name: "Human"}))
	require.NoError(t, db.AddClass(&content.ClassDefinition{
		ID:    "knight",
		Name:  "Knight",
		HPDie: dice.MustDiceRoll(1, 10, 0),
	}))
	require.NoError(t, db.AddItem(&content.Item{
		ID:   1,
		Name: "Healing Potion",
		Type: content.ConsumableType(content.ConsumableData{
			Effect:       content.HealHP(8),
			CombatUsable: true,
		}),
	}))
	require.NoError(t, db.AddCharacter(&content.CharacterDefinition{
		ID: "hero", Name: "Hero", RaceID: "human", ClassID: "knight",
		Sex: shared.SexFemale, Alignment: shared.AlignmentGood,
		BaseStats: content.BaseStats{
			Might: 12, Intellect: 10, Personality: 10,
			Endurance: 12, Speed: 10, Accuracy: 11, Luck: 9,
		},
		IsPremade: true, StartsInParty: true,
	}))
	return db
}

// CreateTestCharacter instantiates the fixture hero from the database.
func CreateTestCharacter(t *testing.T, db *campaign.Database) *character.Character {
	t.Helper()
	def, err := db.Character("hero")
	require.NoError(t, err)
	race, err := db.Race(def.RaceID)
	require.NoError(t, err)
	class, err := db.Class(def.ClassID)
	require.NoError(t, err)

	hero, err := character.FromDefinition(def, race, class, 1)
	require.NoError(t, err)
	return hero
}

// CreateTestParty builds a one-member party with a modest purse.
func CreateTestParty(t *testing.T, db *campaign.Database) *character.Party {
	t.Helper()
	party := character.NewParty(0)
	require.NoError(t, party.AddMember(CreateTestCharacter(t, db)))
	party.Gold = 100
	party.Food = 10
	return party
}
