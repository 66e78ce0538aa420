package campaign_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
	"github.com/wyrmgate/engine/internal/version"
)

// fixture is a complete in-memory campaign that tests mutate before
// writing to disk.
type fixture struct {
	manifest   map[string]any
	items      []content.Item
	spells     []content.Spell
	monsters   []content.MonsterDefinition
	classes    []content.ClassDefinition
	races      []content.RaceDefinition
	conditions []content.ConditionDefinition
	characters []content.CharacterDefinition
	quests     []content.Quest
	dialogues  []content.Dialogue
	maps       []*content.Map
}

func newFixture() *fixture {
	school := content.SchoolSorcerer
	stat := content.SpellStatIntellect
	town := content.NewMap(1, "Sorpigal", 8, 8)
	town.Events = []content.PlacedEvent{
		{Position: shared.Position{X: 3, Y: 3}, Event: content.MapEvent{
			Kind: content.EventEncounter, MonsterGroup: []shared.MonsterID{1},
		}},
		{Position: shared.Position{X: 5, Y: 5}, Event: content.MapEvent{
			Kind: content.EventSign, Text: "Welcome to Sorpigal",
		}},
	}

	return &fixture{
		manifest: map[string]any{
			"name":           "Test Campaign",
			"version":        "1.0.0",
			"author":         "tester",
			"engine_version": version.Engine,
			"config": map[string]any{
				"starting_map":       1,
				"starting_position":  map[string]any{"x": 1, "y": 1},
				"starting_direction": "north",
				"starting_gold":      200,
				"starting_food":      10,
			},
		},
		items: []content.Item{
			{ID: 1, Name: "Longsword", Type: content.WeaponType(content.WeaponData{
				Damage: dice.MustDiceRoll(1, 8, 0), HandsRequired: 1,
			})},
			{ID: 2, Name: "Healing Potion", Type: content.ConsumableType(content.ConsumableData{
				Effect: content.HealHP(10), CombatUsable: true,
			})},
		},
		spells: []content.Spell{
			{ID: 1, Name: "Flame Arrow", School: content.SchoolSorcerer, Level: 1,
				SPCost: 2, Context: content.ContextCombatOnly, Target: content.TargetSingleMonster,
				Damage: &dice.DiceRoll{Count: 1, Sides: 6}},
		},
		monsters: []content.MonsterDefinition{
			{ID: 1, Name: "Goblin", HP: 8, AC: 12,
				Attacks: []content.Attack{content.PhysicalAttack(dice.MustDiceRoll(1, 4, 0))},
				Loot:    content.LootTable{GoldMax: 10, Experience: 10}},
		},
		classes: []content.ClassDefinition{
			{ID: "knight", Name: "Knight", HPDie: dice.MustDiceRoll(1, 10, 0)},
			{ID: "sorcerer", Name: "Sorcerer", HPDie: dice.MustDiceRoll(1, 4, 0),
				SpellSchool: &school, IsPureCaster: true, SpellStat: &stat},
		},
		races: []content.RaceDefinition{
			{ID: "human", Name: "Human", Size: content.SizeMedium},
		},
		conditions: []content.ConditionDefinition{
			{ID: "poisoned", Name: "Poisoned", Effects: []content.ConditionEffect{
				content.DamageOverTime(dice.MustDiceRoll(1, 2, 0), "poison"),
			}, DefaultDuration: shared.Rounds(3)},
		},
		characters: []content.CharacterDefinition{
			{ID: "zara", Name: "Zara", RaceID: "human", ClassID: "knight",
				Sex: shared.SexFemale, Alignment: shared.AlignmentGood,
				BaseStats: content.BaseStats{Might: 14, Intellect: 8, Personality: 10,
					Endurance: 12, Speed: 11, Accuracy: 10, Luck: 9},
				IsPremade: true, StartsInParty: true},
		},
		quests: []content.Quest{
			{ID: "rats", Name: "Rats in the Cellar", Stages: []content.QuestStage{
				{StageNumber: 1, Name: "Clear the cellar",
					Objectives: []content.QuestObjective{content.KillMonsters(1, 3)}},
			}, Rewards: []content.QuestReward{content.GoldReward(50)}},
		},
		dialogues: []content.Dialogue{
			{ID: "greeting", Name: "Greeting", RootNode: "hello",
				Nodes: []content.DialogueNode{{ID: "hello", Text: "Well met."}}},
		},
		maps: []*content.Map{town},
	}
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func (f *fixture) write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "campaign.json"), f.manifest)
	writeJSON(t, filepath.Join(dir, "data", "items.json"), f.items)
	writeJSON(t, filepath.Join(dir, "data", "spells.json"), f.spells)
	writeJSON(t, filepath.Join(dir, "data", "monsters.json"), f.monsters)
	writeJSON(t, filepath.Join(dir, "data", "classes.json"), f.classes)
	writeJSON(t, filepath.Join(dir, "data", "races.json"), f.races)
	writeJSON(t, filepath.Join(dir, "data", "conditions.json"), f.conditions)
	writeJSON(t, filepath.Join(dir, "data", "characters.json"), f.characters)
	writeJSON(t, filepath.Join(dir, "data", "quests.json"), f.quests)
	writeJSON(t, filepath.Join(dir, "data", "dialogues.json"), f.dialogues)
	for i, m := range f.maps {
		name := filepath.Join(dir, "data", "maps", "map_"+string(rune('a'+i))+".json")
		writeJSON(t, name, m)
	}
	return dir
}

func TestLoadCampaign(t *testing.T) {
	f := newFixture()
	dir := f.write(t)

	manifest, db, err := campaign.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(dir), manifest.ID)
	assert.Equal(t, "Test Campaign", manifest.Name)
	assert.Equal(t, 6, manifest.Config.MaxPartySize, "defaults fill unset config")
	assert.Equal(t, campaign.DifficultyNormal, manifest.Config.Difficulty)

	counts := db.Counts()
	assert.Equal(t, 2, counts.Items)
	assert.Equal(t, 1, counts.Spells)
	assert.Equal(t, 1, counts.Maps)

	ref := manifest.Reference()
	assert.Equal(t, campaign.Reference{ID: manifest.ID, Version: "1.0.0", Name: "Test Campaign"}, ref)
}

func TestLoadBackfillsEventIDs(t *testing.T) {
	f := newFixture()
	dir := f.write(t)

	_, db, err := campaign.Load(dir)
	require.NoError(t, err)

	m, err := db.Map(1)
	require.NoError(t, err)
	require.Len(t, m.Events, 2)
	assert.Equal(t, shared.EventID(1), m.Events[0].ID)
	assert.Equal(t, shared.EventID(2), m.Events[1].ID)

	tile := m.TileAt(shared.Position{X: 3, Y: 3})
	require.NotNil(t, tile.EventTrigger)
	assert.Equal(t, shared.EventID(1), *tile.EventTrigger)
}

func TestLoadMissingCampaign(t *testing.T) {
	_, _, err := campaign.Load(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadEngineVersionMismatch(t *testing.T) {
	f := newFixture()
	f.manifest["engine_version"] = "99.0.0"
	dir := f.write(t)

	_, _, err := campaign.Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeVersionMismatch))
}

func TestLoadDuplicateContentID(t *testing.T) {
	f := newFixture()
	f.items = append(f.items, content.Item{ID: 1, Name: "Copy of Longsword",
		Type: content.WeaponType(content.WeaponData{Damage: dice.MustDiceRoll(1, 8, 0), HandsRequired: 1})})
	dir := f.write(t)

	_, _, err := campaign.Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	f := newFixture()
	dir := f.write(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "races.json"),
		[]byte(`[{"id":"human","name":"Human","favourite_colour":"blue"}]`), 0o644))

	_, _, err := campaign.Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "races.json")
}

func TestLoadReportsFirstFailingFile(t *testing.T) {
	corrupt := func(t *testing.T, dir string, rel string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte("{not json"), 0o644))
	}

	t.Run("two corrupt content files", func(t *testing.T) {
		f := newFixture()
		dir := f.write(t)
		corrupt(t, dir, filepath.Join("data", "classes.json"))
		corrupt(t, dir, filepath.Join("data", "spells.json"))

		_, _, err := campaign.Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "classes.json")
		assert.NotContains(t, err.Error(), "spells.json")
	})

	t.Run("two corrupt map files", func(t *testing.T) {
		f := newFixture()
		second := content.NewMap(2, "Cavern", 4, 4)
		f.maps = append(f.maps, second)
		dir := f.write(t)
		corrupt(t, dir, filepath.Join("data", "maps", "map_a.json"))
		corrupt(t, dir, filepath.Join("data", "maps", "map_b.json"))

		_, _, err := campaign.Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "map_a.json")
		assert.NotContains(t, err.Error(), "map_b.json")
	})
}

func TestValidateDanglingReferences(t *testing.T) {
	t.Run("character with unknown race", func(t *testing.T) {
		f := newFixture()
		f.characters[0].RaceID = "elf"
		dir := f.write(t)

		_, _, err := campaign.Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `race "elf" not found`)
	})

	t.Run("quest targeting unknown monster", func(t *testing.T) {
		f := newFixture()
		f.quests[0].Stages[0].Objectives = []content.QuestObjective{content.KillMonsters(9, 1)}
		dir := f.write(t)

		_, _, err := campaign.Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "monster 9 not found")
	})

	t.Run("encounter with unknown monster", func(t *testing.T) {
		f := newFixture()
		f.maps[0].Events[0].Event.MonsterGroup = []shared.MonsterID{42}
		dir := f.write(t)

		_, _, err := campaign.Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "monster 42 not found")
	})

	t.Run("starting map missing", func(t *testing.T) {
		f := newFixture()
		f.manifest["config"].(map[string]any)["starting_map"] = 7
		dir := f.write(t)

		_, _, err := campaign.Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "starting map 7 not found")
	})
}

func TestValidateManifestConfig(t *testing.T) {
	f := newFixture()
	f.manifest["config"].(map[string]any)["starting_level"] = 30
	dir := f.write(t)

	_, _, err := campaign.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting_level 30 exceeds max_level 20")
}

func TestDatabaseFilters(t *testing.T) {
	f := newFixture()
	f.monsters = append(f.monsters, content.MonsterDefinition{
		ID: 2, Name: "Skeleton", HP: 12, AC: 13, IsUndead: true,
		Attacks: []content.Attack{content.PhysicalAttack(dice.MustDiceRoll(1, 6, 0))},
	})
	dir := f.write(t)

	_, db, err := campaign.Load(dir)
	require.NoError(t, err)

	undead := db.UndeadMonsters()
	require.Len(t, undead, 1)
	assert.Equal(t, "Skeleton", undead[0].Name)

	mid := db.MonstersByHPRange(10, 20)
	require.Len(t, mid, 1)
	assert.Equal(t, shared.MonsterID(2), mid[0].ID)

	premade := db.PremadeCharacters()
	require.Len(t, premade, 1)
	assert.Equal(t, shared.CharacterID("zara"), premade[0].ID)

	fire := db.SpellsByLevel(content.SchoolSorcerer, 1)
	require.Len(t, fire, 1)
	assert.Equal(t, "Flame Arrow", fire[0].Name)
	assert.Empty(t, db.SpellsByLevel(content.SchoolCleric, 1))
}
