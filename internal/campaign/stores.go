package campaign

import (
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// store keeps content keyed by id while preserving insertion order, so
// every iteration over a content kind is deterministic.
type store[K comparable, V any] struct {
	byID  map[K]*V
	order []K
}

func newStore[K comparable, V any]() store[K, V] {
	return store[K, V]{byID: make(map[K]*V)}
}

func (s *store[K, V]) add(id K, v *V) bool {
	if _, exists := s.byID[id]; exists {
		return false
	}
	s.byID[id] = v
	s.order = append(s.order, id)
	return true
}

func (s *store[K, V]) get(id K) (*V, bool) {
	v, ok := s.byID[id]
	return v, ok
}

func (s *store[K, V]) all() []*V {
	out := make([]*V, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *store[K, V]) len() int { return len(s.order) }

// Database is the loaded content of one campaign. All lookups are by
// content id; write access stops once loading completes.
type Database struct {
	items      store[shared.ItemID, content.Item]
	spells     store[shared.SpellID, content.Spell]
	monsters   store[shared.MonsterID, content.MonsterDefinition]
	classes    store[shared.ClassID, content.ClassDefinition]
	races      store[shared.RaceID, content.RaceDefinition]
	conditions store[shared.ConditionID, content.ConditionDefinition]
	characters store[shared.CharacterID, content.CharacterDefinition]
	maps       store[shared.MapID, content.Map]
	quests     store[shared.QuestID, content.Quest]
	dialogues  store[shared.DialogueID, content.Dialogue]
}

// NewDatabase creates an empty content database.
func NewDatabase() *Database {
	return &Database{
		items:      newStore[shared.ItemID, content.Item](),
		spells:     newStore[shared.SpellID, content.Spell](),
		monsters:   newStore[shared.MonsterID, content.MonsterDefinition](),
		classes:    newStore[shared.ClassID, content.ClassDefinition](),
		races:      newStore[shared.RaceID, content.RaceDefinition](),
		conditions: newStore[shared.ConditionID, content.ConditionDefinition](),
		characters: newStore[shared.CharacterID, content.CharacterDefinition](),
		maps:       newStore[shared.MapID, content.Map](),
		quests:     newStore[shared.QuestID, content.Quest](),
		dialogues:  newStore[shared.DialogueID, content.Dialogue](),
	}
}

func (db *Database) AddItem(item *content.Item) error {
	if !db.items.add(item.ID, item) {
		return errors.AlreadyExistsf("duplicate item id %d", item.ID)
	}
	return nil
}

func (db *Database) Item(id shared.ItemID) (*content.Item, error) {
	item, ok := db.items.get(id)
	if !ok {
		return nil, errors.NotFoundf("item %d not found", id)
	}
	return item, nil
}

func (db *Database) Items() []*content.Item { return db.items.all() }

func (db *Database) AddSpell(spell *content.Spell) error {
	if !db.spells.add(spell.ID, spell) {
		return errors.AlreadyExistsf("duplicate spell id %d", spell.ID)
	}
	return nil
}

func (db *Database) Spell(id shared.SpellID) (*content.Spell, error) {
	spell, ok := db.spells.get(id)
	if !ok {
		return nil, errors.NotFoundf("spell %d not found", id)
	}
	return spell, nil
}

func (db *Database) Spells() []*content.Spell { return db.spells.all() }

// SpellsBySchool returns spells of the school in content order.
func (db *Database) SpellsBySchool(school content.SpellSchool) []*content.Spell {
	var out []*content.Spell
	for _, s := range db.spells.all() {
		if s.School == school {
			out = append(out, s)
		}
	}
	return out
}

// SpellsByLevel returns spells of the school at the given spell level.
func (db *Database) SpellsByLevel(school content.SpellSchool, level uint8) []*content.Spell {
	var out []*content.Spell
	for _, s := range db.spells.all() {
		if s.School == school && s.Level == level {
			out = append(out, s)
		}
	}
	return out
}

func (db *Database) AddMonster(monster *content.MonsterDefinition) error {
	if !db.monsters.add(monster.ID, monster) {
		return errors.AlreadyExistsf("duplicate monster id %d", monster.ID)
	}
	return nil
}

func (db *Database) Monster(id shared.MonsterID) (*content.MonsterDefinition, error) {
	monster, ok := db.monsters.get(id)
	if !ok {
		return nil, errors.NotFoundf("monster %d not found", id)
	}
	return monster, nil
}

func (db *Database) Monsters() []*content.MonsterDefinition { return db.monsters.all() }

// UndeadMonsters returns the undead roster in content order.
func (db *Database) UndeadMonsters() []*content.MonsterDefinition {
	var out []*content.MonsterDefinition
	for _, m := range db.monsters.all() {
		if m.IsUndead {
			out = append(out, m)
		}
	}
	return out
}

// MonstersByHPRange returns monsters whose base HP falls in [min, max].
func (db *Database) MonstersByHPRange(min, max uint16) []*content.MonsterDefinition {
	var out []*content.MonsterDefinition
	for _, m := range db.monsters.all() {
		if m.HP >= min && m.HP <= max {
			out = append(out, m)
		}
	}
	return out
}

func (db *Database) AddClass(class *content.ClassDefinition) error {
	if !db.classes.add(class.ID, class) {
		return errors.AlreadyExistsf("duplicate class %q", class.ID)
	}
	return nil
}

func (db *Database) Class(id shared.ClassID) (*content.ClassDefinition, error) {
	class, ok := db.classes.get(id)
	if !ok {
		return nil, errors.NotFoundf("class %q not found", id)
	}
	return class, nil
}

func (db *Database) Classes() []*content.ClassDefinition { return db.classes.all() }

func (db *Database) AddRace(race *content.RaceDefinition) error {
	if !db.races.add(race.ID, race) {
		return errors.AlreadyExistsf("duplicate race %q", race.ID)
	}
	return nil
}

func (db *Database) Race(id shared.RaceID) (*content.RaceDefinition, error) {
	race, ok := db.races.get(id)
	if !ok {
		return nil, errors.NotFoundf("race %q not found", id)
	}
	return race, nil
}

func (db *Database) Races() []*content.RaceDefinition { return db.races.all() }

func (db *Database) AddCondition(cond *content.ConditionDefinition) error {
	if !db.conditions.add(cond.ID, cond) {
		return errors.AlreadyExistsf("duplicate condition %q", cond.ID)
	}
	return nil
}

func (db *Database) Condition(id shared.ConditionID) (*content.ConditionDefinition, error) {
	cond, ok := db.conditions.get(id)
	if !ok {
		return nil, errors.NotFoundf("condition %q not found", id)
	}
	return cond, nil
}

func (db *Database) Conditions() []*content.ConditionDefinition { return db.conditions.all() }

func (db *Database) AddCharacter(def *content.CharacterDefinition) error {
	if !db.characters.add(def.ID, def) {
		return errors.AlreadyExistsf("duplicate character %q", def.ID)
	}
	return nil
}

func (db *Database) Character(id shared.CharacterID) (*content.CharacterDefinition, error) {
	def, ok := db.characters.get(id)
	if !ok {
		return nil, errors.NotFoundf("character %q not found", id)
	}
	return def, nil
}

func (db *Database) Characters() []*content.CharacterDefinition { return db.characters.all() }

// PremadeCharacters returns the premade roster in content order.
func (db *Database) PremadeCharacters() []*content.CharacterDefinition {
	var out []*content.CharacterDefinition
	for _, def := range db.characters.all() {
		if def.IsPremade {
			out = append(out, def)
		}
	}
	return out
}

func (db *Database) AddMap(m *content.Map) error {
	if !db.maps.add(m.ID, m) {
		return errors.AlreadyExistsf("duplicate map id %d", m.ID)
	}
	return nil
}

func (db *Database) Map(id shared.MapID) (*content.Map, error) {
	m, ok := db.maps.get(id)
	if !ok {
		return nil, errors.NotFoundf("map %d not found", id)
	}
	return m, nil
}

func (db *Database) Maps() []*content.Map { return db.maps.all() }

func (db *Database) AddQuest(quest *content.Quest) error {
	if !db.quests.add(quest.ID, quest) {
		return errors.AlreadyExistsf("duplicate quest %q", quest.ID)
	}
	return nil
}

func (db *Database) Quest(id shared.QuestID) (*content.Quest, error) {
	quest, ok := db.quests.get(id)
	if !ok {
		return nil, errors.NotFoundf("quest %q not found", id)
	}
	return quest, nil
}

func (db *Database) Quests() []*content.Quest { return db.quests.all() }

// QuestsForLevel returns quests available at the given party level.
func (db *Database) QuestsForLevel(level uint8) []*content.Quest {
	var out []*content.Quest
	for _, q := range db.quests.all() {
		if q.AvailableAtLevel(level) {
			out = append(out, q)
		}
	}
	return out
}

func (db *Database) AddDialogue(d *content.Dialogue) error {
	if !db.dialogues.add(d.ID, d) {
		return errors.AlreadyExistsf("duplicate dialogue %q", d.ID)
	}
	return nil
}

func (db *Database) Dialogue(id shared.DialogueID) (*content.Dialogue, error) {
	d, ok := db.dialogues.get(id)
	if !ok {
		return nil, errors.NotFoundf("dialogue %q not found", id)
	}
	return d, nil
}

func (db *Database) Dialogues() []*content.Dialogue { return db.dialogues.all() }

// Counts summarizes loaded content for logging and tooling.
type Counts struct {
	Items      int
	Spells     int
	Monsters   int
	Classes    int
	Races      int
	Conditions int
	Characters int
	Maps       int
	Quests     int
	Dialogues  int
}

// Counts reports how many entries of each kind are loaded.
func (db *Database) Counts() Counts {
	return Counts{
		Items:      db.items.len(),
		Spells:     db.spells.len(),
		Monsters:   db.monsters.len(),
		Classes:    db.classes.len(),
		Races:      db.races.len(),
		Conditions: db.conditions.len(),
		Characters: db.characters.len(),
		Maps:       db.maps.len(),
		Quests:     db.quests.len(),
		Dialogues:  db.dialogues.len(),
	}
}
