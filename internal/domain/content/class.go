package content

import (
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/shared"
)

// SpellSchool is a casting tradition. Class eligibility for a spell is
// gated on the school.
type SpellSchool string

const (
	SchoolSorcerer SpellSchool = "sorcerer"
	SchoolCleric   SpellSchool = "cleric"
)

// SpellStat is the attribute a caster's spell points derive from.
type SpellStat string

const (
	SpellStatIntellect   SpellStat = "intellect"
	SpellStatPersonality SpellStat = "personality"
)

// Attribute returns the shared attribute backing the spell stat.
func (s SpellStat) Attribute() shared.Attribute {
	if s == SpellStatPersonality {
		return shared.AttributePersonality
	}
	return shared.AttributeIntellect
}

// defaultSpellLevelLadder maps spell level to the character level required
// to learn it: spell level n unlocks at character level 2n-1.
var defaultSpellLevelLadder = map[uint8]uint8{
	1: 1, 2: 3, 3: 5, 4: 7, 5: 9, 6: 11, 7: 13,
}

// ClassDefinition is a content-authored character class.
type ClassDefinition struct {
	ID               shared.ClassID `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	HPDie            dice.DiceRoll  `json:"hp_die"`
	SpellSchool      *SpellSchool   `json:"spell_school,omitempty"`
	IsPureCaster     bool           `json:"is_pure_caster"`
	SpellStat        *SpellStat     `json:"spell_stat,omitempty"`
	SpecialAbilities []string       `json:"special_abilities,omitempty"`
	StartingWeaponID *shared.ItemID `json:"starting_weapon_id,omitempty"`
	StartingArmorID  *shared.ItemID `json:"starting_armor_id,omitempty"`
	StartingItems    []shared.ItemID `json:"starting_items,omitempty"`
	Proficiencies    []string       `json:"proficiencies,omitempty"`
	// LearnableSpellLevels overrides the default ladder mapping spell level
	// to required character level. Missing entries fall back to the default.
	LearnableSpellLevels map[uint8]uint8 `json:"learnable_spell_levels,omitempty"`
}

// CanCastSpells reports whether the class has any school access.
func (c *ClassDefinition) CanCastSpells() bool {
	return c.SpellSchool != nil
}

// HasSchool reports whether the class natively casts from the school.
func (c *ClassDefinition) HasSchool(school SpellSchool) bool {
	return c.SpellSchool != nil && *c.SpellSchool == school
}

// HasProficiency reports whether the class grants the named proficiency.
func (c *ClassDefinition) HasProficiency(p string) bool {
	for _, have := range c.Proficiencies {
		if have == p {
			return true
		}
	}
	return false
}

// RequiredLevelFor returns the character level needed to cast spells of
// the given spell level. Hybrid (non-pure) casters learn nothing before
// character level 3.
func (c *ClassDefinition) RequiredLevelFor(spellLevel uint8) uint8 {
	required, ok := c.LearnableSpellLevels[spellLevel]
	if !ok {
		required, ok = defaultSpellLevelLadder[spellLevel]
		if !ok {
			required = 2*spellLevel - 1
		}
	}
	if c.SpellSchool != nil && !c.IsPureCaster && required < 3 {
		required = 3
	}
	return required
}
