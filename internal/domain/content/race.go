package content

import (
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// SizeCategory affects equipment compatibility.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
)

// StatModifiers are the race adjustments applied to base stats at
// character creation.
type StatModifiers struct {
	Might       int8 `json:"might,omitempty"`
	Intellect   int8 `json:"intellect,omitempty"`
	Personality int8 `json:"personality,omitempty"`
	Endurance   int8 `json:"endurance,omitempty"`
	Speed       int8 `json:"speed,omitempty"`
	Accuracy    int8 `json:"accuracy,omitempty"`
	Luck        int8 `json:"luck,omitempty"`
}

// For returns the modifier for a single attribute.
func (m StatModifiers) For(attr shared.Attribute) int8 {
	switch attr {
	case shared.AttributeMight:
		return m.Might
	case shared.AttributeIntellect:
		return m.Intellect
	case shared.AttributePersonality:
		return m.Personality
	case shared.AttributeEndurance:
		return m.Endurance
	case shared.AttributeSpeed:
		return m.Speed
	case shared.AttributeAccuracy:
		return m.Accuracy
	case shared.AttributeLuck:
		return m.Luck
	default:
		return 0
	}
}

// Resistances are percentage damage reductions, 0-100.
type Resistances struct {
	Magic       uint8 `json:"magic,omitempty"`
	Fire        uint8 `json:"fire,omitempty"`
	Cold        uint8 `json:"cold,omitempty"`
	Electricity uint8 `json:"electricity,omitempty"`
	Acid        uint8 `json:"acid,omitempty"`
	Fear        uint8 `json:"fear,omitempty"`
	Poison      uint8 `json:"poison,omitempty"`
	Psychic     uint8 `json:"psychic,omitempty"`
}

// Validate checks every resistance is within 0-100.
func (r Resistances) Validate() error {
	for _, v := range []struct {
		name  string
		value uint8
	}{
		{"magic", r.Magic}, {"fire", r.Fire}, {"cold", r.Cold},
		{"electricity", r.Electricity}, {"acid", r.Acid},
		{"fear", r.Fear}, {"poison", r.Poison}, {"psychic", r.Psychic},
	} {
		if v.value > 100 {
			return errors.Validationf("%s resistance %d exceeds maximum of 100", v.name, v.value)
		}
	}
	return nil
}

// RaceDefinition is a content-authored playable race.
type RaceDefinition struct {
	ID                    shared.RaceID `json:"id"`
	Name                  string        `json:"name"`
	Description           string        `json:"description,omitempty"`
	StatModifiers         StatModifiers `json:"stat_modifiers,omitempty"`
	Resistances           Resistances   `json:"resistances,omitempty"`
	SpecialAbilities      []string      `json:"special_abilities,omitempty"`
	Size                  SizeCategory  `json:"size,omitempty"`
	Proficiencies         []string      `json:"proficiencies,omitempty"`
	IncompatibleItemTags  []string      `json:"incompatible_item_tags,omitempty"`
}

// HasProficiency reports whether the race grants the named proficiency.
func (r *RaceDefinition) HasProficiency(p string) bool {
	for _, have := range r.Proficiencies {
		if have == p {
			return true
		}
	}
	return false
}

// CanUseItem reports whether none of the item's tags conflict with the race.
func (r *RaceDefinition) CanUseItem(itemTags []string) bool {
	for _, tag := range itemTags {
		for _, bad := range r.IncompatibleItemTags {
			if tag == bad {
				return false
			}
		}
	}
	return true
}
