package content

import (
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/shared"
)

// SpellContext restricts when and where a spell can be cast.
type SpellContext string

const (
	ContextAnyTime    SpellContext = "any_time"
	ContextCombatOnly SpellContext = "combat_only"
	ContextNonCombat  SpellContext = "non_combat"
	ContextOutdoors   SpellContext = "outdoors"
	ContextIndoors    SpellContext = "indoors"
)

// SpellTarget is the shape of a spell's effect.
type SpellTarget string

const (
	TargetSelf             SpellTarget = "self"
	TargetSingleMonster    SpellTarget = "single_monster"
	TargetMonsterGroup     SpellTarget = "monster_group"
	TargetAllMonsters      SpellTarget = "all_monsters"
	TargetSpecificMonsters SpellTarget = "specific_monsters"
	TargetSingleCharacter  SpellTarget = "single_character"
	TargetAllCharacters    SpellTarget = "all_characters"
)

// Spell is a content-authored spell definition.
type Spell struct {
	ID                shared.SpellID       `json:"id"`
	Name              string               `json:"name"`
	School            SpellSchool          `json:"school"`
	Level             uint8                `json:"level"`
	SPCost            uint16               `json:"sp_cost"`
	GemCost           uint16               `json:"gem_cost"`
	Context           SpellContext         `json:"context"`
	Target            SpellTarget          `json:"target"`
	Description       string               `json:"description,omitempty"`
	Damage            *dice.DiceRoll       `json:"damage,omitempty"`
	IsMultiplied      bool                 `json:"is_multiplied,omitempty"`
	AppliedConditions []shared.ConditionID `json:"applied_conditions,omitempty"`
	Duration          uint16               `json:"duration,omitempty"`
}

// TargetsMonsters reports whether the spell's shape addresses monsters.
func (s *Spell) TargetsMonsters() bool {
	switch s.Target {
	case TargetSingleMonster, TargetMonsterGroup, TargetAllMonsters, TargetSpecificMonsters:
		return true
	default:
		return false
	}
}
