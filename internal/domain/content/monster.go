package content

import (
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/shared"
)

// AttackType is the damage element of an attack.
type AttackType string

const (
	AttackPhysical    AttackType = "physical"
	AttackFire        AttackType = "fire"
	AttackCold        AttackType = "cold"
	AttackElectricity AttackType = "electricity"
	AttackAcid        AttackType = "acid"
	AttackPoison      AttackType = "poison"
	AttackEnergy      AttackType = "energy"
)

// SpecialEffect is an effect an attack can carry beyond damage. The combat
// engine surfaces it to the caller, which decides how to apply it.
type SpecialEffect string

const (
	SpecialPoison    SpecialEffect = "poison"
	SpecialDisease   SpecialEffect = "disease"
	SpecialParalysis SpecialEffect = "paralysis"
	SpecialSleep     SpecialEffect = "sleep"
	SpecialDrain     SpecialEffect = "drain"
	SpecialStone     SpecialEffect = "stone"
	SpecialDeath     SpecialEffect = "death"
)

// Attack is one attack a monster can perform.
type Attack struct {
	Damage  dice.DiceRoll  `json:"damage"`
	Type    AttackType     `json:"attack_type"`
	Special *SpecialEffect `json:"special_effect,omitempty"`
}

// PhysicalAttack makes a plain physical attack.
func PhysicalAttack(damage dice.DiceRoll) Attack {
	return Attack{Damage: damage, Type: AttackPhysical}
}

// MonsterResistances are outright immunities to damage and effect kinds.
type MonsterResistances struct {
	Physical    bool `json:"physical,omitempty"`
	Fire        bool `json:"fire,omitempty"`
	Cold        bool `json:"cold,omitempty"`
	Electricity bool `json:"electricity,omitempty"`
	Energy      bool `json:"energy,omitempty"`
	Paralysis   bool `json:"paralysis,omitempty"`
	Fear        bool `json:"fear,omitempty"`
	Sleep       bool `json:"sleep,omitempty"`
}

// LootDrop is one possible item drop with its probability.
type LootDrop struct {
	Chance float32       `json:"chance"`
	ItemID shared.ItemID `json:"item_id"`
}

// LootTable is what a monster yields when defeated.
type LootTable struct {
	GoldMin    uint32     `json:"gold_min"`
	GoldMax    uint32     `json:"gold_max"`
	GemsMin    uint8      `json:"gems_min"`
	GemsMax    uint8      `json:"gems_max"`
	Items      []LootDrop `json:"items,omitempty"`
	Experience uint32     `json:"experience"`
}

// MonsterDefinition is a content-authored monster. Runtime combat copies
// extend it with hp/ac pairs and per-encounter condition state.
type MonsterDefinition struct {
	ID                     shared.MonsterID   `json:"id"`
	Name                   string             `json:"name"`
	Stats                  BaseStats          `json:"stats"`
	HP                     uint16             `json:"hp"`
	AC                     uint8              `json:"ac"`
	Attacks                []Attack           `json:"attacks"`
	Loot                   LootTable          `json:"loot"`
	FleeThreshold          uint8              `json:"flee_threshold,omitempty"`
	SpecialAttackThreshold uint8              `json:"special_attack_threshold,omitempty"`
	Resistances            MonsterResistances `json:"resistances,omitempty"`
	CanRegenerate          bool               `json:"can_regenerate,omitempty"`
	CanAdvance             bool               `json:"can_advance,omitempty"`
	IsUndead               bool               `json:"is_undead,omitempty"`
	MagicResistance        uint8              `json:"magic_resistance,omitempty"`
}
