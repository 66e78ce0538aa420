// Package character holds the runtime state of party members: living
// characters instantiated from content definitions, the active party,
// and the roster that tracks where every recruited character is.
package character

import (
	"math"

	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// startingAge in years for newly instantiated characters.
const startingAge = 18

// Character is a living party or roster member.
type Character struct {
	ID               shared.CharacterID `json:"id"`
	Name             string             `json:"name"`
	RaceID           shared.RaceID      `json:"race_id"`
	ClassID          shared.ClassID     `json:"class_id"`
	Sex              shared.Sex         `json:"sex"`
	Alignment        shared.Alignment   `json:"alignment"`
	AlignmentInitial shared.Alignment   `json:"alignment_initial"`
	Level            uint8              `json:"level"`
	Experience       uint32             `json:"experience"`
	Age              uint16             `json:"age"`
	AgeDays          uint32             `json:"age_days,omitempty"`

	Stats shared.Stats         `json:"stats"`
	HP    shared.BoundedAttr16 `json:"hp"`
	SP    shared.BoundedAttr16 `json:"sp"`
	AC    shared.BoundedAttr8  `json:"ac"`

	Inventory   Inventory        `json:"inventory"`
	Equipment   Equipment        `json:"equipment"`
	KnownSpells []shared.SpellID `json:"known_spells,omitempty"`

	Conditions       shared.ConditionFlags    `json:"conditions"`
	ActiveConditions []shared.ActiveCondition `json:"active_conditions,omitempty"`
	Resistances      content.Resistances      `json:"resistances,omitempty"`

	PortraitID string `json:"portrait_id,omitempty"`
}

// FromDefinition instantiates a character: base stats plus race
// modifiers, hit points from the class die and endurance, spell points
// from the class spell stat. Inventory charges start at zero; the
// caller fills them in from item data.
func FromDefinition(def *content.CharacterDefinition, race *content.RaceDefinition, class *content.ClassDefinition, level uint8) (*Character, error) {
	if def.RaceID != race.ID {
		return nil, errors.InvalidArgumentf("definition %q expects race %q, got %q",
			def.ID, def.RaceID, race.ID)
	}
	if def.ClassID != class.ID {
		return nil, errors.InvalidArgumentf("definition %q expects class %q, got %q",
			def.ID, def.ClassID, class.ID)
	}
	if level == 0 {
		level = 1
	}

	stats := def.BaseStats.ToStats()
	for _, attr := range shared.Attributes {
		if mod := race.StatModifiers.For(attr); mod != 0 {
			a := stats.Get(attr)
			a.Modify(int(mod))
			if a.Current < 1 {
				a.Current = 1
			}
			a.Base = a.Current
		}
	}

	c := &Character{
		ID:               def.ID,
		Name:             def.Name,
		RaceID:           def.RaceID,
		ClassID:          def.ClassID,
		Sex:              def.Sex,
		Alignment:        def.Alignment,
		AlignmentInitial: def.Alignment,
		Level:            level,
		Age:              startingAge,
		Stats:            stats,
		Resistances:      race.Resistances,
		PortraitID:       def.PortraitID,
		Equipment: Equipment{
			Weapon:     def.StartingEquipment.Weapon,
			Armor:      def.StartingEquipment.Armor,
			Shield:     def.StartingEquipment.Shield,
			Helmet:     def.StartingEquipment.Helmet,
			Boots:      def.StartingEquipment.Boots,
			Accessory1: def.StartingEquipment.Accessory1,
			Accessory2: def.StartingEquipment.Accessory2,
		},
	}

	c.HP = shared.NewBoundedAttr16(maxHPAt(class, stats.Endurance.Base, level))
	c.SP = shared.NewBoundedAttr16(MaxSPAt(class, &stats, level))
	if speedMod := shared.StatModifier(stats.Speed.Base); speedMod > 0 {
		c.AC = shared.NewBoundedAttr8(uint8(speedMod))
	}

	for _, id := range def.StartingItems {
		if err := c.Inventory.Add(id, 0); err != nil {
			return nil, errors.Validationf("definition %q has more than %d starting items",
				def.ID, MaxInventoryItems)
		}
	}
	return c, nil
}

func maxHPAt(class *content.ClassDefinition, endurance uint8, level uint8) uint16 {
	perLevel := class.HPDie.Max() + shared.StatModifier(endurance)
	if perLevel < 1 {
		perLevel = 1
	}
	total := perLevel * int(level)
	if total > math.MaxUint16 {
		total = math.MaxUint16
	}
	return uint16(total)
}

// MaxSPAt is the spell point pool for a caster of the class at the
// given level. Non-casters have no pool.
func MaxSPAt(class *content.ClassDefinition, stats *shared.Stats, level uint8) uint16 {
	if !class.CanCastSpells() || class.SpellStat == nil {
		return 0
	}
	stat := int(stats.Get(class.SpellStat.Attribute()).Base)
	bonus := stat - 10
	if bonus < 0 {
		bonus = 0
	}
	total := bonus*int(level)/2 + int(level)*2
	if total > math.MaxUint16 {
		total = math.MaxUint16
	}
	return uint16(total)
}

// Clone returns a deep copy. Combat operates on clones and copies the
// deltas back to the owning character when the encounter ends.
func (c *Character) Clone() *Character {
	clone := *c
	clone.Inventory.Items = append([]InventorySlot(nil), c.Inventory.Items...)
	clone.KnownSpells = append([]shared.SpellID(nil), c.KnownSpells...)
	clone.ActiveConditions = append([]shared.ActiveCondition(nil), c.ActiveConditions...)
	return &clone
}

// IsAlive reports whether the character is neither dead, stoned nor
// eradicated.
func (c *Character) IsAlive() bool {
	return !c.Conditions.Has(shared.FlagDead)
}

// IsConscious reports whether the character is awake and alive.
func (c *Character) IsConscious() bool {
	return c.IsAlive() && !c.Conditions.Has(shared.FlagUnconscious) && !c.Conditions.Has(shared.FlagAsleep)
}

// CanAct reports whether the character may take a combat turn. Any
// condition at paralyzed severity or worse prevents acting.
func (c *Character) CanAct() bool {
	return c.IsAlive() && uint8(c.Conditions) < uint8(shared.FlagParalyzed)
}

// IsSilenced reports whether spellcasting is blocked by the legacy flag.
func (c *Character) IsSilenced() bool {
	return c.Conditions.Has(shared.FlagSilenced)
}

// TakeDamage applies damage to hit points. A character dropping to zero
// falls unconscious rather than dying outright.
func (c *Character) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.HP.Modify(-amount)
	if c.HP.Current == 0 && c.IsAlive() {
		c.Conditions = c.Conditions.Set(shared.FlagUnconscious)
	}
}

// Heal restores hit points up to the base maximum. A character healed
// above zero wakes from unconsciousness.
func (c *Character) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.HP.ModifyClamped(amount)
	if c.HP.Current > 0 {
		c.Conditions = c.Conditions.Clear(shared.FlagUnconscious)
	}
}

// Kill marks the character dead.
func (c *Character) Kill() {
	c.HP.Current = 0
	c.Conditions = c.Conditions.Set(shared.FlagDead)
}

// AddCondition applies a data-driven condition. Reapplying an active
// condition refreshes its duration instead of stacking.
func (c *Character) AddCondition(cond shared.ActiveCondition) {
	for i := range c.ActiveConditions {
		if c.ActiveConditions[i].ConditionID == cond.ConditionID {
			c.ActiveConditions[i].Duration = cond.Duration
			return
		}
	}
	c.ActiveConditions = append(c.ActiveConditions, cond)
}

// RemoveCondition drops the condition with the given id, if present.
func (c *Character) RemoveCondition(id shared.ConditionID) {
	kept := c.ActiveConditions[:0]
	for _, cond := range c.ActiveConditions {
		if cond.ConditionID != id {
			kept = append(kept, cond)
		}
	}
	c.ActiveConditions = kept
}

// HasCondition reports whether the condition is active.
func (c *Character) HasCondition(id shared.ConditionID) bool {
	for i := range c.ActiveConditions {
		if c.ActiveConditions[i].ConditionID == id {
			return true
		}
	}
	return false
}

// TickConditionsRound advances round-based durations, dropping expired
// conditions.
func (c *Character) TickConditionsRound() {
	kept := c.ActiveConditions[:0]
	for i := range c.ActiveConditions {
		if !c.ActiveConditions[i].TickRound() {
			kept = append(kept, c.ActiveConditions[i])
		}
	}
	c.ActiveConditions = kept
}

// TickConditionsMinute advances minute-based durations, dropping
// expired conditions.
func (c *Character) TickConditionsMinute() {
	kept := c.ActiveConditions[:0]
	for i := range c.ActiveConditions {
		if !c.ActiveConditions[i].TickMinute() {
			kept = append(kept, c.ActiveConditions[i])
		}
	}
	c.ActiveConditions = kept
}

// ClearRestConditions removes conditions that expire when the party
// rests.
func (c *Character) ClearRestConditions() {
	kept := c.ActiveConditions[:0]
	for i := range c.ActiveConditions {
		if !c.ActiveConditions[i].ExpiresOnRest() {
			kept = append(kept, c.ActiveConditions[i])
		}
	}
	c.ActiveConditions = kept
}

// ConditionModifier sums the attribute modifiers of active conditions,
// each scaled by its magnitude, saturating at the int16 bounds.
func (c *Character) ConditionModifier(attr shared.Attribute, defs []*content.ConditionDefinition) int16 {
	var total int16
	for _, active := range c.ActiveConditions {
		def := findConditionDef(defs, active.ConditionID)
		if def == nil {
			continue
		}
		for _, effect := range def.Effects {
			if effect.Kind != content.EffectAttributeModifier || effect.Attribute != attr {
				continue
			}
			scaled := int32(math.Round(float64(effect.Value) * float64(active.Magnitude)))
			total = saturateAddInt16(total, scaled)
		}
	}
	return total
}

// HasStatusEffect reports whether any active condition applies the
// status tag.
func (c *Character) HasStatusEffect(tag string, defs []*content.ConditionDefinition) bool {
	for _, active := range c.ActiveConditions {
		if def := findConditionDef(defs, active.ConditionID); def != nil && def.HasStatusTag(tag) {
			return true
		}
	}
	return false
}

// PreventedFrom reports whether an active condition blocks the action.
func (c *Character) PreventedFrom(action content.PreventedAction, defs []*content.ConditionDefinition) bool {
	for _, active := range c.ActiveConditions {
		if def := findConditionDef(defs, active.ConditionID); def != nil && def.Prevents(action) {
			return true
		}
	}
	return false
}

// EffectiveStat is the current attribute value with condition modifiers
// applied, clamped to the byte range.
func (c *Character) EffectiveStat(attr shared.Attribute, defs []*content.ConditionDefinition) uint8 {
	a := c.Stats.Get(attr)
	if a == nil {
		return 0
	}
	v := int(a.Current) + int(c.ConditionModifier(attr, defs))
	if v < 0 {
		return 0
	}
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

// Rest restores hit and spell points, clears until-rest conditions and
// wakes the character. Dead characters are not revived by resting.
func (c *Character) Rest() {
	if !c.IsAlive() {
		return
	}
	c.HP.Reset()
	c.SP.Reset()
	c.ClearRestConditions()
	c.Conditions = c.Conditions.Clear(shared.FlagUnconscious | shared.FlagAsleep)
}

// LearnSpell records a spell in the character's book.
func (c *Character) LearnSpell(id shared.SpellID) error {
	for _, known := range c.KnownSpells {
		if known == id {
			return errors.AlreadyExistsf("spell %d already known", id)
		}
	}
	c.KnownSpells = append(c.KnownSpells, id)
	return nil
}

// KnowsSpell reports whether the spell is in the character's book.
func (c *Character) KnowsSpell(id shared.SpellID) bool {
	for _, known := range c.KnownSpells {
		if known == id {
			return true
		}
	}
	return false
}

func findConditionDef(defs []*content.ConditionDefinition, id shared.ConditionID) *content.ConditionDefinition {
	for _, def := range defs {
		if def.ID == id {
			return def
		}
	}
	return nil
}

func saturateAddInt16(total int16, delta int32) int16 {
	sum := int32(total) + delta
	if sum > math.MaxInt16 {
		return math.MaxInt16
	}
	if sum < math.MinInt16 {
		return math.MinInt16
	}
	return int16(sum)
}
