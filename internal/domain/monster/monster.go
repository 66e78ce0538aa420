// Package monster holds the runtime combat state of monsters
// instantiated from content definitions.
package monster

import (
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
)

// Condition is a monster's single dominant combat state. Unlike
// characters, monsters do not stack legacy flags.
type Condition string

const (
	ConditionNormal    Condition = "normal"
	ConditionParalyzed Condition = "paralyzed"
	ConditionWebbed    Condition = "webbed"
	ConditionHeld      Condition = "held"
	ConditionAsleep    Condition = "asleep"
	ConditionMindless  Condition = "mindless"
	ConditionSilenced  Condition = "silenced"
	ConditionBlinded   Condition = "blinded"
	ConditionAfraid    Condition = "afraid"
	ConditionDead      Condition = "dead"
)

// AllowsActing reports whether the state leaves the monster able to
// take a turn.
func (c Condition) AllowsActing() bool {
	switch c {
	case ConditionNormal, ConditionMindless, ConditionSilenced, ConditionBlinded, ConditionAfraid:
		return true
	default:
		return false
	}
}

// IsDead reports whether the state is dead.
func (c Condition) IsDead() bool {
	return c == ConditionDead
}

// Monster is one live combatant instantiated from a definition.
type Monster struct {
	ID    shared.MonsterID     `json:"id"`
	Name  string               `json:"name"`
	Stats shared.Stats         `json:"stats"`
	HP    shared.BoundedAttr16 `json:"hp"`
	AC    shared.BoundedAttr8  `json:"ac"`

	Attacks []content.Attack  `json:"attacks"`
	Loot    content.LootTable `json:"loot"`

	FleeThreshold          uint8                      `json:"flee_threshold,omitempty"`
	SpecialAttackThreshold uint8                      `json:"special_attack_threshold,omitempty"`
	Resistances            content.MonsterResistances `json:"resistances,omitempty"`
	CanRegenerate          bool                       `json:"can_regenerate,omitempty"`
	CanAdvance             bool                       `json:"can_advance,omitempty"`
	IsUndead               bool                       `json:"is_undead,omitempty"`
	MagicResistance        uint8                      `json:"magic_resistance,omitempty"`

	Condition        Condition                `json:"condition"`
	ActiveConditions []shared.ActiveCondition `json:"active_conditions,omitempty"`
	HasActed         bool                     `json:"has_acted,omitempty"`
	Fled             bool                     `json:"fled,omitempty"`
}

// FromDefinition instantiates a combat monster at full health.
func FromDefinition(def *content.MonsterDefinition) *Monster {
	return &Monster{
		ID:                     def.ID,
		Name:                   def.Name,
		Stats:                  def.Stats.ToStats(),
		HP:                     shared.NewBoundedAttr16(def.HP),
		AC:                     shared.NewBoundedAttr8(def.AC),
		Attacks:                append([]content.Attack{}, def.Attacks...),
		Loot:                   def.Loot,
		FleeThreshold:          def.FleeThreshold,
		SpecialAttackThreshold: def.SpecialAttackThreshold,
		Resistances:            def.Resistances,
		CanRegenerate:          def.CanRegenerate,
		CanAdvance:             def.CanAdvance,
		IsUndead:               def.IsUndead,
		MagicResistance:        def.MagicResistance,
		Condition:              ConditionNormal,
	}
}

// IsAlive reports whether the monster still counts toward the
// encounter. Fled monsters are gone but not dead.
func (m *Monster) IsAlive() bool {
	return m.HP.Current > 0 && !m.Condition.IsDead() && !m.Fled
}

// Flee removes the monster from the fight without killing it. A fled
// monster yields no loot or experience.
func (m *Monster) Flee() {
	m.Fled = true
}

// CanAct reports whether the monster may take a turn right now.
func (m *Monster) CanAct() bool {
	return m.IsAlive() && m.Condition.AllowsActing() && !m.HasActed
}

// ShouldFlee reports whether hit points have fallen to the flee
// threshold. A threshold of zero never flees.
func (m *Monster) ShouldFlee() bool {
	if m.FleeThreshold == 0 || m.HP.Base == 0 {
		return false
	}
	percent := uint8(float32(m.HP.Current) / float32(m.HP.Base) * 100)
	return percent <= m.FleeThreshold
}

// TakeDamage applies damage and reports whether this blow killed the
// monster.
func (m *Monster) TakeDamage(damage uint16) bool {
	before := m.HP.Current
	m.HP.Modify(-int(damage))
	if m.HP.Current == 0 && before > 0 {
		m.Condition = ConditionDead
		return true
	}
	return false
}

// Regenerate restores hit points for regenerating monsters. Current may
// not exceed base.
func (m *Monster) Regenerate(amount uint16) {
	if !m.CanRegenerate || !m.IsAlive() {
		return
	}
	m.HP.ModifyClamped(int(amount))
}

// ResetTurn clears the acted flag at the start of a round.
func (m *Monster) ResetTurn() {
	m.HasActed = false
}

// MarkActed records that the monster took its turn.
func (m *Monster) MarkActed() {
	m.HasActed = true
}

// AddCondition applies a data-driven condition, refreshing the duration
// if it is already active.
func (m *Monster) AddCondition(cond shared.ActiveCondition) {
	for i := range m.ActiveConditions {
		if m.ActiveConditions[i].ConditionID == cond.ConditionID {
			m.ActiveConditions[i].Duration = cond.Duration
			return
		}
	}
	m.ActiveConditions = append(m.ActiveConditions, cond)
}

// RemoveCondition drops the condition with the given id.
func (m *Monster) RemoveCondition(id shared.ConditionID) {
	kept := m.ActiveConditions[:0]
	for _, cond := range m.ActiveConditions {
		if cond.ConditionID != id {
			kept = append(kept, cond)
		}
	}
	m.ActiveConditions = kept
}

// TickConditionsRound advances round durations and restores the normal
// state when the dominant condition's backing effect expires.
func (m *Monster) TickConditionsRound() {
	kept := m.ActiveConditions[:0]
	for i := range m.ActiveConditions {
		if !m.ActiveConditions[i].TickRound() {
			kept = append(kept, m.ActiveConditions[i])
		}
	}
	m.ActiveConditions = kept
}

// SetConditionFromTag maps a status tag to the dominant monster state.
// Unknown tags leave the state untouched.
func (m *Monster) SetConditionFromTag(tag string) {
	if c, ok := conditionForTag(tag); ok && !m.Condition.IsDead() {
		m.Condition = c
	}
}

// RefreshCondition recomputes the dominant state from the remaining
// active conditions. Dead stays dead.
func (m *Monster) RefreshCondition(defs []*content.ConditionDefinition) {
	if m.Condition.IsDead() {
		return
	}
	desired := ConditionNormal
	for _, active := range m.ActiveConditions {
		for _, def := range defs {
			if def.ID != active.ConditionID {
				continue
			}
			for _, effect := range def.Effects {
				if effect.Kind != content.EffectStatusEffect {
					continue
				}
				if c, ok := conditionForTag(effect.Tag); ok {
					desired = c
				}
			}
		}
	}
	m.Condition = desired
}

func conditionForTag(tag string) (Condition, bool) {
	switch tag {
	case "paralyzed", "paralysis":
		return ConditionParalyzed, true
	case "webbed":
		return ConditionWebbed, true
	case "held":
		return ConditionHeld, true
	case "asleep", "sleep":
		return ConditionAsleep, true
	case "mindless":
		return ConditionMindless, true
	case "silenced", "silence":
		return ConditionSilenced, true
	case "blinded", "blind":
		return ConditionBlinded, true
	case "afraid", "fear":
		return ConditionAfraid, true
	case "dead":
		return ConditionDead, true
	default:
		return ConditionNormal, false
	}
}
