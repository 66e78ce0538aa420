package content

import (
	"encoding/json"
	"fmt"

	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/shared"
)

// ConditionEffectKind discriminates ConditionEffect.
type ConditionEffectKind string

const (
	EffectAttributeModifier ConditionEffectKind = "attribute_modifier"
	EffectStatusEffect      ConditionEffectKind = "status_effect"
	EffectDamageOverTime    ConditionEffectKind = "damage_over_time"
	EffectHealOverTime      ConditionEffectKind = "heal_over_time"
	EffectImmunity          ConditionEffectKind = "immunity"
	EffectPreventAction     ConditionEffectKind = "prevent_action"
)

// PreventedAction is what a prevent_action effect blocks.
type PreventedAction string

const (
	PreventCast   PreventedAction = "cast"
	PreventAttack PreventedAction = "attack"
	PreventMove   PreventedAction = "move"
	PreventAll    PreventedAction = "all"
)

// ConditionEffect is one effect a condition applies while active.
type ConditionEffect struct {
	Kind ConditionEffectKind
	// attribute_modifier
	Attribute shared.Attribute
	Value     int16
	// damage_over_time
	Damage  dice.DiceRoll
	Element string
	// heal_over_time
	Amount dice.DiceRoll
	// status_effect / immunity
	Tag string
	// prevent_action
	Action PreventedAction
}

func AttributeModifier(attr shared.Attribute, value int16) ConditionEffect {
	return ConditionEffect{Kind: EffectAttributeModifier, Attribute: attr, Value: value}
}

func StatusEffect(tag string) ConditionEffect {
	return ConditionEffect{Kind: EffectStatusEffect, Tag: tag}
}

func DamageOverTime(damage dice.DiceRoll, element string) ConditionEffect {
	return ConditionEffect{Kind: EffectDamageOverTime, Damage: damage, Element: element}
}

func HealOverTime(amount dice.DiceRoll) ConditionEffect {
	return ConditionEffect{Kind: EffectHealOverTime, Amount: amount}
}

func Immunity(tag string) ConditionEffect {
	return ConditionEffect{Kind: EffectImmunity, Tag: tag}
}

func PreventAction(action PreventedAction) ConditionEffect {
	return ConditionEffect{Kind: EffectPreventAction, Action: action}
}

func (e ConditionEffect) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EffectAttributeModifier:
		return json.Marshal(struct {
			Type      ConditionEffectKind `json:"type"`
			Attribute shared.Attribute    `json:"attribute"`
			Value     int16               `json:"value"`
		}{e.Kind, e.Attribute, e.Value})
	case EffectStatusEffect:
		return json.Marshal(struct {
			Type ConditionEffectKind `json:"type"`
			Tag  string              `json:"tag"`
		}{e.Kind, e.Tag})
	case EffectDamageOverTime:
		return json.Marshal(struct {
			Type    ConditionEffectKind `json:"type"`
			Damage  dice.DiceRoll       `json:"damage"`
			Element string              `json:"element,omitempty"`
		}{e.Kind, e.Damage, e.Element})
	case EffectHealOverTime:
		return json.Marshal(struct {
			Type   ConditionEffectKind `json:"type"`
			Amount dice.DiceRoll       `json:"amount"`
		}{e.Kind, e.Amount})
	case EffectImmunity:
		return json.Marshal(struct {
			Type ConditionEffectKind `json:"type"`
			Tag  string              `json:"tag"`
		}{e.Kind, e.Tag})
	case EffectPreventAction:
		return json.Marshal(struct {
			Type ConditionEffectKind `json:"type"`
			Kind PreventedAction     `json:"kind"`
		}{e.Kind, e.Action})
	default:
		return nil, fmt.Errorf("unknown condition effect %q", e.Kind)
	}
}

func (e *ConditionEffect) UnmarshalJSON(data []byte) error {
	var staged struct {
		Type      ConditionEffectKind `json:"type"`
		Attribute shared.Attribute    `json:"attribute"`
		Value     int16               `json:"value"`
		Damage    dice.DiceRoll       `json:"damage"`
		Element   string              `json:"element"`
		Amount    dice.DiceRoll       `json:"amount"`
		Tag       string              `json:"tag"`
		Kind      PreventedAction     `json:"kind"`
	}
	if err := json.Unmarshal(data, &staged); err != nil {
		return err
	}
	switch staged.Type {
	case EffectAttributeModifier, EffectStatusEffect, EffectDamageOverTime,
		EffectHealOverTime, EffectImmunity, EffectPreventAction:
	default:
		return fmt.Errorf("unknown condition effect %q", staged.Type)
	}
	*e = ConditionEffect{
		Kind:      staged.Type,
		Attribute: staged.Attribute,
		Value:     staged.Value,
		Damage:    staged.Damage,
		Element:   staged.Element,
		Amount:    staged.Amount,
		Tag:       staged.Tag,
		Action:    staged.Kind,
	}
	return nil
}

// ConditionDefinition is a content-authored status condition.
type ConditionDefinition struct {
	ID              shared.ConditionID       `json:"id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description,omitempty"`
	Effects         []ConditionEffect        `json:"effects"`
	DefaultDuration shared.ConditionDuration `json:"default_duration"`
	IconID          *string                  `json:"icon_id,omitempty"`
}

// HasStatusTag reports whether the condition applies the status tag.
func (c *ConditionDefinition) HasStatusTag(tag string) bool {
	for _, e := range c.Effects {
		if e.Kind == EffectStatusEffect && e.Tag == tag {
			return true
		}
	}
	return false
}

// Prevents reports whether the condition blocks the given action kind.
// An effect preventing "all" blocks everything.
func (c *ConditionDefinition) Prevents(action PreventedAction) bool {
	for _, e := range c.Effects {
		if e.Kind == EffectPreventAction && (e.Action == action || e.Action == PreventAll) {
			return true
		}
	}
	return false
}
