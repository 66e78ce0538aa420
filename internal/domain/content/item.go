package content

import (
	"encoding/json"
	"fmt"

	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/shared"
)

// ItemKind discriminates the ItemType union.
type ItemKind string

const (
	ItemKindWeapon     ItemKind = "weapon"
	ItemKindArmor      ItemKind = "armor"
	ItemKindAccessory  ItemKind = "accessory"
	ItemKindConsumable ItemKind = "consumable"
	ItemKindAmmo       ItemKind = "ammo"
	ItemKindQuest      ItemKind = "quest"
)

// WeaponData is the weapon variant payload.
type WeaponData struct {
	Damage        dice.DiceRoll `json:"damage"`
	Bonus         int8          `json:"bonus"`
	HandsRequired uint8         `json:"hands_required"`
}

// ArmorData is the armor variant payload.
type ArmorData struct {
	ACBonus uint8 `json:"ac_bonus"`
	Weight  uint8 `json:"weight"`
}

// AccessorySlot is which accessory slot an accessory occupies.
type AccessorySlot string

const (
	AccessorySlotRing   AccessorySlot = "ring"
	AccessorySlotAmulet AccessorySlot = "amulet"
	AccessorySlotBelt   AccessorySlot = "belt"
	AccessorySlotCloak  AccessorySlot = "cloak"
)

// AccessoryData is the accessory variant payload.
type AccessoryData struct {
	Slot AccessorySlot `json:"slot"`
}

// ConsumableData is the consumable variant payload.
type ConsumableData struct {
	Effect       ConsumableEffect `json:"effect"`
	CombatUsable bool             `json:"is_combat_usable"`
}

// AmmoType is a kind of ammunition.
type AmmoType string

const (
	AmmoTypeArrow AmmoType = "arrow"
	AmmoTypeBolt  AmmoType = "bolt"
	AmmoTypeStone AmmoType = "stone"
)

// AmmoData is the ammunition variant payload.
type AmmoData struct {
	AmmoType AmmoType `json:"ammo_type"`
	Quantity uint16   `json:"quantity"`
}

// QuestData is the quest-item variant payload.
type QuestData struct {
	QuestID   shared.QuestID `json:"quest_id"`
	IsKeyItem bool           `json:"is_key_item"`
}

// ItemType is the discriminated union of item kinds. Exactly one payload
// pointer is set, matching Kind.
type ItemType struct {
	Kind       ItemKind
	Weapon     *WeaponData
	Armor      *ArmorData
	Accessory  *AccessoryData
	Consumable *ConsumableData
	Ammo       *AmmoData
	Quest      *QuestData
}

func WeaponType(d WeaponData) ItemType { return ItemType{Kind: ItemKindWeapon, Weapon: &d} }

func ArmorType(d ArmorData) ItemType { return ItemType{Kind: ItemKindArmor, Armor: &d} }

func ConsumableType(d ConsumableData) ItemType {
	return ItemType{Kind: ItemKindConsumable, Consumable: &d}
}

type itemTypeEnvelope struct {
	Type ItemKind `json:"type"`
}

// MarshalJSON writes the union as a single object with a "type" tag and the
// variant fields inlined.
func (t ItemType) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case ItemKindWeapon:
		return json.Marshal(struct {
			Type ItemKind `json:"type"`
			*WeaponData
		}{t.Kind, t.Weapon})
	case ItemKindArmor:
		return json.Marshal(struct {
			Type ItemKind `json:"type"`
			*ArmorData
		}{t.Kind, t.Armor})
	case ItemKindAccessory:
		return json.Marshal(struct {
			Type ItemKind `json:"type"`
			*AccessoryData
		}{t.Kind, t.Accessory})
	case ItemKindConsumable:
		return json.Marshal(struct {
			Type ItemKind `json:"type"`
			*ConsumableData
		}{t.Kind, t.Consumable})
	case ItemKindAmmo:
		return json.Marshal(struct {
			Type ItemKind `json:"type"`
			*AmmoData
		}{t.Kind, t.Ammo})
	case ItemKindQuest:
		return json.Marshal(struct {
			Type ItemKind `json:"type"`
			*QuestData
		}{t.Kind, t.Quest})
	default:
		return nil, fmt.Errorf("unknown item kind %q", t.Kind)
	}
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var env itemTypeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*t = ItemType{Kind: env.Type}
	switch env.Type {
	case ItemKindWeapon:
		t.Weapon = &WeaponData{}
		return json.Unmarshal(data, t.Weapon)
	case ItemKindArmor:
		t.Armor = &ArmorData{}
		return json.Unmarshal(data, t.Armor)
	case ItemKindAccessory:
		t.Accessory = &AccessoryData{}
		return json.Unmarshal(data, t.Accessory)
	case ItemKindConsumable:
		t.Consumable = &ConsumableData{}
		return json.Unmarshal(data, t.Consumable)
	case ItemKindAmmo:
		t.Ammo = &AmmoData{}
		return json.Unmarshal(data, t.Ammo)
	case ItemKindQuest:
		t.Quest = &QuestData{}
		return json.Unmarshal(data, t.Quest)
	default:
		return fmt.Errorf("unknown item kind %q", env.Type)
	}
}

// ConsumableEffectKind discriminates ConsumableEffect.
type ConsumableEffectKind string

const (
	ConsumableHealHP         ConsumableEffectKind = "heal_hp"
	ConsumableRestoreSP      ConsumableEffectKind = "restore_sp"
	ConsumableCureCondition  ConsumableEffectKind = "cure_condition"
	ConsumableBoostAttribute ConsumableEffectKind = "boost_attribute"
)

// ConsumableEffect is what happens when a consumable is used.
type ConsumableEffect struct {
	Kind ConsumableEffectKind
	// heal_hp / restore_sp
	Amount uint16
	// cure_condition: legacy flag bits to clear
	Mask shared.ConditionFlags
	// boost_attribute
	Attribute shared.Attribute
	Delta     int8
}

func HealHP(amount uint16) ConsumableEffect {
	return ConsumableEffect{Kind: ConsumableHealHP, Amount: amount}
}

func RestoreSP(amount uint16) ConsumableEffect {
	return ConsumableEffect{Kind: ConsumableRestoreSP, Amount: amount}
}

func CureCondition(mask shared.ConditionFlags) ConsumableEffect {
	return ConsumableEffect{Kind: ConsumableCureCondition, Mask: mask}
}

func BoostAttribute(attr shared.Attribute, delta int8) ConsumableEffect {
	return ConsumableEffect{Kind: ConsumableBoostAttribute, Attribute: attr, Delta: delta}
}

func (e ConsumableEffect) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case ConsumableHealHP, ConsumableRestoreSP:
		return json.Marshal(struct {
			Type   ConsumableEffectKind `json:"type"`
			Amount uint16               `json:"amount"`
		}{e.Kind, e.Amount})
	case ConsumableCureCondition:
		return json.Marshal(struct {
			Type ConsumableEffectKind  `json:"type"`
			Mask shared.ConditionFlags `json:"mask"`
		}{e.Kind, e.Mask})
	case ConsumableBoostAttribute:
		return json.Marshal(struct {
			Type      ConsumableEffectKind `json:"type"`
			Attribute shared.Attribute     `json:"attribute"`
			Delta     int8                 `json:"delta"`
		}{e.Kind, e.Attribute, e.Delta})
	default:
		return nil, fmt.Errorf("unknown consumable effect %q", e.Kind)
	}
}

func (e *ConsumableEffect) UnmarshalJSON(data []byte) error {
	var staged struct {
		Type      ConsumableEffectKind  `json:"type"`
		Amount    uint16                `json:"amount"`
		Mask      shared.ConditionFlags `json:"mask"`
		Attribute shared.Attribute      `json:"attribute"`
		Delta     int8                  `json:"delta"`
	}
	if err := json.Unmarshal(data, &staged); err != nil {
		return err
	}
	switch staged.Type {
	case ConsumableHealHP, ConsumableRestoreSP, ConsumableCureCondition, ConsumableBoostAttribute:
	default:
		return fmt.Errorf("unknown consumable effect %q", staged.Type)
	}
	*e = ConsumableEffect{
		Kind:      staged.Type,
		Amount:    staged.Amount,
		Mask:      staged.Mask,
		Attribute: staged.Attribute,
		Delta:     staged.Delta,
	}
	return nil
}

// AlignmentRestriction limits who can use an item.
type AlignmentRestriction string

const (
	GoodOnly AlignmentRestriction = "good_only"
	EvilOnly AlignmentRestriction = "evil_only"
)

// Permits reports whether the restriction allows the given alignment.
func (r AlignmentRestriction) Permits(a shared.Alignment) bool {
	switch r {
	case GoodOnly:
		return a == shared.AlignmentGood
	case EvilOnly:
		return a == shared.AlignmentEvil
	default:
		return true
	}
}

// BonusAttribute names a stat or resistance an item bonus can target.
type BonusAttribute string

const (
	BonusMight              BonusAttribute = "might"
	BonusIntellect          BonusAttribute = "intellect"
	BonusPersonality        BonusAttribute = "personality"
	BonusEndurance          BonusAttribute = "endurance"
	BonusSpeed              BonusAttribute = "speed"
	BonusAccuracy           BonusAttribute = "accuracy"
	BonusLuck               BonusAttribute = "luck"
	BonusResistFire         BonusAttribute = "resist_fire"
	BonusResistCold         BonusAttribute = "resist_cold"
	BonusResistElectricity  BonusAttribute = "resist_electricity"
	BonusResistAcid         BonusAttribute = "resist_acid"
	BonusResistPoison       BonusAttribute = "resist_poison"
	BonusResistMagic        BonusAttribute = "resist_magic"
	BonusArmorClass         BonusAttribute = "armor_class"
)

// Bonus is a constant or temporary attribute bonus carried by an item.
// Negative values model curses.
type Bonus struct {
	Attribute BonusAttribute `json:"attribute"`
	Value     int8           `json:"value"`
}

// Item is a content-authored item definition.
type Item struct {
	ID                   shared.ItemID         `json:"id"`
	Name                 string                `json:"name"`
	Type                 ItemType              `json:"item_type"`
	BaseCost             uint32                `json:"base_cost"`
	SellCost             uint32                `json:"sell_cost"`
	Alignment            *AlignmentRestriction `json:"alignment_restriction,omitempty"`
	ConstantBonus        *Bonus                `json:"constant_bonus,omitempty"`
	TemporaryBonus       *Bonus                `json:"temporary_bonus,omitempty"`
	SpellEffect          *shared.SpellID       `json:"spell_effect,omitempty"`
	MaxCharges           uint16                `json:"max_charges"`
	Cursed               bool                  `json:"is_cursed"`
	RequiredProficiency  string                `json:"required_proficiency,omitempty"`
	Tags                 []string              `json:"tags,omitempty"`
}

func (i *Item) IsWeapon() bool     { return i.Type.Kind == ItemKindWeapon }
func (i *Item) IsArmor() bool      { return i.Type.Kind == ItemKindArmor }
func (i *Item) IsAccessory() bool  { return i.Type.Kind == ItemKindAccessory }
func (i *Item) IsConsumable() bool { return i.Type.Kind == ItemKindConsumable }
func (i *Item) IsAmmo() bool       { return i.Type.Kind == ItemKindAmmo }
func (i *Item) IsQuestItem() bool  { return i.Type.Kind == ItemKindQuest }

// IsMagical reports whether the item carries any magical effect.
func (i *Item) IsMagical() bool {
	return i.MaxCharges > 0 || i.ConstantBonus != nil || i.TemporaryBonus != nil || i.SpellEffect != nil
}

// AllowsAlignment reports whether the item may be used by the alignment.
func (i *Item) AllowsAlignment(a shared.Alignment) bool {
	return i.Alignment == nil || i.Alignment.Permits(a)
}
