package content

import "github.com/wyrmgate/engine/internal/domain/shared"

// BaseStats are starting stat values before race modifiers. Standard
// characters roll 3-18 per stat.
type BaseStats struct {
	Might       uint8 `json:"might"`
	Intellect   uint8 `json:"intellect"`
	Personality uint8 `json:"personality"`
	Endurance   uint8 `json:"endurance"`
	Speed       uint8 `json:"speed"`
	Accuracy    uint8 `json:"accuracy"`
	Luck        uint8 `json:"luck"`
}

// ToStats converts base values into runtime stat pairs.
func (b BaseStats) ToStats() shared.Stats {
	return shared.NewStats(b.Might, b.Intellect, b.Personality, b.Endurance, b.Speed, b.Accuracy, b.Luck)
}

// StartingEquipment lists the items equipped when a character is
// instantiated. A slot of 0 means empty.
type StartingEquipment struct {
	Weapon     shared.ItemID `json:"weapon,omitempty"`
	Armor      shared.ItemID `json:"armor,omitempty"`
	Shield     shared.ItemID `json:"shield,omitempty"`
	Helmet     shared.ItemID `json:"helmet,omitempty"`
	Boots      shared.ItemID `json:"boots,omitempty"`
	Accessory1 shared.ItemID `json:"accessory1,omitempty"`
	Accessory2 shared.ItemID `json:"accessory2,omitempty"`
}

// AllItemIDs returns the non-empty slots in slot order.
func (e StartingEquipment) AllItemIDs() []shared.ItemID {
	var ids []shared.ItemID
	for _, id := range []shared.ItemID{
		e.Weapon, e.Armor, e.Shield, e.Helmet, e.Boots, e.Accessory1, e.Accessory2,
	} {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsEmpty reports whether every slot is empty.
func (e StartingEquipment) IsEmpty() bool {
	return len(e.AllItemIDs()) == 0
}

// CharacterDefinition is an authoring record for a pre-made character,
// recruitable NPC, or template.
type CharacterDefinition struct {
	ID                shared.CharacterID `json:"id"`
	Name              string             `json:"name"`
	RaceID            shared.RaceID      `json:"race_id"`
	ClassID           shared.ClassID     `json:"class_id"`
	Sex               shared.Sex         `json:"sex"`
	Alignment         shared.Alignment   `json:"alignment"`
	BaseStats         BaseStats          `json:"base_stats"`
	PortraitID        string             `json:"portrait_id,omitempty"`
	StartingGold      uint32             `json:"starting_gold,omitempty"`
	StartingGems      uint32             `json:"starting_gems,omitempty"`
	StartingFood      uint8              `json:"starting_food,omitempty"`
	StartingItems     []shared.ItemID    `json:"starting_items,omitempty"`
	StartingEquipment StartingEquipment  `json:"starting_equipment,omitempty"`
	Description       string             `json:"description,omitempty"`
	IsPremade         bool               `json:"is_premade,omitempty"`
	StartsInParty     bool               `json:"starts_in_party,omitempty"`
}

// AllItemIDs returns every item the definition references: inventory
// items followed by equipment slots.
func (d *CharacterDefinition) AllItemIDs() []shared.ItemID {
	ids := append([]shared.ItemID{}, d.StartingItems...)
	return append(ids, d.StartingEquipment.AllItemIDs()...)
}
