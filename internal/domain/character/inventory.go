package character

import (
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// MaxInventoryItems is the backpack capacity.
const MaxInventoryItems = 6

// InventorySlot is one carried item. Charges count remaining uses for
// magical items; zero means the item has no charge mechanic or is spent.
type InventorySlot struct {
	ItemID  shared.ItemID `json:"item_id"`
	Charges uint16        `json:"charges,omitempty"`
}

// Inventory is a character's backpack.
type Inventory struct {
	Items []InventorySlot `json:"items,omitempty"`
}

// IsFull reports whether no slots remain.
func (inv *Inventory) IsFull() bool {
	return len(inv.Items) >= MaxInventoryItems
}

// HasSpace reports whether at least one slot remains.
func (inv *Inventory) HasSpace() bool {
	return !inv.IsFull()
}

// Add places an item in the first free slot.
func (inv *Inventory) Add(id shared.ItemID, charges uint16) error {
	if inv.IsFull() {
		return errors.Insufficient("inventory is full", 1, 0)
	}
	inv.Items = append(inv.Items, InventorySlot{ItemID: id, Charges: charges})
	return nil
}

// Remove takes the item out of the given slot and returns it.
func (inv *Inventory) Remove(index int) (InventorySlot, error) {
	if index < 0 || index >= len(inv.Items) {
		return InventorySlot{}, errors.InvalidArgumentf("inventory slot %d out of range", index)
	}
	slot := inv.Items[index]
	inv.Items = append(inv.Items[:index], inv.Items[index+1:]...)
	return slot, nil
}

// Slot returns the slot at index without removing it.
func (inv *Inventory) Slot(index int) (*InventorySlot, error) {
	if index < 0 || index >= len(inv.Items) {
		return nil, errors.InvalidArgumentf("inventory slot %d out of range", index)
	}
	return &inv.Items[index], nil
}

// Count of items of the given id across all slots.
func (inv *Inventory) Count(id shared.ItemID) int {
	n := 0
	for _, slot := range inv.Items {
		if slot.ItemID == id {
			n++
		}
	}
	return n
}

// Equipment is the worn item set. A slot of 0 is empty, matching the
// content format.
type Equipment struct {
	Weapon     shared.ItemID `json:"weapon,omitempty"`
	Armor      shared.ItemID `json:"armor,omitempty"`
	Shield     shared.ItemID `json:"shield,omitempty"`
	Helmet     shared.ItemID `json:"helmet,omitempty"`
	Boots      shared.ItemID `json:"boots,omitempty"`
	Accessory1 shared.ItemID `json:"accessory1,omitempty"`
	Accessory2 shared.ItemID `json:"accessory2,omitempty"`
}

// EquippedIDs returns the non-empty slots in slot order.
func (e *Equipment) EquippedIDs() []shared.ItemID {
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

// EquippedCount is the number of filled slots.
func (e *Equipment) EquippedCount() int {
	return len(e.EquippedIDs())
}
