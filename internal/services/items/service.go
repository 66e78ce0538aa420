// Package items validates and executes consumable item use, both from
// the field and inside an encounter. Restriction checks cover item
// kind, alignment, proficiency, and race tags; combat use additionally
// consumes the user's turn.
package items

//go:generate mockgen -destination=mock/mock_service.go -package=mockitems -source=service.go

import (
	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/character"
	domain "github.com/wyrmgate/engine/internal/domain/combat"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// UseResult is the outcome of a successful item use.
type UseResult struct {
	ItemName string
	// Healing counts hit points and spell points restored.
	Healing      int
	Cured        shared.ConditionFlags
	Affected     []domain.CombatantID
	RoundEffects []domain.OverTimeEffect
}

// Service uses consumable items.
type Service interface {
	// ValidateUse checks whether the character can use the item in the
	// given inventory slot. Nothing is consumed.
	ValidateUse(user *character.Character, slotIndex int, inCombat bool) error

	// UseItem consumes a charge from the slot and applies the effect to
	// the target outside combat.
	UseItem(user, target *character.Character, slotIndex int) (*UseResult, error)

	// UseItemInCombat consumes a charge, applies the effect to the target
	// combatant, then advances the turn and checks for combat end.
	UseItemInCombat(state *domain.State, userID domain.CombatantID, slotIndex int, targetID domain.CombatantID) (*UseResult, error)
}

type service struct {
	db     *campaign.Database
	roller dice.Roller
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Database *campaign.Database
	Roller   dice.Roller
}

// NewService creates a new item service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Database == nil {
		panic("database is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}
	return &service{
		db:     cfg.Database,
		roller: cfg.Roller,
	}
}

func (s *service) ValidateUse(user *character.Character, slotIndex int, inCombat bool) error {
	slot, err := user.Inventory.Slot(slotIndex)
	if err != nil {
		return err
	}
	item, err := s.db.Item(slot.ItemID)
	if err != nil {
		return err
	}

	if !item.IsConsumable() {
		return errors.Validationf("%s cannot be used this way", item.Name)
	}
	if inCombat && !item.Type.Consumable.CombatUsable {
		return errors.InvalidContextf("%s cannot be used in combat", item.Name)
	}
	if !item.AllowsAlignment(user.Alignment) {
		return errors.Restrictedf("%s refuses the %s", item.Name, user.Alignment)
	}

	// Proficiency and race checks hit the content database, so they only
	// run when the item actually carries a requirement.
	if item.RequiredProficiency != "" {
		if !s.hasProficiency(user, item.RequiredProficiency) {
			return errors.Restrictedf("%s requires the %s proficiency", item.Name, item.RequiredProficiency)
		}
	}
	if len(item.Tags) > 0 {
		race, err := s.db.Race(user.RaceID)
		if err != nil {
			return err
		}
		if !race.CanUseItem(item.Tags) {
			return errors.Restrictedf("%s cannot be used by %s", item.Name, race.Name)
		}
	}
	return nil
}

// hasProficiency checks the union of class and race proficiencies.
func (s *service) hasProficiency(user *character.Character, prof string) bool {
	if class, err := s.db.Class(user.ClassID); err == nil && class.HasProficiency(prof) {
		return true
	}
	if race, err := s.db.Race(user.RaceID); err == nil && race.HasProficiency(prof) {
		return true
	}
	return false
}

func (s *service) UseItem(user, target *character.Character, slotIndex int) (*UseResult, error) {
	if err := s.ValidateUse(user, slotIndex, false); err != nil {
		return nil, err
	}
	item, err := s.consumeCharge(user, slotIndex)
	if err != nil {
		return nil, err
	}

	result := &UseResult{ItemName: item.Name}
	applyConsumableEffect(target, item.Type.Consumable.Effect, result)
	return result, nil
}

func (s *service) UseItemInCombat(state *domain.State, userID domain.CombatantID, slotIndex int, targetID domain.CombatantID) (*UseResult, error) {
	combatant, err := state.Combatant(userID)
	if err != nil {
		return nil, err
	}
	user := combatant.Player
	if user == nil {
		return nil, errors.InvalidTargetf("combatant %s has no inventory", userID)
	}

	if err := s.ValidateUse(user, slotIndex, true); err != nil {
		return nil, err
	}

	// Consumable effects only land on party members.
	targetCombatant, err := state.Combatant(targetID)
	if err != nil {
		return nil, err
	}
	target := targetCombatant.Player
	if target == nil {
		return nil, errors.InvalidTargetf("%s is not a valid item target", targetID)
	}

	item, err := s.consumeCharge(user, slotIndex)
	if err != nil {
		return nil, err
	}

	result := &UseResult{ItemName: item.Name}
	if applyConsumableEffect(target, item.Type.Consumable.Effect, result) {
		result.Affected = append(result.Affected, targetID)
	}

	effects, err := state.AdvanceTurn(s.db.Conditions(), s.roller)
	if err != nil {
		return nil, err
	}
	result.RoundEffects = effects
	state.CheckCombatEnd()
	return result, nil
}

// consumeCharge spends one charge from the slot, removing the slot when
// the last charge goes. It returns the item definition for the effect.
func (s *service) consumeCharge(user *character.Character, slotIndex int) (*content.Item, error) {
	slot, err := user.Inventory.Slot(slotIndex)
	if err != nil {
		return nil, err
	}
	if slot.Charges == 0 {
		return nil, errors.Insufficient("no charges left", 1, 0)
	}
	item, err := s.db.Item(slot.ItemID)
	if err != nil {
		return nil, err
	}

	if slot.Charges > 1 {
		slot.Charges--
	} else {
		if _, err := user.Inventory.Remove(slotIndex); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// applyConsumableEffect mutates the target and records what happened in
// the result. It reports whether the target was actually affected.
func applyConsumableEffect(target *character.Character, effect content.ConsumableEffect, result *UseResult) bool {
	switch effect.Kind {
	case content.ConsumableHealHP:
		before := target.HP.Current
		target.Heal(int(effect.Amount))
		healed := int(target.HP.Current) - int(before)
		result.Healing += healed
		return healed > 0

	case content.ConsumableRestoreSP:
		before := target.SP.Current
		target.SP.ModifyClamped(int(effect.Amount))
		restored := int(target.SP.Current) - int(before)
		result.Healing += restored
		return restored > 0

	case content.ConsumableCureCondition:
		target.Conditions = target.Conditions.Clear(effect.Mask)
		result.Cured = result.Cured.Set(effect.Mask)
		return true

	case content.ConsumableBoostAttribute:
		if attr := target.Stats.Get(effect.Attribute); attr != nil {
			attr.Modify(int(effect.Delta))
			return true
		}
		return false

	default:
		return false
	}
}
