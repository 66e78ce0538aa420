package campaign

import (
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/errors"
)

// Validate cross-checks every reference in the database and the
// manifest against the content that actually loaded. Stores iterate in
// content order, so the first reported error is stable across runs.
func Validate(manifest *Campaign, db *Database) error {
	if err := validateManifestRefs(manifest, db); err != nil {
		return err
	}
	if err := validateRaces(db); err != nil {
		return err
	}
	if err := validateClasses(db); err != nil {
		return err
	}
	if err := validateSpells(db); err != nil {
		return err
	}
	if err := validateCharacters(db); err != nil {
		return err
	}
	if err := validateQuests(db); err != nil {
		return err
	}
	if err := validateDialogues(db); err != nil {
		return err
	}
	return validateMaps(db)
}

func validateManifestRefs(manifest *Campaign, db *Database) error {
	start, err := db.Map(manifest.Config.StartingMap)
	if err != nil {
		return errors.Validationf("starting map %d not found", manifest.Config.StartingMap)
	}
	pos := manifest.Config.StartingPosition
	tile := start.TileAt(pos)
	if tile == nil {
		return errors.Validationf("starting position (%d,%d) is outside map %d",
			pos.X, pos.Y, start.ID)
	}
	if tile.IsBlocked() {
		return errors.Validationf("starting position (%d,%d) on map %d is blocked",
			pos.X, pos.Y, start.ID)
	}
	return nil
}

func validateRaces(db *Database) error {
	for _, race := range db.Races() {
		if err := race.Resistances.Validate(); err != nil {
			return errors.Validationf("race %q: %s", race.ID, err.Error())
		}
	}
	return nil
}

func validateClasses(db *Database) error {
	for _, class := range db.Classes() {
		if class.StartingWeaponID != nil {
			if _, err := db.Item(*class.StartingWeaponID); err != nil {
				return errors.Validationf("class %q: starting weapon %d not found",
					class.ID, *class.StartingWeaponID)
			}
		}
		if class.StartingArmorID != nil {
			if _, err := db.Item(*class.StartingArmorID); err != nil {
				return errors.Validationf("class %q: starting armor %d not found",
					class.ID, *class.StartingArmorID)
			}
		}
		for _, id := range class.StartingItems {
			if _, err := db.Item(id); err != nil {
				return errors.Validationf("class %q: starting item %d not found", class.ID, id)
			}
		}
		if class.SpellSchool != nil && class.SpellStat == nil {
			return errors.Validationf("class %q: caster without a spell stat", class.ID)
		}
	}
	return nil
}

func validateSpells(db *Database) error {
	for _, spell := range db.Spells() {
		for _, id := range spell.AppliedConditions {
			if _, err := db.Condition(id); err != nil {
				return errors.Validationf("spell %d (%s): condition %q not found",
					spell.ID, spell.Name, id)
			}
		}
	}
	return nil
}

func validateCharacters(db *Database) error {
	for _, def := range db.Characters() {
		if _, err := db.Race(def.RaceID); err != nil {
			return errors.Validationf("character %q: race %q not found", def.ID, def.RaceID)
		}
		if _, err := db.Class(def.ClassID); err != nil {
			return errors.Validationf("character %q: class %q not found", def.ID, def.ClassID)
		}
		for _, id := range def.AllItemIDs() {
			if _, err := db.Item(id); err != nil {
				return errors.Validationf("character %q: item %d not found", def.ID, id)
			}
		}
	}
	return nil
}

func validateQuests(db *Database) error {
	for _, quest := range db.Quests() {
		if len(quest.Stages) == 0 {
			return errors.Validationf("quest %q has no stages", quest.ID)
		}
		// Stage numbers must run 1..N in authoring order.
		for i := range quest.Stages {
			stage := &quest.Stages[i]
			if stage.StageNumber != uint32(i+1) {
				return errors.Validationf("quest %q: stage %d numbered %d, expected %d",
					quest.ID, i, stage.StageNumber, i+1)
			}
			if len(stage.Objectives) == 0 {
				return errors.Validationf("quest %q stage %d has no objectives",
					quest.ID, stage.StageNumber)
			}
			for _, obj := range stage.Objectives {
				if err := validateObjective(db, quest, stage, obj); err != nil {
					return err
				}
			}
		}
		for _, reward := range quest.Rewards {
			switch reward.Kind {
			case content.RewardItem:
				if _, err := db.Item(reward.ItemID); err != nil {
					return errors.Validationf("quest %q: reward item %d not found",
						quest.ID, reward.ItemID)
				}
			case content.RewardUnlockQuest:
				if _, err := db.Quest(reward.QuestID); err != nil {
					return errors.Validationf("quest %q: unlocked quest %q not found",
						quest.ID, reward.QuestID)
				}
			}
		}
		for _, required := range quest.RequiredQuests {
			if _, err := db.Quest(required); err != nil {
				return errors.Validationf("quest %q: required quest %q not found",
					quest.ID, required)
			}
		}
	}
	return nil
}

func validateObjective(db *Database, quest *content.Quest, stage *content.QuestStage, obj content.QuestObjective) error {
	switch obj.Kind {
	case content.ObjectiveKillMonsters:
		if _, err := db.Monster(obj.MonsterID); err != nil {
			return errors.Validationf("quest %q stage %d: monster %d not found",
				quest.ID, stage.StageNumber, obj.MonsterID)
		}
	case content.ObjectiveCollectItems:
		if _, err := db.Item(obj.ItemID); err != nil {
			return errors.Validationf("quest %q stage %d: item %d not found",
				quest.ID, stage.StageNumber, obj.ItemID)
		}
	case content.ObjectiveReachLocation:
		m, err := db.Map(obj.MapID)
		if err != nil {
			return errors.Validationf("quest %q stage %d: map %d not found",
				quest.ID, stage.StageNumber, obj.MapID)
		}
		if !m.InBounds(obj.Position) {
			return errors.Validationf("quest %q stage %d: position (%d,%d) outside map %d",
				quest.ID, stage.StageNumber, obj.Position.X, obj.Position.Y, obj.MapID)
		}
	case content.ObjectiveTalkToNpc:
		if obj.NpcID == "" {
			return errors.Validationf("quest %q stage %d: empty npc id",
				quest.ID, stage.StageNumber)
		}
	default:
		return errors.Validationf("quest %q stage %d: unknown objective %q",
			quest.ID, stage.StageNumber, obj.Kind)
	}
	return nil
}

func validateDialogues(db *Database) error {
	for _, d := range db.Dialogues() {
		if err := d.Validate(); err != nil {
			return err
		}
		if d.AssociatedQuest != nil {
			if _, err := db.Quest(*d.AssociatedQuest); err != nil {
				return errors.Validationf("dialogue %q: quest %q not found",
					d.ID, *d.AssociatedQuest)
			}
		}
		for i := range d.Nodes {
			for _, choice := range d.Nodes[i].Choices {
				if choice.GrantQuest != nil {
					if _, err := db.Quest(*choice.GrantQuest); err != nil {
						return errors.Validationf("dialogue %q: granted quest %q not found",
							d.ID, *choice.GrantQuest)
					}
				}
			}
		}
	}
	return nil
}

func validateMaps(db *Database) error {
	for _, m := range db.Maps() {
		for i := range m.Events {
			ev := &m.Events[i]
			if err := validateMapEvent(db, m, ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMapEvent(db *Database, m *content.Map, ev *content.PlacedEvent) error {
	switch ev.Event.Kind {
	case content.EventEncounter:
		if len(ev.Event.MonsterGroup) == 0 {
			return errors.Validationf("map %d event %d: empty monster group", m.ID, ev.ID)
		}
		for _, id := range ev.Event.MonsterGroup {
			if _, err := db.Monster(id); err != nil {
				return errors.Validationf("map %d event %d: monster %d not found",
					m.ID, ev.ID, id)
			}
		}
	case content.EventTreasure:
		for _, id := range ev.Event.Loot {
			if _, err := db.Item(id); err != nil {
				return errors.Validationf("map %d event %d: item %d not found",
					m.ID, ev.ID, id)
			}
		}
	case content.EventTeleport:
		target, err := db.Map(ev.Event.MapID)
		if err != nil {
			return errors.Validationf("map %d event %d: teleport target map %d not found",
				m.ID, ev.ID, ev.Event.MapID)
		}
		if !target.InBounds(ev.Event.Destination) {
			return errors.Validationf("map %d event %d: teleport destination (%d,%d) outside map %d",
				m.ID, ev.ID, ev.Event.Destination.X, ev.Event.Destination.Y, target.ID)
		}
	case content.EventRecruitableCharacter:
		if _, err := db.Character(ev.Event.CharacterID); err != nil {
			return errors.Validationf("map %d event %d: character %q not found",
				m.ID, ev.ID, ev.Event.CharacterID)
		}
		if ev.Event.DialogueID != nil {
			if _, err := db.Dialogue(*ev.Event.DialogueID); err != nil {
				return errors.Validationf("map %d event %d: dialogue %q not found",
					m.ID, ev.ID, *ev.Event.DialogueID)
			}
		}
	case content.EventEnterInn:
		if ev.Event.NpcID == "" {
			return errors.Validationf("map %d event %d: inn without an innkeeper", m.ID, ev.ID)
		}
	}
	return nil
}
