// Package quests tracks quest progress against world events. Events
// from combat, item pickup, movement, and dialogue feed the log; when
// a quest's final stage completes, its rewards land on the party.
package quests

//go:generate mockgen -destination=mock/mock_service.go -package=mockquests -source=service.go

import (
	"log"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/domain/character"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// EventKind discriminates quest progress events.
type EventKind string

const (
	EventMonsterKilled   EventKind = "monster_killed"
	EventItemCollected   EventKind = "item_collected"
	EventLocationReached EventKind = "location_reached"
	EventNpcTalked       EventKind = "npc_talked"
)

// Event is a world occurrence that may advance quest objectives.
type Event struct {
	Kind      EventKind
	MonsterID shared.MonsterID
	ItemID    shared.ItemID
	Count     uint32
	MapID     shared.MapID
	Position  shared.Position
	NpcID     shared.NpcID
}

// MonsterKilled reports count kills of the given monster type.
func MonsterKilled(id shared.MonsterID, count uint32) Event {
	return Event{Kind: EventMonsterKilled, MonsterID: id, Count: count}
}

// ItemCollected reports count pickups of the given item.
func ItemCollected(id shared.ItemID, count uint32) Event {
	return Event{Kind: EventItemCollected, ItemID: id, Count: count}
}

// LocationReached reports the party's arrival at a map position.
func LocationReached(mapID shared.MapID, pos shared.Position) Event {
	return Event{Kind: EventLocationReached, MapID: mapID, Position: pos}
}

// NpcTalked reports a conversation with the given NPC.
func NpcTalked(id shared.NpcID) Event {
	return Event{Kind: EventNpcTalked, NpcID: id}
}

// Progress tracks one quest through its stages. Objective counters are
// index-aligned with the current stage's objectives and reset when the
// stage advances.
type Progress struct {
	QuestID      shared.QuestID `json:"quest_id"`
	CurrentStage uint32         `json:"current_stage"`
	Objectives   []uint32       `json:"objectives,omitempty"`
	Completed    bool           `json:"completed,omitempty"`
}

// NewProgress starts tracking at the first stage.
func NewProgress(id shared.QuestID) *Progress {
	return &Progress{QuestID: id, CurrentStage: 1}
}

// ObjectiveProgress returns the counter for the objective index.
func (p *Progress) ObjectiveProgress(index int) uint32 {
	if index < 0 || index >= len(p.Objectives) {
		return 0
	}
	return p.Objectives[index]
}

func (p *Progress) setObjective(index int, value uint32) {
	for len(p.Objectives) <= index {
		p.Objectives = append(p.Objectives, 0)
	}
	p.Objectives[index] = value
}

func (p *Progress) advanceStage(next uint32) {
	p.CurrentStage = next
	p.Objectives = nil
}

// Log is the party's quest journal. Quests keep insertion order so
// evaluation and serialization stay deterministic.
type Log struct {
	Quests []*Progress `json:"quests,omitempty"`
}

// NewLog creates an empty journal.
func NewLog() *Log {
	return &Log{}
}

// Find returns the progress entry for the quest, or nil.
func (l *Log) Find(id shared.QuestID) *Progress {
	for _, p := range l.Quests {
		if p.QuestID == id {
			return p
		}
	}
	return nil
}

// IsCompleted reports whether the quest has been finished.
func (l *Log) IsCompleted(id shared.QuestID) bool {
	p := l.Find(id)
	return p != nil && p.Completed
}

// ActiveCount is the number of quests still in progress.
func (l *Log) ActiveCount() int {
	n := 0
	for _, p := range l.Quests {
		if !p.Completed {
			n++
		}
	}
	return n
}

// Service advances quest state.
type Service interface {
	// StartQuest begins tracking a quest after checking availability:
	// the quest must exist, fit the party's level, and have every
	// prerequisite quest completed.
	StartQuest(questLog *Log, party *character.Party, questID shared.QuestID) error

	// ProcessEvent feeds a world event to every active quest and returns
	// the ids of quests the event completed.
	ProcessEvent(questLog *Log, party *character.Party, event Event) ([]shared.QuestID, error)
}

type service struct {
	db *campaign.Database
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Database *campaign.Database
}

// NewService creates a new quest service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Database == nil {
		panic("database is required")
	}
	return &service{db: cfg.Database}
}

func (s *service) StartQuest(questLog *Log, party *character.Party, questID shared.QuestID) error {
	quest, err := s.db.Quest(questID)
	if err != nil {
		return err
	}

	if existing := questLog.Find(questID); existing != nil {
		if existing.Completed && quest.Repeatable {
			existing.CurrentStage = 1
			existing.Objectives = nil
			existing.Completed = false
			return nil
		}
		return errors.AlreadyExistsf("quest %q is already in the journal", quest.Name)
	}

	if !quest.AvailableAtLevel(party.HighestLevel()) {
		return errors.Restrictedf("%s is not available at the party's level", quest.Name)
	}
	for _, required := range quest.RequiredQuests {
		if !questLog.IsCompleted(required) {
			return errors.Restrictedf("%s requires completing quest %d first", quest.Name, required)
		}
	}

	questLog.Quests = append(questLog.Quests, NewProgress(questID))
	return nil
}

func (s *service) ProcessEvent(questLog *Log, party *character.Party, event Event) ([]shared.QuestID, error) {
	var completed []shared.QuestID

	// Entries append during iteration when an unlock reward fires; the
	// new quest sees only later events.
	active := len(questLog.Quests)
	for i := 0; i < active; i++ {
		progress := questLog.Quests[i]
		if progress.Completed {
			continue
		}

		quest, err := s.db.Quest(progress.QuestID)
		if err != nil {
			return completed, err
		}
		stage := quest.Stage(progress.CurrentStage)
		if stage == nil {
			// A stale save can point past the last stage; treat the quest
			// as done rather than wedging the journal.
			progress.Completed = true
			continue
		}

		s.applyEventToStage(progress, stage, event)

		if !stageSatisfied(progress, stage) {
			continue
		}
		if next := nextStageNumber(quest, progress.CurrentStage); next != 0 {
			progress.advanceStage(next)
			continue
		}

		progress.Completed = true
		completed = append(completed, quest.ID)
		log.Printf("quest completed: %s", quest.Name)
		if err := s.applyRewards(quest, questLog, party); err != nil {
			return completed, err
		}
	}
	return completed, nil
}

func (s *service) applyEventToStage(progress *Progress, stage *content.QuestStage, event Event) {
	for i := range stage.Objectives {
		obj := &stage.Objectives[i]
		required := obj.RequiredCount()
		current := progress.ObjectiveProgress(i)
		if current >= required {
			continue
		}

		switch {
		case obj.Kind == content.ObjectiveKillMonsters && event.Kind == EventMonsterKilled:
			if obj.MonsterID == event.MonsterID {
				progress.setObjective(i, capAt(current+event.Count, required))
			}
		case obj.Kind == content.ObjectiveCollectItems && event.Kind == EventItemCollected:
			if obj.ItemID == event.ItemID {
				progress.setObjective(i, capAt(current+event.Count, required))
			}
		case obj.Kind == content.ObjectiveReachLocation && event.Kind == EventLocationReached:
			if obj.MapID == event.MapID && event.Position.WithinRadius(obj.Position, obj.Radius) {
				progress.setObjective(i, 1)
			}
		case obj.Kind == content.ObjectiveTalkToNpc && event.Kind == EventNpcTalked:
			if obj.NpcID == event.NpcID {
				progress.setObjective(i, 1)
			}
		}
	}
}

func stageSatisfied(progress *Progress, stage *content.QuestStage) bool {
	if len(stage.Objectives) == 0 {
		return false
	}
	for i := range stage.Objectives {
		done := progress.ObjectiveProgress(i) >= stage.Objectives[i].RequiredCount()
		if stage.RequireAllObjectives && !done {
			return false
		}
		if !stage.RequireAllObjectives && done {
			return true
		}
	}
	return stage.RequireAllObjectives
}

// nextStageNumber returns the stage after current in authored order, or
// zero when current is the last stage.
func nextStageNumber(quest *content.Quest, current uint32) uint32 {
	for i := range quest.Stages {
		if quest.Stages[i].StageNumber == current && i+1 < len(quest.Stages) {
			return quest.Stages[i+1].StageNumber
		}
	}
	return 0
}

// applyRewards grants a completed quest's rewards. Experience and items
// go to the lead member; gold pools on the party. Unlock rewards add
// new journal entries.
func (s *service) applyRewards(quest *content.Quest, questLog *Log, party *character.Party) error {
	for _, reward := range quest.Rewards {
		switch reward.Kind {
		case content.RewardExperience:
			if lead := firstLivingMember(party); lead != nil {
				lead.Experience += reward.Amount
			}
		case content.RewardGold:
			party.Gold += reward.Amount
		case content.RewardItem:
			if lead := firstLivingMember(party); lead != nil {
				if err := lead.Inventory.Add(reward.ItemID, uint16(reward.Quantity)); err != nil {
					log.Printf("quest %d: reward item %d dropped: %v", quest.ID, reward.ItemID, err)
				}
			}
		case content.RewardUnlockQuest:
			if err := s.StartQuest(questLog, party, reward.QuestID); err != nil && !errors.IsAlreadyExists(err) {
				return errors.Wrapf(err, "unlocking quest %d", reward.QuestID)
			}
		}
	}
	return nil
}

func firstLivingMember(party *character.Party) *character.Character {
	living := party.LivingMembers()
	if len(living) == 0 {
		return nil
	}
	return living[0]
}

func capAt(value, limit uint32) uint32 {
	if value > limit {
		return limit
	}
	return value
}
