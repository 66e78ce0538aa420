package content

import (
	"encoding/json"
	"fmt"

	"github.com/wyrmgate/engine/internal/domain/shared"
)

// QuestObjectiveKind discriminates QuestObjective.
type QuestObjectiveKind string

const (
	ObjectiveKillMonsters  QuestObjectiveKind = "kill_monsters"
	ObjectiveCollectItems  QuestObjectiveKind = "collect_items"
	ObjectiveReachLocation QuestObjectiveKind = "reach_location"
	ObjectiveTalkToNpc     QuestObjectiveKind = "talk_to_npc"
)

// QuestObjective is one requirement within a quest stage.
type QuestObjective struct {
	Kind      QuestObjectiveKind
	MonsterID shared.MonsterID
	ItemID    shared.ItemID
	Quantity  uint32
	MapID     shared.MapID
	Position  shared.Position
	Radius    uint32
	NpcID     shared.NpcID
}

// KillMonsters requires killing quantity monsters of the given kind.
func KillMonsters(id shared.MonsterID, quantity uint32) QuestObjective {
	return QuestObjective{Kind: ObjectiveKillMonsters, MonsterID: id, Quantity: quantity}
}

// CollectItems requires holding quantity of the given item.
func CollectItems(id shared.ItemID, quantity uint32) QuestObjective {
	return QuestObjective{Kind: ObjectiveCollectItems, ItemID: id, Quantity: quantity}
}

// ReachLocation requires entering a radius around a map position.
func ReachLocation(mapID shared.MapID, pos shared.Position, radius uint32) QuestObjective {
	return QuestObjective{Kind: ObjectiveReachLocation, MapID: mapID, Position: pos, Radius: radius}
}

// TalkToNpc requires speaking with the given NPC.
func TalkToNpc(id shared.NpcID) QuestObjective {
	return QuestObjective{Kind: ObjectiveTalkToNpc, NpcID: id}
}

type questObjectiveStaged struct {
	Type      QuestObjectiveKind `json:"type"`
	MonsterID shared.MonsterID   `json:"monster_id,omitempty"`
	ItemID    shared.ItemID      `json:"item_id,omitempty"`
	Quantity  uint32             `json:"quantity,omitempty"`
	MapID     shared.MapID       `json:"map_id,omitempty"`
	Position  *shared.Position   `json:"position,omitempty"`
	Radius    uint32             `json:"radius,omitempty"`
	NpcID     shared.NpcID       `json:"npc_id,omitempty"`
}

func (o QuestObjective) MarshalJSON() ([]byte, error) {
	staged := questObjectiveStaged{Type: o.Kind}
	switch o.Kind {
	case ObjectiveKillMonsters:
		staged.MonsterID = o.MonsterID
		staged.Quantity = o.Quantity
	case ObjectiveCollectItems:
		staged.ItemID = o.ItemID
		staged.Quantity = o.Quantity
	case ObjectiveReachLocation:
		staged.MapID = o.MapID
		pos := o.Position
		staged.Position = &pos
		staged.Radius = o.Radius
	case ObjectiveTalkToNpc:
		staged.NpcID = o.NpcID
	default:
		return nil, fmt.Errorf("unknown quest objective %q", o.Kind)
	}
	return json.Marshal(staged)
}

func (o *QuestObjective) UnmarshalJSON(data []byte) error {
	var staged questObjectiveStaged
	if err := json.Unmarshal(data, &staged); err != nil {
		return err
	}
	switch staged.Type {
	case ObjectiveKillMonsters, ObjectiveCollectItems, ObjectiveReachLocation, ObjectiveTalkToNpc:
	default:
		return fmt.Errorf("unknown quest objective %q", staged.Type)
	}
	*o = QuestObjective{
		Kind:      staged.Type,
		MonsterID: staged.MonsterID,
		ItemID:    staged.ItemID,
		Quantity:  staged.Quantity,
		MapID:     staged.MapID,
		Radius:    staged.Radius,
		NpcID:     staged.NpcID,
	}
	if staged.Position != nil {
		o.Position = *staged.Position
	}
	return nil
}

// RequiredCount is the completion count for progress tracking. Location
// and dialogue objectives complete on a single hit.
func (o QuestObjective) RequiredCount() uint32 {
	switch o.Kind {
	case ObjectiveKillMonsters, ObjectiveCollectItems:
		if o.Quantity == 0 {
			return 1
		}
		return o.Quantity
	default:
		return 1
	}
}

// QuestRewardKind discriminates QuestReward.
type QuestRewardKind string

const (
	RewardExperience  QuestRewardKind = "experience"
	RewardGold        QuestRewardKind = "gold"
	RewardItem        QuestRewardKind = "item"
	RewardUnlockQuest QuestRewardKind = "unlock_quest"
)

// QuestReward is granted when a quest is turned in.
type QuestReward struct {
	Kind     QuestRewardKind
	Amount   uint32
	ItemID   shared.ItemID
	Quantity uint32
	QuestID  shared.QuestID
}

func ExperienceReward(amount uint32) QuestReward {
	return QuestReward{Kind: RewardExperience, Amount: amount}
}

func GoldReward(amount uint32) QuestReward {
	return QuestReward{Kind: RewardGold, Amount: amount}
}

func ItemReward(id shared.ItemID, quantity uint32) QuestReward {
	return QuestReward{Kind: RewardItem, ItemID: id, Quantity: quantity}
}

func UnlockQuestReward(id shared.QuestID) QuestReward {
	return QuestReward{Kind: RewardUnlockQuest, QuestID: id}
}

type questRewardStaged struct {
	Type     QuestRewardKind `json:"type"`
	Amount   uint32          `json:"amount,omitempty"`
	ItemID   shared.ItemID   `json:"item_id,omitempty"`
	Quantity uint32          `json:"quantity,omitempty"`
	QuestID  shared.QuestID  `json:"quest_id,omitempty"`
}

func (r QuestReward) MarshalJSON() ([]byte, error) {
	staged := questRewardStaged{Type: r.Kind}
	switch r.Kind {
	case RewardExperience, RewardGold:
		staged.Amount = r.Amount
	case RewardItem:
		staged.ItemID = r.ItemID
		staged.Quantity = r.Quantity
	case RewardUnlockQuest:
		staged.QuestID = r.QuestID
	default:
		return nil, fmt.Errorf("unknown quest reward %q", r.Kind)
	}
	return json.Marshal(staged)
}

func (r *QuestReward) UnmarshalJSON(data []byte) error {
	var staged questRewardStaged
	if err := json.Unmarshal(data, &staged); err != nil {
		return err
	}
	switch staged.Type {
	case RewardExperience, RewardGold, RewardItem, RewardUnlockQuest:
	default:
		return fmt.Errorf("unknown quest reward %q", staged.Type)
	}
	*r = QuestReward{
		Kind:     staged.Type,
		Amount:   staged.Amount,
		ItemID:   staged.ItemID,
		Quantity: staged.Quantity,
		QuestID:  staged.QuestID,
	}
	return nil
}

// QuestStage is one step of a multi-stage quest. Stage numbers start
// at 1 and advance in order.
type QuestStage struct {
	StageNumber          uint32           `json:"stage_number"`
	Name                 string           `json:"name"`
	Description          string           `json:"description,omitempty"`
	Objectives           []QuestObjective `json:"objectives"`
	RequireAllObjectives bool             `json:"require_all_objectives"`
}

// Quest is a content-defined quest line.
type Quest struct {
	ID             shared.QuestID   `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Stages         []QuestStage     `json:"stages"`
	Rewards        []QuestReward    `json:"rewards,omitempty"`
	MinLevel       *uint8           `json:"min_level,omitempty"`
	MaxLevel       *uint8           `json:"max_level,omitempty"`
	RequiredQuests []shared.QuestID `json:"required_quests,omitempty"`
	Repeatable     bool             `json:"repeatable,omitempty"`
	IsMainQuest    bool             `json:"is_main_quest,omitempty"`
}

// Stage returns the stage with the given number, or nil.
func (q *Quest) Stage(number uint32) *QuestStage {
	for i := range q.Stages {
		if q.Stages[i].StageNumber == number {
			return &q.Stages[i]
		}
	}
	return nil
}

// FinalStage is the highest stage number, 0 when the quest has no stages.
func (q *Quest) FinalStage() uint32 {
	var max uint32
	for i := range q.Stages {
		if q.Stages[i].StageNumber > max {
			max = q.Stages[i].StageNumber
		}
	}
	return max
}

// AvailableAtLevel reports whether a party of the given level can take
// the quest.
func (q *Quest) AvailableAtLevel(level uint8) bool {
	if q.MinLevel != nil && level < *q.MinLevel {
		return false
	}
	if q.MaxLevel != nil && level > *q.MaxLevel {
		return false
	}
	return true
}
