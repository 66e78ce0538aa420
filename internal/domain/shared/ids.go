package shared

// Identifier kinds are content-authored and stable. The narrow integer
// widths match the campaign data format: item and monster ids must fit in
// a byte, spell and event ids in sixteen bits.
type (
	CharacterID string
	RaceID      string
	ClassID     string
	ConditionID string
	QuestID     string
	DialogueID  string
	NodeID      string
	NpcID       string
	TownID      string

	MapID     uint32
	MonsterID uint8
	ItemID    uint8
	SpellID   uint16
	EventID   uint16
)

// Sex of a character.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Alignment gates item use and some content.
type Alignment string

const (
	AlignmentGood    Alignment = "good"
	AlignmentNeutral Alignment = "neutral"
	AlignmentEvil    Alignment = "evil"
)
