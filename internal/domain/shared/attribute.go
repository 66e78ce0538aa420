package shared

// Attribute names a primary character statistic.
type Attribute string

var Attributes = []Attribute{
	AttributeMight,
	AttributeIntellect,
	AttributePersonality,
	AttributeEndurance,
	AttributeSpeed,
	AttributeAccuracy,
	AttributeLuck,
}

const (
	AttributeNone        Attribute = ""
	AttributeMight       Attribute = "might"
	AttributeIntellect   Attribute = "intellect"
	AttributePersonality Attribute = "personality"
	AttributeEndurance   Attribute = "endurance"
	AttributeSpeed       Attribute = "speed"
	AttributeAccuracy    Attribute = "accuracy"
	AttributeLuck        Attribute = "luck"
)

// Stats is the full primary-statistic block.
type Stats struct {
	Might       BoundedAttr8 `json:"might"`
	Intellect   BoundedAttr8 `json:"intellect"`
	Personality BoundedAttr8 `json:"personality"`
	Endurance   BoundedAttr8 `json:"endurance"`
	Speed       BoundedAttr8 `json:"speed"`
	Accuracy    BoundedAttr8 `json:"accuracy"`
	Luck        BoundedAttr8 `json:"luck"`
}

// NewStats builds a block with every current value at its base.
func NewStats(might, intellect, personality, endurance, speed, accuracy, luck uint8) Stats {
	return Stats{
		Might:       NewBoundedAttr8(might),
		Intellect:   NewBoundedAttr8(intellect),
		Personality: NewBoundedAttr8(personality),
		Endurance:   NewBoundedAttr8(endurance),
		Speed:       NewBoundedAttr8(speed),
		Accuracy:    NewBoundedAttr8(accuracy),
		Luck:        NewBoundedAttr8(luck),
	}
}

// Get returns the named attribute, or nil for an unknown name.
func (s *Stats) Get(attr Attribute) *BoundedAttr8 {
	switch attr {
	case AttributeMight:
		return &s.Might
	case AttributeIntellect:
		return &s.Intellect
	case AttributePersonality:
		return &s.Personality
	case AttributeEndurance:
		return &s.Endurance
	case AttributeSpeed:
		return &s.Speed
	case AttributeAccuracy:
		return &s.Accuracy
	case AttributeLuck:
		return &s.Luck
	default:
		return nil
	}
}

// Reset restores every attribute's current value to its base.
func (s *Stats) Reset() {
	for _, attr := range Attributes {
		s.Get(attr).Reset()
	}
}

// StatModifier is the bonus-or-penalty convention shared by attack and
// spell damage: (value - 10) / 2, truncated toward zero.
func StatModifier(value uint8) int {
	return (int(value) - 10) / 2
}
