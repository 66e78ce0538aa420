package shared

// ConditionFlags is the legacy packed condition byte kept for save-data
// compatibility. Cure effects clear bits from this mask.
type ConditionFlags uint8

// Bit values match the classic save format byte. Stone and Eradicated are
// composite states rather than single bits.
const (
	FlagAsleep      ConditionFlags = 1
	FlagBlinded     ConditionFlags = 2
	FlagSilenced    ConditionFlags = 4
	FlagDiseased    ConditionFlags = 8
	FlagPoisoned    ConditionFlags = 16
	FlagParalyzed   ConditionFlags = 32
	FlagUnconscious ConditionFlags = 64
	FlagDead        ConditionFlags = 128
	FlagStone       ConditionFlags = 160
	FlagEradicated  ConditionFlags = 255
)

// Has reports whether every bit of other is set.
func (f ConditionFlags) Has(other ConditionFlags) bool {
	return f&other == other
}

// Set returns the flags with the given bits set.
func (f ConditionFlags) Set(other ConditionFlags) ConditionFlags {
	return f | other
}

// Clear returns the flags with the given bits cleared.
func (f ConditionFlags) Clear(other ConditionFlags) ConditionFlags {
	return f &^ other
}

// DurationType says how a condition duration is measured.
type DurationType string

const (
	DurationTypePermanent DurationType = "permanent"
	DurationTypeRounds    DurationType = "rounds"
	DurationTypeMinutes   DurationType = "minutes"
	DurationTypeUntilRest DurationType = "until_rest"
)

// ConditionDuration is a measured duration. Value is ignored for the
// permanent and until-rest types.
type ConditionDuration struct {
	Type  DurationType `json:"type"`
	Value int          `json:"value,omitempty"`
}

// Permanent builds an unexpiring duration.
func Permanent() ConditionDuration {
	return ConditionDuration{Type: DurationTypePermanent}
}

// Rounds builds a combat-round duration.
func Rounds(n int) ConditionDuration {
	return ConditionDuration{Type: DurationTypeRounds, Value: n}
}

// Minutes builds a game-time duration.
func Minutes(n int) ConditionDuration {
	return ConditionDuration{Type: DurationTypeMinutes, Value: n}
}

// UntilRest builds a duration cleared by resting.
func UntilRest() ConditionDuration {
	return ConditionDuration{Type: DurationTypeUntilRest}
}

// ActiveCondition is a condition instance on a character or monster. The
// definition it references supplies the effects; the instance carries only
// the remaining duration and a magnitude multiplier.
type ActiveCondition struct {
	ConditionID ConditionID       `json:"condition_id"`
	Duration    ConditionDuration `json:"duration"`
	Magnitude   float32           `json:"magnitude"`
}

// NewActiveCondition creates an instance with magnitude 1.
func NewActiveCondition(id ConditionID, duration ConditionDuration) ActiveCondition {
	return ActiveCondition{ConditionID: id, Duration: duration, Magnitude: 1}
}

// TickRound decrements a round-based duration and returns true when the
// condition has expired and should be dropped.
func (c *ActiveCondition) TickRound() bool {
	if c.Duration.Type != DurationTypeRounds {
		return false
	}
	c.Duration.Value--
	return c.Duration.Value <= 0
}

// TickMinute decrements a minute-based duration and returns true when the
// condition has expired and should be dropped.
func (c *ActiveCondition) TickMinute() bool {
	if c.Duration.Type != DurationTypeMinutes {
		return false
	}
	c.Duration.Value--
	return c.Duration.Value <= 0
}

// ExpiresOnRest reports whether resting clears the condition.
func (c *ActiveCondition) ExpiresOnRest() bool {
	return c.Duration.Type == DurationTypeUntilRest
}
