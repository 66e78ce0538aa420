package shared

// GameTime is the in-world clock. Hours run 0..24, minutes 0..60.
type GameTime struct {
	Day    uint32 `json:"day"`
	Hour   uint8  `json:"hour"`
	Minute uint8  `json:"minute"`
}

const (
	minutesPerHour = 60
	hoursPerDay    = 24
)

// AdvanceMinutes moves the clock forward by whole minutes, carrying into
// hours and days.
func (t *GameTime) AdvanceMinutes(minutes uint32) {
	total := uint32(t.Minute) + minutes
	t.Minute = uint8(total % minutesPerHour)

	hours := uint32(t.Hour) + total/minutesPerHour
	t.Hour = uint8(hours % hoursPerDay)
	t.Day += hours / hoursPerDay
}

// AdvanceHours moves the clock forward by whole hours.
func (t *GameTime) AdvanceHours(hours uint32) {
	t.AdvanceMinutes(hours * minutesPerHour)
}

// TotalMinutes returns the clock as minutes since day zero. Useful for
// ordering two times.
func (t GameTime) TotalMinutes() uint64 {
	return uint64(t.Day)*hoursPerDay*minutesPerHour + uint64(t.Hour)*minutesPerHour + uint64(t.Minute)
}
