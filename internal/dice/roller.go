package dice

import (
	"math/rand"

	"github.com/wyrmgate/engine/internal/errors"
)

// Roller is the source of all randomness in the engine. It is passed in
// explicitly so determinism is a property of the caller's seed and call
// ordering; the engine never samples from an ambient source.
type Roller interface {
	// Roll rolls count dice with the given number of sides and adds bonus.
	Roll(count, sides, bonus int) (total int, rolls []int, err error)
}

// RandRoller implements Roller on top of a seeded math/rand source.
type RandRoller struct {
	rng *rand.Rand
}

// NewRoller creates a roller from a fixed seed.
func NewRoller(seed int64) *RandRoller {
	return &RandRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll implements Roller.Roll
func (r *RandRoller) Roll(count, sides, bonus int) (int, []int, error) {
	if count < 1 {
		return 0, nil, errors.InvalidArgument("invalid dice count")
	}
	if sides < 1 {
		return 0, nil, errors.InvalidArgument("invalid dice size")
	}

	rolls := make([]int, count)
	total := bonus
	for i := 0; i < count; i++ {
		roll := r.rng.Intn(sides) + 1
		rolls[i] = roll
		total += roll
	}

	return total, rolls, nil
}

// RollD20 is shorthand for a single twenty-sided check die.
func RollD20(r Roller) (int, error) {
	total, _, err := r.Roll(1, 20, 0)
	return total, err
}

// RollRange rolls a uniform integer in [0, n). Used for percent checks.
func RollRange(r Roller, n int) (int, error) {
	if n < 1 {
		return 0, errors.InvalidArgument("invalid roll range")
	}
	total, _, err := r.Roll(1, n, 0)
	if err != nil {
		return 0, err
	}
	return total - 1, nil
}
