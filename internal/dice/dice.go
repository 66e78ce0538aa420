package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wyrmgate/engine/internal/errors"
)

// DiceRoll is an authored dice expression: count dice of the given sides
// plus a flat bonus.
type DiceRoll struct {
	Count int `json:"count"`
	Sides int `json:"sides"`
	Bonus int `json:"bonus"`
}

// NewDiceRoll validates and builds a dice expression.
func NewDiceRoll(count, sides, bonus int) (DiceRoll, error) {
	if count < 1 {
		return DiceRoll{}, errors.InvalidArgumentf("invalid dice count %d", count)
	}
	if sides < 1 {
		return DiceRoll{}, errors.InvalidArgumentf("invalid dice size %d", sides)
	}
	return DiceRoll{Count: count, Sides: sides, Bonus: bonus}, nil
}

// MustDiceRoll builds a dice expression and panics on invalid input.
// For literals in code and tests only.
func MustDiceRoll(count, sides, bonus int) DiceRoll {
	d, err := NewDiceRoll(count, sides, bonus)
	if err != nil {
		panic(err)
	}
	return d
}

// Roll samples the expression with the given roller.
func (d DiceRoll) Roll(r Roller) (int, error) {
	total, _, err := r.Roll(d.Count, d.Sides, d.Bonus)
	return total, err
}

// Average returns the deterministic expected value, truncated.
func (d DiceRoll) Average() int {
	return d.Count*(d.Sides+1)/2 + d.Bonus
}

// Max returns the largest possible result.
func (d DiceRoll) Max() int {
	return d.Count*d.Sides + d.Bonus
}

// Min returns the smallest possible result.
func (d DiceRoll) Min() int {
	return d.Count + d.Bonus
}

// String renders the expression in "NdS+B" form.
func (d DiceRoll) String() string {
	if d.Bonus == 0 {
		return fmt.Sprintf("%dd%d", d.Count, d.Sides)
	}
	if d.Bonus < 0 {
		return fmt.Sprintf("%dd%d%d", d.Count, d.Sides, d.Bonus)
	}
	return fmt.Sprintf("%dd%d+%d", d.Count, d.Sides, d.Bonus)
}

// Parse reads a dice expression like "3d6", "1d8+2" or "2d4-1".
func Parse(diceString string) (DiceRoll, error) {
	s := strings.TrimSpace(diceString)
	if s == "" {
		return DiceRoll{}, errors.InvalidArgumentf("invalid dice string %q", diceString)
	}

	bonus := 0
	dicePart := s
	if idx := strings.IndexAny(s[1:], "+-"); idx >= 0 {
		// offset by one so a leading sign never splits
		split := idx + 1
		b, err := strconv.Atoi(s[split:])
		if err != nil {
			return DiceRoll{}, errors.InvalidArgumentf("invalid dice string %q", diceString)
		}
		bonus = b
		dicePart = s[:split]
	}

	parts := strings.Split(dicePart, "d")
	if len(parts) != 2 {
		return DiceRoll{}, errors.InvalidArgumentf("invalid dice string %q", diceString)
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return DiceRoll{}, errors.InvalidArgumentf("invalid dice string %q", diceString)
	}
	sides, err := strconv.Atoi(parts[1])
	if err != nil {
		return DiceRoll{}, errors.InvalidArgumentf("invalid dice string %q", diceString)
	}

	return NewDiceRoll(count, sides, bonus)
}
