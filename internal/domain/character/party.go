package character

import (
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// DefaultMaxPartySize is the classic six-member limit. Campaigns may
// configure a smaller party.
const DefaultMaxPartySize = 6

// Party is the active adventuring group. Gold, gems and food are
// pooled at the party level.
type Party struct {
	Members []*Character `json:"members"`
	Gold    uint32       `json:"gold"`
	Gems    uint32       `json:"gems"`
	Food    uint32       `json:"food"`

	// MaxSize comes from campaign config. Zero means the default.
	MaxSize int `json:"max_size,omitempty"`
}

// NewParty creates an empty party with the given size limit.
func NewParty(maxSize int) *Party {
	if maxSize <= 0 {
		maxSize = DefaultMaxPartySize
	}
	return &Party{MaxSize: maxSize}
}

func (p *Party) maxSize() int {
	if p.MaxSize <= 0 {
		return DefaultMaxPartySize
	}
	return p.MaxSize
}

// IsFull reports whether no member slots remain.
func (p *Party) IsFull() bool {
	return len(p.Members) >= p.maxSize()
}

// IsEmpty reports whether the party has no members.
func (p *Party) IsEmpty() bool {
	return len(p.Members) == 0
}

// AddMember appends a character to the party.
func (p *Party) AddMember(c *Character) error {
	if p.IsFull() {
		return errors.InvalidContextf("party is full (%d members)", p.maxSize())
	}
	for _, member := range p.Members {
		if member.ID == c.ID {
			return errors.AlreadyExistsf("character %q is already in the party", c.ID)
		}
	}
	p.Members = append(p.Members, c)
	return nil
}

// RemoveMember takes the character at index out of the party.
func (p *Party) RemoveMember(index int) (*Character, error) {
	if index < 0 || index >= len(p.Members) {
		return nil, errors.InvalidArgumentf("party index %d out of range", index)
	}
	c := p.Members[index]
	p.Members = append(p.Members[:index], p.Members[index+1:]...)
	return c, nil
}

// SwapMembers exchanges two party positions. Marching order matters in
// combat.
func (p *Party) SwapMembers(i, j int) error {
	if i < 0 || i >= len(p.Members) || j < 0 || j >= len(p.Members) {
		return errors.InvalidArgumentf("party indices %d, %d out of range", i, j)
	}
	p.Members[i], p.Members[j] = p.Members[j], p.Members[i]
	return nil
}

// Member returns the character at the given position.
func (p *Party) Member(index int) (*Character, error) {
	if index < 0 || index >= len(p.Members) {
		return nil, errors.InvalidArgumentf("party index %d out of range", index)
	}
	return p.Members[index], nil
}

// MemberByID finds a member by character id.
func (p *Party) MemberByID(id shared.CharacterID) (*Character, int, bool) {
	for i, member := range p.Members {
		if member.ID == id {
			return member, i, true
		}
	}
	return nil, -1, false
}

// LivingMembers returns members that are still alive, in party order.
func (p *Party) LivingMembers() []*Character {
	var out []*Character
	for _, member := range p.Members {
		if member.IsAlive() {
			out = append(out, member)
		}
	}
	return out
}

// IsDefeated reports whether no member can continue: everyone is dead
// or unconscious.
func (p *Party) IsDefeated() bool {
	for _, member := range p.Members {
		if member.IsAlive() && !member.Conditions.Has(shared.FlagUnconscious) {
			return false
		}
	}
	return true
}

// HighestLevel is the strongest member's level, 0 for an empty party.
func (p *Party) HighestLevel() uint8 {
	var max uint8
	for _, member := range p.Members {
		if member.Level > max {
			max = member.Level
		}
	}
	return max
}

// SpendGold deducts gold, failing if the pool is short.
func (p *Party) SpendGold(amount uint32) error {
	if p.Gold < amount {
		return errors.Insufficient("not enough gold", int(amount), int(p.Gold))
	}
	p.Gold -= amount
	return nil
}

// SpendGems deducts gems, failing if the pool is short.
func (p *Party) SpendGems(amount uint32) error {
	if p.Gems < amount {
		return errors.Insufficient("not enough gems", int(amount), int(p.Gems))
	}
	p.Gems -= amount
	return nil
}

// SpendFood deducts food units, failing if the supply is short.
func (p *Party) SpendFood(amount uint32) error {
	if p.Food < amount {
		return errors.Insufficient("not enough food", int(amount), int(p.Food))
	}
	p.Food -= amount
	return nil
}
