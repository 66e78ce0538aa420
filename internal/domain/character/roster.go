package character

import (
	"encoding/json"
	"fmt"

	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// DefaultMaxRosterSize bounds how many characters a save can track.
const DefaultMaxRosterSize = 20

// LocationKind discriminates CharacterLocation.
type LocationKind string

const (
	LocationInParty LocationKind = "in_party"
	LocationAtInn   LocationKind = "at_inn"
)

// CharacterLocation says where a roster character currently is.
type CharacterLocation struct {
	Kind LocationKind
	// at_inn
	Innkeeper shared.NpcID
}

// InParty is the location of an active party member.
func InParty() CharacterLocation {
	return CharacterLocation{Kind: LocationInParty}
}

// AtInn places a character with the given innkeeper.
func AtInn(innkeeper shared.NpcID) CharacterLocation {
	return CharacterLocation{Kind: LocationAtInn, Innkeeper: innkeeper}
}

type characterLocationStaged struct {
	Type      LocationKind `json:"type"`
	Innkeeper shared.NpcID `json:"innkeeper_id,omitempty"`
}

func (l CharacterLocation) MarshalJSON() ([]byte, error) {
	staged := characterLocationStaged{Type: l.Kind}
	if l.Kind == LocationAtInn {
		staged.Innkeeper = l.Innkeeper
	}
	return json.Marshal(staged)
}

func (l *CharacterLocation) UnmarshalJSON(data []byte) error {
	var staged characterLocationStaged
	if err := json.Unmarshal(data, &staged); err != nil {
		return err
	}
	switch staged.Type {
	case LocationInParty, LocationAtInn:
	default:
		return fmt.Errorf("unknown character location %q", staged.Type)
	}
	*l = CharacterLocation{Kind: staged.Type, Innkeeper: staged.Innkeeper}
	return nil
}

// RosterEntry pairs a character with its location.
type RosterEntry struct {
	Character *Character        `json:"character"`
	Location  CharacterLocation `json:"location"`
}

// Roster tracks every recruited character, in and out of the party.
// Entries keep recruitment order.
type Roster struct {
	Entries []RosterEntry `json:"entries"`

	// MaxSize comes from campaign config. Zero means the default.
	MaxSize int `json:"max_size,omitempty"`
}

// NewRoster creates an empty roster with the given size limit.
func NewRoster(maxSize int) *Roster {
	if maxSize <= 0 {
		maxSize = DefaultMaxRosterSize
	}
	return &Roster{MaxSize: maxSize}
}

func (r *Roster) maxSize() int {
	if r.MaxSize <= 0 {
		return DefaultMaxRosterSize
	}
	return r.MaxSize
}

// Add registers a character at the given location.
func (r *Roster) Add(c *Character, loc CharacterLocation) error {
	if len(r.Entries) >= r.maxSize() {
		return errors.InvalidContextf("roster is full (%d characters)", r.maxSize())
	}
	if _, ok := r.Find(c.ID); ok {
		return errors.AlreadyExistsf("character %q is already in the roster", c.ID)
	}
	r.Entries = append(r.Entries, RosterEntry{Character: c, Location: loc})
	return nil
}

// Remove drops a character from the roster entirely.
func (r *Roster) Remove(id shared.CharacterID) (*Character, error) {
	for i := range r.Entries {
		if r.Entries[i].Character.ID == id {
			c := r.Entries[i].Character
			r.Entries = append(r.Entries[:i], r.Entries[i+1:]...)
			return c, nil
		}
	}
	return nil, errors.NotFoundf("character %q not in roster", id)
}

// Find returns the entry for a character id.
func (r *Roster) Find(id shared.CharacterID) (*RosterEntry, bool) {
	for i := range r.Entries {
		if r.Entries[i].Character.ID == id {
			return &r.Entries[i], true
		}
	}
	return nil, false
}

// SetLocation moves a roster character to a new location.
func (r *Roster) SetLocation(id shared.CharacterID, loc CharacterLocation) error {
	entry, ok := r.Find(id)
	if !ok {
		return errors.NotFoundf("character %q not in roster", id)
	}
	entry.Location = loc
	return nil
}

// AtInn lists characters stored with the given innkeeper, in roster
// order.
func (r *Roster) AtInn(innkeeper shared.NpcID) []*Character {
	var out []*Character
	for i := range r.Entries {
		e := &r.Entries[i]
		if e.Location.Kind == LocationAtInn && e.Location.Innkeeper == innkeeper {
			out = append(out, e.Character)
		}
	}
	return out
}

// InPartyCount is the number of roster characters marked in the party.
func (r *Roster) InPartyCount() int {
	n := 0
	for i := range r.Entries {
		if r.Entries[i].Location.Kind == LocationInParty {
			n++
		}
	}
	return n
}
