package character

import "github.com/wyrmgate/engine/internal/domain/shared"

// EncounteredSet remembers which map characters the party has already
// met, so a recruitable NPC appears only once per save. Insertion order
// is kept for deterministic serialization.
type EncounteredSet struct {
	IDs []shared.CharacterID `json:"ids,omitempty"`
}

// NewEncounteredSet creates an empty set.
func NewEncounteredSet() *EncounteredSet {
	return &EncounteredSet{}
}

// Has reports whether the character was met before.
func (s *EncounteredSet) Has(id shared.CharacterID) bool {
	for _, have := range s.IDs {
		if have == id {
			return true
		}
	}
	return false
}

// Mark records a meeting. Marking twice is a no-op.
func (s *EncounteredSet) Mark(id shared.CharacterID) {
	if !s.Has(id) {
		s.IDs = append(s.IDs, id)
	}
}

// Len is the number of characters met.
func (s *EncounteredSet) Len() int {
	return len(s.IDs)
}
