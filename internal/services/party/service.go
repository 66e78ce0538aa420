// Package party manages recruitment and roster movement: meeting
// recruitable characters on the map, hiring and dismissing at inns, and
// swapping party members without ever emptying the party.
package party

//go:generate mockgen -destination=mock/mock_service.go -package=mockparty -source=service.go

import (
	"log"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/domain/character"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// RecruitOutcome says where a character met on the map ended up.
type RecruitOutcome string

const (
	OutcomeAddedToParty RecruitOutcome = "added_to_party"
	OutcomeSentToInn    RecruitOutcome = "sent_to_inn"
)

// Service moves characters between the map, the roster, the inn, and
// the active party.
type Service interface {
	// RecruitFromMap instantiates a character definition the party met
	// in the world. The new character joins the party when there is
	// room, otherwise they wait at the given innkeeper. The character's
	// starting purse merges into the party's. Each definition can only
	// be met once per save.
	RecruitFromMap(roster *character.Roster, party *character.Party, encountered *character.EncounteredSet, defID shared.CharacterID, innkeeper shared.NpcID) (RecruitOutcome, *character.Character, error)

	// RecruitAtInn moves a roster character staying at an inn into the
	// party.
	RecruitAtInn(roster *character.Roster, party *character.Party, id shared.CharacterID) error

	// DismissToInn moves a party member to the given innkeeper. The
	// party always keeps at least one member.
	DismissToInn(roster *character.Roster, party *character.Party, id shared.CharacterID, innkeeper shared.NpcID) (*character.Character, error)

	// SwapPartyMember atomically exchanges a party member for a roster
	// character, so the party never shrinks during the swap. The outgoing
	// member takes over the incoming character's old lodging.
	SwapPartyMember(roster *character.Roster, party *character.Party, partyID, rosterID shared.CharacterID) error
}

type service struct {
	db *campaign.Database
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Database *campaign.Database
}

// NewService creates a new party service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Database == nil {
		panic("database is required")
	}
	return &service{db: cfg.Database}
}

func (s *service) RecruitFromMap(roster *character.Roster, party *character.Party, encountered *character.EncounteredSet, defID shared.CharacterID, innkeeper shared.NpcID) (RecruitOutcome, *character.Character, error) {
	if encountered.Has(defID) {
		return "", nil, errors.AlreadyExistsf("character %q has already been met", defID)
	}

	recruit, err := s.instantiate(defID)
	if err != nil {
		return "", nil, err
	}

	outcome := OutcomeSentToInn
	location := character.AtInn(innkeeper)
	if !party.IsFull() {
		outcome = OutcomeAddedToParty
		location = character.InParty()
	}

	if err := roster.Add(recruit, location); err != nil {
		return "", nil, err
	}
	if outcome == OutcomeAddedToParty {
		if err := party.AddMember(recruit); err != nil {
			return "", nil, err
		}
	}

	// The character's savings travel with the party either way.
	def, err := s.db.Character(defID)
	if err != nil {
		return "", nil, err
	}
	party.Gold += def.StartingGold
	party.Gems += def.StartingGems
	party.Food += uint32(def.StartingFood)

	encountered.Mark(defID)
	log.Printf("recruited %s (%s)", recruit.Name, outcome)
	return outcome, recruit, nil
}

func (s *service) instantiate(defID shared.CharacterID) (*character.Character, error) {
	return Instantiate(s.db, defID, 1)
}

// Instantiate builds a runtime character from its definition at the
// given level and charges up any magical starting items.
func Instantiate(db *campaign.Database, defID shared.CharacterID, level uint8) (*character.Character, error) {
	def, err := db.Character(defID)
	if err != nil {
		return nil, err
	}
	race, err := db.Race(def.RaceID)
	if err != nil {
		return nil, err
	}
	class, err := db.Class(def.ClassID)
	if err != nil {
		return nil, err
	}

	recruit, err := character.FromDefinition(def, race, class, level)
	if err != nil {
		return nil, err
	}

	for i := range recruit.Inventory.Items {
		slot := &recruit.Inventory.Items[i]
		item, err := db.Item(slot.ItemID)
		if err != nil {
			return nil, errors.Wrapf(err, "starting item for %q", def.ID)
		}
		slot.Charges = item.MaxCharges
	}
	return recruit, nil
}

func (s *service) RecruitAtInn(roster *character.Roster, party *character.Party, id shared.CharacterID) error {
	if party.IsFull() {
		return errors.InvalidContextf("party is full")
	}
	entry, ok := roster.Find(id)
	if !ok {
		return errors.NotFoundf("character %q not in roster", id)
	}
	if entry.Location.Kind == character.LocationInParty {
		return errors.AlreadyExistsf("character %q is already in the party", id)
	}

	if err := party.AddMember(entry.Character); err != nil {
		return err
	}
	return roster.SetLocation(id, character.InParty())
}

func (s *service) DismissToInn(roster *character.Roster, party *character.Party, id shared.CharacterID, innkeeper shared.NpcID) (*character.Character, error) {
	if len(party.Members) <= 1 {
		return nil, errors.Restricted("the party must keep at least one member")
	}
	_, index, ok := party.MemberByID(id)
	if !ok {
		return nil, errors.NotFoundf("character %q not in party", id)
	}

	dismissed, err := party.RemoveMember(index)
	if err != nil {
		return nil, err
	}
	if err := roster.SetLocation(id, character.AtInn(innkeeper)); err != nil {
		return nil, err
	}
	return dismissed, nil
}

func (s *service) SwapPartyMember(roster *character.Roster, party *character.Party, partyID, rosterID shared.CharacterID) error {
	_, index, ok := party.MemberByID(partyID)
	if !ok {
		return errors.NotFoundf("character %q not in party", partyID)
	}
	entry, ok := roster.Find(rosterID)
	if !ok {
		return errors.NotFoundf("character %q not in roster", rosterID)
	}
	if entry.Location.Kind == character.LocationInParty {
		return errors.AlreadyExistsf("character %q is already in the party", rosterID)
	}

	// The outgoing member takes the incoming character's lodging, so the
	// swap leaves every roster slot accounted for.
	vacated := entry.Location

	party.Members[index] = entry.Character
	if err := roster.SetLocation(rosterID, character.InParty()); err != nil {
		return err
	}
	return roster.SetLocation(partyID, vacated)
}
