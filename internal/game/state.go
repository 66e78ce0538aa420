// Package game holds the top-level runtime state of a playthrough: the
// party and roster, the world position, the clock, active spell
// effects, the quest log, and the current mode. Everything in here
// serializes into a save file.
package game

import (
	"log"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/domain/character"
	"github.com/wyrmgate/engine/internal/domain/combat"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
	"github.com/wyrmgate/engine/internal/services/party"
	"github.com/wyrmgate/engine/internal/services/quests"
)

// Mode is what the player is currently doing.
type Mode string

const (
	ModeExploration Mode = "exploration"
	ModeCombat      Mode = "combat"
	ModeDialogue    Mode = "dialogue"
	ModeMenu        Mode = "menu"
	ModeInn         Mode = "inn"
)

// Hours of sleep in a full rest.
const restHours = 8

// World is where the party stands.
type World struct {
	MapID    shared.MapID     `json:"map_id"`
	Position shared.Position  `json:"position"`
	Facing   shared.Direction `json:"facing"`
}

// ActiveSpells tracks party-wide spell effects, separate from
// per-character conditions. Each field is the remaining duration in
// minutes; zero means inactive.
type ActiveSpells struct {
	FearProtection        uint8 `json:"fear_protection,omitempty"`
	ColdProtection        uint8 `json:"cold_protection,omitempty"`
	FireProtection        uint8 `json:"fire_protection,omitempty"`
	PoisonProtection      uint8 `json:"poison_protection,omitempty"`
	AcidProtection        uint8 `json:"acid_protection,omitempty"`
	ElectricityProtection uint8 `json:"electricity_protection,omitempty"`
	MagicProtection       uint8 `json:"magic_protection,omitempty"`
	PsychicProtection     uint8 `json:"psychic_protection,omitempty"`
	Light                 uint8 `json:"light,omitempty"`
	LeatherSkin           uint8 `json:"leather_skin,omitempty"`
	Levitate              uint8 `json:"levitate,omitempty"`
	WalkOnWater           uint8 `json:"walk_on_water,omitempty"`
	GuardDog              uint8 `json:"guard_dog,omitempty"`
	Bless                 uint8 `json:"bless,omitempty"`
	Invisibility          uint8 `json:"invisibility,omitempty"`
	Shield                uint8 `json:"shield,omitempty"`
	PowerShield           uint8 `json:"power_shield,omitempty"`
	Cursed                uint8 `json:"cursed,omitempty"`
}

// Tick decrements every active duration by one minute.
func (a *ActiveSpells) Tick() {
	for _, d := range []*uint8{
		&a.FearProtection, &a.ColdProtection, &a.FireProtection,
		&a.PoisonProtection, &a.AcidProtection, &a.ElectricityProtection,
		&a.MagicProtection, &a.PsychicProtection, &a.Light,
		&a.LeatherSkin, &a.Levitate, &a.WalkOnWater, &a.GuardDog,
		&a.Bless, &a.Invisibility, &a.Shield, &a.PowerShield, &a.Cursed,
	} {
		if *d > 0 {
			*d--
		}
	}
}

// State is the whole mutable game. Content lookups stay outside; cross
// references into content use IDs.
type State struct {
	Campaign *campaign.Reference `json:"campaign,omitempty"`

	World        World                     `json:"world"`
	Roster       *character.Roster         `json:"roster"`
	Party        *character.Party          `json:"party"`
	ActiveSpells ActiveSpells              `json:"active_spells"`
	Time         shared.GameTime           `json:"time"`
	Quests       *quests.Log               `json:"quests"`
	Encountered  *character.EncounteredSet `json:"encountered"`

	Mode Mode `json:"mode"`
	// Combat is set while Mode is ModeCombat.
	Combat *combat.State `json:"combat,omitempty"`
	// DialogueNpc is set while Mode is ModeDialogue.
	DialogueNpc *shared.NpcID `json:"dialogue_npc,omitempty"`
	// InnKeeper is set while Mode is ModeInn.
	InnKeeper *shared.NpcID `json:"innkeeper,omitempty"`
}

// NewState builds an empty game with no campaign attached. Day 1, six
// in the morning.
func NewState() *State {
	return &State{
		Roster:      character.NewRoster(0),
		Party:       character.NewParty(0),
		Time:        shared.GameTime{Day: 1, Hour: 6},
		Quests:      quests.NewLog(),
		Encountered: character.NewEncounteredSet(),
		Mode:        ModeExploration,
	}
}

// NewGame starts a fresh playthrough of a campaign. The party begins at
// the campaign's starting position with its starting purse, and the
// premade roster is instantiated: characters flagged to start in the
// party join it, the rest wait at the starting innkeeper.
func NewGame(c *campaign.Campaign, db *campaign.Database) (*State, error) {
	ref := c.Reference()
	s := NewState()
	s.Campaign = &ref
	s.World = World{
		MapID:    c.Config.StartingMap,
		Position: c.Config.StartingPosition,
		Facing:   c.Config.StartingDirection,
	}
	s.Roster = character.NewRoster(c.Config.MaxRosterSize)
	s.Party = character.NewParty(c.Config.MaxPartySize)
	s.Party.Gold = c.Config.StartingGold
	s.Party.Food = c.Config.StartingFood

	var innkeeper shared.NpcID
	if c.Config.StartingInnkeeper != nil {
		innkeeper = *c.Config.StartingInnkeeper
	}

	inParty := 0
	for _, def := range db.PremadeCharacters() {
		member, err := party.Instantiate(db, def.ID, c.Config.StartingLevel)
		if err != nil {
			return nil, errors.Wrapf(err, "premade character %q", def.ID)
		}

		location := character.AtInn(innkeeper)
		if def.StartsInParty {
			inParty++
			if inParty > c.Config.MaxPartySize {
				return nil, errors.Validationf(
					"%d premade characters start in the party, max party size is %d",
					inParty, c.Config.MaxPartySize)
			}
			if err := s.Party.AddMember(member); err != nil {
				return nil, err
			}
			location = character.InParty()
		}
		if err := s.Roster.Add(member, location); err != nil {
			return nil, err
		}
	}

	log.Printf("new game: campaign %s v%s, %d premade characters, %d in party",
		c.ID, c.Version, len(s.Roster.Entries), inParty)
	return s, nil
}

// InCombat reports whether an encounter is running.
func (s *State) InCombat() bool {
	return s.Mode == ModeCombat && s.Combat != nil
}

// EnterCombat switches into the given encounter. Combatants reference
// the party's characters directly, so damage taken in combat sticks.
func (s *State) EnterCombat(encounter *combat.State) error {
	if s.InCombat() {
		return errors.InvalidContextf("already in combat")
	}
	s.Mode = ModeCombat
	s.Combat = encounter
	return nil
}

// ExitCombat drops the encounter and returns to exploration.
func (s *State) ExitCombat() {
	s.Mode = ModeExploration
	s.Combat = nil
}

// EnterDialogue starts talking to an NPC.
func (s *State) EnterDialogue(npc shared.NpcID) {
	s.Mode = ModeDialogue
	s.DialogueNpc = &npc
}

// EnterInn opens party management at an innkeeper.
func (s *State) EnterInn(innkeeper shared.NpcID) {
	s.Mode = ModeInn
	s.InnKeeper = &innkeeper
}

// EnterMenu opens the menu.
func (s *State) EnterMenu() {
	s.Mode = ModeMenu
}

// ReturnToExploration leaves whatever mode the game is in. An active
// encounter is abandoned.
func (s *State) ReturnToExploration() {
	s.Mode = ModeExploration
	s.Combat = nil
	s.DialogueNpc = nil
	s.InnKeeper = nil
}

// AdvanceTime moves the clock forward, ticking minute-based condition
// durations on every party member and the active spell effects once per
// minute.
func (s *State) AdvanceTime(minutes uint32) {
	s.Time.AdvanceMinutes(minutes)
	for i := uint32(0); i < minutes; i++ {
		s.ActiveSpells.Tick()
		for _, member := range s.Party.Members {
			member.TickConditionsMinute()
		}
	}
}

// Rest puts the party to sleep for eight hours. Each member eats one
// food unit, recovers hit and spell points and sheds until-rest
// conditions. Resting mid-combat is refused, as is resting with an
// empty larder.
func (s *State) Rest() error {
	if s.InCombat() {
		return errors.InvalidContextf("cannot rest during combat")
	}
	if s.Party.Food == 0 {
		return errors.Insufficient("the party is too hungry to rest",
			len(s.Party.Members), 0)
	}

	// Short rations still allow sleep; the larder just runs dry.
	need := uint32(len(s.Party.Members))
	if err := s.Party.SpendFood(need); err != nil {
		s.Party.Food = 0
	}

	for _, member := range s.Party.Members {
		member.Rest()
	}
	s.AdvanceTime(restHours * 60)
	return nil
}
