package combat

import (
	"encoding/json"
	"fmt"

	"github.com/wyrmgate/engine/internal/domain/character"
	"github.com/wyrmgate/engine/internal/domain/monster"
)

// CombatantKind discriminates CombatantID.
type CombatantKind string

const (
	KindPlayer  CombatantKind = "player"
	KindMonster CombatantKind = "monster"
)

// CombatantID addresses one participant in an encounter. Index points
// into the participant list; the kind must agree with the participant
// stored there.
type CombatantID struct {
	Kind  CombatantKind
	Index int
}

// PlayerID addresses the party member at the given participant index.
func PlayerID(index int) CombatantID {
	return CombatantID{Kind: KindPlayer, Index: index}
}

// MonsterID addresses the monster at the given participant index.
func MonsterID(index int) CombatantID {
	return CombatantID{Kind: KindMonster, Index: index}
}

// IsPlayer reports whether the id addresses a party member.
func (id CombatantID) IsPlayer() bool {
	return id.Kind == KindPlayer
}

func (id CombatantID) String() string {
	return fmt.Sprintf("%s(%d)", id.Kind, id.Index)
}

type combatantIDStaged struct {
	Type  CombatantKind `json:"type"`
	Index int           `json:"index"`
}

func (id CombatantID) MarshalJSON() ([]byte, error) {
	return json.Marshal(combatantIDStaged{Type: id.Kind, Index: id.Index})
}

func (id *CombatantID) UnmarshalJSON(data []byte) error {
	var staged combatantIDStaged
	if err := json.Unmarshal(data, &staged); err != nil {
		return err
	}
	switch staged.Type {
	case KindPlayer, KindMonster:
	default:
		return fmt.Errorf("unknown combatant kind %q", staged.Type)
	}
	*id = CombatantID{Kind: staged.Type, Index: staged.Index}
	return nil
}

// Combatant is one participant. Exactly one of Player or Monster is set.
type Combatant struct {
	Player  *character.Character `json:"player,omitempty"`
	Monster *monster.Monster     `json:"monster,omitempty"`
}

// Kind returns which side the combatant fights on.
func (c *Combatant) Kind() CombatantKind {
	if c.Player != nil {
		return KindPlayer
	}
	return KindMonster
}

// Name returns the combatant's display name.
func (c *Combatant) Name() string {
	if c.Player != nil {
		return c.Player.Name
	}
	return c.Monster.Name
}

// Speed returns the current speed used for initiative.
func (c *Combatant) Speed() uint8 {
	if c.Player != nil {
		return c.Player.Stats.Speed.Current
	}
	return c.Monster.Stats.Speed.Current
}

// IsAlive reports whether the combatant still counts toward its side.
func (c *Combatant) IsAlive() bool {
	if c.Player != nil {
		return c.Player.IsAlive()
	}
	return c.Monster.IsAlive()
}

// CanAct reports whether the combatant may take its turn.
func (c *Combatant) CanAct() bool {
	if c.Player != nil {
		return c.Player.CanAct()
	}
	return c.Monster.CanAct()
}

// Accuracy returns the current accuracy stat for hit rolls.
func (c *Combatant) Accuracy() uint8 {
	if c.Player != nil {
		return c.Player.Stats.Accuracy.Current
	}
	return c.Monster.Stats.Accuracy.Current
}

// Might returns the current might stat for melee damage bonuses.
func (c *Combatant) Might() uint8 {
	if c.Player != nil {
		return c.Player.Stats.Might.Current
	}
	return c.Monster.Stats.Might.Current
}

// ArmorClass returns the current armor class.
func (c *Combatant) ArmorClass() uint8 {
	if c.Player != nil {
		return c.Player.AC.Current
	}
	return c.Monster.AC.Current
}
