// Package combat runs the turn-based encounter loop: initiative,
// round bookkeeping, and condition ticking over a mixed list of party
// members and monsters.
package combat

import (
	"math"
	"sort"

	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/character"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/monster"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// Handicap skews initiative toward one side.
type Handicap string

const (
	HandicapEven             Handicap = "even"
	HandicapPartyAdvantage   Handicap = "party_advantage"
	HandicapMonsterAdvantage Handicap = "monster_advantage"
)

// Status is the outcome state of an encounter.
type Status string

const (
	StatusInProgress  Status = "in_progress"
	StatusVictory     Status = "victory"
	StatusDefeat      Status = "defeat"
	StatusFled        Status = "fled"
	StatusSurrendered Status = "surrendered"
)

// TurnAction is a choice available on a combatant's turn.
type TurnAction string

const (
	ActionAttack    TurnAction = "attack"
	ActionDefend    TurnAction = "defend"
	ActionFlee      TurnAction = "flee"
	ActionCastSpell TurnAction = "cast_spell"
	ActionUseItem   TurnAction = "use_item"
)

// OverTimeEffect is one damage-or-healing tick applied at a round
// boundary. Positive delta is damage, negative is healing.
type OverTimeEffect struct {
	Target CombatantID `json:"target"`
	Delta  int         `json:"delta"`
}

// State is an active encounter.
type State struct {
	Participants []*Combatant  `json:"participants"`
	TurnOrder    []CombatantID `json:"turn_order"`
	CurrentTurn  int           `json:"current_turn"`
	Round        uint32        `json:"round"`
	Status       Status        `json:"status"`
	Handicap     Handicap      `json:"handicap"`

	CanFlee      bool `json:"can_flee"`
	CanSurrender bool `json:"can_surrender"`
	CanBribe     bool `json:"can_bribe"`

	MonstersAdvance    bool `json:"monsters_advance,omitempty"`
	MonstersRegenerate bool `json:"monsters_regenerate,omitempty"`
}

// NewState creates an empty encounter at round one.
func NewState(handicap Handicap) *State {
	return &State{
		Round:        1,
		Status:       StatusInProgress,
		Handicap:     handicap,
		CanFlee:      true,
		CanSurrender: true,
		CanBribe:     true,
	}
}

// AddPlayer puts a party member into the encounter.
func (s *State) AddPlayer(c *character.Character) {
	s.Participants = append(s.Participants, &Combatant{Player: c})
}

// AddMonster puts a monster into the encounter.
func (s *State) AddMonster(m *monster.Monster) {
	s.Participants = append(s.Participants, &Combatant{Monster: m})
}

// InProgress reports whether the encounter has not yet resolved.
func (s *State) InProgress() bool {
	return s.Status == StatusInProgress
}

// Start computes initiative and resets the turn and round counters.
func (s *State) Start() {
	s.TurnOrder = s.calculateTurnOrder()
	s.CurrentTurn = 0
	s.Round = 1
	s.Status = StatusInProgress
}

// calculateTurnOrder sorts living participants by speed descending.
// With a handicap the favored side acts first regardless of speed; ties
// keep participant order.
func (s *State) calculateTurnOrder() []CombatantID {
	var order []CombatantID
	for i, c := range s.Participants {
		if !c.IsAlive() {
			continue
		}
		if c.Kind() == KindPlayer {
			order = append(order, PlayerID(i))
		} else {
			order = append(order, MonsterID(i))
		}
	}

	speed := func(id CombatantID) uint8 {
		return s.Participants[id.Index].Speed()
	}
	sort.SliceStable(order, func(a, b int) bool {
		idA, idB := order[a], order[b]
		switch s.Handicap {
		case HandicapPartyAdvantage:
			if idA.IsPlayer() != idB.IsPlayer() {
				return idA.IsPlayer()
			}
		case HandicapMonsterAdvantage:
			if idA.IsPlayer() != idB.IsPlayer() {
				return !idA.IsPlayer()
			}
		}
		return speed(idA) > speed(idB)
	})
	return order
}

// Combatant resolves an id, rejecting out-of-range indices and ids
// whose kind disagrees with the participant stored at that index.
func (s *State) Combatant(id CombatantID) (*Combatant, error) {
	if id.Index < 0 || id.Index >= len(s.Participants) {
		return nil, errors.NotFoundf("combatant %s not found", id)
	}
	c := s.Participants[id.Index]
	if c.Kind() != id.Kind {
		return nil, errors.InvalidTargetf("combatant %s is not a %s", id, id.Kind)
	}
	return c, nil
}

// CurrentCombatantID returns whose turn it is.
func (s *State) CurrentCombatantID() (CombatantID, error) {
	if len(s.TurnOrder) == 0 || s.CurrentTurn >= len(s.TurnOrder) {
		return CombatantID{}, errors.InvalidContext("no current turn")
	}
	return s.TurnOrder[s.CurrentTurn], nil
}

// CurrentCombatant returns the participant whose turn it is.
func (s *State) CurrentCombatant() (*Combatant, error) {
	id, err := s.CurrentCombatantID()
	if err != nil {
		return nil, err
	}
	return s.Combatant(id)
}

// AlivePartyCount counts living party members.
func (s *State) AlivePartyCount() int {
	return s.aliveCount(KindPlayer)
}

// AliveMonsterCount counts living monsters.
func (s *State) AliveMonsterCount() int {
	return s.aliveCount(KindMonster)
}

func (s *State) aliveCount(kind CombatantKind) int {
	n := 0
	for _, c := range s.Participants {
		if c.Kind() == kind && c.IsAlive() {
			n++
		}
	}
	return n
}

// CheckCombatEnd resolves the status once a side has no one standing.
// Defeat wins ties so a mutual wipe still ends the run.
func (s *State) CheckCombatEnd() {
	if !s.InProgress() {
		return
	}
	if s.AlivePartyCount() == 0 {
		s.Status = StatusDefeat
	} else if s.AliveMonsterCount() == 0 {
		s.Status = StatusVictory
	}
}

// AdvanceTurn moves to the next slot in the turn order. Wrapping past
// the end starts a new round and returns any over-time effects that
// fired at the boundary.
func (s *State) AdvanceTurn(defs []*content.ConditionDefinition, roller dice.Roller) ([]OverTimeEffect, error) {
	s.CurrentTurn++
	if s.CurrentTurn >= len(s.TurnOrder) {
		s.CurrentTurn = 0
		return s.advanceRound(defs, roller)
	}
	return nil, nil
}

// advanceRound ticks round durations, reconciles status state, resets
// monster turn flags, applies regeneration, then rolls over-time
// effects.
func (s *State) advanceRound(defs []*content.ConditionDefinition, roller dice.Roller) ([]OverTimeEffect, error) {
	s.Round++

	for _, c := range s.Participants {
		if c.Player != nil {
			c.Player.TickConditionsRound()
			reconcileCharacterConditions(c.Player, defs)
			continue
		}
		m := c.Monster
		m.TickConditionsRound()
		m.ResetTurn()
		if s.MonstersRegenerate && m.CanRegenerate {
			m.Regenerate(1)
		}
		m.RefreshCondition(defs)
	}

	return s.applyOverTimeEffects(defs, roller)
}

// applyOverTimeEffects rolls every active damage-over-time and
// heal-over-time effect and applies the net delta per participant.
func (s *State) applyOverTimeEffects(defs []*content.ConditionDefinition, roller dice.Roller) ([]OverTimeEffect, error) {
	var effects []OverTimeEffect

	for i, c := range s.Participants {
		var active []shared.ActiveCondition
		var id CombatantID
		if c.Player != nil {
			active = c.Player.ActiveConditions
			id = PlayerID(i)
		} else {
			active = c.Monster.ActiveConditions
			id = MonsterID(i)
		}

		delta, err := rollOverTimeDelta(active, defs, roller)
		if err != nil {
			return nil, err
		}
		if delta == 0 {
			continue
		}

		if c.Player != nil {
			if delta > 0 {
				c.Player.TakeDamage(delta)
			} else {
				c.Player.Heal(-delta)
			}
		} else {
			if delta > 0 {
				c.Monster.TakeDamage(uint16(delta))
			} else {
				c.Monster.HP.Modify(-delta)
			}
		}
		effects = append(effects, OverTimeEffect{Target: id, Delta: delta})
	}

	return effects, nil
}

// rollOverTimeDelta sums a participant's over-time ticks. Each roll is
// scaled by the condition instance's magnitude.
func rollOverTimeDelta(active []shared.ActiveCondition, defs []*content.ConditionDefinition, roller dice.Roller) (int, error) {
	total := 0
	for _, a := range active {
		def := conditionDef(defs, a.ConditionID)
		if def == nil {
			continue
		}
		for _, effect := range def.Effects {
			switch effect.Kind {
			case content.EffectDamageOverTime:
				rolled, err := effect.Damage.Roll(roller)
				if err != nil {
					return 0, err
				}
				total += int(math.Round(float64(rolled) * float64(a.Magnitude)))
			case content.EffectHealOverTime:
				rolled, err := effect.Amount.Roll(roller)
				if err != nil {
					return 0, err
				}
				total -= int(math.Round(float64(rolled) * float64(a.Magnitude)))
			}
		}
	}
	return total, nil
}

// ApplyCondition applies a condition definition to a combatant: status
// effects set flags or the monster state, attribute modifiers shift
// current stats, and over-time effects register an active condition at
// the definition's default duration.
func ApplyCondition(target *Combatant, def *content.ConditionDefinition) {
	if target.Player != nil {
		applyConditionToCharacter(target.Player, def)
	} else {
		applyConditionToMonster(target.Monster, def)
	}
}

func applyConditionToCharacter(c *character.Character, def *content.ConditionDefinition) {
	for _, effect := range def.Effects {
		switch effect.Kind {
		case content.EffectStatusEffect:
			if flag, ok := statusFlag(effect.Tag); ok {
				c.Conditions = c.Conditions.Set(flag)
			}
		case content.EffectAttributeModifier:
			applyAttributeModifier(&c.Stats, &c.AC, &c.HP, &c.SP, effect)
		case content.EffectDamageOverTime, content.EffectHealOverTime:
			c.AddCondition(shared.NewActiveCondition(def.ID, def.DefaultDuration))
		}
	}
}

func applyConditionToMonster(m *monster.Monster, def *content.ConditionDefinition) {
	for _, effect := range def.Effects {
		switch effect.Kind {
		case content.EffectStatusEffect:
			m.SetConditionFromTag(effect.Tag)
		case content.EffectAttributeModifier:
			applyAttributeModifier(&m.Stats, &m.AC, &m.HP, nil, effect)
		case content.EffectDamageOverTime, content.EffectHealOverTime:
			m.AddCondition(shared.NewActiveCondition(def.ID, def.DefaultDuration))
		}
	}
}

func applyAttributeModifier(stats *shared.Stats, ac *shared.BoundedAttr8, hp, sp *shared.BoundedAttr16, effect content.ConditionEffect) {
	switch effect.Attribute {
	case "ac":
		ac.Modify(int(effect.Value))
	case "hp":
		hp.Modify(int(effect.Value))
	case "sp":
		if sp != nil {
			sp.Modify(int(effect.Value))
		}
	default:
		if attr := stats.Get(effect.Attribute); attr != nil {
			attr.Modify(int(effect.Value))
		}
	}
}

// reconcileCharacterConditions trues up the legacy flag byte against
// the active condition set. Only flags that some definition in the
// content set can apply are touched, so curses applied outside the
// condition system survive the sweep.
func reconcileCharacterConditions(c *character.Character, defs []*content.ConditionDefinition) {
	var considered shared.ConditionFlags
	for _, def := range defs {
		for _, effect := range def.Effects {
			if effect.Kind != content.EffectStatusEffect {
				continue
			}
			if flag, ok := statusFlag(effect.Tag); ok {
				considered = considered.Set(flag)
			}
		}
	}

	var desired shared.ConditionFlags
	for _, a := range c.ActiveConditions {
		def := conditionDef(defs, a.ConditionID)
		if def == nil {
			continue
		}
		for _, effect := range def.Effects {
			if effect.Kind != content.EffectStatusEffect {
				continue
			}
			if flag, ok := statusFlag(effect.Tag); ok {
				desired = desired.Set(flag)
			}
		}
	}

	for _, flag := range []shared.ConditionFlags{
		shared.FlagAsleep,
		shared.FlagBlinded,
		shared.FlagSilenced,
		shared.FlagDiseased,
		shared.FlagPoisoned,
		shared.FlagParalyzed,
		shared.FlagUnconscious,
		shared.FlagDead,
	} {
		if !considered.Has(flag) {
			continue
		}
		if desired.Has(flag) {
			c.Conditions = c.Conditions.Set(flag)
		} else {
			c.Conditions = c.Conditions.Clear(flag)
		}
	}
}

func statusFlag(tag string) (shared.ConditionFlags, bool) {
	switch tag {
	case "asleep", "sleep":
		return shared.FlagAsleep, true
	case "blinded", "blind":
		return shared.FlagBlinded, true
	case "silenced", "silence":
		return shared.FlagSilenced, true
	case "diseased", "disease":
		return shared.FlagDiseased, true
	case "poisoned", "poison":
		return shared.FlagPoisoned, true
	case "paralyzed", "paralysis":
		return shared.FlagParalyzed, true
	case "unconscious":
		return shared.FlagUnconscious, true
	case "dead", "stone":
		return shared.FlagDead, true
	default:
		return 0, false
	}
}

func conditionDef(defs []*content.ConditionDefinition, id shared.ConditionID) *content.ConditionDefinition {
	for _, def := range defs {
		if def.ID == id {
			return def
		}
	}
	return nil
}
