// Package combat is the encounter service: it builds combat state from
// a party and a monster group, resolves attacks and monster turns, and
// settles rewards when the fight ends.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=mockcombat -source=service.go

import (
	"log"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/character"
	domain "github.com/wyrmgate/engine/internal/domain/combat"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/monster"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// Service runs turn-based encounters.
type Service interface {
	// StartEncounter clones the party, instantiates the monster group and
	// rolls initiative.
	StartEncounter(input *StartEncounterInput) (*domain.State, error)

	// ResolveAttack rolls to hit and rolls damage. It does not apply the
	// damage; callers follow up with ApplyDamage.
	ResolveAttack(state *domain.State, attackerID, targetID domain.CombatantID, attack *content.Attack) (*AttackResult, error)

	// ApplyDamage subtracts hit points and reports whether the target
	// dropped.
	ApplyDamage(state *domain.State, targetID domain.CombatantID, damage uint16) (bool, error)

	// ApplyCondition looks up a condition definition and applies it to the
	// target.
	ApplyCondition(state *domain.State, targetID domain.CombatantID, conditionID shared.ConditionID) error

	// TakeMonsterTurn runs the monster AI for one monster, advances the
	// turn and checks for combat end.
	TakeMonsterTurn(state *domain.State, monsterID domain.CombatantID) (*MonsterTurnResult, error)

	// AdvanceTurn moves to the next turn, running round bookkeeping at the
	// wrap, then checks for combat end.
	AdvanceTurn(state *domain.State) ([]domain.OverTimeEffect, error)

	// AttemptFlee ends the encounter with a fled status.
	AttemptFlee(state *domain.State) error

	// Surrender ends the encounter with a surrendered status.
	Surrender(state *domain.State) error

	// Bribe pays off the remaining monsters from the party purse and ends
	// the encounter. Returns the gold spent.
	Bribe(state *domain.State, party *character.Party) (uint32, error)

	// VictoryRewards rolls loot for every monster killed in a won
	// encounter.
	VictoryRewards(state *domain.State) (*Rewards, error)

	// ExitCombat copies combat deltas back onto the owning party members.
	ExitCombat(state *domain.State, party *character.Party) error
}

// StartEncounterInput describes the encounter to build.
type StartEncounterInput struct {
	Party              *character.Party
	MonsterGroup       []shared.MonsterID
	Handicap           domain.Handicap
	MonstersRegenerate bool
}

// AttackResult is the outcome of one attack roll.
type AttackResult struct {
	Hit     bool
	Damage  uint16
	Special *content.SpecialEffect
}

// MonsterAction is what the monster AI chose to do.
type MonsterAction string

const (
	MonsterActionAttack MonsterAction = "attack"
	MonsterActionFlee   MonsterAction = "flee"
	MonsterActionSkip   MonsterAction = "skip"
)

// MonsterTurnResult is the outcome of one monster turn, including any
// round-boundary effects from the turn advance.
type MonsterTurnResult struct {
	Action       MonsterAction
	Target       *domain.CombatantID
	Attack       *AttackResult
	TargetDied   bool
	RoundEffects []domain.OverTimeEffect
}

// Rewards is the spoils of a won encounter.
type Rewards struct {
	Experience uint32
	Gold       uint32
	Gems       uint32
	Items      []shared.ItemID
}

type service struct {
	db     *campaign.Database
	roller dice.Roller
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Database *campaign.Database
	Roller   dice.Roller
}

// NewService creates a new encounter service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Database == nil {
		panic("database is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}
	return &service{
		db:     cfg.Database,
		roller: cfg.Roller,
	}
}

func (s *service) StartEncounter(input *StartEncounterInput) (*domain.State, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.Party == nil || input.Party.IsEmpty() {
		return nil, errors.InvalidArgument("party is empty")
	}
	if len(input.MonsterGroup) == 0 {
		return nil, errors.InvalidArgument("monster group is empty")
	}

	handicap := input.Handicap
	if handicap == "" {
		handicap = domain.HandicapEven
	}

	state := domain.NewState(handicap)
	state.MonstersRegenerate = input.MonstersRegenerate

	for _, member := range input.Party.Members {
		state.AddPlayer(member.Clone())
	}
	for _, id := range input.MonsterGroup {
		def, err := s.db.Monster(id)
		if err != nil {
			return nil, errors.Wrapf(err, "building monster group")
		}
		state.AddMonster(monster.FromDefinition(def))
	}

	state.Start()
	log.Printf("encounter started: %d party members vs %d monsters, handicap %s",
		len(input.Party.Members), len(input.MonsterGroup), handicap)
	return state, nil
}

func (s *service) ResolveAttack(state *domain.State, attackerID, targetID domain.CombatantID, attack *content.Attack) (*AttackResult, error) {
	if attack == nil {
		return nil, errors.InvalidArgument("attack cannot be nil")
	}

	attacker, err := state.Combatant(attackerID)
	if err != nil {
		return nil, err
	}
	if !attacker.CanAct() {
		return nil, errors.CannotActf("combatant %s cannot act", attackerID)
	}

	target, err := state.Combatant(targetID)
	if err != nil {
		return nil, err
	}
	if !target.IsAlive() {
		return nil, errors.InvalidTargetf("target %s is down", targetID)
	}

	threshold := 10 + int(target.ArmorClass()) - int(attacker.Accuracy())
	if threshold < 2 {
		threshold = 2
	}
	roll, err := dice.RollD20(s.roller)
	if err != nil {
		return nil, err
	}
	if roll < threshold {
		return &AttackResult{}, nil
	}

	base, err := attack.Damage.Roll(s.roller)
	if err != nil {
		return nil, err
	}
	if attack.Type == content.AttackPhysical {
		base += shared.StatModifier(attacker.Might())
	}
	if base < 1 {
		base = 1
	}

	return &AttackResult{
		Hit:     true,
		Damage:  uint16(base),
		Special: attack.Special,
	}, nil
}

func (s *service) ApplyDamage(state *domain.State, targetID domain.CombatantID, damage uint16) (bool, error) {
	target, err := state.Combatant(targetID)
	if err != nil {
		return false, err
	}

	if target.Player != nil {
		before := target.Player.HP.Current
		target.Player.TakeDamage(int(damage))
		return before > 0 && target.Player.HP.Current == 0, nil
	}
	return target.Monster.TakeDamage(damage), nil
}

func (s *service) ApplyCondition(state *domain.State, targetID domain.CombatantID, conditionID shared.ConditionID) error {
	target, err := state.Combatant(targetID)
	if err != nil {
		return err
	}
	def, err := s.db.Condition(conditionID)
	if err != nil {
		return err
	}
	domain.ApplyCondition(target, def)
	return nil
}

// TakeMonsterTurn picks the monster's action: a special attack when the
// special threshold roll passes, fleeing when hit points are at the
// flee threshold, otherwise an attack on the lowest-AC living party
// member (first by index on ties).
func (s *service) TakeMonsterTurn(state *domain.State, monsterID domain.CombatantID) (*MonsterTurnResult, error) {
	combatant, err := state.Combatant(monsterID)
	if err != nil {
		return nil, err
	}
	m := combatant.Monster
	if m == nil {
		return nil, errors.InvalidTargetf("combatant %s is not a monster", monsterID)
	}
	if !m.CanAct() {
		return nil, errors.CannotActf("combatant %s cannot act", monsterID)
	}

	result := &MonsterTurnResult{}
	attack, isSpecial, err := s.chooseMonsterAttack(m)
	if err != nil {
		return nil, err
	}

	switch {
	case !isSpecial && m.ShouldFlee():
		m.Flee()
		result.Action = MonsterActionFlee
	case attack != nil:
		targetID, ok := s.pickAttackTarget(state)
		if !ok {
			return nil, errors.InvalidContext("no living targets")
		}
		attackResult, err := s.ResolveAttack(state, monsterID, targetID, attack)
		if err != nil {
			return nil, err
		}
		result.Action = MonsterActionAttack
		result.Target = &targetID
		result.Attack = attackResult
		if attackResult.Hit {
			died, err := s.ApplyDamage(state, targetID, attackResult.Damage)
			if err != nil {
				return nil, err
			}
			result.TargetDied = died
		}
	default:
		// No attacks and no reason to flee.
		result.Action = MonsterActionSkip
	}

	m.MarkActed()
	effects, err := s.AdvanceTurn(state)
	if err != nil {
		return nil, err
	}
	result.RoundEffects = effects
	return result, nil
}

// chooseMonsterAttack honors the special attack threshold: when the
// percent roll passes and a special attack exists, that attack is used
// and takes priority over fleeing. Otherwise the first listed attack.
// Returns nil when the monster has no attacks.
func (s *service) chooseMonsterAttack(m *monster.Monster) (*content.Attack, bool, error) {
	if len(m.Attacks) == 0 {
		return nil, false, nil
	}
	if m.SpecialAttackThreshold > 0 {
		roll, err := dice.RollRange(s.roller, 100)
		if err != nil {
			return nil, false, err
		}
		if roll < int(m.SpecialAttackThreshold) {
			for i := range m.Attacks {
				if m.Attacks[i].Special != nil {
					return &m.Attacks[i], true, nil
				}
			}
		}
	}
	return &m.Attacks[0], false, nil
}

func (s *service) pickAttackTarget(state *domain.State) (domain.CombatantID, bool) {
	best := -1
	var bestAC uint8
	for i, c := range state.Participants {
		if c.Player == nil || !c.IsAlive() {
			continue
		}
		if best == -1 || c.ArmorClass() < bestAC {
			best = i
			bestAC = c.ArmorClass()
		}
	}
	if best == -1 {
		return domain.CombatantID{}, false
	}
	return domain.PlayerID(best), true
}

func (s *service) AdvanceTurn(state *domain.State) ([]domain.OverTimeEffect, error) {
	effects, err := state.AdvanceTurn(s.db.Conditions(), s.roller)
	if err != nil {
		return nil, err
	}
	state.CheckCombatEnd()
	return effects, nil
}

func (s *service) AttemptFlee(state *domain.State) error {
	if !state.InProgress() {
		return errors.InvalidContext("combat is not in progress")
	}
	if !state.CanFlee {
		return errors.Restricted("fleeing is not allowed in this encounter")
	}
	state.Status = domain.StatusFled
	return nil
}

func (s *service) Surrender(state *domain.State) error {
	if !state.InProgress() {
		return errors.InvalidContext("combat is not in progress")
	}
	if !state.CanSurrender {
		return errors.Restricted("surrender is not allowed in this encounter")
	}
	state.Status = domain.StatusSurrendered
	return nil
}

// Bribe charges the sum of the living monsters' maximum gold yield. A
// successful bribe ends the encounter as fled.
func (s *service) Bribe(state *domain.State, party *character.Party) (uint32, error) {
	if !state.InProgress() {
		return 0, errors.InvalidContext("combat is not in progress")
	}
	if !state.CanBribe {
		return 0, errors.Restricted("these monsters cannot be bribed")
	}

	var cost uint32
	for _, c := range state.Participants {
		if c.Monster != nil && c.IsAlive() {
			cost += c.Monster.Loot.GoldMax
		}
	}
	if err := party.SpendGold(cost); err != nil {
		return 0, err
	}
	state.Status = domain.StatusFled
	return cost, nil
}

func (s *service) VictoryRewards(state *domain.State) (*Rewards, error) {
	if state.Status != domain.StatusVictory {
		return nil, errors.InvalidContext("combat was not won")
	}

	rewards := &Rewards{}
	for _, c := range state.Participants {
		if c.Monster == nil || !c.Monster.Condition.IsDead() {
			continue
		}
		loot := c.Monster.Loot
		rewards.Experience += loot.Experience

		gold, err := rollBetween(s.roller, loot.GoldMin, loot.GoldMax)
		if err != nil {
			return nil, err
		}
		rewards.Gold += gold

		gems, err := rollBetween(s.roller, uint32(loot.GemsMin), uint32(loot.GemsMax))
		if err != nil {
			return nil, err
		}
		rewards.Gems += gems

		for _, drop := range loot.Items {
			roll, err := dice.RollRange(s.roller, 100)
			if err != nil {
				return nil, err
			}
			if float32(roll) < drop.Chance*100 {
				rewards.Items = append(rewards.Items, drop.ItemID)
			}
		}
	}
	return rewards, nil
}

func rollBetween(roller dice.Roller, min, max uint32) (uint32, error) {
	if max <= min {
		return min, nil
	}
	roll, err := dice.RollRange(roller, int(max-min)+1)
	if err != nil {
		return 0, err
	}
	return min + uint32(roll), nil
}

// ExitCombat copies each surviving clone's state back onto the party
// member that owns it. Monsters are discarded with the state.
func (s *service) ExitCombat(state *domain.State, party *character.Party) error {
	if state.InProgress() {
		return errors.InvalidContext("combat is still in progress")
	}
	for _, c := range state.Participants {
		if c.Player == nil {
			continue
		}
		member, _, ok := party.MemberByID(c.Player.ID)
		if !ok {
			return errors.NotFoundf("character %q is not in the party", c.Player.ID)
		}
		*member = *c.Player
	}
	return nil
}
