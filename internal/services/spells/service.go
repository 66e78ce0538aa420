// Package spells validates and executes spell casts: resource checks
// against the caster and party, target resolution by spell shape, and
// the damage-then-conditions ordering inside combat.
package spells

//go:generate mockgen -destination=mock/mock_service.go -package=mockspells -source=service.go

import (
	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/dice"
	"github.com/wyrmgate/engine/internal/domain/character"
	domain "github.com/wyrmgate/engine/internal/domain/combat"
	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// CastContext says where the party is when the cast is attempted.
type CastContext struct {
	InCombat      bool
	Outdoors      bool
	AntiMagicZone bool
}

// SpellResult is the outcome of a successful cast.
type SpellResult struct {
	SpellName         string
	Damage            int
	Affected          []domain.CombatantID
	AppliedConditions []shared.ConditionID
	RoundEffects      []domain.OverTimeEffect
}

// Service casts spells.
type Service interface {
	// CanCast checks every casting rule without spending anything.
	CanCast(caster *character.Character, party *character.Party, spellID shared.SpellID, castCtx CastContext) error

	// CastSpell validates and then spends spell points and gems. The
	// deduction is atomic: nothing is spent unless every check passes.
	CastSpell(caster *character.Character, party *character.Party, spellID shared.SpellID, castCtx CastContext) (*content.Spell, error)

	// ExecuteSpellCast casts inside combat: it spends resources, applies
	// damage to every resolved target, then conditions, then advances the
	// turn and checks for combat end.
	ExecuteSpellCast(state *domain.State, casterID domain.CombatantID, party *character.Party, spellID shared.SpellID, targetID domain.CombatantID, castCtx CastContext) (*SpellResult, error)
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

// NewService creates a new spell service.
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

// CanCast applies the casting rules in a fixed order so the caller
// always sees the same failure first: silence, school, level, context,
// anti-magic, spell points, gems.
func (s *service) CanCast(caster *character.Character, party *character.Party, spellID shared.SpellID, castCtx CastContext) error {
	spell, err := s.db.Spell(spellID)
	if err != nil {
		return err
	}
	return s.canCastSpell(caster, party, spell, castCtx)
}

func (s *service) canCastSpell(caster *character.Character, party *character.Party, spell *content.Spell, castCtx CastContext) error {
	defs := s.db.Conditions()
	if caster.IsSilenced() || caster.HasStatusEffect("silenced", defs) {
		return errors.CannotAct("caster is silenced")
	}
	if caster.PreventedFrom(content.PreventCast, defs) {
		return errors.CannotAct("caster cannot cast right now")
	}

	class, err := s.db.Class(caster.ClassID)
	if err != nil {
		return err
	}
	if !class.HasSchool(spell.School) {
		return errors.Restrictedf("%s cannot cast %s spells", class.Name, spell.School)
	}
	if required := class.RequiredLevelFor(spell.Level); caster.Level < required {
		return errors.Restrictedf("%s requires level %d, caster is level %d",
			spell.Name, required, caster.Level)
	}

	switch spell.Context {
	case content.ContextCombatOnly:
		if !castCtx.InCombat {
			return errors.InvalidContextf("%s can only be cast in combat", spell.Name)
		}
	case content.ContextNonCombat:
		if castCtx.InCombat {
			return errors.InvalidContextf("%s cannot be cast in combat", spell.Name)
		}
	case content.ContextOutdoors:
		if !castCtx.Outdoors {
			return errors.InvalidContextf("%s can only be cast outdoors", spell.Name)
		}
	case content.ContextIndoors:
		if castCtx.Outdoors {
			return errors.InvalidContextf("%s can only be cast indoors", spell.Name)
		}
	}
	if castCtx.AntiMagicZone {
		return errors.InvalidContext("magic is forbidden here")
	}

	if caster.SP.Current < spell.SPCost {
		return errors.Insufficient("not enough spell points", int(spell.SPCost), int(caster.SP.Current))
	}
	if party.Gems < uint32(spell.GemCost) {
		return errors.Insufficient("not enough gems", int(spell.GemCost), int(party.Gems))
	}
	return nil
}

func (s *service) CastSpell(caster *character.Character, party *character.Party, spellID shared.SpellID, castCtx CastContext) (*content.Spell, error) {
	spell, err := s.db.Spell(spellID)
	if err != nil {
		return nil, err
	}
	if err := s.canCastSpell(caster, party, spell, castCtx); err != nil {
		return nil, err
	}

	if err := party.SpendGems(uint32(spell.GemCost)); err != nil {
		return nil, err
	}
	caster.SP.Modify(-int(spell.SPCost))
	return spell, nil
}

func (s *service) ExecuteSpellCast(state *domain.State, casterID domain.CombatantID, party *character.Party, spellID shared.SpellID, targetID domain.CombatantID, castCtx CastContext) (*SpellResult, error) {
	combatant, err := state.Combatant(casterID)
	if err != nil {
		return nil, err
	}
	caster := combatant.Player
	if caster == nil {
		return nil, errors.InvalidTargetf("caster %s is not a party member", casterID)
	}

	spell, err := s.db.Spell(spellID)
	if err != nil {
		return nil, err
	}
	// Castability errors take precedence over target errors.
	castCtx.InCombat = true
	if err := s.canCastSpell(caster, party, spell, castCtx); err != nil {
		return nil, err
	}
	targets, err := s.resolveTargets(state, casterID, targetID, spell)
	if err != nil {
		return nil, err
	}
	if err := party.SpendGems(uint32(spell.GemCost)); err != nil {
		return nil, err
	}
	caster.SP.Modify(-int(spell.SPCost))

	result := &SpellResult{SpellName: spell.Name}
	bonus := shared.StatModifier(caster.Stats.Intellect.Current)

	// Damage lands on every target before any condition is applied.
	if spell.Damage != nil {
		for _, id := range targets {
			target, err := state.Combatant(id)
			if err != nil {
				return nil, err
			}
			rolled, err := spell.Damage.Roll(s.roller)
			if err != nil {
				return nil, err
			}
			dmg := rolled + bonus
			if dmg < 0 {
				dmg = 0
			}
			if target.Monster != nil {
				target.Monster.TakeDamage(uint16(dmg))
			} else {
				target.Player.TakeDamage(dmg)
			}
			result.Damage += dmg
		}
	}

	for _, condID := range spell.AppliedConditions {
		def, err := s.db.Condition(condID)
		if err != nil {
			return nil, err
		}
		for _, id := range targets {
			target, err := state.Combatant(id)
			if err != nil {
				return nil, err
			}
			domain.ApplyCondition(target, def)
		}
		result.AppliedConditions = append(result.AppliedConditions, condID)
	}

	result.Affected = targets

	effects, err := state.AdvanceTurn(s.db.Conditions(), s.roller)
	if err != nil {
		return nil, err
	}
	result.RoundEffects = effects
	state.CheckCombatEnd()
	return result, nil
}

// resolveTargets expands the spell's target shape into concrete
// combatant ids. Single-target shapes must be handed a matching id;
// group shapes ignore the hint and sweep the relevant side.
func (s *service) resolveTargets(state *domain.State, casterID, targetID domain.CombatantID, spell *content.Spell) ([]domain.CombatantID, error) {
	switch spell.Target {
	case content.TargetSelf:
		return []domain.CombatantID{casterID}, nil

	case content.TargetSingleMonster:
		if targetID.Kind != domain.KindMonster {
			return nil, errors.InvalidTargetf("%s must target a monster", spell.Name)
		}
		if _, err := state.Combatant(targetID); err != nil {
			return nil, err
		}
		return []domain.CombatantID{targetID}, nil

	case content.TargetSingleCharacter:
		if targetID.Kind != domain.KindPlayer {
			return nil, errors.InvalidTargetf("%s must target a party member", spell.Name)
		}
		if _, err := state.Combatant(targetID); err != nil {
			return nil, err
		}
		return []domain.CombatantID{targetID}, nil

	case content.TargetMonsterGroup, content.TargetAllMonsters, content.TargetSpecificMonsters:
		return s.sideTargets(state, domain.KindMonster), nil

	case content.TargetAllCharacters:
		return s.sideTargets(state, domain.KindPlayer), nil

	default:
		return nil, errors.Validationf("spell %q has unknown target shape %q", spell.Name, spell.Target)
	}
}

func (s *service) sideTargets(state *domain.State, kind domain.CombatantKind) []domain.CombatantID {
	var targets []domain.CombatantID
	for i, c := range state.Participants {
		if c.Kind() != kind || !c.IsAlive() {
			continue
		}
		if kind == domain.KindPlayer {
			targets = append(targets, domain.PlayerID(i))
		} else {
			targets = append(targets, domain.MonsterID(i))
		}
	}
	return targets
}
