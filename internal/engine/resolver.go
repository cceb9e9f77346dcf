package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

const (
	abilityDamageMultiplier = 1.5
	abilityCooldownTurns    = 3
)

type styleProfile struct {
	accuracy float64
	damage   float64
}

var styleProfiles = map[game.AttackStyle]styleProfile{
	game.StyleAggressive: {accuracy: 0.8, damage: 1.2},
	game.StyleCautious:   {accuracy: 1.0, damage: 0.8},
	game.StyleQuick:      {accuracy: 0.9, damage: 0.9},
	game.StyleNormal:     {accuracy: 0.9, damage: 1.0},
}

// Resolver applies chosen actions to combatants. It owns no state beyond
// the catalog view and the battle's random source.
type Resolver struct {
	catalog game.CatalogView
	rng     *rand.Rand
}

func NewResolver(catalog game.CatalogView, rng *rand.Rand) *Resolver {
	return &Resolver{catalog: catalog, rng: rng}
}

// Outcome describes one resolved action for the battle log.
type Outcome struct {
	Hit      bool
	Crit     bool
	Damage   int
	Failed   bool
	LogLines []string
}

func (r *Resolver) variance() float64 {
	return 0.9 + r.rng.Float64()*0.2
}

func (r *Resolver) rollCrit(attacker *game.Cat) (bool, float64) {
	if r.rng.Float64() < attacker.CurrentStats.CritRate {
		return true, attacker.CurrentStats.CritDamage
	}
	return false, 1.0
}

func applyDamage(target *game.Cat, dmg int) {
	target.CurrentHP -= dmg
	if target.CurrentHP < 0 {
		target.CurrentHP = 0
	}
}

func (r *Resolver) damageRoll(attacker, target *game.Cat, styleMult, baseMult float64) (int, bool) {
	raw := float64(attacker.CurrentStats.Attack) - float64(target.CurrentStats.Defense)*0.5
	crit, critMult := r.rollCrit(attacker)
	dmg := int(math.Round(raw * r.variance() * critMult * styleMult * baseMult))
	if dmg < 1 {
		dmg = 1
	}
	return dmg, crit
}

// ResolveBasicAttack applies a basic attack with the given style. A miss
// resets the attacker's combo counter; a hit increments it.
func (r *Resolver) ResolveBasicAttack(attacker, target *game.Cat, style game.AttackStyle) Outcome {
	profile, ok := styleProfiles[style]
	if !ok {
		profile = styleProfiles[game.StyleNormal]
	}
	if r.rng.Float64() > profile.accuracy {
		attacker.Combo = 0
		return Outcome{LogLines: []string{attacker.Name + " attacked " + target.Name + " but missed"}}
	}
	dmg, crit := r.damageRoll(attacker, target, profile.damage, 1.0)
	applyDamage(target, dmg)
	attacker.Combo++
	line := fmt.Sprintf("%s hit %s for %d damage", attacker.Name, target.Name, dmg)
	if crit {
		line += " (critical!)"
	}
	return Outcome{Hit: true, Crit: crit, Damage: dmg, LogLines: []string{line}}
}

// ResolveAbility deducts energy up front and applies the ability's effect.
// An ability still recharging or lacking energy fails the action with no
// energy spent and no cooldown refresh. Any attempted ability, hit or
// miss, goes on cooldown.
func (r *Resolver) ResolveAbility(attacker, target *game.Cat, abilityID string) Outcome {
	ability, ok := r.catalog.Ability(abilityID)
	if !ok {
		return Outcome{Failed: true, LogLines: []string{attacker.Name + " fumbled an unknown ability"}}
	}
	if attacker.AbilityCooldowns[ability.ID] > 0 {
		return Outcome{Failed: true, LogLines: []string{attacker.Name + " tried " + ability.Name + " but it is still recharging"}}
	}
	if attacker.Energy < ability.EnergyCost {
		return Outcome{Failed: true, LogLines: []string{attacker.Name + " lacked the energy for " + ability.Name}}
	}
	attacker.Energy -= ability.EnergyCost
	attacker.AbilityCooldowns[ability.ID] = abilityCooldownTurns

	out := Outcome{Hit: true}
	switch ability.Category {
	case game.CategoryDamage:
		mult := abilityDamageMultiplier
		if ability.DamageMultiplier > 0 {
			mult = ability.DamageMultiplier
		}
		dmg, crit := r.damageRoll(attacker, target, 1.0, mult)
		applyDamage(target, dmg)
		out.Crit = crit
		out.Damage = dmg
		line := fmt.Sprintf("%s used %s on %s for %d damage", attacker.Name, ability.Name, target.Name, dmg)
		if crit {
			line += " (critical!)"
		}
		out.LogLines = append(out.LogLines, line)
	default:
		out.LogLines = append(out.LogLines, attacker.Name+" used "+ability.Name)
	}
	if ability.Status != nil {
		roll := r.rng.Float64()
		chance := ability.Status.Chance
		if chance <= 0 {
			chance = 1.0
		}
		if roll < chance {
			recipient := target
			if ability.Category != game.CategoryDamage {
				recipient = attacker
			}
			ApplyStatus(recipient, *ability.Status)
			out.LogLines = append(out.LogLines, recipient.Name+" is affected by "+ability.Status.Name)
		}
	}
	attacker.Combo++
	return out
}
