package engine

import (
	"strconv"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

// ProcessTurnStart ticks every active status effect on the cat: damage over
// time lands first, then durations decrement, and expired effects drop.
// Returns the log lines describing what happened. A stunned cat still
// receives this processing even though its action is skipped.
func ProcessTurnStart(c *game.Cat) []string {
	if len(c.StatusEffects) == 0 {
		return nil
	}
	var lines []string
	kept := c.StatusEffects[:0]
	for _, effect := range c.StatusEffects {
		if effect.Kind == game.StatusDamageOverTime {
			dmg := effect.Magnitude
			if dmg < 1 {
				dmg = 1
			}
			c.CurrentHP -= dmg
			if c.CurrentHP < 0 {
				c.CurrentHP = 0
			}
			lines = append(lines, c.Name+" took "+strconv.Itoa(dmg)+" damage from "+effect.Name)
		}
		effect.Duration--
		if effect.Duration > 0 {
			kept = append(kept, effect)
		} else {
			shiftStats(c, effect, -1)
			lines = append(lines, effect.Name+" wore off "+c.Name)
		}
	}
	c.StatusEffects = kept
	return lines
}

// IsStunned reports whether any stun effect with remaining duration is
// active on the cat.
func IsStunned(c *game.Cat) bool {
	for _, effect := range c.StatusEffects {
		if effect.Kind == game.StatusStun && effect.Duration > 0 {
			return true
		}
	}
	return false
}

// ApplyStatus attaches an effect from an ability's status spec. Buffs and
// debuffs take hold immediately; their stat shift is reverted when the
// effect wears off.
func ApplyStatus(target *game.Cat, spec game.StatusSpec) {
	effect := game.StatusEffect{
		Name:      spec.Name,
		Kind:      spec.Kind,
		Magnitude: spec.Magnitude,
		Duration:  spec.Duration,
	}
	target.StatusEffects = append(target.StatusEffects, effect)
	shiftStats(target, effect, 1)
}

// shiftStats moves the cat's working attack and defense by the effect's
// magnitude. sign is 1 on application and -1 on expiry, keeping the two
// symmetric; the damage floor absorbs a stat pushed below zero.
func shiftStats(c *game.Cat, effect game.StatusEffect, sign int) {
	switch effect.Kind {
	case game.StatusBuff:
	case game.StatusDebuff:
		sign = -sign
	default:
		return
	}
	c.CurrentStats.Attack += effect.Magnitude * sign
	c.CurrentStats.Defense += effect.Magnitude * sign
}
