package game

import "math"

// equipmentCaps bounds the flat bonus a single stat can receive from
// equipment. Stats not listed fall back to the default cap.
var equipmentCaps = map[string]int{
	"attack":  25,
	"defense": 30,
	"speed":   20,
	"hp":      40,
}

const equipmentCapDefault = 20

// CalculateCurrentStats derives CurrentStats from base stats, level,
// evolution stage, equipment and happiness. Deterministic and idempotent
// for unchanged inputs. CurrentHP is clamped to the new maximum if it now
// exceeds it; crit stats carry over from the base unchanged.
func CalculateCurrentStats(c *Cat) {
	c.CurrentStats.HP = scaleStat(c, "hp", c.BaseStats.HP, c.GrowthRates.HP)
	c.CurrentStats.Attack = scaleStat(c, "attack", c.BaseStats.Attack, c.GrowthRates.Attack)
	c.CurrentStats.Defense = scaleStat(c, "defense", c.BaseStats.Defense, c.GrowthRates.Defense)
	c.CurrentStats.Speed = scaleStat(c, "speed", c.BaseStats.Speed, c.GrowthRates.Speed)
	c.CurrentStats.CritRate = c.BaseStats.CritRate
	c.CurrentStats.CritDamage = c.BaseStats.CritDamage

	if c.CurrentHP > c.CurrentStats.HP {
		c.CurrentHP = c.CurrentStats.HP
	}
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

func scaleStat(c *Cat, name string, base int, growth float64) int {
	levelBonus := math.Floor(float64(base) * growth * float64(c.Level-1) / 100.0)
	evolutionBonus := float64(base) * float64(c.EvolutionStage-1) * 0.2
	v := float64(base) + levelBonus + evolutionBonus

	if boost, ok := c.EquipmentBoosts[name]; ok {
		limit, found := equipmentCaps[name]
		if !found {
			limit = equipmentCapDefault
		}
		if boost > limit {
			boost = limit
		}
		v += float64(boost)
	}

	v *= 1 + float64(c.Happiness)*0.0005
	return int(v)
}

// XPForLevel returns the total experience required to leave the given level.
// Strictly increasing in level.
func XPForLevel(level int) int {
	return int(100 * math.Pow(float64(level), 1.5))
}

// LevelUpResult reports the outcome of an experience grant.
type LevelUpResult struct {
	LeveledUp    bool `json:"leveled_up"`
	LevelsGained int  `json:"levels_gained"`
	NewLevel     int  `json:"new_level"`
}

// GainExp grants experience and applies any level-ups. Stats are recomputed
// on any level change. The level never decreases.
func GainExp(c *Cat, amount int) LevelUpResult {
	if amount < 0 {
		amount = 0
	}
	c.Exp += amount
	oldLevel := c.Level
	for c.Exp >= XPForLevel(c.Level) {
		c.Level++
	}
	if c.Level != oldLevel {
		CalculateCurrentStats(c)
		return LevelUpResult{LeveledUp: true, LevelsGained: c.Level - oldLevel, NewLevel: c.Level}
	}
	return LevelUpResult{NewLevel: c.Level}
}

// EvolutionMinLevel gates evolution regardless of items held.
const EvolutionMinLevel = 20

// CanEvolve checks the level gate and that every required item is held.
func CanEvolve(c *Cat, requiredItems []string, playerItems map[string]int) bool {
	if c.Level < EvolutionMinLevel {
		return false
	}
	for _, item := range requiredItems {
		if playerItems[item] < 1 {
			return false
		}
	}
	return true
}

// Evolve advances the evolution stage and recomputes stats.
func Evolve(c *Cat) {
	c.EvolutionStage++
	CalculateCurrentStats(c)
}
