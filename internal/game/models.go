package game

import (
	"gorm.io/gorm"
)

// Rarity is the acquisition tier of a cat.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Affinity is the elemental category used for advantage calculations.
type Affinity string

const (
	AffinityFlame  Affinity = "flame"
	AffinityAqua   Affinity = "aqua"
	AffinityLeaf   Affinity = "leaf"
	AffinityLight  Affinity = "light"
	AffinityShadow Affinity = "shadow"
)

// StatusKind classifies an active status effect.
type StatusKind string

const (
	StatusDamageOverTime StatusKind = "damage_over_time"
	StatusBuff           StatusKind = "buff"
	StatusDebuff         StatusKind = "debuff"
	StatusStun           StatusKind = "stun"
)

// ActionKind is a tagged action type. Using a dedicated type instead of a
// plain string makes the resolver's switch exhaustive and self-documenting.
type ActionKind string

const (
	ActionNone        ActionKind = ""
	ActionBasicAttack ActionKind = "basic_attack"
	ActionAbility     ActionKind = "ability"
)

// AttackStyle modifies accuracy and damage of a basic attack. The selector
// picks one heuristically from the speed/defense ratios.
type AttackStyle string

const (
	StyleNormal     AttackStyle = "normal"
	StyleAggressive AttackStyle = "aggressive"
	StyleCautious   AttackStyle = "cautious"
	StyleQuick      AttackStyle = "quick"
)

// AbilityCategory drives personality weighting in the AI ensemble.
type AbilityCategory string

const (
	CategoryDamage    AbilityCategory = "damage"
	CategorySupport   AbilityCategory = "support"
	CategoryDefensive AbilityCategory = "defensive"
)

// Stats holds the six combat statistics.
type Stats struct {
	HP         int     `json:"hp"`
	Attack     int     `json:"attack"`
	Defense    int     `json:"defense"`
	Speed      int     `json:"speed"`
	CritRate   float64 `json:"crit_rate"`   // 0..1
	CritDamage float64 `json:"crit_damage"` // multiplier, >= 1
}

// GrowthRates are per-stat percentage growth factors applied per level.
type GrowthRates struct {
	HP      float64 `json:"hp"`
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
	Speed   float64 `json:"speed"`
}

// StatusEffect is an active effect carried by a single cat. The cat owns it
// exclusively; it is dropped when Duration reaches zero.
type StatusEffect struct {
	Name      string     `json:"name"`
	Kind      StatusKind `json:"kind"`
	Magnitude int        `json:"magnitude"`
	Duration  int        `json:"duration"` // turns remaining
}

// StatusSpec describes the status effect an ability may apply on hit.
type StatusSpec struct {
	Name      string     `json:"name"`
	Kind      StatusKind `json:"kind"`
	Magnitude int        `json:"magnitude"`
	Duration  int        `json:"duration"`
	Chance    float64    `json:"chance"` // 0..1, 0 means always
}

// Ability is a catalog-defined special move. Stats and effects come from the
// catalog file and are never persisted.
type Ability struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         AbilityCategory `json:"category"`
	EnergyCost       int             `json:"energy_cost"`
	DamageMultiplier float64         `json:"damage_multiplier"`
	Status           *StatusSpec     `json:"status_effect,omitempty"`
}

// Cat is a combatant. Catalog data (base stats, growth, abilities,
// personality) is immutable; level/exp/evolution come from the player's
// roster entry; everything else is battle-transient and reset by the
// controller at battle initialization.
type Cat struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Rarity         Rarity      `json:"rarity"`
	Affinity       Affinity    `json:"affinity"`
	Level          int         `json:"level"`
	Exp            int         `json:"exp"`
	EvolutionStage int         `json:"evolution_stage"`
	BaseStats      Stats       `json:"base_stats"`
	GrowthRates    GrowthRates `json:"growth_rates"`
	CurrentStats   Stats       `json:"current_stats"`
	CurrentHP      int         `json:"current_hp"`
	Energy         int         `json:"energy"` // 0..100

	StatusEffects []StatusEffect `json:"status_effects"`
	Abilities     []string       `json:"abilities"`
	Passive       string         `json:"passive"`

	PersonalityType string `json:"personality_type"`
	BattleStyle     string `json:"battle_style"`

	// Caller-provided modifiers folded into CurrentStats by the stat model.
	Happiness       int            `json:"happiness"` // 0..100
	EquipmentBoosts map[string]int `json:"equipment_boosts,omitempty"`

	// Battle-transient bookkeeping.
	Combo            int            `json:"combo"`
	AbilityCooldowns map[string]int `json:"ability_cooldowns,omitempty"`
	AIStyle          string         `json:"ai_style"` // aggressive | cautious | strategic | balanced
}

// IsAlive reports whether the cat can still act.
func (c *Cat) IsAlive() bool { return c.CurrentHP > 0 }

// ChooseStyle picks an attack style from the matchup: quick when the
// attacker clearly outspeeds the defender, cautious when the defender
// clearly outarmors the attacker, aggressive when the attacker has the
// stat edge, otherwise normal.
func ChooseStyle(attacker, defender *Cat) AttackStyle {
	def := float64(defender.CurrentStats.Defense)
	if def <= 0 {
		def = 1
	}
	spd := float64(defender.CurrentStats.Speed)
	if spd <= 0 {
		spd = 1
	}
	atk := attacker.CurrentStats.Attack
	if atk < 1 {
		atk = 1
	}
	switch {
	case float64(attacker.CurrentStats.Speed)/spd > 1.2:
		return StyleQuick
	case def/float64(atk) > 1.2:
		return StyleCautious
	case attacker.CurrentStats.Attack > defender.CurrentStats.Defense:
		return StyleAggressive
	default:
		return StyleNormal
	}
}

// HPRatio returns current HP as a fraction of max HP.
func (c *Cat) HPRatio() float64 {
	if c.CurrentStats.HP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(c.CurrentStats.HP)
}

// Side identifies a team within a battle.
type Side string

const (
	SideNone  Side = ""
	SideTeam1 Side = "team1"
	SideTeam2 Side = "team2"
)

// Phase is the battle lifecycle state.
type Phase string

const (
	PhaseCreated     Phase = "created"
	PhaseInitialized Phase = "initialized"
	PhaseInProgress  Phase = "in_progress"
	PhaseConcluded   Phase = "concluded"
)

// SchedulerKind selects the turn-order strategy for a battle.
type SchedulerKind string

const (
	SchedulerRoundRobin SchedulerKind = "round_robin"
	SchedulerInitiative SchedulerKind = "per_round_initiative"
)

// Difficulty tunes AI decision randomness.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Action is the tagged union the resolver executes. AbilityID is set only
// for ActionAbility.
type Action struct {
	Kind       ActionKind  `json:"kind"`
	AbilityID  string      `json:"ability_id,omitempty"`
	TargetID   string      `json:"target_id,omitempty"`
	EnergyCost int         `json:"energy_cost"`
	Style      AttackStyle `json:"style,omitempty"`
}

// BattleState is the transient per-turn snapshot handed to the AI and to
// read-only callers. It is rebuilt every turn and never persisted.
type BattleState struct {
	Active     *Cat     `json:"active"`
	Allies     []*Cat   `json:"allies"`
	Enemies    []*Cat   `json:"enemies"`
	TurnNumber int      `json:"turn_number"`
	RecentLog  []string `json:"recent_log"`
}

// ConcludeReason explains how a battle reached PhaseConcluded.
type ConcludeReason string

const (
	ConcludeDefeat    ConcludeReason = "defeat"
	ConcludeMaxRounds ConcludeReason = "max_rounds"
	ConcludeCancelled ConcludeReason = "cancelled"
)

// Battle owns two teams for its duration. Mutated strictly sequentially;
// the registry wraps each battle in its own lock.
type Battle struct {
	ID          string        `json:"id"`
	PlayerID    string        `json:"player_id,omitempty"` // owner of team1, empty for exhibition matches
	Team1       []*Cat        `json:"team1"`
	Team2       []*Cat        `json:"team2"`
	TurnOrder   []*Cat        `json:"-"` // round_robin snapshot
	CurrentTurn int           `json:"current_turn"`
	Round       int           `json:"round"`
	MaxRounds   int           `json:"max_rounds"`
	Phase       Phase         `json:"phase"`
	IsActive    bool          `json:"is_active"`
	IsAuto      bool          `json:"is_auto"` // both sides AI-controlled
	Scheduler   SchedulerKind `json:"scheduler"`
	Difficulty  Difficulty    `json:"difficulty"`

	Winner Side           `json:"winner"`
	Reason ConcludeReason `json:"reason"`
	Log    []string       `json:"log"`
}

// Clone returns a deep copy of the cat, detached from any live battle.
func (c *Cat) Clone() *Cat {
	cp := *c
	cp.StatusEffects = append([]StatusEffect(nil), c.StatusEffects...)
	cp.Abilities = append([]string(nil), c.Abilities...)
	if c.EquipmentBoosts != nil {
		cp.EquipmentBoosts = make(map[string]int, len(c.EquipmentBoosts))
		for k, v := range c.EquipmentBoosts {
			cp.EquipmentBoosts[k] = v
		}
	}
	if c.AbilityCooldowns != nil {
		cp.AbilityCooldowns = make(map[string]int, len(c.AbilityCooldowns))
		for k, v := range c.AbilityCooldowns {
			cp.AbilityCooldowns[k] = v
		}
	}
	return &cp
}

func cloneTeam(team []*Cat, seen map[*Cat]*Cat) []*Cat {
	if team == nil {
		return nil
	}
	out := make([]*Cat, len(team))
	for i, c := range team {
		cc := c.Clone()
		seen[c] = cc
		out[i] = cc
	}
	return out
}

// Clone returns a deep copy safe to read or serialize while the original
// battle keeps running under its own lock.
func (b *Battle) Clone() *Battle {
	cp := *b
	seen := make(map[*Cat]*Cat, len(b.Team1)+len(b.Team2))
	cp.Team1 = cloneTeam(b.Team1, seen)
	cp.Team2 = cloneTeam(b.Team2, seen)
	if b.TurnOrder != nil {
		cp.TurnOrder = make([]*Cat, len(b.TurnOrder))
		for i, c := range b.TurnOrder {
			if cc, ok := seen[c]; ok {
				cp.TurnOrder[i] = cc
			} else {
				cp.TurnOrder[i] = c.Clone()
			}
		}
	}
	cp.Log = append([]string(nil), b.Log...)
	return &cp
}

// Clone deep-copies the snapshot's combatants.
func (s *BattleState) Clone() *BattleState {
	cp := *s
	seen := make(map[*Cat]*Cat, len(s.Allies)+len(s.Enemies))
	cp.Allies = cloneTeam(s.Allies, seen)
	cp.Enemies = cloneTeam(s.Enemies, seen)
	if s.Active != nil {
		if cc, ok := seen[s.Active]; ok {
			cp.Active = cc
		} else {
			cp.Active = s.Active.Clone()
		}
	}
	cp.RecentLog = append([]string(nil), s.RecentLog...)
	return &cp
}

// AllCats returns both teams in registration order (team1 first).
func (b *Battle) AllCats() []*Cat {
	out := make([]*Cat, 0, len(b.Team1)+len(b.Team2))
	out = append(out, b.Team1...)
	out = append(out, b.Team2...)
	return out
}

// SideOf returns which team a cat belongs to.
func (b *Battle) SideOf(c *Cat) Side {
	for _, t := range b.Team1 {
		if t == c {
			return SideTeam1
		}
	}
	for _, t := range b.Team2 {
		if t == c {
			return SideTeam2
		}
	}
	return SideNone
}

// SideAlive reports whether any cat on the given slice can still fight.
func SideAlive(team []*Cat) bool {
	for _, c := range team {
		if c.IsAlive() {
			return true
		}
	}
	return false
}

// TeamHP sums remaining hit points, used for the max-round tiebreak.
func TeamHP(team []*Cat) int {
	total := 0
	for _, c := range team {
		total += c.CurrentHP
	}
	return total
}

// --- Persisted models (caller-side storage, engine never touches these) ---

// RosterEntry is a player's owned copy of a catalog cat.
type RosterEntry struct {
	gorm.Model
	PlayerID       string `json:"player_id" gorm:"index;uniqueIndex:idx_roster_player_cat"`
	CatID          string `json:"cat_id" gorm:"uniqueIndex:idx_roster_player_cat"`
	Level          int    `json:"level"`
	Exp            int    `json:"exp"`
	EvolutionStage int    `json:"evolution_stage"`
	Happiness      int    `json:"happiness"`
	Fragments      int    `json:"fragments"`
}

func (RosterEntry) TableName() string { return "roster_entries" }

// PlayerProfile stores aggregate per-player state outside any battle.
type PlayerProfile struct {
	gorm.Model
	PlayerID    string `json:"player_id" gorm:"uniqueIndex"`
	Catnip      int    `json:"catnip"`
	PityCounter int    `json:"pity_counter"`
	BattlesWon  int    `json:"battles_won"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// AbilityStat is the persisted form of the AI learning statistics.
type AbilityStat struct {
	gorm.Model
	AbilityID string `json:"ability_id" gorm:"uniqueIndex"`
	Uses      int    `json:"uses"`
	Successes int    `json:"successes"`
}

func (AbilityStat) TableName() string { return "ability_stats" }
