package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

type catEntry struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Rarity          string           `json:"rarity"`
	Affinity        string           `json:"affinity"`
	BaseStats       game.Stats       `json:"base_stats"`
	GrowthRates     game.GrowthRates `json:"growth_rates"`
	Abilities       []string         `json:"abilities"`
	Passive         string           `json:"passive"`
	PersonalityType string           `json:"personality_type"`
	BattleStyle     string           `json:"battle_style"`
}

type abilityEntry struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	EnergyCost       int              `json:"energy_cost"`
	DamageMultiplier float64          `json:"damage_multiplier"`
	Status           *game.StatusSpec `json:"status_effect"`
}

type poolEntry struct {
	ID       string  `json:"id"`
	Premium  bool    `json:"premium"`
	Cost     int     `json:"cost"`
	Rarities []string `json:"rarities"`
}

type rawCatalog struct {
	CatList     []catEntry     `json:"cat_list"`
	AbilityList []abilityEntry `json:"ability_list"`
	PoolList    []poolEntry    `json:"pool_list"`
	// Affinity advantage chart: attacker affinity -> list of affinities it
	// is strong against.
	Advantages map[string][]string `json:"affinity_advantages"`
	Server     *struct {
		Address string `json:"address"`
	} `json:"server"`
	NarratorPrompt string `json:"narrator_prompt"`
}

// Pool is a loaded summon pool definition.
type Pool struct {
	ID       string
	Premium  bool
	Cost     int
	Rarities []game.Rarity
}

// Catalog is the static, read-only definition set the whole core consumes.
type Catalog struct {
	Cats      map[string]catEntry
	Abilities map[string]game.Ability
	Pools     map[string]Pool

	advantages map[game.Affinity]map[game.Affinity]bool

	ServerAddress  string
	NarratorPrompt string
}

var validBattleStyles = map[string]struct{}{
	"aggressive": {}, "defensive": {}, "strategic": {}, "supportive": {},
}

var validRarities = map[string]struct{}{
	string(game.RarityCommon): {}, string(game.RarityUncommon): {},
	string(game.RarityRare): {}, string(game.RarityEpic): {}, string(game.RarityLegendary): {},
}

var validCategories = map[string]struct{}{
	string(game.CategoryDamage): {}, string(game.CategorySupport): {}, string(game.CategoryDefensive): {},
}

var validStatusKinds = map[game.StatusKind]struct{}{
	game.StatusDamageOverTime: {}, game.StatusBuff: {}, game.StatusDebuff: {}, game.StatusStun: {},
}

// Load reads the catalog file at path and validates it. String-keyed tables
// fail fast on unknown or duplicate keys so a bad data file cannot reach a
// live battle.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var rc rawCatalog
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	if len(rc.CatList) == 0 {
		return nil, fmt.Errorf("catalog file %s: cat_list is empty", path)
	}
	if len(rc.AbilityList) == 0 {
		return nil, fmt.Errorf("catalog file %s: ability_list is empty", path)
	}

	cat := &Catalog{
		Cats:           make(map[string]catEntry, len(rc.CatList)),
		Abilities:      make(map[string]game.Ability, len(rc.AbilityList)),
		Pools:          make(map[string]Pool, len(rc.PoolList)),
		advantages:     make(map[game.Affinity]map[game.Affinity]bool, len(rc.Advantages)),
		NarratorPrompt: strings.TrimSpace(rc.NarratorPrompt),
	}

	for _, a := range rc.AbilityList {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog file %s: ability entry missing 'id'", path)
		}
		if _, exists := cat.Abilities[a.ID]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate ability id '%s'", path, a.ID)
		}
		if _, ok := validCategories[a.Category]; !ok {
			return nil, fmt.Errorf("catalog file %s: ability '%s' has unknown category '%s'", path, a.ID, a.Category)
		}
		if a.Status != nil {
			if _, ok := validStatusKinds[a.Status.Kind]; !ok {
				return nil, fmt.Errorf("catalog file %s: ability '%s' has unknown status kind '%s'", path, a.ID, a.Status.Kind)
			}
			if a.Status.Duration <= 0 {
				return nil, fmt.Errorf("catalog file %s: ability '%s' status duration must be positive", path, a.ID)
			}
		}
		if a.EnergyCost < 0 || a.EnergyCost > 100 {
			return nil, fmt.Errorf("catalog file %s: ability '%s' energy cost out of range", path, a.ID)
		}
		cat.Abilities[a.ID] = game.Ability{
			ID:               a.ID,
			Name:             a.Name,
			Category:         game.AbilityCategory(a.Category),
			EnergyCost:       a.EnergyCost,
			DamageMultiplier: a.DamageMultiplier,
			Status:           a.Status,
		}
	}

	for _, c := range rc.CatList {
		if c.ID == "" {
			return nil, fmt.Errorf("catalog file %s: cat entry missing 'id'", path)
		}
		if _, exists := cat.Cats[c.ID]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate cat id '%s'", path, c.ID)
		}
		if _, ok := validRarities[c.Rarity]; !ok {
			return nil, fmt.Errorf("catalog file %s: cat '%s' has unknown rarity '%s'", path, c.ID, c.Rarity)
		}
		if c.BattleStyle != "" {
			if _, ok := validBattleStyles[c.BattleStyle]; !ok {
				return nil, fmt.Errorf("catalog file %s: cat '%s' has unknown battle style '%s'", path, c.ID, c.BattleStyle)
			}
		}
		for _, aid := range c.Abilities {
			if _, ok := cat.Abilities[aid]; !ok {
				return nil, fmt.Errorf("catalog file %s: cat '%s' references unknown ability '%s'", path, c.ID, aid)
			}
		}
		cat.Cats[c.ID] = c
	}

	for _, p := range rc.PoolList {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog file %s: pool entry missing 'id'", path)
		}
		if _, exists := cat.Pools[p.ID]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate pool id '%s'", path, p.ID)
		}
		pool := Pool{ID: p.ID, Premium: p.Premium, Cost: p.Cost}
		for _, r := range p.Rarities {
			if _, ok := validRarities[r]; !ok {
				return nil, fmt.Errorf("catalog file %s: pool '%s' has unknown rarity '%s'", path, p.ID, r)
			}
			pool.Rarities = append(pool.Rarities, game.Rarity(r))
		}
		cat.Pools[p.ID] = pool
	}

	for atk, list := range rc.Advantages {
		m := make(map[game.Affinity]bool, len(list))
		for _, def := range list {
			m[game.Affinity(def)] = true
		}
		cat.advantages[game.Affinity(atk)] = m
	}

	cat.ServerAddress = ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		cat.ServerAddress = rc.Server.Address
	}

	return cat, nil
}

// HasAdvantage reports whether attacker's affinity is strong against the
// defender's per the catalog chart.
func (c *Catalog) HasAdvantage(attacker, defender game.Affinity) bool {
	return c.advantages[attacker][defender]
}

// Ability returns an ability definition, with a presence flag.
func (c *Catalog) Ability(id string) (game.Ability, bool) {
	a, ok := c.Abilities[id]
	return a, ok
}

// NewCat instantiates a fresh combatant from catalog data. Level and
// evolution default to a new roster entry; callers overlay their own
// progression and equipment afterwards, then derive current stats.
func (c *Catalog) NewCat(catID string) (*game.Cat, error) {
	entry, ok := c.Cats[catID]
	if !ok {
		return nil, fmt.Errorf("unknown cat id '%s'", catID)
	}
	cat := &game.Cat{
		ID:              entry.ID,
		Name:            entry.Name,
		Rarity:          game.Rarity(entry.Rarity),
		Affinity:        game.Affinity(entry.Affinity),
		Level:           1,
		EvolutionStage:  1,
		Happiness:       50,
		BaseStats:       entry.BaseStats,
		GrowthRates:     entry.GrowthRates,
		Abilities:       append([]string(nil), entry.Abilities...),
		Passive:         entry.Passive,
		PersonalityType: entry.PersonalityType,
		BattleStyle:     entry.BattleStyle,
	}
	if cat.PersonalityType == "" {
		cat.PersonalityType = "mysterious"
	}
	if cat.BattleStyle == "" {
		cat.BattleStyle = "strategic"
	}
	game.CalculateCurrentStats(cat)
	cat.CurrentHP = cat.CurrentStats.HP
	cat.Energy = 100
	return cat, nil
}

// CatsOfRarity lists catalog cat ids carrying the given rarity. Map order,
// so callers sort when they need determinism.
func (c *Catalog) CatsOfRarity(r game.Rarity) []string {
	var out []string
	for id, entry := range c.Cats {
		if game.Rarity(entry.Rarity) == r {
			out = append(out, id)
		}
	}
	return out
}
