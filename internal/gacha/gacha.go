package gacha

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

// CatSource lists draftable cats per rarity. Satisfied by the catalog.
type CatSource interface {
	CatsOfRarity(r game.Rarity) []string
}

// PoolConfig is the summon pool as the engine needs it.
type PoolConfig struct {
	ID      string
	Premium bool
	Cost    int
}

// DrawResult is one summon outcome. Fragments and BonusXP are non-zero
// only for duplicates, which never add a second roster copy.
type DrawResult struct {
	CatID      string      `json:"cat_id"`
	Rarity     game.Rarity `json:"rarity"`
	Duplicate  bool        `json:"duplicate"`
	Fragments  int         `json:"fragments"`
	BonusXP    int         `json:"bonus_xp"`
	Guaranteed bool        `json:"guaranteed"`
	NewPity    int         `json:"new_pity"`
}

const (
	pityLegendaryAt = 89
	pityEpicAt      = 79
	pityBonusCap    = 40.0
)

var rarityRank = map[game.Rarity]int{
	game.RarityCommon:    0,
	game.RarityUncommon:  1,
	game.RarityRare:      2,
	game.RarityEpic:      3,
	game.RarityLegendary: 4,
}

var regularFragments = map[game.Rarity]int{
	game.RarityCommon:   1,
	game.RarityUncommon: 2,
	game.RarityRare:     5,
}

var regularBonusXP = map[game.Rarity]int{
	game.RarityCommon:   100,
	game.RarityUncommon: 300,
	game.RarityRare:     1000,
}

var premiumFragments = map[game.Rarity]int{
	game.RarityUncommon:  2,
	game.RarityRare:      5,
	game.RarityEpic:      10,
	game.RarityLegendary: 20,
}

var premiumBonusXP = map[game.Rarity]int{
	game.RarityUncommon:  300,
	game.RarityRare:      1000,
	game.RarityEpic:      3000,
	game.RarityLegendary: 10000,
}

// Engine rolls summons against a catalog-backed cat source. Safe for
// concurrent use.
type Engine struct {
	mu     sync.Mutex
	source CatSource
	rng    *rand.Rand
}

func NewEngine(source CatSource, rng *rand.Rand) *Engine {
	return &Engine{source: source, rng: rng}
}

// Draw performs one summon. pity is the caller's stored counter for
// premium pools; regular pools neither read nor advance it. owned guards
// against duplicate roster copies.
func (e *Engine) Draw(pool PoolConfig, pity int, owned map[string]bool) (DrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draw(pool, pity, owned, game.RarityCommon)
}

// MultiDraw performs ten premium-style summons, threading the pity
// counter through each. If the first nine produce nothing above uncommon,
// the tenth is raised to at least rare.
func (e *Engine) MultiDraw(pool PoolConfig, pity int, owned map[string]bool) ([]DrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Work on a copy so a cat drawn early in the batch counts as owned
	// for the later draws without mutating the caller's set.
	held := make(map[string]bool, len(owned))
	for id := range owned {
		held[id] = true
	}

	results := make([]DrawResult, 0, 10)
	sawRare := false
	for i := 0; i < 10; i++ {
		floor := game.RarityCommon
		if i == 9 && !sawRare {
			floor = game.RarityRare
		}
		res, err := e.draw(pool, pity, held, floor)
		if err != nil {
			return nil, err
		}
		held[res.CatID] = true
		pity = res.NewPity
		if rarityRank[res.Rarity] >= rarityRank[game.RarityRare] {
			sawRare = true
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) draw(pool PoolConfig, pity int, owned map[string]bool, floor game.Rarity) (DrawResult, error) {
	var (
		rarity     game.Rarity
		guaranteed bool
		newPity    = pity
	)
	if pool.Premium {
		rarity, guaranteed = premiumRarity(e.rng.Float64()*100, pity)
		if rarityRank[rarity] >= rarityRank[game.RarityEpic] {
			newPity = 0
		} else {
			newPity = pity + 1
		}
	} else {
		rarity = regularRarity(e.rng.Float64() * 100)
	}
	if rarityRank[rarity] < rarityRank[floor] {
		rarity = floor
	}

	catID, err := e.pickCat(rarity)
	if err != nil {
		return DrawResult{}, err
	}

	res := DrawResult{
		CatID:      catID,
		Rarity:     rarity,
		Guaranteed: guaranteed,
		NewPity:    newPity,
	}
	if owned[catID] {
		res.Duplicate = true
		if pool.Premium {
			res.Fragments = premiumFragments[rarity]
			res.BonusXP = premiumBonusXP[rarity]
		} else {
			res.Fragments = regularFragments[rarity]
			res.BonusXP = regularBonusXP[rarity]
		}
	}
	return res, nil
}

// pickCat chooses uniformly among catalog cats of the rarity, walking
// down the ladder when a band has no entries.
func (e *Engine) pickCat(rarity game.Rarity) (string, error) {
	for rank := rarityRank[rarity]; rank >= 0; rank-- {
		ids := e.source.CatsOfRarity(rarityAtRank(rank))
		if len(ids) == 0 {
			continue
		}
		sort.Strings(ids)
		return ids[e.rng.Intn(len(ids))], nil
	}
	return "", game.Resourcef("no cats available at or below rarity %s", rarity)
}

func rarityAtRank(rank int) game.Rarity {
	for r, n := range rarityRank {
		if n == rank {
			return r
		}
	}
	return game.RarityCommon
}

func regularRarity(roll float64) game.Rarity {
	switch {
	case roll < 65:
		return game.RarityCommon
	case roll < 90:
		return game.RarityUncommon
	default:
		return game.RarityRare
	}
}

func premiumRarity(roll float64, pity int) (game.Rarity, bool) {
	if pity >= pityLegendaryAt {
		return game.RarityLegendary, true
	}
	if pity >= pityEpicAt {
		return game.RarityEpic, true
	}
	bonus := float64(pity) * 0.5
	if bonus > pityBonusCap {
		bonus = pityBonusCap
	}
	switch {
	case roll < 1+bonus*0.2:
		return game.RarityLegendary, false
	case roll < 5+bonus:
		return game.RarityEpic, false
	case roll < 55:
		return game.RarityRare, false
	default:
		return game.RarityUncommon, false
	}
}
