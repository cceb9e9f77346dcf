package roster

import (
	"github.com/DevelopmentCats/meowventure/internal/catalog"
	"github.com/DevelopmentCats/meowventure/internal/constants"
	"github.com/DevelopmentCats/meowventure/internal/gacha"
	"github.com/DevelopmentCats/meowventure/internal/game"
	"github.com/DevelopmentCats/meowventure/internal/logging"
	"github.com/DevelopmentCats/meowventure/internal/storage"
)

const (
	battleWinXP        = 50
	battleWinHappiness = 5
	startingCatnip     = 500
)

// Reward is what one cat earned from a won battle.
type Reward struct {
	CatID        string `json:"cat_id"`
	XPGained     int    `json:"xp_gained"`
	LevelsGained int    `json:"levels_gained"`
	NewLevel     int    `json:"new_level"`
}

// Summon is a draw result enriched with the roster effect.
type Summon struct {
	gacha.DrawResult
	CatName string `json:"cat_name"`
}

// Service applies progression and summon outcomes to persistent player
// state. Battle simulation itself never touches the repository.
type Service struct {
	repo    storage.Repository
	catalog *catalog.Catalog
	gacha   *gacha.Engine
}

func NewService(repo storage.Repository, cat *catalog.Catalog, engine *gacha.Engine) *Service {
	return &Service{repo: repo, catalog: cat, gacha: engine}
}

// Roster lists the player's owned cats.
func (s *Service) Roster(playerID string) ([]game.RosterEntry, error) {
	if playerID == "" {
		return nil, game.Validationf("player id is required")
	}
	return s.repo.RosterByPlayer(playerID)
}

// ApplyBattleRewards grants the winning team experience and happiness and
// bumps the player's win counter. Cats not on the player's roster are
// skipped rather than failing the whole reward pass.
func (s *Service) ApplyBattleRewards(playerID string, catIDs []string) ([]Reward, error) {
	if playerID == "" {
		return nil, game.Validationf("player id is required")
	}
	rewards := make([]Reward, 0, len(catIDs))
	for _, catID := range catIDs {
		entry, err := s.repo.RosterEntry(playerID, catID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			logging.Warn("reward skipped for cat outside roster", nil, logging.Fields{
				constants.LogFieldPlayerID: playerID,
				constants.LogFieldCatID:    catID,
			})
			continue
		}
		reward, err := s.grantExp(entry, battleWinXP)
		if err != nil {
			return nil, err
		}
		entry.Happiness += battleWinHappiness
		if entry.Happiness > 100 {
			entry.Happiness = 100
		}
		if err := s.repo.SaveRosterEntry(entry); err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}

	profile, err := s.loadProfile(playerID)
	if err != nil {
		return nil, err
	}
	profile.BattlesWon++
	if err := s.repo.SaveProfile(profile); err != nil {
		return nil, err
	}
	return rewards, nil
}

// grantExp runs the level curve against a catalog-backed cat and writes
// the result back to the roster entry.
func (s *Service) grantExp(entry *game.RosterEntry, amount int) (Reward, error) {
	c, err := s.catalog.NewCat(entry.CatID)
	if err != nil {
		return Reward{}, game.Resourcef("roster entry references unknown cat '%s'", entry.CatID)
	}
	c.Level = entry.Level
	c.Exp = entry.Exp
	c.EvolutionStage = entry.EvolutionStage
	res := game.GainExp(c, amount)
	entry.Level = c.Level
	entry.Exp = c.Exp
	return Reward{
		CatID:        entry.CatID,
		XPGained:     amount,
		LevelsGained: res.LevelsGained,
		NewLevel:     res.NewLevel,
	}, nil
}

// Summon performs one paid draw from the pool, granting a new roster
// entry or converting a duplicate into fragments and bonus experience.
func (s *Service) Summon(playerID, poolID string) (*Summon, error) {
	pool, profile, owned, err := s.prepareSummon(playerID, poolID)
	if err != nil {
		return nil, err
	}
	if profile.Catnip < pool.Cost {
		return nil, game.Validationf("not enough catnip for pool '%s'", poolID)
	}

	res, err := s.gacha.Draw(pool, profile.PityCounter, owned)
	if err != nil {
		return nil, err
	}
	profile.Catnip -= pool.Cost
	if pool.Premium {
		profile.PityCounter = res.NewPity
	}
	out, err := s.applyDraw(playerID, res)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveProfile(profile); err != nil {
		return nil, err
	}
	logging.Info("summon drawn", logging.Fields{
		constants.LogFieldPlayerID: playerID,
		constants.LogFieldPoolID:   poolID,
		constants.LogFieldCatID:    res.CatID,
		"rarity":                   string(res.Rarity),
	})
	return out, nil
}

// MultiSummon performs the discounted ten-draw. The pool must be premium.
func (s *Service) MultiSummon(playerID, poolID string) ([]Summon, error) {
	pool, profile, owned, err := s.prepareSummon(playerID, poolID)
	if err != nil {
		return nil, err
	}
	if !pool.Premium {
		return nil, game.Validationf("pool '%s' does not offer multi-summons", poolID)
	}
	cost := pool.Cost * 10
	if profile.Catnip < cost {
		return nil, game.Validationf("not enough catnip for pool '%s'", poolID)
	}

	results, err := s.gacha.MultiDraw(pool, profile.PityCounter, owned)
	if err != nil {
		return nil, err
	}
	profile.Catnip -= cost
	outs := make([]Summon, 0, len(results))
	for _, res := range results {
		out, err := s.applyDraw(playerID, res)
		if err != nil {
			return nil, err
		}
		profile.PityCounter = res.NewPity
		outs = append(outs, *out)
	}
	if err := s.repo.SaveProfile(profile); err != nil {
		return nil, err
	}
	return outs, nil
}

func (s *Service) prepareSummon(playerID, poolID string) (gacha.PoolConfig, *game.PlayerProfile, map[string]bool, error) {
	if playerID == "" {
		return gacha.PoolConfig{}, nil, nil, game.Validationf("player id is required")
	}
	cp, ok := s.catalog.Pools[poolID]
	if !ok {
		return gacha.PoolConfig{}, nil, nil, game.Resourcef("pool '%s' not found", poolID)
	}
	pool := gacha.PoolConfig{ID: cp.ID, Premium: cp.Premium, Cost: cp.Cost}

	profile, err := s.loadProfile(playerID)
	if err != nil {
		return gacha.PoolConfig{}, nil, nil, err
	}
	entries, err := s.repo.RosterByPlayer(playerID)
	if err != nil {
		return gacha.PoolConfig{}, nil, nil, err
	}
	owned := make(map[string]bool, len(entries))
	for _, e := range entries {
		owned[e.CatID] = true
	}
	return pool, profile, owned, nil
}

// applyDraw writes one draw outcome to the roster: a fresh entry for a
// new cat, fragment and experience conversion for a duplicate.
func (s *Service) applyDraw(playerID string, res gacha.DrawResult) (*Summon, error) {
	c, err := s.catalog.NewCat(res.CatID)
	if err != nil {
		return nil, game.Resourcef("pool produced unknown cat '%s'", res.CatID)
	}
	out := &Summon{DrawResult: res, CatName: c.Name}

	if !res.Duplicate {
		entry := &game.RosterEntry{
			PlayerID:       playerID,
			CatID:          res.CatID,
			Level:          1,
			EvolutionStage: 1,
			Happiness:      50,
		}
		if err := s.repo.SaveRosterEntry(entry); err != nil {
			return nil, err
		}
		return out, nil
	}

	entry, err := s.repo.RosterEntry(playerID, res.CatID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, game.Resourcef("duplicate draw for cat '%s' missing from roster", res.CatID)
	}
	entry.Fragments += res.Fragments
	if res.BonusXP > 0 {
		if _, err := s.grantExp(entry, res.BonusXP); err != nil {
			return nil, err
		}
	}
	if err := s.repo.SaveRosterEntry(entry); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) loadProfile(playerID string) (*game.PlayerProfile, error) {
	profile, err := s.repo.Profile(playerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &game.PlayerProfile{PlayerID: playerID, Catnip: startingCatnip}
	}
	return profile, nil
}
