package arena

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/DevelopmentCats/meowventure/internal/ai"
	"github.com/DevelopmentCats/meowventure/internal/catalog"
	"github.com/DevelopmentCats/meowventure/internal/constants"
	"github.com/DevelopmentCats/meowventure/internal/engine"
	"github.com/DevelopmentCats/meowventure/internal/game"
	"github.com/DevelopmentCats/meowventure/internal/logging"
)

const (
	maxTeamSize      = 3
	defaultMaxRounds = 15
)

// TeamMember overlays a player's progression onto a catalog cat.
type TeamMember struct {
	CatID          string         `json:"cat_id"`
	Level          int            `json:"level"`
	Exp            int            `json:"exp"`
	EvolutionStage int            `json:"evolution_stage"`
	Happiness      int            `json:"happiness"`
	Equipment      map[string]int `json:"equipment,omitempty"`
}

// CreateBattleParams configures a new battle.
type CreateBattleParams struct {
	PlayerID   string             `json:"player_id"`
	Team1      []TeamMember       `json:"team1"`
	Team2      []TeamMember       `json:"team2"`
	Scheduler  game.SchedulerKind `json:"scheduler"`
	Difficulty game.Difficulty    `json:"difficulty"`
	MaxRounds  int                `json:"max_rounds"`
	Auto       bool               `json:"auto"`
}

// Service owns battle lifecycle on top of the registry. One learning
// store is shared by every battle the service runs.
type Service struct {
	registry *Registry
	catalog  *catalog.Catalog
	learning *ai.LearningStore
	newRand  func() *rand.Rand
}

func NewService(cat *catalog.Catalog, registry *Registry, learning *ai.LearningStore) *Service {
	if learning == nil {
		learning = ai.NewLearningStore()
	}
	return &Service{
		registry: registry,
		catalog:  cat,
		learning: learning,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Learning exposes the shared store for persistence at shutdown.
func (s *Service) Learning() *ai.LearningStore { return s.learning }

// CreateBattle validates the teams, instantiates combatants from the
// catalog, initializes the controller and registers the battle.
func (s *Service) CreateBattle(params CreateBattleParams) (*game.Battle, error) {
	team1, err := s.buildTeam(params.Team1)
	if err != nil {
		return nil, err
	}
	team2, err := s.buildTeam(params.Team2)
	if err != nil {
		return nil, err
	}

	// Targeting resolves by cat id, so one battle cannot field the same
	// catalog cat twice.
	seen := make(map[string]bool, len(team1)+len(team2))
	for _, c := range append(append([]*game.Cat{}, team1...), team2...) {
		if seen[c.ID] {
			return nil, game.Validationf("cat '%s' appears more than once in the battle", c.ID)
		}
		seen[c.ID] = true
	}

	scheduler := params.Scheduler
	if scheduler == "" {
		scheduler = game.SchedulerRoundRobin
	}
	switch scheduler {
	case game.SchedulerRoundRobin, game.SchedulerInitiative:
	default:
		return nil, game.Validationf("unknown scheduler '%s'", scheduler)
	}

	difficulty := params.Difficulty
	if difficulty == "" {
		difficulty = game.DifficultyNormal
	}
	switch difficulty {
	case game.DifficultyEasy, game.DifficultyNormal, game.DifficultyHard, game.DifficultyExpert:
	default:
		return nil, game.Validationf("unknown difficulty '%s'", difficulty)
	}

	maxRounds := params.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}

	battle := &game.Battle{
		ID:         uuid.NewString(),
		PlayerID:   params.PlayerID,
		Team1:      team1,
		Team2:      team2,
		MaxRounds:  maxRounds,
		Phase:      game.PhaseCreated,
		Scheduler:  scheduler,
		Difficulty: difficulty,
		IsAuto:     params.Auto,
	}

	selector := ai.NewEnsemble(s.catalog, s.learning)
	ctrl := engine.NewController(battle, s.catalog, selector, s.newRand())
	if err := ctrl.Initialize(); err != nil {
		return nil, err
	}
	s.registry.add(battle.ID, ctrl)

	logging.Info("battle created", logging.Fields{
		constants.LogFieldBattleID: battle.ID,
		"scheduler":                string(scheduler),
		"difficulty":               string(difficulty),
		"team1_size":               len(team1),
		"team2_size":               len(team2),
	})
	return battle.Clone(), nil
}

func (s *Service) buildTeam(members []TeamMember) ([]*game.Cat, error) {
	if len(members) == 0 {
		return nil, game.Validationf("a team needs at least one cat")
	}
	if len(members) > maxTeamSize {
		return nil, game.Validationf("a team holds at most %d cats", maxTeamSize)
	}
	team := make([]*game.Cat, 0, len(members))
	for _, m := range members {
		c, err := s.catalog.NewCat(m.CatID)
		if err != nil {
			return nil, game.Validationf("unknown cat '%s'", m.CatID)
		}
		if m.Level > 0 {
			c.Level = m.Level
		}
		if m.Exp > 0 {
			c.Exp = m.Exp
		}
		if m.EvolutionStage > 0 {
			c.EvolutionStage = m.EvolutionStage
		}
		if m.Happiness > 0 {
			c.Happiness = m.Happiness
		}
		c.EquipmentBoosts = m.Equipment
		c.AIStyle = ai.StyleForPersonality(c.PersonalityType)
		game.CalculateCurrentStats(c)
		c.CurrentHP = c.CurrentStats.HP
		team = append(team, c)
	}
	return team, nil
}

// ProcessTurn advances the battle under its own lock. action carries the
// player's move for non-auto battles and is nil for auto ones.
func (s *Service) ProcessTurn(battleID string, action *game.Action) (*engine.TurnResult, error) {
	entry, ok := s.registry.get(battleID)
	if !ok {
		return nil, game.Concurrencyf("battle '%s' not found", battleID)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched = time.Now()
	res, err := entry.ctrl.ProcessTurn(action)
	if res != nil && res.State != nil {
		res.State = res.State.Clone()
	}
	return res, err
}

// BattleState returns a deep-copied snapshot taken under the battle's
// lock, so callers can read or serialize it while turns keep processing.
func (s *Service) BattleState(battleID string) (*game.Battle, error) {
	entry, ok := s.registry.get(battleID)
	if !ok {
		return nil, game.Concurrencyf("battle '%s' not found", battleID)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.ctrl.Battle().Clone(), nil
}

// CancelBattle concludes a battle with no winner and removes it.
func (s *Service) CancelBattle(battleID string) (*game.Battle, error) {
	entry, ok := s.registry.get(battleID)
	if !ok {
		return nil, game.Concurrencyf("battle '%s' not found", battleID)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.ctrl.Cancel(); err != nil {
		return nil, err
	}
	s.registry.Remove(battleID)
	logging.Info("battle cancelled", logging.Fields{constants.LogFieldBattleID: battleID})
	return entry.ctrl.Battle(), nil
}

// EndBattle removes a concluded battle from the registry and hands back
// its final state. Removing a battle that is still running is refused.
func (s *Service) EndBattle(battleID string) (*game.Battle, error) {
	entry, ok := s.registry.get(battleID)
	if !ok {
		return nil, game.Concurrencyf("battle '%s' not found", battleID)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	b := entry.ctrl.Battle()
	if b.IsActive {
		return nil, game.Concurrencyf("battle '%s' is still in progress", battleID)
	}
	s.registry.Remove(battleID)
	return b, nil
}

// SweepStale cancels and removes battles idle for longer than maxIdle.
// Returns how many were reaped.
func (s *Service) SweepStale(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	reaped := 0
	for _, id := range s.registry.idleSince(cutoff) {
		entry, ok := s.registry.get(id)
		if !ok {
			continue
		}
		entry.mu.Lock()
		if entry.touched.Before(cutoff) {
			_ = entry.ctrl.Cancel()
			s.registry.Remove(id)
			reaped++
			logging.Info("stale battle reaped", logging.Fields{constants.LogFieldBattleID: id})
		}
		entry.mu.Unlock()
	}
	return reaped
}
