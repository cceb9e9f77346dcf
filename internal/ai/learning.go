package ai

import (
	"sync"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

type abilityRecord struct {
	uses      int
	successes int
}

// LearningStore tracks per-ability outcome statistics. The statistics are
// shared across every battle using the same store, so a frequently
// successful ability gets favored process-wide.
type LearningStore struct {
	mu    sync.Mutex
	stats map[string]*abilityRecord
}

func NewLearningStore() *LearningStore {
	return &LearningStore{stats: map[string]*abilityRecord{}}
}

// Record registers one use of an ability and whether it succeeded.
func (s *LearningStore) Record(abilityID string, success bool) {
	if abilityID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.stats[abilityID]
	if rec == nil {
		rec = &abilityRecord{}
		s.stats[abilityID] = rec
	}
	rec.uses++
	if success {
		rec.successes++
	}
}

// SuccessRate returns successes/uses for the ability, 0 when unused.
func (s *LearningStore) SuccessRate(abilityID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.stats[abilityID]
	if rec == nil || rec.uses == 0 {
		return 0
	}
	return float64(rec.successes) / float64(rec.uses)
}

// Uses returns how many times the ability has been attempted.
func (s *LearningStore) Uses(abilityID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.stats[abilityID]
	if rec == nil {
		return 0
	}
	return rec.uses
}

// Seed loads persisted statistics, replacing any in-memory counts for the
// same ability ids.
func (s *LearningStore) Seed(stats []game.AbilityStat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range stats {
		s.stats[st.AbilityID] = &abilityRecord{uses: st.Uses, successes: st.Successes}
	}
}

// Snapshot exports the current statistics for persistence.
func (s *LearningStore) Snapshot() []game.AbilityStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game.AbilityStat, 0, len(s.stats))
	for id, rec := range s.stats {
		out = append(out, game.AbilityStat{AbilityID: id, Uses: rec.uses, Successes: rec.successes})
	}
	return out
}
