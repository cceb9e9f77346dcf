package storage

import (
	"github.com/DevelopmentCats/meowventure/internal/game"
)

// Repository is the persistence boundary for everything that outlives a
// battle. Implemented by the gorm store; tests substitute in-memory fakes.
type Repository interface {
	RosterByPlayer(playerID string) ([]game.RosterEntry, error)
	RosterEntry(playerID, catID string) (*game.RosterEntry, error)
	SaveRosterEntry(entry *game.RosterEntry) error

	Profile(playerID string) (*game.PlayerProfile, error)
	SaveProfile(profile *game.PlayerProfile) error

	AbilityStats() ([]game.AbilityStat, error)
	SaveAbilityStats(stats []game.AbilityStat) error
}
