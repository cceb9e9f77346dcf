package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository wraps a migrated gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) RosterByPlayer(playerID string) ([]game.RosterEntry, error) {
	var entries []game.RosterEntry
	if err := r.db.Where("player_id = ?", playerID).Order("cat_id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormRepository) RosterEntry(playerID, catID string) (*game.RosterEntry, error) {
	var entry game.RosterEntry
	err := r.db.Where("player_id = ? AND cat_id = ?", playerID, catID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *gormRepository) SaveRosterEntry(entry *game.RosterEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}, {Name: "cat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"level", "exp", "evolution_stage", "happiness", "fragments", "updated_at",
		}),
	}).Create(entry).Error
}

func (r *gormRepository) Profile(playerID string) (*game.PlayerProfile, error) {
	var profile game.PlayerProfile
	err := r.db.Where("player_id = ?", playerID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormRepository) SaveProfile(profile *game.PlayerProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"catnip", "pity_counter", "battles_won", "updated_at",
		}),
	}).Create(profile).Error
}

func (r *gormRepository) AbilityStats() ([]game.AbilityStat, error) {
	var stats []game.AbilityStat
	if err := r.db.Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *gormRepository) SaveAbilityStats(stats []game.AbilityStat) error {
	if len(stats) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ability_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"uses", "successes", "updated_at",
		}),
	}).Create(&stats).Error
}
