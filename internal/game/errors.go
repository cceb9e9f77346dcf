package game

import (
	"errors"
	"fmt"
)

// Error categories. Concrete failures wrap one of these so callers can
// classify with errors.Is without matching message text.
var (
	// ErrValidation covers illegal actions, unknown ids and malformed
	// team compositions.
	ErrValidation = errors.New("validation error")
	// ErrResource covers insufficient energy and abilities on cooldown.
	ErrResource = errors.New("resource error")
	// ErrConcurrency covers unknown battle ids and battles already
	// concluded.
	ErrConcurrency = errors.New("concurrency error")
	// ErrSimulation covers internal invariant violations (empty turn
	// order, negative hp before clamping).
	ErrSimulation = errors.New("simulation error")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func Resourcef(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrResource)
}

func Concurrencyf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConcurrency)
}

func Simulationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSimulation)
}

// CatalogView is the read-only slice of the loaded catalog the battle core
// needs. *catalog.Catalog satisfies it.
type CatalogView interface {
	Ability(id string) (Ability, bool)
	HasAdvantage(attacker, defender Affinity) bool
}
