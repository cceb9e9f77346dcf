package ai

import (
	"github.com/DevelopmentCats/meowventure/internal/game"
)

// Modifier tags applied when an action matches the situation the modifier
// describes.
const (
	modTryNewMoves    = "try_new_moves"
	modRiskTaking     = "risk_taking"
	modStealthMoves   = "stealth_moves"
	modStatusEffects  = "status_effects"
	modTeamSupport    = "team_support"
	modFinishingMoves = "finishing_moves"
)

// PersonalityProfile is derived once from a cat's personality type and
// battle style and stays fixed for the cat's lifetime.
type PersonalityProfile struct {
	Weights   map[game.AbilityCategory]float64
	Modifiers map[string]float64
}

var styleWeights = map[string]map[game.AbilityCategory]float64{
	"aggressive": {game.CategoryDamage: 1.5, game.CategorySupport: 0.7, game.CategoryDefensive: 0.5},
	"defensive":  {game.CategoryDamage: 0.7, game.CategorySupport: 1.0, game.CategoryDefensive: 1.5},
	"strategic":  {game.CategoryDamage: 1.0, game.CategorySupport: 1.2, game.CategoryDefensive: 1.0},
	"supportive": {game.CategoryDamage: 0.6, game.CategorySupport: 1.5, game.CategoryDefensive: 1.2},
}

var personalityModifiers = map[string]map[string]float64{
	"curious":    {modTryNewMoves: 1.2, modRiskTaking: 1.1},
	"mysterious": {modStealthMoves: 1.3, modStatusEffects: 1.2},
	"noble":      {modTeamSupport: 1.2, modFinishingMoves: 1.1},
}

// ProfileFor builds the immutable decision profile for a combatant.
// Unknown styles weight every category equally; unknown personalities
// carry no modifiers.
func ProfileFor(personalityType, battleStyle string) PersonalityProfile {
	weights, ok := styleWeights[battleStyle]
	if !ok {
		weights = map[game.AbilityCategory]float64{
			game.CategoryDamage: 1.0, game.CategorySupport: 1.0, game.CategoryDefensive: 1.0,
		}
	}
	return PersonalityProfile{
		Weights:   weights,
		Modifiers: personalityModifiers[personalityType],
	}
}

// StyleForPersonality maps a personality type to the AI style used by the
// initiative scheduler.
func StyleForPersonality(personalityType string) string {
	switch personalityType {
	case "fierce", "bold":
		return "aggressive"
	case "shy", "careful":
		return "cautious"
	case "clever", "wise":
		return "strategic"
	default:
		return "balanced"
	}
}
