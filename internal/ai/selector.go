package ai

import (
	"math/rand"
	"sort"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

// Pass weights for the three scoring terms. The original design ran three
// separate decision passes; they collapse here into one aggregate with the
// pass weights preserved as term weights.
const (
	primaryWeight     = 1.0
	personalityWeight = 0.8
	tacticalWeight    = 0.9
)

const (
	baseBasicAttack = 50.0
	baseAbility     = 70.0
	finisherBonus   = 20.0
)

var difficultyModifiers = map[game.Difficulty]float64{
	game.DifficultyEasy:   0.8,
	game.DifficultyNormal: 1.0,
	game.DifficultyHard:   1.2,
	game.DifficultyExpert: 1.5,
}

// Ensemble scores every legal action with weighted primary, personality
// and tactical terms and picks the highest aggregate. It satisfies the
// engine's Selector interface.
type Ensemble struct {
	catalog  game.CatalogView
	learning *LearningStore
}

func NewEnsemble(catalog game.CatalogView, learning *LearningStore) *Ensemble {
	return &Ensemble{catalog: catalog, learning: learning}
}

type candidate struct {
	action   game.Action
	ability  *game.Ability
	base     float64
	score    float64
	finisher bool
}

// Choose enumerates legal actions for the actor and returns the winner of
// the weighted scoring. Ties favor an ability over a basic attack.
func (e *Ensemble) Choose(state *game.BattleState, actor *game.Cat, difficulty game.Difficulty, rng *rand.Rand) (game.Action, error) {
	target := weakestEnemy(state.Enemies)
	if target == nil {
		return game.Action{}, game.Simulationf("no living target for %s", actor.ID)
	}

	cands := e.legalActions(actor, target)
	if len(cands) == 0 {
		return game.Action{}, game.Simulationf("no legal action for %s", actor.ID)
	}

	profile := ProfileFor(actor.PersonalityType, actor.BattleStyle)
	tactical := e.tacticalMultiplier(state, actor, target)
	for i := range cands {
		e.scoreCandidate(&cands[i], profile, tactical)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].action.Kind == game.ActionAbility && cands[j].action.Kind != game.ActionAbility
	})

	chosen := cands[0]
	modifier := difficultyModifiers[difficulty]
	if modifier == 0 {
		modifier = 1.0
	}
	// Lower difficulties deliberately wobble: with probability
	// 1-modifier the pick is uniform among the top three. Modifiers
	// at or above 1.0 never take this branch.
	if rng.Float64() < 1-modifier {
		top := cands
		if len(top) > 3 {
			top = top[:3]
		}
		chosen = top[rng.Intn(len(top))]
	}
	return chosen.action, nil
}

// ReportOutcome feeds the resolution result back into the learning store.
// Basic attacks carry no ability id and record nothing.
func (e *Ensemble) ReportOutcome(action game.Action, success bool) {
	if action.Kind == game.ActionAbility {
		e.learning.Record(action.AbilityID, success)
	}
}

func (e *Ensemble) legalActions(actor *game.Cat, target *game.Cat) []candidate {
	finisher := target.HPRatio() < 0.3

	basic := candidate{
		action: game.Action{
			Kind:     game.ActionBasicAttack,
			TargetID: target.ID,
			Style:    game.ChooseStyle(actor, target),
		},
		base:     baseBasicAttack,
		finisher: finisher,
	}
	if finisher {
		basic.base += finisherBonus
	}
	cands := []candidate{basic}

	for _, id := range actor.Abilities {
		ability, ok := e.catalog.Ability(id)
		if !ok {
			continue
		}
		if actor.Energy < ability.EnergyCost {
			continue
		}
		if cd, onCooldown := actor.AbilityCooldowns[id]; onCooldown && cd > 0 {
			continue
		}
		a := ability
		cands = append(cands, candidate{
			action: game.Action{
				Kind:       game.ActionAbility,
				AbilityID:  id,
				TargetID:   target.ID,
				EnergyCost: ability.EnergyCost,
			},
			ability:  &a,
			base:     baseAbility,
			finisher: finisher,
		})
	}
	return cands
}

func (e *Ensemble) scoreCandidate(c *candidate, profile PersonalityProfile, tactical float64) {
	category := game.CategoryDamage
	if c.ability != nil {
		category = c.ability.Category
	}
	weight := profile.Weights[category]
	if weight == 0 {
		weight = 1.0
	}
	mods := e.applicableModifiers(c, profile)

	learned := 1.0
	if c.ability != nil {
		learned = 0.5 + e.learning.SuccessRate(c.ability.ID)
	}

	primary := c.base * learned
	personality := c.base * weight * mods
	tacticalTerm := c.base * tactical

	c.score = primary*primaryWeight + personality*personalityWeight + tacticalTerm*tacticalWeight
}

func (e *Ensemble) applicableModifiers(c *candidate, profile PersonalityProfile) float64 {
	if len(profile.Modifiers) == 0 {
		return 1.0
	}
	mult := 1.0
	apply := func(tag string) {
		if m, ok := profile.Modifiers[tag]; ok {
			mult *= m
		}
	}
	if c.finisher {
		apply(modFinishingMoves)
	}
	if c.ability != nil {
		apply(modRiskTaking)
		if e.learning.Uses(c.ability.ID) == 0 {
			apply(modTryNewMoves)
		}
		if c.ability.Status != nil {
			apply(modStatusEffects)
		}
		if c.ability.Category == game.CategorySupport {
			apply(modTeamSupport)
		}
	} else if c.action.Style == game.StyleQuick {
		apply(modStealthMoves)
	}
	return mult
}

func (e *Ensemble) tacticalMultiplier(state *game.BattleState, actor, target *game.Cat) float64 {
	mult := 1.0
	if teamAverageHP(state.Allies) < 0.5 {
		mult *= 1.2
	}
	if e.catalog.HasAdvantage(actor.Affinity, target.Affinity) {
		mult *= 1.3
	}
	return mult
}

func weakestEnemy(enemies []*game.Cat) *game.Cat {
	var weakest *game.Cat
	for _, e := range enemies {
		if !e.IsAlive() {
			continue
		}
		if weakest == nil || e.HPRatio() < weakest.HPRatio() {
			weakest = e
		}
	}
	return weakest
}

func teamAverageHP(team []*game.Cat) float64 {
	if len(team) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range team {
		total += c.HPRatio()
	}
	return total / float64(len(team))
}
