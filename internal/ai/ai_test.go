package ai

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

type fakeCatalog struct {
	abilities  map[string]game.Ability
	advantages map[game.Affinity]game.Affinity
}

func (f fakeCatalog) Ability(id string) (game.Ability, bool) {
	a, ok := f.abilities[id]
	return a, ok
}

func (f fakeCatalog) HasAdvantage(attacker, defender game.Affinity) bool {
	return f.advantages[attacker] == defender
}

func testCat(id string, hp, attack, defense, speed int) *game.Cat {
	return &game.Cat{
		ID:   id,
		Name: id,
		CurrentStats: game.Stats{
			HP: hp, Attack: attack, Defense: defense, Speed: speed,
		},
		CurrentHP:        hp,
		Energy:           100,
		AbilityCooldowns: map[string]int{},
		PersonalityType:  "curious",
		BattleStyle:      "aggressive",
	}
}

func testState(actor *game.Cat, enemies ...*game.Cat) *game.BattleState {
	return &game.BattleState{
		Active:  actor,
		Allies:  []*game.Cat{actor},
		Enemies: enemies,
	}
}

func damageAbility(id string, cost int) game.Ability {
	return game.Ability{ID: id, Name: id, Category: game.CategoryDamage, EnergyCost: cost}
}

func TestStyleForPersonality(t *testing.T) {
	cases := map[string]string{
		"fierce":     "aggressive",
		"bold":       "aggressive",
		"shy":        "cautious",
		"careful":    "cautious",
		"clever":     "strategic",
		"wise":       "strategic",
		"mysterious": "balanced",
		"":           "balanced",
	}
	for personality, want := range cases {
		if got := StyleForPersonality(personality); got != want {
			t.Errorf("StyleForPersonality(%q) = %q, want %q", personality, got, want)
		}
	}
}

func TestProfileFor_WeightTables(t *testing.T) {
	p := ProfileFor("curious", "aggressive")
	if p.Weights[game.CategoryDamage] != 1.5 || p.Weights[game.CategoryDefensive] != 0.5 {
		t.Fatalf("aggressive weights wrong: %+v", p.Weights)
	}
	if p.Modifiers[modTryNewMoves] != 1.2 || p.Modifiers[modRiskTaking] != 1.1 {
		t.Fatalf("curious modifiers wrong: %+v", p.Modifiers)
	}

	p = ProfileFor("unknown", "unknown")
	for _, cat := range []game.AbilityCategory{game.CategoryDamage, game.CategorySupport, game.CategoryDefensive} {
		if p.Weights[cat] != 1.0 {
			t.Fatalf("default weight for %s = %v, want 1.0", cat, p.Weights[cat])
		}
	}
	if len(p.Modifiers) != 0 {
		t.Fatalf("default modifiers not empty: %+v", p.Modifiers)
	}
}

func TestChoose_FavorsAbilityOverBasic(t *testing.T) {
	catalog := fakeCatalog{abilities: map[string]game.Ability{
		"pounce": damageAbility("pounce", 20),
	}}
	e := NewEnsemble(catalog, NewLearningStore())
	actor := testCat("a", 100, 20, 10, 15)
	actor.Abilities = []string{"pounce"}
	enemy := testCat("b", 100, 15, 5, 10)

	action, err := e.Choose(testState(actor, enemy), actor, game.DifficultyNormal, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if action.Kind != game.ActionAbility || action.AbilityID != "pounce" {
		t.Fatalf("chose %+v, want pounce ability", action)
	}
	if action.TargetID != "b" {
		t.Fatalf("target = %q, want b", action.TargetID)
	}
	if action.EnergyCost != 20 {
		t.Fatalf("energy cost = %d, want 20", action.EnergyCost)
	}
}

func TestChoose_SkipsIllegalAbilities(t *testing.T) {
	catalog := fakeCatalog{abilities: map[string]game.Ability{
		"costly":   damageAbility("costly", 90),
		"cooldown": damageAbility("cooldown", 10),
	}}
	e := NewEnsemble(catalog, NewLearningStore())
	actor := testCat("a", 100, 20, 10, 15)
	actor.Abilities = []string{"costly", "cooldown"}
	actor.Energy = 50
	actor.AbilityCooldowns["cooldown"] = 2
	enemy := testCat("b", 100, 15, 5, 10)

	action, err := e.Choose(testState(actor, enemy), actor, game.DifficultyNormal, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if action.Kind != game.ActionBasicAttack {
		t.Fatalf("chose %+v, want basic_attack with all abilities illegal", action)
	}
}

func TestChoose_TargetsWeakestEnemy(t *testing.T) {
	e := NewEnsemble(fakeCatalog{}, NewLearningStore())
	actor := testCat("a", 100, 20, 10, 15)
	healthy := testCat("b", 100, 15, 5, 10)
	wounded := testCat("c", 100, 15, 5, 10)
	wounded.CurrentHP = 20
	dead := testCat("d", 100, 15, 5, 10)
	dead.CurrentHP = 0

	action, err := e.Choose(testState(actor, healthy, wounded, dead), actor, game.DifficultyNormal, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if action.TargetID != "c" {
		t.Fatalf("target = %q, want the weakest living enemy", action.TargetID)
	}
}

func TestChoose_NoLivingTarget(t *testing.T) {
	e := NewEnsemble(fakeCatalog{}, NewLearningStore())
	actor := testCat("a", 100, 20, 10, 15)
	dead := testCat("b", 100, 15, 5, 10)
	dead.CurrentHP = 0

	_, err := e.Choose(testState(actor, dead), actor, game.DifficultyNormal, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatalf("expected error with no living target")
	}
	if !errors.Is(err, game.ErrSimulation) {
		t.Fatalf("error = %v, want simulation error", err)
	}
}

func TestChoose_HigherDifficultyStaysDeterministic(t *testing.T) {
	catalog := fakeCatalog{abilities: map[string]game.Ability{
		"pounce": damageAbility("pounce", 20),
	}}
	e := NewEnsemble(catalog, NewLearningStore())
	actor := testCat("a", 100, 20, 10, 15)
	actor.Abilities = []string{"pounce"}
	enemy := testCat("b", 100, 15, 5, 10)

	for seed := int64(0); seed < 20; seed++ {
		for _, diff := range []game.Difficulty{game.DifficultyNormal, game.DifficultyHard, game.DifficultyExpert} {
			action, err := e.Choose(testState(actor, enemy), actor, diff, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("choose: %v", err)
			}
			if action.Kind != game.ActionAbility {
				t.Fatalf("seed %d difficulty %s: random branch fired for modifier >= 1", seed, diff)
			}
		}
	}
}

func TestChoose_EasyDifficultyStaysLegal(t *testing.T) {
	catalog := fakeCatalog{abilities: map[string]game.Ability{
		"pounce": damageAbility("pounce", 20),
	}}
	e := NewEnsemble(catalog, NewLearningStore())
	actor := testCat("a", 100, 20, 10, 15)
	actor.Abilities = []string{"pounce"}
	enemy := testCat("b", 100, 15, 5, 10)

	for seed := int64(0); seed < 50; seed++ {
		action, err := e.Choose(testState(actor, enemy), actor, game.DifficultyEasy, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("choose: %v", err)
		}
		switch action.Kind {
		case game.ActionBasicAttack, game.ActionAbility:
		default:
			t.Fatalf("seed %d: illegal action %+v", seed, action)
		}
	}
}

func TestLearningStore_SuccessRate(t *testing.T) {
	s := NewLearningStore()
	if s.SuccessRate("pounce") != 0 {
		t.Fatalf("unused ability should have rate 0")
	}
	s.Record("pounce", true)
	s.Record("pounce", true)
	s.Record("pounce", false)
	if got := s.SuccessRate("pounce"); got < 0.66 || got > 0.67 {
		t.Fatalf("rate = %v, want 2/3", got)
	}
	if s.Uses("pounce") != 3 {
		t.Fatalf("uses = %d, want 3", s.Uses("pounce"))
	}
}

func TestLearningStore_SeedAndSnapshot(t *testing.T) {
	s := NewLearningStore()
	s.Seed([]game.AbilityStat{{AbilityID: "pounce", Uses: 10, Successes: 8}})
	if got := s.SuccessRate("pounce"); got != 0.8 {
		t.Fatalf("seeded rate = %v, want 0.8", got)
	}
	s.Record("pounce", false)
	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].Uses != 11 || snap[0].Successes != 8 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestReportOutcome_FeedsLearning(t *testing.T) {
	store := NewLearningStore()
	e := NewEnsemble(fakeCatalog{}, store)
	e.ReportOutcome(game.Action{Kind: game.ActionAbility, AbilityID: "pounce"}, true)
	e.ReportOutcome(game.Action{Kind: game.ActionBasicAttack}, true)
	if store.Uses("pounce") != 1 {
		t.Fatalf("ability outcome not recorded")
	}
	if len(store.Snapshot()) != 1 {
		t.Fatalf("basic attack should not be recorded")
	}
}

func TestChoose_LearnedSuccessBiasesSelection(t *testing.T) {
	catalog := fakeCatalog{abilities: map[string]game.Ability{
		"reliable": damageAbility("reliable", 20),
		"flaky":    damageAbility("flaky", 20),
	}}
	store := NewLearningStore()
	store.Seed([]game.AbilityStat{
		{AbilityID: "reliable", Uses: 10, Successes: 10},
		{AbilityID: "flaky", Uses: 10, Successes: 0},
	})
	e := NewEnsemble(catalog, store)
	actor := testCat("a", 100, 20, 10, 15)
	actor.PersonalityType = "plain"
	actor.Abilities = []string{"flaky", "reliable"}
	enemy := testCat("b", 100, 15, 5, 10)

	action, err := e.Choose(testState(actor, enemy), actor, game.DifficultyNormal, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if action.AbilityID != "reliable" {
		t.Fatalf("chose %q, want the historically successful ability", action.AbilityID)
	}
}
