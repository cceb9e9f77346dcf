package engine

import (
	"fmt"
	"math/rand"

	"github.com/DevelopmentCats/meowventure/internal/game"
	"github.com/DevelopmentCats/meowventure/internal/logging"
)

const recentLogWindow = 10

// Selector picks an action for an AI-controlled combatant. Implemented by
// the ai package; kept as an interface so tests can script decisions.
type Selector interface {
	Choose(state *game.BattleState, actor *game.Cat, difficulty game.Difficulty, rng *rand.Rand) (game.Action, error)
	ReportOutcome(action game.Action, success bool)
}

// TurnResult is what one ProcessTurn call hands back to the caller.
type TurnResult struct {
	LogLines     []string          `json:"log_lines"`
	BattleActive bool              `json:"battle_active"`
	NextActor    string            `json:"next_actor,omitempty"`
	State        *game.BattleState `json:"state"`
}

// Controller drives a single battle through its lifecycle. It is not safe
// for concurrent use; the registry serializes access per battle.
type Controller struct {
	battle    *game.Battle
	catalog   game.CatalogView
	scheduler Scheduler
	resolver  *Resolver
	selector  Selector
	rng       *rand.Rand
}

func NewController(b *game.Battle, catalog game.CatalogView, selector Selector, rng *rand.Rand) *Controller {
	return &Controller{
		battle:    b,
		catalog:   catalog,
		scheduler: NewScheduler(b.Scheduler),
		resolver:  NewResolver(catalog, rng),
		selector:  selector,
		rng:       rng,
	}
}

func (c *Controller) Battle() *game.Battle { return c.battle }

// Initialize resets every combatant to battle-ready state and computes the
// initial turn order. Valid only from the created phase.
func (c *Controller) Initialize() error {
	if c.battle.Phase != game.PhaseCreated {
		return game.Validationf("battle %s already initialized", c.battle.ID)
	}
	for _, cat := range c.battle.AllCats() {
		game.CalculateCurrentStats(cat)
		cat.CurrentHP = cat.CurrentStats.HP
		cat.Energy = 100
		cat.StatusEffects = nil
		cat.Combo = 0
		cat.AbilityCooldowns = map[string]int{}
	}
	c.battle.TurnOrder = BuildTurnOrder(c.battle)
	c.battle.CurrentTurn = 0
	c.battle.Round = 1
	c.battle.Phase = game.PhaseInitialized
	c.battle.IsActive = true
	return nil
}

// ProcessTurn advances the battle: one combatant under round_robin, one
// full round under per_round_initiative. playerAction supplies the move
// for the first team1 actor in a non-auto battle and is ignored otherwise.
// It never blocks; callers can render state between calls.
func (c *Controller) ProcessTurn(playerAction *game.Action) (*TurnResult, error) {
	b := c.battle
	switch b.Phase {
	case game.PhaseInitialized, game.PhaseInProgress:
	case game.PhaseCreated:
		return nil, game.Validationf("battle %s not initialized", b.ID)
	default:
		return nil, game.Validationf("battle %s already concluded", b.ID)
	}
	b.Phase = game.PhaseInProgress

	actors := c.scheduler.NextActors(b, c.rng)
	if len(actors) == 0 {
		c.checkConclusion()
		return c.result(nil), nil
	}

	var lines []string
	playerActionUsed := false
	for _, actor := range actors {
		var act *game.Action
		if !b.IsAuto && !playerActionUsed && b.SideOf(actor) == game.SideTeam1 && actor.IsAlive() {
			// A stunned combatant cannot act, so its turn advances
			// without a posted action.
			if IsStunned(actor) {
				playerActionUsed = true
			} else {
				if playerAction == nil {
					return nil, game.Validationf("battle %s awaits a player action for %s", b.ID, actor.Name)
				}
				act = playerAction
				playerActionUsed = true
			}
		}
		turnLines := c.takeTurn(actor, act)
		lines = append(lines, turnLines...)
		b.Log = append(b.Log, turnLines...)
		if c.checkConclusion() {
			break
		}
	}

	if b.IsActive {
		c.advance()
		c.checkConclusion()
	}
	return c.result(lines), nil
}

// Cancel concludes the battle immediately with no winner.
func (c *Controller) Cancel() error {
	if c.battle.Phase == game.PhaseConcluded {
		return game.Validationf("battle %s already concluded", c.battle.ID)
	}
	c.battle.Phase = game.PhaseConcluded
	c.battle.IsActive = false
	c.battle.Winner = game.SideNone
	c.battle.Reason = game.ConcludeCancelled
	c.battle.Log = append(c.battle.Log, "the battle was called off")
	return nil
}

func (c *Controller) takeTurn(actor *game.Cat, playerAction *game.Action) []string {
	b := c.battle
	if !actor.IsAlive() {
		return nil
	}

	// The stun check precedes the status tick so a one-turn stun still
	// costs the victim its action before wearing off.
	stunned := IsStunned(actor)
	lines := ProcessTurnStart(actor)
	for id, left := range actor.AbilityCooldowns {
		if left <= 1 {
			delete(actor.AbilityCooldowns, id)
		} else {
			actor.AbilityCooldowns[id] = left - 1
		}
	}
	if !actor.IsAlive() {
		lines = append(lines, actor.Name+" succumbed to their wounds")
		return lines
	}
	if stunned {
		lines = append(lines, actor.Name+" is stunned and cannot act")
		return lines
	}

	enemies := c.enemiesOf(actor)
	action := c.decideAction(actor, playerAction, lines)
	target := pickTarget(enemies, action.TargetID)
	if target == nil {
		lines = append(lines, actor.Name+" found no one left to fight")
		return lines
	}

	out := c.execute(actor, target, action)
	if out.Failed && action.Kind == game.ActionAbility {
		// The attempted ability counts as a failure for learning before
		// the fallback swaps the action out.
		c.selector.ReportOutcome(action, false)
		logging.Warn("ability resolution failed, falling back to basic attack", nil, logging.Fields{
			"battle_id":  b.ID,
			"ability_id": action.AbilityID,
			"actor":      actor.ID,
		})
		lines = append(lines, out.LogLines...)
		action = game.Action{Kind: game.ActionBasicAttack, Style: game.ChooseStyle(actor, target)}
		out = c.execute(actor, target, action)
	}
	lines = append(lines, out.LogLines...)
	c.selector.ReportOutcome(action, out.Hit)
	if !target.IsAlive() {
		lines = append(lines, target.Name+" was defeated")
	}
	return lines
}

func (c *Controller) decideAction(actor *game.Cat, playerAction *game.Action, recent []string) game.Action {
	if playerAction != nil {
		return *playerAction
	}
	state := c.stateFor(actor, recent)
	action, err := c.selector.Choose(state, actor, c.battle.Difficulty, c.rng)
	if err != nil {
		logging.Warn("action selection failed, using basic attack", err, logging.Fields{
			"battle_id": c.battle.ID,
			"actor":     actor.ID,
		})
		return game.Action{Kind: game.ActionBasicAttack, Style: game.StyleNormal}
	}
	return action
}

func (c *Controller) execute(actor, target *game.Cat, action game.Action) Outcome {
	switch action.Kind {
	case game.ActionAbility:
		return c.resolver.ResolveAbility(actor, target, action.AbilityID)
	default:
		style := action.Style
		if style == "" {
			style = game.ChooseStyle(actor, target)
		}
		return c.resolver.ResolveBasicAttack(actor, target, style)
	}
}

// pickTarget resolves a requested target id against the living enemies,
// falling back to the first living enemy when none was requested. A
// requested target that is dead or unknown yields nil and a no-op turn.
func pickTarget(enemies []*game.Cat, targetID string) *game.Cat {
	if targetID != "" {
		for _, e := range enemies {
			if e.ID == targetID && e.IsAlive() {
				return e
			}
		}
		return nil
	}
	for _, e := range enemies {
		if e.IsAlive() {
			return e
		}
	}
	return nil
}

func (c *Controller) enemiesOf(actor *game.Cat) []*game.Cat {
	if c.battle.SideOf(actor) == game.SideTeam1 {
		return c.battle.Team2
	}
	return c.battle.Team1
}

func (c *Controller) alliesOf(actor *game.Cat) []*game.Cat {
	if c.battle.SideOf(actor) == game.SideTeam1 {
		return c.battle.Team1
	}
	return c.battle.Team2
}

func (c *Controller) stateFor(actor *game.Cat, pending []string) *game.BattleState {
	recent := append(append([]string{}, c.battle.Log...), pending...)
	if len(recent) > recentLogWindow {
		recent = recent[len(recent)-recentLogWindow:]
	}
	return &game.BattleState{
		Active:     actor,
		Allies:     c.alliesOf(actor),
		Enemies:    c.enemiesOf(actor),
		TurnNumber: c.battle.CurrentTurn,
		RecentLog:  recent,
	}
}

// advance moves the turn and round counters according to the scheduler.
func (c *Controller) advance() {
	b := c.battle
	b.CurrentTurn++
	if c.scheduler.Kind() == game.SchedulerInitiative {
		b.Round++
		return
	}
	if len(b.TurnOrder) > 0 && b.CurrentTurn%len(b.TurnOrder) == 0 {
		b.Round++
	}
}

func (c *Controller) checkConclusion() bool {
	b := c.battle
	if b.Phase == game.PhaseConcluded {
		return true
	}
	t1 := game.SideAlive(b.Team1)
	t2 := game.SideAlive(b.Team2)
	switch {
	case !t1 || !t2:
		b.Reason = game.ConcludeDefeat
		switch {
		case t1:
			b.Winner = game.SideTeam1
		case t2:
			b.Winner = game.SideTeam2
		default:
			b.Winner = game.SideNone
		}
	case b.Round > b.MaxRounds:
		b.Reason = game.ConcludeMaxRounds
		b.Winner = hpWinner(b)
	default:
		return false
	}
	c.conclude()
	return true
}

func (c *Controller) conclude() {
	b := c.battle
	if b.Phase == game.PhaseConcluded {
		return
	}
	b.Phase = game.PhaseConcluded
	b.IsActive = false
	switch b.Winner {
	case game.SideNone:
		b.Log = append(b.Log, "the battle ended in a draw")
	default:
		b.Log = append(b.Log, fmt.Sprintf("%s wins the battle", b.Winner))
	}
}

func hpWinner(b *game.Battle) game.Side {
	hp1, hp2 := game.TeamHP(b.Team1), game.TeamHP(b.Team2)
	switch {
	case hp1 > hp2:
		return game.SideTeam1
	case hp2 > hp1:
		return game.SideTeam2
	default:
		return game.SideNone
	}
}

func (c *Controller) result(lines []string) *TurnResult {
	b := c.battle
	res := &TurnResult{
		LogLines:     lines,
		BattleActive: b.IsActive,
	}
	var active *game.Cat
	if len(b.TurnOrder) > 0 {
		active = b.TurnOrder[b.CurrentTurn%len(b.TurnOrder)]
	}
	if b.IsActive && c.scheduler.Kind() == game.SchedulerRoundRobin && active != nil {
		res.NextActor = active.ID
	}
	if active != nil {
		res.State = c.stateFor(active, nil)
	}
	return res
}
