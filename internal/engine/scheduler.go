package engine

import (
	"math/rand"
	"sort"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

// Scheduler decides which combatants act on the next process_turn call.
// round_robin yields exactly one combatant per call; per_round_initiative
// yields every living combatant once, ordered for a full round.
type Scheduler interface {
	Kind() game.SchedulerKind
	NextActors(b *game.Battle, rng *rand.Rand) []*game.Cat
}

// NewScheduler returns the strategy for the given kind, defaulting to
// round_robin for the zero value.
func NewScheduler(kind game.SchedulerKind) Scheduler {
	if kind == game.SchedulerInitiative {
		return initiativeScheduler{}
	}
	return roundRobinScheduler{}
}

// BuildTurnOrder computes the fixed round_robin order: speed descending,
// ties kept in registration order (team1 before team2, input order within
// a team).
func BuildTurnOrder(b *game.Battle) []*game.Cat {
	order := b.AllCats()
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].CurrentStats.Speed > order[j].CurrentStats.Speed
	})
	return order
}

type roundRobinScheduler struct{}

func (roundRobinScheduler) Kind() game.SchedulerKind { return game.SchedulerRoundRobin }

// NextActors returns the combatant at the current index. Dead combatants
// stay in the order list; the controller resolves them as no-ops so the
// index arithmetic never shifts mid-battle.
func (roundRobinScheduler) NextActors(b *game.Battle, _ *rand.Rand) []*game.Cat {
	if len(b.TurnOrder) == 0 {
		return nil
	}
	return []*game.Cat{b.TurnOrder[b.CurrentTurn%len(b.TurnOrder)]}
}

type initiativeScheduler struct{}

func (initiativeScheduler) Kind() game.SchedulerKind { return game.SchedulerInitiative }

// NextActors recomputes initiative for the round: speed jittered by up to
// +20%, with a further 1.1x for aggressive AI styles. Higher initiative
// acts first; only living combatants are scheduled.
func (initiativeScheduler) NextActors(b *game.Battle, rng *rand.Rand) []*game.Cat {
	type slot struct {
		cat  *game.Cat
		init float64
	}
	var slots []slot
	for _, c := range b.AllCats() {
		if !c.IsAlive() {
			continue
		}
		init := float64(c.CurrentStats.Speed) * (1 + rng.Float64()*0.2)
		if c.AIStyle == "aggressive" {
			init *= 1.1
		}
		slots = append(slots, slot{cat: c, init: init})
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].init > slots[j].init })
	out := make([]*game.Cat, len(slots))
	for i, s := range slots {
		out[i] = s.cat
	}
	return out
}
