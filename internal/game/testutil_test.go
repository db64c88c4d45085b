package game

import (
	"math/rand"
	"testing"

	"github.com/peterkuimelis/tftx/internal/log"
)

// pairInOrder samples like a seeded generator but never shuffles, so
// combat pairs agents in seat order.
type pairInOrder struct {
	*rand.Rand
}

func (pairInOrder) Shuffle(int, func(i, j int)) {}

func newPairInOrder(seed int64) RNG {
	return pairInOrder{NewRNG(seed)}
}

// newTestGame creates and resets a game with a memory logger.
func newTestGame(t *testing.T, cfg Config, rng RNG) (*Game, *log.MemoryLogger, StepResult) {
	t.Helper()
	logger := log.NewMemoryLogger()
	g, err := NewGame(cfg, rng, logger)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	res, err := g.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return g, logger, res
}

func mustStep(t *testing.T, g *Game, actions map[AgentID]int) StepResult {
	t.Helper()
	res, err := g.Step(actions)
	if err != nil {
		t.Fatalf("Step(%v): %v", actions, err)
	}
	return res
}

// idleAll returns an action map in which every agent idles.
func idleAll(g *Game) map[AgentID]int {
	idle := g.Config.ActionSpaceSize() - 1
	actions := make(map[AgentID]int)
	for _, id := range g.Agents() {
		actions[id] = idle
	}
	return actions
}

// randomLegal picks a uniformly random enabled action for every agent.
func randomLegal(g *Game, r *rand.Rand) map[AgentID]int {
	actions := make(map[AgentID]int)
	for _, id := range g.Agents() {
		p, _ := g.Player(id)
		legal := p.LegalActions()
		actions[id] = legal[r.Intn(len(legal))]
	}
	return actions
}

// testPlayer returns a 3/2/2 player with the given gold.
func testPlayer(gold int) *Player {
	p := NewPlayer("p", 3, 2, 2)
	p.gold = gold
	return p
}
