package game

import (
	"fmt"
	"slices"

	"github.com/peterkuimelis/tftx/internal/log"
)

// Game orchestrates a whole match: the shared pool, every agent, the
// round clock, combat and the economy. A Game is not safe for concurrent
// use; one Step applies all agents' actions before anything else happens.
type Game struct {
	Config Config
	Logger log.EventLogger

	rng     RNG
	pool    *ChampionPool
	order   []AgentID
	players map[AgentID]*Player

	live       []AgentID
	eliminated []AgentID

	actionsUntilCombat int
	round              int
	steps              int

	pending []log.GameEvent
}

// NewGame validates cfg and creates a game. Call Reset before stepping.
// A nil logger is replaced by a MemoryLogger.
func NewGame(cfg Config, rng RNG, logger log.EventLogger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random generator", ErrInvalidConfiguration)
	}
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	g := &Game{
		Config: cfg,
		Logger: logger,
		rng:    rng,
	}
	for i := 0; i < cfg.NumPlayers; i++ {
		g.order = append(g.order, AgentID(fmt.Sprintf("player_%d", i)))
	}
	return g, nil
}

// Reset rebuilds the pool and every agent and deals the opening hands:
// one champion, starting gold and a shop each.
func (g *Game) Reset() (StepResult, error) {
	cfg := g.Config
	g.pool = NewChampionPool(cfg.ChampCopies, cfg.NumTeams, cfg.NumPositions(), g.rng)
	g.players = make(map[AgentID]*Player, len(g.order))
	g.live = append([]AgentID(nil), g.order...)
	g.eliminated = nil
	g.actionsUntilCombat = cfg.ActionsPerRound - 1
	g.round = 1
	g.steps = 0
	g.pending = nil

	g.emit(log.NewResetEvent(cfg.NumPlayers, g.pool.Len()))
	for _, id := range g.order {
		p := NewPlayer(id, cfg.BoardSize, cfg.BenchSize, cfg.ShopSize)
		p.emit = g.emit
		g.players[id] = p

		drawn, err := g.pool.Sample(1)
		if err != nil {
			return StepResult{}, err
		}
		if !p.AddChampion(drawn[0]) {
			g.pool.Add(drawn[0])
			_ = p.AddGold(1)
		}
		_ = p.AddGold(cfg.GoldPerRound + 1)
		if err := p.RefreshShop(g.pool); err != nil {
			return StepResult{}, err
		}
	}
	g.flush()
	return g.result(g.zeroRewards(), nil), nil
}

// Step applies one action code per listed agent, in seat order, then
// advances the round clock. When the clock reaches zero the round ends
// with combat and the post-combat economy. Agents missing from actions
// do nothing. If any action fails the game is left as it was before the
// call and the error names the agent.
func (g *Game) Step(actions map[AgentID]int) (StepResult, error) {
	if g.players == nil {
		return StepResult{}, fmt.Errorf("step before reset")
	}
	for id := range actions {
		if _, ok := g.players[id]; !ok {
			return StepResult{}, fmt.Errorf("%w: %q", ErrUnknownAgent, id)
		}
	}

	snap := g.snapshot()
	for _, id := range g.order {
		code, ok := actions[id]
		if !ok {
			continue
		}
		a, err := g.players[id].TakeAction(g.pool, code)
		if err != nil {
			g.restore(snap)
			g.Logger.Log(g.stamp(log.NewActionRejectedEvent(string(id), code, err)))
			return StepResult{}, fmt.Errorf("%s: %w", id, err)
		}
		if a.Kind != ActionIdle && g.players[id].Alive() {
			g.emit(log.NewActionEvent(string(id), a.String()))
		}
	}
	g.steps++

	if g.actionsUntilCombat > 0 {
		g.actionsUntilCombat--
		g.flush()
		return g.result(g.zeroRewards(), nil), nil
	}

	out := g.combat()
	rewards := g.rewards(out)
	// Each round spans ActionsPerRound steps.
	g.actionsUntilCombat = g.Config.ActionsPerRound - 1
	if err := g.postCombat(); err != nil {
		g.restore(snap)
		return StepResult{}, err
	}
	g.round++
	g.flush()
	return g.result(rewards, out), nil
}

func (g *Game) result(rewards map[AgentID]int, out *CombatOutcome) StepResult {
	res := StepResult{
		Agents:       append([]AgentID(nil), g.order...),
		Round:        g.round,
		Countdown:    g.actionsUntilCombat,
		Observations: make(map[AgentID]PlayerView, len(g.order)),
		Rewards:      rewards,
		Acting:       make(map[AgentID]bool, len(g.order)),
		Dones:        make(map[AgentID]bool, len(g.order)),
		Masks:        make(map[AgentID][]bool, len(g.order)),
		Combat:       out,
	}
	over := g.Over()
	for _, id := range g.order {
		p := g.players[id]
		res.Observations[id] = p.View()
		res.Acting[id] = slices.Contains(g.live, id)
		res.Dones[id] = over || !p.Alive()
		res.Masks[id] = p.ActionMask()
	}
	return res
}

// --- Queries ---

// Agents returns every agent id in seat order.
func (g *Game) Agents() []AgentID {
	return append([]AgentID(nil), g.order...)
}

// Player returns the agent with the given id.
func (g *Game) Player(id AgentID) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// Pool returns the shared champion pool.
func (g *Game) Pool() *ChampionPool {
	return g.pool
}

// Live returns the agents that were live at the last combat or reset.
func (g *Game) Live() []AgentID {
	return append([]AgentID(nil), g.live...)
}

// Over reports whether at most one agent remains live.
func (g *Game) Over() bool {
	return len(g.live) < 2
}

// Winner returns the sole surviving agent once the game is over.
func (g *Game) Winner() (AgentID, bool) {
	if len(g.live) == 1 {
		return g.live[0], true
	}
	return "", false
}

// Standings orders agents from best to worst: live agents by HP, then
// eliminated agents, latest elimination first.
func (g *Game) Standings() []AgentID {
	live := g.liveAgents()
	slices.SortStableFunc(live, func(a, b AgentID) int {
		return g.players[b].HP() - g.players[a].HP()
	})
	out := live
	for i := len(g.eliminated) - 1; i >= 0; i-- {
		out = append(out, g.eliminated[i])
	}
	return out
}

// Round returns the 1-based number of the round in progress.
func (g *Game) Round() int { return g.round }

// StepCount returns the number of successful steps since Reset.
func (g *Game) StepCount() int { return g.steps }

// ActionsUntilCombat returns the round countdown.
func (g *Game) ActionsUntilCombat() int { return g.actionsUntilCombat }

// ActionSpaceSize returns the size of every agent's action space.
func (g *Game) ActionSpaceSize() int { return g.Config.ActionSpaceSize() }

// TotalValue returns the base-unit value held by the pool and all agents.
// It equals Config.PoolSize for the whole game.
func (g *Game) TotalValue() int {
	v := g.pool.Value()
	for _, p := range g.players {
		v += p.HeldValue()
	}
	return v
}

// Describe renders an action code.
func (g *Game) Describe(code int) string {
	a, err := NewActionSpace(g.Config.BoardSize, g.Config.BenchSize, g.Config.ShopSize).Decode(code)
	if err != nil {
		return err.Error()
	}
	return a.String()
}

func (g *Game) liveAgents() []AgentID {
	var live []AgentID
	for _, id := range g.order {
		if g.players[id].Alive() {
			live = append(live, id)
		}
	}
	return live
}

// --- Events ---

func (g *Game) stamp(ev log.GameEvent) log.GameEvent {
	ev.Round = g.round
	ev.Step = g.steps
	return ev
}

// emit queues an event; queued events reach the logger only when the
// call that produced them succeeds.
func (g *Game) emit(ev log.GameEvent) {
	g.pending = append(g.pending, g.stamp(ev))
}

func (g *Game) flush() {
	for _, ev := range g.pending {
		g.Logger.Log(ev)
	}
	g.pending = nil
}

// --- Snapshots ---

type snapshot struct {
	pool       *ChampionPool
	players    map[AgentID]*Player
	live       []AgentID
	eliminated []AgentID
	countdown  int
	round      int
	steps      int
}

func (g *Game) snapshot() snapshot {
	s := snapshot{
		pool:       g.pool.clone(),
		players:    make(map[AgentID]*Player, len(g.players)),
		live:       append([]AgentID(nil), g.live...),
		eliminated: append([]AgentID(nil), g.eliminated...),
		countdown:  g.actionsUntilCombat,
		round:      g.round,
		steps:      g.steps,
	}
	for id, p := range g.players {
		s.players[id] = p.clone()
	}
	return s
}

// restore puts the state back in place so that pointers handed out by
// Player and Pool stay valid.
func (g *Game) restore(s snapshot) {
	*g.pool = *s.pool
	for id, p := range s.players {
		*g.players[id] = *p
		g.players[id].emit = g.emit
	}
	g.live = s.live
	g.eliminated = s.eliminated
	g.actionsUntilCombat = s.countdown
	g.round = s.round
	g.steps = s.steps
	g.pending = nil
}
