package game

import "github.com/peterkuimelis/tftx/internal/log"

// Pairing is one combat between two agents. In the extra match of an odd
// round A is the unpaired agent and B the first agent of the shuffle; B
// is never damaged by it.
type Pairing struct {
	A       AgentID `json:"a"`
	B       AgentID `json:"b"`
	PowerA  int     `json:"power_a"`
	PowerB  int     `json:"power_b"`
	DamageA bool    `json:"damage_a"`
	DamageB bool    `json:"damage_b"`
	Extra   bool    `json:"extra,omitempty"`
}

// CombatOutcome records a round's combat.
type CombatOutcome struct {
	// Fought is false when fewer than two agents were live.
	Fought   bool            `json:"fought"`
	Pairings []Pairing       `json:"pairings,omitempty"`
	Results  map[AgentID]int `json:"results"`
	Before   []AgentID       `json:"before"`
	After    []AgentID       `json:"after"`
}

// combat pairs the live agents and applies damage. Every pairing deals 1
// damage to the weaker side, or to both sides on a tie.
func (g *Game) combat() *CombatOutcome {
	g.live = g.liveAgents()
	out := &CombatOutcome{
		Results: make(map[AgentID]int),
		Before:  append([]AgentID(nil), g.live...),
	}
	if len(g.live) < 2 {
		out.After = out.Before
		return out
	}
	out.Fought = true

	order := append([]AgentID(nil), g.live...)
	g.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	power := make(map[AgentID]int, len(order))
	for _, id := range order {
		power[id] = g.players[id].BoardPower()
	}

	for i := 0; i+1 < len(order); i += 2 {
		a, b := order[i], order[i+1]
		pr := Pairing{A: a, B: b, PowerA: power[a], PowerB: power[b]}
		switch {
		case pr.PowerA == pr.PowerB:
			pr.DamageA, pr.DamageB = true, true
		case pr.PowerA > pr.PowerB:
			pr.DamageB = true
		default:
			pr.DamageA = true
		}
		out.Pairings = append(out.Pairings, pr)
	}
	if len(order)%2 == 1 {
		a, b := order[len(order)-1], order[0]
		pr := Pairing{A: a, B: b, PowerA: power[a], PowerB: power[b], Extra: true}
		pr.DamageA = pr.PowerA <= pr.PowerB
		out.Pairings = append(out.Pairings, pr)
	}

	for _, pr := range out.Pairings {
		g.emit(log.NewCombatEvent(string(pr.A), pr.PowerA, string(pr.B), pr.PowerB))
		out.Results[pr.A] = g.resolveSide(pr.A, pr.DamageA)
		if !pr.Extra {
			out.Results[pr.B] = g.resolveSide(pr.B, pr.DamageB)
		}
	}

	g.live = g.liveAgents()
	out.After = append([]AgentID(nil), g.live...)
	for _, id := range out.Before {
		if !g.players[id].Alive() {
			g.eliminated = append(g.eliminated, id)
			g.emit(log.NewEliminationEvent(string(id)))
		}
	}
	if len(out.After) == 1 {
		g.emit(log.NewWinEvent(string(out.After[0])))
	}
	return out
}

// resolveSide applies one side of a pairing and returns its result.
func (g *Game) resolveSide(id AgentID, damaged bool) int {
	if !damaged {
		return 1
	}
	p := g.players[id]
	old := p.HP()
	_ = p.TakeDamage(1)
	g.emit(log.NewDamageEvent(string(id), old, p.HP()))
	return -1
}

// postCombat cleans up eliminated agents and pays the survivors, then
// gives them a fresh shop.
func (g *Game) postCombat() error {
	for _, id := range g.order {
		p := g.players[id]
		if !p.Alive() {
			p.DeathCleanup(g.pool)
			continue
		}
		income := g.Config.GoldPerRound + min(p.Gold()/g.Config.InterestIncrement, MaxInterest) + 1
		if err := p.AddGold(income); err != nil {
			return err
		}
		g.emit(log.NewIncomeEvent(string(id), income, p.Gold()))
		if err := p.RefreshShop(g.pool); err != nil {
			return err
		}
	}
	for _, id := range g.order {
		p := g.players[id]
		g.emit(log.NewRoundSummaryEvent(string(id), p.BoardPower(), p.HP(), p.Gold(), slotNames(p.board), slotNames(p.bench)))
	}
	return nil
}
