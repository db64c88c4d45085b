package game

// rewards turns a combat outcome into per-agent rewards under the
// configured reward structure.
func (g *Game) rewards(out *CombatOutcome) map[AgentID]int {
	r := g.zeroRewards()
	switch g.Config.RewardStructure {
	case RewardDamage:
		addDamageRewards(r, out)
	case RewardGamePlacement:
		g.addPlacementRewards(r, out)
	case RewardMixed:
		addDamageRewards(r, out)
		g.addPlacementRewards(r, out)
	}
	return r
}

func (g *Game) zeroRewards() map[AgentID]int {
	r := make(map[AgentID]int, len(g.order))
	for _, id := range g.order {
		r[id] = 0
	}
	return r
}

// addDamageRewards credits each agent its ±1 combat result.
func addDamageRewards(r map[AgentID]int, out *CombatOutcome) {
	for id, res := range out.Results {
		r[id] += res
	}
}

// addPlacementRewards penalises agents eliminated this round while at
// least half the table is still standing, and rewards a sole survivor.
func (g *Game) addPlacementRewards(r map[AgentID]int, out *CombatOutcome) {
	if !out.Fought {
		return
	}
	for _, id := range out.Before {
		if g.players[id].Alive() {
			continue
		}
		if 2*len(out.After) >= g.Config.NumPlayers {
			r[id]--
		}
	}
	if len(out.After) == 1 {
		r[out.After[0]]++
	}
}
