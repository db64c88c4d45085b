package game

import "encoding/json"

// MarshalJSON encodes an empty slot as null and an occupied one as its champion.
func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.full {
		return []byte("null"), nil
	}
	return json.Marshal(s.champ)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Slot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Empty()
		return nil
	}
	var c Champion
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*s = Some(c)
	return nil
}

// PlayerView is a read-only snapshot of one agent, the raw material for
// observation encoders and reports.
type PlayerView struct {
	ID        AgentID `json:"id"`
	Board     []Slot  `json:"board"`
	Bench     []Slot  `json:"bench"`
	Shop      []Slot  `json:"shop"`
	Gold      int     `json:"gold"`
	HP        int     `json:"hp"`
	Alive     bool    `json:"alive"`
	Power     int     `json:"power"`
	BoardFull bool    `json:"board_full"`
	BenchFull bool    `json:"bench_full"`
}

// View snapshots the player.
func (p *Player) View() PlayerView {
	return PlayerView{
		ID:        p.ID,
		Board:     p.Board(),
		Bench:     p.Bench(),
		Shop:      p.Shop(),
		Gold:      p.gold,
		HP:        p.hp,
		Alive:     p.Alive(),
		Power:     p.BoardPower(),
		BoardFull: p.BoardFull(),
		BenchFull: p.BenchFull(),
	}
}

// StepResult is what Reset and Step hand back to the driver.
type StepResult struct {
	// Agents lists every agent in seat order.
	Agents []AgentID `json:"agents"`
	// Round is the round now in progress.
	Round int `json:"round"`
	// Countdown is the number of steps left before the next combat.
	Countdown    int                    `json:"countdown"`
	Observations map[AgentID]PlayerView `json:"observations"`
	Rewards      map[AgentID]int        `json:"rewards"`
	Acting       map[AgentID]bool       `json:"acting"`
	Dones        map[AgentID]bool       `json:"dones"`
	Masks        map[AgentID][]bool     `json:"masks"`
	// Combat is set on steps that ended a round.
	Combat *CombatOutcome `json:"combat,omitempty"`
}

// AllDone reports whether every agent is done. A result with no agents
// is not done.
func (r StepResult) AllDone() bool {
	if len(r.Agents) == 0 {
		return false
	}
	for _, id := range r.Agents {
		if !r.Dones[id] {
			return false
		}
	}
	return true
}
