package driver

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/tftx/internal/game"
	"github.com/peterkuimelis/tftx/internal/log"
)

// DefaultMaxSteps bounds a match when Match.MaxSteps is zero.
const DefaultMaxSteps = 10000

// Match configures one game run.
type Match struct {
	Config game.Config
	Seed   int64
	// Policies are indexed by seat. Missing or nil seats play randomly,
	// seeded from Seed and the seat number.
	Policies []Policy
	MaxSteps int
	Logger   log.EventLogger
	// OnStep, when set, sees every result from Reset onwards.
	OnStep func(game.StepResult) error
}

// Result summarises a finished match.
type Result struct {
	Seed       int64                `json:"seed"`
	Winner     game.AgentID         `json:"winner,omitempty"`
	Placements []game.AgentID       `json:"placements"`
	Rounds     int                  `json:"rounds"`
	Steps      int                  `json:"steps"`
	Rewards    map[game.AgentID]int `json:"rewards"`
	Truncated  bool                 `json:"truncated,omitempty"`
}

// Run plays the match to the end or until MaxSteps steps have been taken.
// It stops early with ctx's error when ctx is cancelled.
func (m *Match) Run(ctx context.Context) (Result, error) {
	g, err := game.NewGame(m.Config, game.NewRNG(m.Seed), m.Logger)
	if err != nil {
		return Result{}, err
	}
	agents := g.Agents()
	policies := make([]Policy, len(agents))
	for i := range agents {
		if i < len(m.Policies) && m.Policies[i] != nil {
			policies[i] = m.Policies[i]
		} else {
			policies[i] = NewRandomPolicy(m.Seed*31 + int64(i) + 1)
		}
	}
	maxSteps := m.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	res, err := g.Reset()
	if err != nil {
		return Result{}, err
	}
	if err := m.observe(res); err != nil {
		return Result{}, err
	}

	total := make(map[game.AgentID]int, len(agents))
	for !res.AllDone() && g.StepCount() < maxSteps {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		actions := make(map[game.AgentID]int, len(agents))
		for i, id := range agents {
			if !res.Acting[id] || res.Dones[id] {
				continue
			}
			code, err := policies[i].ChooseAction(ctx, id, res.Observations[id], res.Masks[id])
			if err != nil {
				return Result{}, fmt.Errorf("%s: %w", id, err)
			}
			actions[id] = code
		}
		if res, err = g.Step(actions); err != nil {
			return Result{}, err
		}
		for id, r := range res.Rewards {
			total[id] += r
		}
		if err := m.observe(res); err != nil {
			return Result{}, err
		}
	}

	out := Result{
		Seed:       m.Seed,
		Placements: g.Standings(),
		Rounds:     g.Round() - 1,
		Steps:      g.StepCount(),
		Rewards:    total,
		Truncated:  !res.AllDone(),
	}
	if w, ok := g.Winner(); ok {
		out.Winner = w
	}
	return out, nil
}

func (m *Match) observe(res game.StepResult) error {
	if m.OnStep == nil {
		return nil
	}
	return m.OnStep(res)
}
