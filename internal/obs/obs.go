// Package obs encodes step results into fixed-shape numeric observations
// for learning agents.
//
// Each agent's observation has one block of rows per agent, starting with
// its own. A block holds a row per board, bench and shop slot followed by a
// status row. Champion rows are one-hot over team, preferred position and
// level. The status row carries gold/30, hp/10 and the round countdown
// normalised to [0, 1]. Shop and gold are only visible in the agent's own
// block, and eliminated agents encode to zeros.
package obs

import (
	"fmt"

	"github.com/peterkuimelis/tftx/internal/game"
)

const (
	goldScale = 30
	hpScale   = 10
)

// Tensor is a dense row-major float tensor.
type Tensor struct {
	Shape [3]int    `json:"shape"`
	Data  []float32 `json:"data"`
}

// NewTensor returns a zeroed tensor of the given shape.
func NewTensor(a, b, c int) Tensor {
	return Tensor{Shape: [3]int{a, b, c}, Data: make([]float32, a*b*c)}
}

func (t Tensor) index(i, j, k int) int {
	if i < 0 || i >= t.Shape[0] || j < 0 || j >= t.Shape[1] || k < 0 || k >= t.Shape[2] {
		panic(fmt.Sprintf("obs: index (%d, %d, %d) out of range %v", i, j, k, t.Shape))
	}
	return (i*t.Shape[1]+j)*t.Shape[2] + k
}

// At returns the element at (i, j, k).
func (t Tensor) At(i, j, k int) float32 { return t.Data[t.index(i, j, k)] }

// Set stores v at (i, j, k).
func (t Tensor) Set(i, j, k int, v float32) { t.Data[t.index(i, j, k)] = v }

// Encoder turns step results into tensors for one game configuration.
type Encoder struct {
	cfg game.Config
}

// NewEncoder returns an encoder for cfg.
func NewEncoder(cfg game.Config) *Encoder {
	return &Encoder{cfg: cfg}
}

// Shape returns the shape of every observation.
func (e *Encoder) Shape() [3]int {
	c := e.cfg
	return [3]int{
		c.NumPlayers,
		c.BoardSize + c.BenchSize + c.ShopSize + 1,
		c.NumTeams + c.NumPositions() + c.MaxLevel() + 1,
	}
}

// Encode returns the observation of agent id.
func (e *Encoder) Encode(res game.StepResult, id game.AgentID) (Tensor, error) {
	if _, ok := res.Observations[id]; !ok {
		return Tensor{}, fmt.Errorf("%w: %q", game.ErrUnknownAgent, id)
	}
	s := e.Shape()
	t := NewTensor(s[0], s[1], s[2])

	block := 0
	e.encodeView(t, block, res.Observations[id], true, res.Countdown)
	for _, other := range res.Agents {
		if other == id {
			continue
		}
		block++
		e.encodeView(t, block, res.Observations[other], false, res.Countdown)
	}
	return t, nil
}

// EncodeAll encodes every agent's observation.
func (e *Encoder) EncodeAll(res game.StepResult) (map[game.AgentID]Tensor, error) {
	out := make(map[game.AgentID]Tensor, len(res.Agents))
	for _, id := range res.Agents {
		t, err := e.Encode(res, id)
		if err != nil {
			return nil, err
		}
		out[id] = t
	}
	return out, nil
}

func (e *Encoder) encodeView(t Tensor, block int, v game.PlayerView, private bool, countdown int) {
	if !v.Alive {
		return
	}
	row := 0
	for _, zone := range [][]game.Slot{v.Board, v.Bench} {
		for _, s := range zone {
			e.encodeSlot(t, block, row, s)
			row++
		}
	}
	for _, s := range v.Shop {
		if private {
			e.encodeSlot(t, block, row, s)
		}
		row++
	}

	if private {
		t.Set(block, row, 0, float32(v.Gold)/goldScale)
	}
	t.Set(block, row, 1, float32(v.HP)/hpScale)
	if n := e.cfg.ActionsPerRound - 1; n > 0 {
		t.Set(block, row, 2, float32(countdown)/float32(n))
	}
}

func (e *Encoder) encodeSlot(t Tensor, block, row int, s game.Slot) {
	c, ok := s.Get()
	if !ok {
		return
	}
	teams, positions := e.cfg.NumTeams, e.cfg.NumPositions()
	level := min(c.Level, e.cfg.MaxLevel())
	t.Set(block, row, c.Team, 1)
	t.Set(block, row, teams+c.PreferredPosition, 1)
	t.Set(block, row, teams+positions+level, 1)
}
