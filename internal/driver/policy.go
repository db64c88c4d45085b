// Package driver runs games: it asks a Policy for every acting agent's
// action, steps the game until every agent is done and reports results.
package driver

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/peterkuimelis/tftx/internal/game"
)

// Policy picks an action code for one agent. mask[code] is true for every
// code the agent may take.
type Policy interface {
	ChooseAction(ctx context.Context, id game.AgentID, view game.PlayerView, mask []bool) (int, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, id game.AgentID, view game.PlayerView, mask []bool) (int, error)

func (f PolicyFunc) ChooseAction(ctx context.Context, id game.AgentID, view game.PlayerView, mask []bool) (int, error) {
	return f(ctx, id, view, mask)
}

// RandomPolicy picks uniformly among the legal codes.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a seeded random policy. A RandomPolicy must not
// be shared between goroutines.
func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: game.NewRNG(seed)}
}

func (p *RandomPolicy) ChooseAction(_ context.Context, _ game.AgentID, _ game.PlayerView, mask []bool) (int, error) {
	legal := legalCodes(mask)
	if len(legal) == 0 {
		return 0, fmt.Errorf("%w: empty action mask", game.ErrInvalidAction)
	}
	return legal[p.rng.Intn(len(legal))], nil
}

// IdlePolicy always takes the last code, which is idle.
type IdlePolicy struct{}

func (IdlePolicy) ChooseAction(_ context.Context, _ game.AgentID, _ game.PlayerView, mask []bool) (int, error) {
	if len(mask) == 0 {
		return 0, fmt.Errorf("%w: empty action mask", game.ErrInvalidAction)
	}
	return len(mask) - 1, nil
}

func legalCodes(mask []bool) []int {
	var codes []int
	for code, ok := range mask {
		if ok {
			codes = append(codes, code)
		}
	}
	return codes
}
