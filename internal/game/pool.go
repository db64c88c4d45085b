package game

import "fmt"

// ChampionPool is the shared multiset every agent buys from and sells to.
// Only level-0 champions live in the pool.
type ChampionPool struct {
	champions []Champion
	rng       RNG
}

// NewChampionPool creates a pool holding copies level-0 champions of every
// (team, position) combination.
func NewChampionPool(copies, teams, positions int, rng RNG) *ChampionPool {
	p := &ChampionPool{
		champions: make([]Champion, 0, copies*teams*positions),
		rng:       rng,
	}
	for team := 0; team < teams; team++ {
		for pos := 0; pos < positions; pos++ {
			for i := 0; i < copies; i++ {
				p.champions = append(p.champions, NewChampion(pos, team))
			}
		}
	}
	return p
}

// Len returns the number of champions in the pool.
func (p *ChampionPool) Len() int {
	return len(p.champions)
}

// Value returns the total base-unit value held by the pool. Since only
// level-0 champions are stored this equals Len.
func (p *ChampionPool) Value() int {
	v := 0
	for _, c := range p.champions {
		v += c.Value()
	}
	return v
}

// Count returns how many copies of the given (position, team) are in the pool.
func (p *ChampionPool) Count(position, team int) int {
	n := 0
	for _, c := range p.champions {
		if c.PreferredPosition == position && c.Team == team {
			n++
		}
	}
	return n
}

// Sample draws n champions uniformly at random without replacement and
// removes them from the pool. The pool is untouched on error.
func (p *ChampionPool) Sample(n int) ([]Champion, error) {
	if n < 0 || n > len(p.champions) {
		return nil, fmt.Errorf("%w: cannot sample %d champions from a pool of size %d", ErrInsufficientPool, n, len(p.champions))
	}
	sample := make([]Champion, 0, n)
	for i := 0; i < n; i++ {
		idx := p.rng.Intn(len(p.champions))
		sample = append(sample, p.champions[idx])
		last := len(p.champions) - 1
		p.champions[idx] = p.champions[last]
		p.champions = p.champions[:last]
	}
	return sample, nil
}

// Add returns a champion to the pool. Leveled champions are decomposed
// into 2^level level-0 copies.
func (p *ChampionPool) Add(c Champion) {
	base := c.Base()
	for i := 0; i < c.Value(); i++ {
		p.champions = append(p.champions, base)
	}
}

// clone copies the pool contents; the RNG is shared.
func (p *ChampionPool) clone() *ChampionPool {
	return &ChampionPool{
		champions: append([]Champion(nil), p.champions...),
		rng:       p.rng,
	}
}
