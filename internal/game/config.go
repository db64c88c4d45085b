package game

import (
	"fmt"
	"math/bits"
)

// RewardStructure selects how per-step rewards are computed.
type RewardStructure string

const (
	RewardGamePlacement RewardStructure = "game_placement"
	RewardDamage        RewardStructure = "damage"
	RewardMixed         RewardStructure = "mixed"
)

// Valid reports whether r is a known reward structure.
func (r RewardStructure) Valid() bool {
	switch r {
	case RewardGamePlacement, RewardDamage, RewardMixed:
		return true
	}
	return false
}

// Starting values shared by every game.
const (
	StartingHP  = 10
	MaxInterest = 5
)

// Config holds the fixed parameters of a game.
type Config struct {
	NumPlayers        int             `yaml:"num_players,omitempty" json:"num_players,omitempty" jsonschema:"minimum=2,description=number of agents"`
	BoardSize         int             `yaml:"board_size,omitempty" json:"board_size,omitempty" jsonschema:"minimum=1,description=board slots per agent; also the number of preferred positions"`
	BenchSize         int             `yaml:"bench_size,omitempty" json:"bench_size,omitempty" jsonschema:"minimum=1"`
	ShopSize          int             `yaml:"shop_size,omitempty" json:"shop_size,omitempty" jsonschema:"minimum=1"`
	NumTeams          int             `yaml:"num_teams,omitempty" json:"num_teams,omitempty" jsonschema:"minimum=1"`
	ChampCopies       int             `yaml:"champ_copies,omitempty" json:"champ_copies,omitempty" jsonschema:"minimum=1,description=level-0 copies per (team, position)"`
	ActionsPerRound   int             `yaml:"actions_per_round,omitempty" json:"actions_per_round,omitempty" jsonschema:"minimum=1"`
	GoldPerRound      int             `yaml:"gold_per_round,omitempty" json:"gold_per_round,omitempty" jsonschema:"minimum=0"`
	InterestIncrement int             `yaml:"interest_increment,omitempty" json:"interest_increment,omitempty" jsonschema:"minimum=1"`
	RewardStructure   RewardStructure `yaml:"reward_structure,omitempty" json:"reward_structure,omitempty" jsonschema:"enum=game_placement,enum=damage,enum=mixed"`
}

// DefaultConfig returns the standard two-player setup.
func DefaultConfig() Config {
	return Config{
		NumPlayers:        2,
		BoardSize:         3,
		BenchSize:         2,
		ShopSize:          2,
		NumTeams:          3,
		ChampCopies:       5,
		ActionsPerRound:   5,
		GoldPerRound:      3,
		InterestIncrement: 5,
		RewardStructure:   RewardGamePlacement,
	}
}

// NumPositions is the number of distinct preferred positions, one per board slot.
func (c Config) NumPositions() int {
	return c.BoardSize
}

// PoolSize returns the number of champions in a fresh pool.
func (c Config) PoolSize() int {
	return c.ChampCopies * c.NumTeams * c.NumPositions()
}

// MaxLevel returns the highest level a champion can reach given the
// number of copies in the pool.
func (c Config) MaxLevel() int {
	if c.ChampCopies < 1 {
		return 0
	}
	return bits.Len(uint(c.ChampCopies)) - 1
}

// ActionSpaceSize returns the size of each agent's action space.
func (c Config) ActionSpaceSize() int {
	return NewActionSpace(c.BoardSize, c.BenchSize, c.ShopSize).Size()
}

// Validate checks the configuration and that the pool can never run dry:
// every agent holding a max-level champion in each board and bench slot
// plus a full shop must still leave a shop's worth of champions to sample.
func (c Config) Validate() error {
	if c.NumPlayers < 2 {
		return fmt.Errorf("%w: num_players must be at least 2, got %d", ErrInvalidConfiguration, c.NumPlayers)
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"board_size", c.BoardSize},
		{"bench_size", c.BenchSize},
		{"shop_size", c.ShopSize},
		{"num_teams", c.NumTeams},
		{"champ_copies", c.ChampCopies},
		{"interest_increment", c.InterestIncrement},
	} {
		if f.v < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfiguration, f.name, f.v)
		}
	}
	if c.ActionsPerRound < 1 {
		return fmt.Errorf("%w: actions_per_round must be positive, got %d", ErrInvalidConfiguration, c.ActionsPerRound)
	}
	if c.GoldPerRound < 0 {
		return fmt.Errorf("%w: gold_per_round must not be negative, got %d", ErrInvalidConfiguration, c.GoldPerRound)
	}
	if !c.RewardStructure.Valid() {
		return fmt.Errorf("%w: unknown reward_structure %q", ErrInvalidConfiguration, c.RewardStructure)
	}

	perAgent := (c.BoardSize+c.BenchSize)<<c.MaxLevel() + c.ShopSize
	if need := c.NumPlayers * perAgent; c.PoolSize() < need {
		return fmt.Errorf("%w: pool of %d champions is too small, %d players can hold up to %d",
			ErrInvalidConfiguration, c.PoolSize(), c.NumPlayers, need)
	}
	return nil
}
