package game

import "fmt"

// Champion is a draftable unit. Champions carry no identity beyond their
// fields: two champions with equal fields are interchangeable.
type Champion struct {
	PreferredPosition int `json:"preferred_position"`
	Team              int `json:"team"`
	Level             int `json:"level"`
}

// NewChampion returns a level-0 champion.
func NewChampion(position, team int) Champion {
	return Champion{PreferredPosition: position, Team: team}
}

// Mergeable reports whether c and other can be combined into one unit of
// the next level.
func (c Champion) Mergeable(other Champion) bool {
	return c == other
}

// Value returns the number of level-0 copies this champion is worth.
func (c Champion) Value() int {
	return 1 << c.Level
}

// Base returns the level-0 form of c.
func (c Champion) Base() Champion {
	return Champion{PreferredPosition: c.PreferredPosition, Team: c.Team}
}

// LevelUp returns c one level higher.
func (c Champion) LevelUp() Champion {
	c.Level++
	return c
}

func (c Champion) String() string {
	return fmt.Sprintf("T%d/P%d★%d", c.Team, c.PreferredPosition, c.Level)
}

// Slot holds either a champion or nothing.
type Slot struct {
	champ Champion
	full  bool
}

// Empty returns an unoccupied slot.
func Empty() Slot {
	return Slot{}
}

// Some returns a slot holding c.
func Some(c Champion) Slot {
	return Slot{champ: c, full: true}
}

// Get returns the occupant and whether there is one.
func (s Slot) Get() (Champion, bool) {
	return s.champ, s.full
}

// Occupied reports whether the slot holds a champion.
func (s Slot) Occupied() bool {
	return s.full
}

func (s Slot) String() string {
	if !s.full {
		return "(empty)"
	}
	return s.champ.String()
}

// slotNames renders a slot array for events and views.
func slotNames(slots []Slot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		if s.full {
			names[i] = s.champ.String()
		} else {
			names[i] = "-"
		}
	}
	return names
}
