package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventReset EventType = iota
	EventAction
	EventActionRejected
	EventPurchase
	EventSell
	EventRefresh
	EventMerge
	EventCombat
	EventDamage
	EventElimination
	EventIncome
	EventRoundSummary
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventReset:
		return "Reset"
	case EventAction:
		return "Action"
	case EventActionRejected:
		return "ActionRejected"
	case EventPurchase:
		return "Purchase"
	case EventSell:
		return "Sell"
	case EventRefresh:
		return "Refresh"
	case EventMerge:
		return "Merge"
	case EventCombat:
		return "Combat"
	case EventDamage:
		return "Damage"
	case EventElimination:
		return "Elimination"
	case EventIncome:
		return "Income"
	case EventRoundSummary:
		return "RoundSummary"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game.
// Round and Step are filled in by the game when it logs the event.
type GameEvent struct {
	Seq      int       `json:"seq"`
	Round    int       `json:"round"`
	Step     int       `json:"step"`
	Agent    string    `json:"agent,omitempty"`
	Opponent string    `json:"opponent,omitempty"`
	Type     EventType `json:"type"`
	Details  string    `json:"details"`

	// Round summary fields
	Power int      `json:"power,omitempty"`
	HP    int      `json:"hp,omitempty"`
	Gold  int      `json:"gold,omitempty"`
	Bench []string `json:"bench,omitempty"`
	Board []string `json:"board,omitempty"`
}
