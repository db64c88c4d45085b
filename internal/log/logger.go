package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// Reset drops all recorded events.
func (l *MemoryLogger) Reset() {
	l.events = nil
	l.seq = 0
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- FanoutLogger: forwards each event to several loggers ---

// FanoutLogger records events locally and forwards them to every sink.
type FanoutLogger struct {
	MemoryLogger
	sinks []EventLogger
}

func NewFanoutLogger(sinks ...EventLogger) *FanoutLogger {
	return &FanoutLogger{sinks: sinks}
}

func (l *FanoutLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	event.Seq = l.seq
	for _, s := range l.sinks {
		s.Log(event)
	}
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("R%-2d S%-3d| %s", e.Round, e.Step, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewResetEvent(players int, poolSize int) GameEvent {
	return GameEvent{
		Type:    EventReset,
		Details: fmt.Sprintf("=== New game: %d players, pool of %d champions ===", players, poolSize),
	}
}

func NewActionEvent(agent string, desc string) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventAction,
		Details: fmt.Sprintf("%s: %s", agent, desc),
	}
}

func NewActionRejectedEvent(agent string, code int, err error) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventActionRejected,
		Details: fmt.Sprintf("%s: action %d rejected (%v)", agent, code, err),
	}
}

func NewPurchaseEvent(agent string, champ string, gold int) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventPurchase,
		Gold:    gold,
		Details: fmt.Sprintf("%s buys %s (gold %d)", agent, champ, gold),
	}
}

func NewSellEvent(agent string, champ string, credit int) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventSell,
		Details: fmt.Sprintf("%s sells %s for %d gold", agent, champ, credit),
	}
}

func NewRefreshEvent(agent string, shop []string) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventRefresh,
		Details: fmt.Sprintf("%s refreshes shop: %s", agent, strings.Join(shop, ", ")),
	}
}

func NewMergeEvent(agent string, champ string) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventMerge,
		Details: fmt.Sprintf("%s merges into %s", agent, champ),
	}
}

func NewCombatEvent(agent string, power int, opponent string, oppPower int) GameEvent {
	return GameEvent{
		Agent:    agent,
		Opponent: opponent,
		Type:     EventCombat,
		Power:    power,
		Details:  fmt.Sprintf("%s (power %d) vs %s (power %d)", agent, power, opponent, oppPower),
	}
}

func NewDamageEvent(agent string, oldHP, newHP int) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventDamage,
		HP:      newHP,
		Details: fmt.Sprintf("%s HP: %d → %d", agent, oldHP, newHP),
	}
}

func NewEliminationEvent(agent string) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventElimination,
		Details: fmt.Sprintf("%s is eliminated", agent),
	}
}

func NewIncomeEvent(agent string, income, gold int) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventIncome,
		Gold:    gold,
		Details: fmt.Sprintf("%s earns %d gold (now %d)", agent, income, gold),
	}
}

func NewRoundSummaryEvent(agent string, power, hp, gold int, board, bench []string) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventRoundSummary,
		Power:   power,
		HP:      hp,
		Gold:    gold,
		Board:   board,
		Bench:   bench,
		Details: fmt.Sprintf("%s power=%d hp=%d gold=%d board=[%s] bench=[%s]", agent, power, hp, gold, strings.Join(board, " "), strings.Join(bench, " ")),
	}
}

func NewWinEvent(agent string) GameEvent {
	return GameEvent{
		Agent:   agent,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins!", agent),
	}
}
