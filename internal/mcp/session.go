package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/tftx/internal/driver"
	"github.com/peterkuimelis/tftx/internal/game"
	"github.com/peterkuimelis/tftx/internal/log"
	"github.com/peterkuimelis/tftx/internal/obs"
)

// Seat is the agent the MCP client plays. Every other seat is a bot.
const Seat game.AgentID = "player_0"

// ActionView is one legal action as presented to the client.
type ActionView struct {
	Code int    `json:"code"`
	Desc string `json:"desc"`
}

// EventView is a game event as presented in tool responses.
type EventView struct {
	Round   int    `json:"round"`
	Step    int    `json:"step"`
	Agent   string `json:"agent,omitempty"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

// OpponentView is the public part of another agent's state.
type OpponentView struct {
	ID    game.AgentID `json:"id"`
	HP    int          `json:"hp"`
	Alive bool         `json:"alive"`
	Power int          `json:"power"`
	Board []game.Slot  `json:"board"`
}

// StateView is the game from the client's seat.
type StateView struct {
	Round     int             `json:"round"`
	Countdown int             `json:"countdown"`
	You       game.PlayerView `json:"you"`
	Opponents []OpponentView  `json:"opponents"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	SessionID   string         `json:"session_id"`
	Events      []EventView    `json:"events"`
	State       *StateView     `json:"state,omitempty"`
	Actions     []ActionView   `json:"actions,omitempty"`
	Reward      int            `json:"reward"`
	TotalReward int            `json:"total_reward"`
	GameOver    bool           `json:"game_over"`
	Winner      game.AgentID   `json:"winner,omitempty"`
	Placements  []game.AgentID `json:"placements,omitempty"`
	// Observation is the seat's encoded observation, set by get_game_state.
	Observation *obs.Tensor `json:"observation,omitempty"`
}

// GameSession is one game between the client and random bots.
type GameSession struct {
	ID string

	mu      sync.Mutex
	game    *game.Game
	logger  *log.MemoryLogger
	encoder *obs.Encoder
	bots    map[game.AgentID]driver.Policy
	last    game.StepResult
	cursor  int
	reward  int
	total   int
}

// NewGameSession creates and resets a game.
func NewGameSession(cfg game.Config, seed int64) (*GameSession, error) {
	logger := log.NewMemoryLogger()
	g, err := game.NewGame(cfg, game.NewRNG(seed), logger)
	if err != nil {
		return nil, err
	}
	res, err := g.Reset()
	if err != nil {
		return nil, err
	}
	sess := &GameSession{
		ID:      uuid.NewString(),
		game:    g,
		logger:  logger,
		encoder: obs.NewEncoder(cfg),
		bots:    make(map[game.AgentID]driver.Policy),
		last:    res,
	}
	for i, id := range g.Agents() {
		if id != Seat {
			sess.bots[id] = driver.NewRandomPolicy(seed*31 + int64(i) + 1)
		}
	}
	return sess, nil
}

// TakeAction plays code for the client's seat and one random action for
// every bot. Once the client is eliminated the bots play on until the game
// ends.
func (s *GameSession) TakeAction(ctx context.Context, code int) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last.AllDone() {
		return nil, fmt.Errorf("the game is over")
	}
	mask := s.last.Masks[Seat]
	if code < 0 || code >= len(mask) || !mask[code] {
		return nil, fmt.Errorf("%w: code %d is not legal now; use list_actions", game.ErrInvalidAction, code)
	}

	if err := s.step(ctx, map[game.AgentID]int{Seat: code}); err != nil {
		return nil, err
	}
	s.reward = s.last.Rewards[Seat]
	for s.last.Dones[Seat] && !s.last.AllDone() {
		if err := s.step(ctx, nil); err != nil {
			return nil, err
		}
	}
	s.total += s.reward
	return s.response(true), nil
}

func (s *GameSession) step(ctx context.Context, actions map[game.AgentID]int) error {
	if actions == nil {
		actions = make(map[game.AgentID]int)
	}
	for id, bot := range s.bots {
		if !s.last.Acting[id] || s.last.Dones[id] {
			continue
		}
		code, err := bot.ChooseAction(ctx, id, s.last.Observations[id], s.last.Masks[id])
		if err != nil {
			return err
		}
		actions[id] = code
	}
	res, err := s.game.Step(actions)
	if err != nil {
		return err
	}
	s.last = res
	return nil
}

// State returns the current view and the seat's observation without
// stepping.
func (s *GameSession) State() (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.encoder.Encode(s.last, Seat)
	if err != nil {
		return nil, err
	}
	resp := s.response(false)
	resp.Observation = &t
	return resp, nil
}

// GameOver reports whether every agent is done.
func (s *GameSession) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.AllDone()
}

// Actions lists the seat's legal actions.
func (s *GameSession) Actions() []ActionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions()
}

func (s *GameSession) actions() []ActionView {
	if s.last.AllDone() {
		return nil
	}
	var views []ActionView
	for code, ok := range s.last.Masks[Seat] {
		if ok {
			views = append(views, ActionView{Code: code, Desc: s.game.Describe(code)})
		}
	}
	return views
}

// response builds a ToolResponse with the events logged since the last one.
func (s *GameSession) response(withReward bool) *ToolResponse {
	resp := &ToolResponse{
		SessionID:   s.ID,
		Events:      s.drainEvents(),
		State:       s.stateView(),
		Actions:     s.actions(),
		TotalReward: s.total,
		GameOver:    s.last.AllDone(),
	}
	if withReward {
		resp.Reward = s.reward
	}
	if resp.GameOver {
		if w, ok := s.game.Winner(); ok {
			resp.Winner = w
		}
		resp.Placements = s.game.Standings()
	}
	return resp
}

func (s *GameSession) drainEvents() []EventView {
	all := s.logger.Events()
	views := make([]EventView, 0, len(all)-s.cursor)
	for _, ev := range all[s.cursor:] {
		views = append(views, EventView{
			Round:   ev.Round,
			Step:    ev.Step,
			Agent:   ev.Agent,
			Type:    ev.Type.String(),
			Details: ev.Details,
		})
	}
	s.cursor = len(all)
	return views
}

func (s *GameSession) stateView() *StateView {
	sv := &StateView{
		Round:     s.last.Round,
		Countdown: s.last.Countdown,
		You:       s.last.Observations[Seat],
	}
	for _, id := range s.last.Agents {
		if id == Seat {
			continue
		}
		v := s.last.Observations[id]
		sv.Opponents = append(sv.Opponents, OpponentView{
			ID:    id,
			HP:    v.HP,
			Alive: v.Alive,
			Power: v.Power,
			Board: v.Board,
		})
	}
	return sv
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
