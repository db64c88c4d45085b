package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterkuimelis/tftx/internal/game"
	"github.com/peterkuimelis/tftx/internal/obs"
)

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text, res.IsError
	case *mcp.TextContent:
		return c.Text, res.IsError
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return "", false
}

func decode(t *testing.T, text string) ToolResponse {
	t.Helper()
	var resp ToolResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("decode %q: %v", text, err)
	}
	return resp
}

func resetSession(t *testing.T) {
	t.Helper()
	sessionMu.Lock()
	activeSession = nil
	sessionMu.Unlock()
	t.Cleanup(func() {
		sessionMu.Lock()
		activeSession = nil
		sessionMu.Unlock()
	})
}

func TestToolsRequireGame(t *testing.T) {
	resetSession(t)
	for name, h := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"take_action":    handleTakeAction,
		"list_actions":   handleListActions,
		"get_game_state": handleGetGameState,
	} {
		text, isErr := call(t, h, map[string]any{"code": 26})
		if !isErr || !strings.Contains(text, "start_game") {
			t.Errorf("%s: expected a no-game error, got %q", name, text)
		}
	}
}

func TestStartGame(t *testing.T) {
	resetSession(t)
	text, isErr := call(t, handleStartGame, map[string]any{"seed": 4, "reward_structure": "damage"})
	if isErr {
		t.Fatalf("start_game failed: %s", text)
	}
	resp := decode(t, text)
	if resp.SessionID == "" {
		t.Error("expected a session id")
	}
	if resp.State == nil || resp.State.You.ID != Seat || len(resp.State.Opponents) != 1 {
		t.Fatalf("unexpected state %+v", resp.State)
	}
	if resp.State.Countdown != 4 || len(resp.Actions) == 0 || len(resp.Events) == 0 {
		t.Errorf("unexpected opening response %+v", resp)
	}

	text, isErr = call(t, handleStartGame, nil)
	if !isErr || !strings.Contains(text, "already running") {
		t.Errorf("expected a second start to be refused, got %q", text)
	}
}

func TestStartGameRejectsBadConfig(t *testing.T) {
	resetSession(t)
	text, isErr := call(t, handleStartGame, map[string]any{"num_players": 3})
	if !isErr || !strings.Contains(text, "invalid configuration") {
		t.Errorf("expected a configuration error, got %q", text)
	}
}

func TestTakeActionRejectsIllegalCode(t *testing.T) {
	resetSession(t)
	call(t, handleStartGame, map[string]any{"seed": 4})

	text, isErr := call(t, handleTakeAction, map[string]any{"code": 999})
	if !isErr || !strings.Contains(text, "not legal") {
		t.Errorf("expected an illegal-code error, got %q", text)
	}
	if _, isErr := call(t, handleTakeAction, nil); !isErr {
		t.Error("expected a missing code to be rejected")
	}
}

func TestPlayGameThroughTools(t *testing.T) {
	resetSession(t)
	call(t, handleStartGame, map[string]any{"seed": 9})

	idle := 26
	var resp ToolResponse
	for i := 0; !resp.GameOver; i++ {
		if i > 500 {
			t.Fatal("game did not end")
		}
		text, isErr := call(t, handleTakeAction, map[string]any{"code": idle})
		if isErr {
			t.Fatalf("take_action: %s", text)
		}
		resp = decode(t, text)
	}
	if len(resp.Placements) != 2 || len(resp.Actions) != 0 {
		t.Errorf("unexpected final response %+v", resp)
	}

	text, isErr := call(t, handleTakeAction, map[string]any{"code": idle})
	if !isErr || !strings.Contains(text, "over") {
		t.Errorf("expected a game-over error, got %q", text)
	}

	// A finished game can be replaced.
	if text, isErr := call(t, handleStartGame, map[string]any{"seed": 10}); isErr {
		t.Errorf("restart failed: %s", text)
	}
}

func TestListActionsMatchesState(t *testing.T) {
	resetSession(t)
	text, _ := call(t, handleStartGame, map[string]any{"seed": 2})
	start := decode(t, text)

	text, isErr := call(t, handleListActions, nil)
	if isErr {
		t.Fatalf("list_actions: %s", text)
	}
	var actions []ActionView
	if err := json.Unmarshal([]byte(text), &actions); err != nil {
		t.Fatal(err)
	}
	if len(actions) != len(start.Actions) {
		t.Fatalf("list_actions returned %d actions, start_game %d", len(actions), len(start.Actions))
	}
	last := actions[len(actions)-1]
	if last.Code != 26 || last.Desc != "Idle" {
		t.Errorf("expected idle last, got %+v", last)
	}

	text, _ = call(t, handleGetGameState, nil)
	if state := decode(t, text); len(state.Events) != 0 {
		t.Errorf("events were already drained, got %d more", len(state.Events))
	}
}

func TestGameStateCarriesObservation(t *testing.T) {
	resetSession(t)
	call(t, handleStartGame, map[string]any{"seed": 3})
	call(t, handleTakeAction, map[string]any{"code": 26})

	text, isErr := call(t, handleGetGameState, nil)
	if isErr {
		t.Fatalf("get_game_state: %s", text)
	}
	resp := decode(t, text)
	if resp.Observation == nil {
		t.Fatal("expected an observation")
	}
	want := obs.NewEncoder(game.DefaultConfig()).Shape()
	if resp.Observation.Shape != want {
		t.Errorf("expected shape %v, got %v", want, resp.Observation.Shape)
	}
	if len(resp.Observation.Data) != want[0]*want[1]*want[2] {
		t.Errorf("expected %d values, got %d", want[0]*want[1]*want[2], len(resp.Observation.Data))
	}
	// Status row of the seat's own block: hp/10 is 1 before any combat.
	if hp := resp.Observation.At(0, want[1]-1, 1); hp != 1 {
		t.Errorf("expected full hp in the status row, got %v", hp)
	}

	text, _ = call(t, handleTakeAction, map[string]any{"code": 26})
	if decode(t, text).Observation != nil {
		t.Error("expected take_action to omit the observation")
	}
}
