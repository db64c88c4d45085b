package mcp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/tftx/internal/game"
)

var (
	sessionMu sync.Mutex
	// activeSession is the singleton game session (one per stdio process).
	activeSession *GameSession
	// baseConfig is the configuration start_game overrides, set by main.
	baseConfig = game.DefaultConfig()
)

// SetConfig sets the configuration new games start from.
func SetConfig(cfg game.Config) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	baseConfig = cfg
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(takeActionTool(), handleTakeAction)
	s.AddTool(listActionsTool(), handleListActions)
	s.AddTool(getGameStateTool(), handleGetGameState)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new auto-battler game. You play player_0; every other seat is a random bot. "+
			"Each step every live player takes one action; combat happens every actions_per_round steps. "+
			"Returns the initial state and your legal actions."),
		mcp.WithNumber("seed", mcp.Description("Random seed (default 1)")),
		mcp.WithNumber("num_players", mcp.Description("Number of players including you (default from config)")),
		mcp.WithString("reward_structure", mcp.Description("One of game_placement, damage, mixed (default from config)")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Take one action by code. The bots act in the same step. "+
			"Returns the events of the step, your reward, the new state and your next legal actions."),
		mcp.WithNumber("code", mcp.Required(), mcp.Description("Action code from the actions list")),
	)
}

func listActionsTool() mcp.Tool {
	return mcp.NewTool("list_actions",
		mcp.WithDescription("List your legal action codes with descriptions. Read-only."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, legal actions and your encoded observation tensor without acting. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession != nil && !activeSession.GameOver() {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	cfg := baseConfig
	cfg.NumPlayers = request.GetInt("num_players", cfg.NumPlayers)
	if rs := request.GetString("reward_structure", ""); rs != "" {
		cfg.RewardStructure = game.RewardStructure(rs)
	}
	seed := int64(request.GetInt("seed", 1))

	sess, err := NewGameSession(cfg, seed)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	activeSession = sess

	resp, err := sess.State()
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to read state: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	code := request.GetInt("code", -1)
	resp, err := sess.TakeAction(ctx, code)
	if err != nil {
		return mcp.NewToolResultErrorf("Action rejected: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleListActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	actions := sess.Actions()
	if actions == nil {
		actions = []ActionView{}
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	resp, err := sess.State()
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to read state: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func currentSession() *GameSession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return activeSession
}
