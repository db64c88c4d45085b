package web

import (
	"context"
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/peterkuimelis/tftx/internal/config"
	"github.com/peterkuimelis/tftx/internal/driver"
	"github.com/peterkuimelis/tftx/internal/game"
	"github.com/peterkuimelis/tftx/internal/log"
)

//go:embed static
var staticFiles embed.FS

// DefaultStepDelay paces spectator streams when the client sets no delay.
const DefaultStepDelay = 150 * time.Millisecond

// StepMessage is pushed to spectators after Reset and after every step.
type StepMessage struct {
	Type      string               `json:"type"`
	Round     int                  `json:"round"`
	Countdown int                  `json:"countdown"`
	Players   []game.PlayerView    `json:"players"`
	Rewards   map[game.AgentID]int `json:"rewards"`
	Combat    *game.CombatOutcome  `json:"combat,omitempty"`
	Events    []log.GameEvent      `json:"events"`
}

// GameOverMessage ends a spectator stream.
type GameOverMessage struct {
	Type   string        `json:"type"`
	Result driver.Result `json:"result"`
}

// Server is the tftx spectator web UI server.
type Server struct {
	cfg    game.Config
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer creates a web server that runs games with cfg.
func NewServer(cfg game.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/config", s.handleConfig)
	s.mux.HandleFunc("GET /api/schema", s.handleSchema)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.cfg)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	b, err := config.Schema()
	if err != nil {
		s.logger.Error("build schema", "err", err)
		http.Error(w, "schema unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(b)
}

// handleWebSocket runs a self-play game and streams it to the client.
// Query parameters: seed (default 1) and delay in milliseconds.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seed, err := queryInt(q.Get("seed"), 1)
	if err != nil {
		http.Error(w, "bad seed", http.StatusBadRequest)
		return
	}
	delay := DefaultStepDelay
	if ms, err := queryInt(q.Get("delay"), -1); err != nil {
		http.Error(w, "bad delay", http.StatusBadRequest)
		return
	} else if ms >= 0 {
		delay = time.Duration(ms) * time.Millisecond
	}

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", "err", err)
		return
	}
	defer wsConn.CloseNow()

	// The stream is read-only; CloseRead handles control frames and
	// cancels ctx when the spectator goes away.
	ctx := wsConn.CloseRead(r.Context())

	logger := log.NewMemoryLogger()
	cursor := 0
	m := driver.Match{
		Config: s.cfg,
		Seed:   seed,
		Logger: logger,
		OnStep: func(res game.StepResult) error {
			events := logger.Events()[cursor:]
			cursor = len(logger.Events())
			if err := wsjson.Write(ctx, wsConn, stepMessage(res, events)); err != nil {
				return err
			}
			return sleep(ctx, delay)
		},
	}

	s.logger.Info("spectator game started", "seed", seed, "remote", r.RemoteAddr)
	result, err := m.Run(ctx)
	if err != nil {
		s.logger.Info("spectator game stopped", "seed", seed, "err", err)
		return
	}
	if err := wsjson.Write(ctx, wsConn, GameOverMessage{Type: "game_over", Result: result}); err != nil {
		s.logger.Warn("websocket write", "err", err)
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

func stepMessage(res game.StepResult, events []log.GameEvent) StepMessage {
	msg := StepMessage{
		Type:      "step",
		Round:     res.Round,
		Countdown: res.Countdown,
		Rewards:   res.Rewards,
		Combat:    res.Combat,
		Events:    append([]log.GameEvent{}, events...),
	}
	for _, id := range res.Agents {
		msg.Players = append(msg.Players, res.Observations[id])
	}
	return msg
}

func queryInt(v string, def int64) (int64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
