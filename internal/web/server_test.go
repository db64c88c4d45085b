package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/peterkuimelis/tftx/internal/game"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := NewServer(game.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.ShopSize = 0
	if _, err := NewServer(cfg, nil); err == nil {
		t.Error("expected an invalid config to be rejected")
	}
}

func TestIndexAndAPI(t *testing.T) {
	ts := newTestServer(t)

	code, body := get(t, ts.URL+"/")
	if code != http.StatusOK || !strings.Contains(body, "tftx spectator") {
		t.Errorf("index: %d %q", code, body)
	}
	if code, _ := get(t, ts.URL+"/nope"); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}

	code, body = get(t, ts.URL+"/api/config")
	if code != http.StatusOK {
		t.Fatalf("config: %d", code)
	}
	var cfg game.Config
	if err := json.Unmarshal([]byte(body), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg != game.DefaultConfig() {
		t.Errorf("unexpected config %+v", cfg)
	}

	code, body = get(t, ts.URL+"/api/schema")
	if code != http.StatusOK || !strings.Contains(body, "reward_structure") {
		t.Errorf("schema: %d %q", code, body)
	}
}

func TestSpectatorStream(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws?seed=3&delay=0", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()
	conn.SetReadLimit(1 << 20)

	steps := 0
	for {
		var msg map[string]json.RawMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read after %d steps: %v", steps, err)
		}
		var typ string
		if err := json.Unmarshal(msg["type"], &typ); err != nil {
			t.Fatal(err)
		}
		if typ == "step" {
			steps++
			continue
		}
		if typ != "game_over" {
			t.Fatalf("unexpected message type %q", typ)
		}
		var over struct {
			Result struct {
				Steps      int      `json:"steps"`
				Placements []string `json:"placements"`
			} `json:"result"`
		}
		if err := json.Unmarshal(msg["result"], &over.Result); err != nil {
			t.Fatal(err)
		}
		if over.Result.Steps+1 != steps {
			t.Errorf("got %d step messages for %d steps", steps, over.Result.Steps)
		}
		if len(over.Result.Placements) != 2 {
			t.Errorf("unexpected placements %v", over.Result.Placements)
		}
		return
	}
}

func TestSpectatorBadSeed(t *testing.T) {
	ts := newTestServer(t)
	if code, _ := get(t, ts.URL+"/ws?seed=abc"); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}
