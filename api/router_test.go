package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"snake-server/config"
	"snake-server/server"
)

type fakeStats []server.ArenaStats

func (f fakeStats) Stats() []server.ArenaStats { return f }

func newTestRouter(stats fakeStats) (http.Handler, *MetricsHandler) {
	mh := NewMetricsHandler(stats)
	cfg := config.ServerConfig{CORSOrigins: []string{"*"}}
	r, err := NewRouter(cfg, server.NewGameServer(nil, nil), mh)
	if err != nil {
		panic(err)
	}
	return r, mh
}

func get(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d: %s", path, rec.Code, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
	}
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(nil)
	var body map[string]string
	get(t, h, "/api/v1/health", &body)
	if body["status"] != "ok" {
		t.Fatalf("health = %v", body)
	}
}

func TestMetricsAggregatesArenas(t *testing.T) {
	h, _ := newTestRouter(fakeStats{
		{ID: "classic", Players: 2, Alive: 1, PowerUps: 1, DroppedFrames: 3, LastTickDuration: time.Millisecond},
		{ID: "maze", Players: 1, Alive: 1, Spectators: 2, Deaths: 4},
	})

	var m MetricsResponse
	get(t, h, "/api/v1/metrics", &m)
	want := GameMetrics{
		Arenas: 2, Players: 3, Alive: 2, Dead: 1, PowerUps: 1, Spectators: 2,
		Deaths: 4, DroppedFrames: 3, MaxTickNs: int64(time.Millisecond),
	}
	if m.Game != want {
		t.Fatalf("game = %+v, want %+v", m.Game, want)
	}
	if m.Health != HealthHealthy || m.WebSocket.ActiveConnections != 3 || len(m.Arenas) != 2 {
		t.Fatalf("metrics = %+v", m)
	}

	var arenas []server.ArenaStats
	get(t, h, "/api/v1/metrics/arenas", &arenas)
	if len(arenas) != 2 || arenas[1].ID != "maze" {
		t.Fatalf("arenas = %+v", arenas)
	}
}

func TestHealthStatusTransitions(t *testing.T) {
	tests := []struct {
		name   string
		stats  fakeStats
		status WebSocketStatus
		want   HealthStatus
	}{
		{"idle", fakeStats{{ID: "a"}}, WebSocketRunning, HealthOk},
		{"playing", fakeStats{{ID: "a", Players: 2, Alive: 2}}, WebSocketRunning, HealthHealthy},
		{"no arenas", nil, WebSocketRunning, HealthDown},
		{"tick overrun", fakeStats{{ID: "a", Players: 1, LastTickDuration: 2 * config.TICK_INTERVAL}}, WebSocketRunning, HealthDegraded},
		{"high load", fakeStats{{ID: "a", Players: 36}}, WebSocketRunning, HealthWarning},
		{"very high load", fakeStats{{ID: "a", Players: 42}}, WebSocketRunning, HealthDegraded},
		{"critical load", fakeStats{{ID: "a", Players: 46}}, WebSocketRunning, HealthDown},
		{"stopping", fakeStats{{ID: "a"}}, WebSocketStopping, HealthMaintenance},
		{"error", fakeStats{{ID: "a"}}, WebSocketError, HealthCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mh := newTestRouter(tt.stats)
			mh.SetWebSocketStatus(tt.status)
			var body map[string]any
			get(t, h, "/api/v1/metrics/health", &body)
			if body["health"] != string(tt.want) {
				t.Fatalf("health = %v (%v), want %s", body["health"], body["description"], tt.want)
			}
		})
	}
}

func TestRecordWebSocketError(t *testing.T) {
	h, mh := newTestRouter(fakeStats{{ID: "a"}})
	mh.RecordWebSocketError("listener closed")

	var body struct {
		WebSocket WebSocketServerMetrics `json:"websocket"`
	}
	get(t, h, "/api/v1/metrics/websocket", &body)
	if body.WebSocket.Status != WebSocketError || body.WebSocket.LastErrorMessage != "listener closed" || body.WebSocket.LastErrorTime == nil {
		t.Fatalf("websocket = %+v", body.WebSocket)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	h, _ := newTestRouter(nil)
	rec := get(t, h, "/api/v1/schema", nil)
	if ct := rec.Header().Get("Content-Type"); ct != "application/schema+json" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"gameState"`) {
		t.Fatalf("schema missing gameState: %s", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/metrics", nil)
	req.Header.Set("Origin", "https://snake.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
