package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"snake-server/config"
	"snake-server/server"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthHealthy     HealthStatus = "healthy"
	HealthOk          HealthStatus = "ok"
	HealthWarning     HealthStatus = "warning"
	HealthDegraded    HealthStatus = "degraded"
	HealthCritical    HealthStatus = "critical"
	HealthDown        HealthStatus = "down"
	HealthMaintenance HealthStatus = "maintenance"
)

// WebSocketStatus represents the state of the WebSocket server
type WebSocketStatus string

const (
	WebSocketRunning  WebSocketStatus = "running"
	WebSocketStopping WebSocketStatus = "stopping"
	WebSocketError    WebSocketStatus = "error"
)

// StatsSource reports per-arena stats. *server.ArenaManager satisfies it.
type StatsSource interface {
	Stats() []server.ArenaStats
}

// GameMetrics aggregates every arena.
type GameMetrics struct {
	Arenas        int    `json:"arenas"`
	Players       int    `json:"players"`
	Alive         int    `json:"alive"`
	Dead          int    `json:"dead"`
	PowerUps      int    `json:"powerups"`
	Spectators    int    `json:"spectators"`
	Deaths        uint64 `json:"deaths"`
	DroppedFrames uint64 `json:"dropped_frames"`
	// Slowest tick across arenas in the latest round.
	MaxTickNs int64 `json:"max_tick_ns"`
}

// WorkloadMetrics tracks the current system workload
type WorkloadMetrics struct {
	LoadPercentage float64 `json:"load_percentage"`
	MaxPlayers     int     `json:"max_players"`
	CurrentLoad    string  `json:"current_load"` // "low", "medium", "high", "critical"
}

// WebSocketServerMetrics holds WebSocket server status
type WebSocketServerMetrics struct {
	Status            WebSocketStatus `json:"status"`
	ActiveConnections int             `json:"active_connections"`
	UptimeSec         int64           `json:"uptime_sec"`
	LastErrorMessage  string          `json:"last_error_message,omitempty"`
	LastErrorTime     *time.Time      `json:"last_error_time,omitempty"`
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time              `json:"timestamp"`
	Health            HealthStatus           `json:"health"`
	HealthDescription string                 `json:"health_description"`
	Game              GameMetrics            `json:"game"`
	Arenas            []server.ArenaStats    `json:"arenas"`
	WebSocket         WebSocketServerMetrics `json:"websocket"`
	Workload          WorkloadMetrics        `json:"workload"`
	ServerUptime      int64                  `json:"server_uptime_sec"`
}

// MetricsHandler manages metrics collection and reporting
type MetricsHandler struct {
	source           StatsSource
	mu               sync.RWMutex
	serverStartTime  time.Time
	webSocketMetrics WebSocketServerMetrics

	maxPlayersPerArena     int
	warningPlayerThreshold float64 // fraction of capacity
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(source StatsSource) *MetricsHandler {
	return &MetricsHandler{
		source:                 source,
		serverStartTime:        time.Now(),
		maxPlayersPerArena:     50,
		warningPlayerThreshold: 0.8,
		webSocketMetrics:       WebSocketServerMetrics{Status: WebSocketRunning},
	}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
	r.Get("/metrics/arenas", h.GetArenas)
	r.Get("/metrics/websocket", h.GetWebSocket)
	r.Get("/metrics/workload", h.GetWorkload)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.collectMetrics())
}

// GetHealth returns only health status
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()
	writeJSON(w, map[string]interface{}{
		"timestamp":   metrics.Timestamp,
		"health":      metrics.Health,
		"description": metrics.HealthDescription,
		"uptime_sec":  metrics.ServerUptime,
	})
}

// GetArenas returns per-arena stats
func (h *MetricsHandler) GetArenas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.source.Stats())
}

// GetWebSocket returns only WebSocket metrics
func (h *MetricsHandler) GetWebSocket(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()
	writeJSON(w, map[string]interface{}{
		"timestamp": metrics.Timestamp,
		"websocket": metrics.WebSocket,
	})
}

// GetWorkload returns only workload metrics
func (h *MetricsHandler) GetWorkload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.collectMetrics().Workload)
}

// collectMetrics gathers all metrics from the arenas
func (h *MetricsHandler) collectMetrics() *MetricsResponse {
	arenas := h.source.Stats()
	game := aggregate(arenas)

	h.mu.RLock()
	wsMetrics := h.webSocketMetrics
	h.mu.RUnlock()
	wsMetrics.UptimeSec = int64(time.Since(h.serverStartTime).Seconds())
	wsMetrics.ActiveConnections = game.Players

	workload := h.calculateWorkloadMetrics(game)
	health, healthDesc := h.determineHealth(game, workload, wsMetrics)

	return &MetricsResponse{
		Timestamp:         time.Now(),
		Health:            health,
		HealthDescription: healthDesc,
		Game:              game,
		Arenas:            arenas,
		WebSocket:         wsMetrics,
		Workload:          workload,
		ServerUptime:      int64(time.Since(h.serverStartTime).Seconds()),
	}
}

func aggregate(arenas []server.ArenaStats) GameMetrics {
	m := GameMetrics{Arenas: len(arenas)}
	for _, a := range arenas {
		m.Players += a.Players
		m.Alive += a.Alive
		m.Dead += a.Players - a.Alive
		m.PowerUps += a.PowerUps
		m.Spectators += a.Spectators
		m.Deaths += a.Deaths
		m.DroppedFrames += a.DroppedFrames
		if ns := a.LastTickDuration.Nanoseconds(); ns > m.MaxTickNs {
			m.MaxTickNs = ns
		}
	}
	return m
}

// calculateWorkloadMetrics derives load from connected players against arena capacity
func (h *MetricsHandler) calculateWorkloadMetrics(game GameMetrics) WorkloadMetrics {
	workload := WorkloadMetrics{MaxPlayers: game.Arenas * h.maxPlayersPerArena}
	if workload.MaxPlayers > 0 {
		workload.LoadPercentage = float64(game.Players) / float64(workload.MaxPlayers) * 100
	}

	if workload.LoadPercentage < 40 {
		workload.CurrentLoad = "low"
	} else if workload.LoadPercentage < 70 {
		workload.CurrentLoad = "medium"
	} else if workload.LoadPercentage < 90 {
		workload.CurrentLoad = "high"
	} else {
		workload.CurrentLoad = "critical"
	}

	return workload
}

// determineHealth determines overall system health based on metrics
func (h *MetricsHandler) determineHealth(game GameMetrics, workload WorkloadMetrics, wsMetrics WebSocketServerMetrics) (HealthStatus, string) {
	if wsMetrics.Status == WebSocketError {
		return HealthCritical, "WebSocket server error - unable to accept connections"
	}
	if wsMetrics.Status == WebSocketStopping {
		return HealthMaintenance, "Server is performing graceful shutdown - no new connections accepted"
	}
	if game.Arenas == 0 {
		return HealthDown, "No arenas running"
	}

	if workload.CurrentLoad == "critical" {
		return HealthDown, "Player load at critical levels (>90%) - new joins may be rejected"
	}

	// A tick that takes longer than the tick interval delays every arena update.
	if time.Duration(game.MaxTickNs) > config.TICK_INTERVAL {
		return HealthDegraded, fmt.Sprintf("Tick overrun: slowest arena tick took %s", time.Duration(game.MaxTickNs))
	}

	if workload.CurrentLoad == "high" {
		if workload.LoadPercentage >= h.warningPlayerThreshold*100 {
			return HealthDegraded, "Player load is high (80-90%) - reduced responsiveness expected"
		}
		return HealthWarning, "Player load is high (70-80%) - monitor performance closely"
	}

	if game.Players > 0 {
		connStr := "player"
		if game.Players > 1 {
			connStr = "players"
		}
		return HealthHealthy, fmt.Sprintf("All systems operational - %d active %s in %d arenas", game.Players, connStr, game.Arenas)
	}
	return HealthOk, "Server ready and operational - awaiting connections"
}

// RecordWebSocketError records a WebSocket error
func (h *MetricsHandler) RecordWebSocketError(errorMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	h.webSocketMetrics.Status = WebSocketError
	h.webSocketMetrics.LastErrorMessage = errorMsg
	h.webSocketMetrics.LastErrorTime = &now
}

// SetWebSocketStatus sets the WebSocket status
func (h *MetricsHandler) SetWebSocketStatus(status WebSocketStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.webSocketMetrics.Status = status
}
