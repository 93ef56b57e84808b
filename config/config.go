package config

import "time"

// Board dimensions
const (
	WORLD_WIDTH  = 800                      // Playfield width in pixels
	WORLD_HEIGHT = 600                      // Playfield height in pixels
	CELL_SIZE    = 15                       // Size of one grid cell in pixels
	GRID_WIDTH   = WORLD_WIDTH / CELL_SIZE  // 53 cells
	GRID_HEIGHT  = WORLD_HEIGHT / CELL_SIZE // 40 cells
)

// TICK_RATE is the number of simulation steps per second.
const TICK_RATE = 10

// TICK_INTERVAL is the time between two simulation steps.
const TICK_INTERVAL = time.Second / TICK_RATE

// Arena IDs
const (
	ArenaClassicID = "classic"
)

// DefaultArenaID is the arena clients join when they do not ask for one.
const DefaultArenaID = ArenaClassicID

// DefaultLevel is the difficulty level of arenas configured without one.
const DefaultLevel = 1

// PlayerColors is the palette handed out to players in join order.
var PlayerColors = []string{"#FF5252", "#4CAF50", "#2196F3", "#FFEB3B", "#9C27B0", "#FF9800"}

// Client send buffer and websocket limits.
const (
	ClientSendBuffer = 64
	MaxMessageSize   = 512
	ArenaInboxSize   = 256
	SpectatorBuffer  = 16
)
