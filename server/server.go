package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"snake-server/logger"
	"snake-server/protocol"
)

const joinTimeout = 5 * time.Second

// GameServer upgrades HTTP requests and attaches the resulting clients to arenas.
type GameServer struct {
	upgrader websocket.Upgrader // WebSocket upgrader for HTTP requests
	manager  *ArenaManager      // Arenas clients can join
}

// NewGameServer creates a GameServer serving the arenas in manager. An empty
// origin list, or one containing "*", accepts any Origin.
func NewGameServer(manager *ArenaManager, allowedOrigins []string) *GameServer {
	return &GameServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		manager: manager,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Manager returns the arenas served by gs.
func (gs *GameServer) Manager() *ArenaManager {
	return gs.manager
}

// HandleWebSocket serves /ws?arena=<id>&encoding=json|msgpack.
func (gs *GameServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	arena, err := gs.manager.Get(q.Get("arena"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	codec, ok := protocol.CodecByName(q.Get("encoding"))
	if !ok {
		http.Error(w, "unsupported encoding", http.StatusBadRequest)
		return
	}

	// Upgrade only once the arena and encoding are known to be valid.
	conn, err := gs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := NewWebSocketClient(conn, codec)
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	playerID, err := arena.Join(ctx, client)
	cancel()
	if err != nil {
		code := websocket.CloseTryAgainLater
		if errors.Is(err, ErrArenaClosed) {
			code = websocket.CloseGoingAway
		}
		logger.Log.WithError(err).WithField("remote", conn.RemoteAddr().String()).Warn("Join rejected")
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, "join rejected"), time.Now().Add(WRITE_WAIT))
		conn.Close() // Close connection when the join is rejected
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"player": playerID,
		"arena":  arena.ID,
		"codec":  codec.Name(),
		"remote": conn.RemoteAddr().String(),
	}).Info("Client connected")

	// Start read and write goroutines for the client.
	go client.WritePump()
	go client.ReadPump(arena)
}
