package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"snake-server/config"
	"snake-server/logger"
	"snake-server/protocol"
)

const (
	// WebSocket heartbeat settings to detect disconnected clients
	PING_INTERVAL = 10 * time.Second // Frequency of sending ping messages
	PONG_WAIT     = 60 * time.Second // Time to wait for a pong before considering the client gone
	WRITE_WAIT    = 10 * time.Second // Deadline for a single frame write
)

// WebSocketClient represents a single connected player.
type WebSocketClient struct {
	conn     *websocket.Conn // The raw WebSocket connection
	send     chan []byte     // Outgoing frames; only the arena goroutine closes it
	playerID string          // Assigned by the arena on join
	codec    protocol.Codec  // Wire encoding chosen at connect time
	done     chan struct{}   // Signal channel for goroutine termination
}

// NewWebSocketClient wraps conn. The player id is assigned when the arena
// accepts the join.
func NewWebSocketClient(conn *websocket.Conn, codec protocol.Codec) *WebSocketClient {
	return &WebSocketClient{
		conn:  conn,
		send:  make(chan []byte, config.ClientSendBuffer), // Buffered so a tick never waits on a socket
		codec: codec,
		done:  make(chan struct{}),
	}
}

// PlayerID returns the id assigned by the arena, or "" before joining.
func (c *WebSocketClient) PlayerID() string {
	return c.playerID
}

func (c *WebSocketClient) logEntry() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{"player": c.playerID, "codec": c.codec.Name()})
}

// ReadPump reads intents from the connection until it fails, then leaves the arena.
func (c *WebSocketClient) ReadPump(arena *Arena) {
	defer func() {
		arena.Leave(c.playerID) // Remove the snake and tell the others
		close(c.done)           // Signal the WritePump to terminate
		c.conn.Close()
	}()

	// Set a read limit, a read deadline and a pong handler for heartbeat.
	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PONG_WAIT))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(PONG_WAIT)) // Extend deadline on pong
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logEntry().WithError(err).Warn("Unexpected WebSocket close")
			} else {
				c.logEntry().WithError(err).Debug("WebSocket read ended")
			}
			return // Exit loop on any read error, triggering defer
		}
		handleClientMessage(arena, c, message)
	}
}

// WritePump drains the send channel onto the connection and keeps it alive with pings.
func (c *WebSocketClient) WritePump() {
	ticker := time.NewTicker(PING_INTERVAL) // Ticker for sending periodic pings
	defer func() {
		ticker.Stop()
		c.conn.Close() // Ensure connection is closed on exit
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
			if !ok {
				// The arena dropped this client.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return // Terminate goroutine
			}
			// Each message is a separate frame: text for JSON, binary for msgpack.
			if err := c.conn.WriteMessage(c.codec.FrameType(), message); err != nil {
				c.logEntry().WithError(err).Debug("Error sending message")
				return // Terminate goroutine on write error
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logEntry().WithError(err).Debug("Error sending ping")
				return // Terminate goroutine on ping error
			}

		case <-c.done:
			// ReadPump ended; attempt a normal close before exiting.
			err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				c.logEntry().WithError(err).Debug("Error sending final close message")
			}
			return
		}
	}
}
