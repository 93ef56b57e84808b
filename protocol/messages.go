package protocol

import (
	"errors"
	"fmt"

	"snake-server/game"
)

// Message types sent by the server.
const (
	MsgInit          = "init"
	MsgPlayerJoined  = "playerJoined"
	MsgPlayerLeft    = "playerLeft"
	MsgPlayerRenamed = "playerRenamed"
	MsgGameUpdate    = "gameUpdate"
)

// Message types sent by clients.
const (
	MsgSetName         = "setName"
	MsgDirectionChange = "directionChange"
)

var (
	ErrUnknownMessage = errors.New("protocol: unknown message type")
	ErrMalformed      = errors.New("protocol: malformed message")
)

// Init is sent once to a joining client.
type Init struct {
	Type       string        `json:"type" msgpack:"type"`
	PlayerID   string        `json:"playerId" msgpack:"playerId"`
	PlayerName string        `json:"playerName" msgpack:"playerName"`
	Color      string        `json:"color" msgpack:"color"`
	GameState  game.Snapshot `json:"gameState" msgpack:"gameState"`
}

// PlayerJoined announces a new player to everyone else.
type PlayerJoined struct {
	Type       string    `json:"type" msgpack:"type"`
	PlayerID   string    `json:"playerId" msgpack:"playerId"`
	PlayerName string    `json:"playerName" msgpack:"playerName"`
	Color      string    `json:"color" msgpack:"color"`
	Position   game.Cell `json:"position" msgpack:"position"`
}

type PlayerLeft struct {
	Type     string `json:"type" msgpack:"type"`
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

type PlayerRenamed struct {
	Type       string `json:"type" msgpack:"type"`
	PlayerID   string `json:"playerId" msgpack:"playerId"`
	PlayerName string `json:"playerName" msgpack:"playerName"`
}

// GameUpdate carries the full world after a tick.
type GameUpdate struct {
	Type      string        `json:"type" msgpack:"type"`
	GameState game.Snapshot `json:"gameState" msgpack:"gameState"`
}

// ClientMessage is the union of every client intent.
type ClientMessage struct {
	Type      string          `json:"type" msgpack:"type"`
	Name      string          `json:"name,omitempty" msgpack:"name,omitempty"`
	Direction *game.Direction `json:"direction,omitempty" msgpack:"direction,omitempty"`
}

// ParseClientMessage decodes and validates one inbound frame.
func ParseClientMessage(c Codec, data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := c.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch msg.Type {
	case MsgSetName:
		return msg, nil
	case MsgDirectionChange:
		if msg.Direction == nil || !msg.Direction.Valid() {
			return ClientMessage{}, fmt.Errorf("%w: bad direction", ErrMalformed)
		}
		return msg, nil
	default:
		return ClientMessage{}, fmt.Errorf("%w %q", ErrUnknownMessage, msg.Type)
	}
}
