package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ServerMessages groups every message the server emits so one schema
// document describes them all.
type ServerMessages struct {
	Init          Init          `json:"init"`
	PlayerJoined  PlayerJoined  `json:"playerJoined"`
	PlayerLeft    PlayerLeft    `json:"playerLeft"`
	PlayerRenamed PlayerRenamed `json:"playerRenamed"`
	GameUpdate    GameUpdate    `json:"gameUpdate"`
	ClientMessage ClientMessage `json:"clientMessage"`
}

// Schema returns the indented JSON schema of the wire protocol.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(ServerMessages))
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
