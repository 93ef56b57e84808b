package server

import (
	"snake-server/protocol"
)

// handleClientMessage decodes one inbound frame and forwards the intent to the
// arena. Bad input is logged and ignored; the connection stays open.
func handleClientMessage(arena *Arena, client *WebSocketClient, message []byte) {
	msg, err := protocol.ParseClientMessage(client.codec, message)
	if err != nil {
		client.logEntry().WithError(err).Debug("Ignoring client message")
		return
	}

	switch msg.Type {
	case protocol.MsgDirectionChange:
		arena.SetDirection(client.playerID, *msg.Direction)
	case protocol.MsgSetName:
		arena.SetName(client.playerID, msg.Name)
	}
}
