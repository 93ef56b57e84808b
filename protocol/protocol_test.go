package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"snake-server/game"
)

func TestParseClientMessage(t *testing.T) {
	msg, err := ParseClientMessage(JSON, []byte(`{"type":"directionChange","direction":{"x":0,"y":-1}}`))
	if err != nil {
		t.Fatalf("parse direction: %v", err)
	}
	if *msg.Direction != game.Up {
		t.Fatalf("direction = %v, want up", *msg.Direction)
	}

	msg, err = ParseClientMessage(JSON, []byte(`{"type":"setName","name":"alice"}`))
	if err != nil || msg.Name != "alice" {
		t.Fatalf("parse name: %+v %v", msg, err)
	}
}

func TestParseClientMessageRejects(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{`not json`, ErrMalformed},
		{`{"type":"directionChange"}`, ErrMalformed},
		{`{"type":"directionChange","direction":{"x":1,"y":1}}`, ErrMalformed},
		{`{"type":"directionChange","direction":{"x":2,"y":0}}`, ErrMalformed},
		{`{"type":"teleport"}`, ErrUnknownMessage},
	}
	for _, tc := range cases {
		if _, err := ParseClientMessage(JSON, []byte(tc.in)); !errors.Is(err, tc.want) {
			t.Fatalf("ParseClientMessage(%s) err = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestCodecByName(t *testing.T) {
	if c, ok := CodecByName(""); !ok || c != JSON {
		t.Fatalf("empty name should select JSON")
	}
	c, ok := CodecByName("msgpack")
	if !ok || c.FrameType() != websocket.BinaryMessage {
		t.Fatalf("msgpack codec not resolved")
	}
	if _, ok := CodecByName("xml"); ok {
		t.Fatalf("unknown codec resolved")
	}
}

func TestMsgpackUsesWireNames(t *testing.T) {
	update := GameUpdate{Type: MsgGameUpdate, GameState: game.Snapshot{Tick: 7, Food: game.Cell{X: 3, Y: 4}}}
	data, err := Msgpack.Marshal(update)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]any
	if err := msgpack.Unmarshal(data, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if generic["type"] != MsgGameUpdate {
		t.Fatalf("type = %v", generic["type"])
	}
	state, ok := generic["gameState"].(map[string]any)
	if !ok {
		t.Fatalf("gameState missing: %v", generic)
	}
	if _, ok := state["powerups"]; !ok {
		t.Fatalf("powerups key missing: %v", state)
	}
}

func TestSchemaDescribesMessages(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	for _, want := range []string{`"gameState"`, `"powerups"`, `"playerId"`, `"direction"`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Fatalf("schema missing %s", want)
		}
	}
}
