package protocol

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes messages for one wire format.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// FrameType is the websocket frame type carrying this encoding.
	FrameType() int
}

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// Codecs lists every supported codec.
var Codecs = []Codec{JSON, Msgpack}

// CodecByName resolves an encoding query parameter. Empty selects JSON.
func CodecByName(name string) (Codec, bool) {
	if name == "" {
		return JSON, true
	}
	for _, c := range Codecs {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) FrameType() int {
	return websocket.TextMessage
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string {
	return "msgpack"
}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (msgpackCodec) FrameType() int {
	return websocket.BinaryMessage
}
