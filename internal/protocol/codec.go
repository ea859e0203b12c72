package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownCodec is returned by CodecByName for unsupported codec names.
var ErrUnknownCodec = errors.New("protocol: unknown codec")

// Codec encodes and decodes event envelopes of the form {"type": ..., "data": ...}.
type Codec interface {
	// Name returns the codec identifier used in the ?codec= query parameter.
	Name() string

	// Binary reports whether frames must be sent as binary messages.
	Binary() bool

	// Encode wraps payload in an envelope of the given event type.
	Encode(event string, payload any) ([]byte, error)

	// Decode parses an envelope. The payload is decoded lazily via Frame.Decode.
	Decode(b []byte) (Frame, error)
}

// Frame is a decoded envelope whose payload has not been decoded yet.
type Frame struct {
	Type      string
	data      []byte
	unmarshal func([]byte, any) error
}

// Decode unmarshals the frame payload into v.
func (f Frame) Decode(v any) error {
	if len(f.data) == 0 {
		return fmt.Errorf("protocol: empty payload for %q", f.Type)
	}
	if err := f.unmarshal(f.data, v); err != nil {
		return fmt.Errorf("protocol: bad payload for %q: %w", f.Type, err)
	}
	return nil
}

// CodecByName returns the codec registered under name. Empty selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// JSONCodec is the default text codec.
type JSONCodec struct{}

type jsonOut struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type jsonIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Name returns "json".
func (JSONCodec) Name() string { return "json" }

// Binary returns false.
func (JSONCodec) Binary() bool { return false }

// Encode marshals the envelope as JSON.
func (JSONCodec) Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, errors.New("protocol: empty event type")
	}
	b, err := json.Marshal(jsonOut{Type: event, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %q: %w", event, err)
	}
	return b, nil
}

// Decode parses a JSON envelope.
func (JSONCodec) Decode(b []byte) (Frame, error) {
	if len(b) == 0 {
		return Frame{}, errors.New("protocol: empty frame")
	}
	var in jsonIn
	if err := json.Unmarshal(b, &in); err != nil {
		return Frame{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if in.Type == "" {
		return Frame{}, errors.New("protocol: envelope without type")
	}
	return Frame{Type: in.Type, data: in.Data, unmarshal: json.Unmarshal}, nil
}

// MsgpackCodec is a compact binary codec for bandwidth-sensitive clients.
type MsgpackCodec struct{}

type msgpackOut struct {
	Type string `msgpack:"type"`
	Data any    `msgpack:"data"`
}

type msgpackIn struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data"`
}

// Name returns "msgpack".
func (MsgpackCodec) Name() string { return "msgpack" }

// Binary returns true.
func (MsgpackCodec) Binary() bool { return true }

// Encode marshals the envelope as MessagePack.
func (MsgpackCodec) Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, errors.New("protocol: empty event type")
	}
	b, err := msgpack.Marshal(&msgpackOut{Type: event, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %q: %w", event, err)
	}
	return b, nil
}

// Decode parses a MessagePack envelope.
func (MsgpackCodec) Decode(b []byte) (Frame, error) {
	if len(b) == 0 {
		return Frame{}, errors.New("protocol: empty frame")
	}
	var in msgpackIn
	if err := msgpack.Unmarshal(b, &in); err != nil {
		return Frame{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if in.Type == "" {
		return Frame{}, errors.New("protocol: envelope without type")
	}
	return Frame{Type: in.Type, data: in.Data, unmarshal: msgpack.Unmarshal}, nil
}
