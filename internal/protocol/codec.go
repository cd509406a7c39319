package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned for frames that are not a JSON object with a
	// string type tag, or whose body does not match the tag.
	ErrMalformed = errors.New("protocol: malformed message")
	// ErrUnknownMessage is returned for well-formed frames with an
	// unrecognized type tag.
	ErrUnknownMessage = errors.New("protocol: unknown message type")
)

// Encode renders msg as a single-line tagged JSON object:
// {"type":"<tag>", ...fields}.
func Encode(msg Message) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", msg.MessageType(), err)
	}
	tag, err := json.Marshal(msg.MessageType())
	if err != nil {
		return nil, fmt.Errorf("protocol: encode tag: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + len(tag) + 10)
	buf.WriteString(`{"type":`)
	buf.Write(tag)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type envelope struct {
	Type *string `json:"type"`
}

// Decode parses one inbound frame into its typed event.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == nil {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	switch *env.Type {
	case TypeConnected:
		return decodeBody[Connected](data)
	case TypeRoomCreated:
		return decodeBody[RoomCreated](data)
	case TypeRoomJoined:
		return decodeBody[RoomJoined](data)
	case TypePlayerJoined:
		return PlayerJoined{}, nil
	case TypeGameState:
		return decodeBody[GameState](data)
	case TypePong:
		return decodeBody[Pong](data)
	case TypeScoreEvent:
		return ScoreEvent{}, nil
	case TypeGameOver:
		return decodeBody[GameOver](data)
	case TypePlayerDisconnected:
		return PlayerDisconnected{}, nil
	case TypeError:
		return decodeBody[ServerError](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, *env.Type)
	}
}

func decodeBody[T Event](data []byte) (Event, error) {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, evt.EventType(), err)
	}
	return evt, nil
}
