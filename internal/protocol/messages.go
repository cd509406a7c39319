// Package protocol defines the JSON wire contract spoken with the game
// server: outbound intents, inbound events, and the tagged codec between
// them.
package protocol

// Message type tags.
const (
	TypeCreateRoom    = "create_room"
	TypeJoinRoom      = "join_room"
	TypeDisconnect    = "disconnect"
	TypePaddleInput   = "paddle_input"
	TypePing          = "ping"
	TypeLatencyUpdate = "latency_update"

	TypeConnected          = "connected"
	TypeRoomCreated        = "room_created"
	TypeRoomJoined         = "room_joined"
	TypePlayerJoined       = "player_joined"
	TypeGameState          = "game_state"
	TypePong               = "pong"
	TypeScoreEvent         = "score_event"
	TypeGameOver           = "game_over"
	TypePlayerDisconnected = "player_disconnected"
	TypeError              = "error"
)

// Message is an outbound client intent.
type Message interface {
	MessageType() string
}

// CreateRoom asks the server to open a new room hosted by this client.
type CreateRoom struct {
	PlayerName string `json:"player_name"`
}

func (CreateRoom) MessageType() string { return TypeCreateRoom }

// JoinRoom asks to join an existing room. Build it with NewJoinRoom so the
// code is validated and normalized.
type JoinRoom struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name,omitempty"`
}

func (JoinRoom) MessageType() string { return TypeJoinRoom }

// NewJoinRoom validates the raw code and returns the message to send.
// Invalid codes never produce a message.
func NewJoinRoom(rawCode, playerName string) (JoinRoom, error) {
	code, err := NormalizeRoomCode(rawCode)
	if err != nil {
		return JoinRoom{}, err
	}
	return JoinRoom{RoomCode: code, PlayerName: playerName}, nil
}

// Disconnect leaves the current room.
type Disconnect struct{}

func (Disconnect) MessageType() string { return TypeDisconnect }

// PaddleInput reports a change of the local paddle direction (-1, 0, 1).
type PaddleInput struct {
	Direction int `json:"direction"`
}

func (PaddleInput) MessageType() string { return TypePaddleInput }

// Ping carries the client send time in epoch milliseconds.
type Ping struct {
	Timestamp int64 `json:"timestamp"`
}

func (Ping) MessageType() string { return TypePing }

// LatencyUpdate reports the latest measured round trip to the server.
type LatencyUpdate struct {
	LatencyMs float64 `json:"latency_ms"`
}

func (LatencyUpdate) MessageType() string { return TypeLatencyUpdate }
