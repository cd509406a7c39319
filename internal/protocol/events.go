package protocol

// Event is anything delivered to the session state machine from the
// connection: decoded server messages and transport link changes.
type Event interface {
	EventType() string
}

// Connected carries the id the server assigned to this client.
type Connected struct {
	PlayerID string `json:"player_id"`
}

func (Connected) EventType() string { return TypeConnected }

// RoomCreated confirms a room this client is hosting.
type RoomCreated struct {
	RoomCode string `json:"room_code"`
}

func (RoomCreated) EventType() string { return TypeRoomCreated }

// RoomJoined confirms this client joined an existing room.
type RoomJoined struct {
	RoomCode string `json:"room_code"`
}

func (RoomJoined) EventType() string { return TypeRoomJoined }

// PlayerJoined tells the host an opponent arrived.
type PlayerJoined struct{}

func (PlayerJoined) EventType() string { return TypePlayerJoined }

// Ball is the ball as reported by the server.
type Ball struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// PlayerState is one player entry of a game_state message.
type PlayerState struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	PaddleY   float64 `json:"paddle_y"`
	Score     int     `json:"score"`
	LatencyMs float64 `json:"latency_ms"`
}

// Server-side match states carried in game_state.
const (
	StateWaiting  = "waiting"
	StatePlaying  = "playing"
	StateFinished = "finished"
)

// GameState is the authoritative playfield from the server.
type GameState struct {
	State   string        `json:"state,omitempty"`
	Frame   int64         `json:"frame,omitempty"`
	Ball    Ball          `json:"ball"`
	Players []PlayerState `json:"players"`
}

func (GameState) EventType() string { return TypeGameState }

// IndexOf returns the position of the player with the given id, or -1.
func (g GameState) IndexOf(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Pong echoes the timestamp of a ping.
type Pong struct {
	ClientTimestamp int64 `json:"client_timestamp"`
}

func (Pong) EventType() string { return TypePong }

// ScoreEvent signals that a point was scored.
type ScoreEvent struct{}

func (ScoreEvent) EventType() string { return TypeScoreEvent }

// GameOver ends the match.
type GameOver struct {
	Winner string `json:"winner"`
}

func (GameOver) EventType() string { return TypeGameOver }

// PlayerDisconnected means the opponent left mid-match.
type PlayerDisconnected struct{}

func (PlayerDisconnected) EventType() string { return TypePlayerDisconnected }

// ServerError is an error reported by the server, shown to the user verbatim.
type ServerError struct {
	Message string `json:"message"`
}

func (ServerError) EventType() string { return TypeError }
