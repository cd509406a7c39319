// Package session tracks which screen the client is on, who produces the
// playfield snapshot, and what goes out on the wire.
package session

// Mode is the client screen. Exactly one mode is active at a time.
type Mode int

const (
	ModeMenu Mode = iota
	ModeWaiting
	ModeNetworked
	ModePractice
	ModeGameOver
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeWaiting:
		return "waiting"
	case ModeNetworked:
		return "networked"
	case ModePractice:
		return "practice"
	case ModeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// producer identifies who owns the current snapshot.
type producer int

const (
	producerNone producer = iota
	producerNetwork
	producerLocal
)

// Status is the connectivity indicator.
type Status int

const (
	StatusConnecting Status = iota
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "ONLINE"
	case StatusOffline:
		return "OFFLINE"
	default:
		return "CONNECTING"
	}
}

// User-facing notices.
const (
	NoticeBadRoomCode    = "Please enter a 4-character room code"
	NoticeOpponentLeft   = "Opponent disconnected"
	NoticeCreatingRoom   = "Creating room..."
	NoticeJoiningRoom    = "Joining room..."
	NoticeConnectionLost = "Connection lost, reconnecting..."
)
