package protocol

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// RoomCodeLength is the exact length of a room code.
const RoomCodeLength = 4

// ErrInvalidRoomCode is returned for room codes that are not exactly
// RoomCodeLength characters after trimming.
var ErrInvalidRoomCode = errors.New("please enter a 4-character room code")

// NormalizeRoomCode trims and upper-cases a user-entered code and checks its
// length.
func NormalizeRoomCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if utf8.RuneCountInString(code) != RoomCodeLength {
		return "", ErrInvalidRoomCode
	}
	return code, nil
}
