package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RoomID identifies one session attempt. Both peers can compute it
// from the request they exchange, so no handshake is needed to agree on it.
type RoomID string

// roomNamespace scopes the name-based UUIDs used for room ids.
var roomNamespace = uuid.MustParse("6f1c3a52-3d0e-4c43-9a57-2b8f5e0d7a11")

// NewRoomID derives the room id from the initiator, the target and the
// creation time. The same inputs always produce the same id.
func NewRoomID(initiator, target Identity, createdAt time.Time) RoomID {
	name := string(initiator) + "\x00" + string(target) + "\x00" + strconv.FormatInt(createdAt.UnixNano(), 10)
	return RoomID(uuid.NewSHA1(roomNamespace, []byte(name)).String())
}

func (r RoomID) String() string { return string(r) }

// Role is the side a session plays in the offer/answer exchange.
type Role int

const (
	RoleOfferer Role = iota
	RoleAnswerer
)

func (r Role) String() string {
	switch r {
	case RoleOfferer:
		return "offerer"
	case RoleAnswerer:
		return "answerer"
	default:
		return "unknown"
	}
}
