package core

import "github.com/dkeye/ScreenShare/internal/domain"

// SessionInfo is a read-only view of a session (no transport fields).
type SessionInfo struct {
	RoomID            domain.RoomID   `json:"room_id"`
	Local             domain.Identity `json:"local"`
	Remote            domain.Identity `json:"remote"`
	Role              domain.Role     `json:"role"`
	State             domain.State    `json:"state"`
	ReconnectAttempts int             `json:"reconnect_attempts"`
	PendingCandidates int             `json:"pending_candidates"`
	// Geometry is the sharer's display as reported over the control channel.
	Geometry *Geometry `json:"geometry,omitempty"`
}

// Callbacks is the narrow set of lifecycle notifications exposed to the
// consumer. Any of them may be nil. They run on the orchestrator's event
// loop and must not block.
type Callbacks struct {
	OnConnected   func(SessionInfo)
	OnFailed      func(info SessionInfo, reason string)
	OnClosed      func(info SessionInfo, reason string)
	OnRemoteMedia func(info SessionInfo, media MediaHandle)
}
