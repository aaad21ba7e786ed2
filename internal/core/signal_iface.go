package core

import (
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
)

// Listener receives inbound signaling messages of one kind.
type Listener func(protocol.Message)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

// Signaler abstracts the multiplexed rendezvous connection of one local
// identity. Emit never fails loudly: when the link is down the message is
// dropped with a warning.
type Signaler interface {
	Identity() domain.Identity
	Emit(msg protocol.Message)
	AddListener(kind protocol.Kind, fn Listener) ListenerID
	RemoveListener(kind protocol.Kind, id ListenerID)
}
