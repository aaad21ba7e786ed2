package signal

import (
	"sync"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/rs/zerolog/log"
)

// MemoryHub is an in-process rendezvous for tests. Endpoints registered on
// the same hub exchange messages by identity without any network. Delivery
// is asynchronous and ordered per receiving endpoint.
type MemoryHub struct {
	mu        sync.RWMutex
	endpoints map[domain.Identity]*MemoryEndpoint
	observers []func(protocol.Message)
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{endpoints: make(map[domain.Identity]*MemoryEndpoint)}
}

var _ core.Signaler = (*MemoryEndpoint)(nil)

// MemoryEndpoint is one identity's view of a MemoryHub.
type MemoryEndpoint struct {
	hub       *MemoryHub
	identity  domain.Identity
	listeners listenerSet

	inbox chan protocol.Message
	once  sync.Once
	done  chan struct{}
}

// Endpoint registers identity on the hub. A second registration for the
// same identity replaces the first, like the real rendezvous does.
func (h *MemoryHub) Endpoint(identity domain.Identity) *MemoryEndpoint {
	ep := &MemoryEndpoint{
		hub:      h,
		identity: identity,
		inbox:    make(chan protocol.Message, 1024),
		done:     make(chan struct{}),
	}
	h.mu.Lock()
	old := h.endpoints[identity]
	h.endpoints[identity] = ep
	h.mu.Unlock()
	if old != nil {
		old.stop()
	}
	go ep.run()
	return ep
}

// Observe registers fn to see every message passing through the hub.
func (h *MemoryHub) Observe(fn func(protocol.Message)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, fn)
}

// Drop unregisters identity and tells every other endpoint that the peer
// went away.
func (h *MemoryHub) Drop(identity domain.Identity) {
	h.mu.Lock()
	ep := h.endpoints[identity]
	delete(h.endpoints, identity)
	others := make([]*MemoryEndpoint, 0, len(h.endpoints))
	for _, o := range h.endpoints {
		others = append(others, o)
	}
	h.mu.Unlock()
	if ep != nil {
		ep.stop()
	}

	msg, err := protocol.PeerDisconnected(identity)
	if err != nil {
		return
	}
	for _, o := range others {
		o.deliver(msg)
	}
}

// relay delivers msg to its target. An unknown target is answered with an
// ERROR naming the message's room, as the rendezvous server does.
func (h *MemoryHub) relay(msg protocol.Message) {
	h.mu.RLock()
	dst := h.endpoints[msg.To]
	src := h.endpoints[msg.From]
	observers := h.observers
	h.mu.RUnlock()

	for _, fn := range observers {
		fn(msg)
	}
	if dst != nil {
		dst.deliver(msg)
		return
	}
	log.Debug().Str("module", "signal.memory").Str("to", string(msg.To)).Str("type", string(msg.Kind)).Msg("unknown target")
	if src == nil {
		return
	}
	if reply, err := protocol.Error(msg.From, msg.RoomID, "unknown target "+string(msg.To)); err == nil {
		src.deliver(reply)
	}
}

func (e *MemoryEndpoint) Identity() domain.Identity { return e.identity }

func (e *MemoryEndpoint) Emit(msg protocol.Message) {
	select {
	case <-e.done:
		log.Warn().Str("module", "signal.memory").Str("type", string(msg.Kind)).Msg("emit while not connected, dropped")
		return
	default:
	}
	msg.From = identityOf(msg, e.identity)
	e.hub.relay(msg)
}

func (e *MemoryEndpoint) AddListener(kind protocol.Kind, fn core.Listener) core.ListenerID {
	return e.listeners.add(kind, fn)
}

func (e *MemoryEndpoint) RemoveListener(kind protocol.Kind, id core.ListenerID) {
	e.listeners.remove(kind, id)
}

func (e *MemoryEndpoint) deliver(msg protocol.Message) {
	select {
	case <-e.done:
	case e.inbox <- msg:
	}
}

func (e *MemoryEndpoint) run() {
	for {
		select {
		case <-e.done:
			return
		case msg := <-e.inbox:
			e.listeners.dispatch(msg)
		}
	}
}

func (e *MemoryEndpoint) stop() {
	e.once.Do(func() { close(e.done) })
}
