package rendezvous

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/gorilla/websocket"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrPeerClosed   = errors.New("peer closed")
)

// Peer is one websocket client of the hub. Its identity is unset until it
// sends REGISTER.
type Peer struct {
	connID string
	conn   *websocket.Conn
	send   chan []byte

	mu       sync.RWMutex
	identity domain.Identity
	closed   bool

	drops atomic.Int64
	done  chan struct{}
}

func newPeer(connID string, conn *websocket.Conn, buffer int) *Peer {
	return &Peer{
		connID: connID,
		conn:   conn,
		send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

func (p *Peer) ConnID() string { return p.connID }

func (p *Peer) Identity() domain.Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.identity
}

func (p *Peer) setIdentity(id domain.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identity = id
}

func (p *Peer) TrySend(frame []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPeerClosed
	}
	select {
	case p.send <- frame:
		p.drops.Store(0)
		return nil
	default:
		return ErrBackpressure
	}
}

func (p *Peer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.send)
	_ = p.conn.Close()
	close(p.done)
}
