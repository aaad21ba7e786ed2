// Package rendezvous is the signaling server peers register with. It binds
// identities to websocket connections and relays messages between them
// without looking at their payloads.
package rendezvous

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int
	// RequestRate limits SESSION_REQUEST per identity, in requests per second.
	RequestRate  float64
	RequestBurst int
	Policy       Policy
}

func (o *Options) withDefaults() {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 64 * 1024
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.RequestRate <= 0 {
		o.RequestRate = 1
	}
	if o.RequestBurst <= 0 {
		o.RequestBurst = 5
	}
	if o.Policy == nil {
		o.Policy = SimplePolicy{MaxDrops: 16}
	}
}

// PublishResult reports how a fan-out went.
type PublishResult struct {
	SentTo  int
	Dropped []*Peer
}

type Hub struct {
	opts Options

	mu       sync.RWMutex
	peers    map[domain.Identity]*Peer
	limiters map[domain.Identity]*rate.Limiter
}

func NewHub(opts Options) *Hub {
	opts.withDefaults()
	return &Hub{
		opts:     opts,
		peers:    make(map[domain.Identity]*Peer),
		limiters: make(map[domain.Identity]*rate.Limiter),
	}
}

// Register binds identity to p. An older connection under the same identity
// is closed without announcing a disconnect.
func (h *Hub) Register(identity domain.Identity, p *Peer) {
	p.setIdentity(identity)
	h.mu.Lock()
	old := h.peers[identity]
	h.peers[identity] = p
	if _, ok := h.limiters[identity]; !ok {
		h.limiters[identity] = rate.NewLimiter(rate.Limit(h.opts.RequestRate), h.opts.RequestBurst)
	}
	h.mu.Unlock()

	if old != nil && old != p {
		log.Info().Str("module", "rendezvous.hub").Str("identity", string(identity)).Str("old_conn", old.connID).Str("conn", p.connID).Msg("identity re-registered, closing older connection")
		old.Close()
	}
	log.Info().Str("module", "rendezvous.hub").Str("identity", string(identity)).Str("conn", p.connID).Msg("registered")
}

// Unregister drops p and, if it still owned its identity, tells everyone
// else the peer is gone.
func (h *Hub) Unregister(p *Peer) {
	identity := p.Identity()
	if identity == "" {
		return
	}
	h.mu.Lock()
	current := h.peers[identity] == p
	if current {
		delete(h.peers, identity)
		delete(h.limiters, identity)
	}
	h.mu.Unlock()
	if !current {
		return
	}

	log.Info().Str("module", "rendezvous.hub").Str("identity", string(identity)).Str("conn", p.connID).Msg("unregistered")
	msg, err := protocol.PeerDisconnected(identity)
	if err != nil {
		log.Error().Err(err).Str("module", "rendezvous.hub").Msg("build peer_disconnected")
		return
	}
	h.Broadcast(identity, msg)
}

// Relay forwards msg to the peer registered under msg.To.
func (h *Hub) Relay(msg protocol.Message) bool {
	h.mu.RLock()
	dst, ok := h.peers[msg.To]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	h.deliver(dst, msg)
	return true
}

// Broadcast sends msg to every registered peer except from.
func (h *Hub) Broadcast(from domain.Identity, msg protocol.Message) PublishResult {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "rendezvous.hub").Msg("encode broadcast")
		return PublishResult{}
	}

	h.mu.RLock()
	targets := make([]*Peer, 0, len(h.peers))
	for id, p := range h.peers {
		if id != from {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	res := PublishResult{}
	for _, p := range targets {
		if h.push(p, data) {
			res.SentTo++
			continue
		}
		res.Dropped = append(res.Dropped, p)
	}
	log.Debug().Str("module", "rendezvous.hub").Str("type", string(msg.Kind)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// AllowRequest reports whether identity may open another session now.
func (h *Hub) AllowRequest(identity domain.Identity) bool {
	h.mu.RLock()
	l, ok := h.limiters[identity]
	h.mu.RUnlock()
	return !ok || l.Allow()
}

// Online lists registered identities in order.
func (h *Hub) Online() []domain.Identity {
	h.mu.RLock()
	out := make([]domain.Identity, 0, len(h.peers))
	for id := range h.peers {
		out = append(out, id)
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (h *Hub) deliver(p *Peer, msg protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "rendezvous.hub").Str("type", string(msg.Kind)).Msg("encode message")
		return
	}
	h.push(p, data)
}

// push queues data for p and applies the backpressure policy on failure.
func (h *Hub) push(p *Peer, data []byte) bool {
	err := p.TrySend(data)
	if err == nil {
		return true
	}
	if errors.Is(err, ErrPeerClosed) {
		return false
	}
	action := h.opts.Policy.OnBackpressure(p)
	log.Warn().Str("module", "rendezvous.hub").Str("identity", string(p.Identity())).Str("action", action.String()).Msg("peer is slow")
	if action == KickPeer {
		p.Close()
	}
	return false
}
