package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var _ core.Signaler = (*Multiplexer)(nil)

type Options struct {
	URL        string
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
	ReadLimit  int64
	SendBuffer int
	// NewBackoff builds the retry policy for one reconnect cycle.
	NewBackoff func() backoff.BackOff
	Dialer     *websocket.Dialer
}

func (o *Options) withDefaults() {
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 64 * 1024
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.NewBackoff == nil {
		o.NewBackoff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			b.MaxElapsedTime = 0
			return b
		}
	}
	if o.Dialer == nil {
		o.Dialer = websocket.DefaultDialer
	}
}

// Multiplexer owns the single rendezvous connection of a local identity and
// fans inbound messages out to listeners by kind. Listeners outlive links:
// they survive reconnects and identity changes.
type Multiplexer struct {
	opts Options

	mu         sync.Mutex
	link       *Link
	connecting bool
	flight     singleflight.Group

	listeners listenerSet
}

func NewMultiplexer(opts Options) *Multiplexer {
	opts.withDefaults()
	return &Multiplexer{opts: opts}
}

// Link is the handle returned by Connect. It stays valid across reconnects
// of the underlying socket and is replaced only when the identity changes.
type Link struct {
	mux      *Multiplexer
	identity domain.Identity
	ctx      context.Context
	cancel   context.CancelFunc

	mu   sync.RWMutex
	conn *wsConn

	reconnects atomic.Int64
	done       chan struct{}
}

func (l *Link) Identity() domain.Identity { return l.identity }

// Done is closed when the link has been torn down.
func (l *Link) Done() <-chan struct{} { return l.done }

// Reconnects reports how many times the socket was re-established.
func (l *Link) Reconnects() int64 { return l.reconnects.Load() }

func (l *Link) current() *wsConn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.conn
}

// Connect opens the rendezvous connection for identity. It is idempotent
// for the same identity; a different identity tears the old link down
// first. A call made while a connect is in flight joins that attempt.
func (m *Multiplexer) Connect(ctx context.Context, identity domain.Identity) (*Link, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.link != nil {
		if m.link.identity == identity {
			link := m.link
			m.mu.Unlock()
			return link, nil
		}
		old := m.link
		m.link = nil
		m.mu.Unlock()
		log.Info().Str("module", "signal.mux").Str("old", string(old.identity)).Str("new", string(identity)).Msg("identity changed, tearing down link")
		old.close()
		m.mu.Lock()
	}
	m.connecting = true
	m.mu.Unlock()

	v, err, shared := m.flight.Do(string(identity), func() (any, error) {
		return m.open(ctx, identity)
	})

	m.mu.Lock()
	m.connecting = false
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("module", "signal.mux").Str("identity", string(identity)).Msg("joined in-flight connect")
	}
	return v.(*Link), nil
}

// Connecting reports whether a connect attempt is outstanding.
func (m *Multiplexer) Connecting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connecting
}

func (m *Multiplexer) open(ctx context.Context, identity domain.Identity) (*Link, error) {
	ws, err := m.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", m.opts.URL, err)
	}

	linkCtx, cancel := context.WithCancel(context.Background())
	link := &Link{
		mux:      m,
		identity: identity,
		ctx:      linkCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	m.mu.Lock()
	if m.link != nil && m.link.identity != identity {
		old := m.link
		m.link = nil
		m.mu.Unlock()
		old.close()
		m.mu.Lock()
	}
	m.link = link
	m.mu.Unlock()

	link.attach(ws)
	go link.maintain()

	log.Info().Str("module", "signal.mux").Str("identity", string(identity)).Str("url", m.opts.URL).Msg("connected")
	return link, nil
}

func (m *Multiplexer) dial(ctx context.Context) (*websocket.Conn, error) {
	ws, resp, err := m.opts.Dialer.DialContext(ctx, m.opts.URL, http.Header{})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return ws, err
}

// attach publishes a fresh socket. REGISTER is queued before the pumps
// start so no other traffic can precede it.
func (l *Link) attach(ws *websocket.Conn) {
	c := newWSConn(ws, l.mux.opts.SendBuffer)
	l.announce(c)

	l.mu.Lock()
	l.conn = c
	l.mu.Unlock()

	go l.writePump(c)
	go l.readPump(c)
}

// maintain re-dials whenever the current socket dies until the link is closed.
func (l *Link) maintain() {
	defer close(l.done)
	for {
		c := l.current()
		if c == nil {
			return
		}
		select {
		case <-l.ctx.Done():
			c.Close()
			return
		case <-c.Done():
		}

		l.mu.Lock()
		if l.conn == c {
			l.conn = nil
		}
		l.mu.Unlock()

		log.Warn().Str("module", "signal.mux").Str("identity", string(l.identity)).Msg("rendezvous connection lost, reconnecting")

		var ws *websocket.Conn
		op := func() error {
			var err error
			ws, err = l.mux.dial(l.ctx)
			if err != nil {
				log.Debug().Err(err).Str("module", "signal.mux").Msg("reconnect attempt failed")
			}
			return err
		}
		if err := backoff.Retry(op, backoff.WithContext(l.mux.opts.NewBackoff(), l.ctx)); err != nil {
			log.Info().Err(err).Str("module", "signal.mux").Str("identity", string(l.identity)).Msg("reconnect abandoned")
			return
		}
		l.reconnects.Add(1)
		l.attach(ws)
		log.Info().Str("module", "signal.mux").Str("identity", string(l.identity)).Msg("reconnected")
	}
}

func (l *Link) close() {
	l.cancel()
	if c := l.current(); c != nil {
		c.Close()
	}
	<-l.done
}

// Disconnect tears the current link down. Listeners stay registered.
func (m *Multiplexer) Disconnect() {
	m.mu.Lock()
	link := m.link
	m.link = nil
	m.mu.Unlock()
	if link != nil {
		link.close()
		log.Info().Str("module", "signal.mux").Str("identity", string(link.identity)).Msg("disconnected")
	}
}

// Connected reports whether a socket is currently up.
func (m *Multiplexer) Connected() bool {
	m.mu.Lock()
	link := m.link
	m.mu.Unlock()
	return link != nil && link.current() != nil
}

func (m *Multiplexer) Identity() domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.link == nil {
		return ""
	}
	return m.link.identity
}

// Emit sends msg on the current socket. It never fails: without a socket
// the message is dropped with a warning.
func (m *Multiplexer) Emit(msg protocol.Message) {
	m.mu.Lock()
	link := m.link
	m.mu.Unlock()
	if link == nil {
		log.Warn().Str("module", "signal.mux").Str("type", string(msg.Kind)).Msg("emit while not connected, dropped")
		return
	}
	msg.From = identityOf(msg, link.identity)

	c := link.current()
	if c == nil {
		log.Warn().Str("module", "signal.mux").Str("type", string(msg.Kind)).Msg("emit while reconnecting, dropped")
		return
	}
	data, err := encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "signal.mux").Msg("emit encode")
		return
	}
	if err := c.TrySend(data); err != nil {
		log.Warn().Err(err).Str("module", "signal.mux").Str("type", string(msg.Kind)).Msg("emit dropped")
	}
}

func (m *Multiplexer) AddListener(kind protocol.Kind, fn core.Listener) core.ListenerID {
	return m.listeners.add(kind, fn)
}

// RemoveListener unregisters one listener. Removing the last listener of a
// kind leaves the connection open.
func (m *Multiplexer) RemoveListener(kind protocol.Kind, id core.ListenerID) {
	m.listeners.remove(kind, id)
}

func (m *Multiplexer) dispatch(msg protocol.Message) {
	m.listeners.dispatch(msg)
}

func encode(msg protocol.Message) ([]byte, error) {
	return json.Marshal(msg)
}
