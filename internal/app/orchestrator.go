package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/ScreenShare/internal/adapters/input"
	"github.com/dkeye/ScreenShare/internal/app/sfu"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var (
	ErrStopped        = errors.New("orchestrator stopped")
	ErrAlreadyRunning = errors.New("orchestrator already running")
)

type Options struct {
	Local       domain.Identity
	Signaler    core.Signaler
	Connections core.ConnectionFactory
	Capture     core.CaptureAdapter
	// Input applies remote input on the sharing side. Nil disables it.
	Input core.InputAdapter
	// Render receives remote media on the viewing side. Nil disables it.
	Render    core.RenderSink
	Callbacks core.Callbacks

	MaxReconnectAttempts int
	RecoveryDelay        time.Duration
	RecoveryTimeout      time.Duration
	// NegotiationTimeout bounds the way from request to the first
	// CONNECTED. It defaults to RecoveryTimeout.
	NegotiationTimeout   time.Duration
	CandidateTTL         time.Duration
	MaxPendingCandidates int
	OfferCacheSize       int

	Now func() time.Time
}

func (o *Options) withDefaults() {
	if o.MaxReconnectAttempts <= 0 {
		o.MaxReconnectAttempts = 3
	}
	if o.RecoveryDelay <= 0 {
		o.RecoveryDelay = 2 * time.Second
	}
	if o.RecoveryTimeout <= 0 {
		o.RecoveryTimeout = 10 * time.Second
	}
	if o.NegotiationTimeout <= 0 {
		o.NegotiationTimeout = o.RecoveryTimeout
	}
	if o.CandidateTTL <= 0 {
		o.CandidateTTL = 30 * time.Second
	}
	if o.MaxPendingCandidates <= 0 {
		o.MaxPendingCandidates = 64
	}
	if o.OfferCacheSize <= 0 {
		o.OfferCacheSize = 1024
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Orchestrator drives every session of one local identity. All session
// state is owned by a single event loop started by Run; slow work runs in
// goroutines and posts its result back.
type Orchestrator struct {
	opts     Options
	registry *Registry
	router   *Router
	sup      *Supervisor
	relays   *sfu.RelayManager
	sources  singleflight.Group

	// acquiring counts requests per source whose capture is still in
	// flight. A relay is never stopped while it is non-zero.
	acquiring map[sfu.SourceKey]int

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	running atomic.Bool
}

func New(opts Options) (*Orchestrator, error) {
	if err := opts.Local.Validate(); err != nil {
		return nil, fmt.Errorf("local identity: %w", err)
	}
	if opts.Signaler == nil || opts.Connections == nil {
		return nil, errors.New("signaler and connection factory are required")
	}
	opts.withDefaults()

	o := &Orchestrator{
		opts:      opts,
		relays:    sfu.NewRelayManager(),
		acquiring: make(map[sfu.SourceKey]int),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	o.registry = NewRegistry(&o.opts, o.teardown)
	router, err := NewRouter(opts.Local, o.registry, o, opts.OfferCacheSize)
	if err != nil {
		return nil, err
	}
	o.router = router
	o.sup = &Supervisor{
		o:           o,
		maxAttempts: opts.MaxReconnectAttempts,
		timeout:     o.opts.RecoveryTimeout,
		negotiation: o.opts.NegotiationTimeout,
	}
	return o, nil
}

var routedKinds = []protocol.Kind{
	protocol.KindSessionRequest,
	protocol.KindOffer,
	protocol.KindAnswer,
	protocol.KindICECandidate,
	protocol.KindSessionStopped,
	protocol.KindPeerDisconnected,
	protocol.KindError,
}

// Run processes events until ctx is done, then closes every session.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	logger := log.With().Str("module", "app.orchestrator").Str("identity", string(o.opts.Local)).Logger()

	ids := make(map[protocol.Kind]core.ListenerID, len(routedKinds))
	for _, kind := range routedKinds {
		ids[kind] = o.opts.Signaler.AddListener(kind, func(msg protocol.Message) {
			o.post(func() { o.router.Route(msg) })
		})
	}
	defer func() {
		for kind, id := range ids {
			o.opts.Signaler.RemoveListener(kind, id)
		}
	}()

	logger.Info().Msg("orchestrator started")
	for {
		select {
		case <-ctx.Done():
			o.shutdown()
			logger.Info().Msg("orchestrator stopped")
			return nil
		case <-o.wake:
			for _, fn := range o.drain() {
				fn()
			}
		}
	}
}

func (o *Orchestrator) shutdown() {
	for _, s := range o.registry.All() {
		o.registry.Release(s.room, "shutting down", true)
	}
	close(o.done)
	// Late posts are refused from here on.
	o.drain()
}

// post queues fn for the event loop. It never blocks, so it is safe to call
// from connection callbacks. It reports false once the loop has stopped.
func (o *Orchestrator) post(fn func()) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	o.mu.Lock()
	o.queue = append(o.queue, fn)
	o.mu.Unlock()
	select {
	case o.wake <- struct{}{}:
	default:
	}
	return true
}

func (o *Orchestrator) drain() []func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	q := o.queue
	o.queue = nil
	return q
}

// Do runs fn on the event loop and waits for it.
func (o *Orchestrator) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if !o.post(func() { fn(); close(ran) }) {
		return ErrStopped
	}
	select {
	case <-ran:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		return ErrStopped
	}
}

type requestResult struct {
	room domain.RoomID
	err  error
}

// Request opens a sharing session towards target. It returns once the
// capture source is acquired; resource errors are returned as-is.
func (o *Orchestrator) Request(ctx context.Context, target domain.Identity, capture core.CaptureTarget) (domain.RoomID, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	if target == o.opts.Local {
		return "", domain.ErrSelfSession
	}
	if o.opts.Capture == nil {
		return "", fmt.Errorf("no capture adapter: %w", domain.ErrNoSourceAvailable)
	}

	result := make(chan requestResult, 1)
	if err := o.Do(ctx, func() { o.startRequest(target, capture, result) }); err != nil {
		return "", err
	}
	select {
	case r := <-result:
		return r.room, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-o.done:
		return "", ErrStopped
	}
}

// Stop closes the session and tells the peer.
func (o *Orchestrator) Stop(ctx context.Context, room domain.RoomID) error {
	var found bool
	if err := o.Do(ctx, func() {
		found = o.registry.Release(room, "stopped locally", true)
	}); err != nil {
		return err
	}
	if !found {
		return domain.ErrUnknownSession
	}
	return nil
}

// Sessions returns a snapshot of every live session ordered by room id.
func (o *Orchestrator) Sessions(ctx context.Context) ([]core.SessionInfo, error) {
	var out []core.SessionInfo
	err := o.Do(ctx, func() {
		for _, s := range o.registry.All() {
			out = append(out, s.info())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, err
}

// SendInput sends one input event to the sharer of room.
func (o *Orchestrator) SendInput(ctx context.Context, room domain.RoomID, ev input.Event) error {
	data, err := input.Encode(ev)
	if err != nil {
		return err
	}
	var sendErr error
	if err := o.Do(ctx, func() {
		s, ok := o.registry.Get(room)
		switch {
		case !ok:
			sendErr = domain.ErrUnknownSession
		case s.control == nil || s.state != domain.StateConnected:
			sendErr = domain.ErrNoControl
		default:
			sendErr = s.control.Send(data)
		}
	}); err != nil {
		return err
	}
	return sendErr
}

// current returns the live session for room if gen is still its step.
func (o *Orchestrator) current(room domain.RoomID, gen uint64) (*Session, bool) {
	s, ok := o.registry.Get(room)
	if !ok || s.gen != gen || s.state.IsTerminal() {
		return nil, false
	}
	return s, true
}

// releaseSource detaches room from the source under key and stops the relay
// once nobody is subscribed and no acquisition is pending.
func (o *Orchestrator) releaseSource(key sfu.SourceKey, room domain.RoomID) {
	if o.relays.MarkSubscriberDelete(key, room) > 0 || o.acquiring[key] > 0 {
		return
	}
	o.relays.StopRelay(key)
}

// teardown is the registry's release hook.
func (o *Orchestrator) teardown(s *Session, final domain.State, reason string, notifyPeer bool) {
	if s.state.IsTerminal() {
		return
	}
	if err := s.transition(final); err != nil {
		// FAILED is not reachable from every state; closing always is.
		final = domain.StateClosed
		_ = s.transition(final)
	}

	if s.rendered && o.opts.Render != nil {
		o.opts.Render.Detach(s.room)
		s.rendered = false
	}
	if s.hasSource {
		o.releaseSource(s.source, s.room)
		s.hasSource = false
	}
	s.release()

	if notifyPeer {
		if msg, err := protocol.Stopped(s.local, s.remote, s.room, reason); err == nil {
			o.opts.Signaler.Emit(msg)
		}
	}

	info := s.info()
	if final == domain.StateFailed {
		s.logger.Error().Str("reason", reason).Msg("session failed")
		if cb := o.opts.Callbacks.OnFailed; cb != nil {
			cb(info, reason)
		}
		return
	}
	s.logger.Info().Str("reason", reason).Msg("session closed")
	if cb := o.opts.Callbacks.OnClosed; cb != nil {
		cb(info, reason)
	}
}
