package app

import (
	"context"

	"github.com/dkeye/ScreenShare/internal/app/sfu"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var _ handler = (*Orchestrator)(nil)

func (o *Orchestrator) emit(msg protocol.Message, err error) {
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Str("type", string(msg.Kind)).Msg("build message")
		return
	}
	o.opts.Signaler.Emit(msg)
}

// startRequest runs IDLE -> REQUESTING and acquires the capture source.
func (o *Orchestrator) startRequest(target domain.Identity, capture core.CaptureTarget, result chan<- requestResult) {
	pair := domain.Pair{Local: o.opts.Local, Remote: target}
	room := domain.NewRoomID(pair.Local, pair.Remote, o.opts.Now())
	s := o.registry.Acquire(pair, domain.RoleOfferer, room)
	_ = s.transition(domain.StateRequesting)
	o.sup.watch(s)
	o.opts.Signaler.Emit(protocol.SessionRequest(pair.Local, pair.Remote, room))

	gen := s.begin()
	o.acquiring[sfu.KeyFor(capture)]++
	go func() {
		key, media, err := o.acquireSource(capture)
		if !o.post(func() { o.sourceAcquired(room, gen, key, media, err, result) }) {
			result <- requestResult{err: ErrStopped}
		}
	}()
}

// acquireSource returns the shared capture source for target, starting its
// relay on first use. Concurrent callers share one acquisition.
func (o *Orchestrator) acquireSource(target core.CaptureTarget) (sfu.SourceKey, core.MediaHandle, error) {
	key := sfu.KeyFor(target)
	v, err, _ := o.sources.Do(string(key), func() (any, error) {
		if media, ok := o.relays.Source(key); ok {
			return media, nil
		}
		media, err := o.opts.Capture.AcquireCaptureSource(context.Background(), target)
		if err != nil {
			return nil, err
		}
		o.relays.StartRelay(key, media)
		return media, nil
	})
	if err != nil {
		return key, nil, err
	}
	return key, v.(core.MediaHandle), nil
}

// sourceAcquired attaches the source and generates the first offer.
func (o *Orchestrator) sourceAcquired(room domain.RoomID, gen uint64, key sfu.SourceKey, media core.MediaHandle, err error, result chan<- requestResult) {
	if o.acquiring[key]--; o.acquiring[key] <= 0 {
		delete(o.acquiring, key)
	}
	s, ok := o.current(room, gen)
	if !ok {
		if err == nil {
			o.releaseSource(key, room)
		}
		result <- requestResult{err: domain.ErrSessionClosed}
		return
	}
	if err != nil {
		o.registry.Release(room, "capture failed: "+err.Error(), true)
		result <- requestResult{err: err}
		return
	}

	s.source, s.hasSource = key, true
	s.logger.Info().Str("source", media.ID()).Msg("capture source attached")

	out, err := o.relays.Subscribe(key, room)
	if err != nil {
		o.registry.Fail(room, "subscribe to capture source: "+err.Error())
		result <- requestResult{err: err}
		return
	}
	conn, err := o.newConnection(s)
	if err != nil {
		o.registry.Fail(room, "create direct connection: "+err.Error())
		result <- requestResult{err: err}
		return
	}
	s.conn = conn
	if err := conn.AddLocalTrack(out.Track); err != nil {
		o.registry.Fail(room, "add local track: "+err.Error())
		result <- requestResult{err: err}
		return
	}

	result <- requestResult{room: room}
	o.sendOffer(s, false)
}

// newConnection creates the session's direct connection and routes its
// callbacks back onto the event loop.
func (o *Orchestrator) newConnection(s *Session) (core.DirectConnection, error) {
	conn, err := o.opts.Connections.NewConnection(s.room, s.role)
	if err != nil {
		return nil, err
	}
	room := s.room
	conn.OnICECandidate(func(c webrtc.ICECandidateInit) {
		o.post(func() { o.localCandidate(room, conn, c) })
	})
	conn.OnHealth(func(h core.Health) {
		o.post(func() { o.health(room, conn, h) })
	})
	conn.OnRemoteMedia(func(m core.MediaHandle) {
		o.post(func() { o.remoteMedia(room, conn, m) })
	})
	conn.OnControl(func(ch core.ControlChannel) {
		o.post(func() { o.controlOpened(room, conn, ch) })
	})
	return conn, nil
}

// owner returns the live session still owning conn.
func (o *Orchestrator) owner(room domain.RoomID, conn core.DirectConnection) (*Session, bool) {
	s, ok := o.registry.Get(room)
	if !ok || s.conn != conn || s.state.IsTerminal() {
		return nil, false
	}
	return s, true
}

// sendOffer generates an offer off the loop. A restart offer requests
// fresh ICE credentials on the existing connection.
func (o *Orchestrator) sendOffer(s *Session, restart bool) {
	conn, room, gen := s.conn, s.room, s.begin()
	s.described = false
	if restart {
		s.remoteSet = false
		s.awaitingAnswer = false
	}
	go func() {
		offer, err := conn.CreateOffer(restart)
		o.post(func() { o.offerCreated(room, gen, restart, offer, err) })
	}()
}

func (o *Orchestrator) offerCreated(room domain.RoomID, gen uint64, restart bool, offer webrtc.SessionDescription, err error) {
	s, ok := o.current(room, gen)
	if !ok {
		return
	}
	if err != nil {
		if restart {
			o.sup.negotiationFailed(s, err)
			return
		}
		o.registry.Fail(room, "create offer: "+err.Error())
		return
	}

	o.emit(protocol.Offer(s.local, s.remote, room, offer.SDP))
	s.awaitingAnswer = true
	o.describe(s)

	switch {
	case !restart:
		_ = s.transition(domain.StateOfferSent)
	case s.state == domain.StateRecovering:
		_ = s.transition(domain.StateConnecting)
	}
}

// describe marks the local description as sent and releases the local
// candidates gathered before it.
func (o *Orchestrator) describe(s *Session) {
	s.described = true
	for _, c := range s.outbox {
		o.emit(protocol.Candidate(s.local, s.remote, s.room, c))
	}
	s.outbox = nil
}

// sessionRequested answers an inbound request. When both sides requested
// each other at once, the session started by the lexically smaller identity
// wins: that side ignores the request and the other side yields.
func (o *Orchestrator) sessionRequested(from domain.Identity, room domain.RoomID) {
	pair := domain.Pair{Local: o.opts.Local, Remote: from}
	if own, ok := o.registry.ByPair(pair); ok && own.role == domain.RoleOfferer && o.opts.Local < from {
		switch own.state {
		case domain.StateIdle, domain.StateRequesting, domain.StateOfferSent, domain.StateConnecting:
			own.logger.Info().Str("their_room", string(room)).Msg("crossing session request, keeping ours")
			return
		}
	}
	s := o.registry.Acquire(pair, domain.RoleAnswerer, room)
	o.sup.watch(s)
}

func (o *Orchestrator) errorReceived(s *Session, text string) {
	o.sup.rejected(s, text)
}

func (o *Orchestrator) offerReceived(s *Session, offer webrtc.SessionDescription) bool {
	if s.role != domain.RoleAnswerer {
		s.logger.Warn().Msg("offer for an offering session, dropped")
		return false
	}

	restart := true
	switch s.state {
	case domain.StateIdle:
		if err := s.transition(domain.StateOfferReceived); err != nil {
			return false
		}
		conn, err := o.newConnection(s)
		if err != nil {
			o.registry.Fail(s.room, "create direct connection: "+err.Error())
			return false
		}
		s.conn = conn
		restart = false
	case domain.StateConnected:
		// The offerer noticed the failure first.
		_ = s.transition(domain.StateRecovering)
		o.sup.entered(s)
	case domain.StateRecovering, domain.StateConnecting:
	default:
		s.logger.Debug().Str("state", s.state.String()).Msg("offer while negotiating, dropped")
		return false
	}

	conn, room, gen := s.conn, s.room, s.begin()
	s.remoteSet = false
	s.described = false
	go func() {
		var answer webrtc.SessionDescription
		err := conn.SetRemoteDescription(offer)
		if err == nil {
			answer, err = conn.CreateAnswer()
		}
		o.post(func() { o.answerCreated(room, gen, restart, answer, err) })
	}()
	return true
}

func (o *Orchestrator) answerCreated(room domain.RoomID, gen uint64, restart bool, answer webrtc.SessionDescription, err error) {
	s, ok := o.current(room, gen)
	if !ok {
		return
	}
	if err != nil {
		if restart {
			o.sup.negotiationFailed(s, err)
			return
		}
		o.registry.Fail(room, "answer offer: "+err.Error())
		return
	}

	if !restart {
		_ = s.transition(domain.StateAnswering)
	}
	o.emit(protocol.Answer(s.local, s.remote, room, answer.SDP))
	o.describe(s)

	s.remoteSet = true
	s.flushCandidates()
	if s.state == domain.StateAnswering || s.state == domain.StateRecovering {
		_ = s.transition(domain.StateConnecting)
	}
}

func (o *Orchestrator) answerReceived(s *Session, answer webrtc.SessionDescription) {
	if s.role != domain.RoleOfferer || !s.awaitingAnswer {
		s.logger.Debug().Str("state", s.state.String()).Msg("unexpected answer, dropped")
		return
	}
	s.awaitingAnswer = false

	conn, room, gen := s.conn, s.room, s.begin()
	go func() {
		err := conn.SetRemoteDescription(answer)
		o.post(func() { o.answerApplied(room, gen, err) })
	}()
}

func (o *Orchestrator) answerApplied(room domain.RoomID, gen uint64, err error) {
	s, ok := o.current(room, gen)
	if !ok {
		return
	}
	if err != nil {
		if s.state == domain.StateOfferSent {
			o.registry.Fail(room, "apply answer: "+err.Error())
			return
		}
		o.sup.negotiationFailed(s, err)
		return
	}

	s.remoteSet = true
	s.flushCandidates()
	if s.state == domain.StateOfferSent {
		_ = s.transition(domain.StateConnecting)
	}
}

func (o *Orchestrator) candidateReceived(s *Session, c webrtc.ICECandidateInit) {
	if !s.remoteSet || s.conn == nil {
		s.queueCandidate(c)
		return
	}
	if err := s.conn.AddICECandidate(c); err != nil {
		s.logger.Warn().Err(err).Msg("remote candidate rejected")
	}
}

func (o *Orchestrator) stopReceived(s *Session, reason string) {
	if reason == "" {
		reason = "stopped by peer"
	} else {
		reason = "stopped by peer: " + reason
	}
	o.registry.Release(s.room, reason, false)
}

func (o *Orchestrator) peerDisconnected(peer domain.Identity) {
	for _, s := range o.registry.ByRemote(peer) {
		o.registry.Release(s.room, "peer disconnected", false)
	}
}

func (o *Orchestrator) localCandidate(room domain.RoomID, conn core.DirectConnection, c webrtc.ICECandidateInit) {
	s, ok := o.owner(room, conn)
	if !ok {
		return
	}
	if !s.described {
		s.outbox = append(s.outbox, c)
		return
	}
	o.emit(protocol.Candidate(s.local, s.remote, room, c))
}

func (o *Orchestrator) health(room domain.RoomID, conn core.DirectConnection, h core.Health) {
	s, ok := o.owner(room, conn)
	if !ok {
		return
	}
	s.logger.Debug().Str("health", h.String()).Str("state", s.state.String()).Msg("direct connection health")
	switch h {
	case core.HealthHealthy:
		o.sup.healthy(s)
	case core.HealthDegraded:
		o.sup.degraded(s)
	case core.HealthFailed:
		o.registry.Fail(room, "direct connection closed")
	}
}

func (o *Orchestrator) remoteMedia(room domain.RoomID, conn core.DirectConnection, m core.MediaHandle) {
	s, ok := o.owner(room, conn)
	if !ok {
		return
	}
	s.remoteMedia = m
	s.logger.Info().Str("media", m.ID()).Msg("remote media")
	if cb := o.opts.Callbacks.OnRemoteMedia; cb != nil {
		cb(s.info(), m)
	}
	if s.state == domain.StateConnected {
		o.attachRender(s)
	}
}

// connected runs once a session reaches CONNECTED.
func (o *Orchestrator) connected(s *Session) {
	if s.hasSource {
		o.relays.Resume(s.source, s.room)
	}
	o.attachRender(s)
	if cb := o.opts.Callbacks.OnConnected; cb != nil {
		cb(s.info())
	}
}

// recovering runs when a session leaves CONNECTED for RECOVERING.
func (o *Orchestrator) recovering(s *Session) {
	if s.hasSource {
		o.relays.Pause(s.source, s.room)
	}
}

// attachRender hands remote media to the sink once, and only when connected.
func (o *Orchestrator) attachRender(s *Session) {
	if o.opts.Render == nil || s.rendered || s.remoteMedia == nil {
		return
	}
	o.opts.Render.Attach(s.room, s.remoteMedia)
	s.rendered = true
}
