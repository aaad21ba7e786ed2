package app

import (
	"fmt"
	"time"

	"github.com/dkeye/ScreenShare/internal/domain"
)

// Supervisor is the single owner of reconnect policy. It reacts to the
// direct connection's health and decides between an ICE restart on the
// same room and terminal failure.
//
// A degraded signal moves a CONNECTED session to RECOVERING. After the
// recovery delay (debounced, so a flapping link schedules one attempt) the
// offerer sends a restart offer; the answerer waits for it. Every attempt
// arms a timeout; when it expires without reaching CONNECTED the next
// attempt starts, and once the maximum is spent the session fails.
//
// The first negotiation is bounded as well: a session that has not reached
// CONNECTED within the negotiation timeout fails.
type Supervisor struct {
	o           *Orchestrator
	maxAttempts int
	timeout     time.Duration
	negotiation time.Duration
}

// watch bounds the initial negotiation of s.
func (sv *Supervisor) watch(s *Session) {
	s.recovery.disarm()
	room, round := s.room, s.recovery.round
	s.recovery.timer = time.AfterFunc(sv.negotiation, func() {
		sv.o.post(func() { sv.unanswered(room, round) })
	})
}

func (sv *Supervisor) unanswered(room domain.RoomID, round uint64) {
	s, ok := sv.o.registry.Get(room)
	if !ok || s.recovery.round != round || s.attempts > 0 {
		return
	}
	switch s.state {
	case domain.StateIdle, domain.StateRequesting, domain.StateOfferSent,
		domain.StateOfferReceived, domain.StateAnswering, domain.StateConnecting:
	default:
		return
	}
	sv.o.registry.Fail(room, fmt.Sprintf("no answer from %s in %s (%s)", s.remote, s.state, sv.negotiation))
}

// rejected fails a session the rendezvous could not deliver for.
func (sv *Supervisor) rejected(s *Session, text string) {
	switch s.state {
	case domain.StateConnected, domain.StateRecovering:
		// A live connection outlives the signaling hop.
		s.logger.Warn().Str("error", text).Msg("rendezvous error")
		return
	}
	sv.o.registry.Fail(s.room, "rendezvous: "+text)
}

func (sv *Supervisor) healthy(s *Session) {
	switch s.state {
	case domain.StateConnecting:
	case domain.StateRecovering:
		// ICE came back by itself.
		_ = s.transition(domain.StateConnecting)
	default:
		return
	}
	if err := s.transition(domain.StateConnected); err != nil {
		return
	}
	if s.attempts > 0 {
		s.logger.Info().Int("attempts", s.attempts).Msg("recovered")
	}
	s.attempts = 0
	s.recovery.disarm()
	sv.o.connected(s)
}

func (sv *Supervisor) degraded(s *Session) {
	switch s.state {
	case domain.StateConnected:
		_ = s.transition(domain.StateRecovering)
		sv.o.recovering(s)
	case domain.StateConnecting:
		if s.attempts > 0 {
			// A restart is in flight; its timeout decides.
			return
		}
		_ = s.transition(domain.StateRecovering)
	case domain.StateRecovering:
	default:
		return
	}
	sv.schedule(s)
}

// entered accounts for a RECOVERING state entered on the peer's initiative.
func (sv *Supervisor) entered(s *Session) {
	sv.o.recovering(s)
	sv.arm(s)
}

func (sv *Supervisor) schedule(s *Session) {
	room := s.room
	s.recovery.debounced(func() {
		sv.o.post(func() { sv.attempt(room) })
	})
}

func (sv *Supervisor) attempt(room domain.RoomID) {
	s, ok := sv.o.registry.Get(room)
	if !ok || s.state != domain.StateRecovering {
		return
	}
	if s.attempts >= sv.maxAttempts {
		sv.o.registry.Fail(room, fmt.Sprintf("reconnect attempts exhausted (%d)", sv.maxAttempts))
		return
	}
	s.attempts++
	s.logger.Info().Int("attempt", s.attempts).Int("max", sv.maxAttempts).Msg("recovery attempt")
	if s.role == domain.RoleOfferer {
		sv.o.sendOffer(s, true)
	}
	sv.arm(s)
}

// arm starts the timeout of the current attempt, replacing any older one.
func (sv *Supervisor) arm(s *Session) {
	s.recovery.disarm()
	room, round := s.room, s.recovery.round
	s.recovery.timer = time.AfterFunc(sv.timeout, func() {
		sv.o.post(func() { sv.expired(room, round) })
	})
}

func (sv *Supervisor) expired(room domain.RoomID, round uint64) {
	s, ok := sv.o.registry.Get(room)
	if !ok || s.recovery.round != round {
		return
	}
	switch s.state {
	case domain.StateConnecting:
		s.logger.Warn().Int("attempt", s.attempts).Msg("restart stalled")
		_ = s.transition(domain.StateRecovering)
	case domain.StateRecovering:
	default:
		return
	}
	sv.attempt(room)
}

// negotiationFailed handles a failed restart step; the armed timeout
// moves on to the next attempt.
func (sv *Supervisor) negotiationFailed(s *Session, err error) {
	s.logger.Warn().Err(err).Int("attempt", s.attempts).Msg("renegotiation failed")
	if s.state == domain.StateConnected {
		_ = s.transition(domain.StateRecovering)
		sv.o.recovering(s)
	}
	if s.recovery.timer == nil {
		sv.arm(s)
	}
}
