package app

import (
	"fmt"
	"time"

	"github.com/bep/debounce"
	"github.com/dkeye/ScreenShare/internal/app/sfu"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session is one peer-to-peer attempt. It is only touched from the
// orchestrator's event loop, so it carries no lock.
type Session struct {
	room   domain.RoomID
	local  domain.Identity
	remote domain.Identity
	role   domain.Role
	state  domain.State

	// gen identifies the current asynchronous step. Completions carrying
	// an older value are discarded.
	gen uint64

	conn           core.DirectConnection
	remoteSet      bool
	awaitingAnswer bool
	// described is set once the local description went out; local
	// candidates gathered earlier wait in outbox.
	described bool
	outbox    []webrtc.ICECandidateInit
	pending   *candidateQueue

	attempts int
	recovery recovery

	source      sfu.SourceKey
	hasSource   bool
	remoteMedia core.MediaHandle
	rendered    bool
	control     core.ControlChannel
	geometry    *core.Geometry

	logger zerolog.Logger
}

// recovery is the supervisor's per-session bookkeeping.
type recovery struct {
	debounced func(func())
	timer     *time.Timer
	round     uint64
}

func (r *recovery) disarm() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.round++
}

func newSession(room domain.RoomID, pair domain.Pair, role domain.Role, opts *Options) *Session {
	return &Session{
		room:    room,
		local:   pair.Local,
		remote:  pair.Remote,
		role:    role,
		state:   domain.StateIdle,
		pending: newCandidateQueue(opts.CandidateTTL, opts.MaxPendingCandidates, opts.Now),
		recovery: recovery{
			debounced: debounce.New(opts.RecoveryDelay),
		},
		logger: log.With().
			Str("module", "app.session").
			Str("room_id", string(room)).
			Str("peer", string(pair.Remote)).
			Str("role", role.String()).
			Logger(),
	}
}

func (s *Session) RoomID() domain.RoomID   { return s.room }
func (s *Session) Remote() domain.Identity { return s.remote }
func (s *Session) Role() domain.Role       { return s.role }
func (s *Session) State() domain.State     { return s.state }

func (s *Session) pair() domain.Pair { return domain.Pair{Local: s.local, Remote: s.remote} }

// transition moves to next if the edge is legal. Illegal edges are
// reported and leave the state untouched.
func (s *Session) transition(next domain.State) error {
	if !domain.CanTransition(s.state, next) {
		s.logger.Warn().Str("from", s.state.String()).Str("to", next.String()).Msg("illegal transition ignored")
		return fmt.Errorf("%s -> %s: %w", s.state, next, domain.ErrInvalidTransition)
	}
	s.logger.Info().Str("from", s.state.String()).Str("to", next.String()).Msg("state")
	s.state = next
	return nil
}

// begin starts a new asynchronous step and invalidates any older one.
func (s *Session) begin() uint64 {
	s.gen++
	return s.gen
}

func (s *Session) info() core.SessionInfo {
	return core.SessionInfo{
		RoomID:            s.room,
		Local:             s.local,
		Remote:            s.remote,
		Role:              s.role,
		State:             s.state,
		ReconnectAttempts: s.attempts,
		PendingCandidates: s.pending.len(),
		Geometry:          s.geometry,
	}
}

// queueCandidate holds c until the remote description is applied.
func (s *Session) queueCandidate(c webrtc.ICECandidateInit) {
	if evicted := s.pending.push(c); evicted > 0 {
		s.logger.Warn().Int("evicted", evicted).Msg("pending candidates evicted")
	}
	s.logger.Debug().Int("pending", s.pending.len()).Msg("candidate queued")
}

// flushCandidates applies queued candidates in arrival order. It runs
// exactly once per remote description application.
func (s *Session) flushCandidates() {
	queued := s.pending.drain()
	for _, c := range queued {
		if err := s.conn.AddICECandidate(c); err != nil {
			s.logger.Warn().Err(err).Msg("queued candidate rejected")
		}
	}
	if len(queued) > 0 {
		s.logger.Debug().Int("count", len(queued)).Msg("pending candidates flushed")
	}
}

// release drops every resource the session holds. The caller has already
// moved it to a terminal state.
func (s *Session) release() {
	s.begin()
	s.recovery.disarm()
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close direct connection")
		}
		s.conn = nil
	}
	s.control = nil
	s.remoteSet = false
	s.awaitingAnswer = false
	s.outbox = nil
	s.pending.clear()
}
