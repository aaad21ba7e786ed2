package app

import (
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/rs/zerolog/log"
)

// releaseFunc finishes a session that the registry has just unregistered:
// it moves it to final and frees its resources.
type releaseFunc func(s *Session, final domain.State, reason string, notifyPeer bool)

// Registry owns every live session of one local identity and is the only
// place sessions are created or destroyed. At most one session exists per
// (local, remote) pair. It is confined to the orchestrator's event loop.
type Registry struct {
	opts      *Options
	sessions  map[domain.RoomID]*Session
	pairs     map[domain.Pair]domain.RoomID
	onRelease releaseFunc
}

func NewRegistry(opts *Options, onRelease releaseFunc) *Registry {
	return &Registry{
		opts:      opts,
		sessions:  make(map[domain.RoomID]*Session),
		pairs:     make(map[domain.Pair]domain.RoomID),
		onRelease: onRelease,
	}
}

// Acquire creates a session for the pair. A live session for the same pair
// is force-closed first.
func (r *Registry) Acquire(pair domain.Pair, role domain.Role, room domain.RoomID) *Session {
	if old, ok := r.pairs[pair]; ok {
		log.Info().Str("module", "app.registry").Str("pair", pair.String()).Str("room_id", string(old)).Msg("superseding session")
		r.end(old, domain.StateClosed, "superseded by a new session", true)
	}
	s := newSession(room, pair, role, r.opts)
	r.sessions[room] = s
	r.pairs[pair] = room
	log.Info().Str("module", "app.registry").Str("pair", pair.String()).Str("room_id", string(room)).Str("role", role.String()).Msg("created session")
	return s
}

// Release closes the session and unregisters it from routing.
func (r *Registry) Release(room domain.RoomID, reason string, notifyPeer bool) bool {
	return r.end(room, domain.StateClosed, reason, notifyPeer)
}

// Fail moves the session to FAILED and unregisters it.
func (r *Registry) Fail(room domain.RoomID, reason string) bool {
	return r.end(room, domain.StateFailed, reason, true)
}

func (r *Registry) end(room domain.RoomID, final domain.State, reason string, notifyPeer bool) bool {
	s, ok := r.sessions[room]
	if !ok {
		return false
	}
	delete(r.sessions, room)
	if r.pairs[s.pair()] == room {
		delete(r.pairs, s.pair())
	}
	log.Info().Str("module", "app.registry").Str("room_id", string(room)).Str("final", final.String()).Str("reason", reason).Msg("unbind session")
	if r.onRelease != nil {
		r.onRelease(s, final, reason, notifyPeer)
	}
	return true
}

func (r *Registry) Get(room domain.RoomID) (*Session, bool) {
	s, ok := r.sessions[room]
	return s, ok
}

func (r *Registry) ByPair(pair domain.Pair) (*Session, bool) {
	room, ok := r.pairs[pair]
	if !ok {
		return nil, false
	}
	return r.Get(room)
}

// ByRemote lists the sessions whose peer is remote.
func (r *Registry) ByRemote(remote domain.Identity) []*Session {
	out := make([]*Session, 0, 1)
	for _, s := range r.sessions {
		if s.remote == remote {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) All() []*Session {
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *Registry) Len() int { return len(r.sessions) }
