package signal

import (
	"sync"
	"sync/atomic"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

// listenerSet maps a message kind to any number of independent listeners.
type listenerSet struct {
	mu     sync.RWMutex
	byKind map[protocol.Kind]map[core.ListenerID]core.Listener
	nextID atomic.Uint64
}

func (s *listenerSet) add(kind protocol.Kind, fn core.Listener) core.ListenerID {
	id := core.ListenerID(s.nextID.Add(1))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byKind == nil {
		s.byKind = make(map[protocol.Kind]map[core.ListenerID]core.Listener)
	}
	set, ok := s.byKind[kind]
	if !ok {
		set = make(map[core.ListenerID]core.Listener)
		s.byKind[kind] = set
	}
	set[id] = fn
	return id
}

func (s *listenerSet) remove(kind protocol.Kind, id core.ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.byKind[kind]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(s.byKind, kind)
		}
	}
}

func (s *listenerSet) count(kind protocol.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKind[kind])
}

// dispatch invokes every listener of msg.Kind independently; a panicking
// listener is logged and does not stop the others.
func (s *listenerSet) dispatch(msg protocol.Message) {
	s.mu.RLock()
	fns := make([]core.Listener, 0, len(s.byKind[msg.Kind]))
	for _, fn := range s.byKind[msg.Kind] {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	if len(fns) == 0 {
		log.Debug().Str("module", "signal.listeners").Str("type", string(msg.Kind)).Msg("no listeners")
		return
	}
	for _, fn := range fns {
		var pc panics.Catcher
		pc.Try(func() { fn(msg) })
		if r := pc.Recovered(); r != nil {
			log.Error().Str("module", "signal.listeners").Str("type", string(msg.Kind)).Str("panic", r.String()).Msg("listener panicked")
		}
	}
}
