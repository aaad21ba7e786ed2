package sfu

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// SourceKey names a shared capture source.
type SourceKey string

func KeyFor(target core.CaptureTarget) SourceKey {
	return SourceKey(fmt.Sprintf("display-%d", target.Display))
}

type RelayManager struct {
	mu     sync.RWMutex
	relays map[SourceKey]*Relay
}

func NewRelayManager() *RelayManager {
	return &RelayManager{
		relays: make(map[SourceKey]*Relay),
	}
}

// StartRelay starts forwarding src under key, replacing any previous relay.
func (m *RelayManager) StartRelay(key SourceKey, src core.MediaHandle) {
	logger := log.With().
		Str("module", "sfu.relay").
		Str("source", string(key)).
		Logger()

	relayCtx, cancel := context.WithCancel(context.Background())
	relay := NewRelay(src, cancel)

	m.mu.Lock()
	old, replaced := m.relays[key]
	m.relays[key] = relay
	m.mu.Unlock()
	if replaced {
		logger.Info().Msg("replacing existing relay for source")
		old.stop()
	}

	logger.Info().Msg("starting relay loop")
	go relay.loop(relayCtx, &logger)
}

// Subscribe creates the session's local track for the source under key.
func (m *RelayManager) Subscribe(key SourceKey, room domain.RoomID) (*OutTrack, error) {
	m.mu.RLock()
	relay, ok := m.relays[key]
	m.mu.RUnlock()
	if !ok || relay.finished() {
		return nil, fmt.Errorf("no relay for %s", key)
	}
	track, err := webrtc.NewTrackLocalStaticRTP(relay.Src.Codec(), "screen", string(room))
	if err != nil {
		return nil, fmt.Errorf("new local track: %w", err)
	}
	ot := NewOutTrack(room, track)
	relay.AddOutTrack(ot)
	return ot, nil
}

func (m *RelayManager) Pause(key SourceKey, room domain.RoomID) {
	if ot, ok := m.outTrack(key, room); ok {
		ot.Pause()
	}
}

func (m *RelayManager) Resume(key SourceKey, room domain.RoomID) {
	if ot, ok := m.outTrack(key, room); ok {
		ot.Resume()
	}
}

// MarkSubscriberDelete detaches room from the source and reports how many
// live subscribers remain.
func (m *RelayManager) MarkSubscriberDelete(key SourceKey, room domain.RoomID) int {
	m.mu.RLock()
	relay, ok := m.relays[key]
	m.mu.RUnlock()
	if !ok {
		return 0
	}
	if ot, ok := relay.outTrack(room); ok {
		ot.MarkDelete()
	}
	return relay.live()
}

// StopRelay stops a relay, closes its source and removes it.
func (m *RelayManager) StopRelay(key SourceKey) {
	m.mu.Lock()
	relay, ok := m.relays[key]
	if ok {
		delete(m.relays, key)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	relay.stop()
	log.Info().Str("module", "sfu.relay").Str("source", string(key)).Msg("relay stopped")
}

func (m *RelayManager) HasRelay(key SourceKey) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.relays[key]
	return ok
}

// Source returns the media handle a relay reads from.
func (m *RelayManager) Source(key SourceKey) (core.MediaHandle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	relay, ok := m.relays[key]
	if !ok || relay.finished() {
		return nil, false
	}
	return relay.Src, true
}

func (m *RelayManager) outTrack(key SourceKey, room domain.RoomID) (*OutTrack, bool) {
	m.mu.RLock()
	relay, ok := m.relays[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return relay.outTrack(room)
}
