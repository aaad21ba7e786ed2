package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
)

// packetCounter is a render sink for terminals: it drains the remote media
// and periodically reports how much arrived.
type packetCounter struct {
	every time.Duration

	mu      sync.Mutex
	streams map[domain.RoomID]*stream
}

type stream struct {
	packets  atomic.Int64
	bytes    atomic.Int64
	detached atomic.Bool
	stop     chan struct{}
}

var _ core.RenderSink = (*packetCounter)(nil)

func newPacketCounter(every time.Duration) *packetCounter {
	return &packetCounter{every: every, streams: make(map[domain.RoomID]*stream)}
}

func (p *packetCounter) Attach(room domain.RoomID, media core.MediaHandle) {
	s := &stream{stop: make(chan struct{})}
	p.mu.Lock()
	if old, ok := p.streams[room]; ok {
		old.end()
	}
	p.streams[room] = s
	p.mu.Unlock()

	log.Info().Str("module", "render").Str("room_id", string(room)).Str("codec", media.Codec().MimeType).Msg("rendering remote media")
	go s.drain(media)
	go s.report(room, p.every)
}

func (p *packetCounter) Detach(room domain.RoomID) {
	p.mu.Lock()
	s, ok := p.streams[room]
	delete(p.streams, room)
	p.mu.Unlock()
	if ok {
		s.end()
		log.Info().Str("module", "render").Str("room_id", string(room)).Int64("packets", s.packets.Load()).Msg("remote media detached")
	}
}

func (p *packetCounter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for room, s := range p.streams {
		s.end()
		delete(p.streams, room)
	}
}

func (s *stream) end() {
	if s.detached.CompareAndSwap(false, true) {
		close(s.stop)
	}
}

// drain reads until the track goes away with its connection.
func (s *stream) drain(media core.MediaHandle) {
	for !s.detached.Load() {
		pkt, err := media.ReadRTP()
		if err != nil {
			return
		}
		s.packets.Add(1)
		s.bytes.Add(int64(len(pkt.Payload)))
	}
}

func (s *stream) report(room domain.RoomID, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			log.Info().Str("module", "render").Str("room_id", string(room)).
				Int64("packets", s.packets.Load()).
				Int64("bytes", s.bytes.Load()).
				Msg("receiving")
		}
	}
}
