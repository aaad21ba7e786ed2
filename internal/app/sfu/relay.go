package sfu

import (
	"context"
	"io"
	"maps"
	"sync"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/rtp"
	"github.com/rs/zerolog"
)

// Relay reads one captured source and copies every packet to the out-tracks
// of all sessions sharing it.
type Relay struct {
	Src core.MediaHandle

	mu        sync.RWMutex
	outTracks map[domain.RoomID]*OutTrack

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRelay(src core.MediaHandle, cancel context.CancelFunc) *Relay {
	return &Relay{
		Src:       src,
		outTracks: make(map[domain.RoomID]*OutTrack),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (r *Relay) loop(ctx context.Context, logger *zerolog.Logger) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("relay ctx done, marking all out tracks for delete")
			r.markAllDelete()
			return
		default:
		}
		pkt, err := r.Src.ReadRTP()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error().Err(err).Msg("relay read RTP error, stopping")
			}
			r.markAllDelete()
			return
		}
		r.forward(pkt, logger)
	}
}

func (r *Relay) forward(pkt *rtp.Packet, logger *zerolog.Logger) {
	r.mu.RLock()
	snapshot := make(map[domain.RoomID]*OutTrack, len(r.outTracks))
	maps.Copy(snapshot, r.outTracks)
	r.mu.RUnlock()

	dirty := make([]domain.RoomID, 0, len(snapshot))
	for room, ot := range snapshot {
		switch ot.State() {
		case TrackStateDelete:
			dirty = append(dirty, room)
		case TrackStatePaused:
		case TrackStateLive:
			if err := ot.Track.WriteRTP(pkt); err != nil {
				logger.Error().
					Err(err).
					Str("room_id", string(room)).
					Msg("relay write RTP error, marking outtrack as delete")
				ot.MarkDelete()
				dirty = append(dirty, room)
			}
		}
	}

	if len(dirty) > 0 {
		r.cleanupDeleted(dirty)
	}
}

func (r *Relay) cleanupDeleted(dirty []domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range dirty {
		if ot, ok := r.outTracks[room]; ok && ot.State() == TrackStateDelete {
			delete(r.outTracks, room)
		}
	}
}

func (r *Relay) markAllDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ot := range r.outTracks {
		ot.MarkDelete()
	}
}

func (r *Relay) AddOutTrack(ot *OutTrack) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outTracks[ot.Room] = ot
}

func (r *Relay) outTrack(room domain.RoomID) (*OutTrack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ot, ok := r.outTracks[room]
	return ot, ok
}

// live counts out-tracks not marked for deletion.
func (r *Relay) live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, ot := range r.outTracks {
		if ot.State() != TrackStateDelete {
			n++
		}
	}
	return n
}

// finished reports whether the loop has exited.
func (r *Relay) finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// stop cancels the loop and releases the source so a blocked read returns.
func (r *Relay) stop() {
	r.markAllDelete()
	if r.cancel != nil {
		r.cancel()
	}
	if c, ok := r.Src.(io.Closer); ok {
		_ = c.Close()
	}
}
