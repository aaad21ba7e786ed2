package sfu

import (
	"sync/atomic"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/webrtc/v4"
)

type TrackState int32

const (
	TrackStateLive TrackState = iota
	TrackStatePaused
	TrackStateDelete
)

func (s TrackState) String() string {
	switch s {
	case TrackStateLive:
		return "live"
	case TrackStatePaused:
		return "paused"
	case TrackStateDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// OutTrack is the local track of one session fed by a shared source.
type OutTrack struct {
	Room  domain.RoomID
	Track *webrtc.TrackLocalStaticRTP
	state atomic.Int32 // Zero by default (TrackStateLive)
}

func NewOutTrack(room domain.RoomID, track *webrtc.TrackLocalStaticRTP) *OutTrack {
	return &OutTrack{Room: room, Track: track}
}

func (ot *OutTrack) State() TrackState {
	return TrackState(ot.state.Load())
}

// Resume re-enables a paused track. A deleted track stays deleted.
func (ot *OutTrack) Resume() {
	ot.state.CompareAndSwap(int32(TrackStatePaused), int32(TrackStateLive))
}

func (ot *OutTrack) Pause() {
	ot.state.CompareAndSwap(int32(TrackStateLive), int32(TrackStatePaused))
}

func (ot *OutTrack) MarkDelete() {
	ot.state.Store(int32(TrackStateDelete))
}
