package core

import (
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

//go:generate mockgen -destination=mocks/mock_core.go -package=mocks github.com/dkeye/ScreenShare/internal/core DirectConnection,ConnectionFactory,MediaHandle,CaptureAdapter,InputAdapter,RenderSink,ControlChannel

// Health is the three-way connectivity signal of a direct connection.
type Health int

const (
	HealthHealthy Health = iota
	HealthDegraded
	HealthFailed
)

func (h Health) String() string {
	switch h {
	case HealthHealthy:
		return "healthy"
	case HealthDegraded:
		return "degraded"
	case HealthFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DirectConnection is the negotiated peer transport owned by exactly one session.
type DirectConnection interface {
	// CreateOffer generates an offer and sets it as the local description.
	// iceRestart requests fresh ICE credentials on the existing connection.
	CreateOffer(iceRestart bool) (webrtc.SessionDescription, error)
	// CreateAnswer generates an answer to the applied remote offer and sets it locally.
	CreateAnswer() (webrtc.SessionDescription, error)
	SetRemoteDescription(webrtc.SessionDescription) error
	AddICECandidate(webrtc.ICECandidateInit) error
	// AddLocalTrack attaches an outgoing track to the connection.
	AddLocalTrack(track webrtc.TrackLocal) error
	// OnICECandidate sets a callback for newly gathered local candidates.
	OnICECandidate(func(webrtc.ICECandidateInit))
	// OnHealth sets a callback for connectivity changes.
	OnHealth(func(Health))
	// OnRemoteMedia sets a callback invoked when the peer's media arrives.
	OnRemoteMedia(func(MediaHandle))
	// OnControl sets a callback invoked once the control channel is open.
	OnControl(func(ControlChannel))
	Close() error
}

// ConnectionFactory creates a fresh direct connection for a session.
type ConnectionFactory interface {
	NewConnection(room domain.RoomID, role domain.Role) (DirectConnection, error)
}

// MediaHandle is a media source owned by a capability adapter or by the
// direct connection that received it. Sessions attach and detach handles
// but never close them.
type MediaHandle interface {
	ID() string
	Codec() webrtc.RTPCodecCapability
	ReadRTP() (*rtp.Packet, error)
}

// ControlChannel carries opaque control frames (remote input) next to the media.
type ControlChannel interface {
	Send(data []byte) error
	OnMessage(func(data []byte))
	Close() error
}
