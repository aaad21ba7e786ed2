package rtc

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/intervalpli"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ControlLabel names the data channel that carries remote input.
const ControlLabel = "input"

type Config struct {
	ICEServers []webrtc.ICEServer
	// IncludeLoopback gathers loopback candidates; needed when both peers
	// share a host.
	IncludeLoopback bool
	// PLIInterval makes the viewer request a keyframe periodically.
	PLIInterval time.Duration
	LogLevel    zerolog.Level
}

func DefaultConfig() Config {
	return Config{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
		PLIInterval: 3 * time.Second,
		LogLevel:    zerolog.WarnLevel,
	}
}

var _ core.ConnectionFactory = (*Factory)(nil)

// Factory builds one PeerConnection per session. The sharer and viewer use
// separate APIs because only the viewer sends periodic PLIs.
type Factory struct {
	cfg       Config
	sharerAPI *webrtc.API
	viewerAPI *webrtc.API
}

func NewFactory(cfg Config) (*Factory, error) {
	sharer, err := newAPI(cfg, false)
	if err != nil {
		return nil, err
	}
	viewer, err := newAPI(cfg, true)
	if err != nil {
		return nil, err
	}
	return &Factory{cfg: cfg, sharerAPI: sharer, viewerAPI: viewer}, nil
}

func newAPI(cfg Config, viewer bool) (*webrtc.API, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}
	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, ir); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}
	if viewer && cfg.PLIInterval > 0 {
		pli, err := intervalpli.NewReceiverInterceptor(intervalpli.GeneratorInterval(cfg.PLIInterval))
		if err != nil {
			return nil, fmt.Errorf("pli interceptor: %w", err)
		}
		ir.Add(pli)
	}

	se := webrtc.SettingEngine{LoggerFactory: newLoggerFactory(cfg.LogLevel)}
	se.SetIncludeLoopbackCandidate(cfg.IncludeLoopback)

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithInterceptorRegistry(ir),
		webrtc.WithSettingEngine(se),
	), nil
}

// NewConnection creates the PeerConnection for one session. The offerer
// is the sharer and opens the control channel; the answerer accepts it.
func (f *Factory) NewConnection(room domain.RoomID, role domain.Role) (core.DirectConnection, error) {
	api := f.sharerAPI
	if role == domain.RoleAnswerer {
		api = f.viewerAPI
	}
	pc, err := api.NewPeerConnection(webrtc.Configuration{ICEServers: f.cfg.ICEServers})
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}

	c := &Connection{pc: pc, room: room, role: role}
	c.bind()

	if role == domain.RoleOfferer {
		dc, err := pc.CreateDataChannel(ControlLabel, nil)
		if err != nil {
			_ = pc.Close()
			return nil, fmt.Errorf("create control channel: %w", err)
		}
		c.bindControl(dc)
	} else {
		pc.OnDataChannel(func(dc *webrtc.DataChannel) {
			if dc.Label() != ControlLabel {
				log.Warn().Str("module", "rtc").Str("room_id", string(room)).Str("label", dc.Label()).Msg("unexpected data channel")
				return
			}
			c.bindControl(dc)
		})
	}
	return c, nil
}

// Connection is a DirectConnection backed by a pion PeerConnection.
type Connection struct {
	pc   *webrtc.PeerConnection
	room domain.RoomID
	role domain.Role

	mu        sync.Mutex
	onICE     func(webrtc.ICECandidateInit)
	onHealth  func(core.Health)
	onMedia   func(core.MediaHandle)
	onControl func(core.ControlChannel)

	closing atomic.Bool
}

func (c *Connection) logger() *zerolog.Logger {
	l := log.With().Str("module", "rtc").Str("room_id", string(c.room)).Str("role", c.role.String()).Logger()
	return &l
}

func (c *Connection) bind() {
	c.pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		c.logger().Debug().Str("ice_state", s.String()).Msg("ICE state")
	})

	c.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		c.logger().Info().Str("peer_connection_state", s.String()).Msg("peer state")
		h, ok := c.healthOf(s)
		if !ok {
			return
		}
		c.mu.Lock()
		fn := c.onHealth
		c.mu.Unlock()
		if fn != nil {
			fn(h)
		}
	})

	c.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand == nil {
			return
		}
		c.mu.Lock()
		fn := c.onICE
		c.mu.Unlock()
		if fn != nil {
			fn(cand.ToJSON())
		}
	})

	c.pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		c.logger().Info().
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Str("stream_id", track.StreamID()).
			Msg("OnTrack received")
		c.mu.Lock()
		fn := c.onMedia
		c.mu.Unlock()
		if fn != nil {
			fn(remoteMedia{track: track})
		}
	})
}

// healthOf maps the peer connection state onto the three-way signal. A
// Closed state we did not cause is a terminal failure.
func (c *Connection) healthOf(s webrtc.PeerConnectionState) (core.Health, bool) {
	switch s {
	case webrtc.PeerConnectionStateConnected:
		return core.HealthHealthy, true
	case webrtc.PeerConnectionStateDisconnected, webrtc.PeerConnectionStateFailed:
		return core.HealthDegraded, true
	case webrtc.PeerConnectionStateClosed:
		if c.closing.Load() {
			return 0, false
		}
		return core.HealthFailed, true
	}
	return 0, false
}

func (c *Connection) bindControl(dc *webrtc.DataChannel) {
	dc.OnOpen(func() {
		c.logger().Info().Str("label", dc.Label()).Msg("control channel open")
		c.mu.Lock()
		fn := c.onControl
		c.mu.Unlock()
		if fn != nil {
			fn(dataChannel{dc: dc})
		}
	})
}

func (c *Connection) CreateOffer(iceRestart bool) (webrtc.SessionDescription, error) {
	var opts *webrtc.OfferOptions
	if iceRestart {
		opts = &webrtc.OfferOptions{ICERestart: true}
	}
	offer, err := c.pc.CreateOffer(opts)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("create offer: %w", err)
	}
	if err := c.pc.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("set local offer: %w", err)
	}
	return offer, nil
}

func (c *Connection) CreateAnswer() (webrtc.SessionDescription, error) {
	answer, err := c.pc.CreateAnswer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("create answer: %w", err)
	}
	if err := c.pc.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("set local answer: %w", err)
	}
	return answer, nil
}

func (c *Connection) SetRemoteDescription(desc webrtc.SessionDescription) error {
	if err := c.pc.SetRemoteDescription(desc); err != nil {
		return fmt.Errorf("set remote %s: %w", desc.Type, err)
	}
	return nil
}

func (c *Connection) AddICECandidate(ci webrtc.ICECandidateInit) error {
	return c.pc.AddICECandidate(ci)
}

// AddLocalTrack attaches an outgoing track and drains its RTCP so the
// interceptors keep working.
func (c *Connection) AddLocalTrack(track webrtc.TrackLocal) error {
	sender, err := c.pc.AddTrack(track)
	if err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := sender.Read(buf); err != nil {
				return
			}
		}
	}()
	return nil
}

func (c *Connection) OnICECandidate(fn func(webrtc.ICECandidateInit)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onICE = fn
}

func (c *Connection) OnHealth(fn func(core.Health)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onHealth = fn
}

func (c *Connection) OnRemoteMedia(fn func(core.MediaHandle)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMedia = fn
}

func (c *Connection) OnControl(fn func(core.ControlChannel)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onControl = fn
}

func (c *Connection) Close() error {
	if !c.closing.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.pc.Close(); err != nil {
		c.logger().Error().Err(err).Msg("close error")
		return err
	}
	c.logger().Info().Msg("closed")
	return nil
}
