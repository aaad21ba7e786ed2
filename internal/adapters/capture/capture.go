// Package capture turns a capture target into a media handle. Frames are
// encoded by an external process (for example a GStreamer or ffmpeg
// pipeline grabbing the selected display) that sends RTP to a local UDP
// address; this adapter validates the display and exposes that feed.
package capture

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/kbinani/screenshot"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// DefaultCodec is what the external encoder is expected to produce.
var DefaultCodec = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}

const maxPacketSize = 1500

type Adapter struct {
	addr  string
	codec webrtc.RTPCodecCapability

	// displays reports the number of active displays.
	displays func() int
}

var _ core.CaptureAdapter = (*Adapter)(nil)

func New(addr string, codec webrtc.RTPCodecCapability) *Adapter {
	if codec.MimeType == "" {
		codec = DefaultCodec
	}
	return &Adapter{addr: addr, codec: codec, displays: screenshot.NumActiveDisplays}
}

func (a *Adapter) AcquireCaptureSource(ctx context.Context, target core.CaptureTarget) (core.MediaHandle, error) {
	n := a.displays()
	if n == 0 {
		return nil, fmt.Errorf("display %d: %w", target.Display, domain.ErrNoSourceAvailable)
	}
	if target.Display < 0 || target.Display >= n {
		return nil, fmt.Errorf("display %d of %d: %w", target.Display, n, domain.ErrNoSourceAvailable)
	}

	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", a.addr)
	if err != nil {
		if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EACCES) {
			return nil, fmt.Errorf("listen %s: %w", a.addr, domain.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("listen %s: %v: %w", a.addr, err, domain.ErrNoSourceAvailable)
	}

	log.Info().Str("module", "capture").Int("display", target.Display).Str("addr", conn.LocalAddr().String()).Msg("capture source acquired")
	return &udpSource{
		id:    fmt.Sprintf("display-%d", target.Display),
		codec: a.codec,
		conn:  conn,
		buf:   make([]byte, maxPacketSize),
	}, nil
}

// udpSource reads RTP packets pushed by the encoder.
type udpSource struct {
	id    string
	codec webrtc.RTPCodecCapability
	conn  net.PacketConn

	mu   sync.Mutex
	buf  []byte
	once sync.Once
}

func (s *udpSource) ID() string { return s.id }

func (s *udpSource) Codec() webrtc.RTPCodecCapability { return s.codec }

// Addr is where the encoder should send packets.
func (s *udpSource) Addr() net.Addr { return s.conn.LocalAddr() }

func (s *udpSource) ReadRTP() (*rtp.Packet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		n, _, err := s.conn.ReadFrom(s.buf)
		if err != nil {
			return nil, err
		}
		pkt := &rtp.Packet{}
		if err := pkt.Unmarshal(append([]byte(nil), s.buf[:n]...)); err != nil {
			log.Debug().Err(err).Str("module", "capture").Str("source", s.id).Msg("dropping non-RTP datagram")
			continue
		}
		return pkt, nil
	}
}

func (s *udpSource) Close() error {
	var err error
	s.once.Do(func() { err = s.conn.Close() })
	return err
}
