package rtc

import (
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

// remoteMedia exposes a received track as a MediaHandle. The track belongs
// to its PeerConnection and goes away with it.
type remoteMedia struct {
	track *webrtc.TrackRemote
}

var _ core.MediaHandle = remoteMedia{}

func (m remoteMedia) ID() string { return m.track.ID() }

func (m remoteMedia) Codec() webrtc.RTPCodecCapability { return m.track.Codec().RTPCodecCapability }

func (m remoteMedia) ReadRTP() (*rtp.Packet, error) {
	pkt, _, err := m.track.ReadRTP()
	return pkt, err
}

// dataChannel adapts a pion data channel to core.ControlChannel.
type dataChannel struct {
	dc *webrtc.DataChannel
}

var _ core.ControlChannel = dataChannel{}

func (c dataChannel) Send(data []byte) error { return c.dc.Send(data) }

func (c dataChannel) OnMessage(fn func([]byte)) {
	c.dc.OnMessage(func(msg webrtc.DataChannelMessage) { fn(msg.Data) })
}

func (c dataChannel) Close() error { return c.dc.Close() }
