package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkeye/ScreenShare/internal/adapters/signal"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/core/mocks"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/dkeye/ScreenShare/internal/testutil"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"go.uber.org/mock/gomock"
)

// fakeMedia is a capture source that produces nothing until closed.
type fakeMedia struct {
	id     string
	closed chan struct{}
	once   sync.Once
}

func newFakeMedia(id string) *fakeMedia {
	return &fakeMedia{id: id, closed: make(chan struct{})}
}

func (m *fakeMedia) ID() string { return m.id }

func (m *fakeMedia) Codec() webrtc.RTPCodecCapability {
	return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
}

func (m *fakeMedia) ReadRTP() (*rtp.Packet, error) {
	<-m.closed
	return nil, io.EOF
}

func (m *fakeMedia) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

// connHooks are the callbacks the orchestrator installed on a mock connection.
type connHooks struct {
	ice     chan func(webrtc.ICECandidateInit)
	health  chan func(core.Health)
	media   chan func(core.MediaHandle)
	control chan func(core.ControlChannel)
}

// expectHooks records the callbacks installed on conn, if it is ever used.
func expectHooks(conn *mocks.MockDirectConnection) *connHooks {
	h := &connHooks{
		ice:     make(chan func(webrtc.ICECandidateInit), 1),
		health:  make(chan func(core.Health), 1),
		media:   make(chan func(core.MediaHandle), 1),
		control: make(chan func(core.ControlChannel), 1),
	}
	conn.EXPECT().OnICECandidate(gomock.Any()).Do(func(fn func(webrtc.ICECandidateInit)) { h.ice <- fn }).AnyTimes()
	conn.EXPECT().OnHealth(gomock.Any()).Do(func(fn func(core.Health)) { h.health <- fn }).AnyTimes()
	conn.EXPECT().OnRemoteMedia(gomock.Any()).Do(func(fn func(core.MediaHandle)) { h.media <- fn }).AnyTimes()
	conn.EXPECT().OnControl(gomock.Any()).Do(func(fn func(core.ControlChannel)) { h.control <- fn }).AnyTimes()
	conn.EXPECT().Close().Return(nil).AnyTimes()
	return h
}

type lifecycle struct {
	connected chan core.SessionInfo
	failed    chan string
	closed    chan string
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		connected: make(chan core.SessionInfo, 16),
		failed:    make(chan string, 16),
		closed:    make(chan string, 16),
	}
}

func (l *lifecycle) callbacks() core.Callbacks {
	return core.Callbacks{
		OnConnected: func(info core.SessionInfo) { l.connected <- info },
		OnFailed:    func(_ core.SessionInfo, reason string) { l.failed <- reason },
		OnClosed:    func(_ core.SessionInfo, reason string) { l.closed <- reason },
	}
}

// peer is the far side played by the test through the memory hub.
type peer struct {
	ep    *signal.MemoryEndpoint
	inbox chan protocol.Message
}

func newPeer(hub *signal.MemoryHub, id domain.Identity) *peer {
	p := &peer{ep: hub.Endpoint(id), inbox: make(chan protocol.Message, 64)}
	for _, kind := range routedKinds {
		p.ep.AddListener(kind, func(msg protocol.Message) { p.inbox <- msg })
	}
	return p
}

func (p *peer) expect(t *testing.T, kind protocol.Kind) protocol.Message {
	t.Helper()
	msg := testutil.RequireReceive(t, p.inbox, testutil.DefaultTimeout, string(kind))
	if msg.Kind != kind {
		t.Fatalf("got %s, want %s", msg.Kind, kind)
	}
	return msg
}

func (p *peer) emit(t *testing.T, msg protocol.Message, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("build %s: %v", msg.Kind, err)
	}
	p.ep.Emit(msg)
}

// stepClock hands out strictly increasing times.
type stepClock struct{ n atomic.Int64 }

func (c *stepClock) now() time.Time {
	return time.Unix(1700000000, 0).Add(time.Duration(c.n.Add(1)) * time.Millisecond)
}

// startOrchestrator runs o until the test ends.
func startOrchestrator(t *testing.T, opts Options) *Orchestrator {
	t.Helper()
	if opts.Now == nil {
		opts.Now = (&stepClock{}).now
	}
	o, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := testutil.RequireReceive(t, done, testutil.DefaultTimeout, "orchestrator exit"); err != nil {
			t.Errorf("Run: %v", err)
		}
	})
	return o
}

func sessionInfo(t *testing.T, o *Orchestrator, room domain.RoomID) (core.SessionInfo, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testutil.DefaultTimeout)
	defer cancel()
	infos, err := o.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	for _, info := range infos {
		if info.RoomID == room {
			return info, true
		}
	}
	return core.SessionInfo{}, false
}

func waitState(t *testing.T, o *Orchestrator, room domain.RoomID, want domain.State) core.SessionInfo {
	t.Helper()
	var info core.SessionInfo
	testutil.Eventually(t, testutil.DefaultTimeout, func() bool {
		var ok bool
		info, ok = sessionInfo(t, o, room)
		return ok && info.State == want
	}, "session "+string(room)+" in "+want.String())
	return info
}

func offerSDP(ufrag string) webrtc.SessionDescription {
	return webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: sdpWithUfrag(ufrag)}
}

func answerSDP(ufrag string) webrtc.SessionDescription {
	return webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: sdpWithUfrag(ufrag)}
}
