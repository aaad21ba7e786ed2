package sfu

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/ScreenShare/internal/core"
)

// chanSource yields packets pushed to it until closed.
type chanSource struct {
	pkts chan *rtp.Packet
	once sync.Once
	shut chan struct{}
}

func newChanSource() *chanSource {
	return &chanSource{pkts: make(chan *rtp.Packet, 8), shut: make(chan struct{})}
}

func (s *chanSource) ID() string { return "test" }

func (s *chanSource) Codec() webrtc.RTPCodecCapability {
	return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
}

func (s *chanSource) ReadRTP() (*rtp.Packet, error) {
	select {
	case p := <-s.pkts:
		return p, nil
	case <-s.shut:
		return nil, io.EOF
	}
}

func (s *chanSource) Close() error {
	s.once.Do(func() { close(s.shut) })
	return nil
}

func (s *chanSource) closed() bool {
	select {
	case <-s.shut:
		return true
	default:
		return false
	}
}

var _ core.MediaHandle = (*chanSource)(nil)

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestKeyFor(t *testing.T) {
	if got := KeyFor(core.CaptureTarget{Display: 2}); got != "display-2" {
		t.Fatalf("KeyFor = %q", got)
	}
}

func TestOutTrackStates(t *testing.T) {
	ot := NewOutTrack("r", nil)
	if ot.State() != TrackStateLive {
		t.Fatalf("initial state %v", ot.State())
	}
	ot.Pause()
	if ot.State() != TrackStatePaused {
		t.Fatalf("after pause %v", ot.State())
	}
	ot.Resume()
	if ot.State() != TrackStateLive {
		t.Fatalf("after resume %v", ot.State())
	}
	ot.MarkDelete()
	ot.Resume()
	ot.Pause()
	if ot.State() != TrackStateDelete {
		t.Fatalf("deleted track changed to %v", ot.State())
	}
}

func TestRelayManager_SubscribeRequiresRelay(t *testing.T) {
	m := NewRelayManager()
	if _, err := m.Subscribe("display-0", "r1"); err == nil {
		t.Fatal("subscribe without relay succeeded")
	}
	if _, ok := m.Source("display-0"); ok {
		t.Fatal("source without relay")
	}
}

func TestRelayManager_SharedSourceLifecycle(t *testing.T) {
	m := NewRelayManager()
	src := newChanSource()
	key := SourceKey("display-0")
	m.StartRelay(key, src)

	a, err := m.Subscribe(key, "room-a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Subscribe(key, "room-b"); err != nil {
		t.Fatal(err)
	}
	if got, ok := m.Source(key); !ok || got != core.MediaHandle(src) {
		t.Fatal("Source did not return the captured handle")
	}

	m.Pause(key, "room-a")
	if a.State() != TrackStatePaused {
		t.Fatalf("room-a state %v", a.State())
	}
	m.Resume(key, "room-a")
	if a.State() != TrackStateLive {
		t.Fatalf("room-a state %v", a.State())
	}

	// Packets keep flowing to unbound tracks without error.
	src.pkts <- &rtp.Packet{Header: rtp.Header{Version: 2, SequenceNumber: 1}}

	if left := m.MarkSubscriberDelete(key, "room-a"); left != 1 {
		t.Fatalf("live after first delete = %d", left)
	}
	if left := m.MarkSubscriberDelete(key, "room-b"); left != 0 {
		t.Fatalf("live after second delete = %d", left)
	}

	m.StopRelay(key)
	if m.HasRelay(key) {
		t.Fatal("relay still registered")
	}
	if !src.closed() {
		t.Fatal("source not closed on stop")
	}
}

func TestRelay_SourceEndMarksTracksDeleted(t *testing.T) {
	m := NewRelayManager()
	src := newChanSource()
	key := SourceKey("display-1")
	m.StartRelay(key, src)
	ot, err := m.Subscribe(key, "room")
	if err != nil {
		t.Fatal(err)
	}

	_ = src.Close()
	eventually(t, "out-track deleted", func() bool { return ot.State() == TrackStateDelete })
	eventually(t, "source unavailable", func() bool {
		_, ok := m.Source(key)
		return !ok
	})
	if _, err := m.Subscribe(key, "late"); err == nil {
		t.Fatal("subscribe to finished relay succeeded")
	}
}

func TestRelayManager_StartReplacesRelay(t *testing.T) {
	m := NewRelayManager()
	first, second := newChanSource(), newChanSource()
	m.StartRelay("display-0", first)
	m.StartRelay("display-0", second)
	if !first.closed() {
		t.Fatal("replaced source not closed")
	}
	if got, ok := m.Source("display-0"); !ok || got != core.MediaHandle(second) {
		t.Fatal("Source is not the replacement")
	}
	m.StopRelay("display-0")
}
