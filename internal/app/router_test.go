package app

import (
	"testing"

	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/protocol"
	"github.com/pion/webrtc/v4"
)

type routed struct {
	kind string
	room domain.RoomID
	from domain.Identity
}

type recordingHandler struct {
	calls       []routed
	acceptOffer bool
}

func (h *recordingHandler) sessionRequested(from domain.Identity, room domain.RoomID) {
	h.calls = append(h.calls, routed{kind: "request", room: room, from: from})
}

func (h *recordingHandler) offerReceived(s *Session, _ webrtc.SessionDescription) bool {
	h.calls = append(h.calls, routed{kind: "offer", room: s.room})
	return h.acceptOffer
}

func (h *recordingHandler) answerReceived(s *Session, _ webrtc.SessionDescription) {
	h.calls = append(h.calls, routed{kind: "answer", room: s.room})
}

func (h *recordingHandler) candidateReceived(s *Session, _ webrtc.ICECandidateInit) {
	h.calls = append(h.calls, routed{kind: "candidate", room: s.room})
}

func (h *recordingHandler) stopReceived(s *Session, _ string) {
	h.calls = append(h.calls, routed{kind: "stop", room: s.room})
}

func (h *recordingHandler) peerDisconnected(peer domain.Identity) {
	h.calls = append(h.calls, routed{kind: "disconnected", from: peer})
}

func (h *recordingHandler) errorReceived(s *Session, _ string) {
	h.calls = append(h.calls, routed{kind: "error", room: s.room})
}

func sdpWithUfrag(ufrag string) string {
	return "v=0\r\n" +
		"o=- 4215775240449105457 2 IN IP4 127.0.0.1\r\n" +
		"s=-\r\n" +
		"t=0 0\r\n" +
		"a=ice-ufrag:" + ufrag + "\r\n" +
		"a=ice-pwd:0123456789abcdef0123456789\r\n"
}

func newTestRouter(t *testing.T) (*Router, *Registry, *recordingHandler) {
	t.Helper()
	reg, _ := newTestRegistry(t)
	h := &recordingHandler{acceptOffer: true}
	r, err := NewRouter("bob", reg, h, 16)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r, reg, h
}

func mustOffer(t *testing.T, from, to domain.Identity, room domain.RoomID, ufrag string) protocol.Message {
	t.Helper()
	msg, err := protocol.Offer(from, to, room, sdpWithUfrag(ufrag))
	if err != nil {
		t.Fatalf("offer: %v", err)
	}
	return msg
}

func mustError(t *testing.T, room domain.RoomID) protocol.Message {
	t.Helper()
	msg, err := protocol.Error("bob", room, "unknown target alice")
	if err != nil {
		t.Fatalf("error message: %v", err)
	}
	return msg
}

func TestIceUfrag(t *testing.T) {
	if got := iceUfrag(sdpWithUfrag("Xy12")); got != "Xy12" {
		t.Fatalf("ufrag = %q", got)
	}
	if got := iceUfrag("garbage"); got != "" {
		t.Fatalf("ufrag of garbage = %q", got)
	}
}

func TestRouter_OfferDedupByUfrag(t *testing.T) {
	r, reg, h := newTestRouter(t)
	reg.Acquire(domain.Pair{Local: "bob", Remote: "alice"}, domain.RoleAnswerer, "room-1")

	r.Route(mustOffer(t, "alice", "bob", "room-1", "u1"))
	r.Route(mustOffer(t, "alice", "bob", "room-1", "u1"))
	// A restart offer carries new credentials.
	r.Route(mustOffer(t, "alice", "bob", "room-1", "u2"))

	if len(h.calls) != 2 {
		t.Fatalf("offers delivered = %d, want 2: %+v", len(h.calls), h.calls)
	}
}

func TestRouter_RejectedOfferIsNotRemembered(t *testing.T) {
	r, reg, h := newTestRouter(t)
	reg.Acquire(domain.Pair{Local: "bob", Remote: "alice"}, domain.RoleAnswerer, "room-1")
	h.acceptOffer = false

	r.Route(mustOffer(t, "alice", "bob", "room-1", "u1"))
	h.acceptOffer = true
	r.Route(mustOffer(t, "alice", "bob", "room-1", "u1"))
	r.Route(mustOffer(t, "alice", "bob", "room-1", "u1"))

	if len(h.calls) != 2 {
		t.Fatalf("offers delivered = %d, want 2", len(h.calls))
	}
}

func TestRouter_Drops(t *testing.T) {
	r, reg, h := newTestRouter(t)
	reg.Acquire(domain.Pair{Local: "bob", Remote: "alice"}, domain.RoleAnswerer, "room-1")

	cand, err := protocol.Candidate("alice", "bob", "room-unknown", webrtc.ICECandidateInit{Candidate: "c"})
	if err != nil {
		t.Fatal(err)
	}
	spoofed, err := protocol.Candidate("mallory", "bob", "room-1", webrtc.ICECandidateInit{Candidate: "c"})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		msg  protocol.Message
	}{
		{"unknown room", cand},
		{"sender is not the peer", spoofed},
		{"addressed to someone else", mustOffer(t, "alice", "carol", "room-1", "u1")},
		{"self request", protocol.SessionRequest("bob", "bob", "room-2")},
		{"request without room", protocol.SessionRequest("alice", "bob", "")},
		{"duplicate request", protocol.SessionRequest("alice", "bob", "room-1")},
		{"register is not routable", protocol.Register("alice")},
		{"error without room", mustError(t, "")},
		{"error for unknown room", mustError(t, "room-unknown")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h.calls = nil
			r.Route(tc.msg)
			if len(h.calls) != 0 {
				t.Fatalf("delivered %+v", h.calls)
			}
		})
	}
}

func TestRouter_Dispatch(t *testing.T) {
	r, reg, h := newTestRouter(t)
	reg.Acquire(domain.Pair{Local: "bob", Remote: "alice"}, domain.RoleAnswerer, "room-1")

	answer, _ := protocol.Answer("alice", "bob", "room-1", sdpWithUfrag("a"))
	cand, _ := protocol.Candidate("alice", "bob", "", webrtc.ICECandidateInit{Candidate: "c"})
	stop, _ := protocol.Stopped("alice", "bob", "room-1", "done")
	gone, _ := protocol.PeerDisconnected("alice")
	rejected := mustError(t, "room-1")

	r.Route(protocol.SessionRequest("carol", "bob", "room-9"))
	r.Route(answer)
	// No room id: resolved through the pair.
	r.Route(cand)
	r.Route(stop)
	r.Route(gone)
	r.Route(rejected)

	want := []routed{
		{kind: "request", room: "room-9", from: "carol"},
		{kind: "answer", room: "room-1"},
		{kind: "candidate", room: "room-1"},
		{kind: "stop", room: "room-1"},
		{kind: "disconnected", from: "alice"},
		{kind: "error", room: "room-1"},
	}
	if len(h.calls) != len(want) {
		t.Fatalf("calls = %+v", h.calls)
	}
	for i := range want {
		if h.calls[i] != want[i] {
			t.Fatalf("call[%d] = %+v, want %+v", i, h.calls[i], want[i])
		}
	}
}
