package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		frame   string
		want    Kind
		wantErr string
	}{
		{name: "register", frame: `{"type":"register","from":"alice"}`, want: KindRegister},
		{name: "offer", frame: `{"type":"offer","from":"a","to":"b","room_id":"r","payload":{"sdp":"v=0"}}`, want: KindOffer},
		{name: "unknown kind", frame: `{"type":"hello"}`, wantErr: "unknown message kind"},
		{name: "missing kind", frame: `{"from":"a"}`, wantErr: "unknown message kind"},
		{name: "not json", frame: `offer`, wantErr: "bad json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Parse([]byte(tc.frame))
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if msg.Kind != tc.want {
				t.Fatalf("kind = %s, want %s", msg.Kind, tc.want)
			}
		})
	}
}

func TestCandidatePayload(t *testing.T) {
	mid := "0"
	line := uint16(0)
	msg, err := Candidate("a", "b", "room", webrtc.ICECandidateInit{
		Candidate:     "candidate:1 1 udp 2130706431 10.0.0.1 5000 typ host",
		SDPMid:        &mid,
		SDPMLineIndex: &line,
	})
	if err != nil {
		t.Fatal(err)
	}
	var p CandidatePayload
	if err := msg.Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Candidate.SDPMid == nil || *p.Candidate.SDPMid != "0" {
		t.Fatalf("sdpMid lost: %+v", p.Candidate)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	var p DescriptionPayload
	err := SessionRequest("a", "b", "r").Decode(&p)
	if err == nil || !strings.Contains(err.Error(), "empty payload") {
		t.Fatalf("err = %v", err)
	}
	bad := Message{Kind: KindOffer, Payload: []byte(`[1]`)}
	if err := bad.Decode(&p); err == nil {
		t.Fatal("decoded array into description")
	} else if errors.Unwrap(err) == nil {
		t.Fatal("json error not wrapped")
	}
}
