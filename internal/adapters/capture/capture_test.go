package capture

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/pion/rtp"
)

func newTestAdapter(displays int) *Adapter {
	a := New("127.0.0.1:0", DefaultCodec)
	a.displays = func() int { return displays }
	return a
}

func TestAcquireCaptureSource_NoDisplay(t *testing.T) {
	tests := []struct {
		name     string
		displays int
		target   int
	}{
		{"no displays", 0, 0},
		{"negative index", 2, -1},
		{"out of range", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestAdapter(tt.displays).AcquireCaptureSource(context.Background(), core.CaptureTarget{Display: tt.target})
			if !errors.Is(err, domain.ErrNoSourceAvailable) {
				t.Fatalf("err = %v, want ErrNoSourceAvailable", err)
			}
		})
	}
}

func TestAcquireCaptureSource_ReadsRTP(t *testing.T) {
	media, err := newTestAdapter(1).AcquireCaptureSource(context.Background(), core.CaptureTarget{Display: 0})
	if err != nil {
		t.Fatalf("AcquireCaptureSource: %v", err)
	}
	src := media.(*udpSource)
	defer src.Close()

	if media.ID() != "display-0" {
		t.Errorf("ID = %q", media.ID())
	}

	conn, err := net.Dial("udp", src.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("not rtp")); err != nil {
		t.Fatal(err)
	}
	want := &rtp.Packet{Header: rtp.Header{Version: 2, PayloadType: 96, SequenceNumber: 7, SSRC: 42}, Payload: []byte{1, 2, 3}}
	raw, err := want.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Write(raw); err != nil {
		t.Fatal(err)
	}

	got, err := media.ReadRTP()
	if err != nil {
		t.Fatalf("ReadRTP: %v", err)
	}
	if got.SequenceNumber != 7 || got.SSRC != 42 || len(got.Payload) != 3 {
		t.Fatalf("packet = %+v", got.Header)
	}

	_ = src.Close()
	if _, err := media.ReadRTP(); err == nil {
		t.Fatal("ReadRTP after Close returned no error")
	}
}
