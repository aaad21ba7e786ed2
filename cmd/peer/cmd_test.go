package main

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/ScreenShare/internal/adapters/input"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/dkeye/ScreenShare/internal/testutil"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line    string
		want    input.Event
		wantErr bool
	}{
		{line: "move 10 20", want: input.PointerMove(10, 20)},
		{line: "down 1 2", want: input.PointerButton(1, 2, true)},
		{line: "up 1 2", want: input.PointerButton(1, 2, false)},
		{line: "key Enter", want: input.Key("Enter", true)},
		{line: "keyup a", want: input.Key("a", false)},
		{line: "move 1", wantErr: true},
		{line: "move a b", wantErr: true},
		{line: "key", wantErr: true},
		{line: "jump", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := parseCommand(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("want error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Type != tc.want.Type || got.X != tc.want.X || got.Y != tc.want.Y || got.Down != tc.want.Down || got.Key != tc.want.Key {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPeersURL(t *testing.T) {
	cases := map[string]string{
		"ws://127.0.0.1:8080/api/ws/signal":       "http://127.0.0.1:8080/api/peers",
		"wss://share.example.com/api/ws/signal?x": "https://share.example.com/api/peers",
	}
	for in, want := range cases {
		got, err := peersURL(in)
		if err != nil || got != want {
			t.Errorf("peersURL(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := peersURL("http://x/api/ws/signal"); err == nil {
		t.Error("http scheme accepted")
	}
}

type sent struct {
	room domain.RoomID
	ev   input.Event
}

type recordingSender struct {
	got chan sent
}

func (r *recordingSender) SendInput(_ context.Context, room domain.RoomID, ev input.Event) error {
	r.got <- sent{room: room, ev: ev}
	return nil
}

func TestConsole_SendsToConnectedSession(t *testing.T) {
	rs := &recordingSender{got: make(chan sent, 4)}
	connected := make(chan core.SessionInfo, 1)
	connected <- core.SessionInfo{RoomID: "room-1"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Give the connected event a head start over stdin.
	in := &slowReader{r: strings.NewReader("move 3 4\nbogus\nkey a\n"), delay: 50 * time.Millisecond}
	go newConsole(rs, in).run(ctx, connected)

	first := testutil.RequireReceive(t, rs.got, testutil.DefaultTimeout, "move")
	if first.room != "room-1" || first.ev.Type != input.EventPointerMove {
		t.Fatalf("first = %+v", first)
	}
	second := testutil.RequireReceive(t, rs.got, testutil.DefaultTimeout, "key")
	if second.ev.Type != input.EventKey || second.ev.Key != "a" {
		t.Fatalf("second = %+v", second)
	}
}

type slowReader struct {
	r     *strings.Reader
	delay time.Duration
	once  sync.Once
}

func (s *slowReader) Read(p []byte) (int, error) {
	s.once.Do(func() { time.Sleep(s.delay) })
	return s.r.Read(p)
}
