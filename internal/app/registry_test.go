package app

import (
	"testing"
	"time"

	"github.com/dkeye/ScreenShare/internal/domain"
)

type released struct {
	room   domain.RoomID
	final  domain.State
	reason string
	notify bool
}

func newTestRegistry(t *testing.T) (*Registry, *[]released) {
	t.Helper()
	opts := &Options{}
	opts.withDefaults()
	var got []released
	r := NewRegistry(opts, func(s *Session, final domain.State, reason string, notify bool) {
		if err := s.transition(final); err != nil {
			t.Errorf("release transition: %v", err)
		}
		got = append(got, released{room: s.room, final: final, reason: reason, notify: notify})
	})
	return r, &got
}

func TestRegistry_AcquireSupersedesPair(t *testing.T) {
	r, got := newTestRegistry(t)
	pair := domain.Pair{Local: "alice", Remote: "bob"}
	base := time.Unix(1700000000, 0)

	room1 := domain.NewRoomID(pair.Local, pair.Remote, base)
	first := r.Acquire(pair, domain.RoleOfferer, room1)
	_ = first.transition(domain.StateRequesting)

	room2 := domain.NewRoomID(pair.Local, pair.Remote, base.Add(time.Millisecond))
	second := r.Acquire(pair, domain.RoleOfferer, room2)

	if first.State() != domain.StateClosed {
		t.Fatalf("first state = %s, want CLOSED", first.State())
	}
	if len(*got) != 1 || (*got)[0].room != room1 || !(*got)[0].notify {
		t.Fatalf("released = %+v", *got)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
	s, ok := r.ByPair(pair)
	if !ok || s != second {
		t.Fatal("pair does not resolve to the newest session")
	}
	if _, ok := r.Get(room1); ok {
		t.Fatal("superseded room still routable")
	}
}

func TestRegistry_ReleaseAndFail(t *testing.T) {
	r, got := newTestRegistry(t)
	a := r.Acquire(domain.Pair{Local: "alice", Remote: "bob"}, domain.RoleOfferer, "room-a")
	b := r.Acquire(domain.Pair{Local: "alice", Remote: "carol"}, domain.RoleAnswerer, "room-b")
	_ = a.transition(domain.StateRequesting)
	_ = b.transition(domain.StateOfferReceived)

	if !r.Release("room-a", "bye", false) {
		t.Fatal("release of live room reported false")
	}
	if r.Release("room-a", "bye", false) {
		t.Fatal("second release reported true")
	}
	if !r.Fail("room-b", "boom") {
		t.Fatal("fail of live room reported false")
	}

	want := []released{
		{room: "room-a", final: domain.StateClosed, reason: "bye", notify: false},
		{room: "room-b", final: domain.StateFailed, reason: "boom", notify: true},
	}
	if len(*got) != len(want) {
		t.Fatalf("released = %+v", *got)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Fatalf("released[%d] = %+v, want %+v", i, (*got)[i], want[i])
		}
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d, want 0", r.Len())
	}
}

func TestRegistry_ByRemote(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Acquire(domain.Pair{Local: "alice", Remote: "bob"}, domain.RoleOfferer, "r1")
	r.Acquire(domain.Pair{Local: "alice", Remote: "carol"}, domain.RoleOfferer, "r2")

	got := r.ByRemote("bob")
	if len(got) != 1 || got[0].RoomID() != "r1" {
		t.Fatalf("ByRemote(bob) = %v", got)
	}
	if len(r.ByRemote("dave")) != 0 {
		t.Fatal("ByRemote(dave) not empty")
	}
}
