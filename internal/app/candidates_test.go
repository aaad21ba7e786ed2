package app

import (
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func cand(s string) webrtc.ICECandidateInit { return webrtc.ICECandidateInit{Candidate: s} }

func TestCandidateQueue_DrainKeepsArrivalOrder(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	q := newCandidateQueue(time.Minute, 10, clk.now)
	for _, c := range []string{"c1", "c2", "c3"} {
		if n := q.push(cand(c)); n != 0 {
			t.Fatalf("push %s evicted %d", c, n)
		}
	}
	if q.len() != 3 {
		t.Fatalf("len = %d, want 3", q.len())
	}

	got := q.drain()
	if len(got) != 3 || got[0].Candidate != "c1" || got[1].Candidate != "c2" || got[2].Candidate != "c3" {
		t.Fatalf("drain = %v", got)
	}
	if q.len() != 0 {
		t.Fatalf("queue not empty after drain: %d", q.len())
	}
	if again := q.drain(); len(again) != 0 {
		t.Fatalf("second drain = %v, want empty", again)
	}
}

func TestCandidateQueue_ExpiresOldEntries(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	q := newCandidateQueue(10*time.Second, 10, clk.now)
	q.push(cand("old"))
	clk.advance(8 * time.Second)
	q.push(cand("fresh"))
	clk.advance(5 * time.Second)

	got := q.drain()
	if len(got) != 1 || got[0].Candidate != "fresh" {
		t.Fatalf("drain = %v, want only fresh", got)
	}
}

func TestCandidateQueue_PushEvictsExpiredFirst(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	q := newCandidateQueue(time.Second, 10, clk.now)
	q.push(cand("a"))
	q.push(cand("b"))
	clk.advance(2 * time.Second)
	if n := q.push(cand("c")); n != 2 {
		t.Fatalf("evicted = %d, want 2", n)
	}
	if q.len() != 1 {
		t.Fatalf("len = %d, want 1", q.len())
	}
}

func TestCandidateQueue_LimitDropsOldest(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	q := newCandidateQueue(time.Minute, 2, clk.now)
	q.push(cand("a"))
	q.push(cand("b"))
	if n := q.push(cand("c")); n != 1 {
		t.Fatalf("evicted = %d, want 1", n)
	}
	got := q.drain()
	if len(got) != 2 || got[0].Candidate != "b" || got[1].Candidate != "c" {
		t.Fatalf("drain = %v, want [b c]", got)
	}
}

func TestCandidateQueue_Clear(t *testing.T) {
	q := newCandidateQueue(time.Minute, 4, nil)
	q.push(cand("a"))
	q.clear()
	if q.len() != 0 {
		t.Fatalf("len = %d after clear", q.len())
	}
}
