package app

import (
	"time"

	"github.com/pion/webrtc/v4"
)

type pendingCandidate struct {
	init webrtc.ICECandidateInit
	at   time.Time
}

// candidateQueue holds remote candidates that arrived before the remote
// description. Entries older than ttl are evicted and at most limit are kept,
// dropping the oldest first. Arrival order is preserved.
type candidateQueue struct {
	items []pendingCandidate
	ttl   time.Duration
	limit int
	now   func() time.Time
}

func newCandidateQueue(ttl time.Duration, limit int, now func() time.Time) *candidateQueue {
	if now == nil {
		now = time.Now
	}
	return &candidateQueue{ttl: ttl, limit: limit, now: now}
}

// push appends c and returns how many entries were evicted to make room.
func (q *candidateQueue) push(c webrtc.ICECandidateInit) int {
	evicted := q.evictExpired()
	q.items = append(q.items, pendingCandidate{init: c, at: q.now()})
	if q.limit > 0 && len(q.items) > q.limit {
		over := len(q.items) - q.limit
		q.items = append(q.items[:0], q.items[over:]...)
		evicted += over
	}
	return evicted
}

// drain returns the live candidates in arrival order and empties the queue.
func (q *candidateQueue) drain() []webrtc.ICECandidateInit {
	q.evictExpired()
	out := make([]webrtc.ICECandidateInit, len(q.items))
	for i, p := range q.items {
		out[i] = p.init
	}
	q.items = nil
	return out
}

func (q *candidateQueue) evictExpired() int {
	if q.ttl <= 0 || len(q.items) == 0 {
		return 0
	}
	cutoff := q.now().Add(-q.ttl)
	i := 0
	for i < len(q.items) && q.items[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		q.items = append(q.items[:0], q.items[i:]...)
	}
	return i
}

func (q *candidateQueue) clear() { q.items = nil }

func (q *candidateQueue) len() int { return len(q.items) }
