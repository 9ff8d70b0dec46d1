package services

import (
	"sync"
	"time"
)

// Notice announces a freshly granted badge
type Notice struct {
	UserID   string    `json:"userId"`
	BadgeID  string    `json:"badgeId"`
	Name     string    `json:"name"`
	XP       int       `json:"xp"`
	EarnedAt time.Time `json:"earnedAt"`
}

// Sink receives every published notice, e.g. a realtime push
type Sink interface {
	Deliver(n Notice)
}

type SinkFunc func(n Notice)

func (f SinkFunc) Deliver(n Notice) { f(n) }

// Notifier keeps a bounded queue of undismissed notices per user and fans
// each one out to subscribers.
type Notifier struct {
	mu      sync.Mutex
	size    int
	pending map[string][]Notice
	subs    map[string]map[chan Notice]struct{}
	sinks   []Sink
}

func NewNotifier(size int) *Notifier {
	if size <= 0 {
		size = 16
	}
	return &Notifier{
		size:    size,
		pending: make(map[string][]Notice),
		subs:    make(map[string]map[chan Notice]struct{}),
	}
}

// AddSink registers a sink. Sinks run on the publishing goroutine.
func (n *Notifier) AddSink(s Sink) {
	n.mu.Lock()
	n.sinks = append(n.sinks, s)
	n.mu.Unlock()
}

func (n *Notifier) Publish(notice Notice) {
	n.mu.Lock()
	q := append(n.pending[notice.UserID], notice)
	if len(q) > n.size {
		// drop oldest
		q = q[len(q)-n.size:]
	}
	n.pending[notice.UserID] = q

	for ch := range n.subs[notice.UserID] {
		select {
		case ch <- notice:
		default:
		}
	}
	sinks := append([]Sink(nil), n.sinks...)
	n.mu.Unlock()

	for _, s := range sinks {
		s.Deliver(notice)
	}
}

// Pending returns the user's undismissed notices, oldest first
func (n *Notifier) Pending(userID string) []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.pending[userID]))
	copy(out, n.pending[userID])
	return out
}

// Dismiss removes one notice and reports whether it was queued
func (n *Notifier) Dismiss(userID, badgeID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	q := n.pending[userID]
	for i, notice := range q {
		if notice.BadgeID == badgeID {
			n.pending[userID] = append(q[:i:i], q[i+1:]...)
			if len(n.pending[userID]) == 0 {
				delete(n.pending, userID)
			}
			return true
		}
	}
	return false
}

func (n *Notifier) DismissAll(userID string) {
	n.mu.Lock()
	delete(n.pending, userID)
	n.mu.Unlock()
}

// Subscribe streams future notices for userID until cancel is called.
// Slow subscribers miss notices instead of blocking publishers.
func (n *Notifier) Subscribe(userID string, buffer int) (<-chan Notice, func()) {
	if buffer <= 0 {
		buffer = n.size
	}
	ch := make(chan Notice, buffer)

	n.mu.Lock()
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[chan Notice]struct{})
	}
	n.subs[userID][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[userID], ch)
			if len(n.subs[userID]) == 0 {
				delete(n.subs, userID)
			}
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
