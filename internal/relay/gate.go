package relay

import (
	"sync"
	"time"
)

// maxSeenIDs bounds the duplicate-suppression set. Insertion order is kept
// so the oldest-admitted id is evicted first.
const maxSeenIDs = 100

// Decision is the outcome of admitting an inbound event.
type Decision struct {
	// Proceed is true when the event should be processed.
	Proceed bool
	// Text is the original, uncleaned message text. Set only on Proceed.
	Text string
	// Reason is the rejection tag. Set only when Proceed is false.
	Reason Status
}

// Gate is the admission filter for inbound events. It owns the
// duplicate-suppression set and the server epoch, and serializes access so
// concurrent webhook handlers keep the at-most-once-per-id guarantee.
type Gate struct {
	target string
	epoch  time.Time

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewGate creates a Gate for the given target recipient. The epoch is
// captured now; events timestamped before it are rejected as stale.
func NewGate(target string) *Gate {
	return &Gate{
		target: target,
		epoch:  time.Now(),
		seen:   make(map[string]struct{}),
	}
}

// Epoch returns the timestamp captured at gate construction.
func (g *Gate) Epoch() time.Time {
	return g.epoch
}

// Admit evaluates the admission rules in order, first match wins:
// wrong sender, self echo, stale timestamp, no text, duplicate id.
// Admission records the message id, so a second call with the same id
// yields a duplicate rejection.
func (g *Gate) Admit(ev InboundEvent) Decision {
	if ev.Sender != g.target {
		return Decision{Reason: StatusIgnored}
	}
	if ev.FromMe {
		return Decision{Reason: StatusIgnoredSelf}
	}
	if !ev.Timestamp.IsZero() && ev.Timestamp.Before(g.epoch) {
		return Decision{Reason: StatusIgnoredOld}
	}
	if ev.Text == "" {
		return Decision{Reason: StatusIgnoredNoText}
	}

	if ev.MessageID != "" {
		g.mu.Lock()
		if _, ok := g.seen[ev.MessageID]; ok {
			g.mu.Unlock()
			return Decision{Reason: StatusIgnoredDuplicate}
		}
		g.record(ev.MessageID)
		g.mu.Unlock()
	}

	return Decision{Proceed: true, Text: ev.Text}
}

// record inserts an id, evicting the oldest-inserted one past capacity.
// Caller holds g.mu.
func (g *Gate) record(id string) {
	g.seen[id] = struct{}{}
	g.order = append(g.order, id)
	if len(g.order) > maxSeenIDs {
		oldest := g.order[0]
		g.order = g.order[1:]
		delete(g.seen, oldest)
	}
}

// SeenCount returns the number of ids currently tracked.
func (g *Gate) SeenCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
