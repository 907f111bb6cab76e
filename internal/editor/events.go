package editor

import (
	"sync"

	"github.com/dusk-indust/chartaxis/internal/zone"
)

// EventKind names a session event.
type EventKind string

const (
	EventChanged   EventKind = "changed"   // a drop was written back to the store
	EventRejected  EventKind = "rejected"  // a drop was refused by the target zone
	EventRebuilt   EventKind = "rebuilt"   // zones were rebuilt from the store
	EventAbandoned EventKind = "abandoned" // a rebuild cancelled a drag in progress
	EventClosed    EventKind = "closed"    // the session ended
	EventFailed    EventKind = "failed"    // a write-back failed
)

// Event is one notification about a session.
type Event struct {
	Kind      EventKind       `json:"kind"`
	SessionID string          `json:"sessionId"`
	ChartID   string          `json:"chartId"`
	Revision  int64           `json:"revision,omitempty"`
	Zones     []zone.Zone     `json:"zones,omitempty"`
	Error     *zone.ZoneError `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// subscriberBuffer is the capacity of each subscriber channel. Events past a
// full buffer are dropped for that subscriber.
const subscriberBuffer = 64

// Bus fans events out to subscribers through buffered channels. Emit never
// blocks.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]subscriber
	nextID int
}

type subscriber struct {
	sessionID string
	ch        chan Event
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscriber)}
}

// Subscribe returns a channel of events for sessionID, or for every session
// when sessionID is empty, and a cancel func that closes the channel.
func (b *Bus) Subscribe(sessionID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = subscriber{sessionID: sessionID, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(s.ch)
			}
		})
	}
}

// Emit delivers ev to every matching subscriber without blocking.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if s.sessionID != "" && s.sessionID != ev.SessionID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Close closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, s := range b.subs {
		close(s.ch)
		delete(b.subs, id)
	}
}
