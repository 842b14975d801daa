package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Kinds of history change events.
const (
	EventRecordCreated  = "record.created"
	EventRecordDeleted  = "record.deleted"
	EventHistoryCleared = "history.cleared"
)

// HistoryEvent announces a change to the stored history.
type HistoryEvent struct {
	Kind     string    `json:"kind"`
	RecordID int64     `json:"recordId,omitempty"`
	Removed  int64     `json:"removed,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher receives history change events.
type Publisher interface {
	Publish(evt HistoryEvent)
}

// Broker fans history events out to subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]chan HistoryEvent
	nextID int
	log    zerolog.Logger
}

// NewBroker creates an empty Broker.
func NewBroker(log zerolog.Logger) *Broker {
	return &Broker{subs: make(map[int]chan HistoryEvent), log: log}
}

var _ Publisher = (*Broker)(nil)

// Subscribe registers a new subscriber with the given channel buffer. The
// returned cancel func unregisters it and closes the channel; it is safe to
// call more than once.
func (b *Broker) Subscribe(buffer int) (<-chan HistoryEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan HistoryEvent, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers evt to every subscriber with room in its buffer.
func (b *Broker) Publish(evt HistoryEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.log.Warn().Int("subscriber", id).Str("kind", evt.Kind).Msg("dropping history event for slow subscriber")
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
