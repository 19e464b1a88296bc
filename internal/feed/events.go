package feed

import "sync"

type EventKind uint8

const (
	// Stale means the data behind a query changed and cached results must be refetched.
	Stale EventKind = iota
	// Updated means a refetch of a query completed with fresh data.
	Updated
)

func (k EventKind) String() string {
	switch k {
	case Stale:
		return "stale"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind EventKind
	Key  string
	// Version of the entry once the fetch completed. Zero for Stale events.
	Version uint64
}

// Bus delivers events synchronously to every subscriber. Handlers run on the
// publisher's goroutine and must not block.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers handler and returns a function that removes it.
func (b *Bus) Subscribe(handler func(Event)) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish hands e to every subscriber before returning.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Notify subscribes a channel with room for a single pending notification.
// Events of the given kind and key arriving while one is pending are merged
// into it.
func (b *Bus) Notify(kind EventKind, key string) (<-chan Event, func()) {
	ch := make(chan Event, 1)
	cancel := b.Subscribe(func(e Event) {
		if e.Kind != kind || e.Key != key {
			return
		}
		select {
		case ch <- e:
		default:
		}
	})
	return ch, cancel
}
