// Package realtime fans committed document changes out to subscribers.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const DefaultBuffer = 64

type subscriber struct {
	ch     chan storage.Change
	closed bool
}

// Hub is a storage.ChangeSink. Publish never blocks: a subscriber whose
// buffer is full is dropped and its channel closed, which tells it to
// subscribe again and reload.
type Hub struct {
	log    *slog.Logger
	buffer int

	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func NewHub(log *slog.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		log:    log,
		buffer: buffer,
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers for changes of one collection. cancel may be called
// more than once.
func (h *Hub) Subscribe(collection string) (<-chan storage.Change, func()) {
	s := &subscriber{ch: make(chan storage.Change, h.buffer)}

	h.mu.Lock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[*subscriber]struct{})
	}
	h.subs[collection][s] = struct{}{}
	h.mu.Unlock()

	return s.ch, func() { h.drop(collection, s) }
}

func (h *Hub) Publish(c storage.Change) {
	var slow []*subscriber

	h.mu.RLock()
	for s := range h.subs[c.Collection] {
		select {
		case s.ch <- c:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.log.Warn("dropping slow subscriber", slog.String("collection", c.Collection))
		h.drop(c.Collection, s)
	}
}

// Refresh asks every subscriber of collection to reload it.
func (h *Hub) Refresh(collection string) {
	h.Publish(storage.Change{Kind: storage.ChangeRefresh, Collection: collection})
}

// Subscribers returns the number of live subscriptions on collection.
func (h *Hub) Subscribers(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[collection])
}

func (h *Hub) drop(collection string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	delete(h.subs[collection], s)
	if len(h.subs[collection]) == 0 {
		delete(h.subs, collection)
	}
	close(s.ch)
}
