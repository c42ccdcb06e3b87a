// Package feed notifies live queries that a collection has changed.
//
// The hub carries no data: a notification only says "collection X changed".
// Subscribers re-read the full collection, so notifications coalesce and a
// slow subscriber never blocks a writer.
package feed

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/fundkeeper/internal/storage"
)

// SubscriberID identifies one registration with the hub.
type SubscriberID uint64

type hubMetrics struct {
	subscribers   *prometheus.GaugeVec
	notifications *prometheus.CounterVec
	coalesced     *prometheus.CounterVec
}

// Hub is a per-collection registry of change subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[storage.Collection]map[SubscriberID]chan struct{}
	lastID      SubscriberID
	closed      bool
	metrics     *hubMetrics
	logger      *slog.Logger
}

// NewHub creates a hub. promRegistry may be nil to disable metrics.
func NewHub(promRegistry prometheus.Registerer, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		subscribers: make(map[storage.Collection]map[SubscriberID]chan struct{}),
		logger:      logger,
	}
	if promRegistry != nil {
		h.initMetrics(promRegistry)
	}
	return h
}

func (h *Hub) initMetrics(promRegistry prometheus.Registerer) {
	h.metrics = &hubMetrics{
		subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fundkeeper_feed_subscribers",
			Help: "number of live queries per collection",
		}, []string{"collection"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundkeeper_feed_notifications_total",
			Help: "collection change notifications published",
		}, []string{"collection"}),
		coalesced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundkeeper_feed_coalesced_total",
			Help: "notifications folded into one already pending",
		}, []string{"collection"}),
	}
	promRegistry.MustRegister(
		h.metrics.subscribers,
		h.metrics.notifications,
		h.metrics.coalesced,
	)
}

// Subscribe registers interest in changes to a collection. The returned
// channel has room for one pending notification and is closed by
// Unsubscribe or Close.
func (h *Hub) Subscribe(c storage.Collection) (SubscriberID, <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	if h.closed {
		close(ch)
		return 0, ch
	}

	h.lastID++
	id := h.lastID
	if _, ok := h.subscribers[c]; !ok {
		h.subscribers[c] = make(map[SubscriberID]chan struct{})
	}
	h.subscribers[c][id] = ch
	if h.metrics != nil {
		h.metrics.subscribers.WithLabelValues(string(c)).Inc()
	}
	return id, ch
}

// Unsubscribe removes a registration and closes its channel.
// Unknown ids are ignored, so it is safe to call more than once.
func (h *Hub) Unsubscribe(c storage.Collection, id SubscriberID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[c]
	if !ok {
		return
	}
	ch, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(h.subscribers, c)
	}
	close(ch)
	if h.metrics != nil {
		h.metrics.subscribers.WithLabelValues(string(c)).Dec()
	}
}

// Notify tells every subscriber of c that the collection changed.
// It never blocks: a subscriber that already has a pending notification
// keeps just the one.
func (h *Hub) Notify(c storage.Collection) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers[c] {
		select {
		case ch <- struct{}{}:
		default:
			if h.metrics != nil {
				h.metrics.coalesced.WithLabelValues(string(c)).Inc()
			}
		}
	}
	if h.metrics != nil {
		h.metrics.notifications.WithLabelValues(string(c)).Inc()
	}
	h.logger.Debug("collection changed", "collection", c, "subscribers", len(h.subscribers[c]))
}

// Subscribers returns the number of registrations for c.
func (h *Hub) Subscribers(c storage.Collection) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[c])
}

// Close closes every subscriber channel. Later Subscribe calls receive an
// already closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for c, subs := range h.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(h.subscribers, c)
	}
	if h.metrics != nil {
		h.metrics.subscribers.Reset()
	}
}
