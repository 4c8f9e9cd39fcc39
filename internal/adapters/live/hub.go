// Package live fans feed events out to connected viewers over websocket and
// server-sent events. The hub keeps no history: a viewer only receives
// events broadcast while it is subscribed.
package live

import (
	"encoding/json"
	"sync"

	"chirp/internal/adapters/metrics"
	livePort "chirp/internal/ports/live"
	postPort "chirp/internal/ports/post"

	"go.uber.org/zap"
)

const DefaultBuffer = 16

// Event is the frame sent to viewers.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// Hub is the process-wide registry of connected viewers.
type Hub struct {
	mu      sync.RWMutex
	viewers map[*Subscription]struct{}
	buffer  int
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ livePort.Notifier = (*Hub)(nil)

func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		viewers: make(map[*Subscription]struct{}),
		buffer:  DefaultBuffer,
		logger:  logger,
		metrics: m,
	}
}

func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch}

	h.mu.Lock()
	h.viewers[sub] = struct{}{}
	h.metrics.SetViewers(len(h.viewers))
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes sub and closes its channel. Calling it twice is harmless.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if _, ok := h.viewers[sub]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.viewers, sub)
	close(sub.ch)
	// set under the lock so concurrent changes land in order
	h.metrics.SetViewers(len(h.viewers))
	h.mu.Unlock()
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Broadcast hands the event to every viewer without blocking; a viewer whose
// buffer is full misses it.
func (h *Hub) Broadcast(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Could not encode live event", zap.String("event", name), zap.Error(err))
		return
	}
	ev := Event{Name: name, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for sub := range h.viewers {
		select {
		case sub.ch <- ev:
		default:
			dropped++
			h.metrics.Dropped()
		}
	}
	if dropped > 0 {
		h.logger.Warn("Live event dropped for slow viewers", zap.String("event", name), zap.Int("viewers", dropped))
	}
}

func (h *Hub) NewPost(p *postPort.PostDTO) {
	h.Broadcast(livePort.EventNewPost, p)
}

func (h *Hub) LikeUpdated(like *postPort.LikeDTO) {
	h.Broadcast(livePort.EventLikeUpdate, like)
}
