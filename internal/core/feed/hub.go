package feed

import (
	"context"
	"sync"
	"time"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// Hub is an in-process Feed. Publish delivers synchronously to every
// handler subscribed to the topic.
type Hub struct {
	mu       sync.RWMutex
	handlers map[string]map[int]Handler
	nextID   int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[string]map[int]Handler)}
}

func (h *Hub) Subscribe(ctx context.Context, topic string, onEvent Handler) (Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.handlers[topic] == nil {
		h.handlers[topic] = make(map[int]Handler)
	}
	h.handlers[topic][id] = onEvent

	var once sync.Once
	return SubscriptionFunc(func() error {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.handlers[topic], id)
			if len(h.handlers[topic]) == 0 {
				delete(h.handlers, topic)
			}
		})
		return nil
	}), nil
}

// Publish notifies the topic's subscribers.
func (h *Hub) Publish(topic, op string) {
	n := model.Notification{
		Source:     "hub",
		Topic:      topic,
		Op:         op,
		ReceivedAt: time.Now(),
	}

	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.handlers[topic]))
	for _, fn := range h.handlers[topic] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(n)
	}
}
