package messaging

import (
	"context"
	"log/slog"
	"sync"

	"choices/contexts/polling/vote-engine/ports"
)

// Bus is the event-bus adapter used by the audit relay. The current
// implementation is in-process publish/subscribe while runtime wiring is
// finalized for external brokers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan ports.EventEnvelope
	logger      *slog.Logger
}

func NewBus(_ []string, logger *slog.Logger) (*Bus, error) {
	return &Bus{
		subscribers: make(map[string][]chan ports.EventEnvelope),
		logger:      logger,
	}, nil
}

func (b *Bus) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	b.mu.RLock()
	subs := append([]chan ports.EventEnvelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			if b.logger != nil {
				b.logger.Warn("dropping event for slow subscriber",
					"event", "bus_publish_drop",
					"module", "platform/messaging",
					"topic", topic,
					"event_id", event.EventID,
				)
			}
		}
	}
	return nil
}

// Subscribe registers a buffered channel for a topic and returns it.
func (b *Bus) Subscribe(topic string, buffer int) <-chan ports.EventEnvelope {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan ports.EventEnvelope, buffer)
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()
	return ch
}
