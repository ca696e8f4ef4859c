// Package pubsub implements the in-process event bus bridging task mutations
// to live subscription feeds. Topics are keyed per board; delivery is
// best-effort with no persistence or replay, and all subscriptions are lost
// on process restart.
package pubsub

import (
	"context"
	"sync"

	"taskboard-api/domain"
)

// subscriberBuffer bounds each subscriber channel so a stalled consumer
// cannot block publishers; overflowing events are dropped for that consumer.
const subscriberBuffer = 16

// TaskTopic names the per-board topic carrying task change events.
func TaskTopic(boardID string) string {
	return "taskUpdated:" + boardID
}

// Bus fans task events out to per-topic subscribers. Construct one per
// process and pass it by reference; it is safe for concurrent use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	topics map[string]map[int]chan domain.TaskEvent
}

func New() *Bus {
	return &Bus{topics: make(map[string]map[int]chan domain.TaskEvent)}
}

// Publish delivers the event to every current subscriber of the topic. If no
// subscriber is attached the event is dropped.
func (b *Bus) Publish(topic string, ev domain.TaskEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.topics[topic] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe attaches a new subscriber to the topic. The returned channel
// carries only events published after the subscription attached; it is
// closed, and the subscriber detached, when ctx is done.
func (b *Bus) Subscribe(ctx context.Context, topic string) <-chan domain.TaskEvent {
	ch := make(chan domain.TaskEvent, subscriberBuffer)

	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[int]chan domain.TaskEvent)
		b.topics[topic] = subs
	}
	id := b.nextID
	b.nextID++
	subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if subs, ok := b.topics[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.topics, topic)
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Subscribers reports how many subscribers are attached to the topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}
