// Package stream provides the in-process change-stream broker that stands in
// for a realtime record store subscription: mutations on a collection are
// published as events and fanned out to live subscribers.
package stream

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Broker fans events of type T out to subscribers. Each subscriber receives
// events in arrival order through its own buffered channel; a subscriber that
// cannot keep up has events dropped with a warning rather than blocking the
// publisher.
type Broker[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber[T]
	buffer int
	closed bool
}

type subscriber[T any] struct {
	ch   chan T
	done chan struct{}
}

// Subscription is the handle returned by Subscribe; Unsubscribe is idempotent.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Unsubscribe detaches the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// NewBroker creates a broker whose subscribers buffer up to size events.
func NewBroker[T any](size int) *Broker[T] {
	if size <= 0 {
		size = 64
	}
	return &Broker[T]{
		subs:   make(map[int]*subscriber[T]),
		buffer: size,
	}
}

// Subscribe registers handler for every published event. The handler runs on
// a dedicated goroutine, one event at a time, until Unsubscribe.
func (b *Broker[T]) Subscribe(handler func(T)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return &Subscription{cancel: func() {}}
	}

	id := b.nextID
	b.nextID++

	sub := &subscriber[T]{
		ch:   make(chan T, b.buffer),
		done: make(chan struct{}),
	}
	b.subs[id] = sub

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case ev := <-sub.ch:
				handler(ev)
			}
		}
	}()

	return &Subscription{cancel: func() {
		b.mu.Lock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.done)
		}
		b.mu.Unlock()
	}}
}

// Publish delivers ev to every current subscriber.
func (b *Broker[T]) Publish(ev T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			logrus.Warn("stream: dropping event for slow subscriber")
		}
	}
}

// Close detaches every subscriber and rejects future subscriptions.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.done)
	}
}
