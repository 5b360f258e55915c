package library

import (
	"github.com/sasha-s/go-deadlock"
)

type EventKind string

const (
	EventDecoded EventKind = "decoded"
	EventCached  EventKind = "cached"
	EventFailed  EventKind = "failed"
)

type Event struct {
	Kind EventKind
	Path string
	Err  error
}

type Topic[T any] struct {
	subscribers map[chan T]struct{}
	mutex       deadlock.Mutex
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{
		subscribers: make(map[chan T]struct{}),
	}
}

// Publish blocks until every subscriber has room for value.
func (t *Topic[T]) Publish(value T) {
	t.mutex.Lock()
	for subscriber := range t.subscribers {
		subscriber <- value
	}
	t.mutex.Unlock()
}

type Subscriber[T any] struct {
	channel chan T
	topic   *Topic[T]
}

func (t *Topic[T]) Subscribe() *Subscriber[T] {
	channel := make(chan T, 16)
	t.mutex.Lock()
	t.subscribers[channel] = struct{}{}
	t.mutex.Unlock()

	return &Subscriber[T]{channel, t}
}

func (s *Subscriber[T]) Recv() <-chan T {
	return s.channel
}

// Done unsubscribes and closes the channel returned by Recv. The subscriber
// must keep receiving until Done returns.
func (s *Subscriber[T]) Done() {
	topic := s.topic
	topic.mutex.Lock()
	delete(topic.subscribers, s.channel)
	close(s.channel)
	topic.mutex.Unlock()
}
