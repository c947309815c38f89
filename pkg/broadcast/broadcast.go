package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on. The channel is
	// closed when the subscription ends.
	Receive(ctx context.Context) <-chan Message[T]

	// Close ends the subscription. It is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber whose lifetime is bound to ctx.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers msg to every active subscriber without blocking.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close ends all subscriptions. Later Subscribe calls return closed
	// subscribers and Broadcast returns ErrClosed.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	done   chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	closed bool
	detach func(*subscriber[T])
}

func newSubscriber[T any](bufferSize int, detach func(*subscriber[T])) *subscriber[T] {
	return &subscriber[T]{
		ch:     make(chan Message[T], bufferSize),
		done:   make(chan struct{}),
		detach: detach,
	}
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	if s.detach != nil {
		s.detach(s)
	}
	s.shutdown()
	return nil
}

// shutdown closes the channels without touching the owning broadcaster.
func (s *subscriber[T]) shutdown() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		close(s.done)
		s.mu.Unlock()
	})
}

func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
