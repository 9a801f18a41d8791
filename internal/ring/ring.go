package ring

import (
	"errors"
	"sync"
)

// ErrInvalidCapacity is returned by New when the requested capacity is not positive.
var ErrInvalidCapacity = errors.New("ring: capacity must be positive")

// Allocator provides and releases the backing storage of a RingBuffer.
type Allocator[T any] interface {
	Alloc(n int) []T
	Free(buf []T)
}

type heapAllocator[T any] struct{}

func (heapAllocator[T]) Alloc(n int) []T { return make([]T, n) }
func (heapAllocator[T]) Free([]T)        {}

// Option configures a RingBuffer at construction.
type Option[T any] func(*RingBuffer[T])

// WithAllocator overrides how storage is obtained and released.
func WithAllocator[T any](a Allocator[T]) Option[T] {
	return func(rb *RingBuffer[T]) {
		if a != nil {
			rb.alloc = a
		}
	}
}

// RingBuffer is a thread-safe fixed-capacity circular buffer.
//
// Writes overwrite the oldest slot once the buffer wraps and reads re-read
// stale slots when they run ahead of writes; neither ever blocks. The buffer
// does not count unread elements, callers that need fullness layer it on top.
type RingBuffer[T any] struct {
	buf   []T
	size  int
	r     int // read position
	w     int // write position
	alloc Allocator[T]
	mu    sync.Mutex
}

// New creates a ring buffer holding exactly capacity elements.
func New[T any](capacity int, opts ...Option[T]) (*RingBuffer[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	rb := &RingBuffer[T]{
		size:  capacity,
		alloc: heapAllocator[T]{},
	}
	for _, opt := range opts {
		opt(rb)
	}
	rb.buf = rb.alloc.Alloc(capacity)
	return rb, nil
}

// Cap returns the fixed capacity.
func (rb *RingBuffer[T]) Cap() int {
	return rb.size
}

// Write stores v at the write position and advances it.
func (rb *RingBuffer[T]) Write(v T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.buf == nil {
		return
	}
	rb.buf[rb.w] = v
	rb.w = (rb.w + 1) % rb.size
}

// Get returns the value at the read position and advances it.
// A slot that was never written yields the zero value.
func (rb *RingBuffer[T]) Get() T {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	var v T
	if rb.buf == nil {
		return v
	}
	v = rb.buf[rb.r]
	rb.r = (rb.r + 1) % rb.size
	return v
}

// Close releases the backing storage. Calling it more than once is a no-op,
// and Write and Get become no-ops afterwards.
func (rb *RingBuffer[T]) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.buf == nil {
		return
	}
	buf := rb.buf
	rb.buf = nil
	rb.r, rb.w = 0, 0
	rb.alloc.Free(buf)
}
