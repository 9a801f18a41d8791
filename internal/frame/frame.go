// Package frame tracks when a fixed run of samples is ready to display.
package frame

import (
	"sync/atomic"

	"github.com/olivier-w/cliscope/internal/ring"
)

// Buffer stages one display frame of samples in a ring buffer and counts
// how many have been written since the last drain.
//
// Push is called by a single producer, Drain and Discard by a single consumer.
// Discard must not run concurrently with Push.
type Buffer struct {
	ring  *ring.RingBuffer[float64]
	size  int
	count atomic.Int64
}

// New creates a frame buffer of size samples.
func New(size int) (*Buffer, error) {
	rb, err := ring.New[float64](size)
	if err != nil {
		return nil, err
	}
	return &Buffer{ring: rb, size: size}, nil
}

// Size returns the number of samples in a full frame.
func (b *Buffer) Size() int { return b.size }

// Count returns how many samples have been staged since the last drain.
func (b *Buffer) Count() int { return int(b.count.Load()) }

// Full reports whether a complete frame is waiting to be drained.
func (b *Buffer) Full() bool { return b.Count() >= b.size }

// Push stages v and reports whether the frame is now full.
// Samples pushed into a full frame are dropped.
func (b *Buffer) Push(v float64) bool {
	if b.Full() {
		return true
	}
	b.ring.Write(v)
	return b.count.Add(1) >= int64(b.size)
}

// Drain returns the full frame in write order, or nil if the frame is not full yet.
func (b *Buffer) Drain() []float64 {
	if !b.Full() {
		return nil
	}
	out := make([]float64, b.size)
	for i := range out {
		out[i] = b.ring.Get()
	}
	b.count.Store(0)
	return out
}

// Discard drops a partial frame so the next Push starts a fresh one.
func (b *Buffer) Discard() {
	for range b.Count() {
		b.ring.Get()
	}
	b.count.Store(0)
}

// Close releases the underlying ring.
func (b *Buffer) Close() {
	b.ring.Close()
}
