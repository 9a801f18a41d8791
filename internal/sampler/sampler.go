// Package sampler drives a sample source from a periodic tick.
package sampler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/olivier-w/cliscope/internal/adc"
	"github.com/olivier-w/cliscope/internal/frame"
)

// Sampler reads one sample per tick into a frame buffer until the frame is full.
type Sampler struct {
	src      adc.Source
	buf      *frame.Buffer
	interval time.Duration
	ticks    atomic.Int64

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// New creates a stopped sampler.
func New(src adc.Source, buf *frame.Buffer, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Sampler{src: src, buf: buf, interval: interval}
}

// Start begins sampling. It does nothing if the sampler is already running.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

func (s *Sampler) startLocked() {
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	log.Printf("sampler: started, interval %v, frame %d", s.interval, s.buf.Size())
}

func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick()
		}
	}
}

func (s *Sampler) tick() {
	s.ticks.Add(1)
	if s.buf.Full() {
		return
	}
	s.buf.Push(s.src.Sample())
}

// Stop halts sampling and waits for the tick goroutine to exit.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Sampler) stopLocked() bool {
	if s.cancel == nil {
		return false
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	log.Printf("sampler: stopped after %d ticks", s.ticks.Load())
	return true
}

// Reset drops the partial frame and restarts the time base.
// A running sampler keeps running.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasRunning := s.stopLocked()
	s.buf.Discard()
	s.ticks.Store(0)
	if wasRunning {
		s.startLocked()
	}
}

// Running reports whether the tick goroutine is active.
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Ticks returns the number of ticks since the last reset.
func (s *Sampler) Ticks() int64 { return s.ticks.Load() }

// Elapsed returns the measuring time since the last reset.
func (s *Sampler) Elapsed() time.Duration {
	return time.Duration(s.ticks.Load()) * s.interval
}

// Interval returns the tick period.
func (s *Sampler) Interval() time.Duration { return s.interval }
