package ui

import (
	"math"

	"github.com/eapache/queue"
)

// historyLen is how many frame readouts are kept.
const historyLen = 32

// frameStats summarizes one drawn frame.
type frameStats struct {
	Min, Max, Mean float64
}

// PeakToPeak returns the frame's voltage swing.
func (s frameStats) PeakToPeak() float64 { return s.Max - s.Min }

func statsOf(samples []float64) frameStats {
	if len(samples) == 0 {
		return frameStats{}
	}
	s := frameStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range samples {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
		sum += v
	}
	s.Mean = sum / float64(len(samples))
	return s
}

// history is a FIFO of the most recent frame readouts.
type history struct {
	q *queue.Queue
}

func newHistory() *history {
	return &history{q: queue.New()}
}

func (h *history) Add(s frameStats) {
	h.q.Add(s)
	for h.q.Length() > historyLen {
		h.q.Remove()
	}
}

func (h *history) Len() int { return h.q.Length() }

// Latest returns the newest readout.
func (h *history) Latest() (frameStats, bool) {
	if h.Len() == 0 {
		return frameStats{}, false
	}
	return h.q.Get(-1).(frameStats), true
}

// Envelope returns the extremes across all kept readouts.
func (h *history) Envelope() (lo, hi float64) {
	n := h.Len()
	if n == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range n {
		s := h.q.Get(i).(frameStats)
		lo = min(lo, s.Min)
		hi = max(hi, s.Max)
	}
	return lo, hi
}

func (h *history) Clear() {
	h.q = queue.New()
}
