package adc

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"math"
	"os"
	"sync"
	"time"
)

// FileSource replays an audio file as if it were wired to the analog input.
// Each Sample call advances the stream by one tick worth of audio and returns
// the last frame, downmixed to mono and converted like a register reading.
type FileSource struct {
	file *os.File
	dec  pcmDecoder
	vref float64
	gain float64

	frameBytes int
	chunk      []byte
	last       float64
	closed     bool
	mu         sync.Mutex
}

// OpenFile opens path and paces it for a sampler ticking every interval.
func OpenFile(path string, interval time.Duration, vref, gain float64) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	frameBytes := dec.ChannelCount() * 2
	step := int(math.Round(float64(dec.SampleRate()) * interval.Seconds()))
	if step < 1 {
		step = 1
	}

	return &FileSource{
		file:       f,
		dec:        dec,
		vref:       vref,
		gain:       gain,
		frameBytes: frameBytes,
		chunk:      make([]byte, step*frameBytes),
		last:       Convert(1<<15, vref) * gain,
	}, nil
}

// SampleRate returns the decoded stream's rate in Hz.
func (s *FileSource) SampleRate() int { return s.dec.SampleRate() }

// Sample returns the voltage of the most recent frame in the next tick of audio.
// The stream restarts from the beginning when it runs out.
func (s *FileSource) Sample() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.last
	}

	n, err := io.ReadFull(s.dec, s.chunk)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		if _, serr := s.dec.Seek(0, io.SeekStart); serr != nil {
			log.Printf("adc: rewinding %s: %v", s.file.Name(), serr)
		}
	} else if err != nil {
		log.Printf("adc: reading %s: %v", s.file.Name(), err)
	}

	frames := n / s.frameBytes
	if frames == 0 {
		return s.last
	}
	s.last = s.toVolts(s.chunk[(frames-1)*s.frameBytes : frames*s.frameBytes])
	return s.last
}

func (s *FileSource) toVolts(frame []byte) float64 {
	var sum int
	channels := len(frame) / 2
	for ch := range channels {
		sum += int(int16(binary.LittleEndian.Uint16(frame[ch*2:])))
	}
	mono := sum / channels
	raw := uint16(mono + 1<<15)
	return Convert(raw, s.vref) * s.gain
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
