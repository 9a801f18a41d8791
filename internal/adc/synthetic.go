package adc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidWave is returned by ParseWave for unknown waveform names.
var ErrInvalidWave = errors.New("unknown waveform")

// Wave selects the shape of a Synthetic source.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
	Saw
)

func (w Wave) String() string {
	switch w {
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Saw:
		return "saw"
	default:
		return "sine"
	}
}

// ParseWave maps a waveform name to a Wave.
func ParseWave(name string) (Wave, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "square", "sq":
		return Square, nil
	case "triangle", "tri":
		return Triangle, nil
	case "saw", "sawtooth":
		return Saw, nil
	}
	return Sine, fmt.Errorf("%w: %q", ErrInvalidWave, name)
}

// Synthetic is a signal generator sampled at a fixed rate.
type Synthetic struct {
	Wave      Wave
	Amplitude float64 // peak volts
	Offset    float64 // DC volts
	Frequency float64 // Hz
	Rate      float64 // samples per second

	n int
}

// Sample returns the next generator value.
func (s *Synthetic) Sample() float64 {
	if s.Rate <= 0 {
		return s.Offset
	}
	phase := math.Mod(s.Frequency*float64(s.n)/s.Rate, 1)
	s.n++

	var v float64
	switch s.Wave {
	case Square:
		v = 1
		if phase >= 0.5 {
			v = -1
		}
	case Triangle:
		v = 1 - 4*math.Abs(phase-0.5)
	case Saw:
		v = 2*phase - 1
	default:
		v = math.Sin(2 * math.Pi * phase)
	}
	return s.Offset + s.Amplitude*v
}
