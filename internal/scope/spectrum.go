package scope

import (
	"math"
	"time"
)

// spectrumDecay is the share of the previous magnitude kept on each update.
const spectrumDecay = 0.3

// Spectrum is the magnitude spectrum of the most recent frame.
type Spectrum struct {
	size int
	real []float64
	imag []float64
	mags []float64
}

// NewSpectrum creates an empty spectrum.
func NewSpectrum() *Spectrum {
	return &Spectrum{}
}

// Update transforms a frame: DC removal, Hann window, zero padding to a power
// of two, FFT. Magnitudes are in volts and smoothed against the previous frame.
func (s *Spectrum) Update(samples []float64) {
	n := len(samples)
	if n < 2 {
		s.Clear()
		return
	}
	size := nextPow2(n)
	if size != s.size {
		s.size = size
		s.real = make([]float64, size)
		s.imag = make([]float64, size)
		s.mags = make([]float64, size/2)
	}

	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	// Hann window coherent gain is 0.5.
	var gain float64
	for i := range size {
		s.imag[i] = 0
		if i >= n {
			s.real[i] = 0
			continue
		}
		w := 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(n-1)))
		s.real[i] = (samples[i] - mean) * w
		gain += w
	}

	if gain == 0 {
		gain = 1
	}

	fft(s.real, s.imag)

	for i := range s.mags {
		mag := 2 * math.Hypot(s.real[i], s.imag[i]) / gain
		s.mags[i] = s.mags[i]*spectrumDecay + mag*(1-spectrumDecay)
	}
}

// Clear drops the spectrum.
func (s *Spectrum) Clear() {
	s.size = 0
	s.real, s.imag, s.mags = nil, nil, nil
}

// Bins returns the smoothed magnitude of each frequency bin up to Nyquist.
func (s *Spectrum) Bins() []float64 { return s.mags }

// BinWidth returns the frequency step between bins for samples interval apart.
func (s *Spectrum) BinWidth(interval time.Duration) float64 {
	if s.size == 0 || interval <= 0 {
		return 0
	}
	return 1 / (interval.Seconds() * float64(s.size))
}

// Peak returns the strongest non-DC bin as a frequency and magnitude.
func (s *Spectrum) Peak(interval time.Duration) (hz, volts float64) {
	best := 0
	for i := 1; i < len(s.mags); i++ {
		if best == 0 || s.mags[i] > s.mags[best] {
			best = i
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(best) * s.BinWidth(interval), s.mags[best]
}

// Draw plots the bins as bars rising from the time axis.
func (s *Spectrum) Draw(surf Surface, l Layout, c Color) {
	n := len(s.mags)
	if n == 0 {
		return
	}
	base := l.YMax / 2
	for i, mag := range s.mags {
		x := l.XFromSample(i, n)
		y := l.YFromVolt(min(mag, VoltMax))
		surf.Line(x, base, x, y, c)
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// fft performs an in-place radix-2 Cooley-Tukey FFT on complex data.
// len(real) and len(imag) must be equal and a power of 2.
func fft(real, imag []float64) {
	n := len(real)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation
	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j ^= bit
			bit >>= 1
		}
		j ^= bit
		if i < j {
			real[i], real[j] = real[j], real[i]
			imag[i], imag[j] = imag[j], imag[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		angleStep := -2.0 * math.Pi / float64(size)
		for i := 0; i < n; i += size {
			for k := range half {
				angle := angleStep * float64(k)
				wr, wi := math.Cos(angle), math.Sin(angle)
				a := i + k
				b := a + half
				tr := wr*real[b] - wi*imag[b]
				ti := wr*imag[b] + wi*real[b]
				real[b] = real[a] - tr
				imag[b] = imag[a] - ti
				real[a] += tr
				imag[a] += ti
			}
		}
	}
}
