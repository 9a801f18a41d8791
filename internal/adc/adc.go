// Package adc provides the analog sample sources the scope measures.
package adc

// RegisterMax is the full-scale value of the 16-bit conversion register.
const RegisterMax = 0xFFFF

// DefaultVRef is the reference voltage of the board's analog input.
const DefaultVRef = 3.3

// Source produces one voltage reading per call.
type Source interface {
	Sample() float64
}

// Convert scales a raw register reading to volts against vref.
func Convert(raw uint16, vref float64) float64 {
	return float64(raw) * vref / RegisterMax
}

// Func adapts a function of the sample index to a Source.
type Func func(i int) float64

// Counter wraps a Func with the running sample index.
type Counter struct {
	fn Func
	i  int
}

// NewCounter returns a Source that calls fn with 0, 1, 2, ...
func NewCounter(fn Func) *Counter {
	return &Counter{fn: fn}
}

func (c *Counter) Sample() float64 {
	v := c.fn(c.i)
	c.i++
	return v
}
