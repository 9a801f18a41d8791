package scope

import "github.com/charmbracelet/harmonica"

// Trace holds the frame currently on screen. With persistence on, a new frame
// becomes the target of a spring per sample and Step eases the displayed
// values toward it, one spring step per display refresh.
type Trace struct {
	Persistence bool

	spring  harmonica.Spring
	points  []float64
	vel     []float64
	targets []float64
}

// NewTrace creates a trace whose persistence springs step at fps.
func NewTrace(fps int) *Trace {
	return &Trace{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.9)}
}

// Update loads a new frame. Without persistence, or when the frame length
// changes, it replaces the displayed values outright.
func (t *Trace) Update(samples []float64) {
	t.targets = append(t.targets[:0], samples...)
	if !t.Persistence || len(t.points) != len(samples) {
		t.points = append(t.points[:0], samples...)
		t.vel = make([]float64, len(samples))
		return
	}
	t.Step()
}

// Step advances every spring one frame toward the latest target.
func (t *Trace) Step() {
	if !t.Persistence {
		return
	}
	for i, target := range t.targets {
		t.points[i], t.vel[i] = t.spring.Update(t.points[i], t.vel[i], target)
	}
}

// Points returns the values currently displayed.
func (t *Trace) Points() []float64 { return t.points }

// Draw plots the trace, one pixel per sample joined by line segments.
func (t *Trace) Draw(s Surface, l Layout, c Color) {
	n := len(t.points)
	if n == 0 {
		return
	}
	px, py := l.XFromSample(0, n), l.YFromVolt(t.points[0])
	s.SetPixel(px, py, c)
	for i := 1; i < n; i++ {
		x, y := l.XFromSample(i, n), l.YFromVolt(t.points[i])
		s.Line(px, py, x, y, c)
		px, py = x, y
	}
}
