package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/cliscope/internal/adc"
	"github.com/olivier-w/cliscope/internal/frame"
	"github.com/olivier-w/cliscope/internal/sampler"
)

type fakeMonitor struct {
	paused bool
	closed bool
	volume float64
}

func (f *fakeMonitor) TogglePause()        { f.paused = !f.paused }
func (f *fakeMonitor) Paused() bool        { return f.paused }
func (f *fakeMonitor) SetVolume(v float64) { f.volume = max(0, min(v, 1)) }
func (f *fakeMonitor) Volume() float64     { return f.volume }
func (f *fakeMonitor) Close()              { f.closed = true }

// newTestModel returns a model over a stopped sampler. The hour-long interval
// keeps a started sampler from ticking during the test.
func newTestModel(t *testing.T, size int, opts Options) (Model, *sampler.Sampler, *frame.Buffer) {
	t.Helper()
	buf, err := frame.New(size)
	if err != nil {
		t.Fatalf("frame.New: %v", err)
	}
	s := sampler.New(adc.NewCounter(func(int) float64 { return 0 }), buf, time.Hour)
	t.Cleanup(func() {
		s.Stop()
		buf.Close()
	})
	return New(s, buf, opts), s, buf
}

func fill(buf *frame.Buffer, values ...float64) {
	for _, v := range values {
		buf.Push(v)
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestRefreshDrawsFullFrameInAutoMode(t *testing.T) {
	m, _, buf := newTestModel(t, 3, Options{})
	fill(buf, 1, 2, 3)

	next, cmd := m.handleMsg(refreshMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected next refresh to be scheduled")
	}
	if next.reading != 3 {
		t.Fatalf("reading = %v, want 3", next.reading)
	}
	if next.frames != 1 {
		t.Fatalf("frames = %d, want 1", next.frames)
	}
	if next.held || next.drawnOnce {
		t.Fatal("auto mode should be ready for the next frame")
	}
	if buf.Count() != 0 {
		t.Fatalf("buffer count = %d, want 0 after drain", buf.Count())
	}
	if got := next.trace.Points(); len(got) != 3 || got[0] != 1 {
		t.Fatalf("trace = %v, want [1 2 3]", got)
	}
}

func TestRefreshIgnoresPartialFrame(t *testing.T) {
	m, _, buf := newTestModel(t, 3, Options{})
	fill(buf, 1, 2)

	next, _ := m.handleMsg(refreshMsg(time.Now()))
	if next.frames != 0 || next.reading != 0 {
		t.Fatalf("partial frame was drawn: frames=%d reading=%v", next.frames, next.reading)
	}
	if buf.Count() != 2 {
		t.Fatalf("buffer count = %d, want 2", buf.Count())
	}
}

func TestSingleTriggerHoldsUntilReset(t *testing.T) {
	m, s, buf := newTestModel(t, 2, Options{Trigger: TriggerSingle})
	fill(buf, 4, 5)

	m, _ = m.handleMsg(refreshMsg(time.Now()))
	if !m.held || !m.drawnOnce {
		t.Fatal("expected frame to be held")
	}

	// A second full frame must not replace the held one.
	fill(buf, 7, 8)
	m, _ = m.handleMsg(refreshMsg(time.Now()))
	if m.frames != 1 || m.reading != 5 {
		t.Fatalf("held frame replaced: frames=%d reading=%v", m.frames, m.reading)
	}

	// Start is ignored while held.
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyLeft})
	if s.Running() {
		t.Fatal("start should be ignored while a frame is held")
	}

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRight})
	if m.held || m.drawnOnce {
		t.Fatal("reset should release the held frame")
	}
	if !s.Running() {
		t.Fatal("reset should start a new measurement")
	}
	if buf.Count() != 0 {
		t.Fatalf("buffer count = %d, want 0 after reset", buf.Count())
	}
	if m.reading != 0 || len(m.trace.Points()) != 0 {
		t.Fatal("reset should clear the display")
	}
	if m.hist.Len() != 0 || m.frames != 0 {
		t.Fatalf("reset kept %d readouts and %d frames", m.hist.Len(), m.frames)
	}
	if strings.Contains(m.readoutLine(), "frames") {
		t.Fatalf("readout %q still shows the previous measurement", m.readoutLine())
	}
}

func TestTriggerKeyReleasesHeldFrame(t *testing.T) {
	m, s, buf := newTestModel(t, 1, Options{Trigger: TriggerSingle})
	fill(buf, 1)
	m, _ = m.handleMsg(refreshMsg(time.Now()))

	m, _ = m.handleMsg(runeKey('t'))
	if m.trigger != TriggerAuto {
		t.Fatalf("trigger = %v, want auto", m.trigger)
	}
	if m.held || !s.Running() {
		t.Fatal("switching to auto should resume sampling")
	}
}

func TestStartAndStopKeys(t *testing.T) {
	m, s, _ := newTestModel(t, 4, Options{})

	m, cmd := m.handleMsg(tea.KeyMsg{Type: tea.KeyLeft})
	if !s.Running() {
		t.Fatal("expected sampler running after start")
	}
	if cmd == nil {
		t.Fatal("expected window title command")
	}

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeySpace})
	if s.Running() {
		t.Fatal("expected sampler stopped after stop")
	}

	m, _ = m.handleMsg(runeKey('a'))
	if !s.Running() {
		t.Fatal("expected a to start the sampler")
	}
	_, _ = m.handleMsg(runeKey('o'))
	if s.Running() {
		t.Fatal("expected o to stop the sampler")
	}
}

func TestPersistenceKeyToggles(t *testing.T) {
	m, _, _ := newTestModel(t, 4, Options{})
	m, _ = m.handleMsg(runeKey('p'))
	if !m.trace.Persistence {
		t.Fatal("expected persistence on")
	}
	if !strings.Contains(m.statusLine(), "[persist]") {
		t.Fatalf("status line %q missing persistence marker", m.statusLine())
	}
	m, _ = m.handleMsg(runeKey('p'))
	if m.trace.Persistence {
		t.Fatal("expected persistence off")
	}
}

func TestListenKeyRequiresMonitor(t *testing.T) {
	m, _, _ := newTestModel(t, 4, Options{})
	if m.keys.Listen.Enabled() {
		t.Fatal("listen binding should be disabled without a monitor")
	}
	// Must not panic on a nil monitor.
	m.handleMsg(runeKey('m'))

	mon := &fakeMonitor{}
	m, _, _ = newTestModel(t, 4, Options{Monitor: mon})
	m, _ = m.handleMsg(runeKey('m'))
	if !mon.paused {
		t.Fatal("expected monitor paused")
	}
	if strings.Contains(m.statusLine(), "[listen]") {
		t.Fatal("paused monitor should not show listen marker")
	}
}

func TestVolumeKeysAdjustMonitor(t *testing.T) {
	m, _, _ := newTestModel(t, 4, Options{})
	if m.keys.VolumeUp.Enabled() || m.keys.VolumeDown.Enabled() {
		t.Fatal("volume bindings should be disabled without a monitor")
	}
	// Must not panic on a nil monitor.
	m.handleMsg(runeKey('+'))

	mon := &fakeMonitor{volume: 0.5}
	m, _, _ = newTestModel(t, 4, Options{Monitor: mon})
	m, _ = m.handleMsg(runeKey('+'))
	m, _ = m.handleMsg(runeKey('='))
	if math.Abs(mon.volume-0.6) > 1e-9 {
		t.Fatalf("volume = %v, want 0.6", mon.volume)
	}
	if !strings.Contains(m.statusLine(), "[listen 60%]") {
		t.Fatalf("status line %q missing volume", m.statusLine())
	}

	for range 20 {
		m, _ = m.handleMsg(runeKey('-'))
	}
	if mon.volume != 0 {
		t.Fatalf("volume = %v, want clamped to 0", mon.volume)
	}
}

func TestRefreshEasesPersistentTrace(t *testing.T) {
	m, _, buf := newTestModel(t, 2, Options{})
	m.trace.Persistence = true
	fill(buf, 0, 0)
	m, _ = m.handleMsg(refreshMsg(time.Now()))
	fill(buf, 10, 10)
	m, _ = m.handleMsg(refreshMsg(time.Now()))

	first := m.trace.Points()[0]
	if first <= 0 || first >= 10 {
		t.Fatalf("point = %v after new frame, want between 0 and 10", first)
	}
	// No new frame: the spring keeps moving toward the last one.
	m, _ = m.handleMsg(refreshMsg(time.Now()))
	if got := m.trace.Points()[0]; got <= first {
		t.Fatalf("point = %v after idle refresh, want past %v", got, first)
	}
}

func TestQuitStopsSamplerAndClosesMonitor(t *testing.T) {
	mon := &fakeMonitor{}
	m, s, _ := newTestModel(t, 4, Options{Monitor: mon})
	s.Start()

	next, cmd := m.handleMsg(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !next.quitting || s.Running() || !mon.closed {
		t.Fatal("expected quit to stop sampling and close the monitor")
	}
	if next.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestWindowSizeResizesCanvas(t *testing.T) {
	m, _, _ := newTestModel(t, 4, Options{})
	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 104, Height: 40})

	// Two pixels per cell across, four down.
	w, h := m.canvas.Size()
	if w != 2*100 {
		t.Fatalf("width = %d px, want %d", w, 2*100)
	}
	if h != 4*(40-chromeLines-1) {
		t.Fatalf("height = %d px, want %d", h, 4*(40-chromeLines-1))
	}
	if m.layout.XMax != w-1 || m.layout.YMax != h-1 {
		t.Fatal("layout not rebuilt for new canvas size")
	}
}

func TestViewShowsTitleAndReading(t *testing.T) {
	m, _, buf := newTestModel(t, 2, Options{Title: "bench"})
	fill(buf, 0.5, 1.5)
	m, _ = m.handleMsg(refreshMsg(time.Now()))

	view := m.View()
	for _, want := range []string{"cliscope", "bench", "U = 1.500000", "frames 1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestWindowTitle(t *testing.T) {
	if got := windowTitle("", true); got != "● cliscope" {
		t.Fatalf("windowTitle = %q", got)
	}
	if got := windowTitle("sine", false); got != "■ sine — cliscope" {
		t.Fatalf("windowTitle = %q", got)
	}
}

func TestHistoryKeepsMostRecentFrames(t *testing.T) {
	h := newHistory()
	if _, ok := h.Latest(); ok {
		t.Fatal("expected empty history")
	}
	for i := range historyLen + 5 {
		v := float64(i)
		h.Add(frameStats{Min: -v, Max: v})
	}
	if h.Len() != historyLen {
		t.Fatalf("Len() = %d, want %d", h.Len(), historyLen)
	}
	latest, _ := h.Latest()
	if latest.Max != historyLen+4 {
		t.Fatalf("latest max = %v, want %d", latest.Max, historyLen+4)
	}
	lo, hi := h.Envelope()
	if lo != -(historyLen+4) || hi != historyLen+4 {
		t.Fatalf("Envelope() = (%v, %v)", lo, hi)
	}
	h.Clear()
	if h.Len() != 0 {
		t.Fatal("expected cleared history")
	}
}

func TestStatsOf(t *testing.T) {
	s := statsOf([]float64{-1, 0, 4})
	if s.Min != -1 || s.Max != 4 || s.PeakToPeak() != 5 {
		t.Fatalf("statsOf = %+v", s)
	}
	if math.Abs(s.Mean-1) > 1e-12 {
		t.Fatalf("Mean = %v, want 1", s.Mean)
	}
	if got := statsOf(nil); got != (frameStats{}) {
		t.Fatalf("statsOf(nil) = %+v", got)
	}
}

func TestTriggerMode(t *testing.T) {
	if mode, ok := ParseTriggerMode("single"); !ok || mode != TriggerSingle {
		t.Fatal("expected single")
	}
	if _, ok := ParseTriggerMode("normal"); ok {
		t.Fatal("expected unknown mode to be rejected")
	}
	if TriggerAuto.Next() != TriggerSingle || TriggerSingle.Next() != TriggerAuto {
		t.Fatal("Next should cycle between modes")
	}
	if TriggerSingle.String() != "single" || TriggerAuto.Icon() != "[auto]" {
		t.Fatal("unexpected names")
	}
}

func TestFillRatio(t *testing.T) {
	tests := []struct {
		count, size int
		want        float64
	}{
		{count: 0, size: 10, want: 0},
		{count: 5, size: 10, want: 0.5},
		{count: 12, size: 10, want: 1},
		{count: 3, size: 0, want: 0},
	}
	for _, tt := range tests {
		if got := fillRatio(tt.count, tt.size); got != tt.want {
			t.Fatalf("fillRatio(%d, %d) = %v, want %v", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestSpectrumKeyShowsPeak(t *testing.T) {
	m, _, buf := newTestModel(t, 8, Options{})
	fill(buf, 0, 1, 0, -1, 0, 1, 0, -1)
	m, _ = m.handleMsg(refreshMsg(time.Now()))

	m, _ = m.handleMsg(runeKey('f'))
	if !m.showFFT {
		t.Fatal("expected fft view")
	}
	if !strings.Contains(m.statusLine(), "[fft]") {
		t.Fatalf("status line %q missing fft marker", m.statusLine())
	}
	if !strings.Contains(m.readoutLine(), "peak ") {
		t.Fatalf("readout %q missing spectrum peak", m.readoutLine())
	}

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRight})
	if len(m.fft.Bins()) != 0 {
		t.Fatal("reset should clear the spectrum")
	}
}
