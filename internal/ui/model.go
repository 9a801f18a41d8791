package ui

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/cliscope/internal/frame"
	"github.com/olivier-w/cliscope/internal/sampler"
	"github.com/olivier-w/cliscope/internal/scope"
	"github.com/olivier-w/cliscope/internal/util"
)

// Monitor is audible playback of the measured source.
type Monitor interface {
	TogglePause()
	Paused() bool
	SetVolume(v float64)
	Volume() float64
	Close()
}

// volumeStep is the change applied by one volume key press.
const volumeStep = 0.05

// Options configures a Model.
type Options struct {
	Title   string
	Trigger TriggerMode
	Monitor Monitor // nil when not listening
}

// chromeLines is the number of terminal rows used around the plot.
const chromeLines = 9

// Model is the Bubbletea model for the scope screen.
type Model struct {
	sampler *sampler.Sampler
	buf     *frame.Buffer
	monitor Monitor
	title   string

	canvas *scope.Canvas
	layout scope.Layout
	trace  *scope.Trace
	fft    *scope.Spectrum

	trigger   TriggerMode
	drawnOnce bool // current frame is on screen
	held      bool // single-shot frame captured, waiting for reset
	reading   float64
	frames    int
	hist      *history
	showFFT   bool

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model

	width    int
	height   int
	quitting bool
}

// New creates a Model displaying frames from buf as s fills them.
func New(s *sampler.Sampler, buf *frame.Buffer, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	keys := defaultKeyMap()
	keys.Listen.SetEnabled(opts.Monitor != nil)
	keys.VolumeUp.SetEnabled(opts.Monitor != nil)
	keys.VolumeDown.SetEnabled(opts.Monitor != nil)

	m := Model{
		sampler: s,
		buf:     buf,
		monitor: opts.Monitor,
		title:   opts.Title,
		canvas:  scope.NewCanvas(60, 16),
		trace:   scope.NewTrace(refreshRate),
		fft:     scope.NewSpectrum(),
		trigger: opts.Trigger,
		hist:    newHistory(),
		keys:    keys,
		help:    help.New(),
		spinner: sp,
		progress: progress.New(
			progress.WithScaledGradient("#FADC3C", "#DC322F"),
			progress.WithoutPercentage(),
			progress.WithWidth(20),
		),
	}
	m.layout = scope.NewLayout(m.canvas.Size())
	m.redraw()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(), m.spinner.Tick, tea.SetWindowTitle(windowTitle(m.title, true)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshMsg:
		m.refresh()
		return m, refreshCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.sampler.Stop()
		if m.monitor != nil {
			m.monitor.Close()
		}
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Start):
		if m.held {
			return m, nil
		}
		m.sampler.Start()
		log.Printf("ui: start")
		return m, tea.SetWindowTitle(windowTitle(m.title, true))

	case key.Matches(msg, m.keys.Stop):
		m.sampler.Stop()
		log.Printf("ui: stop at %v", m.sampler.Elapsed())
		return m, tea.SetWindowTitle(windowTitle(m.title, false))

	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return m, tea.SetWindowTitle(windowTitle(m.title, m.sampler.Running()))

	case key.Matches(msg, m.keys.Trigger):
		m.trigger = m.trigger.Next()
		if m.trigger == TriggerAuto && m.held {
			m.held = false
			m.drawnOnce = false
			m.sampler.Start()
		}
		return m, nil

	case key.Matches(msg, m.keys.Persistence):
		m.trace.Persistence = !m.trace.Persistence
		return m, nil

	case key.Matches(msg, m.keys.Spectrum):
		m.showFFT = !m.showFFT
		m.redraw()
		return m, nil

	case key.Matches(msg, m.keys.Listen):
		m.monitor.TogglePause()
		return m, nil

	case key.Matches(msg, m.keys.VolumeUp):
		m.monitor.SetVolume(m.monitor.Volume() + volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.VolumeDown):
		m.monitor.SetVolume(m.monitor.Volume() - volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}
	return m, nil
}

// refresh is one pass of the display loop: draw a full frame once, then
// either wait for reset or go on to the next frame.
func (m *Model) refresh() {
	if m.buf.Full() && !m.drawnOnce {
		samples := m.buf.Drain()
		m.trace.Update(samples)
		m.fft.Update(samples)
		m.reading = samples[len(samples)-1]
		m.hist.Add(statsOf(samples))
		m.frames++
		m.drawnOnce = true

		switch m.trigger {
		case TriggerSingle:
			m.sampler.Stop()
			m.held = true
		default:
			m.drawnOnce = false
		}
	} else {
		m.trace.Step()
	}
	m.redraw()
}

// reset clears the display and starts a new measurement, like the board's right button.
func (m *Model) reset() {
	m.sampler.Reset()
	if m.held {
		m.held = false
		m.sampler.Start()
	}
	m.drawnOnce = false
	m.trace.Update(nil)
	m.fft.Clear()
	m.hist.Clear()
	m.frames = 0
	m.reading = 0
	log.Printf("ui: reset")
	m.redraw()
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	helpLines := 1
	if m.help.ShowAll {
		for _, col := range m.keys.FullHelp() {
			helpLines = max(helpLines, len(col))
		}
	}
	cols := max(m.width-4, 20)
	rows := max(m.height-chromeLines-helpLines, 6)
	m.canvas.Resize(cols, rows)
	m.layout = scope.NewLayout(m.canvas.Size())
	m.help.Width = m.width - 2
	m.progress.Width = min(max(m.width/4, 10), 40)
	m.redraw()
}

func (m *Model) redraw() {
	n := m.buf.Size()
	m.canvas.Clear()
	scope.DrawAxes(m.canvas, m.layout, m.layout.Division(n, m.sampler.Interval()))
	if m.showFFT {
		m.fft.Draw(m.canvas, m.layout, scope.Red)
	} else {
		m.trace.Draw(m.canvas, m.layout, scope.Yellow)
	}
	if m.sampler.Running() {
		x := m.layout.XFromTime(int64(m.buf.Count()), int64(m.layout.SamplesPerDivision(n)))
		y := m.layout.YMax / 2
		m.canvas.Line(x, y-3, x, y+3, scope.Grey)
	}
	m.canvas.Text(2, 1, scope.InfoText(m.reading), scope.White)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render("cliscope")
	if m.title != "" {
		header += "  " + titleStyle.Render(m.title)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + header + "\n")
	b.WriteString(" " + scopeStyle.Render(m.canvas.Present()) + "\n")
	b.WriteString("  " + m.statusLine() + "\n")
	b.WriteString("  " + m.readoutLine() + "\n")
	b.WriteString("\n")
	b.WriteString("  " + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m Model) statusLine() string {
	icon, state := "■", "stopped"
	switch {
	case m.held:
		icon, state = "◆", "held"
	case m.sampler.Running():
		icon, state = "●", "measuring"
	}

	left := fmt.Sprintf("%s  %s  %s", icon, state, m.trigger.Icon())
	if m.trace.Persistence {
		left += "  [persist]"
	}
	if m.showFFT {
		left += "  [fft]"
	}
	if m.monitor != nil && !m.monitor.Paused() {
		left += fmt.Sprintf("  [listen %d%%]", int(math.Round(m.monitor.Volume()*100)))
	}

	fill := m.progress.ViewAs(fillRatio(m.buf.Count(), m.buf.Size()))
	if m.sampler.Running() && m.buf.Count() == 0 {
		fill = m.spinner.View() + " waiting"
	}
	elapsed := util.FormatDuration(m.sampler.Elapsed())
	return statusStyle.Render(left) + spaces(3) + fill + spaces(2) + statusStyle.Render(elapsed)
}

func (m Model) readoutLine() string {
	reading := readingStyle.Render(scope.InfoText(m.reading))
	s, ok := m.hist.Latest()
	if !ok {
		return reading
	}
	lo, hi := m.hist.Envelope()
	stats := fmt.Sprintf("min %.3f  max %.3f  mean %.3f  Vpp %.3f  env [%.2f, %.2f]  frames %d",
		s.Min, s.Max, s.Mean, s.PeakToPeak(), lo, hi, m.frames)
	if hz, volts := m.fft.Peak(m.sampler.Interval()); hz > 0 {
		stats += fmt.Sprintf("  peak %.3f V @ %.1f Hz", volts, hz)
	}
	return reading + spaces(3) + helpStyle.Render(stats)
}

func windowTitle(title string, measuring bool) string {
	name := "cliscope"
	if title != "" {
		name = title + " — cliscope"
	}
	if measuring {
		return "● " + name
	}
	return "■ " + name
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
