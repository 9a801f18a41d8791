package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/cliscope/internal/adc"
)

// PickerResult holds the source chosen in the picker.
type PickerResult struct {
	Source    string
	Cancelled bool
}

type waveItem struct {
	wave adc.Wave
}

func (i waveItem) Title() string       { return i.wave.String() }
func (i waveItem) Description() string { return "signal generator" }
func (i waveItem) FilterValue() string { return i.wave.String() }

type fileItem struct {
	name string
	ext  string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.ext + " file" }
func (i fileItem) FilterValue() string { return i.name }

type pathItem struct{}

func (i pathItem) Title() string       { return "Open path..." }
func (i pathItem) Description() string { return "measure an audio file elsewhere" }
func (i pathItem) FilterValue() string { return "path" }

// PickerModel is the Bubbletea model for choosing what to measure.
type PickerModel struct {
	list     list.Model
	input    textinput.Model
	pathMode bool
	result   *PickerResult
	err      error
}

// NewPicker lists the built-in generators and the audio files in dir.
func NewPicker(dir string) PickerModel {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return PickerModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	var items []list.Item
	for _, w := range []adc.Wave{adc.Sine, adc.Square, adc.Triangle, adc.Saw} {
		items = append(items, waveItem{wave: w})
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !adc.IsSupportedExt(ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		items = append(items, fileItem{name: filepath.Join(dir, name), ext: filepath.Ext(e.Name())})
	}
	items = append(items, pathItem{})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#8A6D00", Dark: "#FADC3C"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#8A6D00", Dark: "#FADC3C"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "cliscope — pick a source"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "path/to/signal.wav"
	ti.CharLimit = 4096
	ti.Width = 60

	return PickerModel{list: l, input: ti}
}

// Error returns the initialization error, if any.
func (m PickerModel) Error() error {
	return m.err
}

// Result returns the picker result after the program finishes.
func (m PickerModel) Result() PickerResult {
	if m.result != nil {
		return *m.result
	}
	return PickerResult{Cancelled: true}
}

func (m PickerModel) Init() tea.Cmd {
	return tea.SetWindowTitle("cliscope")
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case pathItem:
				m.pathMode = true
				m.input.Focus()
				return m, textinput.Blink
			case waveItem:
				return m.choose(item.wave.String())
			case fileItem:
				return m.choose(item.name + item.ext)
			}
		case "q", "esc", "ctrl+c":
			m.result = &PickerResult{Cancelled: true}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) choose(source string) (tea.Model, tea.Cmd) {
	m.result = &PickerResult{Source: source}
	return m, tea.Quit
}

func (m PickerModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if path := strings.TrimSpace(m.input.Value()); path != "" {
				return m.choose(path)
			}
		case "esc":
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			return m, nil
		case "ctrl+c":
			m.result = &PickerResult{Cancelled: true}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	if m.pathMode {
		s := "\n"
		s += "  " + headerStyle.Render("cliscope") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Audio file:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	return m.list.View()
}
