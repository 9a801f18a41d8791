package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/cliscope/internal/adc"
	"github.com/olivier-w/cliscope/internal/frame"
	"github.com/olivier-w/cliscope/internal/sampler"
	"github.com/olivier-w/cliscope/internal/ui"
)

// defaultSamples fills the plot between the first and last time division
// of the board's 800 pixel wide display.
const defaultSamples = 791

var errInvalidFlag = errors.New("invalid flag value")

// usageOutput receives the flag list for -h.
var usageOutput io.Writer = os.Stderr

type config struct {
	source    string
	frequency float64
	amplitude float64
	offset    float64
	samples   int
	interval  time.Duration
	trigger   ui.TriggerMode
	listen    bool
	pick      bool
	vref      float64
	gain      float64
}

func parseFlags(args []string) (config, error) {
	var cfg config
	var trigger string

	fs := flag.NewFlagSet("cliscope", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.source, "source", "sine", "signal generator (sine, square, triangle, saw) or audio file")
	fs.Float64Var(&cfg.frequency, "freq", 5, "generator frequency in Hz")
	fs.Float64Var(&cfg.amplitude, "amp", 10, "generator peak amplitude in volts")
	fs.Float64Var(&cfg.offset, "offset", 0, "generator DC offset in volts")
	fs.IntVar(&cfg.samples, "samples", defaultSamples, "samples per frame")
	fs.DurationVar(&cfg.interval, "interval", time.Millisecond, "time between samples")
	fs.StringVar(&trigger, "trigger", "auto", "trigger mode after a frame is drawn (auto, single)")
	fs.BoolVar(&cfg.listen, "listen", false, "play an audio file source while measuring it")
	fs.BoolVar(&cfg.pick, "pick", false, "choose the source interactively")
	fs.Float64Var(&cfg.vref, "vref", adc.DefaultVRef, "reference voltage of the converter")
	fs.Float64Var(&cfg.gain, "gain", 1, "input gain applied to file sources")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(usageOutput)
			fmt.Fprintln(usageOutput, "Usage: cliscope [flags] [source]")
			fs.PrintDefaults()
		}
		return config{}, err
	}

	if fs.NArg() > 1 {
		return config{}, fmt.Errorf("%w: expected at most one source argument, got %d", errInvalidFlag, fs.NArg())
	}
	if fs.NArg() == 1 {
		cfg.source = fs.Arg(0)
	}

	mode, ok := ui.ParseTriggerMode(trigger)
	if !ok {
		return config{}, fmt.Errorf("%w: -trigger %q (want auto or single)", errInvalidFlag, trigger)
	}
	cfg.trigger = mode

	if cfg.interval <= 0 {
		return config{}, fmt.Errorf("%w: -interval must be positive", errInvalidFlag)
	}
	if cfg.vref <= 0 {
		return config{}, fmt.Errorf("%w: -vref must be positive", errInvalidFlag)
	}
	// -samples is validated by frame.New.
	return cfg, nil
}

// isFileSource reports whether source names an audio file rather than a generator.
func isFileSource(source string) bool {
	if _, err := adc.ParseWave(source); err == nil {
		return false
	}
	return true
}

// openSource builds the sample source for cfg. The returned closer is nil
// for generators.
func openSource(cfg config) (adc.Source, io.Closer, string, error) {
	if !isFileSource(cfg.source) {
		wave, _ := adc.ParseWave(cfg.source)
		src := &adc.Synthetic{
			Wave:      wave,
			Amplitude: cfg.amplitude,
			Offset:    cfg.offset,
			Frequency: cfg.frequency,
			Rate:      float64(time.Second) / float64(cfg.interval),
		}
		title := fmt.Sprintf("%s %g Hz", wave, cfg.frequency)
		return src, nil, title, nil
	}

	info, err := os.Stat(cfg.source)
	if err != nil {
		return nil, nil, "", err
	}
	if info.IsDir() {
		return nil, nil, "", fmt.Errorf("%s is a directory", cfg.source)
	}
	ext := strings.ToLower(filepath.Ext(cfg.source))
	if !adc.IsSupportedExt(ext) {
		return nil, nil, "", fmt.Errorf("unsupported format %s (supported: %s)", ext, adc.SupportedExtsList())
	}

	src, err := adc.OpenFile(cfg.source, cfg.interval, cfg.vref, cfg.gain)
	if err != nil {
		return nil, nil, "", fmt.Errorf("opening %s: %w", cfg.source, err)
	}
	log.Printf("cliscope: %s decodes at %d Hz", cfg.source, src.SampleRate())
	return src, src, adc.ReadMetadata(cfg.source).Label(), nil
}

func pickSource() (string, bool, error) {
	picker := ui.NewPicker(".")
	if err := picker.Error(); err != nil {
		return "", false, err
	}
	finalModel, err := tea.NewProgram(picker, tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, err
	}
	pm, ok := finalModel.(ui.PickerModel)
	if !ok {
		return "", false, errors.New("unexpected model type from picker")
	}
	result := pm.Result()
	return result.Source, !result.Cancelled, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if os.Getenv("CLISCOPE_DEBUG") != "" {
		f, err := tea.LogToFile("cliscope-debug.log", "cliscope")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	if cfg.pick {
		source, ok, err := pickSource()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		cfg.source = source
	}

	src, closer, title, err := openSource(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	buf, err := frame.New(cfg.samples)
	if err != nil {
		return fmt.Errorf("-samples %d: %w", cfg.samples, err)
	}
	defer buf.Close()

	opts := ui.Options{Title: title, Trigger: cfg.trigger}
	if cfg.listen {
		if !isFileSource(cfg.source) {
			return fmt.Errorf("%w: -listen needs an audio file source", errInvalidFlag)
		}
		mon, err := adc.NewMonitor(cfg.source)
		if err != nil {
			return fmt.Errorf("creating monitor: %w", err)
		}
		defer mon.Close()
		opts.Monitor = mon
	}

	s := sampler.New(src, buf, cfg.interval)
	s.Start()
	defer s.Stop()
	log.Printf("cliscope: measuring %q, %d samples every %v", cfg.source, cfg.samples, cfg.interval)

	program := tea.NewProgram(ui.New(s, buf, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
