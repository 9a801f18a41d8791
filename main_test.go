package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olivier-w/cliscope/internal/adc"
	"github.com/olivier-w/cliscope/internal/ui"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.source != "sine" || cfg.samples != defaultSamples || cfg.interval != time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.trigger != ui.TriggerAuto || cfg.vref != adc.DefaultVRef || cfg.gain != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-source", "square", "-freq", "2.5", "-samples", "100",
		"-interval", "250us", "-trigger", "single", "-pick",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.source != "square" || cfg.frequency != 2.5 || cfg.samples != 100 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.interval != 250*time.Microsecond || cfg.trigger != ui.TriggerSingle || !cfg.pick {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseFlagsPositionalSource(t *testing.T) {
	cfg, err := parseFlags([]string{"-amp", "3", "signal.wav"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.source != "signal.wav" || cfg.amplitude != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseFlagsRejectsInvalidValues(t *testing.T) {
	tests := [][]string{
		{"-trigger", "normal"},
		{"-interval", "0s"},
		{"-vref", "-1"},
		{"a.wav", "b.wav"},
	}
	for _, args := range tests {
		if _, err := parseFlags(args); !errors.Is(err, errInvalidFlag) {
			t.Fatalf("parseFlags(%v) error = %v, want errInvalidFlag", args, err)
		}
	}
	if _, err := parseFlags([]string{"-nope"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestHelpPrintsUsageAndSucceeds(t *testing.T) {
	var out bytes.Buffer
	usageOutput = &out
	t.Cleanup(func() { usageOutput = os.Stderr })

	if _, err := parseFlags([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
	for _, want := range []string{"Usage: cliscope", "-trigger", "-samples"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Fatalf("usage missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := run([]string{"-help"}); err != nil {
		t.Fatalf("run(-help) = %v, want nil", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected usage output from run")
	}
}

func TestOpenSourceGenerator(t *testing.T) {
	cfg, _ := parseFlags([]string{"-source", "tri", "-amp", "2", "-freq", "250"})
	src, closer, title, err := openSource(cfg)
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	if closer != nil {
		t.Fatal("generator should not need closing")
	}
	if title != "triangle 250 Hz" {
		t.Fatalf("title = %q", title)
	}
	// 1000 samples per second at 250 Hz: four samples per period.
	want := []float64{-2, 0, 2, 0}
	for i, w := range want {
		if got := src.Sample(); got != w {
			t.Fatalf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestOpenSourceRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, source := range []string{filepath.Join(dir, "missing.wav"), dir, txt} {
		cfg, _ := parseFlags([]string{"-source", source})
		if _, _, _, err := openSource(cfg); err == nil {
			t.Fatalf("openSource(%q) succeeded, want error", source)
		}
	}
}

func TestIsFileSource(t *testing.T) {
	if isFileSource("sine") || isFileSource("saw") {
		t.Fatal("generator names are not files")
	}
	if !isFileSource("signal.wav") {
		t.Fatal("expected file source")
	}
}
