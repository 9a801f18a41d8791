package adc

import (
	"io"
	"os"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

// The audio device is opened once per process with the first file's format.
func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return otoCtx, otoInitErr
}

// Monitor plays a file source through the speakers while it is being measured.
type Monitor struct {
	file   *os.File
	player *oto.Player
	volume float64
	paused bool
	closed bool
	mu     sync.Mutex
}

// NewMonitor starts looping playback of path.
func NewMonitor(path string) (*Monitor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	ctx, err := initOto(dec.SampleRate(), dec.ChannelCount())
	if err != nil {
		f.Close()
		return nil, err
	}

	m := &Monitor{file: f, volume: 0.8}
	m.player = ctx.NewPlayer(&loopReader{dec: dec})
	m.player.SetVolume(m.volume)
	m.player.Play()
	return m, nil
}

// TogglePause pauses or resumes playback.
func (m *Monitor) TogglePause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.paused {
		m.player.Play()
	} else {
		m.player.Pause()
	}
	m.paused = !m.paused
}

// Paused reports whether playback is paused.
func (m *Monitor) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// SetVolume sets the playback volume, clamped to [0, 1].
func (m *Monitor) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.volume = max(0, min(v, 1))
	if !m.closed {
		m.player.SetVolume(m.volume)
	}
}

// Volume returns the current playback volume.
func (m *Monitor) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Close stops playback and releases the file.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.player.Pause()
	m.player.Close()
	m.file.Close()
}

// loopReader rewinds the decoder whenever it reaches the end.
type loopReader struct {
	dec pcmDecoder
}

func (r *loopReader) Read(p []byte) (int, error) {
	n, err := r.dec.Read(p)
	if n == 0 && err != nil {
		if _, serr := r.dec.Seek(0, io.SeekStart); serr != nil {
			return 0, serr
		}
		return r.dec.Read(p)
	}
	return n, nil
}
