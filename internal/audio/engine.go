// Package audio plays the game's named sound cues through a beep mixer.
// Cues are synthesized, so no sound files ship with the binary. Without an
// output device the engine still accepts cues and hands out handles.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-escape/internal/core"
)

const sampleRate = beep.SampleRate(44100)

// Engine mixes every playing cue. It implements core.SoundSink.
type Engine struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	initialized bool
	muted       bool
	logger      *log.Logger
}

var _ core.SoundSink = (*Engine)(nil)

// New creates an engine. Call Init to attach it to the speaker.
func New(logger *log.Logger) *Engine {
	return &Engine{mixer: &beep.Mixer{}, rate: sampleRate, logger: logger}
}

// Init opens the output device. It is safe to call twice; on failure the
// engine keeps working silently.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}
	if err := speaker.Init(e.rate, e.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

// Close stops all sounds.
func (e *Engine) Close() {
	e.lock()
	defer e.unlock()
	e.mixer.Clear()
}

// SetMuted drops every later one-shot cue while true.
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	e.muted = muted
	e.mu.Unlock()
}

// Playing returns the number of streams in the mixer.
func (e *Engine) Playing() int {
	e.lock()
	defer e.unlock()
	return e.mixer.Len()
}

// Play starts the cue called name offset ms in. Looping cues repeat until
// paused. An unknown name returns a paused handle that never sounds.
func (e *Engine) Play(name string, offset float64, loop, autoplay bool) core.SoundHandle {
	c, ok := lookup(name)
	if !ok {
		if e.logger != nil {
			e.logger.Debug("unknown sound cue", "name", name)
		}
		return &handle{ctrl: &beep.Ctrl{Paused: true}}
	}

	var s beep.Streamer
	if loop {
		s = &repeat{c: c, rate: e.rate}
	} else {
		s = c.build(e.rate)
	}
	if skip := e.rate.N(time.Duration(offset * float64(time.Millisecond))); skip > 0 {
		buf := make([][2]float64, skip)
		s.Stream(buf)
	}

	ctrl := &beep.Ctrl{Streamer: s, Paused: !autoplay}
	h := &handle{e: e, ctrl: ctrl}

	e.mu.Lock()
	muted := e.muted
	e.mu.Unlock()
	if muted && !loop {
		ctrl.Paused = true
		return h
	}

	e.lock()
	e.mixer.Add(ctrl)
	e.unlock()
	return h
}

// lock guards the mixer against the speaker goroutine once it runs.
func (e *Engine) lock() {
	e.mu.Lock()
	initialized := e.initialized
	e.mu.Unlock()
	if initialized {
		speaker.Lock()
	}
}

func (e *Engine) unlock() {
	e.mu.Lock()
	initialized := e.initialized
	e.mu.Unlock()
	if initialized {
		speaker.Unlock()
	}
}

// repeat loops a cue forever. Each pass is a fresh synthesis since the
// oscillators cannot seek.
type repeat struct {
	c    cue
	rate beep.SampleRate
	cur  beep.Streamer
}

func (r *repeat) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		if r.cur == nil {
			r.cur = r.c.build(r.rate)
		}
		n, ok := r.cur.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			r.cur = nil
		}
	}
	return filled, true
}

func (r *repeat) Err() error { return nil }

// handle pauses and resumes one playing cue.
type handle struct {
	e    *Engine
	ctrl *beep.Ctrl
}

func (h *handle) set(paused bool) {
	if h.e == nil {
		h.ctrl.Paused = paused
		return
	}
	h.e.lock()
	h.ctrl.Paused = paused
	h.e.unlock()
}

func (h *handle) Pause()  { h.set(true) }
func (h *handle) Resume() { h.set(false) }

func (h *handle) Paused() bool {
	if h.e == nil {
		return h.ctrl.Paused
	}
	h.e.lock()
	defer h.e.unlock()
	return h.ctrl.Paused
}
