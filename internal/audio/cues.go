package audio

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// cue describes a synthesized sound: one or two notes shaped by an
// attack/release envelope.
type cue struct {
	freq    float64
	freq2   float64 // second note, 0 for none
	dur     time.Duration
	wave    WaveType
	attack  time.Duration
	release time.Duration
	volume  float64
}

// cues maps the game's cue names to their synthesis. Numbered variants
// (dead1..dead8, gunFire1..gunFire3) share the base entry.
var cues = map[string]cue{
	"punch":         {freq: 140, dur: 80 * time.Millisecond, wave: WaveNoise, release: 60 * time.Millisecond, volume: 0.5},
	"hit":           {freq: 180, dur: 120 * time.Millisecond, wave: WaveSaw, release: 80 * time.Millisecond, volume: 0.5},
	"dead":          {freq: 220, freq2: 110, dur: 200 * time.Millisecond, wave: WaveSquare, release: 120 * time.Millisecond, volume: 0.4},
	"gunReload":     {freq: 600, dur: 60 * time.Millisecond, wave: WaveSquare, release: 40 * time.Millisecond, volume: 0.3},
	"gunFire":       {freq: 900, dur: 70 * time.Millisecond, wave: WaveSaw, release: 50 * time.Millisecond, volume: 0.4},
	"throw":         {freq: 300, dur: 90 * time.Millisecond, wave: WaveNoise, release: 60 * time.Millisecond, volume: 0.3},
	"boom":          {freq: 60, dur: 400 * time.Millisecond, wave: WaveNoise, release: 300 * time.Millisecond, volume: 0.7},
	"wrench":        {freq: 400, dur: 90 * time.Millisecond, wave: WaveSquare, release: 60 * time.Millisecond, volume: 0.3},
	"jetpack":       {freq: 90, dur: 500 * time.Millisecond, wave: WaveNoise, volume: 0.2},
	"rocketReload":  {freq: 500, dur: 80 * time.Millisecond, wave: WaveSquare, release: 50 * time.Millisecond, volume: 0.3},
	"rocketFire":    {freq: 120, dur: 300 * time.Millisecond, wave: WaveNoise, release: 200 * time.Millisecond, volume: 0.5},
	"rifleReload":   {freq: 700, dur: 60 * time.Millisecond, wave: WaveSquare, release: 40 * time.Millisecond, volume: 0.3},
	"rifleFire":     {freq: 1200, dur: 90 * time.Millisecond, wave: WaveSaw, release: 70 * time.Millisecond, volume: 0.4},
	"shotgunReload": {freq: 450, dur: 80 * time.Millisecond, wave: WaveSquare, release: 50 * time.Millisecond, volume: 0.3},
	"shotgunFire":   {freq: 200, dur: 180 * time.Millisecond, wave: WaveNoise, release: 120 * time.Millisecond, volume: 0.5},
	"saber":         {freq: 330, freq2: 660, dur: 120 * time.Millisecond, wave: WaveSaw, release: 60 * time.Millisecond, volume: 0.3},
	"droneLaunch":   {freq: 500, freq2: 750, dur: 150 * time.Millisecond, wave: WaveSine, release: 80 * time.Millisecond, volume: 0.3},
	"pickup":        {freq: 987.77, freq2: 1318.51, dur: 160 * time.Millisecond, wave: WaveSquare, release: 60 * time.Millisecond, volume: 0.3},
	"crumble":       {freq: 80, dur: 300 * time.Millisecond, wave: WaveNoise, release: 250 * time.Millisecond, volume: 0.4},
	"cut":           {freq: 1500, dur: 60 * time.Millisecond, wave: WaveNoise, release: 40 * time.Millisecond, volume: 0.2},
	"crabShot":      {freq: 350, dur: 80 * time.Millisecond, wave: WaveSquare, release: 60 * time.Millisecond, volume: 0.3},
	"exitLevel":     {freq: 523.25, freq2: 783.99, dur: 240 * time.Millisecond, wave: WaveSine, release: 100 * time.Millisecond, volume: 0.4},
	"kioskInteract": {freq: 880, dur: 50 * time.Millisecond, wave: WaveSine, release: 30 * time.Millisecond, volume: 0.3},
	"kioskDispense": {freq: 880, freq2: 1760, dur: 150 * time.Millisecond, wave: WaveSine, release: 60 * time.Millisecond, volume: 0.3},
	"alarm":         {freq: 660, freq2: 440, dur: 500 * time.Millisecond, wave: WaveSquare, release: 100 * time.Millisecond, volume: 0.4},
	"gameOver":      {freq: 392, freq2: 196, dur: 800 * time.Millisecond, wave: WaveSine, release: 400 * time.Millisecond, volume: 0.5},
}

// lookup finds the cue for name, falling back to the name without its
// trailing digits.
func lookup(name string) (cue, bool) {
	if c, ok := cues[name]; ok {
		return c, true
	}
	c, ok := cues[strings.TrimRight(name, "0123456789")]
	return c, ok
}

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + 1)), //#nosec G404 -- noise, not security
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.release > 0 && e.position >= start {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s at a linear volume; 0 or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// build synthesizes one pass of c.
func (c cue) build(rate beep.SampleRate) beep.Streamer {
	note := func(freq float64, d time.Duration) beep.Streamer {
		return newEnvelope(newOscillator(freq, d, c.wave, rate), d, c.attack, c.release, rate)
	}
	if c.freq2 == 0 {
		return newVolume(note(c.freq, c.dur), c.volume)
	}
	half := c.dur / 2
	return newVolume(beep.Seq(note(c.freq, half), note(c.freq2, half)), c.volume)
}
